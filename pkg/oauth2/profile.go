package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// LoginProfile is the provider-independent identity returned by login flows.
// Email is never empty.
type LoginProfile struct {
	Provider   string  `json:"provider"`
	ProviderID string  `json:"providerId"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Avatar     *string `json:"avatar"`
}

type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type githubProfile struct {
	ID        json.Number `json:"id"`
	Login     string      `json:"login"`
	Name      string      `json:"name"`
	Email     *string     `json:"email"`
	AvatarURL string      `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

type slackProfile struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	Sub       string `json:"sub"`
	UserID    string `json:"https://slack.com/user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	GivenName string `json:"given_name"`
	Picture   string `json:"picture"`
}

// fetchProfile retrieves and normalizes the identity behind accessToken.
func (u *upstream) fetchProfile(ctx context.Context, p ProviderConfig, accessToken string) (*LoginProfile, error) {
	switch p.ProfileStyle {
	case ProfileGoogle:
		return u.googleProfile(ctx, p, accessToken)
	case ProfileGitHub:
		return u.githubProfile(ctx, p, accessToken)
	case ProfileSlackOIDC:
		return u.slackProfile(ctx, p, accessToken)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLoginProvider, p.ID)
	}
}

func (u *upstream) googleProfile(ctx context.Context, p ProviderConfig, accessToken string) (*LoginProfile, error) {
	var g googleProfile
	if err := u.getJSON(ctx, p.ProfileURL, accessToken, &g); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}
	if g.Email == "" {
		return nil, fmt.Errorf("%w from %s", ErrEmailUnavailable, p.ID)
	}
	return &LoginProfile{
		Provider:   p.ID,
		ProviderID: g.ID,
		Email:      g.Email,
		Name:       g.Name,
		Avatar:     optional(g.Picture),
	}, nil
}

func (u *upstream) githubProfile(ctx context.Context, p ProviderConfig, accessToken string) (*LoginProfile, error) {
	var gh githubProfile
	if err := u.getJSON(ctx, p.ProfileURL, accessToken, &gh); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}

	email := ""
	if gh.Email != nil {
		email = strings.TrimSpace(*gh.Email)
	}
	if email == "" {
		var emails []githubEmail
		if err := u.getJSON(ctx, p.EmailsURL, accessToken, &emails); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return nil, fmt.Errorf("%w from %s", ErrEmailUnavailable, p.ID)
	}

	name := gh.Name
	if name == "" {
		name = gh.Login
	}
	return &LoginProfile{
		Provider:   p.ID,
		ProviderID: gh.ID.String(),
		Email:      email,
		Name:       name,
		Avatar:     optional(gh.AvatarURL),
	}, nil
}

func (u *upstream) slackProfile(ctx context.Context, p ProviderConfig, accessToken string) (*LoginProfile, error) {
	var s slackProfile
	if err := u.getJSON(ctx, p.ProfileURL, accessToken, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}
	if !s.OK {
		return nil, fmt.Errorf("%w: %s", ErrProfileFetchFailed, s.Error)
	}
	if s.Email == "" {
		return nil, ErrSlackEmailUnavailable
	}

	id := s.Sub
	if id == "" {
		id = s.UserID
	}
	name := s.Name
	if name == "" {
		name = s.GivenName
	}
	return &LoginProfile{
		Provider:   p.ID,
		ProviderID: id,
		Email:      s.Email,
		Name:       name,
		Avatar:     optional(s.Picture),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
