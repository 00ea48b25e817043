package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
)

const DefaultCookieName = "vocalia_session"

// LoginIssuer stores a verified login profile as a session and returns the
// cookie that references it.
type LoginIssuer struct {
	store      Client
	ttl        time.Duration
	cookieName string
	secure     bool
}

var _ oauth2.LoginSessionIssuer = (*LoginIssuer)(nil)

func NewLoginIssuer(store Client, ttl time.Duration, secure bool) *LoginIssuer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &LoginIssuer{store: store, ttl: ttl, cookieName: DefaultCookieName, secure: secure}
}

func (i *LoginIssuer) IssueLoginSession(ctx context.Context, profile *oauth2.LoginProfile) (*oauth2.SessionCookie, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}

	s, err := i.store.Create(ctx, data, i.ttl)
	if err != nil {
		return nil, err
	}

	return &oauth2.SessionCookie{
		Name:   i.cookieName,
		Value:  s.ID,
		MaxAge: int(i.ttl.Seconds()),
		Secure: i.secure,
	}, nil
}

func (i *LoginIssuer) CookieName() string {
	return i.cookieName
}

// ExpiredCookie returns a cookie that clears the session cookie in the browser.
func (i *LoginIssuer) ExpiredCookie() *oauth2.SessionCookie {
	return &oauth2.SessionCookie{Name: i.cookieName, MaxAge: -1, Secure: i.secure}
}

// CurrentProfile resolves a session cookie value to the stored login profile.
func (i *LoginIssuer) CurrentProfile(ctx context.Context, sessionID string) (*oauth2.LoginProfile, error) {
	s, err := i.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return Profile(s)
}

func (i *LoginIssuer) EndSession(ctx context.Context, sessionID string) error {
	return i.store.Delete(ctx, sessionID)
}

// Profile decodes the login profile stored in a session.
func Profile(s *Session) (*oauth2.LoginProfile, error) {
	var p oauth2.LoginProfile
	if err := json.Unmarshal(s.Data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}
