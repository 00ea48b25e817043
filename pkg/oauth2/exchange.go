package oauth2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultHTTPTimeout = 10 * time.Second
	maxResponseBytes   = 1 << 20
)

// TokenPayload is a decoded token endpoint response. Raw keeps every field
// so provider-specific values (incoming_webhook.url, team.id) stay reachable.
type TokenPayload struct {
	AccessToken  string
	RefreshToken string
	Raw          map[string]any
}

// Lookup resolves a dotted path such as "incoming_webhook.url" to a string
// value. Non-scalar and missing values report false.
func (t *TokenPayload) Lookup(path string) (string, bool) {
	return lookupPath(t.Raw, path)
}

func lookupPath(m map[string]any, path string) (string, bool) {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = obj[part]; !ok {
			return "", false
		}
	}

	switch v := cur.(type) {
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), true
	case bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

// upstream performs single-attempt outbound calls bounded by timeout.
type upstream struct {
	client  *http.Client
	timeout time.Duration
}

func newUpstream(client *http.Client, timeout time.Duration) *upstream {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &upstream{client: client, timeout: timeout}
}

type tokenRequest struct {
	Endpoint    string
	Encoding    TokenEncoding
	Code        string
	RedirectURI string
	Credentials ClientCredentials
}

// exchangeCode trades an authorization code for tokens. It does not require
// an access token in the response; callers decide how to treat its absence.
func (u *upstream) exchangeCode(ctx context.Context, r tokenRequest) (*TokenPayload, error) {
	fields := map[string]string{
		"client_id":     r.Credentials.ClientID,
		"client_secret": r.Credentials.ClientSecret,
		"code":          r.Code,
		"redirect_uri":  r.RedirectURI,
		"grant_type":    "authorization_code",
	}

	var (
		body        io.Reader
		contentType string
	)
	switch r.Encoding {
	case TokenEncodingJSON:
		raw, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTokenExchangeFailed, err)
		}
		body, contentType = bytes.NewReader(raw), "application/json"
	default:
		form := url.Values{}
		for k, v := range fields {
			form.Set(k, v)
		}
		body, contentType = strings.NewReader(form.Encode()), "application/x-www-form-urlencoded"
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create token request: %w", ErrTokenExchangeFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchangeFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read token response: %w", ErrTokenExchangeFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrTokenExchangeFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	payload := &TokenPayload{}
	if payload.Raw, err = decodeObject(raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode token response: %w", ErrTokenExchangeFailed, err)
	}
	// Slack reports failures as 200 with ok=false.
	if ok, present := payload.Raw["ok"].(bool); present && !ok {
		reason, _ := lookupPath(payload.Raw, "error")
		return nil, fmt.Errorf("%w: %s", ErrTokenExchangeFailed, reason)
	}
	if msg, ok := lookupPath(payload.Raw, "error"); ok {
		desc, _ := lookupPath(payload.Raw, "error_description")
		return nil, fmt.Errorf("%w: %s %s", ErrTokenExchangeFailed, msg, desc)
	}

	payload.AccessToken, _ = payload.Lookup("access_token")
	payload.RefreshToken, _ = payload.Lookup("refresh_token")
	return payload, nil
}

// getJSON issues an authenticated GET and decodes the body into out.
func (u *upstream) getJSON(ctx context.Context, endpoint, accessToken string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "oauth-gateway")

	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("empty token response")
	}
	return m, nil
}
