package oauth2

import (
	"context"
	"errors"
	"time"
)

var (
	ErrStateNotFound = errors.New("state not found")
	ErrStateExpired  = errors.New("state expired")
	ErrStateExists   = errors.New("state token already issued")
)

// Purpose distinguishes integration flows from login (SSO) flows.
type Purpose string

const (
	PurposeIntegration Purpose = "integration"
	PurposeLogin       Purpose = "login"
)

// LoginTenant is the tenant sentinel carried by login states.
const LoginTenant = "__login__"

// AuthorizationState correlates an authorize redirect with its callback.
type AuthorizationState struct {
	Token     string    `json:"token"`
	TenantID  string    `json:"tenant_id"`
	Provider  string    `json:"provider"`
	Scopes    []string  `json:"scopes"`
	Purpose   Purpose   `json:"purpose"`
	Shop      string    `json:"shop,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *AuthorizationState) expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// StateStorage holds pending authorization states.
//
// Consume must be an atomic remove-and-fetch: of any number of concurrent
// callers for the same token, at most one receives the state.
type StateStorage interface {
	Save(ctx context.Context, state *AuthorizationState) error
	Consume(ctx context.Context, token string) (*AuthorizationState, error)
	Cleanup()
}
