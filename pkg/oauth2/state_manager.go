package oauth2

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultStateTTL = 10 * time.Minute
	MaxStateTTL     = time.Hour
)

// StateManager issues and consumes single-use authorization states.
type StateManager struct {
	store StateStorage
	ttl   time.Duration
	now   func() time.Time
}

type StateOption func(*AuthorizationState)

// WithShop binds a Shopify shop to the state so the callback exchanges
// against the same shop.
func WithShop(shop string) StateOption {
	return func(s *AuthorizationState) {
		s.Shop = shop
	}
}

// NewStateManager returns a manager over store. A zero ttl selects
// DefaultStateTTL; ttl is capped at MaxStateTTL.
func NewStateManager(store StateStorage, ttl time.Duration) *StateManager {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	if ttl > MaxStateTTL {
		ttl = MaxStateTTL
	}
	return &StateManager{store: store, ttl: ttl, now: time.Now}
}

func (m *StateManager) TTL() time.Duration {
	return m.ttl
}

// GenerateState records a new state and returns its token.
func (m *StateManager) GenerateState(ctx context.Context, tenantID, provider string, scopes []string, purpose Purpose, opts ...StateOption) (string, error) {
	switch purpose {
	case PurposeLogin:
		tenantID = LoginTenant
	case PurposeIntegration:
		if tenantID == "" || tenantID == LoginTenant {
			return "", fmt.Errorf("%w: invalid tenant id", ErrInvalidRequest)
		}
	default:
		return "", fmt.Errorf("%w: unknown purpose %q", ErrInvalidRequest, purpose)
	}

	token, err := GenerateRandomString(stateBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	now := m.now()
	state := &AuthorizationState{
		Token:     token,
		TenantID:  tenantID,
		Provider:  provider,
		Scopes:    append([]string(nil), scopes...),
		Purpose:   purpose,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	for _, opt := range opts {
		opt(state)
	}

	if err := m.store.Save(ctx, state); err != nil {
		return "", fmt.Errorf("failed to save state: %w", err)
	}
	return token, nil
}

// GenerateLoginState records a login state for provider.
func (m *StateManager) GenerateLoginState(ctx context.Context, provider string, scopes []string) (string, error) {
	return m.GenerateState(ctx, LoginTenant, provider, scopes, PurposeLogin)
}

// VerifyState consumes token. Absent, expired and already consumed tokens
// all yield ErrInvalidState; the wrapped cause is for logs only.
func (m *StateManager) VerifyState(ctx context.Context, token string) (*AuthorizationState, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, ErrStateNotFound)
	}

	state, err := m.store.Consume(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return state, nil
}

// Close stops background sweeping in the underlying store.
func (m *StateManager) Close() {
	m.store.Cleanup()
}
