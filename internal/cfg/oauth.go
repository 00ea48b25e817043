package cfg

import (
	"net/url"
	"time"
)

const (
	StateStoreMemory = "memory"
	StateStoreRedis  = "redis"
)

type OAuthConfig struct {
	BaseURL      string
	StateTimeout time.Duration
	HTTPTimeout  time.Duration
	StateStore   string
	// CredentialsTenant is the vault tenant holding platform client id/secret
	// overrides. Empty means environment only.
	CredentialsTenant string
}

func (l *Loader) loadOAuth() OAuthConfig {
	c := OAuthConfig{
		BaseURL:           l.getEnvWithDefault("OAUTH_BASE_URL", "http://localhost:3010"),
		StateTimeout:      l.getEnvDurationOrDefault("STATE_TIMEOUT", 10*time.Minute),
		HTTPTimeout:       l.getEnvDurationOrDefault("OAUTH_HTTP_TIMEOUT", 10*time.Second),
		StateStore:        l.getEnvWithDefault("OAUTH_STATE_STORE", StateStoreMemory),
		CredentialsTenant: l.getEnvWithDefault("OAUTH_CREDENTIALS_TENANT", ""),
	}

	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		l.fail("OAUTH_BASE_URL must be an absolute url: %q", c.BaseURL)
	}
	if c.StateTimeout <= 0 || c.StateTimeout > time.Hour {
		l.fail("STATE_TIMEOUT must be in (0, 1h]: %s", c.StateTimeout)
	}
	if c.HTTPTimeout <= 0 {
		l.fail("OAUTH_HTTP_TIMEOUT must be positive: %s", c.HTTPTimeout)
	}
	switch c.StateStore {
	case StateStoreMemory, StateStoreRedis:
	default:
		l.fail("OAUTH_STATE_STORE must be memory or redis: %q", c.StateStore)
	}
	return c
}

type SessionConfig struct {
	TTL          time.Duration
	SecureCookie bool
}

func (l *Loader) loadSession() SessionConfig {
	return SessionConfig{
		TTL:          l.getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),
		SecureCookie: l.getEnvBoolWithDefault("SESSION_COOKIE_SECURE", true),
	}
}
