package main

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OAUTH_STATE_STORE", "VAULT_BACKEND", "REDIS_HOST", "REDIS_PORT", "KAFKA_BROKERS",
		"OAUTH_CREDENTIALS_TENANT", "STATE_TIMEOUT", "OAUTH_HTTP_TIMEOUT", "OTEL_SAMPLER_RATIO",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET",
		"HUBSPOT_CLIENT_ID", "HUBSPOT_CLIENT_SECRET", "SHOPIFY_API_KEY", "SHOPIFY_API_SECRET",
		"SLACK_CLIENT_ID", "SLACK_CLIENT_SECRET",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("OAUTH_BASE_URL", "https://api.example.com")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("GOOGLE_CLIENT_ID", "g-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "g-secret")

	out, err := run(t, "check")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Regexp(t, `^google\s+ok`, lines[1])
	assert.Regexp(t, `^github\s+missing\s+.*GITHUB_CLIENT_ID`, lines[2])

	_, err = run(t, "check", "--strict")
	assert.ErrorContains(t, err, "4 provider(s) missing credentials")
}

func TestAuthURLCommand(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("GOOGLE_CLIENT_ID", "g-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "g-secret")

	out, err := run(t, "auth-url", "--provider", "google", "--tenant", "t1", "--scopes", "calendar")
	require.NoError(t, err)

	u, err := url.Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "g-id", u.Query().Get("client_id"))
	assert.Equal(t, "https://api.example.com/oauth/callback/google", u.Query().Get("redirect_uri"))
	assert.Len(t, u.Query().Get("state"), 64)
}

func TestAuthURLCommand_RequiresFlags(t *testing.T) {
	setMinimalEnv(t)
	_, err := run(t, "auth-url", "--provider", "google")
	assert.ErrorContains(t, err, "tenant")
}
