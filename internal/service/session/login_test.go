package session

import (
	"context"
	"testing"
	"time"

	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginIssuer(t *testing.T) {
	ctx := context.Background()
	_, store := setupTestRedisSession(t)
	issuer := NewLoginIssuer(store, 2*time.Hour, true)

	avatar := "https://avatars.example/1.png"
	profile := &oauth2.LoginProfile{Provider: "github", ProviderID: "42", Email: "octo@example.com", Name: "octo", Avatar: &avatar}

	cookie, err := issuer.IssueLoginSession(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, DefaultCookieName, cookie.Name)
	assert.Equal(t, 7200, cookie.MaxAge)
	assert.True(t, cookie.Secure)

	s, err := store.Get(ctx, cookie.Value)
	require.NoError(t, err)
	got, err := Profile(s)
	require.NoError(t, err)
	assert.Equal(t, profile, got)
}

func TestLoginIssuer_CurrentProfileAndEnd(t *testing.T) {
	ctx := context.Background()
	mr, store := setupTestRedisSession(t)
	issuer := NewLoginIssuer(store, time.Hour, false)

	profile := &oauth2.LoginProfile{Provider: "google", ProviderID: "g-1", Email: "ana@example.com", Name: "Ana"}
	cookie, err := issuer.IssueLoginSession(ctx, profile)
	require.NoError(t, err)

	got, err := issuer.CurrentProfile(ctx, cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, profile, got)

	require.NoError(t, issuer.EndSession(ctx, cookie.Value))
	assert.False(t, mr.Exists(sessionPrefix+cookie.Value))

	_, err = issuer.CurrentProfile(ctx, cookie.Value)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	expired := issuer.ExpiredCookie()
	assert.Equal(t, DefaultCookieName, expired.Name)
	assert.Equal(t, -1, expired.MaxAge)
	assert.False(t, expired.Secure)
}

func TestLoginIssuer_CurrentProfileCorruptData(t *testing.T) {
	ctx := context.Background()
	_, store := setupTestRedisSession(t)
	issuer := NewLoginIssuer(store, time.Hour, true)

	s, err := store.Create(ctx, []byte("not json"), time.Hour)
	require.NoError(t, err)

	_, err = issuer.CurrentProfile(ctx, s.ID)
	assert.ErrorContains(t, err, "decode profile")
}
