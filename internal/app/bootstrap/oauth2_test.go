package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/Jouiet/VocalIA-sub010/internal/vault"
	"github.com/Jouiet/VocalIA-sub010/pkg/cache"
	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oauthConfig(store string) *cfg.OAuthConfig {
	return &cfg.OAuthConfig{
		BaseURL:      "https://api.example.com",
		StateTimeout: 10 * time.Minute,
		HTTPTimeout:  10 * time.Second,
		StateStore:   store,
	}
}

func TestInitGateway_MemoryStore(t *testing.T) {
	gw, err := InitGateway(oauthConfig(cfg.StateStoreMemory), nil, vault.NewMemoryVault(), nil, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(gw.Close)

	assert.Len(t, gw.Providers(), 5)
	assert.Equal(t, "https://api.example.com/oauth/callback/google", gw.CallbackURL("google"))
}

func TestInitGateway_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	redis := cache.NewRedisCache(mr.Addr(), "")
	t.Cleanup(func() { _ = redis.Close() })
	t.Setenv("GITHUB_CLIENT_ID", "gh-id")
	t.Setenv("GITHUB_CLIENT_SECRET", "gh-secret")

	gw, err := InitGateway(oauthConfig(cfg.StateStoreRedis), redis, vault.NewMemoryVault(), nil, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(gw.Close)

	_, err = gw.AuthURL(context.Background(), "github", "t1", nil, "")
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)
}

func TestInitGateway_RedisStoreWithoutRedis(t *testing.T) {
	_, err := InitGateway(oauthConfig(cfg.StateStoreRedis), nil, vault.NewMemoryVault(), nil, logger.Nop())
	assert.Error(t, err)
}

func TestInitGateway_VaultCredentials(t *testing.T) {
	v := vault.NewMemoryVault()
	require.NoError(t, v.SaveCredentials(context.Background(), "platform", map[string]string{
		"HUBSPOT_CLIENT_ID":     "hs-id",
		"HUBSPOT_CLIENT_SECRET": "hs-secret",
	}))
	t.Setenv("HUBSPOT_CLIENT_ID", "")
	t.Setenv("HUBSPOT_CLIENT_SECRET", "")

	c := oauthConfig(cfg.StateStoreMemory)
	c.CredentialsTenant = "platform"
	gw, err := InitGateway(c, nil, v, nil, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(gw.Close)

	for _, st := range gw.Status(context.Background()) {
		if st.ID == "hubspot" {
			assert.True(t, st.Configured, st.Error)
		}
	}
}
