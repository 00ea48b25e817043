package vault

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
)

func TestMemoryVault(t *testing.T) {
	v := NewMemoryVault()
	ctx := context.Background()

	creds, err := v.LoadCredentials(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, creds)

	in := map[string]string{"K": "v"}
	require.NoError(t, v.SaveCredentials(ctx, "t1", in))
	in["K"] = "mutated"

	creds, err = v.LoadCredentials(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"K": "v"}, creds)

	creds["K"] = "mutated"
	again, _ := v.LoadCredentials(ctx, "t1")
	assert.Equal(t, "v", again["K"])
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()

	assert.ErrorIs(t, Unavailable{}.SaveCredentials(ctx, "t1", map[string]string{"K": "v"}), ErrUnavailable)
	_, err := Unavailable{}.LoadCredentials(ctx, "t1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMemoryVault_SaveUpsertsKeys(t *testing.T) {
	v := NewMemoryVault()
	ctx := context.Background()

	require.NoError(t, v.SaveCredentials(ctx, "t1", map[string]string{"A": "1", "B": "1"}))
	require.NoError(t, v.SaveCredentials(ctx, "t1", map[string]string{"B": "2"}))

	creds, err := v.LoadCredentials(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, creds)
}

func TestMemoryVault_ConcurrentIntegrationsKeepBothProviders(t *testing.T) {
	ctx := context.Background()
	reg, err := oauth2.DefaultRegistry()
	require.NoError(t, err)
	google, err := reg.Get("google")
	require.NoError(t, err)
	hubspot, err := reg.Get("hubspot")
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		v := NewMemoryVault()
		cp := oauth2.NewCredentialPersistence(v)

		var wg sync.WaitGroup
		for _, p := range []oauth2.ProviderConfig{google, hubspot} {
			wg.Add(1)
			go func(p oauth2.ProviderConfig) {
				defer wg.Done()
				_, err := cp.SaveTokens(ctx, "t1", p, &oauth2.TokenPayload{
					AccessToken: "tok-" + p.ID,
					Raw:         map[string]any{"access_token": "tok-" + p.ID},
				})
				assert.NoError(t, err)
			}(p)
		}
		wg.Wait()

		creds, err := v.LoadCredentials(ctx, "t1")
		require.NoError(t, err)
		require.Equal(t, "tok-google", creds["GOOGLE_ACCESS_TOKEN"], "iteration %d", i)
		require.Equal(t, "tok-hubspot", creds["HUBSPOT_ACCESS_TOKEN"], "iteration %d", i)
	}
}
