package oauth2

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// providerLabels collects the distinct "provider" attribute values recorded
// on the named instrument.
func providerLabels(t *testing.T, reader *sdkmetric.ManualReader, name string) []string {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	seen := map[string]bool{}
	var sets []attribute.Set
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sets = append(sets, dp.Attributes)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					sets = append(sets, dp.Attributes)
				}
			}
		}
	}

	var out []string
	for _, set := range sets {
		v, ok := set.Value("provider")
		require.True(t, ok)
		if !seen[v.AsString()] {
			seen[v.AsString()] = true
			out = append(out, v.AsString())
		}
	}
	return out
}

func TestGatewayMetrics_UnknownProvidersShareOneLabel(t *testing.T) {
	fp := newFakeProvider(t)
	fp.handleJSON("/google/token", http.StatusOK, map[string]any{"access_token": "ya29"})
	reg, err := NewRegistry(testProviders(fp.URL)...)
	require.NoError(t, err)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	gw, err := NewGateway(Config{BaseURL: testBaseURL}, reg, NewInMemoryStorage(), newMemVault(),
		WithCredentialSource(allCredentials()),
		WithHTTPClient(fp.Client()),
		WithMeterProvider(mp),
	)
	require.NoError(t, err)
	t.Cleanup(gw.Close)
	ctx := context.Background()

	for _, id := range []string{"random-a", "random-b", "../../etc"} {
		_, err := gw.ExchangeCode(ctx, id, "code", "state")
		assert.ErrorIs(t, err, ErrProviderNotFound)
		_, err = gw.ExchangeLoginCode(ctx, id, "code", "state")
		assert.ErrorIs(t, err, ErrProviderNotFound)
	}

	authURL, err := gw.AuthURL(ctx, "google", "t1", nil, "")
	require.NoError(t, err)
	_, err = gw.ExchangeCode(ctx, "google", "code", stateFrom(t, authURL))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"unknown", "google"}, providerLabels(t, reader, "oauth.exchanges"))
	assert.ElementsMatch(t, []string{"unknown", "google"}, providerLabels(t, reader, "oauth.exchange_duration"))
}
