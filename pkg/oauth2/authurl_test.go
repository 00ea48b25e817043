package oauth2

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProvider(t *testing.T, id string) ProviderConfig {
	t.Helper()
	r, err := DefaultRegistry()
	require.NoError(t, err)
	p, err := r.Get(id)
	require.NoError(t, err)
	return p
}

func parseURL(t *testing.T, raw string) (*url.URL, url.Values) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u, u.Query()
}

func TestBuildAuthorizeURL_GoogleIntegration(t *testing.T) {
	raw, err := BuildAuthorizeURL(mustProvider(t, "google"), AuthorizeRequest{
		ClientID:    "cid",
		State:       "st",
		Scopes:      []string{"calendar", "sheets"},
		RedirectURI: "https://gw.example/oauth/callback/google",
	})
	require.NoError(t, err)

	u, q := parseURL(t, raw)
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "st", q.Get("state"))
	assert.Equal(t, "https://gw.example/oauth/callback/google", q.Get("redirect_uri"))
	assert.Equal(t, "https://www.googleapis.com/auth/calendar https://www.googleapis.com/auth/spreadsheets", q.Get("scope"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
}

func TestBuildAuthorizeURL_GoogleLogin(t *testing.T) {
	raw, err := BuildAuthorizeURL(mustProvider(t, "google"), AuthorizeRequest{
		ClientID:    "cid",
		State:       "st",
		Scopes:      []string{"calendar"},
		RedirectURI: "https://gw.example/oauth/login/callback/google",
		Login:       true,
	})
	require.NoError(t, err)

	_, q := parseURL(t, raw)
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Empty(t, q.Get("access_type"))
}

func TestBuildAuthorizeURL_SlackSeparatorsAndEndpoints(t *testing.T) {
	slack := mustProvider(t, "slack")

	raw, err := BuildAuthorizeURL(slack, AuthorizeRequest{
		ClientID: "cid", State: "st", Scopes: []string{"default", "users:read"},
		RedirectURI: "https://gw.example/oauth/callback/slack",
	})
	require.NoError(t, err)
	u, q := parseURL(t, raw)
	assert.Equal(t, "/oauth/v2/authorize", u.Path)
	assert.Equal(t, "incoming-webhook,chat:write,users:read", q.Get("scope"))

	raw, err = BuildAuthorizeURL(slack, AuthorizeRequest{
		ClientID: "cid", State: "st", Login: true,
		RedirectURI: "https://gw.example/oauth/login/callback/slack",
	})
	require.NoError(t, err)
	u, q = parseURL(t, raw)
	assert.Equal(t, "/openid/connect/authorize", u.Path)
	assert.Equal(t, "openid email profile", q.Get("scope"))
}

func TestBuildAuthorizeURL_LoginUnsupported(t *testing.T) {
	_, err := BuildAuthorizeURL(mustProvider(t, "hubspot"), AuthorizeRequest{
		ClientID: "cid", State: "st", RedirectURI: "https://gw.example/cb", Login: true,
	})
	assert.ErrorIs(t, err, ErrUnsupportedLoginProvider)
}

func TestBuildAuthorizeURL_Shopify(t *testing.T) {
	shopify := mustProvider(t, "shopify")

	raw, err := BuildAuthorizeURL(shopify, AuthorizeRequest{
		ClientID: "cid", State: "st", Scopes: []string{"default"},
		RedirectURI: "https://gw.example/oauth/callback/shopify", Shop: "acme.myshopify.com",
	})
	require.NoError(t, err)
	u, q := parseURL(t, raw)
	assert.Equal(t, "acme.myshopify.com", u.Host)
	assert.Equal(t, "read_orders,read_products,read_customers", q.Get("scope"))

	_, err = BuildAuthorizeURL(shopify, AuthorizeRequest{
		ClientID: "cid", State: "st", RedirectURI: "https://gw.example/cb",
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestBuildAuthorizeURL_RequiresInputs(t *testing.T) {
	_, err := BuildAuthorizeURL(mustProvider(t, "github"), AuthorizeRequest{State: "st", RedirectURI: "https://gw.example/cb"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
