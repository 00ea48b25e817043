package oauth2

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Registry is an immutable table of provider descriptors.
type Registry struct {
	providers map[string]ProviderConfig
	order     []string
}

// NewRegistry validates every descriptor and returns a registry. A single
// misconfigured provider fails the whole registry.
func NewRegistry(configs ...ProviderConfig) (*Registry, error) {
	r := &Registry{providers: make(map[string]ProviderConfig, len(configs))}

	var errs []error
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := r.providers[cfg.ID]; dup {
			errs = append(errs, fmt.Errorf("provider %q registered twice", cfg.ID))
			continue
		}
		r.providers[cfg.ID] = cloneConfig(cfg)
		r.order = append(r.order, cfg.ID)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// DefaultRegistry returns the registry of built-in providers.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultProviders()...)
}

// Get returns the descriptor for providerID. The returned maps must not be
// modified.
func (r *Registry) Get(providerID string) (ProviderConfig, error) {
	cfg, ok := r.providers[providerID]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}
	return cfg, nil
}

// List returns descriptors in registration order.
func (r *Registry) List() []ProviderConfig {
	out := make([]ProviderConfig, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.providers[id])
	}
	return out
}

func cloneConfig(cfg ProviderConfig) ProviderConfig {
	cfg.IntegrationScopes = maps.Clone(cfg.IntegrationScopes)
	cfg.DefaultScopes = slices.Clone(cfg.DefaultScopes)
	cfg.AuthorizeParams = maps.Clone(cfg.AuthorizeParams)
	cfg.LoginAuthorizeParams = maps.Clone(cfg.LoginAuthorizeParams)
	cfg.CredentialMapping = maps.Clone(cfg.CredentialMapping)
	if cfg.Login != nil {
		login := *cfg.Login
		cfg.Login = &login
	}
	return cfg
}

// DefaultProviders returns the built-in provider table.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{
			ID:           "google",
			DisplayName:  "Google",
			AuthorizeURL: "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL:     "https://oauth2.googleapis.com/token",
			ProfileURL:   "https://www.googleapis.com/oauth2/v2/userinfo",
			IntegrationScopes: map[string]string{
				"calendar": "https://www.googleapis.com/auth/calendar",
				"sheets":   "https://www.googleapis.com/auth/spreadsheets",
				"drive":    "https://www.googleapis.com/auth/drive.file",
				"gmail":    "https://www.googleapis.com/auth/gmail.readonly",
			},
			DefaultScopes:   []string{"calendar"},
			LoginScopes:     "openid email profile",
			ProfileStyle:    ProfileGoogle,
			ClientIDEnv:     "GOOGLE_CLIENT_ID",
			ClientSecretEnv: "GOOGLE_CLIENT_SECRET",
			AuthorizeParams: map[string]string{
				"access_type": "offline",
				"prompt":      "consent",
			},
			LoginAuthorizeParams: map[string]string{
				"prompt": "select_account",
			},
			CredentialMapping: map[string]string{
				"access_token":  "GOOGLE_ACCESS_TOKEN",
				"refresh_token": "GOOGLE_REFRESH_TOKEN",
			},
		},
		{
			ID:           "github",
			DisplayName:  "GitHub",
			AuthorizeURL: "https://github.com/login/oauth/authorize",
			TokenURL:     "https://github.com/login/oauth/access_token",
			ProfileURL:   "https://api.github.com/user",
			EmailsURL:    "https://api.github.com/user/emails",
			IntegrationScopes: map[string]string{
				"default": "repo",
			},
			DefaultScopes:   []string{"default"},
			LoginScopes:     "read:user user:email",
			ProfileStyle:    ProfileGitHub,
			ClientIDEnv:     "GITHUB_CLIENT_ID",
			ClientSecretEnv: "GITHUB_CLIENT_SECRET",
			CredentialMapping: map[string]string{
				"access_token": "GITHUB_ACCESS_TOKEN",
			},
		},
		{
			ID:           "hubspot",
			DisplayName:  "HubSpot",
			AuthorizeURL: "https://app.hubspot.com/oauth/authorize",
			TokenURL:     "https://api.hubapi.com/oauth/v1/token",
			IntegrationScopes: map[string]string{
				"crm": "crm.objects.contacts.read crm.objects.contacts.write crm.objects.companies.read crm.objects.deals.read",
			},
			DefaultScopes:   []string{"crm"},
			ClientIDEnv:     "HUBSPOT_CLIENT_ID",
			ClientSecretEnv: "HUBSPOT_CLIENT_SECRET",
			CredentialMapping: map[string]string{
				"access_token":  "HUBSPOT_ACCESS_TOKEN",
				"refresh_token": "HUBSPOT_REFRESH_TOKEN",
			},
		},
		{
			ID:           "shopify",
			DisplayName:  "Shopify",
			AuthorizeURL: "https://{shop}.myshopify.com/admin/oauth/authorize",
			TokenURL:     "https://{shop}.myshopify.com/admin/oauth/access_token",
			IntegrationScopes: map[string]string{
				"default": "read_orders,read_products,read_customers",
			},
			DefaultScopes:   []string{"default"},
			ScopeSeparator:  ",",
			ShopTemplate:    true,
			ClientIDEnv:     "SHOPIFY_API_KEY",
			ClientSecretEnv: "SHOPIFY_API_SECRET",
			TokenEncoding:   TokenEncodingJSON,
			CredentialMapping: map[string]string{
				"access_token": "SHOPIFY_ACCESS_TOKEN",
			},
		},
		{
			ID:           "slack",
			DisplayName:  "Slack",
			AuthorizeURL: "https://slack.com/oauth/v2/authorize",
			TokenURL:     "https://slack.com/api/oauth.v2.access",
			ProfileURL:   "https://slack.com/api/openid.connect.userInfo",
			IntegrationScopes: map[string]string{
				"default": "incoming-webhook,chat:write",
			},
			DefaultScopes:  []string{"default"},
			ScopeSeparator: ",",
			LoginScopes:    "openid email profile",
			Login: &LoginEndpoints{
				AuthorizeURL: "https://slack.com/openid/connect/authorize",
				TokenURL:     "https://slack.com/api/openid.connect.token",
			},
			ProfileStyle:    ProfileSlackOIDC,
			ClientIDEnv:     "SLACK_CLIENT_ID",
			ClientSecretEnv: "SLACK_CLIENT_SECRET",
			CredentialMapping: map[string]string{
				"access_token":         "SLACK_ACCESS_TOKEN",
				"incoming_webhook.url": "SLACK_WEBHOOK_URL",
			},
			WorkspaceIDPath: "team.id",
		},
	}
}
