package oauth2

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ClientCredentials is the OAuth client registration for one provider.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}

// CredentialSource resolves client credentials for a provider.
type CredentialSource interface {
	Lookup(ctx context.Context, p ProviderConfig) (ClientCredentials, error)
}

// CredentialVault is the tenant-scoped secret store the gateway writes
// exchanged tokens to. SaveCredentials upserts the given keys and leaves
// every other key of the tenant untouched.
type CredentialVault interface {
	SaveCredentials(ctx context.Context, tenantID string, creds map[string]string) error
	LoadCredentials(ctx context.Context, tenantID string) (map[string]string, error)
}

// EnvCredentialSource reads client credentials from environment variables
// named by the provider descriptor.
type EnvCredentialSource struct {
	lookupEnv func(string) (string, bool)
}

func NewEnvCredentialSource() *EnvCredentialSource {
	return &EnvCredentialSource{lookupEnv: os.LookupEnv}
}

func (s *EnvCredentialSource) Lookup(_ context.Context, p ProviderConfig) (ClientCredentials, error) {
	id, _ := s.lookupEnv(p.ClientIDEnv)
	secret, _ := s.lookupEnv(p.ClientSecretEnv)
	return complete(p, strings.TrimSpace(id), strings.TrimSpace(secret))
}

// VaultCredentialSource prefers client credentials stored in the vault under
// a platform tenant and falls back to another source when the vault holds
// neither half. Vault errors are returned, never masked by the fallback.
type VaultCredentialSource struct {
	vault    CredentialVault
	tenantID string
	fallback CredentialSource
}

func NewVaultCredentialSource(vault CredentialVault, tenantID string, fallback CredentialSource) *VaultCredentialSource {
	return &VaultCredentialSource{vault: vault, tenantID: tenantID, fallback: fallback}
}

func (s *VaultCredentialSource) Lookup(ctx context.Context, p ProviderConfig) (ClientCredentials, error) {
	creds, err := s.vault.LoadCredentials(ctx, s.tenantID)
	if err != nil {
		return ClientCredentials{}, fmt.Errorf("%w: load client credentials: %v", ErrCredentialStore, err)
	}

	id, secret := creds[p.ClientIDEnv], creds[p.ClientSecretEnv]
	if id == "" && secret == "" && s.fallback != nil {
		return s.fallback.Lookup(ctx, p)
	}
	return complete(p, id, secret)
}

func complete(p ProviderConfig, id, secret string) (ClientCredentials, error) {
	var missing []string
	if id == "" {
		missing = append(missing, p.ClientIDEnv)
	}
	if secret == "" {
		missing = append(missing, p.ClientSecretEnv)
	}
	if len(missing) > 0 {
		return ClientCredentials{}, fmt.Errorf("%w for %s: missing %s", ErrMissingCredentials, p.ID, strings.Join(missing, ", "))
	}
	return ClientCredentials{ClientID: id, ClientSecret: secret}, nil
}
