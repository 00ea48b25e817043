package oauth2

import (
	"context"
	"fmt"
	"maps"
)

// SourceTenantKey is the back-reference stored on workspace-scoped entries.
const SourceTenantKey = "SOURCE_TENANT_ID"

// CredentialPersistence writes exchanged tokens into the tenant vault.
type CredentialPersistence struct {
	vault CredentialVault
}

func NewCredentialPersistence(vault CredentialVault) *CredentialPersistence {
	return &CredentialPersistence{vault: vault}
}

// SaveTokens upserts the mapped token fields into the tenant's credentials.
// When the payload carries a workspace identifier the same fields are also
// stored under "{provider}_{workspaceID}" with a SOURCE_TENANT_ID
// back-reference. It returns the workspace key, or "" when none was written.
func (cp *CredentialPersistence) SaveTokens(ctx context.Context, tenantID string, p ProviderConfig, payload *TokenPayload) (string, error) {
	mapped := MapCredentials(p, payload)
	if err := cp.merge(ctx, tenantID, mapped); err != nil {
		return "", err
	}

	if p.WorkspaceIDPath == "" {
		return "", nil
	}
	workspaceID, ok := payload.Lookup(p.WorkspaceIDPath)
	if !ok {
		return "", nil
	}

	key := p.ID + "_" + workspaceID
	workspace := maps.Clone(mapped)
	workspace[SourceTenantKey] = tenantID
	if err := cp.merge(ctx, key, workspace); err != nil {
		return "", err
	}
	return key, nil
}

func (cp *CredentialPersistence) merge(ctx context.Context, tenantID string, updates map[string]string) error {
	if len(updates) == 0 {
		return nil
	}
	if err := cp.vault.SaveCredentials(ctx, tenantID, updates); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrCredentialStore, tenantID, err)
	}
	return nil
}

// MapCredentials extracts the vault entries a token payload yields for p.
func MapCredentials(p ProviderConfig, payload *TokenPayload) map[string]string {
	out := make(map[string]string, len(p.CredentialMapping))
	for path, key := range p.CredentialMapping {
		if v, ok := payload.Lookup(path); ok {
			out[key] = v
		}
	}
	return out
}
