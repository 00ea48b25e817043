// Package vault stores per-tenant credentials. Values are encrypted at rest
// by the Postgres backend.
package vault

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
)

var (
	ErrUnavailable = errors.New("credential vault is not configured")
	ErrDecrypt     = errors.New("failed to decrypt credential")
	ErrNoSchema    = errors.New("credential table missing; run EnsureSchema")
)

var (
	_ oauth2.CredentialVault = (*PostgresVault)(nil)
	_ oauth2.CredentialVault = (*MemoryVault)(nil)
	_ oauth2.CredentialVault = Unavailable{}
)

// MemoryVault keeps credentials in process memory. Intended for local runs
// and tests.
type MemoryVault struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryVault() *MemoryVault {
	return &MemoryVault{data: make(map[string]map[string]string)}
}

// SaveCredentials upserts creds into the tenant's entry.
func (v *MemoryVault) SaveCredentials(_ context.Context, tenantID string, creds map[string]string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	current, ok := v.data[tenantID]
	if !ok {
		current = make(map[string]string, len(creds))
		v.data[tenantID] = current
	}
	maps.Copy(current, creds)
	return nil
}

func (v *MemoryVault) LoadCredentials(_ context.Context, tenantID string) (map[string]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := maps.Clone(v.data[tenantID])
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}

// Unavailable fails every call. It stands in when no backend is configured
// so misconfiguration surfaces on first use instead of silently dropping
// credentials.
type Unavailable struct{}

func (Unavailable) SaveCredentials(context.Context, string, map[string]string) error {
	return ErrUnavailable
}

func (Unavailable) LoadCredentials(context.Context, string) (map[string]string, error) {
	return nil, ErrUnavailable
}
