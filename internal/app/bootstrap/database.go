package bootstrap

import (
	"context"
	"fmt"

	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/Jouiet/VocalIA-sub010/internal/vault"
	"github.com/Jouiet/VocalIA-sub010/pkg/db"
	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
)

// InitVault builds the credential vault for the configured backend. The
// returned db.DB is nil unless the Postgres backend is used.
func InitVault(ctx context.Context, config *cfg.Config) (oauth2.CredentialVault, db.DB, error) {
	switch config.Vault.Backend {
	case cfg.VaultBackendMemory:
		return vault.NewMemoryVault(), nil, nil
	case cfg.VaultBackendPostgres:
	default:
		return vault.Unavailable{}, nil, nil
	}

	cipher, err := vault.NewCipher(config.Vault.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("vault cipher: %w", err)
	}

	pg := config.Postgres
	dbClient, err := db.NewPostgresClient(pg.DSN(), db.ConnectionConfig{
		MaxOpenConns:    pg.MaxOpenConns,
		MaxIdleConns:    pg.MaxIdleConns,
		ConnMaxLifetime: pg.ConnMaxLifetime,
		ConnMaxIdleTime: pg.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	v := vault.NewPostgresVault(dbClient, cipher).WithQueryTimeout(pg.QueryTimeout)
	if err := v.EnsureSchema(ctx); err != nil {
		_ = dbClient.Close()
		return nil, nil, fmt.Errorf("vault schema: %w", err)
	}
	return v, dbClient, nil
}
