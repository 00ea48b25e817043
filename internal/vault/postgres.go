package vault

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Jouiet/VocalIA-sub010/pkg/db"
	"github.com/lib/pq"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS tenant_credentials (
	tenant_id  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (tenant_id, key)
)`

const upsertSQL = `
INSERT INTO tenant_credentials (tenant_id, key, value, updated_at)
SELECT $1, k, v, now() FROM unnest($2::text[], $3::text[]) AS t(k, v)
ON CONFLICT (tenant_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

const selectSQL = `SELECT key, value FROM tenant_credentials WHERE tenant_id = $1`

// PostgresVault stores one encrypted row per tenant credential.
type PostgresVault struct {
	db      db.DB
	cipher  *Cipher
	timeout time.Duration
}

func NewPostgresVault(database db.DB, c *Cipher) *PostgresVault {
	return &PostgresVault{db: database, cipher: c}
}

// WithQueryTimeout bounds every vault query. Zero disables the bound.
func (v *PostgresVault) WithQueryTimeout(d time.Duration) *PostgresVault {
	v.timeout = d
	return v
}

func (v *PostgresVault) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, v.timeout)
}

// EnsureSchema creates the credentials table if it does not exist.
func (v *PostgresVault) EnsureSchema(ctx context.Context) error {
	if _, err := v.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("vault: create schema: %w", err)
	}
	return nil
}

// SaveCredentials upserts every key of creds in a single statement. Keys not
// present in creds are left untouched.
func (v *PostgresVault) SaveCredentials(ctx context.Context, tenantID string, creds map[string]string) error {
	if len(creds) == 0 {
		return nil
	}

	keys := make([]string, 0, len(creds))
	for k := range creds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, k := range keys {
		enc, err := v.cipher.Encrypt(creds[k])
		if err != nil {
			return err
		}
		values[i] = enc
	}

	ctx, cancel := v.queryContext(ctx)
	defer cancel()

	if _, err := v.db.ExecContext(ctx, upsertSQL, tenantID, pq.Array(keys), pq.Array(values)); err != nil {
		return wrapDBError("save credentials", err)
	}
	return nil
}

func (v *PostgresVault) LoadCredentials(ctx context.Context, tenantID string) (map[string]string, error) {
	ctx, cancel := v.queryContext(ctx)
	defer cancel()

	rows, err := v.db.QueryContext(ctx, selectSQL, tenantID)
	if err != nil {
		return nil, wrapDBError("load credentials", err)
	}
	defer rows.Close()

	creds := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("vault: scan credential: %w", err)
		}
		plain, err := v.cipher.Decrypt(value)
		if err != nil {
			return nil, fmt.Errorf("%w (tenant %s, key %s)", err, tenantID, key)
		}
		creds[key] = plain
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("load credentials", err)
	}
	return creds, nil
}

// Ping checks database connectivity for readiness probes.
func (v *PostgresVault) Ping(ctx context.Context) error {
	return v.db.PingContext(ctx)
}

func wrapDBError(op string, err error) error {
	if db.IsTimeoutError(err) {
		return fmt.Errorf("vault: %s: %w: %v", op, db.ErrDatabaseTimeout, err)
	}
	if db.IsUndefinedTable(err) {
		return fmt.Errorf("vault: %s: %w", op, ErrNoSchema)
	}
	return fmt.Errorf("vault: %s: %w", op, err)
}
