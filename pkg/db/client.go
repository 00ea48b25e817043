package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	// ErrConnectionFailed is returned when database connection fails
	ErrConnectionFailed = errors.New("database connection failed")
	ErrDatabaseTimeout  = errors.New("database timeout")
)

// DBTX is the interface for database operations that both *sql.DB and *sql.Tx implement.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ConnectionConfig holds connection pool configuration
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DB is the database client used by the credential vault.
type DB interface {
	DBTX
	Close() error
	PingContext(ctx context.Context) error
}
