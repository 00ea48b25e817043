package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// postgresClient implements the DB interface for PostgreSQL
type postgresClient struct {
	*sql.DB
}

// NewPostgresClient opens a pooled PostgreSQL connection and verifies it with a ping.
func NewPostgresClient(dsn string, config ConnectionConfig) (DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	}
	if config.ConnMaxIdleTime > 0 {
		conn.SetConnMaxIdleTime(config.ConnMaxIdleTime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return &postgresClient{DB: conn}, nil
}

// Wrap adapts an already opened *sql.DB (for example a sqlmock handle).
func Wrap(conn *sql.DB) DB {
	return &postgresClient{DB: conn}
}

// IsUndefinedTable reports whether err is PostgreSQL's undefined_table (42P01).
func IsUndefinedTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01"
	}
	return false
}

// IsTimeoutError checks if an error is a database timeout error
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "57014", // query_canceled
			"57013", // statement_timeout
			"40001": // serialization_failure
			return true
		}
	}

	return false
}
