// Package postgres implements a durable Vault backend over PostgreSQL via
// pgx, following the same query/scan/error-wrapping shape used throughout
// this module's other repository code; the connection pool follows the
// standard pgxpool.New(ctx, dsn) construction.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgxpool.Pool, the shape every repository in this package
// depends on.
type DB struct {
	Pool *pgxpool.Pool
}

// Open parses dsn and establishes a connection pool.
func Open(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close releases all pooled connections.
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate creates the vault_keys table if it does not already exist.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS vault_keys (
			key_id            TEXT PRIMARY KEY,
			encrypted_material BYTEA NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate vault_keys: %w", err)
	}
	return nil
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}
