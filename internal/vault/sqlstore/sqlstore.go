// Package sqlstore implements vault.Vault over modernc.org/sqlite, a
// pure-Go, cgo-free SQLite driver well suited to running repository tests
// without a live Postgres. Used here as the durable backend for
// integration tests and for any single-host deployment that wants a
// vault.Vault without running Postgres.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/prn-tf/vaultstream/internal/domain"
	"github.com/prn-tf/vaultstream/internal/vault"
)

// Store is a vault.Vault backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at dsn and ensures
// its schema exists. Pass ":memory:" for an ephemeral, test-only store.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open failed: %w", err)
	}
	// SQLite only tolerates a single writer; cap the pool so concurrent
	// StoreKey calls serialize instead of racing on SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS vault_keys (
			key_id             TEXT PRIMARY KEY,
			encrypted_material BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: migrate failed: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) StoreKey(ctx context.Context, keyID string, key domain.CipherKey) error {
	if keyID == "" {
		return domain.NewValidationError("key ID must not be empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vault_keys (key_id, encrypted_material) VALUES (?, ?)
		ON CONFLICT(key_id) DO UPDATE SET encrypted_material = excluded.encrypted_material
	`, keyID, key.Bytes())
	if err != nil {
		return domain.NewIOError("failed to store key", fmt.Errorf("sqlstore: %w", err))
	}
	return nil
}

func (s *Store) RetrieveKey(ctx context.Context, keyID string) (domain.CipherKey, error) {
	var material []byte
	err := s.db.QueryRowContext(ctx, `SELECT encrypted_material FROM vault_keys WHERE key_id = ?`, keyID).Scan(&material)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CipherKey{}, domain.NewCryptoError("key not found in vault", nil)
		}
		return domain.CipherKey{}, domain.NewIOError("failed to retrieve key", fmt.Errorf("sqlstore: %w", err))
	}
	return domain.NewCipherKey(material), nil
}

var _ vault.Vault = (*Store)(nil)
