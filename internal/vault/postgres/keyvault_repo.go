package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/prn-tf/vaultstream/internal/domain"
	"github.com/prn-tf/vaultstream/internal/vault"
)

// keyVault implements vault.Vault durably over Postgres. The encrypted
// material column name reflects that a deployment fronting this backend
// with a KMS would store key-wrapped bytes here, not raw key material —
// this package itself performs no wrapping and always stores exactly what
// it is given.
type keyVault struct {
	db *DB
}

// NewKeyVault creates a Postgres-backed vault.Vault.
func NewKeyVault(db *DB) vault.Vault {
	return &keyVault{db: db}
}

func (r *keyVault) StoreKey(ctx context.Context, keyID string, key domain.CipherKey) error {
	if keyID == "" {
		return domain.NewValidationError("key ID must not be empty")
	}

	const query = `
		INSERT INTO vault_keys (key_id, encrypted_material)
		VALUES ($1, $2)
		ON CONFLICT (key_id) DO UPDATE SET encrypted_material = EXCLUDED.encrypted_material
	`
	if _, err := r.db.Pool.Exec(ctx, query, keyID, key.Bytes()); err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("key ID already exists")
		}
		return domain.NewIOError("failed to store key", fmt.Errorf("postgres: %w", err))
	}
	return nil
}

func (r *keyVault) RetrieveKey(ctx context.Context, keyID string) (domain.CipherKey, error) {
	const query = `SELECT encrypted_material FROM vault_keys WHERE key_id = $1`

	var material []byte
	err := r.db.Pool.QueryRow(ctx, query, keyID).Scan(&material)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CipherKey{}, domain.NewCryptoError("key not found in vault", nil)
		}
		return domain.CipherKey{}, domain.NewIOError("failed to retrieve key", fmt.Errorf("postgres: %w", err))
	}
	return domain.NewCipherKey(material), nil
}

var _ vault.Vault = (*keyVault)(nil)
