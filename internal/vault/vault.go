// Package vault implements the key-vault collaborator: a narrow
// store-key/retrieve-key interface the codec depends on but never
// implements directly, plus a set of concrete backends (in-memory,
// Postgres-durable, Redis-cached, SQLite for tests).
package vault

import (
	"context"

	"github.com/prn-tf/vaultstream/internal/domain"
)

// Vault stores and retrieves cipher keys by an opaque, caller-assigned key
// ID. Implementations must treat the key material as secret: never log it,
// and zero any internal copy once it is no longer needed.
type Vault interface {
	StoreKey(ctx context.Context, keyID string, key domain.CipherKey) error
	RetrieveKey(ctx context.Context, keyID string) (domain.CipherKey, error)
}
