package vault

import (
	"context"
	"time"

	"github.com/prn-tf/vaultstream/internal/domain"
	"github.com/prn-tf/vaultstream/internal/lock"
)

// DefaultLockTTL is used when NewSerializedVault is given a zero ttl. It
// matches internal/config's VaultLockTTLSeconds default.
const DefaultLockTTL = 30 * time.Second

// SerializedVault decorates a Vault so that concurrent StoreKey calls
// against the same key ID are serialized while reads stay concurrent:
// RetrieveKey is passed through unlocked. MemoryVault's single RWMutex
// already gives the write guarantee for free, but a backend without its
// own locking (e.g. a bare postgres.keyVault shared by several processes)
// does not, so this decorator makes it explicit and backend-independent. ttl is
// normally sourced from config.Config.VaultLockTTLSeconds.
type SerializedVault struct {
	backend Vault
	locker  lock.Locker
	ttl     time.Duration
}

// NewSerializedVault wraps backend, serializing per-key-ID access through
// locker for up to ttl before a held lock is considered abandoned (ttl <= 0
// uses DefaultLockTTL). Pass lock.NewNoOpLocker() to opt out entirely
// (single-writer deployments).
func NewSerializedVault(backend Vault, locker lock.Locker, ttl time.Duration) *SerializedVault {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &SerializedVault{backend: backend, locker: locker, ttl: ttl}
}

func (v *SerializedVault) StoreKey(ctx context.Context, keyID string, key domain.CipherKey) error {
	acquired, err := v.locker.AcquireWithRetry(ctx, keyID, v.ttl, 5, 20*time.Millisecond)
	if err != nil {
		return domain.NewIOError("failed to acquire vault lock", err)
	}
	if !acquired {
		return domain.NewIOError("vault key ID is locked by another writer", nil)
	}
	defer v.locker.Release(ctx, keyID)

	return v.backend.StoreKey(ctx, keyID, key)
}

func (v *SerializedVault) RetrieveKey(ctx context.Context, keyID string) (domain.CipherKey, error) {
	return v.backend.RetrieveKey(ctx, keyID)
}

var _ Vault = (*SerializedVault)(nil)
