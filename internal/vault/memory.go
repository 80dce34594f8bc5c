package vault

import (
	"context"
	"sync"

	"github.com/prn-tf/vaultstream/internal/domain"
)

// MemoryVault is an in-process reference Vault: the same mutex-guarded-map
// shape as internal/cache/memory.Cache. Useful for single-process CLI use
// and as the baseline the cached/durable backends are tested against.
type MemoryVault struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

// NewMemoryVault creates an empty MemoryVault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{keys: make(map[string][]byte)}
}

func (v *MemoryVault) StoreKey(_ context.Context, keyID string, key domain.CipherKey) error {
	if keyID == "" {
		return domain.NewValidationError("key ID must not be empty")
	}
	cp := make([]byte, key.Len())
	copy(cp, key.Bytes())

	v.mu.Lock()
	v.keys[keyID] = cp
	v.mu.Unlock()
	return nil
}

func (v *MemoryVault) RetrieveKey(_ context.Context, keyID string) (domain.CipherKey, error) {
	v.mu.RLock()
	b, ok := v.keys[keyID]
	v.mu.RUnlock()
	if !ok {
		return domain.CipherKey{}, domain.NewCryptoError("key not found in vault", nil)
	}
	return domain.NewCipherKey(b), nil
}

var _ Vault = (*MemoryVault)(nil)
