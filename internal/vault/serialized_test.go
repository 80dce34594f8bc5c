package vault

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/vaultstream/internal/domain"
	"github.com/prn-tf/vaultstream/internal/lock"
)

// countingVault records the high-water mark of concurrent StoreKey calls
// in flight, so the test can assert SerializedVault actually excludes them.
type countingVault struct {
	Vault
	inFlight int32
	maxSeen  int32
}

func (v *countingVault) StoreKey(ctx context.Context, keyID string, key domain.CipherKey) error {
	n := atomic.AddInt32(&v.inFlight, 1)
	for {
		max := atomic.LoadInt32(&v.maxSeen)
		if n <= max || atomic.CompareAndSwapInt32(&v.maxSeen, max, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	atomic.AddInt32(&v.inFlight, -1)
	return v.Vault.StoreKey(ctx, keyID, key)
}

func TestSerializedVault_ExcludesConcurrentStoreKeySameID(t *testing.T) {
	backend := &countingVault{Vault: NewMemoryVault()}
	sv := NewSerializedVault(backend, lock.NewMemoryLocker(), 0)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := domain.NewCipherKey([]byte("0123456789abcdef0123456789abcdef"))
			_ = sv.StoreKey(ctx, "same-file", key)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.maxSeen))
}

func TestSerializedVault_RetrieveKeyPassesThroughUnlocked(t *testing.T) {
	backend := NewMemoryVault()
	sv := NewSerializedVault(backend, lock.NewMemoryLocker(), 0)

	key := domain.NewCipherKey([]byte("abcdefabcdefabcdefabcdefabcdefab"))
	require.NoError(t, backend.StoreKey(context.Background(), "k", key))

	got, err := sv.RetrieveKey(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, key.Bytes(), got.Bytes())
}

func TestSerializedVault_NoOpLockerNeverBlocks(t *testing.T) {
	backend := NewMemoryVault()
	sv := NewSerializedVault(backend, lock.NewNoOpLocker(), 0)

	key := domain.NewCipherKey([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, sv.StoreKey(context.Background(), "k", key))
	require.NoError(t, sv.StoreKey(context.Background(), "k", key))
}
