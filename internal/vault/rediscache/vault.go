package rediscache

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prn-tf/vaultstream/internal/metrics"
	"github.com/prn-tf/vaultstream/internal/vault"
)

// NewDistributedVault fronts backend (typically internal/vault/postgres's
// durable vault) with a Redis-distributed lock for per-file-ID write
// serialization and a Redis read-through cache, the multi-process
// counterpart to vaultstream.NewFromConfig's in-process MemoryLocker/
// memory-cache composition. m may be nil.
func NewDistributedVault(backend vault.Vault, client *redis.Client, lockTTL, cacheTTL time.Duration, m *metrics.Codec) vault.Vault {
	locker := NewLockerAdapter(NewDistributedLock(client, ""))
	serialized := vault.NewSerializedVault(backend, locker, lockTTL)
	return vault.NewCachedVault(serialized, NewCache(client, ""), cacheTTL, m, "redis")
}
