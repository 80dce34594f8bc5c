package rediscache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/prn-tf/vaultstream/internal/repository"
)

const defaultLockPrefix = "vaultstream:lock:"

// unlockScript only deletes the key if its value still matches the token
// the caller was given at lock time, so a lock that already expired and
// was re-acquired by someone else is never released out from under them.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// extendScript renews the TTL only if the caller still owns the lock.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
else
	return 0
end
`)

// DistributedLock implements repository.DistributedLock over Redis SET NX
// with a random per-acquisition token: a token-guarded compare-and-delete
// via Lua, so Unlock/Extend never affect a lock that has since been taken
// by someone else.
type DistributedLock struct {
	client *redis.Client
	prefix string
}

// NewDistributedLock wraps client. prefix defaults to "vaultstream:lock:".
func NewDistributedLock(client *redis.Client, prefix string) *DistributedLock {
	if prefix == "" {
		prefix = defaultLockPrefix
	}
	return &DistributedLock{client: client, prefix: prefix}
}

func (l *DistributedLock) namespaced(key string) string {
	return l.prefix + key
}

func (l *DistributedLock) Lock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.namespaced(key), token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("rediscache: lock failed: %w", err)
	}
	if !ok {
		return "", repository.ErrLockNotAcquired
	}
	return token, nil
}

func (l *DistributedLock) Unlock(ctx context.Context, key, token string) error {
	res, err := unlockScript.Run(ctx, l.client, []string{l.namespaced(key)}, token).Int64()
	if err != nil {
		return fmt.Errorf("rediscache: unlock failed: %w", err)
	}
	if res == 0 {
		return repository.ErrLockNotOwned
	}
	return nil
}

func (l *DistributedLock) Extend(ctx context.Context, key, token string, ttl time.Duration) error {
	res, err := extendScript.Run(ctx, l.client, []string{l.namespaced(key)}, token, ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("rediscache: extend failed: %w", err)
	}
	if res == 0 {
		return repository.ErrLockNotOwned
	}
	return nil
}

func (l *DistributedLock) IsLocked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Exists(ctx, l.namespaced(key)).Result()
	if err != nil {
		return false, fmt.Errorf("rediscache: is-locked check failed: %w", err)
	}
	return n > 0, nil
}

var _ repository.DistributedLock = (*DistributedLock)(nil)
