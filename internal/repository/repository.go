// Package repository defines the narrow storage-facing interfaces used by
// the key vault collaborator: a generic TTL cache and a distributed lock.
// Concrete backends live in internal/cache/memory (in-memory) and
// internal/vault/rediscache (Redis).
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss indicates the requested key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// ErrLockNotAcquired indicates a distributed lock is already held by someone else.
var ErrLockNotAcquired = errors.New("lock: not acquired")

// ErrLockNotOwned indicates an unlock/extend was attempted by a non-owner token.
var ErrLockNotOwned = errors.New("lock: not owned")

// Cache is a byte-oriented TTL cache. A ttl of zero stores the entry with
// no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// DistributedLock coordinates exclusive access to a keyed resource across
// processes. Lock returns an opaque token that must be presented to Unlock
// and Extend so only the owner can release or renew the lock.
type DistributedLock interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
	Extend(ctx context.Context, key, token string, ttl time.Duration) error
	IsLocked(ctx context.Context, key string) (bool, error)
}
