// Package lock implements the key-vault locking collaborator: mutual
// exclusion keyed by an arbitrary string, with TTL-based expiry so a
// crashed holder cannot wedge a key permanently. The distributed variant
// of this collaborator lives in internal/vault/rediscache; this package
// holds the interface and the in-process reference implementation.
package lock

import (
	"context"
	"time"
)

// Locker is the collaborator the key vault uses to serialize concurrent
// store/retrieve operations against the same key ID.
type Locker interface {
	// Acquire attempts to take the lock for key, held for at most ttl.
	// Returns false (no error) if another holder currently has it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release gives up the lock for key. Returns false if it was not held.
	Release(ctx context.Context, key string) (bool, error)
	// Extend resets the TTL for a lock this caller still holds. Returns
	// false if the lock does not exist.
	Extend(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// IsHeld reports whether key is currently locked (by anyone).
	IsHeld(ctx context.Context, key string) (bool, error)
	// AcquireWithRetry retries Acquire up to maxRetries times, sleeping
	// retryDelay between attempts, until it succeeds or the budget is
	// exhausted.
	AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error)
}
