package rediscache

import (
	"context"
	"sync"
	"time"

	"github.com/prn-tf/vaultstream/internal/lock"
	"github.com/prn-tf/vaultstream/internal/repository"
)

// LockerAdapter bridges a token-based repository.DistributedLock to the
// key-only internal/lock.Locker shape the key vault's SerializedVault
// decorator expects, by remembering the acquisition token for each key
// this process currently holds. Use this to back SerializedVault with a
// Redis-distributed lock instead of internal/lock.MemoryLocker when the
// vault runs across multiple processes.
type LockerAdapter struct {
	dl     repository.DistributedLock
	mu     sync.Mutex
	tokens map[string]string
}

// NewLockerAdapter wraps dl (typically a *DistributedLock from this
// package) as a lock.Locker.
func NewLockerAdapter(dl repository.DistributedLock) *LockerAdapter {
	return &LockerAdapter{dl: dl, tokens: make(map[string]string)}
}

func (a *LockerAdapter) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token, err := a.dl.Lock(ctx, key, ttl)
	if err == repository.ErrLockNotAcquired {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	a.mu.Lock()
	a.tokens[key] = token
	a.mu.Unlock()
	return true, nil
}

func (a *LockerAdapter) Release(ctx context.Context, key string) (bool, error) {
	a.mu.Lock()
	token, ok := a.tokens[key]
	delete(a.tokens, key)
	a.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := a.dl.Unlock(ctx, key, token); err != nil {
		if err == repository.ErrLockNotOwned {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *LockerAdapter) Extend(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	a.mu.Lock()
	token, ok := a.tokens[key]
	a.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := a.dl.Extend(ctx, key, token, ttl); err != nil {
		if err == repository.ErrLockNotOwned {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *LockerAdapter) IsHeld(ctx context.Context, key string) (bool, error) {
	return a.dl.IsLocked(ctx, key)
}

func (a *LockerAdapter) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	for attempt := 0; ; attempt++ {
		ok, err := a.Acquire(ctx, key, ttl)
		if err != nil || ok {
			return ok, err
		}
		if attempt >= maxRetries {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

var _ lock.Locker = (*LockerAdapter)(nil)
