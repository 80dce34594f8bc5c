package lock

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	expiresAt time.Time
}

// MemoryLocker is an in-process Locker backed by a map guarded by a single
// mutex. Suitable for the reference single-process vault and for tests.
// There is no persistence, so all locks are lost on restart; expired
// entries are only replaced on the next Acquire, with no background sweep.
type MemoryLocker struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewMemoryLocker creates an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{entries: make(map[string]entry)}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if e, ok := l.entries[key]; ok && now.Before(e.expiresAt) {
		return false, nil
	}

	l.entries[key] = entry{expiresAt: now.Add(ttl)}
	return true, nil
}

func (l *MemoryLocker) Release(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || !time.Now().Before(e.expiresAt) {
		return false, nil
	}
	delete(l.entries, key)
	return true, nil
}

func (l *MemoryLocker) Extend(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || !time.Now().Before(e.expiresAt) {
		return false, nil
	}
	e.expiresAt = time.Now().Add(ttl)
	l.entries[key] = e
	return true, nil
}

func (l *MemoryLocker) IsHeld(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	return ok && time.Now().Before(e.expiresAt), nil
}

func (l *MemoryLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	for attempt := 0; ; attempt++ {
		acquired, err := l.Acquire(ctx, key, ttl)
		if err != nil || acquired {
			return acquired, err
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

// NoOpLocker implements Locker with no actual exclusion; every call
// succeeds immediately. Used when the caller is known to be the only
// process touching the vault (e.g. tests).
type NoOpLocker struct{}

// NewNoOpLocker creates a NoOpLocker.
func NewNoOpLocker() *NoOpLocker { return &NoOpLocker{} }

func (NoOpLocker) Acquire(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (NoOpLocker) Release(context.Context, string) (bool, error)                { return true, nil }
func (NoOpLocker) Extend(context.Context, string, time.Duration) (bool, error)  { return true, nil }
func (NoOpLocker) IsHeld(context.Context, string) (bool, error)                 { return false, nil }
func (NoOpLocker) AcquireWithRetry(context.Context, string, time.Duration, int, time.Duration) (bool, error) {
	return true, nil
}

var (
	_ Locker = (*MemoryLocker)(nil)
	_ Locker = (*NoOpLocker)(nil)
)
