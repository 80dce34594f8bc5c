package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAcquire(t *testing.T, l Locker, key string, ttl time.Duration) {
	t.Helper()
	ok, err := l.Acquire(context.Background(), key, ttl)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryLocker_SecondAcquireFailsWhileHeld(t *testing.T) {
	l := NewMemoryLocker()
	mustAcquire(t, l, "file-a", 5*time.Second)

	ok, err := l.Acquire(context.Background(), "file-a", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryLocker_ReleaseMakesKeyAcquirableAgain(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()
	mustAcquire(t, l, "file-a", 5*time.Second)

	released, err := l.Release(ctx, "file-a")
	require.NoError(t, err)
	assert.True(t, released)

	mustAcquire(t, l, "file-a", 5*time.Second)
}

func TestMemoryLocker_ReleaseUnheldKeyReportsFalse(t *testing.T) {
	l := NewMemoryLocker()

	released, err := l.Release(context.Background(), "never-held")
	require.NoError(t, err)
	assert.False(t, released)
}

func TestMemoryLocker_ExpiredLockIsAcquirable(t *testing.T) {
	l := NewMemoryLocker()
	mustAcquire(t, l, "file-a", 50*time.Millisecond)

	time.Sleep(80 * time.Millisecond)

	mustAcquire(t, l, "file-a", 5*time.Second)
}

func TestMemoryLocker_ExtendOutlivesOriginalTTL(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()
	mustAcquire(t, l, "file-a", 100*time.Millisecond)

	extended, err := l.Extend(ctx, "file-a", 5*time.Second)
	require.NoError(t, err)
	require.True(t, extended)

	time.Sleep(150 * time.Millisecond)

	ok, err := l.Acquire(ctx, "file-a", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "lock should still be held past the original ttl")
}

func TestMemoryLocker_IsHeldTracksLifecycle(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	held, err := l.IsHeld(ctx, "file-a")
	require.NoError(t, err)
	assert.False(t, held)

	mustAcquire(t, l, "file-a", 5*time.Second)
	held, err = l.IsHeld(ctx, "file-a")
	require.NoError(t, err)
	assert.True(t, held)

	_, err = l.Release(ctx, "file-a")
	require.NoError(t, err)
	held, err = l.IsHeld(ctx, "file-a")
	require.NoError(t, err)
	assert.False(t, held)
}

func TestMemoryLocker_AcquireWithRetry(t *testing.T) {
	cases := []struct {
		name       string
		holderTTL  time.Duration
		maxRetries int
		retryDelay time.Duration
		want       bool
	}{
		{"succeeds once holder expires", 50 * time.Millisecond, 5, 30 * time.Millisecond, true},
		{"gives up against a long-lived holder", time.Hour, 2, 10 * time.Millisecond, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := NewMemoryLocker()
			mustAcquire(t, l, "file-a", c.holderTTL)

			ok, err := l.AcquireWithRetry(context.Background(), "file-a", 5*time.Second, c.maxRetries, c.retryDelay)
			require.NoError(t, err)
			assert.Equal(t, c.want, ok)
		})
	}
}

func TestMemoryLocker_CanceledContextRejectsAcquire(t *testing.T) {
	l := NewMemoryLocker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := l.Acquire(ctx, "file-a", 5*time.Second)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestMemoryLocker_ExactlyOneWinnerUnderContention(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := l.Acquire(ctx, "file-a", 5*time.Second); err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins)
}

func TestMemoryLocker_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	for _, key := range []string{"file-a", "file-b", "file-c"} {
		mustAcquire(t, l, key, 5*time.Second)
	}
	for _, key := range []string{"file-a", "file-b", "file-c"} {
		held, err := l.IsHeld(ctx, key)
		require.NoError(t, err)
		assert.True(t, held, key)
	}
}

func TestNoOpLocker_EveryOperationSucceeds(t *testing.T) {
	l := NewNoOpLocker()
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "file-a", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.AcquireWithRetry(ctx, "file-a", 5*time.Second, 3, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	released, err := l.Release(ctx, "file-a")
	require.NoError(t, err)
	assert.True(t, released)

	extended, err := l.Extend(ctx, "file-a", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, extended)

	held, err := l.IsHeld(ctx, "file-a")
	require.NoError(t, err)
	assert.False(t, held)
}
