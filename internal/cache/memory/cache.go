// Package memory implements an in-process repository.Cache: the reference
// backend for the key vault's read-through cache layer when no Redis
// instance is configured, and the backend the test suite exercises
// against directly.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/prn-tf/vaultstream/internal/repository"
)

type item struct {
	value     []byte
	expiresAt time.Time // zero value means no expiry
}

func (it item) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// Cache is a mutex-guarded map with a background sweep goroutine that
// evicts expired entries so Stop + GC can reclaim them even if nothing
// ever reads them again.
type Cache struct {
	mu       sync.RWMutex
	items    map[string]item
	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

const sweepInterval = 30 * time.Second

// NewCache creates a Cache and starts its background sweep goroutine.
func NewCache() *Cache {
	c := &Cache{
		items:  make(map[string]item),
		stopCh: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.sweepLoop()
	return c
}

func (c *Cache) sweepLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			c.sweep(now)
		}
	}
}

func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, it := range c.items {
		if it.expired(now) {
			delete(c.items, k)
		}
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || it.expired(time.Now()) {
		return nil, repository.ErrCacheMiss
	}
	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	it := item{value: stored}
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = it
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

func (c *Cache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || it.expired(time.Now()) {
		return false, nil
	}
	return true, nil
}

// Stop terminates the background sweep goroutine. Idempotent.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	c.wg.Wait()
}

var _ repository.Cache = (*Cache)(nil)
