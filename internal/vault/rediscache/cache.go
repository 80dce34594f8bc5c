// Package rediscache implements a read-through repository.Cache and
// repository.DistributedLock over Redis via go-redis: Set/Get/Delete
// against a *redis.Client under a fixed key prefix, and a token-guarded
// Lua unlock script for the lock. Used to front internal/vault/postgres
// so repeated RetrieveKey calls for the same key ID do not round-trip to
// the database.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prn-tf/vaultstream/internal/repository"
)

const defaultKeyPrefix = "vaultstream:key:"

// Cache is a repository.Cache backed by a Redis client, namespacing every
// key under a fixed prefix so the vault's keys never collide with another
// tenant of the same Redis instance.
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache wraps client. prefix, if empty, defaults to "vaultstream:key:".
func NewCache(client *redis.Client, prefix string) *Cache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) namespaced(key string) string {
	return c.prefix + key
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.namespaced(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrCacheMiss
		}
		return nil, fmt.Errorf("rediscache: get failed: %w", err)
	}
	return val, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.namespaced(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("rediscache: set failed: %w", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.namespaced(key)).Err(); err != nil {
		return fmt.Errorf("rediscache: delete failed: %w", err)
	}
	return nil
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.namespaced(key)).Result()
	if err != nil {
		return false, fmt.Errorf("rediscache: exists failed: %w", err)
	}
	return n > 0, nil
}

var _ repository.Cache = (*Cache)(nil)
