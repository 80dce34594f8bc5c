package vault

import (
	"context"
	"time"

	"github.com/prn-tf/vaultstream/internal/domain"
	"github.com/prn-tf/vaultstream/internal/metrics"
	"github.com/prn-tf/vaultstream/internal/repository"
)

// CachedVault decorates a durable Vault with a read-through
// repository.Cache, so repeated RetrieveKey calls for the same key ID
// within ttl avoid a round-trip to the durable backend. StoreKey always
// writes through to both the cache and the backend.
type CachedVault struct {
	backend   Vault
	cache     repository.Cache
	ttl       time.Duration
	metrics   *metrics.Codec
	backendID string
}

// NewCachedVault wraps backend with cache, entries expiring after ttl. m may
// be nil, in which case no cache hit/miss metrics are recorded; backendID
// labels those metrics (e.g. "postgres", "sqlstore").
func NewCachedVault(backend Vault, cache repository.Cache, ttl time.Duration, m *metrics.Codec, backendID string) *CachedVault {
	return &CachedVault{backend: backend, cache: cache, ttl: ttl, metrics: m, backendID: backendID}
}

func (v *CachedVault) StoreKey(ctx context.Context, keyID string, key domain.CipherKey) error {
	if err := v.backend.StoreKey(ctx, keyID, key); err != nil {
		return err
	}
	return v.cache.Set(ctx, keyID, key.Bytes(), v.ttl)
}

func (v *CachedVault) RetrieveKey(ctx context.Context, keyID string) (domain.CipherKey, error) {
	if cached, err := v.cache.Get(ctx, keyID); err == nil {
		if v.metrics != nil {
			v.metrics.VaultCacheHits.WithLabelValues(v.backendID).Inc()
		}
		return domain.NewCipherKey(cached), nil
	}
	if v.metrics != nil {
		v.metrics.VaultCacheMisses.WithLabelValues(v.backendID).Inc()
	}

	key, err := v.backend.RetrieveKey(ctx, keyID)
	if err != nil {
		return domain.CipherKey{}, err
	}
	_ = v.cache.Set(ctx, keyID, key.Bytes(), v.ttl)
	return key, nil
}

var _ Vault = (*CachedVault)(nil)
