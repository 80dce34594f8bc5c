// Package metrics defines the Prometheus instrumentation for codec jobs:
// promauto-registered counters/histograms bundled into one struct and
// served over promhttp, themed around block-pipeline and key-vault
// metrics rather than HTTP/storage/auth metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Codec bundles every metric the codec package family emits.
type Codec struct {
	JobsTotal        *prometheus.CounterVec
	JobDuration      *prometheus.HistogramVec
	BlocksProcessed  *prometheus.CounterVec
	BlockBytes       *prometheus.CounterVec
	DurableFlushTime *prometheus.HistogramVec
	VaultCacheHits   *prometheus.CounterVec
	VaultCacheMisses *prometheus.CounterVec
}

// NewCodec registers and returns the codec metric family against reg.
func NewCodec(reg prometheus.Registerer) *Codec {
	factory := promauto.With(reg)

	return &Codec{
		JobsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultstream",
			Name:      "jobs_total",
			Help:      "Total codec jobs processed, labeled by operation and outcome.",
		}, []string{"operation", "outcome"}),

		JobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vaultstream",
			Name:      "job_duration_seconds",
			Help:      "Wall-clock duration of a codec job, labeled by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		BlocksProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultstream",
			Name:      "blocks_processed_total",
			Help:      "Total blocks encrypted or decrypted, labeled by operation.",
		}, []string{"operation"}),

		BlockBytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultstream",
			Name:      "block_bytes_total",
			Help:      "Total plaintext bytes processed, labeled by operation.",
		}, []string{"operation"}),

		DurableFlushTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vaultstream",
			Name:      "durable_flush_seconds",
			Help:      "Latency of the platform durable-flush call, labeled by OS.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"platform"}),

		VaultCacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultstream",
			Name:      "vault_cache_hits_total",
			Help:      "Key-vault read-through cache hits.",
		}, []string{"backend"}),

		VaultCacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultstream",
			Name:      "vault_cache_misses_total",
			Help:      "Key-vault read-through cache misses.",
		}, []string{"backend"}),
	}
}

// Handler returns the standard promhttp handler for exposing the default
// registry, for deployments that run a metrics endpoint alongside the CLI.
func Handler() http.Handler {
	return promhttp.Handler()
}
