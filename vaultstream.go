// Package vaultstream is the public entry point for the streaming
// authenticated file encryption codec: Encrypt and Decrypt, each driving
// the block pipeline (internal/pipeline) over a FileTransferInstruction's
// source and destination paths. Dependency wiring is explicit construction
// (internal/config-sourced cipher profile/scheme, an injected vault.Vault,
// a shared bufpool.Pool, and Prometheus metrics) rather than a reflection-
// based DI container.
package vaultstream

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/prn-tf/vaultstream/internal/bufpool"
	"github.com/prn-tf/vaultstream/internal/cache/memory"
	"github.com/prn-tf/vaultstream/internal/codec/profile"
	"github.com/prn-tf/vaultstream/internal/config"
	"github.com/prn-tf/vaultstream/internal/domain"
	"github.com/prn-tf/vaultstream/internal/ioutil"
	"github.com/prn-tf/vaultstream/internal/jobctx"
	"github.com/prn-tf/vaultstream/internal/lock"
	"github.com/prn-tf/vaultstream/internal/metrics"
	"github.com/prn-tf/vaultstream/internal/pipeline"
	"github.com/prn-tf/vaultstream/internal/vault"
)

// Dependencies are the explicit, constructor-injected collaborators a
// Codec needs. Metrics may be nil, in which case no metrics are recorded.
// PathLock may also be nil, in which case New supplies a default
// ioutil.NewPathLock().
type Dependencies struct {
	Pool     *bufpool.Pool
	Vault    vault.Vault
	Metrics  *metrics.Codec
	Logger   zerolog.Logger
	Profile  profile.ID
	Scheme   domain.Scheme
	PathLock *ioutil.PathLock
}

// Codec is the top-level codec service: one instance is safely shared
// across concurrently running jobs, each job using its own cipher
// instance and buffer rentals.
type Codec struct {
	deps Dependencies
}

// New constructs a Codec from deps, filling in a new bufpool.Pool and a new
// ioutil.PathLock for whichever of the two was not supplied.
func New(deps Dependencies) *Codec {
	if deps.Pool == nil {
		deps.Pool = bufpool.New()
	}
	if deps.PathLock == nil {
		deps.PathLock = ioutil.NewPathLock()
	}
	return &Codec{deps: deps}
}

// NewFromConfig builds a Codec the way a CLI entry point or sample app
// would: cfg resolves the cipher scheme and HMAC/salt profile (internal/
// config), and the key vault is composed from this repository's in-process
// reference backends — a MemoryVault, guarded against concurrent same-
// file-ID writes by a SerializedVault using cfg.VaultLockTTLSeconds, fronted
// by a CachedVault using cfg.VaultCacheTTLSeconds. This is the explicit-
// construction substitute for a reflection-based DI container: a
// deployment wanting a durable vault
// backend (Postgres, Redis) should build Dependencies directly and call New
// instead, reusing internal/vault/postgres and internal/vault/rediscache.
// PathLock is left unset so New fills in a default ioutil.NewPathLock().
func NewFromConfig(cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*Codec, error) {
	scheme, err := cfg.ResolveScheme()
	if err != nil {
		return nil, err
	}

	m := metrics.NewCodec(reg)

	backend := vault.NewMemoryVault()
	serialized := vault.NewSerializedVault(backend, lock.NewMemoryLocker(), time.Duration(cfg.VaultLockTTLSeconds)*time.Second)
	cached := vault.NewCachedVault(serialized, memory.NewCache(), time.Duration(cfg.VaultCacheTTLSeconds)*time.Second, m, "memory")

	return New(Dependencies{
		Vault:   cached,
		Metrics: m,
		Logger:  logger,
		Profile: cfg.ResolveProfile(),
		Scheme:  scheme,
	}), nil
}

// Encrypt runs the encryption state machine against instruction's source
// and destination paths, using key as the per-file cipher key. It persists
// key into the vault under instruction.FileID before any block processing
// begins.
func (c *Codec) Encrypt(ctx context.Context, instruction domain.FileTransferInstruction, key domain.CipherKey) (err error) {
	if err := instruction.Validate(); err != nil {
		key.Zero()
		return err
	}

	ctx = jobctx.New(ctx, c.deps.Logger)
	logger := jobctx.Logger(ctx)
	start := time.Now()

	defer func() {
		c.recordOutcome("encrypt", start, err)
	}()

	logger.Info().Str("destination", instruction.DestinationPath).Msg("starting encryption job")

	c.deps.PathLock.Lock(instruction.DestinationPath)
	defer c.deps.PathLock.Unlock(instruction.DestinationPath)

	if err := c.deps.Vault.StoreKey(ctx, instruction.FileID, key); err != nil {
		key.Zero()
		return err
	}

	in, err := ioutil.CreateInput(instruction.SourcePath, logger)
	if err != nil {
		key.Zero()
		return err
	}
	defer in.Close()

	out, err := ioutil.CreateOutput(instruction.DestinationPath, logger)
	if err != nil {
		key.Zero()
		return err
	}
	defer out.Close()

	return pipeline.Encrypt(ctx, in, out, key, c.deps.Scheme, c.deps.Profile, c.deps.Pool, c.deps.Metrics)
}

// Decrypt runs the decryption state machine against instruction's source
// and destination paths. The per-file key is recovered from the vault
// under instruction.FileID before any block processing begins.
func (c *Codec) Decrypt(ctx context.Context, instruction domain.FileTransferInstruction) (err error) {
	if err := instruction.Validate(); err != nil {
		return err
	}

	ctx = jobctx.New(ctx, c.deps.Logger)
	logger := jobctx.Logger(ctx)
	start := time.Now()

	defer func() {
		c.recordOutcome("decrypt", start, err)
	}()

	logger.Info().Str("source", instruction.SourcePath).Msg("starting decryption job")

	c.deps.PathLock.Lock(instruction.DestinationPath)
	defer c.deps.PathLock.Unlock(instruction.DestinationPath)

	key, err := c.deps.Vault.RetrieveKey(ctx, instruction.FileID)
	if err != nil {
		return err
	}

	in, err := ioutil.CreateInput(instruction.SourcePath, logger)
	if err != nil {
		key.Zero()
		return err
	}
	defer in.Close()

	out, err := ioutil.CreateOutput(instruction.DestinationPath, logger)
	if err != nil {
		key.Zero()
		return err
	}
	defer out.Close()

	return pipeline.Decrypt(ctx, in, out, key, c.deps.Scheme, c.deps.Profile, c.deps.Pool, c.deps.Metrics)
}

func (c *Codec) recordOutcome(operation string, start time.Time, err error) {
	if c.deps.Metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.deps.Metrics.JobsTotal.WithLabelValues(operation, outcome).Inc()
	c.deps.Metrics.JobDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
