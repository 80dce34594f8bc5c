// Package pipeline implements the block pipeline: the sequential state
// machine that drives file I/O, the buffer pool, nonce derivation, the
// header codec, and the cipher facade to encrypt or decrypt one file. The
// chunked read-process-write loop follows a chunked-reader/chunked-writer
// shape, generalized to HKDF-derived nonces and a separate-tag-sector
// block frame rather than XOR'd chunk nonces and appended-tag framing.
package pipeline

import (
	"context"
	"crypto/rand"
	"io"
	"runtime"
	"time"

	"github.com/prn-tf/vaultstream/internal/bufpool"
	"github.com/prn-tf/vaultstream/internal/codec/cipher"
	"github.com/prn-tf/vaultstream/internal/codec/header"
	"github.com/prn-tf/vaultstream/internal/codec/nonce"
	"github.com/prn-tf/vaultstream/internal/codec/profile"
	"github.com/prn-tf/vaultstream/internal/domain"
	"github.com/prn-tf/vaultstream/internal/metrics"
)

// InputStream is the read side the block pipeline drives; *ioutil.Stream
// satisfies it.
type InputStream interface {
	Read(p []byte) (int, error)
	Size() (int64, error)
}

// OutputStream is the write side the block pipeline drives; *ioutil.Stream
// satisfies it.
type OutputStream interface {
	Write(p []byte) (int, error)
	Truncate(n int64) error
	FlushDurable() error
}

// Encrypt runs the encryption state machine: it writes the file
// header, then reads, encrypts, and frames one block at a time until the
// input is exhausted, finally flushing the output durably. key is zeroed
// on every exit path. m may be nil, in which case no metrics are recorded.
func Encrypt(ctx context.Context, in InputStream, out OutputStream, key domain.CipherKey, scheme domain.Scheme, profileID profile.ID, pool *bufpool.Pool, m *metrics.Codec) error {
	defer key.Zero()

	if err := key.ValidateForScheme(scheme); err != nil {
		return err
	}

	prof := profile.Get(profileID)

	aead, err := cipher.New(scheme, key.Bytes())
	if err != nil {
		return err
	}

	originalSize, err := in.Size()
	if err != nil {
		return err
	}

	fileNonce := pool.Rent(profile.NonceSize)
	defer pool.Return(fileNonce)
	if _, err := rand.Read(fileNonce); err != nil {
		return domain.NewCryptoError("failed to generate file nonce", err)
	}

	salt, err := nonce.PrecomputeSalt(prof, fileNonce)
	if err != nil {
		return err
	}
	defer pool.Return(salt)

	hdr, err := header.Encode(prof, fileNonce, originalSize, salt)
	if err != nil {
		return err
	}
	defer pool.Return(hdr)

	if _, err := out.Write(hdr); err != nil {
		return err
	}

	var blockIndex int64
	for {
		if err := ctx.Err(); err != nil {
			return domain.NewCancellationError("encryption canceled before reading block")
		}

		plain := pool.Rent(profile.BufferSize)
		n, rerr := io.ReadFull(in, plain)
		if rerr == io.EOF {
			pool.Return(plain)
			break
		}
		if rerr != nil && rerr != io.ErrUnexpectedEOF {
			pool.Return(plain)
			return domain.NewIOError("failed to read plaintext block", rerr)
		}

		if err := encryptBlock(ctx, out, aead, prof, salt, blockIndex, plain, n, pool); err != nil {
			pool.Return(plain)
			return err
		}
		pool.Return(plain)

		if m != nil {
			m.BlocksProcessed.WithLabelValues("encrypt").Inc()
			m.BlockBytes.WithLabelValues("encrypt").Add(float64(n))
		}

		blockIndex++
		if rerr == io.ErrUnexpectedEOF {
			break
		}
	}

	if err := flushDurable(out, m); err != nil {
		return err
	}
	return nil
}

// flushDurable calls out.FlushDurable, recording its latency against m's
// durable-flush histogram (labeled by runtime.GOOS) when m is non-nil.
func flushDurable(out OutputStream, m *metrics.Codec) error {
	if m == nil {
		return out.FlushDurable()
	}
	start := time.Now()
	err := out.FlushDurable()
	m.DurableFlushTime.WithLabelValues(runtime.GOOS).Observe(time.Since(start).Seconds())
	return err
}

func encryptBlock(ctx context.Context, out OutputStream, aead cipher.AEAD, prof profile.Profile, salt []byte, blockIndex int64, plain []byte, n int, pool *bufpool.Pool) error {
	aligned := profile.AlignedBlockSize(n)
	for i := n; i < aligned; i++ {
		plain[i] = 0
	}

	chunkNonce := pool.Rent(profile.NonceSize)
	defer pool.Return(chunkNonce)
	if err := nonce.DeriveBlockNonce(prof, salt, blockIndex, chunkNonce); err != nil {
		return err
	}

	var aad []byte
	if aead.Scheme() == domain.SchemeChaCha20Poly1305 {
		aad = cipher.ChaChaAAD(salt, blockIndex, aligned)
	}

	sealedCap := pool.Rent(profile.BufferSize + profile.TagSize)
	defer pool.ReturnClearN(sealedCap, aligned+profile.TagSize)
	sealed := aead.Seal(sealedCap[:0], chunkNonce, plain[:aligned], aad)

	ciphertext := sealed[:aligned]
	tag := sealed[aligned : aligned+profile.TagSize]

	tagSector := pool.Rent(profile.SectorSize)
	defer pool.Return(tagSector)
	for i := range tagSector {
		tagSector[i] = 0
	}
	copy(tagSector[:profile.TagSize], tag)

	if err := ctx.Err(); err != nil {
		return domain.NewCancellationError("encryption canceled before writing block")
	}

	if _, err := out.Write(tagSector); err != nil {
		return err
	}
	if _, err := out.Write(ciphertext); err != nil {
		return err
	}
	return nil
}
