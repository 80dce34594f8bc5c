package pipeline

import (
	"context"
	"io"

	"github.com/prn-tf/vaultstream/internal/bufpool"
	"github.com/prn-tf/vaultstream/internal/codec/cipher"
	"github.com/prn-tf/vaultstream/internal/codec/header"
	"github.com/prn-tf/vaultstream/internal/codec/nonce"
	"github.com/prn-tf/vaultstream/internal/codec/profile"
	"github.com/prn-tf/vaultstream/internal/domain"
	"github.com/prn-tf/vaultstream/internal/metrics"
)

// Decrypt runs the decryption state machine: it parses and
// validates the header, then reads and verifies one block at a time until
// original_size plaintext bytes have been produced, finally truncating and
// flushing the output. key is zeroed on every exit path. m may be nil, in
// which case no metrics are recorded.
func Decrypt(ctx context.Context, in InputStream, out OutputStream, key domain.CipherKey, scheme domain.Scheme, profileID profile.ID, pool *bufpool.Pool, m *metrics.Codec) error {
	defer key.Zero()

	if err := key.ValidateForScheme(scheme); err != nil {
		return err
	}

	prof := profile.Get(profileID)

	hdrBuf := pool.Rent(prof.HeaderSize)
	defer pool.Return(hdrBuf)
	if _, err := io.ReadFull(in, hdrBuf); err != nil {
		return domain.NewIOError("failed to read header", err)
	}
	hdr, err := header.Decode(prof, hdrBuf)
	if err != nil {
		return err
	}

	aead, err := cipher.New(scheme, key.Bytes())
	if err != nil {
		return err
	}

	var processed int64
	var blockIndex int64
	for processed < hdr.OriginalSize {
		if err := ctx.Err(); err != nil {
			return domain.NewCancellationError("decryption canceled before reading block")
		}

		remaining := hdr.OriginalSize - processed
		plainLen := int(remaining)
		if remaining > profile.BufferSize {
			plainLen = profile.BufferSize
		}
		aligned := profile.AlignedBlockSize(plainLen)

		if err := decryptBlock(ctx, in, out, aead, prof, hdr.Salt, blockIndex, aligned, pool); err != nil {
			return err
		}

		if m != nil {
			m.BlocksProcessed.WithLabelValues("decrypt").Inc()
			m.BlockBytes.WithLabelValues("decrypt").Add(float64(plainLen))
		}

		processed += int64(plainLen)
		blockIndex++
	}

	if err := out.Truncate(hdr.OriginalSize); err != nil {
		return err
	}
	if err := flushDurable(out, m); err != nil {
		return err
	}
	return nil
}

func decryptBlock(ctx context.Context, in InputStream, out OutputStream, aead cipher.AEAD, prof profile.Profile, salt []byte, blockIndex int64, aligned int, pool *bufpool.Pool) error {
	tagSector := pool.Rent(profile.SectorSize)
	defer pool.Return(tagSector)
	if _, err := io.ReadFull(in, tagSector); err != nil {
		return domain.NewIOError("failed to read tag sector", err)
	}
	tag := make([]byte, profile.TagSize)
	copy(tag, tagSector[:profile.TagSize])

	ciphertext := pool.Rent(profile.BufferSize)
	defer pool.Return(ciphertext)
	if _, err := io.ReadFull(in, ciphertext[:aligned]); err != nil {
		return domain.NewIOError("failed to read ciphertext block", err)
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

	sealed := pool.Rent(profile.BufferSize + profile.TagSize)
	defer pool.ReturnClearN(sealed, aligned+profile.TagSize)
	sealedInput := append(sealed[:0], ciphertext[:aligned]...)
	sealedInput = append(sealedInput, tag...)

	plainDst := pool.Rent(profile.BufferSize)
	defer pool.ReturnClearN(plainDst, aligned)
	plaintext, err := aead.Open(plainDst[:0], chunkNonce, sealedInput, aad)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return domain.NewCancellationError("decryption canceled before writing block")
	}

	if _, err := out.Write(plaintext); err != nil {
		return err
	}
	return nil
}
