// Package cipher implements the uniform AEAD facade over AES-256-GCM and
// ChaCha20-Poly1305, each producing a fixed 16-byte tag. The facade hides
// the per-scheme associated-data rules: AES-GCM uses none, ChaCha20-
// Poly1305 binds a fixed 76-byte block descriptor.
package cipher

import (
	"encoding/binary"

	"github.com/prn-tf/vaultstream/internal/domain"
)

// AEAD is the uniform interface the block pipeline drives. A single
// instance is constructed once per job and reused across every block,
// since key-schedule setup is the expensive part and the key does not
// change within a job.
type AEAD interface {
	Scheme() domain.Scheme
	NonceSize() int
	Overhead() int

	// Seal encrypts plaintext and appends the result (ciphertext || tag)
	// to dst, returning the updated slice. dst and plaintext must not
	// overlap except when dst's sole content is plaintext itself.
	Seal(dst, nonce, plaintext, aad []byte) []byte

	// Open decrypts sealed (ciphertext || tag) and appends the verified
	// plaintext to dst. Returns a CryptoError wrapping the failure on
	// authentication mismatch.
	Open(dst, nonce, sealed, aad []byte) ([]byte, error)
}

// New constructs the AEAD implementation for scheme using key. Key length
// is validated against the scheme's requirement.
func New(scheme domain.Scheme, key []byte) (AEAD, error) {
	switch scheme {
	case domain.SchemeAES256GCM:
		return newAESGCM(key)
	case domain.SchemeChaCha20Poly1305:
		return newChaCha20Poly1305(key)
	default:
		return nil, domain.NewValidationError("unsupported cipher scheme: " + string(scheme))
	}
}

// chachaAADSize is the fixed associated-data length ChaCha20-Poly1305 binds
// per block: a 64-byte salt prefix (zero-padded when SaltSize < 64) +
// 8-byte block index + 4-byte aligned size.
const chachaAADSize = 64 + 8 + 4

// ChaChaAAD builds the per-block associated data for the ChaCha20-
// Poly1305 variant: salt[:min(64,len(salt))] || i64_le(blockIndex) ||
// i32_le(alignedSize). The decryptor must reconstruct this identically
// before calling Open.
func ChaChaAAD(salt []byte, blockIndex int64, alignedSize int) []byte {
	n := len(salt)
	if n > 64 {
		n = 64
	}

	aad := make([]byte, 0, chachaAADSize)
	aad = append(aad, salt[:n]...)
	// Pad the salt prefix out to 64 bytes with zeros when SaltSize < 64
	// (the Constrained profile), keeping the AAD a fixed 76 bytes.
	for len(aad) < 64 {
		aad = append(aad, 0)
	}

	idx := make([]byte, 8)
	binary.LittleEndian.PutUint64(idx, uint64(blockIndex))
	aad = append(aad, idx...)

	sz := make([]byte, 4)
	binary.LittleEndian.PutUint32(sz, uint32(alignedSize))
	aad = append(aad, sz...)

	return aad
}
