package domain

import "github.com/awnumar/memguard"

// Scheme identifies an AEAD cipher variant usable by the codec.
type Scheme string

const (
	// SchemeAES256GCM is AES in Galois/Counter Mode, no associated data.
	SchemeAES256GCM Scheme = "aes-256-gcm"

	// SchemeChaCha20Poly1305 is ChaCha20-Poly1305 with a fixed 76-byte AAD
	// binding the block's salt prefix, index, and aligned size.
	SchemeChaCha20Poly1305 Scheme = "chacha20-poly1305"
)

// validKeyLens are the acceptable CipherKey lengths per scheme.
var validKeyLens = map[Scheme][]int{
	SchemeAES256GCM:        {16, 24, 32},
	SchemeChaCha20Poly1305: {32},
}

// CipherKey is an immutable byte sequence owned exclusively by one codec
// job. Callers must invoke Zero once the job completes or fails so the key
// never lingers in memory past its use.
type CipherKey struct {
	b []byte
}

// NewCipherKey copies key into a CipherKey. The caller retains ownership of
// the original slice; only the copy is zeroed by CipherKey.Zero.
func NewCipherKey(key []byte) CipherKey {
	cp := make([]byte, len(key))
	copy(cp, key)
	return CipherKey{b: cp}
}

// Bytes returns the key material. The returned slice aliases the
// CipherKey's internal storage and must not outlive a call to Zero.
func (k CipherKey) Bytes() []byte {
	return k.b
}

// Len returns the key length in bytes.
func (k CipherKey) Len() int {
	return len(k.b)
}

// Zero overwrites the key material with zeros. Safe to call more than once.
func (k CipherKey) Zero() {
	if len(k.b) > 0 {
		memguard.WipeBytes(k.b)
	}
}

// ValidateForScheme checks the key length is acceptable for scheme.
func (k CipherKey) ValidateForScheme(scheme Scheme) error {
	lens, ok := validKeyLens[scheme]
	if !ok {
		return NewValidationError("unknown cipher scheme: " + string(scheme))
	}
	for _, l := range lens {
		if k.Len() == l {
			return nil
		}
	}
	return NewValidationError("invalid key length for scheme " + string(scheme))
}
