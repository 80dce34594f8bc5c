package cipher

import (
	stdcipher "crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/prn-tf/vaultstream/internal/domain"
)

// chaCha20Poly1305 implements AEAD over golang.org/x/crypto/chacha20poly1305.
// Every block's associated data binds the file's salt prefix, block
// index, and aligned size rather than being left empty.
type chaCha20Poly1305 struct {
	aead stdcipher.AEAD
}

func newChaCha20Poly1305(key []byte) (AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, domain.NewValidationError("chacha20-poly1305 key must be 32 bytes")
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, domain.NewValidationError("failed to initialize ChaCha20-Poly1305: " + err.Error())
	}
	return &chaCha20Poly1305{aead: aead}, nil
}

func (c *chaCha20Poly1305) Scheme() domain.Scheme { return domain.SchemeChaCha20Poly1305 }
func (c *chaCha20Poly1305) NonceSize() int         { return c.aead.NonceSize() }
func (c *chaCha20Poly1305) Overhead() int          { return c.aead.Overhead() }

func (c *chaCha20Poly1305) Seal(dst, nonce, plaintext, aad []byte) []byte {
	return c.aead.Seal(dst, nonce, plaintext, aad)
}

func (c *chaCha20Poly1305) Open(dst, nonce, sealed, aad []byte) ([]byte, error) {
	out, err := c.aead.Open(dst, nonce, sealed, aad)
	if err != nil {
		return nil, domain.NewCryptoError("authentication tag mismatch", err)
	}
	return out, nil
}
