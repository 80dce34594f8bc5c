package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"

	"github.com/prn-tf/vaultstream/internal/domain"
)

// aesGCM implements AEAD over crypto/aes + crypto/cipher.NewGCM, the
// standard vehicle for AES-GCM in Go.
type aesGCM struct {
	gcm stdcipher.AEAD
}

func newAESGCM(key []byte) (AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, domain.NewValidationError("invalid AES-GCM key: " + err.Error())
	}
	gcm, err := stdcipher.NewGCMWithTagSize(block, profileTagSize)
	if err != nil {
		return nil, domain.NewValidationError("failed to initialize AES-GCM: " + err.Error())
	}
	return &aesGCM{gcm: gcm}, nil
}

const profileTagSize = 16

func (a *aesGCM) Scheme() domain.Scheme { return domain.SchemeAES256GCM }
func (a *aesGCM) NonceSize() int        { return a.gcm.NonceSize() }
func (a *aesGCM) Overhead() int         { return a.gcm.Overhead() }

// Seal encrypts with no associated data.
func (a *aesGCM) Seal(dst, nonce, plaintext, _ []byte) []byte {
	return a.gcm.Seal(dst, nonce, plaintext, nil)
}

func (a *aesGCM) Open(dst, nonce, sealed, _ []byte) ([]byte, error) {
	out, err := a.gcm.Open(dst, nonce, sealed, nil)
	if err != nil {
		return nil, domain.NewCryptoError("authentication tag mismatch", err)
	}
	return out, nil
}
