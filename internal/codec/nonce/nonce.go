// Package nonce implements the per-file salt precomputation and per-block
// nonce derivation: HMAC for the salt, then HMAC+HKDF-Expand for each
// block's chunk nonce.
package nonce

import (
	"crypto/hmac"
	"encoding/binary"
	"io"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/hkdf"

	"github.com/prn-tf/vaultstream/internal/codec/profile"
	"github.com/prn-tf/vaultstream/internal/domain"
)

// infoSuffix is the constant appended to the little-endian block index to
// form the HKDF "info" parameter.
var infoSuffix = []byte("ACL_NONCE")

// PrecomputeSalt computes salt = HMAC(key=fileNonce, msg=i64_le(0)) using
// the profile's native hash, run once per file. The output length equals
// the profile's SaltSize (the HMAC's native output size).
func PrecomputeSalt(p profile.Profile, fileNonce []byte) ([]byte, error) {
	mac := hmac.New(p.NewHash, fileNonce)
	if _, err := mac.Write(i64le(0)); err != nil {
		return nil, domain.NewCryptoError("failed to derive nonce/salt", err)
	}
	salt := mac.Sum(nil)
	if len(salt) != p.SaltSize {
		return nil, domain.NewCryptoError("failed to derive nonce/salt", errSaltSizeMismatch)
	}
	return salt, nil
}

// DeriveBlockNonce writes the derived chunk nonce for blockIndex into out,
// which must be exactly profile.NonceSize bytes. The derivation is:
//
//	prk  = HMAC(key=salt, msg=i64_le(blockIndex))
//	info = i64_le(blockIndex) || "ACL_NONCE"
//	okm  = HKDF-Expand(hash, prk, info, L=12)
func DeriveBlockNonce(p profile.Profile, salt []byte, blockIndex int64, out []byte) error {
	if len(out) != profile.NonceSize {
		return domain.NewCryptoError("failed to derive nonce/salt", errBadOutputLen)
	}

	idx := i64le(blockIndex)

	prkMac := hmac.New(p.NewHash, salt)
	if _, err := prkMac.Write(idx); err != nil {
		return domain.NewCryptoError("failed to derive nonce/salt", err)
	}
	prk := prkMac.Sum(nil)
	defer memguard.WipeBytes(prk)

	info := make([]byte, 0, len(idx)+len(infoSuffix))
	info = append(info, idx...)
	info = append(info, infoSuffix...)

	r := hkdf.Expand(p.NewHash, prk, info)
	if _, err := io.ReadFull(r, out); err != nil {
		return domain.NewCryptoError("failed to derive nonce/salt", err)
	}
	return nil
}

func i64le(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

var (
	errSaltSizeMismatch = saltSizeError{}
	errBadOutputLen     = outputLenError{}
)

type saltSizeError struct{}

func (saltSizeError) Error() string { return "hmac output size does not match profile salt size" }

type outputLenError struct{}

func (outputLenError) Error() string { return "nonce output buffer has wrong length" }
