// Package header implements the versioned, sector-aligned file header:
// encode/decode plus per-major minor-version validation. The dispatch-by-
// major-version shape models format transitions as a registry of named
// strategies, here validating minor versions rather than driving a
// background migration.
package header

import (
	"encoding/binary"

	"github.com/prn-tf/vaultstream/internal/codec/profile"
	"github.com/prn-tf/vaultstream/internal/domain"
)

// CurrentMajor and CurrentMinor are the version this codec writes.
const (
	CurrentMajor uint8 = 1
	CurrentMinor uint8 = 0
)

// minorStrategy validates a minor version for a recognized major version.
type minorStrategy func(minor uint8) error

// acceptAnyMinor is major 1's strategy: any minor version is accepted.
func acceptAnyMinor(uint8) error { return nil }

var majorStrategies = map[uint8]minorStrategy{
	1: acceptAnyMinor,
}

// Header is the decoded, logical contents of a file header.
type Header struct {
	Major        uint8
	Minor        uint8
	Nonce        []byte // NonceSize bytes
	OriginalSize int64
	Salt         []byte // profile.SaltSize bytes
}

// Encode writes the header into a HeaderSize-byte buffer: the fixed fields
// at offset 0, zero-padded to the profile's sector-aligned HeaderSize. The
// header is never rewritten after block processing begins.
func Encode(p profile.Profile, fileNonce []byte, originalSize int64, salt []byte) ([]byte, error) {
	if len(fileNonce) != profile.NonceSize {
		return nil, domain.NewValidationError("file nonce must be NonceSize bytes")
	}
	if len(salt) != p.SaltSize {
		return nil, domain.NewValidationError("salt length does not match profile")
	}

	buf := make([]byte, p.HeaderSize)
	off := 0
	buf[off] = CurrentMajor
	off++
	buf[off] = CurrentMinor
	off++
	copy(buf[off:], fileNonce)
	off += profile.NonceSize
	binary.LittleEndian.PutUint64(buf[off:], uint64(originalSize))
	off += 8
	copy(buf[off:], salt)
	// Remaining bytes through HeaderSize are already zero.
	return buf, nil
}

// Decode parses a HeaderSize-byte buffer, validating major/minor version,
// and returns the logical header fields.
func Decode(p profile.Profile, buf []byte) (*Header, error) {
	if len(buf) != p.HeaderSize {
		return nil, domain.NewIOError("short header read", nil)
	}

	off := 0
	major := buf[off]
	off++
	minor := buf[off]
	off++

	if major == 0 {
		return nil, domain.NewVersionError("major version cannot be zero")
	}
	if major > CurrentMajor {
		return nil, domain.NewVersionError("file encrypted with newer version")
	}
	strategy, ok := majorStrategies[major]
	if !ok {
		return nil, domain.NewVersionError("unsupported major version")
	}
	if err := strategy(minor); err != nil {
		return nil, domain.NewVersionError("unsupported minor version: " + err.Error())
	}

	nonce := make([]byte, profile.NonceSize)
	copy(nonce, buf[off:off+profile.NonceSize])
	off += profile.NonceSize

	originalSize := int64(binary.LittleEndian.Uint64(buf[off : off+8]))
	off += 8

	salt := make([]byte, p.SaltSize)
	copy(salt, buf[off:off+p.SaltSize])

	return &Header{
		Major:        major,
		Minor:        minor,
		Nonce:        nonce,
		OriginalSize: originalSize,
		Salt:         salt,
	}, nil
}
