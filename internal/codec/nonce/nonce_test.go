package nonce

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/vaultstream/internal/codec/profile"
)

func TestPrecomputeSalt_LengthMatchesProfile(t *testing.T) {
	for _, id := range []profile.ID{profile.Default, profile.Constrained} {
		p := profile.Get(id)
		fileNonce := bytes.Repeat([]byte{0x01}, profile.NonceSize)

		salt, err := PrecomputeSalt(p, fileNonce)
		require.NoError(t, err)
		assert.Len(t, salt, p.SaltSize)
	}
}

func TestPrecomputeSalt_Deterministic(t *testing.T) {
	p := profile.Get(profile.Default)
	fileNonce := bytes.Repeat([]byte{0x02}, profile.NonceSize)

	a, err := PrecomputeSalt(p, fileNonce)
	require.NoError(t, err)
	b, err := PrecomputeSalt(p, fileNonce)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeriveBlockNonce_DistinctIndicesDistinctNonces(t *testing.T) {
	p := profile.Get(profile.Default)
	fileNonce := bytes.Repeat([]byte{0x03}, profile.NonceSize)
	salt, err := PrecomputeSalt(p, fileNonce)
	require.NoError(t, err)

	a := make([]byte, profile.NonceSize)
	b := make([]byte, profile.NonceSize)
	require.NoError(t, DeriveBlockNonce(p, salt, 0, a))
	require.NoError(t, DeriveBlockNonce(p, salt, 1, b))

	assert.NotEqual(t, a, b)
}

func TestDeriveBlockNonce_Deterministic(t *testing.T) {
	p := profile.Get(profile.Constrained)
	fileNonce := bytes.Repeat([]byte{0x04}, profile.NonceSize)
	salt, err := PrecomputeSalt(p, fileNonce)
	require.NoError(t, err)

	a := make([]byte, profile.NonceSize)
	b := make([]byte, profile.NonceSize)
	require.NoError(t, DeriveBlockNonce(p, salt, 42, a))
	require.NoError(t, DeriveBlockNonce(p, salt, 42, b))

	assert.Equal(t, a, b)
}

func TestDeriveBlockNonce_RejectsWrongOutputLength(t *testing.T) {
	p := profile.Get(profile.Default)
	salt := bytes.Repeat([]byte{0x05}, p.SaltSize)

	err := DeriveBlockNonce(p, salt, 0, make([]byte, profile.NonceSize-1))
	assert.Error(t, err)
}
