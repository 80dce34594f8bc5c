package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/vaultstream/internal/domain"
)

func TestStore_StoreThenRetrieve(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	key := domain.NewCipherKey([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, s.StoreKey(context.Background(), "file-1", key))

	got, err := s.RetrieveKey(context.Background(), "file-1")
	require.NoError(t, err)
	assert.Equal(t, key.Bytes(), got.Bytes())
}

func TestStore_StoreOverwritesExistingKeyID(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	first := domain.NewCipherKey([]byte("11111111111111111111111111111111"))
	second := domain.NewCipherKey([]byte("22222222222222222222222222222222"))

	require.NoError(t, s.StoreKey(context.Background(), "dup", first))
	require.NoError(t, s.StoreKey(context.Background(), "dup", second))

	got, err := s.RetrieveKey(context.Background(), "dup")
	require.NoError(t, err)
	assert.Equal(t, second.Bytes(), got.Bytes())
}

func TestStore_RetrieveMissingKeyIsCryptoError(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.RetrieveKey(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCrypto)
}

func TestStore_RejectsEmptyKeyID(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	err = s.StoreKey(context.Background(), "", domain.NewCipherKey([]byte("k")))
	assert.Error(t, err)
}
