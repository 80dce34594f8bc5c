package vaultstream

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/vaultstream/internal/codec/profile"
	"github.com/prn-tf/vaultstream/internal/config"
	"github.com/prn-tf/vaultstream/internal/domain"
	"github.com/prn-tf/vaultstream/internal/vault"
)

// slowStoreVault sleeps inside StoreKey so a test can observe whether two
// concurrent callers were ever inside it at the same time.
type slowStoreVault struct {
	backend       vault.Vault
	active        int32
	maxActiveSeen int32
}

func (v *slowStoreVault) StoreKey(ctx context.Context, keyID string, key domain.CipherKey) error {
	n := atomic.AddInt32(&v.active, 1)
	for {
		max := atomic.LoadInt32(&v.maxActiveSeen)
		if n <= max || atomic.CompareAndSwapInt32(&v.maxActiveSeen, max, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	atomic.AddInt32(&v.active, -1)
	return v.backend.StoreKey(ctx, keyID, key)
}

func (v *slowStoreVault) RetrieveKey(ctx context.Context, keyID string) (domain.CipherKey, error) {
	return v.backend.RetrieveKey(ctx, keyID)
}

var _ vault.Vault = (*slowStoreVault)(nil)

func TestNewFromConfig_EncryptDecryptRoundTrip(t *testing.T) {
	cfg := &config.Config{
		Profile:              string(profile.Default),
		Scheme:               string(domain.SchemeChaCha20Poly1305),
		VaultLockTTLSeconds:  30,
		VaultCacheTTLSeconds: 300,
	}

	codec, err := NewFromConfig(cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)

	dir := t.TempDir()
	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	srcPath := filepath.Join(dir, "plain.bin")
	require.NoError(t, os.WriteFile(srcPath, plaintext, 0o600))

	encPath := filepath.Join(dir, "enc.bin")
	decPath := filepath.Join(dir, "dec.bin")

	rawKey := make([]byte, 32)
	for i := range rawKey {
		rawKey[i] = byte(i)
	}

	instruction := domain.FileTransferInstruction{
		FileID:          "file-1",
		SourcePath:      srcPath,
		DestinationPath: encPath,
	}
	require.NoError(t, codec.Encrypt(context.Background(), instruction, domain.NewCipherKey(rawKey)))

	decInstruction := domain.FileTransferInstruction{
		FileID:          "file-1",
		SourcePath:      encPath,
		DestinationPath: decPath,
	}
	require.NoError(t, codec.Decrypt(context.Background(), decInstruction))

	got, err := os.ReadFile(decPath)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestCodec_EncryptSerializesSameDestinationPath(t *testing.T) {
	dir := t.TempDir()
	plaintext := []byte("same destination, concurrent writers")

	sv := &slowStoreVault{backend: vault.NewMemoryVault()}
	codec := New(Dependencies{
		Vault:   sv,
		Profile: profile.Default,
		Scheme:  domain.SchemeAES256GCM,
	})

	destPath := filepath.Join(dir, "shared-dest.bin")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			srcPath := filepath.Join(dir, "src-"+string(rune('a'+i))+".bin")
			require.NoError(t, os.WriteFile(srcPath, plaintext, 0o600))

			rawKey := make([]byte, 32)
			for j := range rawKey {
				rawKey[j] = byte(i)
			}
			instruction := domain.FileTransferInstruction{
				FileID:          "shared-file",
				SourcePath:      srcPath,
				DestinationPath: destPath,
			}
			_ = codec.Encrypt(context.Background(), instruction, domain.NewCipherKey(rawKey))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&sv.maxActiveSeen))
}

func TestNewFromConfig_RejectsUnknownScheme(t *testing.T) {
	cfg := &config.Config{Scheme: "not-a-real-scheme"}
	_, err := NewFromConfig(cfg, zerolog.Nop(), prometheus.NewRegistry())
	assert.Error(t, err)
}
