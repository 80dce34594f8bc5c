// Package config implements the codec's deployment-time configuration via
// spf13/viper: environment variables bound over a typed struct, with sane
// defaults set before Unmarshal. Consulted once at startup, not on the hot
// codec path.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/prn-tf/vaultstream/internal/codec/profile"
	"github.com/prn-tf/vaultstream/internal/domain"
)

// Config is the top-level codec configuration.
type Config struct {
	// Profile selects the HMAC/salt profile. Empty defers to the CI
	// environment-variable fallback, then profile.Default.
	Profile string `mapstructure:"profile"`

	// Scheme selects the AEAD cipher: "aes-256-gcm" or "chacha20-poly1305".
	Scheme string `mapstructure:"scheme"`

	// VaultLockTTLSeconds bounds how long a key-vault lock may be held
	// before it is considered abandoned.
	VaultLockTTLSeconds int `mapstructure:"vault_lock_ttl_seconds"`

	// VaultCacheTTLSeconds bounds how long a retrieved key may be served
	// from the vault's read-through cache.
	VaultCacheTTLSeconds int `mapstructure:"vault_cache_ttl_seconds"`
}

// Load reads configuration from environment variables prefixed VAULTSTREAM_
// (e.g. VAULTSTREAM_PROFILE, VAULTSTREAM_SCHEME), applying defaults for any
// unset field.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("vaultstream")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("profile", "")
	v.SetDefault("scheme", string(domain.SchemeAES256GCM))
	v.SetDefault("vault_lock_ttl_seconds", 30)
	v.SetDefault("vault_cache_ttl_seconds", 300)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, domain.NewValidationError("failed to parse configuration: " + err.Error())
	}
	return &cfg, nil
}

// ResolveProfile returns the configured profile.ID, falling back to the
// documented (discouraged) CI environment variable switch, then to
// profile.Default.
func (c *Config) ResolveProfile() profile.ID {
	if c.Profile != "" {
		return profile.ID(c.Profile)
	}
	if isCI() {
		return profile.Constrained
	}
	return profile.Default
}

// ResolveScheme parses the configured scheme name into a domain.Scheme.
func (c *Config) ResolveScheme() (domain.Scheme, error) {
	switch c.Scheme {
	case string(domain.SchemeAES256GCM), "":
		return domain.SchemeAES256GCM, nil
	case string(domain.SchemeChaCha20Poly1305):
		return domain.SchemeChaCha20Poly1305, nil
	default:
		return "", domain.NewValidationError("unknown cipher scheme: " + c.Scheme)
	}
}

func isCI() bool {
	if strings.EqualFold(os.Getenv("GITHUB_ACTIONS"), "true") {
		return true
	}
	return strings.EqualFold(os.Getenv("CI"), "true")
}
