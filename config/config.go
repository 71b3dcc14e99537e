// Package config defines the client-side configuration for the lending
// wire layer and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/alanyoungcy/lendwire"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by LENDWIRE_* environment
// variables.
type Config struct {
	Generation string         `toml:"generation"`
	ProgramID  string         `toml:"program_id"`
	Markets    []string       `toml:"markets"`
	Redis      RedisConfig    `toml:"redis"`
	Cache      CacheConfig    `toml:"cache"`
	Resolver   ResolverConfig `toml:"resolver"`
	LogLevel   string         `toml:"log_level"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// CacheConfig holds account cache parameters.
type CacheConfig struct {
	Enabled bool     `toml:"enabled"`
	TTL     duration `toml:"ttl"`
}

// ResolverConfig holds pool sweep parameters.
type ResolverConfig struct {
	FetchLimit int `toml:"fetch_limit"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding of values like "30s" or "5m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// CacheTTL returns the configured cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return c.Cache.TTL.Duration
}

// ParsedGeneration returns the configured protocol generation.
func (c *Config) ParsedGeneration() (lendwire.Generation, error) {
	return lendwire.ParseGeneration(c.Generation)
}

// ParsedProgramID returns the program override, or the zero key when the
// generation's canonical deployment should be used.
func (c *Config) ParsedProgramID() (solana.PublicKey, error) {
	if c.ProgramID == "" {
		return solana.PublicKey{}, nil
	}
	pk, err := solana.PublicKeyFromBase58(c.ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("config: program_id: %w", err)
	}
	return pk, nil
}

// ParsedMarkets returns the configured market addresses. Empty is valid:
// a deployment may discover markets elsewhere and only use this layer's
// codec and builders.
func (c *Config) ParsedMarkets() ([]solana.PublicKey, error) {
	markets := make([]solana.PublicKey, 0, len(c.Markets))
	for _, m := range c.Markets {
		pk, err := solana.PublicKeyFromBase58(m)
		if err != nil {
			return nil, fmt.Errorf("config: market %q: %w", m, err)
		}
		markets = append(markets, pk)
	}
	return markets, nil
}

// Defaults returns a Config populated with sane defaults.
func Defaults() Config {
	return Config{
		Generation: "c",
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     duration{30 * time.Second},
		},
		Resolver: ResolverConfig{
			FetchLimit: 8,
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and
// returns a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if _, err := c.ParsedGeneration(); err != nil {
		errs = append(errs, fmt.Sprintf("unknown generation %q (valid: a, b, c)", c.Generation))
	}

	if _, err := c.ParsedProgramID(); err != nil {
		errs = append(errs, fmt.Sprintf("program_id %q is not a valid base58 key", c.ProgramID))
	}

	for _, m := range c.Markets {
		if _, err := solana.PublicKeyFromBase58(m); err != nil {
			errs = append(errs, fmt.Sprintf("market %q is not a valid base58 key", m))
		}
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Resolver.FetchLimit <= 0 {
		errs = append(errs, "resolver: fetch_limit must be positive")
	}

	if c.Cache.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when the cache is enabled")
		}
		if c.Cache.TTL.Duration <= 0 {
			errs = append(errs, "cache: ttl must be positive")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
