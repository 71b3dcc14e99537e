package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies LENDWIRE_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known LENDWIRE_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators switch deployments without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Generation, "LENDWIRE_GENERATION")
	setStr(&cfg.ProgramID, "LENDWIRE_PROGRAM_ID")
	setStringSlice(&cfg.Markets, "LENDWIRE_MARKETS")
	setStr(&cfg.LogLevel, "LENDWIRE_LOG_LEVEL")

	setStr(&cfg.Redis.Addr, "LENDWIRE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "LENDWIRE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "LENDWIRE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "LENDWIRE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "LENDWIRE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "LENDWIRE_REDIS_TLS_ENABLED")

	setBool(&cfg.Cache.Enabled, "LENDWIRE_CACHE_ENABLED")
	setDuration(&cfg.Cache.TTL, "LENDWIRE_CACHE_TTL")

	setInt(&cfg.Resolver.FetchLimit, "LENDWIRE_RESOLVER_FETCH_LIMIT")
}

// Typed env-var helpers. Each only mutates the target when the
// environment variable is present and non-empty.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
