package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alanyoungcy/lendwire"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lendwire.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
generation = "b"
log_level = "debug"

[cache]
enabled = true
ttl = "2m"

[redis]
addr = "redis.internal:6379"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	gen, err := cfg.ParsedGeneration()
	if err != nil {
		t.Fatal(err)
	}
	if gen != lendwire.GenerationB {
		t.Fatalf("generation = %s", gen)
	}
	if cfg.CacheTTL() != 2*time.Minute {
		t.Fatalf("ttl = %s", cfg.CacheTTL())
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Fatalf("redis addr = %s", cfg.Redis.Addr)
	}
	// Untouched fields keep their defaults.
	if cfg.Resolver.FetchLimit != 8 {
		t.Fatalf("fetch_limit = %d", cfg.Resolver.FetchLimit)
	}
	if cfg.Redis.PoolSize != 10 {
		t.Fatalf("pool_size = %d", cfg.Redis.PoolSize)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `generation = "b"`)

	t.Setenv("LENDWIRE_GENERATION", "c")
	t.Setenv("LENDWIRE_REDIS_ADDR", "env.redis:6380")
	t.Setenv("LENDWIRE_RESOLVER_FETCH_LIMIT", "16")
	t.Setenv("LENDWIRE_CACHE_TTL", "45s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	gen, err := cfg.ParsedGeneration()
	if err != nil {
		t.Fatal(err)
	}
	if gen != lendwire.GenerationC {
		t.Fatalf("generation = %s, env override lost", gen)
	}
	if cfg.Redis.Addr != "env.redis:6380" {
		t.Fatalf("redis addr = %s", cfg.Redis.Addr)
	}
	if cfg.Resolver.FetchLimit != 16 {
		t.Fatalf("fetch_limit = %d", cfg.Resolver.FetchLimit)
	}
	if cfg.CacheTTL() != 45*time.Second {
		t.Fatalf("ttl = %s", cfg.CacheTTL())
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Generation = "z"
	cfg.ProgramID = "not-base58!"
	cfg.LogLevel = "loud"
	cfg.Resolver.FetchLimit = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	for _, want := range []string{"generation", "program_id", "log_level", "fetch_limit"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateCacheRequiresRedis(t *testing.T) {
	cfg := Defaults()
	cfg.Cache.Enabled = true
	cfg.Redis.Addr = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "redis") {
		t.Fatalf("got %v, want redis addr complaint", err)
	}
}

func TestMarkets(t *testing.T) {
	path := writeConfig(t, `
generation = "c"
markets = [
  "GodqUPNYM3U91UT5X3HWgtqJaAAarw5MHvjTA3tfWWhX",
  "FJsja5oAgs6mDYAxtj7NNn2FUNDhmLYec6J2dsKMLah9",
]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	markets, err := cfg.ParsedMarkets()
	if err != nil {
		t.Fatal(err)
	}
	if len(markets) != 2 {
		t.Fatalf("markets = %d, want 2", len(markets))
	}
	for i, m := range markets {
		if m.String() != cfg.Markets[i] {
			t.Fatalf("market %d round trip: %s", i, m)
		}
	}

	// Env override replaces the file list wholesale.
	t.Setenv("LENDWIRE_MARKETS", "69LK6qziCCnqgmUPYpuiJ2y8JavKVRrCZ4pDekSyDZTn")
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Markets) != 1 || cfg.Markets[0] != "69LK6qziCCnqgmUPYpuiJ2y8JavKVRrCZ4pDekSyDZTn" {
		t.Fatalf("markets after env override = %v", cfg.Markets)
	}
}

func TestValidateRejectsBadMarket(t *testing.T) {
	cfg := Defaults()
	cfg.Markets = []string{"GodqUPNYM3U91UT5X3HWgtqJaAAarw5MHvjTA3tfWWhX", "not-a-key"}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "market") {
		t.Fatalf("got %v, want market complaint", err)
	}
	if _, err := cfg.ParsedMarkets(); err == nil {
		t.Fatal("ParsedMarkets accepted an invalid address")
	}
}

func TestParsedProgramID(t *testing.T) {
	cfg := Defaults()
	pk, err := cfg.ParsedProgramID()
	if err != nil {
		t.Fatal(err)
	}
	if !pk.IsZero() {
		t.Fatalf("empty program_id should parse to the zero key, got %s", pk)
	}

	cfg.ProgramID = "69LK6qziCCnqgmUPYpuiJ2y8JavKVRrCZ4pDekSyDZTn"
	pk, err = cfg.ParsedProgramID()
	if err != nil {
		t.Fatal(err)
	}
	if pk.String() != cfg.ProgramID {
		t.Fatalf("program id round trip: %s", pk)
	}
}
