package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader(WithEnvPrefix("CHASH_TEST_DEFAULTS_")).Load()
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
bench:
  keys: 5000
  kind: ulid
  value_size: 64
`)

	cfg, err := NewLoader(WithConfigFile(path), WithEnvPrefix("CHASH_TEST_FILE_")).Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5000, cfg.Bench.Keys)
	assert.Equal(t, "ulid", cfg.Bench.Kind)
	assert.Equal(t, 64, cfg.Bench.ValueSize)
	// untouched keys keep their defaults
	assert.Equal(t, "xxhash", cfg.Bench.Hash)
	assert.Equal(t, 5.0, cfg.Compare.Threshold)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))).Load()
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "bench:\n  keys: 5000\n  value_size: 8\n")
	t.Setenv("CHASH_BENCH_KEYS", "700")
	t.Setenv("CHASH_BENCH_VALUE_SIZE", "32")
	t.Setenv("CHASH_BENCH_METRICS_FILE", "/tmp/chash.prom")

	cfg, err := NewLoader(WithConfigFile(path)).Load()
	require.NoError(t, err)

	assert.Equal(t, 700, cfg.Bench.Keys)
	assert.Equal(t, 32, cfg.Bench.ValueSize)
	assert.Equal(t, "/tmp/chash.prom", cfg.Bench.MetricsFile)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("CHASH_BENCH_HASH", "murmur3")
	t.Setenv("CHASH_LOG_LEVEL", "warn")

	cfg, err := NewLoader(WithFlags(map[string]any{
		"bench.hash": "blake3",
	})).Load()
	require.NoError(t, err)

	assert.Equal(t, "blake3", cfg.Bench.Hash)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMapNested(t *testing.T) {
	l := NewLoader()
	require.NoError(t, l.LoadMap(map[string]any{"compare.threshold": 2.5}))
	assert.Equal(t, 2.5, l.Get("compare.threshold"))
	assert.Contains(t, l.Keys(), "compare.threshold")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero keys", func(c *Config) { c.Bench.Keys = 0 }},
		{"negative sample", func(c *Config) { c.Bench.Sample = -1 }},
		{"negative value size", func(c *Config) { c.Bench.ValueSize = -1 }},
		{"kind", func(c *Config) { c.Bench.Kind = "guid" }},
		{"hash", func(c *Config) { c.Bench.Hash = "md5" }},
		{"threshold", func(c *Config) { c.Compare.Threshold = 0 }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "bench:\n  hash: sha1\n")
	_, err := NewLoader(WithConfigFile(path), WithEnvPrefix("CHASH_TEST_INVALID_")).Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
