package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/theflywheel/chash"
	"github.com/theflywheel/chash/internal/keygen"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the chash CLI configuration.
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Bench   BenchConfig   `koanf:"bench"`
	Compare CompareConfig `koanf:"compare"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // text or json
}

// BenchConfig drives `chash bench run`.
type BenchConfig struct {
	Keys        int    `koanf:"keys"`
	Kind        string `koanf:"kind"`
	Hash        string `koanf:"hash"`
	Sample      int    `koanf:"sample"`
	ValueSize   int    `koanf:"value_size"`
	Output      string `koanf:"output"`
	MetricsFile string `koanf:"metrics_file"`
}

// CompareConfig drives `chash bench compare`.
type CompareConfig struct {
	Threshold float64 `koanf:"threshold"`
	Output    string  `koanf:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Bench: BenchConfig{
			Keys:      100_000,
			Kind:      string(keygen.Sequential),
			Hash:      "xxhash",
			Sample:    10_000,
			ValueSize: 16,
			Output:    "benchmark-results/latest.json",
		},
		Compare: CompareConfig{
			Threshold: 5.0,
			Output:    "benchmark-results/comparison.json",
		},
	}
}

func (c *Config) toMap() map[string]any {
	return map[string]any{
		"log.level":          c.Log.Level,
		"log.format":         c.Log.Format,
		"bench.keys":         c.Bench.Keys,
		"bench.kind":         c.Bench.Kind,
		"bench.hash":         c.Bench.Hash,
		"bench.sample":       c.Bench.Sample,
		"bench.value_size":   c.Bench.ValueSize,
		"bench.output":       c.Bench.Output,
		"bench.metrics_file": c.Bench.MetricsFile,
		"compare.threshold":  c.Compare.Threshold,
		"compare.output":     c.Compare.Output,
	}
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	if hclog.LevelFromString(c.Log.Level) == hclog.NoLevel {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q must be text or json", ErrInvalidConfig, c.Log.Format)
	}

	if c.Bench.Keys <= 0 {
		return fmt.Errorf("%w: bench.keys must be positive, got %d", ErrInvalidConfig, c.Bench.Keys)
	}
	if c.Bench.Sample < 0 {
		return fmt.Errorf("%w: bench.sample must not be negative, got %d", ErrInvalidConfig, c.Bench.Sample)
	}
	if c.Bench.ValueSize < 0 {
		return fmt.Errorf("%w: bench.value_size must not be negative, got %d", ErrInvalidConfig, c.Bench.ValueSize)
	}
	if _, err := keygen.ParseKind(c.Bench.Kind); err != nil {
		return fmt.Errorf("%w: bench.kind: %v", ErrInvalidConfig, err)
	}
	if _, err := chash.ParseAlgorithm(c.Bench.Hash); err != nil {
		return fmt.Errorf("%w: bench.hash: %v", ErrInvalidConfig, err)
	}

	if c.Compare.Threshold <= 0 {
		return fmt.Errorf("%w: compare.threshold must be positive, got %g", ErrInvalidConfig, c.Compare.Threshold)
	}
	return nil
}
