// Package logging builds the hclog loggers used by the chash CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Config holds logger configuration.
type Config struct {
	// Name is the logger name printed with every line.
	Name string
	// Level is the minimum level (trace, debug, info, warn, error).
	Level string
	// Format is text or json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger. Unknown levels fall back to info.
func New(cfg Config) hclog.Logger {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       cfg.Name,
		Level:      level,
		Output:     output,
		JSONFormat: strings.EqualFold(cfg.Format, "json"),
		Color:      hclog.ColorOff,
	})
}
