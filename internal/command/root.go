// Package command provides the CLI command definitions for chash.
//
// It uses urfave/cli/v2 for command parsing. Configuration is loaded once in
// the app's Before hook and handed to subcommands through App.Metadata.
package command

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"

	"github.com/theflywheel/chash/internal/config"
	"github.com/theflywheel/chash/internal/logging"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

const (
	metaConfig = "config"
	metaLogger = "logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "chash",
		Usage:   "Separate chaining hash map demos and benchmarks",
		Version: fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			DemoCommand(),
			BenchCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c, nil)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			c.App.Metadata[metaConfig] = cfg
			c.App.Metadata[metaLogger] = logging.New(logging.Config{
				Name:   "chash",
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: c.App.ErrWriter,
			})
			return nil
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			EnvVars: []string{"CHASH_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: trace, debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
	}
}

// loadConfig layers explicitly set global flags and the given overrides on
// top of file and environment configuration.
func loadConfig(c *cli.Context, overrides map[string]any) (*config.Config, error) {
	flags := make(map[string]any)
	if c.IsSet("log-level") {
		flags["log.level"] = c.String("log-level")
	}
	if c.IsSet("log-format") {
		flags["log.format"] = c.String("log-format")
	}
	for k, v := range overrides {
		flags[k] = v
	}

	return config.NewLoader(
		config.WithConfigFile(c.String("config")),
		config.WithFlags(flags),
	).Load()
}

// Config returns the configuration loaded by the Before hook.
func Config(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// Logger returns the logger built by the Before hook.
func Logger(c *cli.Context) hclog.Logger {
	if logger, ok := c.App.Metadata[metaLogger].(hclog.Logger); ok {
		return logger
	}
	return hclog.NewNullLogger()
}
