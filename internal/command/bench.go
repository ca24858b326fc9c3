package command

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/theflywheel/chash"
	"github.com/theflywheel/chash/internal/benchfmt"
	"github.com/theflywheel/chash/internal/keygen"
	"github.com/theflywheel/chash/internal/workload"
)

// BenchCommand returns the bench subcommand group.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Run, record and compare benchmarks",
		Subcommands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run a scale workload and append the result to the history file",
				Flags:  benchRunFlags(),
				Action: benchRun,
			},
			{
				Name:      "parse",
				Usage:     "Convert `go test -bench` output into a summary",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Summary file to write (default: stdout)",
					},
				},
				Action: benchParse,
			},
			{
				Name:      "compare",
				Usage:     "Compare two summaries and fail on significant regressions",
				ArgsUsage: "BASE CURRENT",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Percent change treated as significant",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Comparison file to write",
					},
				},
				Action: benchCompare,
			},
		},
	}
}

func benchRunFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "keys", Aliases: []string{"n"}, Usage: "Number of keys"},
		&cli.StringFlag{Name: "kind", Usage: fmt.Sprintf("Key kind: %v", keygen.Kinds())},
		&cli.StringFlag{Name: "hash", Usage: fmt.Sprintf("Hash algorithm: %v", chash.AlgorithmNames())},
		&cli.IntFlag{Name: "sample", Usage: "Number of random lookups"},
		&cli.IntFlag{Name: "value-size", Usage: "Value payload size in bytes"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "History file to append to"},
		&cli.StringFlag{Name: "metrics-file", Usage: "Write map metrics in Prometheus text format"},
	}
}

// setFlags maps the flags the user set to their dotted config keys.
func setFlags(c *cli.Context, keys map[string]string) map[string]any {
	out := make(map[string]any)
	for flag, key := range keys {
		if !c.IsSet(flag) {
			continue
		}
		out[key] = c.Value(flag)
	}
	return out
}

func benchRun(c *cli.Context) error {
	cfg, err := loadConfig(c, setFlags(c, map[string]string{
		"keys":         "bench.keys",
		"kind":         "bench.kind",
		"hash":         "bench.hash",
		"sample":       "bench.sample",
		"value-size":   "bench.value_size",
		"output":       "bench.output",
		"metrics-file": "bench.metrics_file",
	}))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	logger := Logger(c)

	kind, err := keygen.ParseKind(cfg.Bench.Kind)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	result, err := workload.Run(c.Context, workload.Options{
		Keys:        cfg.Bench.Keys,
		Kind:        kind,
		Hash:        cfg.Bench.Hash,
		Sample:      cfg.Bench.Sample,
		ValueSize:   cfg.Bench.ValueSize,
		MetricsFile: cfg.Bench.MetricsFile,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("run workload: %w", err)
	}

	commit, branch := benchfmt.GitInfo(".")
	if _, err := benchfmt.Append(cfg.Bench.Output, result, commit, branch); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	logger.Info("saved benchmark result", "name", result.Name, "path", cfg.Bench.Output)

	fmt.Fprintf(c.App.Writer, "%s\n", result.Name)
	for _, name := range []string{"insertion_rate", "random_lookup_rate", "sequential_lookup_rate", "entry_rate", "removal_rate"} {
		fmt.Fprintf(c.App.Writer, "  %-24s %14.2f ops/sec\n", name, result.Metrics[name])
	}
	fmt.Fprintf(c.App.Writer, "  %-24s %14.0f\n", "buckets", result.Metrics["buckets"])
	fmt.Fprintf(c.App.Writer, "  %-24s %14.0f\n", "longest_chain", result.Metrics["longest_chain"])
	fmt.Fprintf(c.App.Writer, "  %-24s %14.3f\n", "load_factor", result.Metrics["load_factor"])
	return nil
}

func benchParse(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: chash bench parse FILE", 2)
	}

	content, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("read benchmark output: %w", err)
	}

	commit, branch := benchfmt.GitInfo(".")
	summary := benchfmt.ParseGoBench(string(content), commit, branch)
	Logger(c).Debug("parsed benchmark output", "results", len(summary.Results))

	if out := c.String("output"); out != "" {
		return benchfmt.Write(out, summary)
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}

func benchCompare(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: chash bench compare BASE CURRENT", 2)
	}

	cfg, err := loadConfig(c, setFlags(c, map[string]string{
		"threshold": "compare.threshold",
		"output":    "compare.output",
	}))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	base, err := benchfmt.Load(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("load base: %w", err)
	}
	current, err := benchfmt.Load(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("load current: %w", err)
	}

	summary := benchfmt.Compare(base, current, cfg.Compare.Threshold)
	if err := writeJSON(cfg.Compare.Output, summary); err != nil {
		return err
	}
	benchfmt.WriteReport(c.App.Writer, summary)

	if summary.SignificantRegressions > 0 {
		return cli.Exit(fmt.Sprintf("%d significant regressions", summary.SignificantRegressions), 1)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
