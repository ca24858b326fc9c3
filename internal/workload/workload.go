// Package workload runs scale workloads against a chash map.
//
// A run measures, in order:
//   - Insertion of every generated key, with progress logging
//   - Random lookups over a sample of the keys
//   - A sequential lookup pass over every key
//   - An Entry pass that updates every key in place
//   - Removal of every other key, verified with Get
//
// Rates are reported in operations per second alongside the final bucket
// layout and heap usage.
package workload

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/theflywheel/chash"
	"github.com/theflywheel/chash/internal/benchfmt"
	"github.com/theflywheel/chash/internal/keygen"
	"github.com/theflywheel/chash/metrics"
)

// defaultReportInterval is how often progress is logged and ctx is checked.
const defaultReportInterval = 100_000

// Options configures a run.
type Options struct {
	// Name of the result; derived from Kind and Hash when empty.
	Name string
	Keys int
	Kind keygen.Kind
	// Hash is an algorithm name accepted by chash.ParseAlgorithm.
	Hash string
	// Sample is the number of random lookups; zero or more than Keys means Keys.
	Sample    int
	ValueSize int
	// ReportInterval defaults to 100,000 keys.
	ReportInterval int
	// MetricsFile, when set, receives the final map metrics in the
	// Prometheus text format.
	MetricsFile string
	Logger      hclog.Logger
}

type record struct {
	hits    uint32
	payload []byte
}

// Run executes the workload and returns its metrics.
func Run(ctx context.Context, opts Options) (benchfmt.Result, error) {
	if opts.Keys <= 0 {
		return benchfmt.Result{}, fmt.Errorf("key count must be positive, got %d", opts.Keys)
	}
	alg, err := chash.ParseAlgorithm(opts.Hash)
	if err != nil {
		return benchfmt.Result{}, err
	}
	if opts.Kind == "" {
		opts.Kind = keygen.Sequential
	}
	if opts.Hash == "" {
		opts.Hash = "xxhash"
	}
	if opts.Name == "" {
		opts.Name = fmt.Sprintf("Workload/%s/%s", opts.Kind, opts.Hash)
	}
	if opts.ReportInterval <= 0 {
		opts.ReportInterval = defaultReportInterval
	}
	if opts.Sample <= 0 || opts.Sample > opts.Keys {
		opts.Sample = opts.Keys
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("workload")

	result := benchfmt.Result{
		Name:        opts.Name,
		Category:    "scale",
		Description: fmt.Sprintf("%d %s keys hashed with %s", opts.Keys, opts.Kind, opts.Hash),
		Metrics:     make(map[string]float64),
	}

	logger.Info("generating keys", "count", opts.Keys, "kind", opts.Kind)
	keys, err := keygen.Generate(opts.Kind, opts.Keys)
	if err != nil {
		return benchfmt.Result{}, err
	}

	runtime.GC()
	m := chash.New[string, record](chash.Strings(alg), chash.WithLogger(logger))

	// Insertion
	start := time.Now()
	for i, key := range keys {
		payload := make([]byte, opts.ValueSize)
		for j := range payload {
			payload[j] = byte(i)
		}
		m.Insert(key, record{payload: payload})

		if (i+1)%opts.ReportInterval == 0 {
			if err := ctx.Err(); err != nil {
				return benchfmt.Result{}, err
			}
			logger.Info("inserted keys", "count", i+1,
				"rate", fmt.Sprintf("%.2f keys/sec", rate(i+1, time.Since(start))))
		}
	}
	elapsed := time.Since(start)
	result.Metrics["insertion_rate"] = rate(len(keys), elapsed)
	logger.Info("insertion complete", "keys", len(keys), "elapsed", elapsed)

	if m.Len() != len(keys) {
		return benchfmt.Result{}, fmt.Errorf("map holds %d keys after inserting %d", m.Len(), len(keys))
	}

	// Random lookups
	start = time.Now()
	for i := 0; i < opts.Sample; i++ {
		idx := (i*31 + 17) % len(keys)
		v, ok := m.Get(keys[idx])
		if !ok {
			return benchfmt.Result{}, fmt.Errorf("key %q not found", keys[idx])
		}
		if len(v.payload) != opts.ValueSize {
			return benchfmt.Result{}, fmt.Errorf("value size mismatch for key %q: expected %d, got %d",
				keys[idx], opts.ValueSize, len(v.payload))
		}
	}
	elapsed = time.Since(start)
	result.Metrics["random_lookup_rate"] = rate(opts.Sample, elapsed)
	logger.Debug("random lookups complete", "sample", opts.Sample, "elapsed", elapsed)

	// Sequential lookups
	start = time.Now()
	for i, key := range keys {
		if !m.ContainsKey(key) {
			return benchfmt.Result{}, fmt.Errorf("key %q not found", key)
		}
		if (i+1)%opts.ReportInterval == 0 {
			if err := ctx.Err(); err != nil {
				return benchfmt.Result{}, err
			}
		}
	}
	elapsed = time.Since(start)
	result.Metrics["sequential_lookup_rate"] = rate(len(keys), elapsed)

	// Entry updates
	start = time.Now()
	for _, key := range keys {
		m.Entry(key).
			AndModify(func(r *record) { r.hits++ }).
			OrInsert(record{hits: 1})
	}
	elapsed = time.Since(start)
	result.Metrics["entry_rate"] = rate(len(keys), elapsed)

	for i := 0; i < opts.Sample; i++ {
		key := keys[(i*31+17)%len(keys)]
		if v := m.At(key); v.hits != 1 {
			return benchfmt.Result{}, fmt.Errorf("key %q has %d hits after one entry pass", key, v.hits)
		}
	}

	stats := m.Stats()
	result.Metrics["buckets"] = float64(stats.Buckets)
	result.Metrics["resizes"] = float64(stats.Resizes)
	result.Metrics["longest_chain"] = float64(stats.LongestChain)
	result.Metrics["load_factor"] = stats.LoadFactor

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile, metrics.NewCollector(opts.Name, m)); err != nil {
			return benchfmt.Result{}, err
		}
		logger.Debug("wrote map metrics", "path", opts.MetricsFile)
	}

	// Removal of every other key
	removed := 0
	start = time.Now()
	for i := 0; i < len(keys); i += 2 {
		if _, ok := m.Remove(keys[i]); !ok {
			return benchfmt.Result{}, fmt.Errorf("key %q missing on removal", keys[i])
		}
		removed++
	}
	elapsed = time.Since(start)
	result.Metrics["removal_rate"] = rate(removed, elapsed)

	for i, key := range keys {
		_, ok := m.Get(key)
		if want := i%2 == 1; ok != want {
			return benchfmt.Result{}, fmt.Errorf("key %q present=%v after removal pass", key, ok)
		}
	}
	if want := len(keys) - removed; m.Len() != want {
		return benchfmt.Result{}, fmt.Errorf("map holds %d keys after removal, expected %d", m.Len(), want)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	result.Metrics["alloc_mb"] = float64(mem.Alloc) / (1024 * 1024)

	logger.Info("workload complete", "name", opts.Name,
		"buckets", stats.Buckets, "longest_chain", stats.LongestChain)
	return result, nil
}

func rate(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}
