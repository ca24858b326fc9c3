package workload

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theflywheel/chash/internal/keygen"
)

func TestRun(t *testing.T) {
	for _, kind := range keygen.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			result, err := Run(context.Background(), Options{
				Keys:      2_000,
				Kind:      kind,
				Hash:      "murmur3",
				Sample:    500,
				ValueSize: 8,
			})
			require.NoError(t, err)

			assert.Equal(t, "Workload/"+string(kind)+"/murmur3", result.Name)
			assert.Equal(t, "scale", result.Category)
			for _, metric := range []string{
				"insertion_rate", "random_lookup_rate", "sequential_lookup_rate",
				"entry_rate", "removal_rate", "buckets", "resizes",
				"longest_chain", "load_factor", "alloc_mb",
			} {
				assert.Contains(t, result.Metrics, metric)
			}
			// 2000 keys settle in 4096 buckets after 13 doublings
			assert.Equal(t, 4096.0, result.Metrics["buckets"])
			assert.Equal(t, 13.0, result.Metrics["resizes"])
			assert.LessOrEqual(t, result.Metrics["load_factor"], 0.75)
		})
	}
}

func TestRunLogsProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Info})

	_, err := Run(context.Background(), Options{
		Name:           "progress",
		Keys:           1_000,
		ReportInterval: 250,
		Logger:         logger,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, "inserted keys"))
	assert.Contains(t, out, "workload complete")
}

func TestRunWritesMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.prom")
	_, err := Run(context.Background(), Options{Name: "prom", Keys: 100, MetricsFile: path})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `chash_entries{map="prom"} 100`)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Keys: 1_000, ReportInterval: 100})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRejectsBadOptions(t *testing.T) {
	_, err := Run(context.Background(), Options{Keys: 0})
	assert.Error(t, err)

	_, err = Run(context.Background(), Options{Keys: 10, Hash: "md5"})
	assert.Error(t, err)

	_, err = Run(context.Background(), Options{Keys: 10, Kind: "guid"})
	assert.Error(t, err)
}
