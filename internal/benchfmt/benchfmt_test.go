package benchfmt

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goBenchOutput = `goos: linux
goarch: amd64
pkg: github.com/theflywheel/chash
cpu: Intel(R) Xeon(R) CPU @ 2.20GHz
BenchmarkInsert/xxhash-8         	 5000000	       250.5 ns/op	      64 B/op	       1 allocs/op
BenchmarkGet/murmur3-8           	10000000	       100 ns/op
BenchmarkTenThousandKeys-8       	       1	 123456789 ns/op
BenchmarkSomethingElse           	    1000	      2000 ns/op
PASS
ok  	github.com/theflywheel/chash	12.345s
`

func TestParseGoBench(t *testing.T) {
	s := ParseGoBench(goBenchOutput, "abc12345", "main")

	assert.Equal(t, "abc12345", s.CommitID)
	assert.Equal(t, "main", s.Branch)
	assert.Equal(t, "goos: linux goarch: amd64", s.System)

	want := []Result{
		{
			Name:     "Insert/xxhash",
			Category: "standard",
			Metrics: map[string]float64{
				"operations":    5000000,
				"ns_per_op":     250.5,
				"ops_per_sec":   1_000_000_000 / 250.5,
				"bytes_per_op":  64,
				"allocs_per_op": 1,
			},
		},
		{
			Name:     "Get/murmur3",
			Category: "standard",
			Metrics: map[string]float64{
				"operations":  10000000,
				"ns_per_op":   100,
				"ops_per_sec": 10_000_000,
			},
		},
		{
			Name:     "TenThousandKeys",
			Category: "scale",
			Metrics: map[string]float64{
				"operations": 1,
				"ns_per_op":  123456789,
			},
		},
		{
			Name:     "SomethingElse",
			Category: "other",
			Metrics: map[string]float64{
				"operations":  1000,
				"ns_per_op":   2000,
				"ops_per_sec": 500_000,
			},
		},
	}
	if diff := cmp.Diff(want, s.Results); diff != "" {
		t.Errorf("ParseGoBench results mismatch (-want +got):\n%s", diff)
	}
}

func TestParseGoBenchReportedMetrics(t *testing.T) {
	const out = "BenchmarkTenThousandKeys-8 \t 1\t12345678 ns/op\t 1.000 longest_chain\t" +
		"812345 entry_rate\t 912345 insertion_rate\t 1024 B/op\t 12 allocs/op\n"

	s := ParseGoBench(out, "c", "b")
	require.Len(t, s.Results, 1)

	want := map[string]float64{
		"operations":     1,
		"ns_per_op":      12345678,
		"longest_chain":  1,
		"entry_rate":     812345,
		"insertion_rate": 912345,
		"bytes_per_op":   1024,
		"allocs_per_op":  12,
	}
	if diff := cmp.Diff(want, s.Results[0].Metrics); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "scale", s.Results[0].Category)
}

func TestParseGoBenchSkipsNonResultLines(t *testing.T) {
	const out = "BenchmarkTenThousandKeys started execution, b.N = 1\n" +
		"BenchmarkBroken-8 10 fast\n"

	s := ParseGoBench(out, "c", "b")
	assert.Empty(t, s.Results)
}

func TestCompare(t *testing.T) {
	base := Summary{CommitID: "base0000", Results: []Result{
		{Name: "Insert", Category: "standard", Metrics: map[string]float64{"ns_per_op": 100, "ops_per_sec": 1000}},
		{Name: "Get", Category: "standard", Metrics: map[string]float64{"ns_per_op": 100}},
		{Name: "Remove", Category: "standard", Metrics: map[string]float64{"ns_per_op": 100}},
		{Name: "Dropped", Metrics: map[string]float64{"ns_per_op": 1}},
	}}
	current := Summary{CommitID: "curr0000", Results: []Result{
		{Name: "Insert", Category: "standard", Metrics: map[string]float64{"ns_per_op": 120, "ops_per_sec": 800}},
		{Name: "Get", Category: "standard", Metrics: map[string]float64{"ns_per_op": 50}},
		{Name: "Remove", Category: "standard", Metrics: map[string]float64{"ns_per_op": 102}},
		{Name: "New", Metrics: map[string]float64{"ns_per_op": 1}},
	}}

	s := Compare(base, current, DefaultThreshold)

	assert.Equal(t, 3, s.TotalBenchmarks)
	// Insert regressed past the threshold, Remove only slightly
	assert.Equal(t, 2, s.RegressionBenchmarks)
	assert.Equal(t, 1, s.SignificantRegressions)
	assert.Equal(t, 1, s.ImprovedBenchmarks)

	require.Len(t, s.BenchmarkComparisons, 3)
	first := s.BenchmarkComparisons[0]
	assert.Equal(t, "Insert", first.Name)
	assert.Equal(t, Regression, first.OverallAssessment)
	assert.InDelta(t, -20.0, first.Score, 1e-9)

	byName := make(map[string]BenchmarkComparison)
	for _, bc := range s.BenchmarkComparisons {
		byName[bc.Name] = bc
	}
	assert.Equal(t, Improvement, byName["Get"].OverallAssessment)
	// a 2% slowdown is below the threshold
	assert.False(t, byName["Remove"].HasRegressions)
	assert.Equal(t, Neutral, byName["Remove"].OverallAssessment)
}

func TestHigherIsBetter(t *testing.T) {
	for metric, want := range map[string]bool{
		"insertion_rate": true,
		"ops_per_sec":    true,
		"operations":     true,
		"ns_per_op":      false,
		"bytes_per_op":   false,
		"longest_chain":  false,
	} {
		assert.Equal(t, want, HigherIsBetter(metric), metric)
	}
}

func TestWriteReport(t *testing.T) {
	s := Compare(
		Summary{CommitID: "0123456789", Results: []Result{{Name: "Get", Metrics: map[string]float64{"ns_per_op": 100}}}},
		Summary{CommitID: "abcdefabcd", Results: []Result{{Name: "Get", Metrics: map[string]float64{"ns_per_op": 200}}}},
		DefaultThreshold,
	)

	var buf bytes.Buffer
	WriteReport(&buf, s)
	out := buf.String()
	assert.Contains(t, out, "Benchmark Comparison: 01234567 vs abcdefab")
	assert.Contains(t, out, "x Get")
	assert.Contains(t, out, "+100.00%")

	buf.Reset()
	WriteReport(&buf, Compare(Summary{}, Summary{}, DefaultThreshold))
	assert.Contains(t, buf.String(), "No matching benchmarks")
}

func TestAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history", "latest.json")

	_, err := Append(path, Result{Name: "a", Metrics: map[string]float64{"x": 1}}, "c1", "b1")
	require.NoError(t, err)
	_, err = Append(path, Result{Name: "b", Metrics: map[string]float64{"x": 2}}, "c2", "b2")
	require.NoError(t, err)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "c1", s.CommitID)
	assert.Equal(t, "b1", s.Branch)
	require.Len(t, s.Results, 2)
	assert.Equal(t, "b", s.Results[1].Name)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	_, err = Append(bad, Result{Name: "a"}, "c", "b")
	assert.Error(t, err)
}

func TestGitInfo(t *testing.T) {
	root := t.TempDir()

	commit, branch := GitInfo(root)
	assert.Equal(t, "local", commit)
	assert.Equal(t, "dev", branch)

	gitDir := filepath.Join(root, ".git")
	require.NoError(t, os.MkdirAll(filepath.Join(gitDir, "refs", "heads"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "refs", "heads", "main"),
		[]byte("0123456789abcdef0123456789abcdef01234567\n"), 0644))

	commit, branch = GitInfo(root)
	assert.Equal(t, "01234567", commit)
	assert.Equal(t, "main", branch)

	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("fedcba9876543210\n"), 0644))
	commit, branch = GitInfo(root)
	assert.Equal(t, "fedcba98", commit)
	assert.Equal(t, "dev", branch)
}
