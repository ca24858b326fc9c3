package benchfmt

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	systemRegex    = regexp.MustCompile(`goos:.+\n?goarch:.+`)
	goVersionRegex = regexp.MustCompile(`go\d+\.\d+(?:\.\d+)?`)
	benchLineRegex = regexp.MustCompile(`^Benchmark([\w/.=-]+?)(?:-\d+)?\s+(\d+)\s+(.+)$`)
)

// unitNames maps the units printed by the testing package to metric names.
// Units reported with b.ReportMetric are kept as they are.
var unitNames = map[string]string{
	"ns/op":     "ns_per_op",
	"B/op":      "bytes_per_op",
	"allocs/op": "allocs_per_op",
}

// standardBenchmarks are the per-operation benchmarks in bench/.
var standardBenchmarks = []string{"Insert", "Get", "Entry", "Remove", "Iterate"}

// scaleBenchmarks report their own rate metrics.
var scaleBenchmarks = []string{"TenThousandKeys", "MillionKeys", "UUIDKeys"}

// ParseGoBench converts `go test -bench` output into a summary. Every
// "<value> <unit>" pair on a benchmark line becomes a metric, including the
// ones reported with b.ReportMetric.
func ParseGoBench(content, commitID, branch string) Summary {
	summary := NewSummary(commitID, branch)

	if sys := systemRegex.FindString(content); sys != "" {
		summary.System = strings.Join(strings.Fields(sys), " ")
	}
	if ver := goVersionRegex.FindString(content); ver != "" {
		summary.GoVersion = ver
	}

	for _, line := range strings.Split(content, "\n") {
		matches := benchLineRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}
		name := matches[1]
		ops, _ := strconv.Atoi(matches[2])

		metrics := parseMetrics(matches[3])
		nsPerOp, ok := metrics["ns_per_op"]
		if !ok {
			continue
		}
		metrics["operations"] = float64(ops)

		category := categorize(name)
		// scale benchmarks have their own rate metrics
		if category != "scale" && nsPerOp > 0 {
			metrics["ops_per_sec"] = 1_000_000_000 / nsPerOp
		}

		summary.Results = append(summary.Results, Result{
			Name:     name,
			Category: category,
			Metrics:  metrics,
		})
	}

	return summary
}

// parseMetrics reads whitespace separated "<value> <unit>" pairs. Pairs
// whose value is not a number are skipped.
func parseMetrics(s string) map[string]float64 {
	metrics := make(map[string]float64)
	fields := strings.Fields(s)
	for i := 0; i+1 < len(fields); i += 2 {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			continue
		}
		unit := fields[i+1]
		if name, ok := unitNames[unit]; ok {
			unit = name
		}
		metrics[unit] = value
	}
	return metrics
}

// categorize classifies a benchmark by the name before any sub-benchmark.
func categorize(name string) string {
	base, _, _ := strings.Cut(name, "/")
	for _, s := range standardBenchmarks {
		if base == s {
			return "standard"
		}
	}
	for _, s := range scaleBenchmarks {
		if base == s {
			return "scale"
		}
	}
	return "other"
}
