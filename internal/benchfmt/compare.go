package benchfmt

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// DefaultThreshold is the percent change at which a difference is significant.
const DefaultThreshold = 5.0

// Assessments of a compared benchmark.
const (
	Regression  = "REGRESSION"
	Improvement = "IMPROVEMENT"
	Neutral     = "NEUTRAL"
)

// MetricComparison is the change of one metric between two runs.
type MetricComparison struct {
	Name          string  `json:"name"`
	BaseValue     float64 `json:"base_value"`
	CurrentValue  float64 `json:"current_value"`
	PercentChange float64 `json:"percent_change"`
	IsRegression  bool    `json:"is_regression"`
	IsImprovement bool    `json:"is_improvement"`
	IsSignificant bool    `json:"is_significant"`
}

// BenchmarkComparison is the comparison of one benchmark present in both runs.
type BenchmarkComparison struct {
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	MetricComparisons []MetricComparison `json:"metric_comparisons"`
	OverallAssessment string             `json:"overall_assessment"`
	HasRegressions    bool               `json:"has_regressions"`
	Score             float64            `json:"score"`
}

// ComparisonSummary is the result of comparing two summaries.
// RegressionBenchmarks counts every benchmark that got worse overall;
// SignificantRegressions only those with a metric past the threshold.
type ComparisonSummary struct {
	BaseCommit             string                `json:"base_commit"`
	CurrentCommit          string                `json:"current_commit"`
	Threshold              float64               `json:"threshold"`
	TotalBenchmarks        int                   `json:"total_benchmarks"`
	ImprovedBenchmarks     int                   `json:"improved_benchmarks"`
	RegressionBenchmarks   int                   `json:"regression_benchmarks"`
	SignificantRegressions int                   `json:"significant_regressions"`
	BenchmarkComparisons   []BenchmarkComparison `json:"benchmark_comparisons"`
}

// Compare compares every benchmark of current that also appears in base.
// A benchmark is a regression when any metric moved in the wrong direction
// by at least threshold percent. Results are ordered worst first.
func Compare(base, current Summary, threshold float64) ComparisonSummary {
	baseResults := make(map[string]Result, len(base.Results))
	for _, r := range base.Results {
		baseResults[r.Name] = r
	}

	summary := ComparisonSummary{
		BaseCommit:           base.CommitID,
		CurrentCommit:        current.CommitID,
		Threshold:            threshold,
		BenchmarkComparisons: []BenchmarkComparison{},
	}

	for _, cur := range current.Results {
		prev, found := baseResults[cur.Name]
		if !found {
			continue
		}

		bc := compareResult(prev, cur, threshold)
		switch {
		case bc.HasRegressions:
			summary.RegressionBenchmarks++
			summary.SignificantRegressions++
		case bc.Score < 0:
			summary.RegressionBenchmarks++
		case bc.Score > 0:
			summary.ImprovedBenchmarks++
		}
		summary.BenchmarkComparisons = append(summary.BenchmarkComparisons, bc)
	}

	sort.SliceStable(summary.BenchmarkComparisons, func(i, j int) bool {
		a, b := summary.BenchmarkComparisons[i], summary.BenchmarkComparisons[j]
		if a.HasRegressions != b.HasRegressions {
			return a.HasRegressions
		}
		return a.Score < b.Score
	})
	summary.TotalBenchmarks = len(summary.BenchmarkComparisons)
	return summary
}

func compareResult(base, current Result, threshold float64) BenchmarkComparison {
	bc := BenchmarkComparison{
		Name:              current.Name,
		Category:          current.Category,
		MetricComparisons: []MetricComparison{},
	}

	names := make([]string, 0, len(current.Metrics))
	for name := range current.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	score := 0.0
	for _, name := range names {
		baseValue, found := base.Metrics[name]
		if !found {
			continue
		}
		currentValue := current.Metrics[name]

		percentChange := 0.0
		if baseValue != 0 {
			percentChange = (currentValue - baseValue) / baseValue * 100
		}

		mc := MetricComparison{
			Name:          name,
			BaseValue:     baseValue,
			CurrentValue:  currentValue,
			PercentChange: percentChange,
			IsSignificant: math.Abs(percentChange) >= threshold,
		}
		if HigherIsBetter(name) {
			mc.IsRegression = percentChange < 0
			mc.IsImprovement = percentChange > 0
		} else {
			mc.IsRegression = percentChange > 0
			mc.IsImprovement = percentChange < 0
		}

		if mc.IsRegression && mc.IsSignificant {
			bc.HasRegressions = true
		}
		if mc.IsImprovement {
			score += math.Abs(percentChange)
		} else if mc.IsRegression {
			score -= math.Abs(percentChange)
		}
		bc.MetricComparisons = append(bc.MetricComparisons, mc)
	}

	if len(bc.MetricComparisons) > 0 {
		bc.Score = score / float64(len(bc.MetricComparisons))
	}

	switch {
	case bc.HasRegressions:
		bc.OverallAssessment = Regression
	case bc.Score > 0:
		bc.OverallAssessment = Improvement
	default:
		bc.OverallAssessment = Neutral
	}
	return bc
}

// higherIsBetter lists metric name fragments where larger values are better.
var higherIsBetter = []string{
	"ops_per_sec", "operations", "_rate", "throughput",
}

// HigherIsBetter reports whether a larger value of metric is an improvement.
// Everything else (ns_per_op, bytes_per_op, longest_chain, ...) is lower-is-better.
func HigherIsBetter(metric string) bool {
	for _, pattern := range higherIsBetter {
		if strings.Contains(metric, pattern) {
			return true
		}
	}
	return false
}

// WriteReport prints a human readable comparison.
func WriteReport(w io.Writer, summary ComparisonSummary) {
	fmt.Fprintf(w, "Benchmark Comparison: %s vs %s\n\n",
		abbreviate(summary.BaseCommit), abbreviate(summary.CurrentCommit))

	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "- Total benchmarks compared: %d\n", summary.TotalBenchmarks)
	fmt.Fprintf(w, "- Improvements: %d\n", summary.ImprovedBenchmarks)
	fmt.Fprintf(w, "- Regressions: %d (significant: %d)\n\n",
		summary.RegressionBenchmarks, summary.SignificantRegressions)

	if summary.TotalBenchmarks == 0 {
		fmt.Fprintln(w, "No matching benchmarks found for comparison")
		return
	}

	fmt.Fprintln(w, "Benchmark Details (sorted by impact):")
	fmt.Fprintln(w, "======================================")

	for _, comp := range summary.BenchmarkComparisons {
		indicator := "+"
		switch {
		case comp.HasRegressions:
			indicator = "x"
		case comp.Score < 0:
			indicator = "!"
		case comp.Score == 0:
			indicator = "="
		}

		fmt.Fprintf(w, "\n%s %s (%s):\n", indicator, comp.Name, comp.Category)

		metrics := append([]MetricComparison(nil), comp.MetricComparisons...)
		sort.SliceStable(metrics, func(i, j int) bool {
			return math.Abs(metrics[i].PercentChange) > math.Abs(metrics[j].PercentChange)
		})

		for _, m := range metrics {
			if m.PercentChange == 0 {
				continue
			}
			mark := " "
			if m.IsRegression && m.IsSignificant {
				mark = "v"
			} else if m.IsImprovement && m.IsSignificant {
				mark = "^"
			}
			fmt.Fprintf(w, "  %s %-24s: %+8.2f%% (%g -> %g)\n",
				mark, m.Name, m.PercentChange, m.BaseValue, m.CurrentValue)
		}
	}
}
