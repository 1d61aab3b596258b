package stats

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"tspga/internal/model"
)

type Summary = model.GenerationSummary

// Summarize computes the distribution of scores. The input is not modified.
func Summarize(generation int, scores []float64) Summary {
	summary := Summary{Generation: generation}
	if len(scores) == 0 {
		return summary
	}
	sorted := slices.Clone(scores)
	slices.Sort(sorted)

	summary.Min = sorted[0]
	summary.Max = sorted[len(sorted)-1]
	summary.Q10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	summary.Q25 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	summary.Median = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	summary.Q75 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	if len(sorted) > 1 {
		summary.Mean, summary.StdDev = stat.MeanStdDev(sorted, nil)
	} else {
		summary.Mean = sorted[0]
	}
	return summary
}
