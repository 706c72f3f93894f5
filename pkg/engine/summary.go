package engine

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lumina-tools/lumina/pkg/models"
)

// summarize derives headline numbers from the two sub-results. It adds no
// new analysis, only aggregation for rendering.
func summarize(staticRes *models.StaticResult, _ *models.DynamicResult) models.ReportSummary {
	summary := models.ReportSummary{
		TotalIssues:      len(staticRes.Issues),
		IssuesBySeverity: staticRes.IssuesBySeverity(),
		FunctionCount:    len(staticRes.Functions),
		UnusedVariables:  len(staticRes.UnusedVariables()),
	}

	if len(staticRes.Functions) == 0 {
		return summary
	}

	scores := make([]float64, 0, len(staticRes.Functions))
	highest := models.RiskLow
	for _, fn := range staticRes.Functions {
		scores = append(scores, float64(fn.ComplexityScore))
		if fn.ComplexityScore > summary.MaxComplexity {
			summary.MaxComplexity = fn.ComplexityScore
		}
		if riskRank(fn.Risk) > riskRank(highest) {
			highest = fn.Risk
		}
	}
	sort.Float64s(scores)

	summary.AvgComplexity = stat.Mean(scores, nil)
	summary.P95Complexity = stat.Quantile(0.95, stat.Empirical, scores, nil)
	summary.HighestRisk = highest

	return summary
}

func riskRank(r models.RiskLevel) int {
	switch r {
	case models.RiskCritical:
		return 4
	case models.RiskHigh:
		return 3
	case models.RiskMedium:
		return 2
	case models.RiskLow:
		return 1
	default:
		return 0
	}
}
