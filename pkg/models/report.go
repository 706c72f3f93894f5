package models

import "time"

// ReportSummary aggregates headline numbers for rendering. It is derived
// entirely from the two sub-results.
type ReportSummary struct {
	TotalIssues      int              `json:"total_issues"`
	IssuesBySeverity map[Severity]int `json:"issues_by_severity"`
	FunctionCount    int              `json:"function_count"`
	UnusedVariables  int              `json:"unused_variables"`
	AvgComplexity    float64          `json:"avg_complexity"`
	MaxComplexity    int              `json:"max_complexity"`
	P95Complexity    float64          `json:"p95_complexity"`
	HighestRisk      RiskLevel        `json:"highest_risk"`
}

// AnalysisReport is the sole boundary object handed to rendering and
// explanation collaborators. It owns one StaticResult and, when the source
// parsed cleanly, one DynamicResult. Immutable after construction.
type AnalysisReport struct {
	Path        string         `json:"path"`
	GeneratedAt time.Time      `json:"generated_at"`
	Static      StaticResult   `json:"static_analysis"`
	Dynamic     *DynamicResult `json:"dynamic_analysis,omitempty"`
	Summary     ReportSummary  `json:"summary"`
}
