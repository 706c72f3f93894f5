package models

// RiskLevel classifies a cyclomatic complexity score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskThresholds defines the upper bound of each complexity risk band.
// Scores above Critical classify as critical risk.
type RiskThresholds struct {
	Low    int `json:"low" koanf:"low"`
	Medium int `json:"medium" koanf:"medium"`
	High   int `json:"high" koanf:"high"`
}

// DefaultRiskThresholds returns the standard risk bands:
// 1-5 low, 6-10 medium, 11-20 high, >20 critical.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{Low: 5, Medium: 10, High: 20}
}

// Classify maps a complexity score to its risk band.
func (t RiskThresholds) Classify(score int) RiskLevel {
	switch {
	case score <= t.Low:
		return RiskLow
	case score <= t.Medium:
		return RiskMedium
	case score <= t.High:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// FunctionInfo describes one function or method definition. The complexity
// score is filled in by the static analyzer after discovery and is always >= 1.
type FunctionInfo struct {
	Name            string    `json:"name"`
	StartLine       int       `json:"start_line"`
	ArgCount        int       `json:"arg_count"`
	HasDocstring    bool      `json:"has_docstring"`
	BodyLineCount   int       `json:"body_line_count"`
	ComplexityScore int       `json:"complexity_score"`
	Risk            RiskLevel `json:"risk"`
}

// VariableFinding records the fate of one assigned name within a scope.
// A finding with Used == false marks a potentially unused variable.
type VariableFinding struct {
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	DefinedLine int    `json:"defined_line"`
	Used        bool   `json:"used"`
}

// SyntaxError reports where parsing failed.
type SyntaxError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// StaticMetrics summarizes the static pass.
type StaticMetrics struct {
	TotalLines    int `json:"total_lines"`
	FunctionCount int `json:"function_count"`
	IssuesFound   int `json:"issues_found"`
}

// StaticResult is the combined output of the pattern detector, complexity
// analyzer, and variable usage tracker. When SyntaxValid is false the
// issue, function, and finding collections are empty.
type StaticResult struct {
	SyntaxValid      bool              `json:"syntax_valid"`
	SyntaxError      *SyntaxError      `json:"syntax_error,omitempty"`
	Issues           []Issue           `json:"issues"`
	Functions        []FunctionInfo    `json:"functions"`
	VariableFindings []VariableFinding `json:"variable_findings"`
	Metrics          StaticMetrics     `json:"metrics"`
}

// UnusedVariables returns the findings flagged as assigned but never read.
func (r *StaticResult) UnusedVariables() []VariableFinding {
	var unused []VariableFinding
	for _, f := range r.VariableFindings {
		if !f.Used {
			unused = append(unused, f)
		}
	}
	return unused
}

// IssuesBySeverity counts issues per severity level.
func (r *StaticResult) IssuesBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}
