package models

import "fmt"

// Severity ranks how urgent an issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns a numeric weight for sorting, higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// IssueKind identifies one class of structural defect pattern.
type IssueKind string

const (
	KindOutOfBounds      IssueKind = "out_of_bounds_risk"
	KindDangerousEval    IssueKind = "dangerous_eval"
	KindBareExcept       IssueKind = "bare_except"
	KindDebugPrint       IssueKind = "debug_print"
	KindMissingDocstring IssueKind = "missing_docstring"
	KindLongFunction     IssueKind = "long_function"
)

// Issue is a single structural finding emitted by the pattern detector.
// Issues form a set keyed by (pattern_id, line); duplicates collapse.
type Issue struct {
	Kind      IssueKind `json:"kind"`
	Severity  Severity  `json:"severity"`
	Line      int       `json:"line"`
	Message   string    `json:"message"`
	PatternID string    `json:"pattern_id"`
}

// Key returns the identity of an issue within the result set.
func (i Issue) Key() string {
	return fmt.Sprintf("%s:%d", i.PatternID, i.Line)
}
