// Package explain turns an AnalysisReport into plain-language guidance.
// It is a pure function of the report: template-backed today, with the
// same interface a model-backed generator would use.
package explain

import (
	"fmt"
	"strings"
	"time"

	"github.com/lumina-tools/lumina/pkg/models"
)

// Explanation is free-text guidance derived from one report.
type Explanation struct {
	Summary     string   `json:"summary"`
	Details     []string `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Explainer generates explanations from reports.
type Explainer struct{}

// New creates an explainer.
func New() *Explainer {
	return &Explainer{}
}

// exceptionHints maps common runtime failures to a first debugging step.
var exceptionHints = map[string]string{
	"IndexError":        "check loop bounds and remember the last valid index is len(x) - 1",
	"KeyError":          "verify the key exists or use .get() with a default",
	"TypeError":         "check that operands have compatible types; convert strings with int() or float()",
	"ZeroDivisionError": "guard divisions against a zero denominator",
	"NameError":         "make sure the name is defined before it is used and spelled consistently",
	"AttributeError":    "confirm the object really has that attribute; None is a common culprit",
	"RecursionError":    "add a base case or convert the recursion to a loop",
}

// patternHints maps detector findings to a remediation.
var patternHints = map[models.IssueKind]string{
	models.KindOutOfBounds:      "use range(len(x)) or iterate the collection directly",
	models.KindDangerousEval:    "replace eval/exec with explicit parsing such as ast.literal_eval",
	models.KindBareExcept:       "catch specific exception types instead of a bare except",
	models.KindDebugPrint:       "remove the empty print or give it something to say",
	models.KindMissingDocstring: "add a one-line docstring describing what the function does",
	models.KindLongFunction:     "split the function into smaller, named steps",
}

// Explain produces guidance for the report, most urgent condition first.
func (e *Explainer) Explain(report *models.AnalysisReport) Explanation {
	if !report.Static.SyntaxValid {
		return e.explainSyntaxError(report.Static.SyntaxError)
	}
	if report.Dynamic != nil && !report.Dynamic.Success {
		return e.explainRuntimeFailure(report)
	}
	if len(report.Static.Issues) > 0 {
		return e.explainStaticIssues(report)
	}
	return Explanation{
		Summary: "No defects detected. The file parses cleanly, every pattern check passed" +
			runSuffix(report.Dynamic),
	}
}

func (e *Explainer) explainSyntaxError(synErr *models.SyntaxError) Explanation {
	exp := Explanation{
		Summary: fmt.Sprintf("The file does not parse: line %d, %s.", synErr.Line, synErr.Message),
		Suggestions: []string{
			"fix the syntax error before anything else; no other analysis can run until the file parses",
		},
	}
	if strings.Contains(synErr.Message, "missing") {
		exp.Suggestions = append(exp.Suggestions,
			"look for an unclosed bracket or a statement missing its colon just before this line")
	}
	return exp
}

func (e *Explainer) explainRuntimeFailure(report *models.AnalysisReport) Explanation {
	exc := report.Dynamic.Exception
	exp := Explanation{}

	if exc.IsTimeout() {
		exp.Summary = "Execution did not finish before the deadline, which usually means an infinite loop."
		exp.Suggestions = []string{
			"check that every loop makes progress toward its exit condition",
		}
		if n := len(report.Dynamic.Trace); n > 0 {
			last := report.Dynamic.Trace[n-1]
			exp.Details = append(exp.Details,
				fmt.Sprintf("the last traced statement before the kill was line %d", last.Line))
		}
		return exp
	}

	exp.Summary = fmt.Sprintf("The program crashed with %s on line %d: %s.",
		exc.Type, exc.Line, exc.Message)
	if hint, ok := exceptionHints[exc.Type]; ok {
		exp.Suggestions = append(exp.Suggestions, hint)
	}

	// Cross-reference static findings that predicted the crash.
	for _, issue := range report.Static.Issues {
		if issue.Kind == models.KindOutOfBounds && exc.Type == "IndexError" {
			exp.Details = append(exp.Details,
				fmt.Sprintf("static analysis flagged this exact risk on line %d before execution", issue.Line))
		}
	}
	return exp
}

func (e *Explainer) explainStaticIssues(report *models.AnalysisReport) Explanation {
	counts := report.Summary.IssuesBySeverity
	exp := Explanation{
		Summary: fmt.Sprintf("The program runs, but inspection found %d issue(s): %s.",
			report.Summary.TotalIssues, severityBreakdown(counts)),
	}

	// Lead with the most severe finding.
	var worst *models.Issue
	for i := range report.Static.Issues {
		if worst == nil || report.Static.Issues[i].Severity.Rank() > worst.Severity.Rank() {
			worst = &report.Static.Issues[i]
		}
	}
	if worst != nil {
		exp.Details = append(exp.Details,
			fmt.Sprintf("most urgent: line %d, %s", worst.Line, worst.Message))
		if hint, ok := patternHints[worst.Kind]; ok {
			exp.Suggestions = append(exp.Suggestions, hint)
		}
	}

	if n := report.Summary.UnusedVariables; n > 0 {
		exp.Details = append(exp.Details,
			fmt.Sprintf("%d variable(s) are assigned but never read", n))
	}
	return exp
}

func severityBreakdown(counts map[models.Severity]int) string {
	order := []models.Severity{
		models.SeverityCritical, models.SeverityHigh,
		models.SeverityMedium, models.SeverityLow,
	}
	var parts []string
	for _, sev := range order {
		if counts[sev] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func runSuffix(dyn *models.DynamicResult) string {
	if dyn == nil {
		return "."
	}
	return fmt.Sprintf(", and execution completed normally in %s.", dyn.ExecTime.Round(time.Microsecond))
}
