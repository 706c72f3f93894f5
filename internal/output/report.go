package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/lumina-tools/lumina/pkg/explain"
	"github.com/lumina-tools/lumina/pkg/models"
)

// Report wraps an AnalysisReport plus its explanation for rendering.
type Report struct {
	Analysis    *models.AnalysisReport `json:"analysis"`
	Explanation explain.Explanation    `json:"explanation"`
}

// NewReport builds the renderable view of one analysis.
func NewReport(analysis *models.AnalysisReport, explanation explain.Explanation) *Report {
	return &Report{Analysis: analysis, Explanation: explanation}
}

// RenderData returns the structure serialized in JSON mode.
func (r *Report) RenderData() any {
	return r
}

func severityColor(sev models.Severity) *color.Color {
	switch sev {
	case models.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case models.SeverityHigh:
		return color.New(color.FgRed)
	case models.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

// RenderText writes the console view.
func (r *Report) RenderText(w io.Writer, colored bool) error {
	a := r.Analysis
	heading(w, colored, fmt.Sprintf("Analysis: %s", a.Path))
	fmt.Fprintln(w)

	if !a.Static.SyntaxValid {
		synErr := a.Static.SyntaxError
		if colored {
			color.New(color.FgRed, color.Bold).Fprintf(w, "Syntax error on line %d: %s\n", synErr.Line, synErr.Message)
		} else {
			fmt.Fprintf(w, "Syntax error on line %d: %s\n", synErr.Line, synErr.Message)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.Explanation.Summary)
		return nil
	}

	fmt.Fprintf(w, "Lines: %d  Functions: %d  Issues: %d\n\n",
		a.Static.Metrics.TotalLines, a.Static.Metrics.FunctionCount, a.Static.Metrics.IssuesFound)

	if len(a.Static.Issues) > 0 {
		rows := make([][]string, 0, len(a.Static.Issues))
		for _, issue := range a.Static.Issues {
			sev := string(issue.Severity)
			if colored {
				sev = severityColor(issue.Severity).Sprint(sev)
			}
			rows = append(rows, []string{
				strconv.Itoa(issue.Line), sev, string(issue.Kind), issue.Message,
			})
		}
		renderTable(w, []string{"line", "severity", "pattern", "message"}, rows)
		fmt.Fprintln(w)
	}

	if len(a.Static.Functions) > 0 {
		rows := make([][]string, 0, len(a.Static.Functions))
		for _, fn := range a.Static.Functions {
			rows = append(rows, []string{
				fn.Name,
				strconv.Itoa(fn.StartLine),
				strconv.Itoa(fn.ComplexityScore),
				string(fn.Risk),
				strconv.FormatBool(fn.HasDocstring),
			})
		}
		renderTable(w, []string{"function", "line", "complexity", "risk", "docstring"}, rows)
		fmt.Fprintln(w)
	}

	if unused := a.Static.UnusedVariables(); len(unused) > 0 {
		fmt.Fprintln(w, "Potentially unused variables:")
		for _, v := range unused {
			fmt.Fprintf(w, "  %s (scope %s, line %d)\n", v.Name, v.Scope, v.DefinedLine)
		}
		fmt.Fprintln(w)
	}

	r.renderDynamicText(w, colored)

	fmt.Fprintln(w, r.Explanation.Summary)
	for _, d := range r.Explanation.Details {
		fmt.Fprintf(w, "  - %s\n", d)
	}
	for _, s := range r.Explanation.Suggestions {
		fmt.Fprintf(w, "  fix: %s\n", s)
	}
	return nil
}

func (r *Report) renderDynamicText(w io.Writer, colored bool) {
	dyn := r.Analysis.Dynamic
	if dyn == nil {
		return
	}

	status := "completed"
	if !dyn.Success {
		status = "failed"
	}
	if colored {
		c := color.New(color.FgGreen)
		if !dyn.Success {
			c = color.New(color.FgRed)
		}
		c.Fprintf(w, "Execution %s", status)
	} else {
		fmt.Fprintf(w, "Execution %s", status)
	}
	fmt.Fprintf(w, " in %s: %d lines executed, %d function(s) called, %d trace event(s)\n",
		dyn.ExecTime.Round(time.Microsecond), dyn.LinesExecuted, dyn.FunctionsCalled, len(dyn.Trace))

	if dyn.Exception != nil {
		fmt.Fprintf(w, "  %s: %s", dyn.Exception.Type, dyn.Exception.Message)
		if dyn.Exception.Line > 0 {
			fmt.Fprintf(w, " (line %d)", dyn.Exception.Line)
		}
		fmt.Fprintln(w)
	}
	if dyn.Truncated {
		fmt.Fprintln(w, "  trace truncated at event cap")
	}
	fmt.Fprintln(w)
}

// RenderMarkdown writes the markdown view.
func (r *Report) RenderMarkdown(w io.Writer) error {
	a := r.Analysis
	fmt.Fprintf(w, "## Analysis: %s\n\n", a.Path)

	if !a.Static.SyntaxValid {
		fmt.Fprintf(w, "**Syntax error** on line %d: %s\n\n%s\n",
			a.Static.SyntaxError.Line, a.Static.SyntaxError.Message, r.Explanation.Summary)
		return nil
	}

	if len(a.Static.Issues) > 0 {
		fmt.Fprintln(w, "### Issues")
		fmt.Fprintln(w)
		rows := make([][]string, 0, len(a.Static.Issues))
		for _, issue := range a.Static.Issues {
			rows = append(rows, []string{
				strconv.Itoa(issue.Line), string(issue.Severity), string(issue.Kind), issue.Message,
			})
		}
		markdownTable(w, []string{"Line", "Severity", "Pattern", "Message"}, rows)
	}

	if len(a.Static.Functions) > 0 {
		fmt.Fprintln(w, "### Functions")
		fmt.Fprintln(w)
		rows := make([][]string, 0, len(a.Static.Functions))
		for _, fn := range a.Static.Functions {
			rows = append(rows, []string{
				fn.Name, strconv.Itoa(fn.StartLine),
				strconv.Itoa(fn.ComplexityScore), string(fn.Risk),
			})
		}
		markdownTable(w, []string{"Function", "Line", "Complexity", "Risk"}, rows)
	}

	if dyn := a.Dynamic; dyn != nil {
		fmt.Fprintln(w, "### Execution")
		fmt.Fprintln(w)
		if dyn.Success {
			fmt.Fprintf(w, "Completed in %s.\n\n", dyn.ExecTime.Round(time.Microsecond))
		} else if dyn.Exception != nil {
			fmt.Fprintf(w, "Failed: %s: %s (line %d)\n\n",
				dyn.Exception.Type, dyn.Exception.Message, dyn.Exception.Line)
		}
	}

	fmt.Fprintf(w, "%s\n", r.Explanation.Summary)
	return nil
}
