package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lumina-tools/lumina/pkg/models"
)

// Trace is the renderable view of one sandbox run.
type Trace struct {
	Path   string                `json:"path"`
	Result *models.DynamicResult `json:"result"`
}

// NewTrace wraps a dynamic result for rendering.
func NewTrace(path string, result *models.DynamicResult) *Trace {
	return &Trace{Path: path, Result: result}
}

func (t *Trace) RenderData() any {
	return t
}

func (t *Trace) RenderText(w io.Writer, colored bool) error {
	heading(w, colored, fmt.Sprintf("Trace: %s", t.Path))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(t.Result.Trace))
	for _, ev := range t.Result.Trace {
		rows = append(rows, []string{
			strconv.Itoa(ev.SequenceNumber),
			string(ev.EventKind),
			strconv.Itoa(ev.Line),
			ev.Function,
			strconv.Itoa(ev.StackDepth),
			localsSummary(ev.LocalsSnapshot),
		})
	}
	renderTable(w, []string{"seq", "event", "line", "function", "depth", "locals"}, rows)
	fmt.Fprintln(w)

	t.renderSummary(w)
	return nil
}

func (t *Trace) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "## Trace: %s\n\n", t.Path)

	rows := make([][]string, 0, len(t.Result.Trace))
	for _, ev := range t.Result.Trace {
		rows = append(rows, []string{
			strconv.Itoa(ev.SequenceNumber),
			string(ev.EventKind),
			strconv.Itoa(ev.Line),
			ev.Function,
			strconv.Itoa(ev.StackDepth),
		})
	}
	markdownTable(w, []string{"Seq", "Event", "Line", "Function", "Depth"}, rows)

	t.renderSummary(w)
	return nil
}

func (t *Trace) renderSummary(w io.Writer) {
	res := t.Result
	fmt.Fprintf(w, "%d event(s), %d line(s) executed, %d function(s) called, max depth %d, %s\n",
		len(res.Trace), res.LinesExecuted, res.FunctionsCalled, res.MaxStackDepth,
		res.ExecTime.Round(time.Microsecond))
	if res.Exception != nil {
		fmt.Fprintf(w, "exception: %s: %s (line %d)\n",
			res.Exception.Type, res.Exception.Message, res.Exception.Line)
	}
	if res.Truncated {
		fmt.Fprintln(w, "trace truncated at event cap")
	}
	if res.Stdout != "" {
		fmt.Fprintf(w, "stdout:\n%s\n", res.Stdout)
	}
}

// localsSummary flattens a snapshot into "a=1 b='x'" with stable ordering.
func localsSummary(locals map[string]string) string {
	if len(locals) == 0 {
		return ""
	}
	names := make([]string, 0, len(locals))
	for name := range locals {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, locals[name]))
	}
	return strings.Join(parts, " ")
}
