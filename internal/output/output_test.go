package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-tools/lumina/pkg/explain"
	"github.com/lumina-tools/lumina/pkg/models"
)

func sampleReport() *Report {
	analysis := &models.AnalysisReport{
		Path:        "sample.py",
		GeneratedAt: time.Now().UTC(),
		Static: models.StaticResult{
			SyntaxValid: true,
			Issues: []models.Issue{
				{Kind: models.KindDangerousEval, Severity: models.SeverityCritical, Line: 4, Message: "call to eval()", PatternID: "dangerous_eval"},
			},
			Functions: []models.FunctionInfo{
				{Name: "run", StartLine: 1, ComplexityScore: 3, Risk: models.RiskLow, HasDocstring: true},
			},
			VariableFindings: []models.VariableFinding{
				{Name: "ghost", Scope: "run", DefinedLine: 2, Used: false},
			},
			Metrics: models.StaticMetrics{TotalLines: 8, FunctionCount: 1, IssuesFound: 1},
		},
		Dynamic: &models.DynamicResult{
			Success:  true,
			ExecTime: 12 * time.Millisecond,
			Trace:    []models.TraceEvent{},
		},
		Summary: models.ReportSummary{TotalIssues: 1},
	}
	return NewReport(analysis, explain.Explanation{Summary: "found things"})
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatMarkdown, ParseFormat("md"))
	assert.Equal(t, FormatMarkdown, ParseFormat("markdown"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("anything"))
}

func TestReportRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().RenderText(&buf, false))

	out := buf.String()
	assert.Contains(t, out, "Analysis: sample.py")
	assert.Contains(t, out, "call to eval()")
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "ghost (scope run, line 2)")
	assert.Contains(t, out, "Execution completed")
	assert.Contains(t, out, "found things")
}

func TestReportRenderTextSyntaxError(t *testing.T) {
	report := NewReport(&models.AnalysisReport{
		Path: "broken.py",
		Static: models.StaticResult{
			SyntaxValid: false,
			SyntaxError: &models.SyntaxError{Line: 2, Message: "invalid syntax near \":\""},
		},
	}, explain.Explanation{Summary: "file does not parse"})

	var buf bytes.Buffer
	require.NoError(t, report.RenderText(&buf, false))

	out := buf.String()
	assert.Contains(t, out, "Syntax error on line 2")
	assert.NotContains(t, out, "Lines:")
}

func TestReportRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().RenderMarkdown(&buf))

	out := buf.String()
	assert.Contains(t, out, "## Analysis: sample.py")
	assert.Contains(t, out, "| Line | Severity | Pattern | Message |")
	assert.Contains(t, out, "### Execution")
}

func TestFormatterJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	formatter, err := NewFormatter(FormatJSON, path, true)
	require.NoError(t, err)

	require.NoError(t, formatter.Output(sampleReport()))
	require.NoError(t, formatter.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Analysis struct {
			Path string `json:"path"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "sample.py", decoded.Analysis.Path)
}

func TestTraceRenderText(t *testing.T) {
	trace := NewTrace("t.py", &models.DynamicResult{
		Success: true,
		Trace: []models.TraceEvent{
			{SequenceNumber: 0, EventKind: models.EventCall, Line: 1, Function: "<module>", StackDepth: 1},
			{SequenceNumber: 1, EventKind: models.EventLine, Line: 1, Function: "<module>", StackDepth: 1,
				LocalsSnapshot: map[string]string{"x": "1"}},
		},
		LinesExecuted:   1,
		FunctionsCalled: 0,
		MaxStackDepth:   1,
		ExecTime:        3 * time.Millisecond,
		Stdout:          "hi\n",
	})

	var buf bytes.Buffer
	require.NoError(t, trace.RenderText(&buf, false))

	out := buf.String()
	assert.Contains(t, out, "Trace: t.py")
	assert.Contains(t, out, "x=1")
	assert.Contains(t, out, "stdout:")
}
