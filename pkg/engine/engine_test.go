package engine

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-tools/lumina/pkg/config"
	"github.com/lumina-tools/lumina/pkg/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Cache.Dir = t.TempDir()
	return cfg
}

func hasPython(t *testing.T) bool {
	t.Helper()
	_, err := exec.LookPath("python3")
	return err == nil
}

func TestAnalyzeStaticOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.EnableDynamic = false

	e, err := New(cfg)
	require.NoError(t, err)
	defer e.Close()

	report, err := e.Analyze(context.Background(), []byte("def f(a, b):\n    return a / b\n"), "f.py")
	require.NoError(t, err)

	assert.Equal(t, "f.py", report.Path)
	assert.True(t, report.Static.SyntaxValid)
	assert.Nil(t, report.Dynamic)
	assert.Equal(t, 1, report.Summary.FunctionCount)
	assert.Equal(t, 1, report.Summary.MaxComplexity)
}

func TestSyntaxErrorSkipsDynamic(t *testing.T) {
	cfg := testConfig(t)

	e, err := New(cfg)
	require.NoError(t, err)
	defer e.Close()

	report, err := e.Analyze(context.Background(), []byte("def broken(:\n    pass\n"), "broken.py")
	require.NoError(t, err)

	assert.False(t, report.Static.SyntaxValid)
	require.NotNil(t, report.Static.SyntaxError)
	assert.Empty(t, report.Static.Issues)
	assert.Empty(t, report.Static.Functions)
	assert.Nil(t, report.Dynamic, "no dynamic result for unparseable source")
}

func TestAnalyzeFullReport(t *testing.T) {
	if !hasPython(t) {
		t.Skip("python3 not available")
	}
	cfg := testConfig(t)

	e, err := New(cfg)
	require.NoError(t, err)
	defer e.Close()

	code := `data = [1, 2, 3]
for i in range(len(data) + 1):
    print(data[i])
`
	report, err := e.Analyze(context.Background(), []byte(code), "bug.py")
	require.NoError(t, err)

	// Static: the out-of-bounds pattern is caught before running anything.
	kinds := make([]models.IssueKind, 0, len(report.Static.Issues))
	for _, issue := range report.Static.Issues {
		kinds = append(kinds, issue.Kind)
	}
	assert.Contains(t, kinds, models.KindOutOfBounds)

	// Dynamic: execution confirms the crash at the print line.
	require.NotNil(t, report.Dynamic)
	assert.False(t, report.Dynamic.Success)
	require.NotNil(t, report.Dynamic.Exception)
	assert.Equal(t, "IndexError", report.Dynamic.Exception.Type)
	assert.Equal(t, 3, report.Dynamic.Exception.Line)
}

func TestStaticIdempotence(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.EnableDynamic = false
	cfg.Cache.Enabled = false

	e, err := New(cfg)
	require.NoError(t, err)
	defer e.Close()

	code := "x = 1\nunused = 2\nprint(x)\n"
	first, err := e.Analyze(context.Background(), []byte(code), "same.py")
	require.NoError(t, err)
	second, err := e.Analyze(context.Background(), []byte(code), "same.py")
	require.NoError(t, err)

	assert.Equal(t, first.Static, second.Static)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestCachedReportReused(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.EnableDynamic = false

	e, err := New(cfg)
	require.NoError(t, err)
	defer e.Close()

	code := "value = 41\nprint(value)\n"
	first, err := e.Analyze(context.Background(), []byte(code), "a.py")
	require.NoError(t, err)
	second, err := e.Analyze(context.Background(), []byte(code), "b.py")
	require.NoError(t, err)

	// Same content, fresh path: served from cache with the path rewritten.
	assert.Equal(t, "b.py", second.Path)
	assert.True(t, second.GeneratedAt.Equal(first.GeneratedAt))
	assert.Equal(t, first.Static, second.Static)
}

func TestSandboxUnavailableRecordedNotFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sandbox.Python = "definitely-not-a-python"

	e, err := New(cfg)
	require.NoError(t, err)
	defer e.Close()

	report, err := e.Analyze(context.Background(), []byte("x = 1\n"), "x.py")
	require.NoError(t, err)

	assert.True(t, report.Static.SyntaxValid)
	require.NotNil(t, report.Dynamic)
	assert.False(t, report.Dynamic.Success)
	assert.Equal(t, "SandboxUnavailable", report.Dynamic.Exception.Type)
	assert.True(t, report.Dynamic.Exception.FromHost)
}

func TestHostFailureNotCached(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sandbox.Python = "definitely-not-a-python"

	e, err := New(cfg)
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Analyze(context.Background(), []byte("x = 1\n"), "x.py")
	require.NoError(t, err)

	entries, err := os.ReadDir(cfg.Cache.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a host-side sandbox failure must not be cached")
}

func TestSummaryStatistics(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.EnableDynamic = false
	cfg.Cache.Enabled = false

	e, err := New(cfg)
	require.NoError(t, err)
	defer e.Close()

	code := `def plain():
    """Doc."""
    return 1

def branchy(x):
    """Doc."""
    if x > 0:
        return 1
    elif x < 0:
        return -1
    return 0
`
	report, err := e.Analyze(context.Background(), []byte(code), "stats.py")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.FunctionCount)
	assert.Equal(t, 3, report.Summary.MaxComplexity)
	assert.InDelta(t, 2.0, report.Summary.AvgComplexity, 0.001)
	assert.Equal(t, models.RiskLow, report.Summary.HighestRisk)
}
