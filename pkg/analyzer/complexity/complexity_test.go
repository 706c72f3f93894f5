package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-tools/lumina/pkg/models"
	"github.com/lumina-tools/lumina/pkg/parser"
)

func scoreOf(t *testing.T, code string) int {
	t.Helper()
	p := parser.New()
	defer p.Close()

	result, err := p.Parse([]byte(code), "test.py")
	require.NoError(t, err)

	fns := parser.GetFunctions(result)
	require.NotEmpty(t, fns)
	return Score(fns[0], result.Source)
}

func TestStraightLineFunctionScoresOne(t *testing.T) {
	assert.Equal(t, 1, scoreOf(t, "def divide(a, b):\n    return a / b\n"))
}

func TestEachDecisionPointAddsOne(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{
			name: "single if",
			code: "def f(x):\n    if x:\n        return 1\n    return 0\n",
			want: 2,
		},
		{
			name: "if elif else",
			code: "def f(x):\n    if x > 1:\n        return 1\n    elif x < 0:\n        return -1\n    else:\n        return 0\n",
			want: 3,
		},
		{
			name: "loops",
			code: "def f(xs):\n    for x in xs:\n        while x:\n            x -= 1\n",
			want: 3,
		},
		{
			name: "boolean operators",
			code: "def f(a, b, c):\n    return a and b or c\n",
			want: 3,
		},
		{
			name: "except clauses",
			code: "def f():\n    try:\n        g()\n    except ValueError:\n        pass\n    except KeyError:\n        pass\n",
			want: 3,
		},
		{
			name: "ternary",
			code: "def f(x):\n    return 1 if x else 0\n",
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreOf(t, tt.code))
		})
	}
}

func TestNestedFunctionScoredIndependently(t *testing.T) {
	code := `def outer(x):
    def inner(y):
        if y:
            return 1
        return 0
    return inner(x)
`
	p := parser.New()
	defer p.Close()

	result, err := p.Parse([]byte(code), "test.py")
	require.NoError(t, err)

	fns := parser.GetFunctions(result)
	require.Len(t, fns, 2)

	// The inner if must not leak into outer's score.
	assert.Equal(t, 1, Score(fns[0], result.Source))
	assert.Equal(t, 2, Score(fns[1], result.Source))
}

func TestAnalyzeBuildsFunctionInfo(t *testing.T) {
	code := `def scored(a, b):
    """Doc."""
    if a:
        return b
    return 0
`
	p := parser.New()
	defer p.Close()

	result, err := p.Parse([]byte(code), "test.py")
	require.NoError(t, err)

	infos := New().Analyze(result)
	require.Len(t, infos, 1)

	info := infos[0]
	assert.Equal(t, "scored", info.Name)
	assert.Equal(t, 1, info.StartLine)
	assert.Equal(t, 2, info.ArgCount)
	assert.True(t, info.HasDocstring)
	assert.Equal(t, 2, info.ComplexityScore)
	assert.Equal(t, models.RiskLow, info.Risk)
}

func TestRiskClassification(t *testing.T) {
	a := New()
	assert.Equal(t, models.RiskLow, a.Classify(1))
	assert.Equal(t, models.RiskLow, a.Classify(5))
	assert.Equal(t, models.RiskMedium, a.Classify(6))
	assert.Equal(t, models.RiskMedium, a.Classify(10))
	assert.Equal(t, models.RiskHigh, a.Classify(11))
	assert.Equal(t, models.RiskHigh, a.Classify(20))
	assert.Equal(t, models.RiskCritical, a.Classify(21))
}
