// Package complexity computes cyclomatic complexity per function by
// counting decision points in the syntax tree, which is equivalent to the
// control-flow-graph definition for structured code.
package complexity

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/lumina-tools/lumina/pkg/models"
	"github.com/lumina-tools/lumina/pkg/parser"
)

// decisionTypes are the node kinds that add one independent path.
var decisionTypes = map[string]bool{
	"if_statement":           true,
	"elif_clause":            true,
	"conditional_expression": true,
	"for_statement":          true,
	"while_statement":        true,
	"except_clause":          true,
	"boolean_operator":       true,
}

// Analyzer scores functions and classifies their risk.
type Analyzer struct {
	thresholds models.RiskThresholds
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithThresholds overrides the risk classification bands.
func WithThresholds(t models.RiskThresholds) Option {
	return func(a *Analyzer) {
		a.thresholds = t
	}
}

// New creates a complexity analyzer with default risk bands.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{thresholds: models.DefaultRiskThresholds()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Score computes the cyclomatic complexity of a function body: 1 baseline
// path plus 1 per decision point. Nested function and class definitions are
// excluded; they are scored independently.
func Score(fn parser.FunctionNode, source []byte) int {
	score := 1
	if fn.Body == nil {
		return score
	}
	parser.Walk(fn.Body, source, func(node *sitter.Node, _ []byte) bool {
		switch node.Type() {
		case "function_definition", "class_definition":
			return false
		}
		if decisionTypes[node.Type()] {
			score++
		}
		return true
	})
	return score
}

// Classify maps a score to a risk band.
func (a *Analyzer) Classify(score int) models.RiskLevel {
	return a.thresholds.Classify(score)
}

// Analyze scores every function in the tree and returns FunctionInfo
// records in source order.
func (a *Analyzer) Analyze(result *parser.ParseResult) []models.FunctionInfo {
	functions := parser.GetFunctions(result)
	infos := make([]models.FunctionInfo, 0, len(functions))
	for _, fn := range functions {
		score := Score(fn, result.Source)
		infos = append(infos, models.FunctionInfo{
			Name:            fn.Name,
			StartLine:       fn.StartLine,
			ArgCount:        fn.ParamCount(),
			HasDocstring:    fn.HasDocstring(),
			BodyLineCount:   fn.BodyLineCount(),
			ComplexityScore: score,
			Risk:            a.Classify(score),
		})
	}
	return infos
}
