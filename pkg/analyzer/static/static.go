// Package static runs the pattern detector, complexity analyzer, and
// variable usage tracker over one parse of the source and merges their
// outputs into a StaticResult.
package static

import (
	"fmt"

	"github.com/lumina-tools/lumina/pkg/analyzer/complexity"
	"github.com/lumina-tools/lumina/pkg/analyzer/patterns"
	"github.com/lumina-tools/lumina/pkg/analyzer/usage"
	"github.com/lumina-tools/lumina/pkg/models"
	"github.com/lumina-tools/lumina/pkg/parser"
)

// Analyzer owns the three static passes. It is deterministic and safe to
// run repeatedly over the same source.
type Analyzer struct {
	parser     *parser.Parser
	detector   *patterns.Detector
	complexity *complexity.Analyzer
	usage      *usage.Tracker
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithDetector replaces the default pattern detector.
func WithDetector(d *patterns.Detector) Option {
	return func(a *Analyzer) {
		a.detector = d
	}
}

// WithComplexity replaces the default complexity analyzer.
func WithComplexity(c *complexity.Analyzer) Option {
	return func(a *Analyzer) {
		a.complexity = c
	}
}

// New creates a static analyzer with default passes.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		parser:     parser.New(),
		detector:   patterns.New(),
		complexity: complexity.New(),
		usage:      usage.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Close releases parser resources.
func (a *Analyzer) Close() {
	a.parser.Close()
}

// Analyze parses the source and runs all three passes. On a syntax error
// the result short-circuits: issues, functions, and findings stay empty.
func (a *Analyzer) Analyze(source []byte, path string) (*models.StaticResult, error) {
	result, err := a.parser.Parse(source, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	res := &models.StaticResult{
		SyntaxValid:      true,
		Issues:           []models.Issue{},
		Functions:        []models.FunctionInfo{},
		VariableFindings: []models.VariableFinding{},
		Metrics: models.StaticMetrics{
			TotalLines: result.LineCount(),
		},
	}

	if synErr := result.SyntaxError(); synErr != nil {
		res.SyntaxValid = false
		res.SyntaxError = &models.SyntaxError{
			Line:    synErr.Line,
			Column:  synErr.Column,
			Message: synErr.Message,
		}
		return res, nil
	}

	res.Issues = a.detector.Analyze(result)
	res.Functions = a.complexity.Analyze(result)
	res.VariableFindings = a.usage.Analyze(result)
	res.Metrics.FunctionCount = len(res.Functions)
	res.Metrics.IssuesFound = len(res.Issues)

	return res, nil
}
