// Package patterns implements the catalog-driven structural pattern
// detector. Each rule is an independent predicate over tree nodes; rules
// never observe each other's output.
package patterns

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/lumina-tools/lumina/pkg/models"
	"github.com/lumina-tools/lumina/pkg/parser"
)

// Rule is a named structural predicate over the syntax tree. NodeTypes
// declares which node kinds the rule wants to see; Check is invoked once
// per matching node and emits zero or more issues.
type Rule interface {
	ID() string
	NodeTypes() []string
	Check(node *sitter.Node, source []byte) []models.Issue
}

// Detector walks the tree in pre-order and applies the rule catalog.
type Detector struct {
	rules            []Rule
	maxFunctionLines int
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithMaxFunctionLines sets the oversized-function threshold for the
// default catalog.
func WithMaxFunctionLines(n int) Option {
	return func(d *Detector) {
		d.maxFunctionLines = n
	}
}

// WithRules replaces the default catalog.
func WithRules(rules ...Rule) Option {
	return func(d *Detector) {
		d.rules = rules
	}
}

// DefaultMaxFunctionLines is the oversized-function body threshold.
const DefaultMaxFunctionLines = 50

// New creates a detector with the default catalog unless overridden.
func New(opts ...Option) *Detector {
	d := &Detector{maxFunctionLines: DefaultMaxFunctionLines}
	for _, opt := range opts {
		opt(d)
	}
	if d.rules == nil {
		d.rules = DefaultCatalog(d.maxFunctionLines)
	}
	return d
}

// DefaultCatalog returns the fixed rule catalog.
func DefaultCatalog(maxFunctionLines int) []Rule {
	return []Rule{
		&outOfBoundsRule{},
		&dangerousEvalRule{},
		&bareExceptRule{},
		&debugPrintRule{},
		&missingDocstringRule{},
		&longFunctionRule{maxLines: maxFunctionLines},
	}
}

// Analyze applies every rule to a validated tree and returns the resulting
// issue set, deduplicated on (pattern_id, line) and sorted by line. A rule
// that panics is dropped from the run; detection must never abort analysis.
func (d *Detector) Analyze(result *parser.ParseResult) []models.Issue {
	byType := make(map[string][]Rule)
	for _, rule := range d.rules {
		for _, nt := range rule.NodeTypes() {
			byType[nt] = append(byType[nt], rule)
		}
	}

	seen := make(map[string]bool)
	var issues []models.Issue

	parser.Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		for _, rule := range byType[node.Type()] {
			for _, issue := range checkSafely(rule, node, source) {
				if key := issue.Key(); !seen[key] {
					seen[key] = true
					issues = append(issues, issue)
				}
			}
		}
		return true
	})

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].PatternID < issues[j].PatternID
	})

	return issues
}

// checkSafely isolates one rule invocation so a misbehaving rule cannot
// crash the run.
func checkSafely(rule Rule, node *sitter.Node, source []byte) (issues []models.Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
		}
	}()
	return rule.Check(node, source)
}
