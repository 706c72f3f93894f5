// Package usage tracks variable definitions and reads per scope, flagging
// names that are assigned but never read before scope exit.
package usage

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/lumina-tools/lumina/pkg/models"
	"github.com/lumina-tools/lumina/pkg/parser"
)

// varState tracks one name inside a single scope frame.
type varState struct {
	definedLine int
	used        bool
	protected   bool // parameters and loop targets are never flagged
}

// frame is the per-scope mapping of name to state. Scopes are analyzed
// independently; an inner read of a shadowing local never exonerates an
// outer name.
type frame map[string]*varState

// Tracker performs the per-scope usage pass.
type Tracker struct{}

// New creates a usage tracker.
func New() *Tracker {
	return &Tracker{}
}

// Analyze returns one finding per assigned name per scope, in scope and
// then line order. Findings with Used == false are potentially unused.
func (t *Tracker) Analyze(result *parser.ParseResult) []models.VariableFinding {
	var findings []models.VariableFinding

	root := result.Tree.RootNode()
	findings = append(findings, analyzeScope("module", root, nil, result.Source)...)

	for _, fn := range parser.GetFunctions(result) {
		findings = append(findings, analyzeScope(fn.Name, fn.Body, fn.Params, result.Source)...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Scope != findings[j].Scope {
			return findings[i].Scope < findings[j].Scope
		}
		return findings[i].DefinedLine < findings[j].DefinedLine
	})

	return findings
}

// analyzeScope walks one scope body in source order, skipping nested
// function and class bodies.
func analyzeScope(name string, body, params *sitter.Node, source []byte) []models.VariableFinding {
	if body == nil {
		return nil
	}

	f := make(frame)
	if params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			for _, ident := range targetIdentifiers(params.NamedChild(i), source) {
				f[ident.text] = &varState{definedLine: ident.line, protected: true}
			}
		}
	}

	visitScope(body, f, source, true)

	var findings []models.VariableFinding
	for varName, state := range f {
		if state.protected {
			continue
		}
		findings = append(findings, models.VariableFinding{
			Name:        varName,
			Scope:       name,
			DefinedLine: state.definedLine,
			Used:        state.used,
		})
	}
	return findings
}

// visitScope dispatches on node kind so writes and reads are recorded in
// evaluation order.
func visitScope(node *sitter.Node, f frame, source []byte, isRoot bool) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "function_definition", "class_definition":
		if !isRoot {
			// The nested scope is tracked independently, but its default
			// parameter values, annotations, and base classes evaluate here
			// at definition time.
			visitSignatureReads(node, f, source)
			return
		}

	case "assignment":
		visitScope(node.ChildByFieldName("right"), f, source, false)
		markAssigned(node.ChildByFieldName("left"), f, source)
		return

	case "augmented_assignment":
		visitScope(node.ChildByFieldName("right"), f, source, false)
		// The target is read before it is rewritten.
		for _, ident := range targetIdentifiers(node.ChildByFieldName("left"), source) {
			markRead(ident.text, f)
		}
		markAssigned(node.ChildByFieldName("left"), f, source)
		return

	case "named_expression":
		visitScope(node.ChildByFieldName("value"), f, source, false)
		markAssigned(node.ChildByFieldName("name"), f, source)
		return

	case "for_statement":
		visitScope(node.ChildByFieldName("right"), f, source, false)
		for _, ident := range targetIdentifiers(node.ChildByFieldName("left"), source) {
			f[ident.text] = &varState{definedLine: ident.line, protected: true}
		}
		visitScope(node.ChildByFieldName("body"), f, source, false)
		if alt := node.ChildByFieldName("alternative"); alt != nil {
			visitScope(alt, f, source, false)
		}
		return

	case "keyword_argument":
		// The keyword name is a parameter label, not a variable read.
		visitScope(node.ChildByFieldName("value"), f, source, false)
		return

	case "attribute":
		// obj.attr reads obj; the attribute name is not a local.
		visitScope(node.ChildByFieldName("object"), f, source, false)
		return

	case "identifier":
		markRead(parser.GetNodeText(node, source), f)
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		visitScope(node.Child(i), f, source, false)
	}
}

// visitSignatureReads records the enclosing-scope reads a nested definition
// performs when it is defined: default parameter values, parameter and
// return annotations, and class bases.
func visitSignatureReads(def *sitter.Node, f frame, source []byte) {
	if params := def.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			switch p.Type() {
			case "default_parameter", "typed_default_parameter":
				visitScope(p.ChildByFieldName("value"), f, source, false)
			}
			if typ := p.ChildByFieldName("type"); typ != nil {
				visitScope(typ, f, source, false)
			}
		}
	}
	if ret := def.ChildByFieldName("return_type"); ret != nil {
		visitScope(ret, f, source, false)
	}
	if bases := def.ChildByFieldName("superclasses"); bases != nil {
		visitScope(bases, f, source, false)
	}
}

// markAssigned records a binding for every plain identifier in an
// assignment target. Subscript and attribute targets mutate an existing
// object, so their base identifiers count as reads instead.
func markAssigned(target *sitter.Node, f frame, source []byte) {
	if target == nil {
		return
	}
	switch target.Type() {
	case "identifier":
		name := parser.GetNodeText(target, source)
		if _, ok := f[name]; !ok {
			f[name] = &varState{definedLine: parser.Line(target)}
		}
	case "pattern_list", "tuple_pattern", "list_pattern":
		for i := 0; i < int(target.NamedChildCount()); i++ {
			markAssigned(target.NamedChild(i), f, source)
		}
	case "subscript", "attribute":
		visitScope(target, f, source, false)
	}
}

func markRead(name string, f frame) {
	if state, ok := f[name]; ok {
		state.used = true
	}
}

type identRef struct {
	text string
	line int
}

// targetIdentifiers collects the plain identifiers bound by a target or
// parameter node.
func targetIdentifiers(node *sitter.Node, source []byte) []identRef {
	if node == nil {
		return nil
	}
	var idents []identRef
	parser.Walk(node, source, func(n *sitter.Node, src []byte) bool {
		switch n.Type() {
		case "identifier":
			idents = append(idents, identRef{text: parser.GetNodeText(n, src), line: parser.Line(n)})
			return false
		case "default_parameter":
			// Only the parameter name is bound; the default value belongs
			// to the enclosing scope.
			if name := n.ChildByFieldName("name"); name != nil {
				idents = append(idents, identRef{text: parser.GetNodeText(name, src), line: parser.Line(name)})
			}
			return false
		case "type":
			return false
		}
		return true
	})
	return idents
}
