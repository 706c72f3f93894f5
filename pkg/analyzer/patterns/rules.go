package patterns

import (
	"fmt"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/lumina-tools/lumina/pkg/models"
	"github.com/lumina-tools/lumina/pkg/parser"
)

// dangerousEvalRule flags calls to unrestricted code-evaluation primitives.
type dangerousEvalRule struct{}

func (r *dangerousEvalRule) ID() string          { return string(models.KindDangerousEval) }
func (r *dangerousEvalRule) NodeTypes() []string { return []string{"call"} }

func (r *dangerousEvalRule) Check(node *sitter.Node, source []byte) []models.Issue {
	name := calleeName(node, source)
	if name != "eval" && name != "exec" {
		return nil
	}
	return []models.Issue{{
		Kind:      models.KindDangerousEval,
		Severity:  models.SeverityCritical,
		Line:      parser.Line(node),
		Message:   fmt.Sprintf("call to %s() executes arbitrary code", name),
		PatternID: r.ID(),
	}}
}

// debugPrintRule flags print() calls with no arguments.
type debugPrintRule struct{}

func (r *debugPrintRule) ID() string          { return string(models.KindDebugPrint) }
func (r *debugPrintRule) NodeTypes() []string { return []string{"call"} }

func (r *debugPrintRule) Check(node *sitter.Node, source []byte) []models.Issue {
	if calleeName(node, source) != "print" {
		return nil
	}
	args := node.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() > 0 {
		return nil
	}
	return []models.Issue{{
		Kind:      models.KindDebugPrint,
		Severity:  models.SeverityLow,
		Line:      parser.Line(node),
		Message:   "print() with no arguments looks like a debug leftover",
		PatternID: r.ID(),
	}}
}

// bareExceptRule flags exception handlers with no exception type.
type bareExceptRule struct{}

func (r *bareExceptRule) ID() string          { return string(models.KindBareExcept) }
func (r *bareExceptRule) NodeTypes() []string { return []string{"except_clause"} }

func (r *bareExceptRule) Check(node *sitter.Node, source []byte) []models.Issue {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		switch node.NamedChild(i).Type() {
		case "block", "comment":
		default:
			return nil // handler names an exception type
		}
	}
	return []models.Issue{{
		Kind:      models.KindBareExcept,
		Severity:  models.SeverityMedium,
		Line:      parser.Line(node),
		Message:   "bare except catches every exception, including system exits",
		PatternID: r.ID(),
	}}
}

// missingDocstringRule flags functions whose first statement is not a
// string literal.
type missingDocstringRule struct{}

func (r *missingDocstringRule) ID() string          { return string(models.KindMissingDocstring) }
func (r *missingDocstringRule) NodeTypes() []string { return []string{"function_definition"} }

func (r *missingDocstringRule) Check(node *sitter.Node, source []byte) []models.Issue {
	fn := parser.AsFunction(node, source)
	if fn.HasDocstring() {
		return nil
	}
	return []models.Issue{{
		Kind:      models.KindMissingDocstring,
		Severity:  models.SeverityMedium,
		Line:      fn.StartLine,
		Message:   fmt.Sprintf("function %q has no docstring", fn.Name),
		PatternID: r.ID(),
	}}
}

// longFunctionRule flags function bodies exceeding a line-count threshold.
type longFunctionRule struct {
	maxLines int
}

func (r *longFunctionRule) ID() string          { return string(models.KindLongFunction) }
func (r *longFunctionRule) NodeTypes() []string { return []string{"function_definition"} }

func (r *longFunctionRule) Check(node *sitter.Node, source []byte) []models.Issue {
	fn := parser.AsFunction(node, source)
	lines := fn.BodyLineCount()
	if lines <= r.maxLines {
		return nil
	}
	return []models.Issue{{
		Kind:      models.KindLongFunction,
		Severity:  models.SeverityMedium,
		Line:      fn.StartLine,
		Message:   fmt.Sprintf("function %q spans %d lines (limit %d)", fn.Name, lines, r.maxLines),
		PatternID: r.ID(),
	}}
}

// outOfBoundsRule flags loops over range(len(x) + k) that index x with the
// loop variable.
type outOfBoundsRule struct{}

func (r *outOfBoundsRule) ID() string          { return string(models.KindOutOfBounds) }
func (r *outOfBoundsRule) NodeTypes() []string { return []string{"for_statement"} }

func (r *outOfBoundsRule) Check(node *sitter.Node, source []byte) []models.Issue {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	body := node.ChildByFieldName("body")
	if left == nil || right == nil || body == nil || left.Type() != "identifier" {
		return nil
	}
	loopVar := parser.GetNodeText(left, source)

	collection, excess := rangePastLength(right, source)
	if collection == "" {
		return nil
	}
	if !indexesCollection(body, source, collection, loopVar) {
		return nil
	}

	return []models.Issue{{
		Kind:      models.KindOutOfBounds,
		Severity:  models.SeverityHigh,
		Line:      parser.Line(node),
		Message:   fmt.Sprintf("loop bound exceeds len(%s) by %d and %s indexes it", collection, excess, loopVar),
		PatternID: r.ID(),
	}}
}

// rangePastLength matches range(..., len(x) + k, ...) for integer k >= 1
// and returns the collection name and excess.
func rangePastLength(call *sitter.Node, source []byte) (string, int) {
	if call.Type() != "call" || calleeName(call, source) != "range" {
		return "", 0
	}
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", 0
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() != "binary_operator" {
			continue
		}
		op := arg.ChildByFieldName("operator")
		if op == nil || parser.GetNodeText(op, source) != "+" {
			continue
		}
		lenCall := arg.ChildByFieldName("left")
		lit := arg.ChildByFieldName("right")
		if lenCall == nil || lit == nil || lit.Type() != "integer" {
			continue
		}
		k, err := strconv.Atoi(parser.GetNodeText(lit, source))
		if err != nil || k < 1 {
			continue
		}
		if lenCall.Type() != "call" || calleeName(lenCall, source) != "len" {
			continue
		}
		lenArgs := lenCall.ChildByFieldName("arguments")
		if lenArgs == nil || lenArgs.NamedChildCount() != 1 {
			continue
		}
		return parser.GetNodeText(lenArgs.NamedChild(0), source), k
	}
	return "", 0
}

// indexesCollection reports whether the body contains collection[loopVar].
func indexesCollection(body *sitter.Node, source []byte, collection, loopVar string) bool {
	found := false
	parser.Walk(body, source, func(n *sitter.Node, src []byte) bool {
		if found {
			return false
		}
		if n.Type() != "subscript" {
			return true
		}
		value := n.ChildByFieldName("value")
		sub := n.ChildByFieldName("subscript")
		if value != nil && sub != nil &&
			parser.GetNodeText(value, src) == collection &&
			parser.GetNodeText(sub, src) == loopVar {
			found = true
			return false
		}
		return true
	})
	return found
}

// calleeName returns the simple identifier a call invokes, or "" when the
// callee is not a plain name.
func calleeName(call *sitter.Node, source []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" {
		return ""
	}
	return parser.GetNodeText(fn, source)
}
