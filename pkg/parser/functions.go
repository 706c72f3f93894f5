package parser

import sitter "github.com/smacker/go-tree-sitter"

// FunctionNode represents one function or method definition.
type FunctionNode struct {
	Name      string
	StartLine int
	EndLine   int
	Node      *sitter.Node
	Params    *sitter.Node
	Body      *sitter.Node
}

// GetFunctions extracts all function definitions, including methods and
// nested functions, in pre-order.
func GetFunctions(result *ParseResult) []FunctionNode {
	var functions []FunctionNode
	Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		if node.Type() == "function_definition" {
			functions = append(functions, AsFunction(node, source))
		}
		return true
	})
	return functions
}

// AsFunction wraps a function_definition node in a FunctionNode.
func AsFunction(node *sitter.Node, source []byte) FunctionNode {
	fn := FunctionNode{
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		Node:      node,
		Params:    node.ChildByFieldName("parameters"),
		Body:      node.ChildByFieldName("body"),
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		fn.Name = GetNodeText(nameNode, source)
	}
	return fn
}

// ParamCount counts the declared parameters of a function, including self.
func (fn FunctionNode) ParamCount() int {
	if fn.Params == nil {
		return 0
	}
	count := 0
	for i := 0; i < int(fn.Params.NamedChildCount()); i++ {
		if fn.Params.NamedChild(i).Type() != "comment" {
			count++
		}
	}
	return count
}

// BodyLineCount returns the number of source lines the body spans.
func (fn FunctionNode) BodyLineCount() int {
	if fn.Body == nil {
		return 0
	}
	return int(fn.Body.EndPoint().Row-fn.Body.StartPoint().Row) + 1
}

// HasDocstring reports whether the first statement of the body is a string
// literal.
func (fn FunctionNode) HasDocstring() bool {
	if fn.Body == nil || fn.Body.NamedChildCount() == 0 {
		return false
	}
	first := fn.Body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return false
	}
	return first.NamedChild(0).Type() == "string"
}
