// Package parser wraps tree-sitter to provide Python syntax trees with
// syntax-error reporting and traversal helpers.
package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser wraps a tree-sitter parser configured for Python.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed tree and the raw source it came from.
type ParseResult struct {
	Tree   *sitter.Tree
	Source []byte
	Path   string
}

// New creates a new Python parser instance.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile reads and parses a source file.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(source, path)
}

// Parse parses source text. Parsing always yields a tree; syntax validity
// is reported separately via ParseResult.SyntaxError.
func (p *Parser) Parse(source []byte, path string) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	return &ParseResult{Tree: tree, Source: source, Path: path}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// SyntaxError describes the first point where the tree failed to parse.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
}

// SyntaxError returns the first ERROR or missing node in the tree, or nil
// if the source parsed cleanly.
func (r *ParseResult) SyntaxError() *SyntaxError {
	root := r.Tree.RootNode()
	if !root.HasError() {
		return nil
	}
	var firstErr *sitter.Node
	Walk(root, r.Source, func(node *sitter.Node, _ []byte) bool {
		if firstErr != nil {
			return false
		}
		if node.Type() == "ERROR" || node.IsMissing() {
			firstErr = node
			return false
		}
		// Only descend into subtrees that actually contain the error.
		return node.HasError()
	})
	if firstErr == nil {
		// HasError without a reachable ERROR node should not happen; point
		// at the root so the caller still gets a location.
		firstErr = root
	}

	msg := "invalid syntax"
	if firstErr.IsMissing() {
		msg = fmt.Sprintf("missing %s", firstErr.Type())
	} else if text := strings.TrimSpace(GetNodeText(firstErr, r.Source)); text != "" {
		if len(text) > 40 {
			text = text[:40] + "..."
		}
		msg = fmt.Sprintf("invalid syntax near %q", text)
	}

	return &SyntaxError{
		Line:    int(firstErr.StartPoint().Row) + 1,
		Column:  int(firstErr.StartPoint().Column) + 1,
		Message: msg,
	}
}

// LineCount returns the number of lines in the source.
func (r *ParseResult) LineCount() int {
	if len(r.Source) == 0 {
		return 0
	}
	n := strings.Count(string(r.Source), "\n")
	if r.Source[len(r.Source)-1] != '\n' {
		n++
	}
	return n
}

// NodeVisitor is called for each node during traversal. Returning false
// stops descent into the node's children.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the tree in pre-order calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}
	if !visitor(node, source) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		Walk(node.Child(i), source, visitor)
	}
}

// FindNodesByType returns all nodes of a specific type, in pre-order.
func FindNodesByType(root *sitter.Node, source []byte, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, source, func(node *sitter.Node, _ []byte) bool {
		if node.Type() == nodeType {
			results = append(results, node)
		}
		return true
	})
	return results
}

// GetNodeText extracts the source text for a node. Returns empty string if
// node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// Line returns the 1-based source line of a node.
func Line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
