package scanner

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
)

// stringLiteralValue unwraps a string literal node.
func stringLiteralValue(node *sitter.Node, src []byte) (string, bool) {
	if node == nil || node.Kind() != "string" {
		return "", false
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "string_fragment" {
			return nodeText(child, src), true
		}
	}
	// Empty string literal has no fragment child.
	return "", true
}

// foldStaticName statically evaluates a name expression: identifiers,
// member chains, and subscripts with string-literal keys fold; nothing
// else does. This is deliberately the whole evaluator.
func foldStaticName(node *sitter.Node, src []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Kind() {
	case "identifier":
		return nodeText(node, src), true
	case "member_expression":
		obj := node.ChildByFieldName("object")
		prop := node.ChildByFieldName("property")
		if prop == nil || prop.Kind() != "property_identifier" {
			return "", false
		}
		base, ok := foldStaticName(obj, src)
		if !ok {
			return "", false
		}
		return base + "." + nodeText(prop, src), true
	case "subscript_expression":
		obj := node.ChildByFieldName("object")
		index := node.ChildByFieldName("index")
		key, ok := stringLiteralValue(index, src)
		if !ok {
			return "", false
		}
		base, ok := foldStaticName(obj, src)
		if !ok {
			return "", false
		}
		return base + "." + key, true
	}
	return "", false
}

// docCommentBefore finds the documentation comment attached to a node:
// the immediately preceding block-comment sibling.
func docCommentBefore(node *sitter.Node, src []byte) (DocComment, bool) {
	prev := node.PrevSibling()
	if prev == nil || prev.Kind() != "comment" {
		return DocComment{}, false
	}
	text := nodeText(prev, src)
	if !strings.HasPrefix(text, "/*") {
		return DocComment{}, false
	}
	return ParseJSDoc(text), true
}

// identifiersIn collects the distinct root identifiers an expression
// reads, in first-appearance order. Property accesses count their
// object root only.
func identifiersIn(node *sitter.Node, src []byte) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Kind() {
		case "identifier":
			name := nodeText(n, src)
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
			return
		case "member_expression":
			if obj := n.ChildByFieldName("object"); obj != nil {
				walk(obj)
			}
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return out
}

// enclosingStatement walks up to the statement directly under the
// program node, the canonical declaration site used for scope-based
// resolution.
func enclosingStatement(node *sitter.Node) *sitter.Node {
	current := node
	for current != nil {
		p := current.Parent()
		if p == nil {
			return nil
		}
		if p.Kind() == "program" {
			return current
		}
		current = p
	}
	return nil
}

// functionParams extracts parameter names from a formal_parameters
// node.
func functionParams(params *sitter.Node, src []byte) []string {
	if params == nil {
		return nil
	}
	var out []string
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "identifier":
			out = append(out, nodeText(child, src))
		case "assignment_pattern":
			if left := child.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
				out = append(out, nodeText(left, src))
			}
		case "rest_pattern":
			for j := uint(0); j < child.ChildCount(); j++ {
				if inner := child.Child(j); inner.Kind() == "identifier" {
					out = append(out, "..."+nodeText(inner, src))
				}
			}
		}
	}
	return out
}

func isFunctionNode(node *sitter.Node) bool {
	switch node.Kind() {
	case "function_expression", "function_declaration", "arrow_function",
		"generator_function", "generator_function_declaration":
		return true
	}
	return false
}

// declarationRangeOf returns the range of the program-level statement
// containing the node, for use as a scope hint on references.
func declarationRangeOf(node *sitter.Node, doc *parser.JSDocument) *model.SourceRange {
	stmt := enclosingStatement(node)
	if stmt == nil {
		return nil
	}
	r := doc.RangeForNode(stmt)
	return &r
}
