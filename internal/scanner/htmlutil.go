package scanner

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// htmlTag is the start (or self-closing) tag of an element node, with
// accessors over its attributes.
type htmlTag struct {
	node *sitter.Node
	src  []byte
}

// tagOf returns the start tag of an element, script_element or
// style_element node.
func tagOf(node *sitter.Node, src []byte) (htmlTag, bool) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if kind := child.Kind(); kind == "start_tag" || kind == "self_closing_tag" {
			return htmlTag{node: child, src: src}, true
		}
	}
	return htmlTag{}, false
}

func (t htmlTag) name() string {
	for i := uint(0); i < t.node.ChildCount(); i++ {
		child := t.node.Child(i)
		if child.Kind() == "tag_name" {
			return strings.ToLower(nodeText(child, t.src))
		}
	}
	return ""
}

type htmlAttr struct {
	name string
	// value is the unquoted attribute value text.
	value string
	// node is the whole attribute node, valueNode the inner
	// attribute_value (nil for bare attributes).
	node      *sitter.Node
	valueNode *sitter.Node
}

func (t htmlTag) attrs() []htmlAttr {
	var out []htmlAttr
	for i := uint(0); i < t.node.ChildCount(); i++ {
		child := t.node.Child(i)
		if child.Kind() != "attribute" {
			continue
		}
		attr := htmlAttr{node: child}
		for j := uint(0); j < child.ChildCount(); j++ {
			part := child.Child(j)
			switch part.Kind() {
			case "attribute_name":
				attr.name = strings.ToLower(nodeText(part, t.src))
			case "attribute_value":
				attr.value = nodeText(part, t.src)
				attr.valueNode = part
			case "quoted_attribute_value":
				for k := uint(0); k < part.ChildCount(); k++ {
					inner := part.Child(k)
					if inner.Kind() == "attribute_value" {
						attr.value = nodeText(inner, t.src)
						attr.valueNode = inner
					}
				}
			}
		}
		out = append(out, attr)
	}
	return out
}

func (t htmlTag) attr(name string) (htmlAttr, bool) {
	for _, a := range t.attrs() {
		if a.name == name {
			return a, true
		}
	}
	return htmlAttr{}, false
}

// rawTextChild returns the raw_text node of a script or style element.
func rawTextChild(node *sitter.Node) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "raw_text" {
			return child
		}
	}
	return nil
}
