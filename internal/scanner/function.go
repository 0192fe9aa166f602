package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
)

// functionScanner emits namespaced free functions: named functions,
// object methods, variable-bound function expressions and
// function-valued assignments whose documentation carries @memberof.
// Mixin factories are excluded; the mixin scanner owns those.
type functionScanner struct {
	features []model.ScannedFeature
}

func newFunctionScanner() *functionScanner { return &functionScanner{} }

func (s *functionScanner) Enter(node *sitter.Node, doc *parser.JSDocument, decls map[string]model.SourceRange) {
	src := doc.Source()
	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		name := ""
		if n := node.ChildByFieldName("name"); n != nil {
			name = nodeText(n, src)
		}
		s.tryEmit(node, node, name, node.ChildByFieldName("parameters"), doc)

	case "variable_declarator":
		value := node.ChildByFieldName("value")
		if value == nil || !isFunctionNode(value) {
			return
		}
		name := ""
		if n := node.ChildByFieldName("name"); n != nil && n.Kind() == "identifier" {
			name = nodeText(n, src)
		}
		docNode := node
		if stmt := enclosingStatement(node); stmt != nil {
			docNode = stmt
		}
		s.tryEmit(docNode, node, name, value.ChildByFieldName("parameters"), doc)

	case "assignment_expression":
		right := node.ChildByFieldName("right")
		if right == nil || !isFunctionNode(right) {
			return
		}
		name, ok := foldStaticName(node.ChildByFieldName("left"), src)
		if !ok {
			return
		}
		docNode := node
		if p := node.Parent(); p != nil && p.Kind() == "expression_statement" {
			docNode = p
		}
		s.tryEmit(docNode, node, lastSegment(name), right.ChildByFieldName("parameters"), doc)

	case "pair":
		value := node.ChildByFieldName("value")
		if value == nil || !isFunctionNode(value) {
			return
		}
		key := node.ChildByFieldName("key")
		if key == nil {
			return
		}
		name := nodeText(key, src)
		if v, ok := stringLiteralValue(key, src); ok {
			name = v
		}
		s.tryEmit(node, node, name, value.ChildByFieldName("parameters"), doc)
	}
}

func (s *functionScanner) Leave(*sitter.Node, *parser.JSDocument) {}

func (s *functionScanner) Finish(*parser.JSDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, nil
}

func (s *functionScanner) tryEmit(docNode, node *sitter.Node, localName string, params *sitter.Node, doc *parser.JSDocument) {
	if localName == "" {
		return
	}
	src := doc.Source()
	dc, ok := docCommentBefore(docNode, src)
	if !ok || !dc.Has("memberof") || dc.Has(mixinTags...) {
		return
	}
	member, _ := dc.Get("memberof")
	if member.Name == "" {
		return
	}

	fn := &model.ScannedFunction{
		Name:        member.Name + "." + localName,
		Description: dc.Description,
		Summary:     dc.Summary(),
		Privacy:     model.PrivacyOf(localName),
		Range:       doc.RangeForNode(node),
		Declaration: declarationRangeOf(node, doc),
	}
	if ret, found := dc.Get("return", "returns"); found {
		fn.Return = ret.Type
	}

	documented := make(map[string]model.Parameter)
	var order []string
	for _, t := range dc.Tags {
		if t.Tag == "param" && t.Name != "" {
			documented[t.Name] = model.Parameter{Name: t.Name, Type: t.Type, Description: t.Description}
			order = append(order, t.Name)
		}
	}
	declared := functionParams(params, src)
	if len(declared) > 0 {
		for _, p := range declared {
			if d, found := documented[p]; found {
				fn.Params = append(fn.Params, d)
			} else {
				fn.Params = append(fn.Params, model.Parameter{Name: p})
			}
		}
	} else {
		for _, name := range order {
			fn.Params = append(fn.Params, documented[name])
		}
	}

	s.features = append(s.features, fn)
}

func lastSegment(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
