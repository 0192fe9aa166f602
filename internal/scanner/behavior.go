package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
)

// behaviorScanner emits legacy behaviors: object literals annotated
// @polymerBehavior, named after the annotation argument or the
// assignment target.
type behaviorScanner struct {
	features []model.ScannedFeature
}

func newBehaviorScanner() *behaviorScanner { return &behaviorScanner{} }

func (s *behaviorScanner) Enter(node *sitter.Node, doc *parser.JSDocument, decls map[string]model.SourceRange) {
	if p := node.Parent(); p == nil || p.Kind() != "program" {
		return
	}
	src := doc.Source()

	switch node.Kind() {
	case "lexical_declaration", "variable_declaration":
		dc, ok := docCommentBefore(node, src)
		if !ok || !dc.Has(behaviorTags...) {
			return
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			decl := node.Child(i)
			if decl.Kind() != "variable_declarator" {
				continue
			}
			name := ""
			if n := decl.ChildByFieldName("name"); n != nil && n.Kind() == "identifier" {
				name = nodeText(n, src)
			}
			s.emit(name, dc, node, decl.ChildByFieldName("value"), doc)
			return
		}

	case "expression_statement":
		assign := firstChildOfKind(node, "assignment_expression")
		if assign == nil {
			return
		}
		dc, ok := docCommentBefore(node, src)
		if !ok || !dc.Has(behaviorTags...) {
			return
		}
		name, _ := foldStaticName(assign.ChildByFieldName("left"), src)
		s.emit(name, dc, node, assign.ChildByFieldName("right"), doc)
	}
}

func (s *behaviorScanner) Leave(*sitter.Node, *parser.JSDocument) {}

func (s *behaviorScanner) Finish(*parser.JSDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, nil
}

func (s *behaviorScanner) emit(name string, dc DocComment, stmt, value *sitter.Node, doc *parser.JSDocument) {
	if ann, ok := dc.Get(behaviorTags...); ok && ann.Name != "" {
		name = ann.Name
	}
	if name == "" {
		return
	}

	r := doc.RangeForNode(stmt)
	behavior := &model.ScannedBehavior{
		Name:        name,
		Description: dc.Description,
		Summary:     dc.Summary(),
		Range:       r,
		Declaration: &r,
	}
	if value != nil && value.Kind() == "object" {
		behavior.Properties, behavior.Methods = scanObjectMembers(value, doc)
	}
	s.features = append(s.features, behavior)
}

// scanObjectMembers splits an object literal into properties and
// methods, the way behaviors and Polymer() descriptors declare them.
// The polymer `properties` block is flattened into typed properties.
func scanObjectMembers(obj *sitter.Node, doc *parser.JSDocument) ([]model.ScannedProperty, []model.ScannedMethod) {
	src := doc.Source()
	var props []model.ScannedProperty
	var methods []model.ScannedMethod

	for i := uint(0); i < obj.ChildCount(); i++ {
		member := obj.Child(i)
		switch member.Kind() {
		case "pair":
			key := member.ChildByFieldName("key")
			value := member.ChildByFieldName("value")
			if key == nil || value == nil {
				continue
			}
			name := nodeText(key, src)
			if v, ok := stringLiteralValue(key, src); ok {
				name = v
			}

			if name == "properties" && value.Kind() == "object" {
				props = append(props, scanPolymerProperties(value, doc)...)
				continue
			}
			if isFunctionNode(value) {
				m := model.ScannedMethod{
					Name:    name,
					Privacy: model.PrivacyOf(name),
					Range:   doc.RangeForNode(member),
				}
				if dc, ok := docCommentBefore(member, src); ok {
					m.Description = dc.Description
				}
				for _, p := range functionParams(value.ChildByFieldName("parameters"), src) {
					m.Params = append(m.Params, model.Parameter{Name: p})
				}
				methods = append(methods, m)
				continue
			}
			props = append(props, model.ScannedProperty{
				Name:    name,
				Privacy: model.PrivacyOf(name),
				Default: nodeText(value, src),
				Range:   doc.RangeForNode(member),
			})

		case "method_definition":
			key := member.ChildByFieldName("name")
			if key == nil {
				continue
			}
			name := nodeText(key, src)
			m := model.ScannedMethod{
				Name:    name,
				Privacy: model.PrivacyOf(name),
				Range:   doc.RangeForNode(member),
			}
			for _, p := range functionParams(member.ChildByFieldName("parameters"), src) {
				m.Params = append(m.Params, model.Parameter{Name: p})
			}
			methods = append(methods, m)
		}
	}
	return props, methods
}

// scanPolymerProperties reads a polymer `properties: {...}` block:
// `name: String` shorthand or `name: {type: String, ...}` longhand.
func scanPolymerProperties(obj *sitter.Node, doc *parser.JSDocument) []model.ScannedProperty {
	src := doc.Source()
	var out []model.ScannedProperty

	for i := uint(0); i < obj.ChildCount(); i++ {
		member := obj.Child(i)
		if member.Kind() != "pair" {
			continue
		}
		key := member.ChildByFieldName("key")
		value := member.ChildByFieldName("value")
		if key == nil || value == nil {
			continue
		}
		name := nodeText(key, src)
		if v, ok := stringLiteralValue(key, src); ok {
			name = v
		}

		prop := model.ScannedProperty{
			Name:    name,
			Privacy: model.PrivacyOf(name),
			Range:   doc.RangeForNode(member),
		}
		if dc, ok := docCommentBefore(member, src); ok {
			prop.Description = dc.Description
		}

		switch value.Kind() {
		case "identifier":
			prop.Type = nodeText(value, src)
		case "object":
			for j := uint(0); j < value.ChildCount(); j++ {
				inner := value.Child(j)
				if inner.Kind() != "pair" {
					continue
				}
				k := inner.ChildByFieldName("key")
				v := inner.ChildByFieldName("value")
				if k == nil || v == nil {
					continue
				}
				switch nodeText(k, src) {
				case "type":
					prop.Type = nodeText(v, src)
				case "value":
					prop.Default = nodeText(v, src)
				case "readOnly":
					prop.ReadOnly = nodeText(v, src) == "true"
				}
			}
		}
		out = append(out, prop)
	}
	return out
}
