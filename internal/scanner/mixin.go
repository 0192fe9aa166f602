package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
)

// mixinScanner emits element mixins: functions or variables annotated
// @mixinFunction / @polymerMixin.
type mixinScanner struct {
	features []model.ScannedFeature
}

func newMixinScanner() *mixinScanner { return &mixinScanner{} }

func (s *mixinScanner) Enter(node *sitter.Node, doc *parser.JSDocument, decls map[string]model.SourceRange) {
	src := doc.Source()
	switch node.Kind() {
	case "function_declaration":
		name := ""
		if n := node.ChildByFieldName("name"); n != nil {
			name = nodeText(n, src)
		}
		s.tryEmit(node, node, name, doc)

	case "lexical_declaration", "variable_declaration":
		if p := node.Parent(); p == nil || p.Kind() != "program" {
			return
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			decl := node.Child(i)
			if decl.Kind() != "variable_declarator" {
				continue
			}
			value := decl.ChildByFieldName("value")
			if value == nil || (!isFunctionNode(value) && value.Kind() != "call_expression") {
				continue
			}
			name := ""
			if n := decl.ChildByFieldName("name"); n != nil && n.Kind() == "identifier" {
				name = nodeText(n, src)
			}
			s.tryEmit(node, node, name, doc)
			return
		}

	case "assignment_expression":
		right := node.ChildByFieldName("right")
		if right == nil || (!isFunctionNode(right) && right.Kind() != "call_expression") {
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
		s.tryEmit(docNode, node, name, doc)
	}
}

func (s *mixinScanner) Leave(*sitter.Node, *parser.JSDocument) {}

func (s *mixinScanner) Finish(*parser.JSDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, nil
}

func (s *mixinScanner) tryEmit(docNode, node *sitter.Node, name string, doc *parser.JSDocument) {
	src := doc.Source()
	dc, ok := docCommentBefore(docNode, src)
	if !ok || !dc.Has(mixinTags...) {
		return
	}
	if ann, found := dc.Get(mixinTags...); found && ann.Name != "" {
		name = ann.Name
	}
	if name == "" {
		return
	}

	r := doc.RangeForNode(node)
	s.features = append(s.features, &model.ScannedElementMixin{
		Name:        name,
		Description: dc.Description,
		Summary:     dc.Summary(),
		Privacy:     model.PrivacyOf(lastSegment(name)),
		Range:       r,
		Declaration: declarationRangeOf(node, doc),
	})
}
