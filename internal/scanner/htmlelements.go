package scanner

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
)

// domModuleScanner picks up <dom-module id="..."> declarations.
type domModuleScanner struct {
	features []model.ScannedFeature
}

func newDomModuleScanner() *domModuleScanner { return &domModuleScanner{} }

func (s *domModuleScanner) Enter(node *sitter.Node, doc *parser.HTMLDocument) {
	if node.Kind() != "element" {
		return
	}
	tag, ok := tagOf(node, doc.Source())
	if !ok || tag.name() != "dom-module" {
		return
	}

	id := ""
	if attr, ok := tag.attr("id"); ok {
		id = attr.value
	}

	s.features = append(s.features, &model.ScannedDomModule{
		ID:          id,
		HasTemplate: hasTemplateChild(node, doc.Source()),
		Range:       doc.RangeForNode(node),
	})
}

func (s *domModuleScanner) Leave(*sitter.Node, *parser.HTMLDocument) {}

func (s *domModuleScanner) Finish(*parser.HTMLDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, nil
}

func hasTemplateChild(node *sitter.Node, src []byte) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "element" {
			continue
		}
		if tag, ok := tagOf(child, src); ok && tag.name() == "template" {
			return true
		}
	}
	return false
}

// elementReferenceScanner records every use of a custom element: any
// tag whose name contains a dash, dom-module excepted. Attribute names
// that would not survive HTML's case folding get an invalid-attribute
// warning.
type elementReferenceScanner struct {
	features []model.ScannedFeature
	warnings []model.Warning
}

func newElementReferenceScanner() *elementReferenceScanner { return &elementReferenceScanner{} }

func (s *elementReferenceScanner) Enter(node *sitter.Node, doc *parser.HTMLDocument) {
	if node.Kind() != "element" {
		return
	}
	tag, ok := tagOf(node, doc.Source())
	if !ok {
		return
	}
	name := tag.name()
	if !strings.Contains(name, "-") || name == "dom-module" {
		return
	}

	ref := &model.ScannedElementReference{
		TagName: name,
		Range:   doc.RangeForNode(node),
	}
	for _, attr := range tag.attrs() {
		raw := nodeText(attr.node, doc.Source())
		if i := strings.IndexByte(raw, '='); i >= 0 {
			raw = raw[:i]
		}
		if strings.TrimSpace(raw) != strings.ToLower(strings.TrimSpace(raw)) {
			s.warnings = append(s.warnings, model.Warning{
				Code:     model.WarnInvalidAttribute,
				Message:  "attribute names are case-insensitive in HTML; " + raw + " will be folded to lowercase",
				Severity: model.SeverityWarning,
				Range:    doc.RangeForNode(attr.node),
				Parsed:   doc,
			})
		}
		ref.Attributes = append(ref.Attributes, model.ScannedAttribute{
			Name:  attr.name,
			Range: doc.RangeForNode(attr.node),
		})
	}
	s.features = append(s.features, ref)
}

func (s *elementReferenceScanner) Leave(*sitter.Node, *parser.HTMLDocument) {}

func (s *elementReferenceScanner) Finish(*parser.HTMLDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, s.warnings
}

// htmlPseudoScanner finds pseudo elements declared in markup comments.
type htmlPseudoScanner struct {
	features []model.ScannedFeature
}

func newHTMLPseudoScanner() *htmlPseudoScanner { return &htmlPseudoScanner{} }

func (s *htmlPseudoScanner) Enter(node *sitter.Node, doc *parser.HTMLDocument) {
	if node.Kind() != "comment" {
		return
	}
	text := nodeText(node, doc.Source())
	if !strings.Contains(text, "@pseudoElement") {
		return
	}

	if el, ok := pseudoElementFromComment(text, doc.RangeForNode(node)); ok {
		s.features = append(s.features, el)
	}
}

func (s *htmlPseudoScanner) Leave(*sitter.Node, *parser.HTMLDocument) {}

func (s *htmlPseudoScanner) Finish(*parser.HTMLDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, nil
}

func pseudoElementFromComment(text string, r model.SourceRange) (*model.ScannedElement, bool) {
	doc := ParseJSDoc(text)
	ann, ok := doc.Get("pseudoElement")
	if !ok || ann.Name == "" {
		return nil, false
	}
	return &model.ScannedElement{
		TagName:     ann.Name,
		Description: doc.Description,
		Summary:     doc.Summary(),
		Pseudo:      true,
		Range:       r,
	}, true
}
