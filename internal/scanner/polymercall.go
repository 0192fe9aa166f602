package scanner

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
)

// polymerCallScanner handles the legacy call forms: Polymer({...})
// element declarations and Polymer.Base._addFeature({...}) core
// feature fragments.
type polymerCallScanner struct {
	decls map[string]model.SourceRange

	features []model.ScannedFeature
	warnings []model.Warning
}

func newPolymerCallScanner() *polymerCallScanner { return &polymerCallScanner{} }

func (s *polymerCallScanner) Enter(node *sitter.Node, doc *parser.JSDocument, decls map[string]model.SourceRange) {
	if s.decls == nil {
		s.decls = decls
	}
	if node.Kind() != "call_expression" {
		return
	}
	src := doc.Source()
	callee, ok := foldStaticName(node.ChildByFieldName("function"), src)
	if !ok {
		return
	}

	switch callee {
	case "Polymer":
		s.enterPolymerCall(node, doc)
	case "Polymer.Base._addFeature":
		s.enterCoreFeature(node, doc)
	}
}

func (s *polymerCallScanner) Leave(*sitter.Node, *parser.JSDocument) {}

func (s *polymerCallScanner) Finish(*parser.JSDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, s.warnings
}

func (s *polymerCallScanner) enterPolymerCall(node *sitter.Node, doc *parser.JSDocument) {
	src := doc.Source()
	r := doc.RangeForNode(node)

	args := callArguments(node)
	if len(args) == 0 || args[0].Kind() != "object" {
		s.warnings = append(s.warnings, model.Warning{
			Code:     model.WarnInvalidPolymerCall,
			Message:  "a Polymer() call takes an object literal describing the element",
			Severity: model.SeverityWarning,
			Range:    r,
			Parsed:   doc,
		})
		return
	}
	descriptor := args[0]

	el := &model.ScannedElement{
		Polymer:     true,
		Range:       r,
		Declaration: declarationRangeOf(node, doc),
	}

	docNode := node
	if stmt := enclosingStatement(node); stmt != nil {
		docNode = stmt
	}
	if dc, ok := docCommentBefore(docNode, src); ok {
		el.Description = dc.Description
		el.Summary = dc.Summary()
		for _, t := range dc.Tags {
			if t.Tag == "demo" {
				el.Demos = append(el.Demos, model.Demo{Path: t.Name, Description: t.Description})
			}
		}
	}

	for i := uint(0); i < descriptor.ChildCount(); i++ {
		member := descriptor.Child(i)
		if member.Kind() != "pair" {
			continue
		}
		key := member.ChildByFieldName("key")
		value := member.ChildByFieldName("value")
		if key == nil || value == nil {
			continue
		}
		switch nodeText(key, src) {
		case "is":
			tag, ok := stringLiteralValue(value, src)
			if !ok {
				s.warnings = append(s.warnings, model.Warning{
					Code:     model.WarnInvalidPolymerCall,
					Message:  "the `is` property of a Polymer() call must be a string literal",
					Severity: model.SeverityWarning,
					Range:    doc.RangeForNode(member),
					Parsed:   doc,
				})
				continue
			}
			el.TagName = tag
		case "behaviors":
			el.Behaviors = append(el.Behaviors, s.behaviorRefs(value, doc)...)
		case "extends":
			if base, ok := stringLiteralValue(value, src); ok && base != "" {
				el.SuperClass = model.NewScannedReference(model.KindElement, base, doc.RangeForNode(value))
			}
		}
	}

	props, methods := scanObjectMembers(descriptor, doc)
	for _, p := range props {
		if p.Name == "is" || p.Name == "behaviors" || p.Name == "extends" {
			continue
		}
		el.Properties = append(el.Properties, p)
	}
	el.Methods = methods

	if el.TagName == "" {
		s.warnings = append(s.warnings, model.Warning{
			Code:     model.WarnInvalidPolymerCall,
			Message:  "Polymer() call has no `is` property naming the element",
			Severity: model.SeverityWarning,
			Range:    r,
			Parsed:   doc,
		})
		return
	}
	s.features = append(s.features, el)
}

func (s *polymerCallScanner) behaviorRefs(value *sitter.Node, doc *parser.JSDocument) []*model.ScannedReference {
	if value.Kind() != "array" {
		return nil
	}
	src := doc.Source()
	var out []*model.ScannedReference
	for i := uint(0); i < value.ChildCount(); i++ {
		entry := value.Child(i)
		name, ok := foldStaticName(entry, src)
		if !ok {
			continue
		}
		ref := model.NewScannedReference(model.KindBehavior, name, doc.RangeForNode(entry))
		if decl, found := s.decls[rootSegment(name)]; found {
			ref.Declaration = &decl
		}
		out = append(out, ref)
	}
	return out
}

func (s *polymerCallScanner) enterCoreFeature(node *sitter.Node, doc *parser.JSDocument) {
	args := callArguments(node)
	if len(args) == 0 || args[0].Kind() != "object" {
		return
	}
	feature := &model.ScannedPolymerCoreFeature{Range: doc.RangeForNode(node)}
	if dc, ok := docCommentBefore(node, doc.Source()); ok {
		feature.Description = dc.Description
	}
	feature.Properties, feature.Methods = scanObjectMembers(args[0], doc)
	s.features = append(s.features, feature)
}

// jsPseudoScanner finds pseudo elements declared in script block
// comments.
type jsPseudoScanner struct {
	features []model.ScannedFeature
}

func newJSPseudoScanner() *jsPseudoScanner { return &jsPseudoScanner{} }

func (s *jsPseudoScanner) Enter(node *sitter.Node, doc *parser.JSDocument, decls map[string]model.SourceRange) {
	if node.Kind() != "comment" {
		return
	}
	text := nodeText(node, doc.Source())
	if !strings.HasPrefix(text, "/*") || !strings.Contains(text, "@pseudoElement") {
		return
	}
	if el, ok := pseudoElementFromComment(text, doc.RangeForNode(node)); ok {
		s.features = append(s.features, el)
	}
}

func (s *jsPseudoScanner) Leave(*sitter.Node, *parser.JSDocument) {}

func (s *jsPseudoScanner) Finish(*parser.JSDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, nil
}
