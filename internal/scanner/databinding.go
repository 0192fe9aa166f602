package scanner

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
)

// databindingScanner extracts {{...}} and [[...]] expressions from
// template subtrees. A template participates when its is attribute is
// one of the databinding helpers or when a dom-module contains it.
type databindingScanner struct {
	parsers *parser.Registry

	ix *model.LineIndex

	domModuleDepth int
	activeDepth    int
	// nodeFlags remembers which entered nodes bumped which counter so
	// Leave can undo them.
	nodeFlags map[*sitter.Node]byte

	features []model.ScannedFeature
}

const (
	flagDomModule byte = 1 << iota
	flagActiveTemplate
)

func newDatabindingScanner(parsers *parser.Registry) *databindingScanner {
	return &databindingScanner{
		parsers:   parsers,
		nodeFlags: make(map[*sitter.Node]byte),
	}
}

func (s *databindingScanner) Enter(node *sitter.Node, doc *parser.HTMLDocument) {
	if node.Kind() == "element" {
		tag, ok := tagOf(node, doc.Source())
		if !ok {
			return
		}
		var flags byte
		switch tag.name() {
		case "dom-module":
			s.domModuleDepth++
			flags |= flagDomModule
		case "template", "dom-bind":
			if s.isDatabindingTemplate(tag) {
				s.activeDepth++
				flags |= flagActiveTemplate
			}
		}
		if flags != 0 {
			s.nodeFlags[node] = flags
		}
		if s.activeDepth > 0 {
			s.scanAttributes(tag, doc)
		}
		return
	}

	if node.Kind() == "text" && s.activeDepth > 0 {
		text := nodeText(node, doc.Source())
		s.extract(doc, text, int(node.StartByte()), false)
	}
}

func (s *databindingScanner) Leave(node *sitter.Node, doc *parser.HTMLDocument) {
	flags, ok := s.nodeFlags[node]
	if !ok {
		return
	}
	delete(s.nodeFlags, node)
	if flags&flagDomModule != 0 {
		s.domModuleDepth--
	}
	if flags&flagActiveTemplate != 0 {
		s.activeDepth--
	}
}

func (s *databindingScanner) Finish(*parser.HTMLDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, nil
}

func (s *databindingScanner) isDatabindingTemplate(tag htmlTag) bool {
	if tag.name() == "dom-bind" {
		return true
	}
	if s.domModuleDepth > 0 {
		return true
	}
	is, ok := tag.attr("is")
	if !ok {
		return false
	}
	switch is.value {
	case "dom-bind", "dom-if", "dom-repeat":
		return true
	}
	return false
}

func (s *databindingScanner) scanAttributes(tag htmlTag, doc *parser.HTMLDocument) {
	for _, attr := range tag.attrs() {
		if attr.valueNode == nil || attr.value == "" {
			continue
		}
		s.extract(doc, attr.value, int(attr.valueNode.StartByte()), true)
	}
}

// extract runs the linear binding scan over one string. An opener with
// no matching closer ends the scan of this string: it was not a
// binding, and that is not a warning.
func (s *databindingScanner) extract(doc *parser.HTMLDocument, text string, baseOffset int, isAttribute bool) {
	if s.ix == nil {
		s.ix = model.NewLineIndex(doc.Contents())
	}

	i := 0
	for {
		open, direction := nextOpener(text, i)
		if open < 0 {
			return
		}
		closer := "}}"
		if direction == model.DatabindingOneWay {
			closer = "]]"
		}
		close := strings.Index(text[open+2:], closer)
		if close < 0 {
			return
		}
		close += open + 2

		expr := text[open+2 : close]
		event := ""
		if direction == model.DatabindingTwoWay {
			if at := strings.LastIndex(expr, "::"); at >= 0 {
				event = expr[at+2:]
				expr = expr[:at]
			}
		}

		into := model.DatabindingIntoStringInterpolation
		if isAttribute && open == 0 && close+2 == len(text) {
			into = model.DatabindingIntoAttribute
		}

		feature := &model.ScannedDatabindingExpression{
			Direction:       direction,
			ExpressionText:  expr,
			EventName:       event,
			DatabindingInto: into,
			Range:           doc.RangeForOffsets(s.ix, baseOffset+open+2, baseOffset+open+2+len(expr)),
		}

		parsed, ok := s.parsers.ParseExpression(expr, doc.URL())
		if !ok {
			feature.AddWarning(model.Warning{
				Code:     model.WarnInvalidDatabinding,
				Message:  "invalid databinding expression: " + expr,
				Severity: model.SeverityWarning,
				Range:    feature.Range,
				Parsed:   doc,
			})
		} else {
			if root := parsed.Root(); root != nil {
				feature.Properties = identifiersIn(root, parsed.Source())
			}
			parsed.Close()
		}

		s.features = append(s.features, feature)
		i = close + 2
	}
}

// nextOpener finds the earliest {{ or [[ at or after offset i.
func nextOpener(text string, i int) (int, byte) {
	curly := strings.Index(text[i:], "{{")
	square := strings.Index(text[i:], "[[")
	switch {
	case curly < 0 && square < 0:
		return -1, 0
	case square < 0 || (curly >= 0 && curly < square):
		return i + curly, model.DatabindingTwoWay
	default:
		return i + square, model.DatabindingOneWay
	}
}
