package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
	"polygraph/internal/urlutil"
)

// htmlImportScanner finds the three external reference forms —
// <link rel="import">, <script src>, <link rel="stylesheet"> — and
// turns inline <script>/<style> content into nested scanned documents.
type htmlImportScanner struct {
	registry *Registry

	features []model.ScannedFeature
	warnings []model.Warning

	scriptOrdinal int
	styleOrdinal  int
}

func newHTMLImportScanner(registry *Registry) *htmlImportScanner {
	return &htmlImportScanner{registry: registry}
}

func (s *htmlImportScanner) Enter(node *sitter.Node, doc *parser.HTMLDocument) {
	switch node.Kind() {
	case "element":
		s.enterElement(node, doc)
	case "script_element":
		s.enterScript(node, doc)
	case "style_element":
		s.enterStyle(node, doc)
	}
}

func (s *htmlImportScanner) Leave(*sitter.Node, *parser.HTMLDocument) {}

func (s *htmlImportScanner) Finish(*parser.HTMLDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, s.warnings
}

func (s *htmlImportScanner) enterElement(node *sitter.Node, doc *parser.HTMLDocument) {
	tag, ok := tagOf(node, doc.Source())
	if !ok || tag.name() != "link" {
		return
	}
	rel, _ := tag.attr("rel")
	href, hasHref := tag.attr("href")
	if !hasHref || href.value == "" {
		return
	}

	var importType string
	switch rel.value {
	case "import":
		importType = model.ImportHTML
	case "stylesheet":
		importType = model.ImportStyle
	case "lazy-import":
		importType = model.ImportHTML
	default:
		return
	}

	s.features = append(s.features, &model.ScannedImport{
		Type:     importType,
		URL:      urlutil.FileRelativeURL(href.value),
		Range:    doc.RangeForNode(node),
		URLRange: doc.RangeForNode(href.valueNode),
		Lazy:     rel.value == "lazy-import",
	})
}

func (s *htmlImportScanner) enterScript(node *sitter.Node, doc *parser.HTMLDocument) {
	tag, ok := tagOf(node, doc.Source())
	if !ok {
		return
	}

	if src, hasSrc := tag.attr("src"); hasSrc && src.value != "" {
		s.features = append(s.features, &model.ScannedImport{
			Type:     model.ImportScript,
			URL:      urlutil.FileRelativeURL(src.value),
			Range:    doc.RangeForNode(node),
			URLRange: doc.RangeForNode(src.valueNode),
		})
		return
	}

	scriptType := ""
	if t, ok := tag.attr("type"); ok {
		scriptType = t.value
	}
	language, ok := s.registry.parsers.LanguageForScriptType(scriptType)
	if !ok {
		// Not executable content (templates, JSON payloads).
		return
	}

	s.scriptOrdinal++
	s.addInline(node, doc, language, "script", s.scriptOrdinal)
}

func (s *htmlImportScanner) enterStyle(node *sitter.Node, doc *parser.HTMLDocument) {
	s.styleOrdinal++
	s.addInline(node, doc, "css", "style", s.styleOrdinal)
}

func (s *htmlImportScanner) addInline(node *sitter.Node, doc *parser.HTMLDocument, language, tag string, ordinal int) {
	raw := rawTextChild(node)
	if raw == nil {
		return
	}

	text := nodeText(raw, doc.Source())
	offset := doc.RangeForNode(raw).Start

	scanned, ok := s.registry.ScanInline(doc, language, tag, ordinal, text, offset)
	if !ok {
		return
	}
	s.features = append(s.features, &model.ScannedInlineDocument{
		Scanned: scanned,
		Range:   doc.RangeForNode(node),
	})
}
