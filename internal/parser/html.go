package parser

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/urlutil"
)

// InlineSpan is the byte span of an inline document's content within
// its host: the raw_text of a <script> or <style> element.
type InlineSpan struct {
	Tag   string
	Start int
	End   int
}

// HTMLDocument is a parsed markup document.
type HTMLDocument struct {
	document
	spans []InlineSpan
}

func parseHTML(g *Grammars, text string, url urlutil.ResolvedURL, opts Options) (*HTMLDocument, []model.Warning) {
	tree := g.parseTree("html", []byte(text))
	doc := &HTMLDocument{document: newDocument(url, text, "html", opts, tree)}

	var warnings []model.Warning
	if tree == nil {
		warnings = append(warnings, model.Warning{
			Code:     model.WarnParseError,
			Message:  "unable to parse as HTML",
			Severity: model.SeverityError,
			Range:    model.SourceRange{File: doc.rangeURL},
			Parsed:   doc,
		})
		return doc, warnings
	}

	if errNode := firstError(tree.RootNode()); errNode != nil {
		warnings = append(warnings, model.Warning{
			Code:     model.WarnParseError,
			Message:  "syntax error in HTML",
			Severity: model.SeverityWarning,
			Range:    doc.RangeForNode(errNode),
			Parsed:   doc,
		})
	}

	doc.spans = collectInlineSpans(tree.RootNode())
	return doc, warnings
}

// InlineSpans returns the inline script and style content spans in
// source order.
func (d *HTMLDocument) InlineSpans() []InlineSpan {
	return d.spans
}

// Stringify re-emits the document text. When inline documents are
// provided they are spliced back into their spans, replacing whatever
// the host currently contains there.
func (d *HTMLDocument) Stringify(opts model.StringifyOptions) string {
	if len(opts.InlineDocuments) == 0 || len(d.spans) == 0 {
		return d.contents
	}

	n := len(opts.InlineDocuments)
	if len(d.spans) < n {
		n = len(d.spans)
	}

	var b strings.Builder
	prev := 0
	for i := 0; i < n; i++ {
		span := d.spans[i]
		b.WriteString(d.contents[prev:span.Start])
		b.WriteString(opts.InlineDocuments[i].Stringify(model.StringifyOptions{}))
		prev = span.End
	}
	b.WriteString(d.contents[prev:])
	return b.String()
}

func collectInlineSpans(root *sitter.Node) []InlineSpan {
	var spans []InlineSpan
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		kind := node.Kind()
		if kind == "script_element" || kind == "style_element" {
			tag := "script"
			if kind == "style_element" {
				tag = "style"
			}
			for i := uint(0); i < node.ChildCount(); i++ {
				child := node.Child(i)
				if child.Kind() == "raw_text" {
					spans = append(spans, InlineSpan{
						Tag:   tag,
						Start: int(child.StartByte()),
						End:   int(child.EndByte()),
					})
				}
			}
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}
