package parser

import (
	"polygraph/internal/model"
	"polygraph/internal/urlutil"
)

// JSDocument is a parsed script document.
type JSDocument struct {
	document
}

func parseJS(g *Grammars, text string, url urlutil.ResolvedURL, opts Options) (*JSDocument, []model.Warning) {
	tree := g.parseTree("js", []byte(text))
	doc := &JSDocument{document: newDocument(url, text, "js", opts, tree)}

	var warnings []model.Warning
	if tree == nil {
		warnings = append(warnings, model.Warning{
			Code:     model.WarnParseError,
			Message:  "unable to parse as JavaScript",
			Severity: model.SeverityError,
			Range:    model.SourceRange{File: doc.rangeURL},
			Parsed:   doc,
		})
		return doc, warnings
	}

	if errNode := firstError(tree.RootNode()); errNode != nil {
		warnings = append(warnings, model.Warning{
			Code:     model.WarnParseError,
			Message:  "syntax error in JavaScript",
			Severity: model.SeverityWarning,
			Range:    doc.RangeForNode(errNode),
			Parsed:   doc,
		})
	}
	return doc, warnings
}

func (d *JSDocument) Stringify(model.StringifyOptions) string {
	return d.contents
}

// HasSyntaxErrors reports whether the tree contains any ERROR node.
// The databinding scanner uses this to reject non-expressions.
func (d *JSDocument) HasSyntaxErrors() bool {
	root := d.Root()
	if root == nil {
		return true
	}
	return firstError(root) != nil
}

// CSSDocument is a parsed style document. The analyzer treats styles
// as opaque: it parses them to validate and re-emit, nothing more.
type CSSDocument struct {
	document
}

func parseCSS(g *Grammars, text string, url urlutil.ResolvedURL, opts Options) (*CSSDocument, []model.Warning) {
	tree := g.parseTree("css", []byte(text))
	doc := &CSSDocument{document: newDocument(url, text, "css", opts, tree)}

	var warnings []model.Warning
	if tree == nil {
		warnings = append(warnings, model.Warning{
			Code:     model.WarnParseError,
			Message:  "unable to parse as CSS",
			Severity: model.SeverityError,
			Range:    model.SourceRange{File: doc.rangeURL},
			Parsed:   doc,
		})
	}
	return doc, warnings
}

func (d *CSSDocument) Stringify(model.StringifyOptions) string {
	return d.contents
}
