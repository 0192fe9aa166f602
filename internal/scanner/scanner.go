// Package scanner walks parsed ASTs and produces scanned features.
// One visitor dispatcher per language traverses each document exactly
// once, multiplexing enter/leave callbacks to every registered scanner
// in registration order. Scanners are pure over a single document:
// they keep their own state, never share it across documents, and
// never trigger loads.
package scanner

import (
	"fmt"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
	"polygraph/internal/urlutil"
)

// HTMLScanner receives every node of a markup document. Enter runs
// top-down, Leave bottom-up; Finish reports what the scanner found.
type HTMLScanner interface {
	Enter(node *sitter.Node, doc *parser.HTMLDocument)
	Leave(node *sitter.Node, doc *parser.HTMLDocument)
	Finish(doc *parser.HTMLDocument) ([]model.ScannedFeature, []model.Warning)
}

// JSScanner is the script-side counterpart. The decls argument maps
// identifiers declared at program level to their statement ranges; the
// dispatcher builds it once per document (topLevelDecls) for
// scope-based references.
type JSScanner interface {
	Enter(node *sitter.Node, doc *parser.JSDocument, decls map[string]model.SourceRange)
	Leave(node *sitter.Node, doc *parser.JSDocument)
	Finish(doc *parser.JSDocument) ([]model.ScannedFeature, []model.Warning)
}

// Registry holds the scanner sets per language, in fixed invocation
// order.
type Registry struct {
	parsers *parser.Registry
	html    []func(*Registry) HTMLScanner
	js      []func() JSScanner
}

func NewRegistry(parsers *parser.Registry) *Registry {
	r := &Registry{parsers: parsers}
	r.html = []func(*Registry) HTMLScanner{
		func(reg *Registry) HTMLScanner { return newHTMLImportScanner(reg) },
		func(*Registry) HTMLScanner { return newDomModuleScanner() },
		func(*Registry) HTMLScanner { return newElementReferenceScanner() },
		func(*Registry) HTMLScanner { return newHTMLPseudoScanner() },
		func(reg *Registry) HTMLScanner { return newDatabindingScanner(reg.parsers) },
	}
	r.js = []func() JSScanner{
		func() JSScanner { return newClassScanner() },
		func() JSScanner { return newMixinScanner() },
		func() JSScanner { return newFunctionScanner() },
		func() JSScanner { return newNamespaceScanner() },
		func() JSScanner { return newBehaviorScanner() },
		func() JSScanner { return newPolymerCallScanner() },
		func() JSScanner { return newJSPseudoScanner() },
	}
	return r
}

func (r *Registry) Parsers() *parser.Registry { return r.parsers }

// Scan runs the scanner set matching the parsed document's language
// and returns its scanned form, inline children included.
func (r *Registry) Scan(parsed model.ParsedDocument) *model.ScannedDocument {
	switch doc := parsed.(type) {
	case *parser.HTMLDocument:
		return r.scanHTML(doc)
	case *parser.JSDocument:
		return r.scanJS(doc)
	default:
		return model.NewScannedDocument(parsed, nil, nil)
	}
}

func (r *Registry) scanHTML(doc *parser.HTMLDocument) *model.ScannedDocument {
	scanners := make([]HTMLScanner, 0, len(r.html))
	for _, build := range r.html {
		scanners = append(scanners, build(r))
	}

	if root := doc.Root(); root != nil {
		walkHTML(root, doc, scanners)
	}

	var features []model.ScannedFeature
	var warnings []model.Warning
	for _, s := range scanners {
		f, w := s.Finish(doc)
		features = append(features, f...)
		warnings = append(warnings, w...)
	}

	sortBySource(features)
	return model.NewScannedDocument(doc, features, warnings)
}

func (r *Registry) scanJS(doc *parser.JSDocument) *model.ScannedDocument {
	scanners := make([]JSScanner, 0, len(r.js))
	for _, build := range r.js {
		scanners = append(scanners, build())
	}

	root := doc.Root()
	var decls map[string]model.SourceRange
	if root != nil {
		decls = topLevelDecls(root, doc)
		walkJS(root, doc, decls, scanners)
	}

	var features []model.ScannedFeature
	var warnings []model.Warning
	for _, s := range scanners {
		f, w := s.Finish(doc)
		features = append(features, f...)
		warnings = append(warnings, w...)
	}

	sortBySource(features)
	return model.NewScannedDocument(doc, features, warnings)
}

// ScanInline parses and scans an inline document embedded in a host.
// ordinal is 1-based per tag kind; the child URL is the host URL plus
// an #inline-<tag>-<n> fragment.
func (r *Registry) ScanInline(host model.ParsedDocument, language, tag string, ordinal int, text string, offset model.Position) (*model.ScannedDocument, bool) {
	url := urlutil.ResolvedURL(fmt.Sprintf("%s#inline-%s-%d", host.URL(), tag, ordinal))
	parsed, parseWarnings := r.parsers.Parse(language, text, url, parser.Options{
		Inline: true,
		Offset: offset,
	})
	scanned := r.Scan(parsed)
	scanned.Warnings = append(parseWarnings, scanned.Warnings...)
	return scanned, true
}

func walkHTML(node *sitter.Node, doc *parser.HTMLDocument, scanners []HTMLScanner) {
	for _, s := range scanners {
		s.Enter(node, doc)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkHTML(node.Child(i), doc, scanners)
	}
	for _, s := range scanners {
		s.Leave(node, doc)
	}
}

func walkJS(node *sitter.Node, doc *parser.JSDocument, decls map[string]model.SourceRange, scanners []JSScanner) {
	for _, s := range scanners {
		s.Enter(node, doc, decls)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkJS(node.Child(i), doc, decls, scanners)
	}
	for _, s := range scanners {
		s.Leave(node, doc)
	}
}

// topLevelDecls maps identifiers bound at program scope to the range
// of their declaration statement.
func topLevelDecls(root *sitter.Node, doc *parser.JSDocument) map[string]model.SourceRange {
	decls := make(map[string]model.SourceRange)
	src := doc.Source()
	for i := uint(0); i < root.ChildCount(); i++ {
		stmt := root.Child(i)
		stmtRange := doc.RangeForNode(stmt)
		switch stmt.Kind() {
		case "class_declaration", "function_declaration", "generator_function_declaration":
			if name := stmt.ChildByFieldName("name"); name != nil {
				decls[nodeText(name, src)] = stmtRange
			}
		case "lexical_declaration", "variable_declaration":
			for j := uint(0); j < stmt.ChildCount(); j++ {
				decl := stmt.Child(j)
				if decl.Kind() != "variable_declarator" {
					continue
				}
				if name := decl.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
					decls[nodeText(name, src)] = stmtRange
				}
			}
		}
	}
	return decls
}

func sortBySource(features []model.ScannedFeature) {
	sort.SliceStable(features, func(i, j int) bool {
		return features[i].SourceRange().Start.Before(features[j].SourceRange().Start)
	})
}
