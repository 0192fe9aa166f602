package model

import (
	"strings"
	"sync"

	"polygraph/internal/urlutil"
)

// Document is the resolved form of a scanned document. It owns its
// local features (itself included, as a feature of kind "document")
// and answers queries over itself or its transitive import closure.
//
// A Document is shared by reference: it appears as a feature inside
// its parent and as the target of Imports. The graph is cyclic; the
// begun flag cuts cycles during resolution. After done is set the
// document is immutable and safe for concurrent queries.
type Document struct {
	Scanned  *ScannedDocument
	analysis *Analysis
	// container is the document this one is inlined into, nil for
	// top-level documents.
	container *Document

	local    []Feature
	warnings []Warning

	begun bool
	done  bool

	// The indexes are built lazily on first query after done, once,
	// so concurrent queries stay safe.
	indexOnce   sync.Once
	byKind      map[string][]Feature
	byKindAndID map[string]map[string][]Feature
}

func NewDocument(scanned *ScannedDocument, analysis *Analysis) *Document {
	return &Document{Scanned: scanned, analysis: analysis}
}

func (d *Document) URL() urlutil.ResolvedURL { return d.Scanned.Document.URL() }
func (d *Document) Parsed() ParsedDocument   { return d.Scanned.Document }
func (d *Document) Analysis() *Analysis      { return d.analysis }

// Feature interface: a document is itself a feature.

func (d *Document) Kinds() []string {
	return []string{KindDocument, d.Scanned.Document.Language() + "-document"}
}

func (d *Document) Identifiers() []string {
	return []string{string(d.URL())}
}

func (d *Document) SourceRange() SourceRange {
	text := d.Scanned.Document.Contents()
	ix := NewLineIndex(text)
	return SourceRange{File: d.URL(), Start: Position{}, End: ix.Position(len(text))}
}

func (d *Document) Warnings() []Warning { return d.warnings }

// resolve walks scanned features in source order, materializing each
// into a local feature. Re-entry through an import cycle hits the
// begun guard and returns with the document still partially resolved;
// the outer call finishes it.
func (d *Document) resolve() {
	if d.begun {
		return
	}
	d.begun = true

	d.local = append(d.local, d)
	d.warnings = append(d.warnings, d.Scanned.Warnings...)

	for _, sf := range d.Scanned.Features {
		r, ok := sf.(Resolvable)
		if !ok {
			continue
		}
		if f := r.Resolve(d); f != nil {
			d.local = append(d.local, f)
		}
	}

	d.done = true
}

// Done reports whether resolution has finished for this document.
func (d *Document) Done() bool { return d.done }

// QueryOptions narrow a GetFeatures call.
type QueryOptions struct {
	Kind string
	ID   string
	// Imported extends the query over the transitive import closure
	// and inline children rather than just local features.
	Imported bool
	// ExternalPackages additionally descends into documents outside
	// the analyzed package root.
	ExternalPackages bool
	// Statement restricts results to features declared at exactly
	// this statement range.
	Statement *SourceRange
}

// GetByKind returns every feature of the given kind reachable from
// this document: local features, imported documents and inline
// children, cycles cut by a visited set. Results are in deterministic
// traversal order.
func (d *Document) GetByKind(kind string) []Feature {
	return d.GetFeatures(QueryOptions{Kind: kind, Imported: true, ExternalPackages: true})
}

// GetByID returns the reachable features of a kind that answer to the
// identifier.
func (d *Document) GetByID(kind, id string) []Feature {
	return d.GetFeatures(QueryOptions{Kind: kind, ID: id, Imported: true, ExternalPackages: true})
}

// GetOnlyAtID returns the single feature of a kind with the given
// identifier, or false when there are zero or several.
func (d *Document) GetOnlyAtID(kind, id string) (Feature, bool) {
	features := d.GetByID(kind, id)
	if len(features) != 1 {
		return nil, false
	}
	return features[0], true
}

// GetFeatures runs a query. Local features come first in insertion
// order, then imported documents in declaration order.
func (d *Document) GetFeatures(q QueryOptions) []Feature {
	var out []Feature
	seen := make(map[Feature]bool)
	visited := make(map[*Document]bool)
	d.collectFeatures(q, visited, seen, &out)
	return out
}

func (d *Document) collectFeatures(q QueryOptions, visited map[*Document]bool, seen map[Feature]bool, out *[]Feature) {
	if visited[d] {
		return
	}
	visited[d] = true

	// The lazy indexes are only consulted once resolution is done:
	// building them earlier would freeze a partial view.
	if d.done && q.Statement == nil && q.Kind != "" {
		d.buildIndexes()
		var candidates []Feature
		if q.ID != "" {
			candidates = d.byKindAndID[q.Kind][q.ID]
		} else {
			candidates = d.byKind[q.Kind]
		}
		for _, f := range candidates {
			if !seen[f] {
				seen[f] = true
				*out = append(*out, f)
			}
		}
	} else {
		for _, f := range d.local {
			if !matches(f, q) || seen[f] {
				continue
			}
			seen[f] = true
			*out = append(*out, f)
		}
	}

	if !q.Imported {
		return
	}

	for _, f := range d.local {
		switch t := f.(type) {
		case *Import:
			if t.Document == nil {
				continue
			}
			if !q.ExternalPackages && t.Document.IsExternal() {
				continue
			}
			t.Document.collectFeatures(q, visited, seen, out)
		case *Document:
			if t != d {
				t.collectFeatures(q, visited, seen, out)
			}
		}
	}

	// An inline document can reference features its container
	// imported; resolution walks up through the host.
	if d.container != nil {
		d.container.collectFeatures(q, visited, seen, out)
	}
}

func matches(f Feature, q QueryOptions) bool {
	if q.Kind != "" && !hasKind(f, q.Kind) {
		return false
	}
	if q.ID != "" && !hasIdentifier(f, q.ID) {
		return false
	}
	if q.Statement != nil {
		df, ok := f.(DeclaredFeature)
		if !ok || df.DeclarationRange() != *q.Statement {
			return false
		}
	}
	return true
}

func (d *Document) buildIndexes() {
	d.indexOnce.Do(func() {
		d.byKind = make(map[string][]Feature)
		d.byKindAndID = make(map[string]map[string][]Feature)
		for _, f := range d.local {
			for _, kind := range f.Kinds() {
				d.byKind[kind] = append(d.byKind[kind], f)
				byID := d.byKindAndID[kind]
				if byID == nil {
					byID = make(map[string][]Feature)
					d.byKindAndID[kind] = byID
				}
				for _, id := range f.Identifiers() {
					byID[id] = append(byID[id], f)
				}
			}
		}
	})
}

// GetWarnings returns this document's warnings together with the
// warnings of its local features; deep extends over the transitive
// closure.
func (d *Document) GetWarnings(deep bool) []Warning {
	var out []Warning
	visited := make(map[*Document]bool)
	d.collectWarnings(deep, visited, &out)
	return out
}

func (d *Document) collectWarnings(deep bool, visited map[*Document]bool, out *[]Warning) {
	if visited[d] {
		return
	}
	visited[d] = true

	*out = append(*out, d.warnings...)
	for _, f := range d.local {
		if f == Feature(d) {
			continue
		}
		if _, isDoc := f.(*Document); isDoc {
			continue
		}
		*out = append(*out, f.Warnings()...)
	}

	if !deep {
		return
	}
	for _, f := range d.local {
		switch t := f.(type) {
		case *Import:
			if t.Document != nil {
				t.Document.collectWarnings(deep, visited, out)
			}
		case *Document:
			if t != d {
				t.collectWarnings(deep, visited, out)
			}
		}
	}
}

// IsExternal reports whether the document's URL lies outside the
// analysis root URL. Documents under the component directory sit inside
// that root and are not external.
func (d *Document) IsExternal() bool {
	root := string(d.analysis.root)
	if root == "" {
		return false
	}
	return !strings.HasPrefix(string(d.URL()), root)
}
