package model

import (
	"fmt"

	"polygraph/internal/urlutil"
)

// Analysis is the arena all documents of one run live in. Documents
// are keyed by resolved URL; every cross-document pointer goes through
// this map, so no two documents ever share a URL and import cycles
// need no ownership gymnastics.
type Analysis struct {
	root      urlutil.ResolvedURL
	documents map[urlutil.ResolvedURL]*Document
	order     []urlutil.ResolvedURL
	warnings  []Warning
}

func NewAnalysis(root urlutil.ResolvedURL) *Analysis {
	return &Analysis{
		root:      root,
		documents: make(map[urlutil.ResolvedURL]*Document),
	}
}

// AddDocument allocates a document shell into the arena. All shells
// are allocated before any resolve step runs. Adding the same URL
// twice is a programming error.
func (a *Analysis) AddDocument(scanned *ScannedDocument) *Document {
	url := scanned.Document.URL()
	if _, exists := a.documents[url]; exists {
		panic(fmt.Sprintf("model: document %q added twice to one analysis", url))
	}
	d := NewDocument(scanned, a)
	a.documents[url] = d
	a.order = append(a.order, url)
	return d
}

// GetDocument returns the document for a resolved URL. The same
// instance is returned across repeated calls within one analysis.
func (a *Analysis) GetDocument(url urlutil.ResolvedURL) (*Document, bool) {
	d, ok := a.documents[url]
	return d, ok
}

// Documents returns every document in allocation order.
func (a *Analysis) Documents() []*Document {
	out := make([]*Document, 0, len(a.order))
	for _, url := range a.order {
		out = append(out, a.documents[url])
	}
	return out
}

// ResolveAll resolves every allocated document. Documents already
// finished through import recursion are skipped; resolution always
// terminates even over cyclic import graphs.
func (a *Analysis) ResolveAll() {
	for _, url := range a.order {
		a.documents[url].resolve()
	}
}

// AddWarning records an analysis-level warning that has no owning
// document, e.g. an entry point that failed to load.
func (a *Analysis) AddWarning(w Warning) {
	a.warnings = append(a.warnings, w)
}

// GetWarnings returns the analysis-level warnings followed by the deep
// warnings of every top-level document.
func (a *Analysis) GetWarnings() []Warning {
	out := append([]Warning(nil), a.warnings...)
	visited := make(map[*Document]bool)
	for _, url := range a.order {
		d := a.documents[url]
		if d.Scanned.IsInline() {
			continue
		}
		d.collectWarnings(true, visited, &out)
	}
	return out
}

// Root returns the resolved URL prefix of the analyzed package.
func (a *Analysis) Root() urlutil.ResolvedURL { return a.root }
