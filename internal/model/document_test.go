package model

import (
	"strings"
	"testing"

	"polygraph/internal/urlutil"
)

// fakeParsed is a minimal parsed document for graph tests.
type fakeParsed struct {
	url      urlutil.ResolvedURL
	contents string
	language string
	inline   bool
}

func (f *fakeParsed) URL() urlutil.ResolvedURL       { return f.url }
func (f *fakeParsed) Contents() string               { return f.contents }
func (f *fakeParsed) Language() string               { return f.language }
func (f *fakeParsed) IsInline() bool                 { return f.inline }
func (f *fakeParsed) LocationOffset() Position       { return Position{} }
func (f *fakeParsed) Stringify(StringifyOptions) string { return f.contents }

func scannedDoc(url urlutil.ResolvedURL, features ...ScannedFeature) *ScannedDocument {
	return NewScannedDocument(&fakeParsed{url: url, language: "html"}, features, nil)
}

func rangeAt(url urlutil.ResolvedURL, line int) SourceRange {
	return SourceRange{File: url, Start: Position{Line: line}, End: Position{Line: line, Column: 10}}
}

func TestDocumentContainsItselfOnce(t *testing.T) {
	a := NewAnalysis("file:///pkg/")
	d := a.AddDocument(scannedDoc("file:///pkg/a.html"))
	a.ResolveAll()

	docs := d.GetByKind(KindDocument)
	count := 0
	for _, f := range docs {
		if f == Feature(d) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("document appears %d times in getByKind('document'), want 1", count)
	}
}

func TestImportCycleResolves(t *testing.T) {
	a := NewAnalysis("file:///pkg/")

	impAB := &ScannedImport{
		Type: ImportHTML, URL: "b.html", Resolved: "file:///pkg/b.html",
		Range: rangeAt("file:///pkg/a.html", 0),
	}
	impBA := &ScannedImport{
		Type: ImportHTML, URL: "a.html", Resolved: "file:///pkg/a.html",
		Range: rangeAt("file:///pkg/b.html", 0),
	}

	da := a.AddDocument(scannedDoc("file:///pkg/a.html", impAB))
	db := a.AddDocument(scannedDoc("file:///pkg/b.html", impBA))
	a.ResolveAll()

	if !da.Done() || !db.Done() {
		t.Fatal("both documents must finish resolution")
	}

	docsFromA := da.GetByKind(KindDocument)
	if len(docsFromA) != 2 {
		t.Errorf("getByKind('document') from a = %d docs, want 2", len(docsFromA))
	}
	docsFromB := db.GetByKind(KindDocument)
	if len(docsFromB) != 2 {
		t.Errorf("getByKind('document') from b = %d docs, want 2", len(docsFromB))
	}

	for _, w := range da.GetWarnings(true) {
		t.Errorf("unexpected warning: %v", w)
	}
}

func TestGetByKindStableAcrossCalls(t *testing.T) {
	a := NewAnalysis("file:///pkg/")
	el := &ScannedElement{TagName: "x-el", Range: rangeAt("file:///pkg/a.html", 3)}
	d := a.AddDocument(scannedDoc("file:///pkg/a.html", el))
	a.ResolveAll()

	first := d.GetByKind(KindElement)
	second := d.GetByKind(KindElement)
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("getByKind not stable: %v vs %v", first, second)
	}
}

func TestGetOnlyAtID(t *testing.T) {
	a := NewAnalysis("file:///pkg/")
	el := &ScannedElement{TagName: "x-el", ClassName: "El", Range: rangeAt("file:///pkg/a.html", 3)}
	d := a.AddDocument(scannedDoc("file:///pkg/a.html", el))
	a.ResolveAll()

	byTag, ok := d.GetOnlyAtID(KindElement, "x-el")
	if !ok {
		t.Fatal("expected to find x-el")
	}
	byClass, ok := d.GetOnlyAtID(KindElement, "El")
	if !ok || byTag != byClass {
		t.Error("tag name and class name must identify the same element")
	}

	if _, ok := d.GetOnlyAtID(KindElement, "missing"); ok {
		t.Error("expected no feature for unknown id")
	}
}

func TestImportTargetFeaturesVisible(t *testing.T) {
	a := NewAnalysis("file:///pkg/")

	imp := &ScannedImport{
		Type: ImportHTML, URL: "b.html", Resolved: "file:///pkg/b.html",
		Range: rangeAt("file:///pkg/a.html", 0),
	}
	da := a.AddDocument(scannedDoc("file:///pkg/a.html", imp))
	a.AddDocument(scannedDoc("file:///pkg/b.html",
		&ScannedElement{TagName: "x-b", Range: rangeAt("file:///pkg/b.html", 1)}))
	a.ResolveAll()

	if _, ok := da.GetOnlyAtID(KindElement, "x-b"); !ok {
		t.Error("element from imported document must be reachable")
	}

	// Local-only queries must not see it.
	local := da.GetFeatures(QueryOptions{Kind: KindElement})
	if len(local) != 0 {
		t.Errorf("local query found %d elements, want 0", len(local))
	}
}

func TestMissingImportTargetWarns(t *testing.T) {
	a := NewAnalysis("file:///pkg/")
	imp := &ScannedImport{
		Type: ImportHTML, URL: "gone.html", Resolved: "file:///pkg/gone.html",
		Range:    rangeAt("file:///pkg/a.html", 0),
		URLRange: rangeAt("file:///pkg/a.html", 0),
	}
	da := a.AddDocument(scannedDoc("file:///pkg/a.html", imp))
	a.ResolveAll()

	warnings := da.GetWarnings(true)
	found := false
	for _, w := range warnings {
		if w.Code == WarnCouldNotLoad {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a %s warning, got %v", WarnCouldNotLoad, warnings)
	}
}

func TestReferenceResolution(t *testing.T) {
	a := NewAnalysis("file:///pkg/")

	behavior := &ScannedBehavior{Name: "MyBehavior", Range: rangeAt("file:///pkg/a.html", 1)}
	ref := NewScannedReference(KindBehavior, "MyBehavior", rangeAt("file:///pkg/a.html", 5))
	d := a.AddDocument(scannedDoc("file:///pkg/a.html", behavior, ref))
	a.ResolveAll()

	refs := d.GetFeatures(QueryOptions{Kind: KindReference})
	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1", len(refs))
	}
	resolved := refs[0].(*Reference)
	if resolved.Feature == nil {
		t.Fatal("reference should have resolved")
	}
	if len(resolved.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", resolved.Warnings())
	}
}

func TestUnresolvedBehaviorReferenceHint(t *testing.T) {
	a := NewAnalysis("file:///pkg/")
	ref := NewScannedReference(KindBehavior, "NoSuchBehavior", rangeAt("file:///pkg/a.html", 5))
	d := a.AddDocument(scannedDoc("file:///pkg/a.html", ref))
	a.ResolveAll()

	warnings := d.GetWarnings(true)
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	w := warnings[0]
	if w.Code != WarnCouldNotResolve {
		t.Errorf("code = %s, want %s", w.Code, WarnCouldNotResolve)
	}
	if !strings.Contains(w.Message, "@polymerBehavior") {
		t.Errorf("behavior hint missing from %q", w.Message)
	}
}

func TestAmbiguousReferencePicksFirstDeterministically(t *testing.T) {
	a := NewAnalysis("file:///pkg/")

	local := &ScannedBehavior{Name: "B", Range: rangeAt("file:///pkg/a.html", 1)}
	ref := NewScannedReference(KindBehavior, "B", rangeAt("file:///pkg/a.html", 5))
	imp := &ScannedImport{
		Type: ImportHTML, URL: "b.html", Resolved: "file:///pkg/b.html",
		Range: rangeAt("file:///pkg/a.html", 0),
	}
	d := a.AddDocument(scannedDoc("file:///pkg/a.html", imp, local, ref))
	a.AddDocument(scannedDoc("file:///pkg/b.html",
		&ScannedBehavior{Name: "B", Range: rangeAt("file:///pkg/b.html", 1)}))
	a.ResolveAll()

	refs := d.GetFeatures(QueryOptions{Kind: KindReference})
	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1", len(refs))
	}
	resolved := refs[0].(*Reference)
	if resolved.Feature == nil {
		t.Fatal("ambiguous reference still resolves to the first candidate")
	}
	// Locally-declared features come before imported ones.
	if resolved.Feature.SourceRange().File != "file:///pkg/a.html" {
		t.Errorf("picked %s, want the local declaration", resolved.Feature.SourceRange().File)
	}
	if len(resolved.Warnings()) != 1 || resolved.Warnings()[0].Code != WarnMultipleGlobals {
		t.Errorf("expected a %s warning, got %v", WarnMultipleGlobals, resolved.Warnings())
	}
}

func TestScopeBasedResolutionBeatsGlobal(t *testing.T) {
	a := NewAnalysis("file:///pkg/")

	declRange := rangeAt("file:///pkg/a.html", 1)
	localMixin := &ScannedElementMixin{Name: "M", Range: declRange, Declaration: &declRange}
	ref := NewScannedReference(KindElementMixin, "M", rangeAt("file:///pkg/a.html", 5))
	ref.Declaration = &declRange

	imp := &ScannedImport{
		Type: ImportHTML, URL: "b.html", Resolved: "file:///pkg/b.html",
		Range: rangeAt("file:///pkg/a.html", 0),
	}
	d := a.AddDocument(scannedDoc("file:///pkg/a.html", imp, localMixin, ref))
	a.AddDocument(scannedDoc("file:///pkg/b.html",
		&ScannedElementMixin{Name: "M", Range: rangeAt("file:///pkg/b.html", 1)}))
	a.ResolveAll()

	refs := d.GetFeatures(QueryOptions{Kind: KindReference})
	resolved := refs[0].(*Reference)
	if resolved.Feature == nil {
		t.Fatal("reference should resolve through scope lookup")
	}
	// Scope-based resolution is exact; no ambiguity warning.
	if len(resolved.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", resolved.Warnings())
	}
}

func TestDuplicateURLPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding the same URL twice must panic")
		}
	}()
	a := NewAnalysis("file:///pkg/")
	a.AddDocument(scannedDoc("file:///pkg/a.html"))
	a.AddDocument(scannedDoc("file:///pkg/a.html"))
}

func TestExternalPackagesExcluded(t *testing.T) {
	a := NewAnalysis("file:///pkg/")

	imp := &ScannedImport{
		Type: ImportHTML, URL: "../other/x.html", Resolved: "file:///other/x.html",
		Range: rangeAt("file:///pkg/a.html", 0),
	}
	d := a.AddDocument(scannedDoc("file:///pkg/a.html", imp))
	a.AddDocument(scannedDoc("file:///other/x.html",
		&ScannedElement{TagName: "x-ext", Range: rangeAt("file:///other/x.html", 1)}))
	a.ResolveAll()

	withExternal := d.GetFeatures(QueryOptions{Kind: KindElement, Imported: true, ExternalPackages: true})
	if len(withExternal) != 1 {
		t.Errorf("externalPackages query found %d, want 1", len(withExternal))
	}
	withoutExternal := d.GetFeatures(QueryOptions{Kind: KindElement, Imported: true})
	if len(withoutExternal) != 0 {
		t.Errorf("non-external query found %d, want 0", len(withoutExternal))
	}
}

func TestLineIndex(t *testing.T) {
	ix := NewLineIndex("ab\ncd\n\nef")
	cases := []struct {
		offset int
		want   Position
	}{
		{0, Position{0, 0}},
		{1, Position{0, 1}},
		{3, Position{1, 0}},
		{4, Position{1, 1}},
		{6, Position{2, 0}},
		{7, Position{3, 0}},
		{9, Position{3, 2}},
	}
	for _, tc := range cases {
		if got := ix.Position(tc.offset); got != tc.want {
			t.Errorf("Position(%d) = %v, want %v", tc.offset, got, tc.want)
		}
	}
}
