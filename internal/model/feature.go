package model

// Kind tags index features. A feature can answer to several kinds: a
// polymer element is both "element" and "polymer-element".
const (
	KindDocument           = "document"
	KindImport             = "import"
	KindElement            = "element"
	KindPolymerElement     = "polymer-element"
	KindElementMixin       = "element-mixin"
	KindNamespace          = "namespace"
	KindFunction           = "function"
	KindBehavior           = "behavior"
	KindReference          = "reference"
	KindElementReference   = "element-reference"
	KindDatabinding        = "databinding"
	KindDomModule          = "dom-module"
	KindPolymerCoreFeature = "polymer-core-feature"
)

// ScannedFeature is a document-local fact produced by one scanner
// pass. It has not yet been connected to anything outside its own
// document.
type ScannedFeature interface {
	SourceRange() SourceRange
	Warnings() []Warning
}

// Feature is the resolved form: cross-document references are
// concrete, and it is queryable by kind and identifier.
type Feature interface {
	Kinds() []string
	Identifiers() []string
	SourceRange() SourceRange
	Warnings() []Warning
}

// Resolvable is implemented by scanned features that participate in
// resolution. Resolve may return nil when the feature dissolves into
// warnings only.
type Resolvable interface {
	ScannedFeature
	Resolve(d *Document) Feature
}

// DeclaredFeature exposes the statement a feature was declared at,
// enabling scope-based reference resolution.
type DeclaredFeature interface {
	Feature
	DeclarationRange() SourceRange
}

func hasKind(f Feature, kind string) bool {
	for _, k := range f.Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

func hasIdentifier(f Feature, id string) bool {
	for _, i := range f.Identifiers() {
		if i == id {
			return true
		}
	}
	return false
}
