package model

// ScannedDocument is a parsed document plus everything one scanning
// pass found in it. Exactly one exists per resolved URL per analysis.
type ScannedDocument struct {
	Document ParsedDocument
	Features []ScannedFeature
	Warnings []Warning
}

func NewScannedDocument(parsed ParsedDocument, features []ScannedFeature, warnings []Warning) *ScannedDocument {
	return &ScannedDocument{Document: parsed, Features: features, Warnings: warnings}
}

func (s *ScannedDocument) IsInline() bool {
	return s.Document.IsInline()
}

// InlineDocuments returns the nested scanned documents discovered
// inside this one, in source order.
func (s *ScannedDocument) InlineDocuments() []*ScannedDocument {
	var out []*ScannedDocument
	for _, f := range s.Features {
		if inline, ok := f.(*ScannedInlineDocument); ok {
			out = append(out, inline.Scanned)
		}
	}
	return out
}

// Imports returns the scanned imports in source order.
func (s *ScannedDocument) Imports() []*ScannedImport {
	var out []*ScannedImport
	for _, f := range s.Features {
		if imp, ok := f.(*ScannedImport); ok {
			out = append(out, imp)
		}
	}
	return out
}

// ScannedInlineDocument wraps a nested document (an inline script or
// style) discovered while scanning its host.
type ScannedInlineDocument struct {
	Scanned *ScannedDocument
	Range   SourceRange
}

func (s *ScannedInlineDocument) SourceRange() SourceRange { return s.Range }
func (s *ScannedInlineDocument) Warnings() []Warning      { return nil }

// Resolve attaches the pre-allocated child Document to its parent and
// resolves it in place.
func (s *ScannedInlineDocument) Resolve(d *Document) Feature {
	child, ok := d.analysis.GetDocument(s.Scanned.Document.URL())
	if !ok {
		return nil
	}
	child.container = d
	child.resolve()
	return child
}
