package model

// ScannedPolymerCoreFeature is a Polymer.Base._addFeature call: a
// fragment of the polymer core element that elements implicitly mix
// in.
type ScannedPolymerCoreFeature struct {
	Description string
	Properties  []ScannedProperty
	Methods     []ScannedMethod

	Range SourceRange

	warnings []Warning
}

func (s *ScannedPolymerCoreFeature) SourceRange() SourceRange { return s.Range }
func (s *ScannedPolymerCoreFeature) Warnings() []Warning      { return s.warnings }

func (s *ScannedPolymerCoreFeature) Resolve(d *Document) Feature {
	return &PolymerCoreFeature{
		Description: s.Description,
		Properties:  s.Properties,
		Methods:     s.Methods,
		Range:       s.Range,
		warnings:    append([]Warning(nil), s.warnings...),
	}
}

type PolymerCoreFeature struct {
	Description string
	Properties  []ScannedProperty
	Methods     []ScannedMethod

	Range SourceRange

	warnings []Warning
}

func (f *PolymerCoreFeature) Kinds() []string          { return []string{KindPolymerCoreFeature} }
func (f *PolymerCoreFeature) Identifiers() []string    { return nil }
func (f *PolymerCoreFeature) SourceRange() SourceRange { return f.Range }
func (f *PolymerCoreFeature) Warnings() []Warning      { return f.warnings }

// ScannedElementReference is a use of a custom element in markup: any
// tag whose name contains a dash.
type ScannedElementReference struct {
	TagName    string
	Attributes []ScannedAttribute

	Range SourceRange

	warnings []Warning
}

func (s *ScannedElementReference) SourceRange() SourceRange { return s.Range }
func (s *ScannedElementReference) Warnings() []Warning      { return s.warnings }

// Resolve connects the reference to its element when one is reachable.
// Pages legitimately use elements from outside the analyzed package,
// so a missing target is not a warning.
func (s *ScannedElementReference) Resolve(d *Document) Feature {
	ref := &ElementReference{
		TagName:    s.TagName,
		Attributes: s.Attributes,
		Range:      s.Range,
		warnings:   append([]Warning(nil), s.warnings...),
	}
	if el, ok := d.GetOnlyAtID(KindElement, s.TagName); ok {
		ref.Element = el
	}
	return ref
}

type ElementReference struct {
	TagName    string
	Attributes []ScannedAttribute
	Element    Feature

	Range SourceRange

	warnings []Warning
}

func (r *ElementReference) Kinds() []string          { return []string{KindElementReference} }
func (r *ElementReference) Identifiers() []string    { return []string{r.TagName} }
func (r *ElementReference) SourceRange() SourceRange { return r.Range }
func (r *ElementReference) Warnings() []Warning      { return r.warnings }

// ScannedDomModule is a <dom-module id="..."> declaration carrying an
// element's template.
type ScannedDomModule struct {
	ID          string
	HasTemplate bool

	Range SourceRange

	warnings []Warning
}

func (s *ScannedDomModule) SourceRange() SourceRange { return s.Range }
func (s *ScannedDomModule) Warnings() []Warning      { return s.warnings }

func (s *ScannedDomModule) Resolve(d *Document) Feature {
	return &DomModule{
		ID:          s.ID,
		HasTemplate: s.HasTemplate,
		Range:       s.Range,
		warnings:    append([]Warning(nil), s.warnings...),
	}
}

type DomModule struct {
	ID          string
	HasTemplate bool

	Range SourceRange

	warnings []Warning
}

func (m *DomModule) Kinds() []string          { return []string{KindDomModule} }
func (m *DomModule) Identifiers() []string    { return []string{m.ID} }
func (m *DomModule) SourceRange() SourceRange { return m.Range }
func (m *DomModule) Warnings() []Warning      { return m.warnings }
