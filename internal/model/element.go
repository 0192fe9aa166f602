package model

import "strings"

// Parameter is a function or method parameter.
type Parameter struct {
	Name        string
	Type        string
	Description string
}

type ScannedAttribute struct {
	Name        string
	Description string
	Range       SourceRange
}

type ScannedProperty struct {
	Name        string
	Type        string
	Description string
	Privacy     string
	ReadOnly    bool
	Default     string
	Range       SourceRange
}

type ScannedMethod struct {
	Name        string
	Description string
	Privacy     string
	Params      []Parameter
	Return      string
	Range       SourceRange
}

type ScannedEvent struct {
	Name        string
	Description string
	Range       SourceRange
}

type Demo struct {
	Path        string
	Description string
}

type Slot struct {
	Name  string
	Range SourceRange
}

// PrivacyOf derives member privacy from its name the way the polymer
// conventions do: "__" prefixed is private, "_" prefixed or "_" suffixed
// is protected, everything else public.
func PrivacyOf(name string) string {
	switch {
	case strings.HasPrefix(name, "__"):
		return "private"
	case strings.HasPrefix(name, "_") || strings.HasSuffix(name, "_"):
		return "protected"
	default:
		return "public"
	}
}

// ScannedElement is a custom element found in class form (an annotated
// class declaration or a customElements.define call) or in legacy call
// form (Polymer({...})). Pseudo elements come from documentation
// comments only and have no backing declaration.
type ScannedElement struct {
	TagName    string
	ClassName  string
	SuperClass *ScannedReference
	Mixins     []*ScannedReference
	Behaviors  []*ScannedReference
	Attributes []ScannedAttribute
	Properties []ScannedProperty
	Methods    []ScannedMethod
	Events     []ScannedEvent
	Demos      []Demo
	Slots      []Slot

	Description string
	Summary     string
	Privacy     string
	Pseudo      bool
	// Polymer marks elements declared through the polymer annotations
	// or the legacy Polymer() call; they answer to "polymer-element"
	// in addition to "element".
	Polymer bool

	Range       SourceRange
	Declaration *SourceRange

	warnings []Warning
}

func (s *ScannedElement) SourceRange() SourceRange { return s.Range }
func (s *ScannedElement) Warnings() []Warning      { return s.warnings }

func (s *ScannedElement) AddWarning(w Warning) {
	s.warnings = append(s.warnings, w)
}

func (s *ScannedElement) Resolve(d *Document) Feature {
	el := &Element{
		TagName:     s.TagName,
		ClassName:   s.ClassName,
		Attributes:  s.Attributes,
		Properties:  s.Properties,
		Methods:     s.Methods,
		Events:      s.Events,
		Demos:       s.Demos,
		Slots:       s.Slots,
		Description: s.Description,
		Summary:     s.Summary,
		Privacy:     s.Privacy,
		Pseudo:      s.Pseudo,
		Polymer:     s.Polymer,
		Range:       s.Range,
		Declaration: s.Declaration,
		warnings:    append([]Warning(nil), s.warnings...),
	}
	if s.SuperClass != nil {
		el.SuperClass = s.SuperClass.ResolveReference(d)
	}
	for _, m := range s.Mixins {
		el.Mixins = append(el.Mixins, m.ResolveReference(d))
	}
	for _, b := range s.Behaviors {
		el.Behaviors = append(el.Behaviors, b.ResolveReference(d))
	}
	return el
}

// Element is a resolved custom element.
type Element struct {
	TagName    string
	ClassName  string
	SuperClass *Reference
	Mixins     []*Reference
	Behaviors  []*Reference
	Attributes []ScannedAttribute
	Properties []ScannedProperty
	Methods    []ScannedMethod
	Events     []ScannedEvent
	Demos      []Demo
	Slots      []Slot

	Description string
	Summary     string
	Privacy     string
	Pseudo      bool
	Polymer     bool

	Range       SourceRange
	Declaration *SourceRange

	warnings []Warning
}

func (e *Element) Kinds() []string {
	kinds := []string{KindElement}
	if e.Polymer {
		kinds = append(kinds, KindPolymerElement)
	}
	if e.Pseudo {
		kinds = append(kinds, "pseudo-element")
	}
	return kinds
}

func (e *Element) Identifiers() []string {
	var ids []string
	if e.TagName != "" {
		ids = append(ids, e.TagName)
	}
	if e.ClassName != "" {
		ids = append(ids, e.ClassName)
	}
	return ids
}

func (e *Element) SourceRange() SourceRange { return e.Range }

func (e *Element) Warnings() []Warning {
	out := append([]Warning(nil), e.warnings...)
	if e.SuperClass != nil {
		out = append(out, e.SuperClass.Warnings()...)
	}
	for _, m := range e.Mixins {
		out = append(out, m.Warnings()...)
	}
	for _, b := range e.Behaviors {
		out = append(out, b.Warnings()...)
	}
	return out
}

func (e *Element) DeclarationRange() SourceRange {
	if e.Declaration != nil {
		return *e.Declaration
	}
	return e.Range
}
