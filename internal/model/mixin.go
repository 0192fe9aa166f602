package model

// ScannedElementMixin is a class-factory mixin annotated
// @polymerMixin / @mixinFunction (the two spellings are synonyms
// everywhere in this analyzer).
type ScannedElementMixin struct {
	Name        string
	Description string
	Summary     string
	Privacy     string
	Properties  []ScannedProperty
	Methods     []ScannedMethod

	Range       SourceRange
	Declaration *SourceRange

	warnings []Warning
}

func (s *ScannedElementMixin) SourceRange() SourceRange { return s.Range }
func (s *ScannedElementMixin) Warnings() []Warning      { return s.warnings }

func (s *ScannedElementMixin) AddWarning(w Warning) {
	s.warnings = append(s.warnings, w)
}

func (s *ScannedElementMixin) Resolve(d *Document) Feature {
	return &ElementMixin{
		Name:        s.Name,
		Description: s.Description,
		Summary:     s.Summary,
		Privacy:     s.Privacy,
		Properties:  s.Properties,
		Methods:     s.Methods,
		Range:       s.Range,
		Declaration: s.Declaration,
		warnings:    append([]Warning(nil), s.warnings...),
	}
}

type ElementMixin struct {
	Name        string
	Description string
	Summary     string
	Privacy     string
	Properties  []ScannedProperty
	Methods     []ScannedMethod

	Range       SourceRange
	Declaration *SourceRange

	warnings []Warning
}

func (m *ElementMixin) Kinds() []string          { return []string{KindElementMixin} }
func (m *ElementMixin) Identifiers() []string    { return []string{m.Name} }
func (m *ElementMixin) SourceRange() SourceRange { return m.Range }
func (m *ElementMixin) Warnings() []Warning      { return m.warnings }

func (m *ElementMixin) DeclarationRange() SourceRange {
	if m.Declaration != nil {
		return *m.Declaration
	}
	return m.Range
}
