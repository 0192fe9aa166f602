package model

// ScannedBehavior is a legacy polymer behavior: an object literal
// annotated @polymerBehavior, looked up by name from elements'
// behaviors arrays.
type ScannedBehavior struct {
	Name        string
	Description string
	Summary     string
	Properties  []ScannedProperty
	Methods     []ScannedMethod

	Range       SourceRange
	Declaration *SourceRange

	warnings []Warning
}

func (s *ScannedBehavior) SourceRange() SourceRange { return s.Range }
func (s *ScannedBehavior) Warnings() []Warning      { return s.warnings }

func (s *ScannedBehavior) AddWarning(w Warning) {
	s.warnings = append(s.warnings, w)
}

func (s *ScannedBehavior) Resolve(d *Document) Feature {
	return &Behavior{
		Name:        s.Name,
		Description: s.Description,
		Summary:     s.Summary,
		Properties:  s.Properties,
		Methods:     s.Methods,
		Range:       s.Range,
		Declaration: s.Declaration,
		warnings:    append([]Warning(nil), s.warnings...),
	}
}

type Behavior struct {
	Name        string
	Description string
	Summary     string
	Properties  []ScannedProperty
	Methods     []ScannedMethod

	Range       SourceRange
	Declaration *SourceRange

	warnings []Warning
}

func (b *Behavior) Kinds() []string          { return []string{KindBehavior} }
func (b *Behavior) Identifiers() []string    { return []string{b.Name} }
func (b *Behavior) SourceRange() SourceRange { return b.Range }
func (b *Behavior) Warnings() []Warning      { return b.warnings }

func (b *Behavior) DeclarationRange() SourceRange {
	if b.Declaration != nil {
		return *b.Declaration
	}
	return b.Range
}
