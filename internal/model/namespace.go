package model

// ScannedNamespace is an object-literal assignment annotated
// @namespace, or an object-literal assignment whose target is rooted
// at an already-known namespace.
type ScannedNamespace struct {
	Name        string
	Description string
	Summary     string

	Range       SourceRange
	Declaration *SourceRange

	warnings []Warning
}

func (s *ScannedNamespace) SourceRange() SourceRange { return s.Range }
func (s *ScannedNamespace) Warnings() []Warning      { return s.warnings }

func (s *ScannedNamespace) Resolve(d *Document) Feature {
	return &Namespace{
		Name:        s.Name,
		Description: s.Description,
		Summary:     s.Summary,
		Range:       s.Range,
		Declaration: s.Declaration,
		warnings:    append([]Warning(nil), s.warnings...),
	}
}

type Namespace struct {
	Name        string
	Description string
	Summary     string

	Range       SourceRange
	Declaration *SourceRange

	warnings []Warning
}

func (n *Namespace) Kinds() []string          { return []string{KindNamespace} }
func (n *Namespace) Identifiers() []string    { return []string{n.Name} }
func (n *Namespace) SourceRange() SourceRange { return n.Range }
func (n *Namespace) Warnings() []Warning      { return n.warnings }

func (n *Namespace) DeclarationRange() SourceRange {
	if n.Declaration != nil {
		return *n.Declaration
	}
	return n.Range
}
