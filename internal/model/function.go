package model

// ScannedFunction is a free function claimed into a namespace with
// @memberof. Mixin factories (@mixinFunction) are scanned separately
// and never double as plain functions.
type ScannedFunction struct {
	// Name is the namespaced name, e.g. "Polymer.dom.flush".
	Name        string
	Description string
	Summary     string
	Privacy     string
	Params      []Parameter
	Return      string

	Range       SourceRange
	Declaration *SourceRange

	warnings []Warning
}

func (s *ScannedFunction) SourceRange() SourceRange { return s.Range }
func (s *ScannedFunction) Warnings() []Warning      { return s.warnings }

func (s *ScannedFunction) Resolve(d *Document) Feature {
	return &Function{
		Name:        s.Name,
		Description: s.Description,
		Summary:     s.Summary,
		Privacy:     s.Privacy,
		Params:      s.Params,
		Return:      s.Return,
		Range:       s.Range,
		Declaration: s.Declaration,
		warnings:    append([]Warning(nil), s.warnings...),
	}
}

type Function struct {
	Name        string
	Description string
	Summary     string
	Privacy     string
	Params      []Parameter
	Return      string

	Range       SourceRange
	Declaration *SourceRange

	warnings []Warning
}

func (f *Function) Kinds() []string          { return []string{KindFunction} }
func (f *Function) Identifiers() []string    { return []string{f.Name} }
func (f *Function) SourceRange() SourceRange { return f.Range }
func (f *Function) Warnings() []Warning      { return f.warnings }

func (f *Function) DeclarationRange() SourceRange {
	if f.Declaration != nil {
		return *f.Declaration
	}
	return f.Range
}
