package model

import "fmt"

// ScannedReference weakly names a target feature by kind and
// identifier. Declaration, when the scanner could see the binding in
// scope, points at the statement the identifier was declared at and
// enables exact, shadow-proof resolution.
type ScannedReference struct {
	TargetKind  string
	Identifier  string
	Range       SourceRange
	Declaration *SourceRange
	// Optional references name platform globals (HTMLElement and
	// friends) that no analyzed document declares; failing to resolve
	// one is not a warning.
	Optional bool

	warnings []Warning
}

func NewScannedReference(kind, identifier string, r SourceRange) *ScannedReference {
	return &ScannedReference{TargetKind: kind, Identifier: identifier, Range: r}
}

func (s *ScannedReference) SourceRange() SourceRange { return s.Range }
func (s *ScannedReference) Warnings() []Warning      { return s.warnings }

// Resolve maps the scanned reference onto a concrete feature.
//
// Scope-based resolution runs first: when the declaration statement is
// known, features of the wanted kind declared at exactly that
// statement win. A unique match short-circuits; anything else falls
// through to the global lookup over the document's transitive feature
// set. Missing targets and ambiguous targets degrade to warnings on
// the returned Reference, never to an error.
func (s *ScannedReference) Resolve(d *Document) Feature {
	return s.ResolveReference(d)
}

// ResolveReference is Resolve with a concrete return type, for callers
// that embed references inside larger features.
func (s *ScannedReference) ResolveReference(d *Document) *Reference {
	ref := &Reference{
		Identifier: s.Identifier,
		Range:      s.Range,
		warnings:   append([]Warning(nil), s.warnings...),
	}

	if s.Declaration != nil {
		candidates := d.GetFeatures(QueryOptions{
			Kind:      s.TargetKind,
			Statement: s.Declaration,
		})
		if len(candidates) == 1 {
			ref.Feature = candidates[0]
			return ref
		}
		// Zero or several: fall through to the global lookup.
	}

	candidates := d.GetFeatures(QueryOptions{
		Kind:             s.TargetKind,
		ID:               s.Identifier,
		Imported:         true,
		ExternalPackages: true,
	})

	switch len(candidates) {
	case 0:
		if s.Optional {
			break
		}
		ref.warnings = append(ref.warnings, Warning{
			Code:     WarnCouldNotResolve,
			Message:  s.unresolvedMessage(),
			Severity: SeverityWarning,
			Range:    s.Range,
			Parsed:   d.Parsed(),
		})
	case 1:
		ref.Feature = candidates[0]
	default:
		// Deterministic pick: the traversal visits local features
		// before imported ones, depth-first, siblings in source
		// order, so the first candidate is stable.
		ref.Feature = candidates[0]
		ref.warnings = append(ref.warnings, Warning{
			Code:     WarnMultipleGlobals,
			Message:  fmt.Sprintf("multiple global declarations of %s %q", s.TargetKind, s.Identifier),
			Severity: SeverityWarning,
			Range:    s.Range,
			Parsed:   d.Parsed(),
		})
	}
	return ref
}

func (s *ScannedReference) unresolvedMessage() string {
	msg := fmt.Sprintf("could not resolve reference to %s %q", s.TargetKind, s.Identifier)
	if s.TargetKind == KindBehavior {
		msg += ". Is it annotated with @polymerBehavior?"
	}
	return msg
}

// Reference is a resolved pointer to another feature. Feature is nil
// when resolution failed; the warnings say why.
type Reference struct {
	Identifier string
	Range      SourceRange
	Feature    Feature

	warnings []Warning
}

func (r *Reference) Kinds() []string          { return []string{KindReference} }
func (r *Reference) Identifiers() []string    { return []string{r.Identifier} }
func (r *Reference) SourceRange() SourceRange { return r.Range }
func (r *Reference) Warnings() []Warning      { return r.warnings }
