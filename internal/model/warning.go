package model

import "fmt"

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Stable warning codes. New codes may be added; existing codes keep
// their meaning.
const (
	WarnParseError             = "parse-error"
	WarnCouldNotLoad           = "could-not-load"
	WarnCouldNotResolve        = "could-not-resolve-reference"
	WarnMultipleGlobals        = "multiple-global-declarations"
	WarnExtendsAnnotationNoID  = "class-extends-annotation-no-id"
	WarnInvalidPolymerCall     = "invalid-polymer-call"
	WarnDynamicNamespaceNoName = "dynamic-namespace-no-name"
	WarnInvalidDatabinding     = "invalid-databinding"
	WarnInvalidAttribute       = "invalid-attribute"
)

// Warning is a structured diagnostic. Analysis problems are always
// warnings, never errors that escape the analyzer; a malformed feature
// is still produced alongside its warnings.
type Warning struct {
	Code     string
	Message  string
	Severity Severity
	Range    SourceRange
	// Parsed is the document the range points into, kept so a printer
	// can underline the offending source.
	Parsed ParsedDocument
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d:%d [%s] %s: %s",
		w.Range.File, w.Range.Start.Line, w.Range.Start.Column,
		w.Severity, w.Code, w.Message)
}
