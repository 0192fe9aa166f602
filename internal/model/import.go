package model

import (
	"fmt"

	"polygraph/internal/urlutil"
)

// Import type tags.
const (
	ImportHTML   = "html-import"
	ImportScript = "html-script"
	ImportStyle  = "html-style"
)

// ScannedImport names another document by the URL it was authored
// with. The analysis context fills Resolved once the URL resolver has
// run; an empty Resolved means the URL did not resolve. LoadError is
// set when the target resolved but could not be fetched.
type ScannedImport struct {
	Type     string
	URL      urlutil.FileRelativeURL
	Resolved urlutil.ResolvedURL
	Range    SourceRange
	URLRange SourceRange
	Lazy     bool

	LoadError error
	warnings  []Warning
}

func (si *ScannedImport) SourceRange() SourceRange { return si.Range }
func (si *ScannedImport) Warnings() []Warning      { return si.warnings }

func (si *ScannedImport) AddWarning(w Warning) {
	si.warnings = append(si.warnings, w)
}

// Resolve looks the target document up in the per-analysis arena. The
// target is always allocated by the time any resolve step runs, even
// if its own resolution has not finished. The target is resolved in
// place; re-entering a document through an import cycle stops at its
// begun flag, so cyclic imports link up. A missing or unloadable target still yields an
// Import feature, plus a could-not-load warning.
func (si *ScannedImport) Resolve(d *Document) Feature {
	imp := &Import{
		Type:     si.Type,
		URL:      si.URL,
		Resolved: si.Resolved,
		Range:    si.Range,
		URLRange: si.URLRange,
		Lazy:     si.Lazy,
		warnings: append([]Warning(nil), si.warnings...),
	}

	if si.Resolved == "" {
		return imp
	}

	target, ok := d.analysis.GetDocument(si.Resolved)
	if !ok {
		message := fmt.Sprintf("unable to load import %s", si.URL)
		if si.LoadError != nil {
			message = fmt.Sprintf("unable to load import %s: %v", si.URL, si.LoadError)
		}
		imp.warnings = append(imp.warnings, Warning{
			Code:     WarnCouldNotLoad,
			Message:  message,
			Severity: SeverityError,
			Range:    si.URLRange,
			Parsed:   d.Parsed(),
		})
		return imp
	}

	target.resolve()
	imp.Document = target
	return imp
}

// Import is a resolved link to another document in the same analysis.
// Document is nil when the target could not be loaded.
type Import struct {
	Type     string
	URL      urlutil.FileRelativeURL
	Resolved urlutil.ResolvedURL
	Range    SourceRange
	URLRange SourceRange
	Lazy     bool
	Document *Document

	warnings []Warning
}

func (i *Import) Kinds() []string        { return []string{KindImport, i.Type} }
func (i *Import) Identifiers() []string  { return []string{string(i.URL)} }
func (i *Import) SourceRange() SourceRange { return i.Range }
func (i *Import) Warnings() []Warning    { return i.warnings }
