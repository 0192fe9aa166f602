package parser

import (
	"path"
	"strings"

	"polygraph/internal/model"
	"polygraph/internal/urlutil"
)

// Options configure a single parse.
type Options struct {
	// Inline marks a document embedded in another (script or style
	// without src/href).
	Inline bool
	// Offset is the position of the inline content within its host.
	Offset model.Position
}

// Registry dispatches source text to a language parser by file
// extension or by the declared type of an inline script. Parsers do no
// I/O; a failed parse yields a synthetic empty document plus a
// parse-error warning, never an error.
type Registry struct {
	grammars     *Grammars
	byExtension  map[string]string
	byScriptType map[string]string
}

func NewRegistry(grammars *Grammars) *Registry {
	return &Registry{
		grammars: grammars,
		byExtension: map[string]string{
			".html": "html",
			".htm":  "html",
			".js":   "js",
			".mjs":  "js",
			".css":  "css",
		},
		byScriptType: map[string]string{
			"":                       "js",
			"text/javascript":        "js",
			"application/javascript": "js",
			"module":                 "js",
		},
	}
}

// LanguageForPath returns the language tag a URL's extension maps to.
func (r *Registry) LanguageForPath(u urlutil.ResolvedURL) (string, bool) {
	p := string(u)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	lang, ok := r.byExtension[strings.ToLower(path.Ext(p))]
	return lang, ok
}

// LanguageForScriptType returns the language for an inline <script
// type=...> attribute value.
func (r *Registry) LanguageForScriptType(scriptType string) (string, bool) {
	lang, ok := r.byScriptType[strings.ToLower(strings.TrimSpace(scriptType))]
	return lang, ok
}

// Parse parses text as the given language.
func (r *Registry) Parse(language, text string, url urlutil.ResolvedURL, opts Options) (model.ParsedDocument, []model.Warning) {
	switch language {
	case "html":
		return parseHTML(r.grammars, text, url, opts)
	case "js":
		return parseJS(r.grammars, text, url, opts)
	case "css":
		return parseCSS(r.grammars, text, url, opts)
	}
	doc := &JSDocument{document: newDocument(url, "", language, opts, nil)}
	return doc, []model.Warning{{
		Code:     model.WarnParseError,
		Message:  "no parser registered for language " + language,
		Severity: model.SeverityError,
		Range:    model.SourceRange{File: url},
		Parsed:   doc,
	}}
}

// ParseExpression parses a databinding expression body in script (not
// module) mode with a loose, expression-level entry point: the source
// is wrapped so the parser sees a plain expression statement.
func (r *Registry) ParseExpression(text string, url urlutil.ResolvedURL) (*JSDocument, bool) {
	doc, _ := parseJS(r.grammars, "0||("+text+")", url, Options{Inline: true})
	return doc, !doc.HasSyntaxErrors()
}
