package model

import "polygraph/internal/urlutil"

// ParsedDocument is the opaque output of a language parser: the AST
// stays behind the parser's own API, the analyzer core only needs the
// original text, the URL, and re-emission.
type ParsedDocument interface {
	URL() urlutil.ResolvedURL
	Contents() string
	// Language is the parser tag: "html", "js" or "css".
	Language() string
	IsInline() bool
	// LocationOffset is the position of this document's first
	// character inside its host document. Zero for top-level files.
	LocationOffset() Position
	// Stringify re-emits the source. Inline child documents are
	// spliced back in place of their original content.
	Stringify(opts StringifyOptions) string
}

type StringifyOptions struct {
	InlineDocuments []ParsedDocument
}
