// Package loader fetches source text for resolved URLs. Loaders never
// parse; a load failure is reported to the caller and becomes a
// warning on the importing document, not an aborted analysis.
package loader

import (
	"context"

	"polygraph/internal/urlutil"
)

type Loader interface {
	// CanLoad reports whether this loader handles the URL's scheme
	// and location.
	CanLoad(url urlutil.ResolvedURL) bool
	// Load fetches the document text.
	Load(ctx context.Context, url urlutil.ResolvedURL) (string, error)
}

// Completer is implemented by loaders that can enumerate the entries
// of a directory URL, for editor-style completions.
type Completer interface {
	Completions(ctx context.Context, dir urlutil.ResolvedURL) ([]string, error)
}

// Multi tries each loader in order and uses the first that accepts
// the URL.
type Multi []Loader

func (m Multi) CanLoad(url urlutil.ResolvedURL) bool {
	for _, l := range m {
		if l.CanLoad(url) {
			return true
		}
	}
	return false
}

func (m Multi) Load(ctx context.Context, url urlutil.ResolvedURL) (string, error) {
	for _, l := range m {
		if l.CanLoad(url) {
			return l.Load(ctx, url)
		}
	}
	return "", &UnloadableError{URL: url}
}

type UnloadableError struct {
	URL urlutil.ResolvedURL
}

func (e *UnloadableError) Error() string {
	return "no loader accepts " + string(e.URL)
}
