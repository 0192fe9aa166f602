// Package urlutil models the three URL flavors the analyzer moves
// between and implements package-aware resolution between them.
package urlutil

// PackageRelativeURL is a URL string exactly as authored in an import,
// e.g. "./foo.html" or "polymer/polymer.html". It is only meaningful
// relative to the package root.
type PackageRelativeURL string

// FileRelativeURL is a URL relative to a specific resolved document.
type FileRelativeURL string

// ResolvedURL is an absolute URL (file://, http://, ...) that can be
// handed to a Loader. The three types are distinct on purpose: the
// compiler keeps callers from mixing them up.
type ResolvedURL string
