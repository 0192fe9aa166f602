package urlutil

import (
	"net/url"
	"path"
	"strings"
)

const DefaultComponentDir = "bower_components"

// PackageURLResolver turns authored import URLs into resolved URLs,
// anchored at a package root on disk. Imports that reach one level
// above the package root are redirected into the sibling component
// directory; anything further up is left outside the package.
type PackageURLResolver struct {
	// Host, when non-empty, is an authority treated as belonging to
	// this package. URLs on any other host pass through untouched.
	Host string
	// PackageDir is the absolute filesystem path of the package root.
	PackageDir string
	// ComponentDir is the directory sibling imports are redirected
	// into. Defaults to bower_components.
	ComponentDir string
}

func NewPackageURLResolver(packageDir string) *PackageURLResolver {
	return &PackageURLResolver{
		PackageDir:   packageDir,
		ComponentDir: DefaultComponentDir,
	}
}

func (r *PackageURLResolver) componentDir() string {
	if r.ComponentDir == "" {
		return DefaultComponentDir
	}
	return r.ComponentDir
}

func (r *PackageURLResolver) rootPath() string {
	p := path.Clean(strings.TrimSuffix(r.PackageDir, "/"))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// RootURL is the resolved URL of the package root directory itself.
func (r *PackageURLResolver) RootURL() ResolvedURL {
	u := url.URL{Scheme: "file", Path: r.rootPath() + "/"}
	return ResolvedURL(u.String())
}

// Resolve resolves a package-relative URL against the package root.
// The second return is false when the URL cannot be parsed.
func (r *PackageURLResolver) Resolve(u PackageRelativeURL) (ResolvedURL, bool) {
	return r.ResolveFrom(r.RootURL(), FileRelativeURL(u))
}

// ResolveFrom resolves a file-relative URL against the document it was
// authored in.
func (r *PackageURLResolver) ResolveFrom(base ResolvedURL, u FileRelativeURL) (ResolvedURL, bool) {
	ref, err := url.Parse(string(u))
	if err != nil {
		return "", false
	}

	// URLs that carry their own scheme or a foreign authority are
	// already resolved; pass them through unchanged.
	if ref.IsAbs() || (ref.Host != "" && ref.Host != r.Host) {
		return ResolvedURL(ref.String()), true
	}

	baseURL, err := url.Parse(string(base))
	if err != nil {
		return "", false
	}

	// A leading slash means package-root absolute, not host absolute.
	if strings.HasPrefix(ref.Path, "/") {
		ref.Path = r.rootPath() + ref.Path
	}

	joined := baseURL.ResolveReference(ref)
	if joined.Scheme != "file" && (r.Host == "" || joined.Host != r.Host) {
		return ResolvedURL(joined.String()), true
	}

	joined.Path = r.redirectEscapes(joined.Path)
	return ResolvedURL(joined.String()), true
}

// redirectEscapes keeps paths inside the package as-is, maps paths one
// level above the root into the component directory, and leaves deeper
// escapes alone.
func (r *PackageURLResolver) redirectEscapes(p string) string {
	root := r.rootPath()
	rel := relPath(root, path.Clean(p))
	if rel == "." || !strings.HasPrefix(rel, "../") {
		return p
	}
	up := rel[len("../"):]
	if strings.HasPrefix(up, "../") || up == ".." {
		return p
	}
	return root + "/" + r.componentDir() + "/" + up
}

// Relative computes the file-relative URL that, resolved against from,
// yields to. URLs on a different scheme or authority are returned
// unchanged.
func (r *PackageURLResolver) Relative(from, to ResolvedURL) FileRelativeURL {
	fromURL, err := url.Parse(string(from))
	if err != nil {
		return FileRelativeURL(to)
	}
	toURL, err := url.Parse(string(to))
	if err != nil {
		return FileRelativeURL(to)
	}
	if fromURL.Scheme != toURL.Scheme || fromURL.Host != toURL.Host ||
		fromURL.User.String() != toURL.User.String() {
		return FileRelativeURL(to)
	}

	// The sentinel suffix keeps path.Clean from eating a trailing
	// slash that is meaningful to the caller.
	const sentinel = "_%_"
	toPath := toURL.Path
	trailing := strings.HasSuffix(toPath, "/")
	if trailing {
		toPath += sentinel
	}

	rel := relPath(path.Dir(fromURL.Path), path.Clean(toPath))
	if trailing {
		rel = strings.TrimSuffix(rel, sentinel)
	}

	out := url.URL{Path: rel, RawQuery: toURL.RawQuery, Fragment: toURL.Fragment}
	return FileRelativeURL(out.String())
}

// relPath is a POSIX path-relative computation over already-clean
// absolute paths. Pure string transform, no filesystem access.
func relPath(from, to string) string {
	if from == to {
		return "."
	}
	fromParts := splitNonEmpty(from)
	toParts := splitNonEmpty(to)

	common := 0
	for common < len(fromParts) && common < len(toParts) && fromParts[common] == toParts[common] {
		common++
	}

	var parts []string
	for i := common; i < len(fromParts); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitNonEmpty(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
