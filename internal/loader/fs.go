package loader

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"polygraph/internal/urlutil"
)

const defaultCacheSize = 256

// FSLoader serves file: URLs confined to a root directory. Paths that
// would escape the root, through dot segments or through a symbolic
// link, are rejected.
type FSLoader struct {
	root  string
	cache *lru.Cache[urlutil.ResolvedURL, string]
}

func NewFSLoader(root string, cacheSize int) (*FSLoader, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve loader root: %w", err)
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[urlutil.ResolvedURL, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &FSLoader{root: abs, cache: cache}, nil
}

func (l *FSLoader) CanLoad(u urlutil.ResolvedURL) bool {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return false
	}
	if parsed.Scheme != "file" && parsed.Scheme != "" {
		return false
	}
	if parsed.Host != "" && parsed.Host != "localhost" {
		return false
	}
	_, err = l.filePath(u)
	return err == nil
}

func (l *FSLoader) Load(ctx context.Context, u urlutil.ResolvedURL) (string, error) {
	if text, ok := l.cache.Get(u); ok {
		return text, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := l.filePath(u)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", u, err)
	}
	text := string(data)
	l.cache.Add(u, text)
	return text, nil
}

// Invalidate drops cached contents for the given URLs. Called when the
// analyzer is told files changed on disk.
func (l *FSLoader) Invalidate(urls []urlutil.ResolvedURL) {
	for _, u := range urls {
		l.cache.Remove(u)
	}
}

// Completions lists the entries of a directory URL, directories with a
// trailing slash, sorted.
func (l *FSLoader) Completions(ctx context.Context, dir urlutil.ResolvedURL) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.filePath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// filePath maps a file URL onto a path under the root, refusing
// escapes. Fragments identify inline documents and never reach the
// filesystem.
func (l *FSLoader) filePath(u urlutil.ResolvedURL) (string, error) {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", u, err)
	}
	if parsed.Fragment != "" {
		return "", fmt.Errorf("inline document %s has no file", u)
	}

	path := filepath.FromSlash(parsed.Path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.root, path)
	}
	path = filepath.Clean(path)

	if !l.contains(path) {
		return "", fmt.Errorf("path %s escapes root %s", path, l.root)
	}

	// A symlink may point anywhere; re-check the resolved location.
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		resolvedRoot, rootErr := filepath.EvalSymlinks(l.root)
		if rootErr != nil {
			resolvedRoot = l.root
		}
		if resolved != resolvedRoot && !strings.HasPrefix(resolved, resolvedRoot+string(filepath.Separator)) {
			return "", fmt.Errorf("path %s escapes root %s through a symlink", path, l.root)
		}
	}

	return path, nil
}

func (l *FSLoader) contains(path string) bool {
	return path == l.root || strings.HasPrefix(path, l.root+string(filepath.Separator))
}
