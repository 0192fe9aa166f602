package loader

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"polygraph/internal/urlutil"
)

// MemoryLoader serves documents from an in-memory map. Used in tests
// and as an unsaved-buffer overlay in front of the filesystem.
type MemoryLoader struct {
	mu    sync.RWMutex
	files map[urlutil.ResolvedURL]string
}

func NewMemoryLoader(files map[urlutil.ResolvedURL]string) *MemoryLoader {
	if files == nil {
		files = make(map[urlutil.ResolvedURL]string)
	}
	return &MemoryLoader{files: files}
}

func (l *MemoryLoader) Set(u urlutil.ResolvedURL, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files[u] = text
}

func (l *MemoryLoader) Delete(u urlutil.ResolvedURL) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.files, u)
}

func (l *MemoryLoader) CanLoad(u urlutil.ResolvedURL) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.files[u]
	return ok
}

func (l *MemoryLoader) Load(ctx context.Context, u urlutil.ResolvedURL) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	text, ok := l.files[u]
	if !ok {
		return "", fmt.Errorf("load %s: not found", u)
	}
	return text, nil
}

func (l *MemoryLoader) Completions(ctx context.Context, dir urlutil.ResolvedURL) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	prefix := strings.TrimSuffix(string(dir), "/") + "/"
	seen := make(map[string]bool)
	var out []string
	for u := range l.files {
		rest, ok := strings.CutPrefix(string(u), prefix)
		if !ok || rest == "" {
			continue
		}
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i+1]
		}
		if !seen[rest] {
			seen[rest] = true
			out = append(out, rest)
		}
	}
	sort.Strings(out)
	return out, nil
}
