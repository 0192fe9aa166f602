// Package analysis orchestrates the pipeline: load, parse, scan,
// crawl imports, then resolve everything reachable into a queryable
// document graph.
package analysis

import (
	"context"
	"strings"
	"sync"
	"time"

	"polygraph/internal/loader"
	"polygraph/internal/model"
	"polygraph/internal/observability"
	"polygraph/internal/parser"
	"polygraph/internal/scanner"
	"polygraph/internal/urlutil"
)

// scanRequest is an in-flight scan future: concurrent requests for the
// same URL share one computation and wait on done.
type scanRequest struct {
	done   chan struct{}
	result scanResult
}

type scanResult struct {
	doc *model.ScannedDocument
	err error
}

// scanContext holds the mutable scan state of an analyzer: the completed
// scanned-document cache, the in-flight map that dedupes concurrent
// loads, and the importer relation from the last successful build used
// for transitive invalidation.
type scanContext struct {
	resolver *urlutil.PackageURLResolver
	loader   loader.Loader
	parsers  *parser.Registry
	scanners *scanner.Registry

	mu        sync.Mutex
	cache     map[urlutil.ResolvedURL]*model.ScannedDocument
	inFlight  map[urlutil.ResolvedURL]*scanRequest
	importers map[urlutil.ResolvedURL]map[urlutil.ResolvedURL]bool
}

func newScanContext(resolver *urlutil.PackageURLResolver, ld loader.Loader, parsers *parser.Registry, scanners *scanner.Registry) *scanContext {
	return &scanContext{
		resolver:  resolver,
		loader:    ld,
		parsers:   parsers,
		scanners:  scanners,
		cache:     make(map[urlutil.ResolvedURL]*model.ScannedDocument),
		inFlight:  make(map[urlutil.ResolvedURL]*scanRequest),
		importers: make(map[urlutil.ResolvedURL]map[urlutil.ResolvedURL]bool),
	}
}

// scan returns the one ScannedDocument for a URL, loading and scanning
// it if nobody has yet. Parsing and scanning run to completion without
// suspending; the only waits are the load itself and joining another
// request already in flight.
func (c *scanContext) scan(ctx context.Context, url urlutil.ResolvedURL) (*model.ScannedDocument, error) {
	c.mu.Lock()
	if doc, ok := c.cache[url]; ok {
		c.mu.Unlock()
		observability.ScanCacheHits.Inc()
		return doc, nil
	}
	if req, ok := c.inFlight[url]; ok {
		c.mu.Unlock()
		select {
		case <-req.done:
			return req.result.doc, req.result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	req := &scanRequest{done: make(chan struct{})}
	c.inFlight[url] = req
	c.mu.Unlock()
	observability.ScanCacheMisses.Inc()

	doc, err := c.loadAndScan(ctx, url)
	req.result = scanResult{doc: doc, err: err}
	close(req.done)

	c.mu.Lock()
	// A FilesChanged between start and finish dropped our request;
	// the result is stale and must not enter the cache.
	if current, ok := c.inFlight[url]; ok && current == req {
		delete(c.inFlight, url)
		if err == nil {
			c.cache[url] = doc
		}
	}
	c.mu.Unlock()

	return doc, err
}

func (c *scanContext) loadAndScan(ctx context.Context, url urlutil.ResolvedURL) (*model.ScannedDocument, error) {
	text, err := c.loader.Load(ctx, url)
	if err != nil {
		observability.LoadFailuresTotal.Inc()
		return nil, err
	}

	language, ok := c.parsers.LanguageForPath(url)
	if !ok {
		language = "html"
	}

	start := time.Now()
	parsed, parseWarnings := c.parsers.Parse(language, text, url, parser.Options{})
	observability.ParsingDuration.WithLabelValues(language).Observe(time.Since(start).Seconds())

	scanned := c.scanners.Scan(parsed)
	scanned.Warnings = append(parseWarnings, scanned.Warnings...)

	closeTrees(scanned)
	return scanned, nil
}

// visitSet guards one crawl against import cycles.
type visitSet struct {
	mu sync.Mutex
	m  map[urlutil.ResolvedURL]bool
}

func newVisitSet() *visitSet {
	return &visitSet{m: make(map[urlutil.ResolvedURL]bool)}
}

func (v *visitSet) visit(u urlutil.ResolvedURL) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.m[u] {
		return false
	}
	v.m[u] = true
	return true
}

// crawl scans a document and every document it transitively imports.
// Import URLs that resolve are scheduled concurrently; a load failure
// is recorded on the importing ScannedImport and the crawl goes on.
func (c *scanContext) crawl(ctx context.Context, url urlutil.ResolvedURL, wg *sync.WaitGroup, visited *visitSet) {
	doc, err := c.scan(ctx, url)
	if err != nil {
		return
	}
	c.crawlImports(ctx, doc, wg, visited)
}

func (c *scanContext) crawlImports(ctx context.Context, doc *model.ScannedDocument, wg *sync.WaitGroup, visited *visitSet) {
	if !visited.visit(doc.Document.URL()) {
		return
	}

	base := baseURL(doc.Document.URL())
	for _, imp := range doc.Imports() {
		resolved, ok := c.resolver.ResolveFrom(base, imp.URL)
		if !ok {
			continue
		}
		imp.Resolved = resolved
		c.recordImporter(resolved, base)

		wg.Add(1)
		go func(imp *model.ScannedImport, target urlutil.ResolvedURL) {
			defer wg.Done()
			child, err := c.scan(ctx, target)
			if err != nil {
				imp.LoadError = err
				return
			}
			c.crawlImports(ctx, child, wg, visited)
		}(imp, resolved)
	}

	for _, inline := range doc.InlineDocuments() {
		c.crawlImports(ctx, inline, wg, visited)
	}
}

func (c *scanContext) recordImporter(target, source urlutil.ResolvedURL) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set := c.importers[target]
	if set == nil {
		set = make(map[urlutil.ResolvedURL]bool)
		c.importers[target] = set
	}
	set[source] = true
}

// invalidate drops the cache entries for the given URLs and for every
// URL transitively importing them, per the importer relation of the
// last build.
func (c *scanContext) invalidate(urls []urlutil.ResolvedURL) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dirty := make(map[urlutil.ResolvedURL]bool)
	queue := append([]urlutil.ResolvedURL(nil), urls...)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if dirty[u] {
			continue
		}
		dirty[u] = true
		for importer := range c.importers[u] {
			if !dirty[importer] {
				queue = append(queue, importer)
			}
		}
	}

	for u := range dirty {
		delete(c.cache, u)
		delete(c.inFlight, u)
	}

	if inv, ok := c.loader.(interface {
		Invalidate([]urlutil.ResolvedURL)
	}); ok {
		all := make([]urlutil.ResolvedURL, 0, len(dirty))
		for u := range dirty {
			all = append(all, u)
		}
		inv.Invalidate(all)
	}
}

func (c *scanContext) cached(url urlutil.ResolvedURL) (*model.ScannedDocument, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.cache[url]
	return doc, ok
}

// baseURL strips the inline fragment so imports resolve against the
// host file.
func baseURL(u urlutil.ResolvedURL) urlutil.ResolvedURL {
	if i := strings.IndexByte(string(u), '#'); i >= 0 {
		return u[:i]
	}
	return u
}

type treeCloser interface{ Close() }

// closeTrees frees the tree-sitter trees of a scanned document and its
// inline children; scanned features never hold node pointers, only
// copied ranges and text.
func closeTrees(doc *model.ScannedDocument) {
	if c, ok := doc.Document.(treeCloser); ok {
		c.Close()
	}
	for _, inline := range doc.InlineDocuments() {
		closeTrees(inline)
	}
}
