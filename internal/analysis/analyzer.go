package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"polygraph/internal/loader"
	"polygraph/internal/model"
	"polygraph/internal/observability"
	"polygraph/internal/parser"
	"polygraph/internal/scanner"
	"polygraph/internal/urlutil"
)

// Options assemble an Analyzer. Resolver and Loader are required;
// Parsers and Scanners default to the standard registries.
type Options struct {
	Resolver *urlutil.PackageURLResolver
	Loader   loader.Loader
	Parsers  *parser.Registry
	Scanners *scanner.Registry
}

// Analyzer is the public entry point: it analyzes package-relative
// URLs into resolved, queryable Analyses and invalidates its caches
// when files change.
type Analyzer struct {
	resolver *urlutil.PackageURLResolver
	scans    *scanContext

	// analyzeMu serializes builds; the scan cache underneath is
	// shared and survives across them.
	analyzeMu sync.Mutex
}

func NewAnalyzer(opts Options) *Analyzer {
	parsers := opts.Parsers
	if parsers == nil {
		parsers = parser.NewRegistry(parser.LoadGrammars())
	}
	scanners := opts.Scanners
	if scanners == nil {
		scanners = scanner.NewRegistry(parsers)
	}
	return &Analyzer{
		resolver: opts.Resolver,
		scans:    newScanContext(opts.Resolver, opts.Loader, parsers, scanners),
	}
}

// Analyze loads, parses and scans the given entry points and
// everything they transitively import, then resolves the whole set
// into an Analysis. Load and parse problems surface as warnings, not
// errors; the error return is for unresolvable entry URLs and
// cancellation only.
func (a *Analyzer) Analyze(ctx context.Context, urls ...urlutil.PackageRelativeURL) (*model.Analysis, error) {
	a.analyzeMu.Lock()
	defer a.analyzeMu.Unlock()

	ctx, span := observability.Tracer.Start(ctx, "analyzer.Analyze")
	defer span.End()
	start := time.Now()
	defer func() {
		observability.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	entries := make([]urlutil.ResolvedURL, 0, len(urls))
	for _, u := range urls {
		resolved, ok := a.resolver.Resolve(u)
		if !ok {
			return nil, fmt.Errorf("analyze: cannot resolve entry url %q", u)
		}
		entries = append(entries, resolved)
	}

	// Phase 1: crawl. Everything reachable ends up in the scan cache.
	var wg sync.WaitGroup
	visited := newVisitSet()
	for _, entry := range entries {
		wg.Add(1)
		go func(u urlutil.ResolvedURL) {
			defer wg.Done()
			a.scans.crawl(ctx, u, &wg, visited)
		}(entry)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: allocate every document shell, then resolve. All
	// shells exist before any resolve step runs, so cyclic imports
	// find their targets in the arena.
	analysis := model.NewAnalysis(a.resolver.RootURL())
	allocated := make(map[urlutil.ResolvedURL]bool)
	for _, entry := range entries {
		a.allocate(ctx, analysis, entry, allocated)
	}

	_, resolveSpan := observability.Tracer.Start(ctx, "analyzer.resolve")
	analysis.ResolveAll()
	resolveSpan.End()

	a.reportMetrics(analysis)
	slog.Debug("analysis complete",
		"entries", len(entries),
		"documents", len(analysis.Documents()),
		"elapsed", time.Since(start))
	return analysis, nil
}

// allocate adds the scanned document at url plus its inline children,
// then walks its imports depth-first. Allocation order is
// deterministic: entries first, then discovery order over source-order
// imports.
func (a *Analyzer) allocate(ctx context.Context, analysis *model.Analysis, url urlutil.ResolvedURL, allocated map[urlutil.ResolvedURL]bool) {
	if allocated[url] {
		return
	}
	allocated[url] = true

	scanned, ok := a.scans.cached(url)
	if !ok {
		analysis.AddWarning(model.Warning{
			Code:     model.WarnCouldNotLoad,
			Message:  fmt.Sprintf("unable to load %s", url),
			Severity: model.SeverityError,
			Range:    model.SourceRange{File: url},
		})
		return
	}

	a.addWithInline(analysis, scanned, allocated)

	for _, imp := range allImports(scanned) {
		if imp.Resolved == "" {
			continue
		}
		a.allocate(ctx, analysis, imp.Resolved, allocated)
	}
}

func (a *Analyzer) addWithInline(analysis *model.Analysis, scanned *model.ScannedDocument, allocated map[urlutil.ResolvedURL]bool) {
	analysis.AddDocument(scanned)
	allocated[scanned.Document.URL()] = true
	for _, inline := range scanned.InlineDocuments() {
		a.addWithInline(analysis, inline, allocated)
	}
}

// allImports collects the imports of a scanned document and its inline
// children in source order.
func allImports(scanned *model.ScannedDocument) []*model.ScannedImport {
	out := scanned.Imports()
	for _, inline := range scanned.InlineDocuments() {
		out = append(out, allImports(inline)...)
	}
	return out
}

// FilesChanged invalidates the scanned-document cache for the given
// URLs and everything transitively importing them. The next Analyze
// reloads them.
func (a *Analyzer) FilesChanged(urls []urlutil.ResolvedURL) {
	a.scans.invalidate(urls)
}

// Resolver exposes the URL resolver the analyzer was built with.
func (a *Analyzer) Resolver() *urlutil.PackageURLResolver {
	return a.resolver
}

func (a *Analyzer) reportMetrics(analysis *model.Analysis) {
	docs := analysis.Documents()
	observability.DocumentsAnalyzed.Set(float64(len(docs)))

	features := 0
	for _, d := range docs {
		features += len(d.GetFeatures(model.QueryOptions{}))
	}
	observability.FeaturesResolved.Set(float64(features))

	counts := map[model.Severity]int{}
	for _, w := range analysis.GetWarnings() {
		counts[w.Severity]++
	}
	for _, sev := range []model.Severity{model.SeverityError, model.SeverityWarning, model.SeverityInfo} {
		observability.WarningsBySeverity.WithLabelValues(sev.String()).Set(float64(counts[sev]))
	}
}
