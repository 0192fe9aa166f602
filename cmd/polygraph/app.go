package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"polygraph/internal/analysis"
	"polygraph/internal/config"
	"polygraph/internal/export"
	"polygraph/internal/history"
	"polygraph/internal/loader"
	"polygraph/internal/model"
	"polygraph/internal/observability"
	"polygraph/internal/printer"
	"polygraph/internal/urlutil"
	"polygraph/internal/watcher"
)

type App struct {
	cfg      *config.Config
	analyzer *analysis.Analyzer
	store    *history.Store
	watch    *watcher.Watcher

	shutdownTracing func(context.Context) error

	// sources holds the last analysis's document texts for snippet
	// rendering.
	sources map[urlutil.ResolvedURL]string
}

func NewApp(cfg *config.Config) (*App, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	resolver := urlutil.NewPackageURLResolver(filepath.ToSlash(root))
	resolver.ComponentDir = cfg.ComponentDir

	fs, err := loader.NewFSLoader(root, cfg.Loader.CacheSize)
	if err != nil {
		return nil, err
	}
	loaders := loader.Multi{fs}
	if cfg.Loader.Remote {
		loaders = append(loaders, loader.NewHTTPLoader(cfg.Loader.RateLimit, cfg.Loader.Burst))
	}

	app := &App{
		cfg: cfg,
		analyzer: analysis.NewAnalyzer(analysis.Options{
			Resolver: resolver,
			Loader:   loaders,
		}),
		sources: make(map[urlutil.ResolvedURL]string),
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		app.store = store
	}

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		app.serveMetrics(addr)
	}
	if endpoint := cfg.Observability.TraceEndpoint; endpoint != "" {
		shutdown, err := observability.SetupTracing(context.Background(), endpoint)
		if err != nil {
			return nil, err
		}
		app.shutdownTracing = shutdown
	}

	return app, nil
}

func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.watch != nil {
		a.watch.Close()
	}
	if a.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.shutdownTracing(ctx)
	}
}

// RunOnce analyzes the configured entries, prints warnings, optionally
// writes the export JSON, and records a history row. Returns the
// number of error-severity warnings.
func (a *App) RunOnce(ctx context.Context, jsonOut string) (int, error) {
	start := time.Now()

	entries := make([]urlutil.PackageRelativeURL, 0, len(a.cfg.Entries))
	for _, e := range a.cfg.Entries {
		entries = append(entries, urlutil.PackageRelativeURL(e))
	}

	result, err := a.analyzer.Analyze(ctx, entries...)
	if err != nil {
		return 0, err
	}

	a.sources = make(map[urlutil.ResolvedURL]string)
	featureCount := 0
	for _, doc := range result.Documents() {
		if !doc.Scanned.IsInline() {
			a.sources[doc.URL()] = doc.Parsed().Contents()
		}
		featureCount += len(doc.GetFeatures(model.QueryOptions{}))
	}

	warnings := result.GetWarnings()
	p := printer.New(os.Stderr, func(u urlutil.ResolvedURL) (string, bool) {
		text, ok := a.sources[u]
		return text, ok
	})
	p.PrintAll(warnings)

	counts := map[model.Severity]int{}
	for _, w := range warnings {
		counts[w.Severity]++
	}
	slog.Info("analysis finished",
		"documents", len(result.Documents()),
		"warnings", len(warnings),
		"errors", counts[model.SeverityError],
		"elapsed", time.Since(start))

	if jsonOut != "" {
		if err := a.writeExport(result, jsonOut); err != nil {
			return 0, err
		}
	}

	if a.store != nil {
		_, err := a.store.Record(history.Run{
			EntryURLs:     a.cfg.Entries,
			DocumentCount: len(result.Documents()),
			FeatureCount:  featureCount,
			ErrorCount:    counts[model.SeverityError],
			WarningCount:  counts[model.SeverityWarning],
			InfoCount:     counts[model.SeverityInfo],
			Duration:      time.Since(start),
		})
		if err != nil {
			slog.Warn("failed to record history", "error", err)
		}
	}

	return counts[model.SeverityError], nil
}

func (a *App) writeExport(result *model.Analysis, out string) error {
	serialized := export.Serialize(result)
	data, err := export.Marshal(serialized)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	if err := export.Validate(data); err != nil {
		return err
	}
	if out == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(out, append(data, '\n'), 0644)
}

// Watch re-analyzes on file changes, invalidating the cache for
// changed URLs first.
func (a *App) Watch(ctx context.Context) error {
	w, err := watcher.New(a.cfg.Watch.Debounce, a.cfg.Exclude.Dirs, func(paths []string) {
		urls := make([]urlutil.ResolvedURL, 0, len(paths))
		for _, p := range paths {
			abs, err := filepath.Abs(p)
			if err != nil {
				continue
			}
			u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
			urls = append(urls, urlutil.ResolvedURL(u.String()))
		}
		a.analyzer.FilesChanged(urls)

		if _, err := a.RunOnce(ctx, ""); err != nil {
			slog.Error("re-analysis failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	a.watch = w
	return w.Watch(a.cfg.Root)
}

func (a *App) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"up"}`)
	})

	slog.Info("observability server starting", "addr", addr)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()
}
