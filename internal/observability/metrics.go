package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polygraph_parsing_seconds",
		Help:    "Time spent parsing a source document.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "polygraph_analysis_seconds",
		Help:    "Wall time of a full analysis pass.",
		Buckets: prometheus.DefBuckets,
	})

	DocumentsAnalyzed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polygraph_documents_total",
		Help: "Documents in the last completed analysis, inline children included.",
	})

	FeaturesResolved = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polygraph_features_total",
		Help: "Resolved features in the last completed analysis.",
	})

	ScanCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polygraph_scan_cache_hits_total",
		Help: "Scanned-document requests served from the cache.",
	})

	ScanCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polygraph_scan_cache_misses_total",
		Help: "Scanned-document requests that had to load and scan.",
	})

	WarningsBySeverity = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "polygraph_warnings_total",
		Help: "Warnings in the last completed analysis, by severity.",
	}, []string{"severity"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polygraph_watcher_events_total",
		Help: "File system events received by the watcher.",
	})

	LoadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polygraph_load_failures_total",
		Help: "Loads that failed and degraded to could-not-load warnings.",
	})
)
