package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"polygraph/internal/config"
)

var (
	configPath = flag.String("config", "./polygraph.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run a single analysis and exit")
	jsonOut    = flag.String("json", "", "Write the analysis format JSON to this file ('-' for stdout)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("polygraph v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./polygraph.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	// Positional arguments are entry URLs, package-relative.
	if flag.NArg() > 0 {
		cfg.Entries = flag.Args()
	}
	if len(cfg.Entries) == 0 {
		fmt.Fprintln(os.Stderr, "usage: polygraph [flags] <entry.html> [more entries...]")
		os.Exit(1)
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx := context.Background()

	errorCount, err := app.RunOnce(ctx, *jsonOut)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if *once {
		if errorCount > 0 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := app.Watch(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	select {}
}
