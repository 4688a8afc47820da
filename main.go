// Package main provides the mirrorwalk CLI entrypoint. It crawls every
// same-host page reachable from the original root URL, mirrors each
// discovered path onto the target host, and writes a CSV status comparison
// to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mirrorwalk/cache"
	"mirrorwalk/compare"
	"mirrorwalk/config"
	"mirrorwalk/crawler"
	"mirrorwalk/tui"
	"mirrorwalk/urlutil"
)

func main() {
	os.Exit(run())
}

func run() int {
	defaults := config.Default()

	configPath := flag.String("config", "", "path to YAML config file")
	cacheDir := flag.String("cache-dir", "", "page cache directory (default "+defaults.CacheDir+")")
	concurrency := flag.Int("concurrency", 0, "number of concurrent fetch workers")
	timeout := flag.Duration("timeout", 0, "per-request timeout")
	userAgent := flag.String("user-agent", "", "user agent string")
	debug := flag.Bool("debug", false, "enable debug logging")
	quiet := flag.Bool("quiet", false, "disable the progress UI")

	flag.Parse()

	if flag.NArg() != 2 && *configPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: mirrorwalk [flags] <original-url> <target-url>")
		fmt.Fprintln(os.Stderr, "Flags:")
		flag.PrintDefaults()
		return 1
	}

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	// Flags win over config file values.
	if flag.NArg() == 2 {
		cfg.Original = flag.Arg(0)
		cfg.Target = flag.Arg(1)
	}
	if *cacheDir != "" {
		cfg.CacheDir = *cacheDir
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}
	if *timeout > 0 {
		cfg.RequestTimeout = config.DurationFrom(*timeout)
	}
	if *userAgent != "" {
		cfg.UserAgent = *userAgent
	}
	if *debug {
		cfg.Debug = true
	}
	if *quiet {
		cfg.Quiet = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	original, err := urlutil.Parse(cfg.Original)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid original URL: %v\n", err)
		return 1
	}
	target, err := urlutil.Parse(cfg.Target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid target URL: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := crawler.NewFetcher(nil, cfg.UserAgent, cfg.RequestTimeout.Duration, logger)
	pageCache := cache.New(cfg.CacheDir, fetcher.Fetch, logger)

	logger.Info("comparing sites",
		"original", original.String(), "target", target.String(), "cache", pageCache.Dir())

	var progressCh chan crawler.Event
	if !cfg.Quiet {
		progressCh = make(chan crawler.Event, 100)
	}

	pipeline := func(ctx context.Context) ([]compare.Row, error) {
		if progressCh != nil {
			defer close(progressCh)
		}
		walker := crawler.NewWalker(crawler.Config{Concurrency: cfg.Concurrency}, pageCache, progressCh)
		site, walkErr := walker.Walk(ctx, original)
		if walkErr != nil {
			return nil, fmt.Errorf("crawl original site: %w", walkErr)
		}
		rows, cmpErr := compare.Run(ctx, site, target, pageCache, cfg.Concurrency, progressCh)
		if cmpErr != nil {
			return nil, fmt.Errorf("compare against target: %w", cmpErr)
		}
		return rows, nil
	}

	var rows []compare.Row
	if cfg.Quiet {
		rows, err = pipeline(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	} else {
		// The TUI renders to stderr so stdout stays clean for the CSV report.
		model := tui.NewModel(ctx, cancel, pipeline, progressCh)
		program := tea.NewProgram(model, tea.WithOutput(os.Stderr))

		finalModel, runErr := program.Run()
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
			return 1
		}
		final := finalModel.(tui.Model)
		if final.Err() != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", final.Err())
			return 1
		}
		rows = final.Rows()
		if rows == nil {
			// Quit before completion.
			return 1
		}
	}

	if err := compare.WriteCSV(os.Stdout, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if len(compare.Mismatches(rows)) > 0 {
		return 1
	}
	return 0
}
