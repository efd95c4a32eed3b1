// Command pipeline runs the full analysis for one window: pull the index,
// yield, dividend and futures series, derive cumulative returns and the
// growth regression, and write the LaTeX tables, CSV mirrors and figures.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"divcli/internal/cache"
	"divcli/internal/config"
	"divcli/internal/infrastructure"
	"divcli/internal/operations"
	"divcli/internal/provider"
	"divcli/internal/render"
)

func main() {
	windowName := flag.String("window", "covid", "analysis window: covid or extended")
	maturity := flag.Int("maturity", provider.DefaultMaturity, "dividend futures maturity in years")
	manual := flag.Bool("manual", false, "load data from manual workbooks instead of the provider")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	// Spans go to a log file, not the console
	traceFile, err := os.OpenFile(paths.GetLogPath("traces.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger.Error("Failed to open trace log", "error", err)
		os.Exit(1)
	}
	defer traceFile.Close()

	shutdown, err := infrastructure.InitTracing(traceFile)
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer shutdown(context.Background())

	window, err := resolveWindow(cfg, *windowName)
	if err != nil {
		logger.Error("Invalid window", "error", err)
		os.Exit(1)
	}

	source, err := buildSource(cfg, paths, logger, *manual)
	if err != nil {
		logger.Error("Failed to configure data source", "error", err)
		os.Exit(1)
	}

	manager := operations.NewPipeline(logger, source, render.NewWriter(paths))
	state, err := manager.Run(context.Background(), window, *maturity)
	if err != nil {
		logger.Error("Pipeline run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Pipeline run finished",
		slog.String("run_id", state.ID),
		slog.String("window", window.Name),
		slog.String("tables_dir", paths.TablesDir),
		slog.String("figures_dir", paths.FiguresDir))
}

// resolveWindow maps the -window flag to a configured date range
func resolveWindow(cfg *config.Config, name string) (config.Window, error) {
	switch name {
	case "covid":
		return cfg.CovidWindow()
	case "extended":
		return cfg.ExtendedWindow()
	default:
		return config.Window{}, fmt.Errorf("unknown window %q (want covid or extended)", name)
	}
}

// buildSource picks the dataset source: provider plus cache when
// configured, cache only when the provider is disabled, manual workbooks
// when forced
func buildSource(cfg *config.Config, paths *config.Paths, logger *slog.Logger, manual bool) (operations.DatasetSource, error) {
	if manual {
		return provider.NewWorkbookSource(provider.NewExcelLoader(logger), paths), nil
	}

	store := cache.NewStore(paths.CacheDir, logger)
	if !cfg.Provider.UseProvider || cfg.Provider.BaseURL == "" {
		logger.Warn("No provider configured, serving from cache only")
		return provider.NewFetcher(nil, store, logger), nil
	}

	client := provider.NewClient(cfg.Provider, logger)
	return provider.NewFetcher(client, store, logger), nil
}
