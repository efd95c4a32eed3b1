// Command pull runs data acquisition only: every series of a window is
// pulled from the provider and written through to the CSV cache, leaving
// the analysis stages for a later pipeline run.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"divcli/internal/cache"
	"divcli/internal/config"
	"divcli/internal/infrastructure"
	"divcli/internal/provider"
)

func main() {
	windowName := flag.String("window", "covid", "analysis window: covid or extended")
	maturity := flag.Int("maturity", provider.DefaultMaturity, "dividend futures maturity in years")
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

	if !cfg.Provider.UseProvider || cfg.Provider.BaseURL == "" {
		logger.Error("No provider configured, nothing to pull")
		os.Exit(1)
	}

	var window config.Window
	switch *windowName {
	case "covid":
		window, err = cfg.CovidWindow()
	case "extended":
		window, err = cfg.ExtendedWindow()
	default:
		logger.Error("Unknown window", "window", *windowName)
		os.Exit(1)
	}
	if err != nil {
		logger.Error("Invalid window", "error", err)
		os.Exit(1)
	}

	client := provider.NewClient(cfg.Provider, logger)
	store := cache.NewStore(paths.CacheDir, logger)
	fetcher := provider.NewFetcher(client, store, logger)

	ds, err := fetcher.FetchDataset(context.Background(), window, *maturity)
	if err != nil {
		logger.Error("Pull failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Pull completed",
		slog.String("window", window.Name),
		slog.Int("price_series", len(ds.Prices)),
		slog.Int("yield_series", len(ds.Yields)),
		slog.Int("dividend_series", len(ds.Dividends)),
		slog.Int("futures_series", len(ds.Futures)),
		slog.String("cache_dir", paths.CacheDir))
}
