package provider

import (
	"context"
	"fmt"
	"log/slog"

	"divcli/internal/cache"
	"divcli/internal/config"
	"divcli/internal/series"
)

// DefaultMaturity is the futures maturity (years) used by the regression.
// Longer maturities exist at the source but coverage is too thin to use.
const DefaultMaturity = 2

// CacheStore is the subset of the cache used by the fetcher
type CacheStore interface {
	Get(key string) (series.Series, bool, error)
	Put(key string, data series.Series) error
}

// Puller pulls one series from the provider
type Puller interface {
	History(ctx context.Context, req Request) (series.Series, error)
}

// Fetcher combines the provider client with the pass-through cache.
// Fresh pulls are written to the cache; when a pull fails, a previously
// cached entry satisfies the request, otherwise the failure propagates and
// the pipeline run aborts.
type Fetcher struct {
	client Puller
	cache  CacheStore
	logger *slog.Logger
}

// NewFetcher creates a fetcher. A nil client means no provider is
// configured and only cached data can be served.
func NewFetcher(client Puller, store CacheStore, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, cache: store, logger: logger}
}

// Fetch resolves one series, provider first, cache as fallback
func (f *Fetcher) Fetch(ctx context.Context, req Request) (series.Series, error) {
	key := cache.Key(req.Ticker, string(req.Instrument), req.Maturity, req.Start, req.End)

	if f.client == nil {
		cached, ok, err := f.cache.Get(key)
		if err != nil {
			return series.Series{}, err
		}
		if !ok {
			return series.Series{}, fmt.Errorf("no provider configured and no cached data for %s/%s",
				req.Ticker, req.Instrument)
		}
		return cached, nil
	}

	pulled, pullErr := f.client.History(ctx, req)
	if pullErr == nil {
		if err := f.cache.Put(key, pulled); err != nil {
			// A failed cache write must not discard a good pull
			f.logger.WarnContext(ctx, "failed to cache pulled series",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return pulled, nil
	}

	cached, ok, cacheErr := f.cache.Get(key)
	if cacheErr != nil {
		return series.Series{}, fmt.Errorf("pull failed (%v) and cache unreadable: %w", pullErr, cacheErr)
	}
	if !ok {
		return series.Series{}, fmt.Errorf("pull failed and no cached data for %s/%s: %w",
			req.Ticker, req.Instrument, pullErr)
	}

	f.logger.WarnContext(ctx, "provider pull failed, using cached data",
		slog.String("ticker", req.Ticker),
		slog.String("instrument", string(req.Instrument)),
		slog.String("error", pullErr.Error()))

	return cached, nil
}

// Dataset holds everything one analysis window needs, keyed by ticker
type Dataset struct {
	Window    config.Window
	Prices    map[string]series.Series // index ticker → spot level
	Yields    map[string]series.Series // yield ticker → 30y yield (percent)
	Dividends map[string]series.Series // index ticker → trailing dividend level
	Futures   map[string]series.Series // index ticker → n-year futures price
	Maturity  int
}

// FetchDataset pulls all series for a window: spot levels and 30-year
// yields for each index, plus dividends and n-year dividend futures.
func (f *Fetcher) FetchDataset(ctx context.Context, w config.Window, maturity int) (*Dataset, error) {
	ds := &Dataset{
		Window:    w,
		Prices:    make(map[string]series.Series),
		Yields:    make(map[string]series.Series),
		Dividends: make(map[string]series.Series),
		Futures:   make(map[string]series.Series),
		Maturity:  maturity,
	}

	for _, idx := range Indices() {
		price, err := f.Fetch(ctx, Request{
			Ticker: idx.Ticker, Instrument: InstrumentPrice, Start: w.Start, End: w.End,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch %s spot level: %w", idx.Ticker, err)
		}
		ds.Prices[idx.Ticker] = price

		yield, err := f.Fetch(ctx, Request{
			Ticker: idx.YieldTicker, Instrument: InstrumentYield30Y, Start: w.Start, End: w.End,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch %s 30y yield: %w", idx.YieldTicker, err)
		}
		ds.Yields[idx.YieldTicker] = yield

		div, err := f.Fetch(ctx, Request{
			Ticker: idx.Ticker, Instrument: InstrumentDividend, Start: w.Start, End: w.End,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch %s dividends: %w", idx.Ticker, err)
		}
		ds.Dividends[idx.Ticker] = div

		fut, err := f.Fetch(ctx, Request{
			Ticker: idx.Ticker, Instrument: InstrumentDivFuture, Maturity: maturity,
			Start: w.Start, End: w.End,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch %s dividend futures: %w", idx.Ticker, err)
		}
		ds.Futures[idx.Ticker] = fut
	}

	return ds, nil
}

// WorkbookSource serves datasets from the manual Excel workbooks instead
// of the provider
type WorkbookSource struct {
	loader *ExcelLoader
	paths  *config.Paths
}

// NewWorkbookSource creates a workbook-backed dataset source
func NewWorkbookSource(loader *ExcelLoader, paths *config.Paths) *WorkbookSource {
	return &WorkbookSource{loader: loader, paths: paths}
}

// FetchDataset loads the window's dataset from the workbooks
func (s *WorkbookSource) FetchDataset(ctx context.Context, w config.Window, maturity int) (*Dataset, error) {
	ds, err := LoadDatasetFromWorkbooks(s.loader, s.paths, w)
	if err != nil {
		return nil, err
	}
	ds.Maturity = maturity
	return ds, nil
}

// LoadDatasetFromWorkbooks builds a dataset from the manual Excel
// workbooks. Dividend futures have no workbook source, so the futures maps
// stay empty and the regression runs on whatever the cache can add.
func LoadDatasetFromWorkbooks(loader *ExcelLoader, paths *config.Paths, w config.Window) (*Dataset, error) {
	ds := &Dataset{
		Window:    w,
		Prices:    make(map[string]series.Series),
		Yields:    make(map[string]series.Series),
		Dividends: make(map[string]series.Series),
		Futures:   make(map[string]series.Series),
		Maturity:  DefaultMaturity,
	}

	indexSeries, err := loader.LoadIndexPrices(paths.IndexPricesXLSX)
	if err != nil {
		return nil, fmt.Errorf("load index workbook: %w", err)
	}
	divSeries, err := loader.LoadDividends(paths.EquityDividendXLSX)
	if err != nil {
		return nil, fmt.Errorf("load dividend workbook: %w", err)
	}

	for _, idx := range Indices() {
		if s, ok := indexSeries[idx.Ticker]; ok {
			ds.Prices[idx.Ticker] = s.Slice(w.Start, w.End)
		}
		if s, ok := indexSeries[idx.YieldTicker]; ok {
			ds.Yields[idx.YieldTicker] = s.Slice(w.Start, w.End)
		}
		if s, ok := divSeries[idx.Ticker]; ok {
			ds.Dividends[idx.Ticker] = s.Slice(w.Start, w.End)
		}
	}

	return ds, nil
}
