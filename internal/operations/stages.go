package operations

import (
	"context"
	"fmt"
	"log/slog"

	"divcli/internal/config"
	"divcli/internal/provider"
	"divcli/internal/regress"
	"divcli/internal/render"
	"divcli/internal/series"
	"divcli/internal/stats"
	"divcli/internal/transform"
)

// Stage IDs in pipeline order
const (
	StageIDFetch     = "fetch"
	StageIDTransform = "transform"
	StageIDRegress   = "regress"
	StageIDStats     = "stats"
	StageIDRender    = "render"
)

// DatasetSource resolves a full analysis dataset for a window
type DatasetSource interface {
	FetchDataset(ctx context.Context, w config.Window, maturity int) (*provider.Dataset, error)
}

// FetchStage pulls all series for the run's window through the dataset
// source (provider plus cache, or manual workbooks)
type FetchStage struct {
	source DatasetSource
}

// NewFetchStage creates the acquisition stage
func NewFetchStage(source DatasetSource) *FetchStage {
	return &FetchStage{source: source}
}

func (s *FetchStage) ID() string   { return StageIDFetch }
func (s *FetchStage) Name() string { return "Data acquisition" }

func (s *FetchStage) Validate(state *State) error {
	if s.source == nil {
		return fmt.Errorf("no dataset source configured")
	}
	return nil
}

func (s *FetchStage) Execute(ctx context.Context, state *State) error {
	ds, err := s.source.FetchDataset(ctx, state.Window, state.Maturity)
	if err != nil {
		return fmt.Errorf("dataset fetch failed: %w", err)
	}
	state.Dataset = ds

	slog.InfoContext(ctx, "dataset fetched",
		slog.Int("price_series", len(ds.Prices)),
		slog.Int("yield_series", len(ds.Yields)),
		slog.Int("dividend_series", len(ds.Dividends)),
		slog.Int("futures_series", len(ds.Futures)))
	return nil
}

// TransformStage derives the cumulative-return series behind Figure 1:
// index levels alongside 30-year-yield implied bond prices, aligned and
// compounded from daily changes
type TransformStage struct{}

// NewTransformStage creates the transform stage
func NewTransformStage() *TransformStage { return &TransformStage{} }

func (s *TransformStage) ID() string   { return StageIDTransform }
func (s *TransformStage) Name() string { return "Price transforms" }

func (s *TransformStage) Validate(state *State) error {
	if state.Dataset == nil {
		return fmt.Errorf("transform requires a fetched dataset")
	}
	return nil
}

func (s *TransformStage) Execute(ctx context.Context, state *State) error {
	state.CumulativeReturns = transform.CumulativeReturns(levelSeries(state.Dataset)...)

	slog.InfoContext(ctx, "cumulative return series built",
		slog.Int("series_count", len(state.CumulativeReturns)))
	return nil
}

// levelSeries collects the plotted level series in presentation order:
// each index's spot level, then each region's implied bond price
func levelSeries(ds *provider.Dataset) []series.Series {
	var out []series.Series
	for _, idx := range provider.Indices() {
		if s, ok := ds.Prices[idx.Ticker]; ok && !s.IsEmpty() {
			s.Name = idx.Name
			out = append(out, s)
		}
	}
	for _, idx := range provider.Indices() {
		if s, ok := ds.Yields[idx.YieldTicker]; ok && !s.IsEmpty() {
			implied := transform.ImpliedPriceSeries(s)
			implied.Name = provider.YieldName(idx.YieldTicker)
			out = append(out, implied)
		}
	}
	return out
}

// RegressStage builds the pooled panel and fits the dividend-growth
// regression. An empty panel (no futures coverage in the window) skips the
// fit instead of failing the run.
type RegressStage struct{}

// NewRegressStage creates the regression stage
func NewRegressStage() *RegressStage { return &RegressStage{} }

func (s *RegressStage) ID() string   { return StageIDRegress }
func (s *RegressStage) Name() string { return "Growth regression" }

func (s *RegressStage) Validate(state *State) error {
	if state.Dataset == nil {
		return fmt.Errorf("regression requires a fetched dataset")
	}
	return nil
}

func (s *RegressStage) Execute(ctx context.Context, state *State) error {
	var inputs []regress.PanelInput
	for _, idx := range provider.Indices() {
		div, okDiv := state.Dataset.Dividends[idx.Ticker]
		fut, okFut := state.Dataset.Futures[idx.Ticker]
		if !okDiv || !okFut || div.IsEmpty() || fut.IsEmpty() {
			continue
		}
		inputs = append(inputs, regress.PanelInput{
			Index:     idx.Ticker,
			Dividends: div,
			Futures:   fut,
		})
	}

	state.Panel = regress.BuildPanel(inputs, state.Dataset.Maturity)
	if len(state.Panel) == 0 {
		slog.WarnContext(ctx, "no panel observations in window, skipping regression")
		return nil
	}

	res, err := regress.FitPooled(state.Panel)
	if err != nil {
		return fmt.Errorf("pooled regression failed: %w", err)
	}
	state.Regression = res

	state.DividendForecasts, state.GDPForecasts = growthForecasts(state, res)

	slog.InfoContext(ctx, "pooled regression fitted",
		slog.Int("observations", res.N),
		slog.Float64("r2", res.R2),
		slog.Int("forecast_series", len(state.DividendForecasts)))
	return nil
}

// growthForecasts runs the fitted model over each index's full equity-yield
// history and rebases the prediction to the window start: the change in
// expected dividend growth, and its GDP counterpart, per region
func growthForecasts(state *State, res *regress.Result) (dividend, gdp []series.Series) {
	for _, idx := range provider.Indices() {
		div, okDiv := state.Dataset.Dividends[idx.Ticker]
		fut, okFut := state.Dataset.Futures[idx.Ticker]
		if !okDiv || !okFut || div.IsEmpty() || fut.IsEmpty() {
			continue
		}

		yields := regress.EquityYieldSeries(div, fut, state.Dataset.Maturity)
		if yields.IsEmpty() {
			continue
		}

		revision := regress.GrowthRevision(regress.ExpectedGrowth(res, idx.Ticker, yields))
		revision.Name = idx.Region
		dividend = append(dividend, revision)

		factor := regress.GDPConversionFactors[idx.Region]
		scaled := revision.Map(func(v float64) float64 { return v * factor })
		scaled.Name = idx.Region
		gdp = append(gdp, scaled)
	}
	return dividend, gdp
}

// StatsStage computes descriptive statistics of daily returns for each
// index level and each implied bond price series
type StatsStage struct{}

// NewStatsStage creates the summary statistics stage
func NewStatsStage() *StatsStage { return &StatsStage{} }

func (s *StatsStage) ID() string   { return StageIDStats }
func (s *StatsStage) Name() string { return "Summary statistics" }

func (s *StatsStage) Validate(state *State) error {
	if state.Dataset == nil {
		return fmt.Errorf("statistics require a fetched dataset")
	}
	return nil
}

func (s *StatsStage) Execute(ctx context.Context, state *State) error {
	var summaries []stats.Summary
	for _, level := range levelSeries(state.Dataset) {
		summaries = append(summaries, stats.DescribeSeries(level.PctChange()))
	}
	state.Summaries = summaries

	slog.InfoContext(ctx, "summary statistics computed",
		slog.Int("series_count", len(summaries)))
	return nil
}

// RenderStage writes the LaTeX tables, CSV mirrors, and figures
type RenderStage struct {
	writer *render.Writer
}

// NewRenderStage creates the rendering stage
func NewRenderStage(writer *render.Writer) *RenderStage {
	return &RenderStage{writer: writer}
}

func (s *RenderStage) ID() string   { return StageIDRender }
func (s *RenderStage) Name() string { return "Artifact rendering" }

func (s *RenderStage) Validate(state *State) error {
	if s.writer == nil {
		return fmt.Errorf("no output writer configured")
	}
	if len(state.CumulativeReturns) == 0 {
		return fmt.Errorf("rendering requires transformed series")
	}
	if state.Summaries == nil {
		return fmt.Errorf("rendering requires summary statistics")
	}
	return nil
}

func (s *RenderStage) Execute(ctx context.Context, state *State) error {
	if err := s.writer.WriteSummaryTable(state.Summaries); err != nil {
		return err
	}
	if err := s.writer.WriteCumulativeReturnsFigure(state.CumulativeReturns); err != nil {
		return err
	}

	if state.Regression == nil {
		slog.WarnContext(ctx, "no regression result, skipping regression artifacts")
		return nil
	}
	if err := s.writer.WriteRegressionTable(state.Regression); err != nil {
		return err
	}
	if err := s.writer.WriteScatterFigure(state.Panel, state.Regression); err != nil {
		return err
	}

	if len(state.DividendForecasts) == 0 {
		slog.WarnContext(ctx, "no growth forecasts, skipping expectations figures")
		return nil
	}
	return s.writer.WriteGrowthExpectationsFigures(state.DividendForecasts, state.GDPForecasts)
}
