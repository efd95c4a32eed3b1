package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"divcli/internal/config"
	"divcli/internal/series"
)

const dateFormat = "2006-01-02"

// historyResponse is the provider's wire format for a history query.
// The schema is provider-defined; only the fields we consume are declared.
type historyResponse struct {
	Ticker       string `json:"ticker"`
	Field        string `json:"field"`
	Observations []struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	} `json:"observations"`
}

// errorResponse is the provider's error envelope
type errorResponse struct {
	Error string `json:"error"`
}

// Client pulls historical series from the market-data provider API.
// Calls are synchronous; a token-bucket limiter keeps the request rate
// within the provider's quota.
type Client struct {
	http     *resty.Client
	limiter  *rate.Limiter
	validate *validator.Validate
	logger   *slog.Logger
}

// NewClient creates a provider client from configuration
func NewClient(cfg config.ProviderConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		http.SetAuthToken(cfg.APIKey)
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 5
	}

	return &Client{
		http:     http,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		validate: validator.New(),
		logger:   logger,
	}
}

// History pulls one series for the requested ticker, instrument and range.
//
// Dividend-futures requests are clamped to the 2015 coverage floor; a range
// that ends before the floor yields an empty series and no error, because
// missing coverage is data absence rather than failure.
func (c *Client) History(ctx context.Context, req Request) (series.Series, error) {
	if err := c.validate.Struct(req); err != nil {
		return series.Series{}, fmt.Errorf("invalid history request: %w", err)
	}
	if req.End.Before(req.Start) {
		return series.Series{}, fmt.Errorf("invalid history request: end %s before start %s",
			req.End.Format(dateFormat), req.Start.Format(dateFormat))
	}

	name := SeriesName(req)

	start := req.Start
	if req.Instrument == InstrumentDivFuture {
		if req.End.Before(FuturesCoverageStart) {
			c.logger.WarnContext(ctx, "dividend futures range predates coverage, returning empty series",
				slog.String("ticker", req.Ticker),
				slog.String("end", req.End.Format(dateFormat)))
			return series.Series{Name: name}, nil
		}
		if start.Before(FuturesCoverageStart) {
			c.logger.InfoContext(ctx, "clamping dividend futures start to coverage floor",
				slog.String("ticker", req.Ticker),
				slog.String("requested_start", start.Format(dateFormat)),
				slog.String("coverage_start", FuturesCoverageStart.Format(dateFormat)))
			start = FuturesCoverageStart
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return series.Series{}, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := map[string]string{
		"ticker": req.Ticker,
		"field":  string(req.Instrument),
		"start":  start.Format(dateFormat),
		"end":    req.End.Format(dateFormat),
	}
	if req.Instrument == InstrumentDivFuture {
		params["maturity"] = fmt.Sprintf("%d", req.Maturity)
	}

	var body historyResponse
	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&body).
		SetError(&apiErr).
		Get("/v1/history")
	if err != nil {
		return series.Series{}, fmt.Errorf("provider request for %s/%s failed: %w",
			req.Ticker, req.Instrument, err)
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.Status()
		}
		return series.Series{}, fmt.Errorf("provider rejected %s/%s request: %s",
			req.Ticker, req.Instrument, msg)
	}

	points := make([]series.Point, 0, len(body.Observations))
	for _, obs := range body.Observations {
		d, err := time.Parse(dateFormat, obs.Date)
		if err != nil {
			return series.Series{}, fmt.Errorf("provider returned malformed date %q for %s: %w",
				obs.Date, req.Ticker, err)
		}
		points = append(points, series.Point{Date: d, Value: obs.Value})
	}

	s := series.New(name, points)
	if err := s.Validate(); err != nil {
		return series.Series{}, fmt.Errorf("provider data failed validation: %w", err)
	}

	c.logger.InfoContext(ctx, "pulled series from provider",
		slog.String("ticker", req.Ticker),
		slog.String("instrument", string(req.Instrument)),
		slog.Int("observations", s.Len()))

	return s, nil
}

// SeriesName builds the canonical name for a pulled series
func SeriesName(req Request) string {
	if req.Instrument == InstrumentDivFuture {
		return fmt.Sprintf("%s %s%dy", req.Ticker, req.Instrument, req.Maturity)
	}
	return fmt.Sprintf("%s %s", req.Ticker, req.Instrument)
}
