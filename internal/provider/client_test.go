package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divcli/internal/config"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClient(config.ProviderConfig{
		BaseURL:   srv.URL,
		APIKey:    "test-key",
		Timeout:   5 * time.Second,
		RateLimit: 100,
	}, nil)
}

func TestHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/history", r.URL.Path)
		assert.Equal(t, "SPX Index", r.URL.Query().Get("ticker"))
		assert.Equal(t, "px_last", r.URL.Query().Get("field"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"ticker": "SPX Index",
			"field":  "px_last",
			"observations": []map[string]any{
				{"date": "2020-01-02", "value": 3257.85},
				{"date": "2020-01-03", "value": 3234.85},
			},
		})
	})

	s, err := client.History(context.Background(), Request{
		Ticker:     "SPX Index",
		Instrument: InstrumentPrice,
		Start:      date(2020, 1, 1),
		End:        date(2020, 8, 1),
	})
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "SPX Index px_last", s.Name)
	assert.Equal(t, date(2020, 1, 2), s.Points[0].Date)
	assert.InDelta(t, 3257.85, s.Points[0].Value, 1e-9)
}

func TestHistoryProviderRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"})
	})

	_, err := client.History(context.Background(), Request{
		Ticker:     "SPX Index",
		Instrument: InstrumentPrice,
		Start:      date(2020, 1, 1),
		End:        date(2020, 8, 1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestHistoryClampsFuturesStart(t *testing.T) {
	var gotStart string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start")
		assert.Equal(t, "2", r.URL.Query().Get("maturity"))
		json.NewEncoder(w).Encode(map[string]any{
			"ticker":       "SPX Index",
			"field":        "div_future",
			"observations": []map[string]any{{"date": "2015-01-02", "value": 52.3}},
		})
	})

	s, err := client.History(context.Background(), Request{
		Ticker:     "SPX Index",
		Instrument: InstrumentDivFuture,
		Maturity:   2,
		Start:      date(2008, 1, 1),
		End:        date(2020, 8, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "2015-01-01", gotStart)
	assert.Equal(t, 1, s.Len())
}

func TestHistoryFuturesRangeBeforeCoverage(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	s, err := client.History(context.Background(), Request{
		Ticker:     "SPX Index",
		Instrument: InstrumentDivFuture,
		Maturity:   2,
		Start:      date(2008, 1, 1),
		End:        date(2014, 12, 31),
	})
	require.NoError(t, err)
	assert.True(t, s.IsEmpty(), "pre-2015 futures data must be absent, not zero")
	assert.False(t, called, "no request should reach the provider")
}

func TestHistoryRequestValidation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid requests must not reach the provider")
	})

	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "missing ticker",
			req:  Request{Instrument: InstrumentPrice, Start: date(2020, 1, 1), End: date(2020, 2, 1)},
		},
		{
			name: "unknown instrument",
			req:  Request{Ticker: "SPX Index", Instrument: "open_interest", Start: date(2020, 1, 1), End: date(2020, 2, 1)},
		},
		{
			name: "end before start",
			req:  Request{Ticker: "SPX Index", Instrument: InstrumentPrice, Start: date(2020, 2, 1), End: date(2020, 1, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.History(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestHistoryRejectsDuplicateDates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ticker": "SPX Index",
			"field":  "px_last",
			"observations": []map[string]any{
				{"date": "2020-01-02", "value": 1.0},
				{"date": "2020-01-02", "value": 2.0},
			},
		})
	})

	_, err := client.History(context.Background(), Request{
		Ticker:     "SPX Index",
		Instrument: InstrumentPrice,
		Start:      date(2020, 1, 1),
		End:        date(2020, 8, 1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly increasing")
}
