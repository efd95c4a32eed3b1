package provider

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"divcli/internal/series"
)

// ExcelLoader loads index and dividend data from hand-maintained workbooks.
// This is the fallback path when no provider is configured or reachable;
// the workbooks follow the layout of the hand-collected data files.
type ExcelLoader struct {
	logger *slog.Logger
}

// NewExcelLoader creates a workbook loader
func NewExcelLoader(logger *slog.Logger) *ExcelLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelLoader{logger: logger}
}

// LoadIndexPrices reads the index/yield workbook. The "index" sheet holds a
// Date column followed by one column per ticker; loosely named columns
// ("S&P 500", "US yield", ...) are mapped onto provider tickers.
func (l *ExcelLoader) LoadIndexPrices(path string) (map[string]series.Series, error) {
	return l.loadSheet(path, "index", mapIndexColumn)
}

// LoadDividends reads the dividend workbook's "dividend" sheet, one column
// of trailing dividend levels per index.
func (l *ExcelLoader) LoadDividends(path string) (map[string]series.Series, error) {
	return l.loadSheet(path, "dividend", mapDividendColumn)
}

func (l *ExcelLoader) loadSheet(path, sheet string, mapColumn func(string) string) (map[string]series.Series, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	if !containsSheet(f.GetSheetList(), sheet) {
		// Fall back to the first sheet to tolerate renamed sheets
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s from %s: %w", sheet, path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s in %s has no data rows", sheet, path)
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("sheet %s in %s needs a date column and at least one value column", sheet, path)
	}

	// Resolve column → ticker mapping from the header
	tickers := make([]string, len(header))
	for i := 1; i < len(header); i++ {
		tickers[i] = mapColumn(header[i])
	}

	points := make(map[string][]series.Point)
	for rowIdx, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		d, err := parseWorkbookDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d of %s: %w", rowIdx+2, path, err)
		}
		for i := 1; i < len(row) && i < len(tickers); i++ {
			ticker := tickers[i]
			if ticker == "" || strings.TrimSpace(row[i]) == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				// Blank-ish cells ("n/a", "-") mean the day is absent
				continue
			}
			points[ticker] = append(points[ticker], series.Point{Date: d, Value: v})
		}
	}

	result := make(map[string]series.Series, len(points))
	for ticker, pts := range points {
		s := series.New(ticker, pts)
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("workbook %s: %w", path, err)
		}
		result[ticker] = s
	}

	l.logger.Info("loaded series from workbook",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("series_count", len(result)))

	return result, nil
}

// mapIndexColumn maps a loose workbook header onto a provider ticker
func mapIndexColumn(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.Contains(h, "yield"):
		switch {
		case strings.Contains(h, "us"):
			return SP500.YieldTicker
		case strings.Contains(h, "german") || strings.Contains(h, "eu"):
			return EuroStoxx50.YieldTicker
		case strings.Contains(h, "japan"):
			return Nikkei225.YieldTicker
		}
	case strings.Contains(h, "s&p") || strings.Contains(h, "sp500") || strings.Contains(h, "sp 500") || strings.Contains(h, "spx"):
		return SP500.Ticker
	case strings.Contains(h, "euro") || strings.Contains(h, "stoxx") || strings.Contains(h, "sx5e"):
		return EuroStoxx50.Ticker
	case strings.Contains(h, "nikkei") || strings.Contains(h, "nky") || strings.Contains(h, "japan"):
		return Nikkei225.Ticker
	}
	return ""
}

// mapDividendColumn maps dividend workbook headers onto index tickers
func mapDividendColumn(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.Contains(h, "s&p") || strings.Contains(h, "sp500") || strings.Contains(h, "sp 500") || strings.Contains(h, "spx"):
		return SP500.Ticker
	case strings.Contains(h, "euro") || strings.Contains(h, "stoxx") || strings.Contains(h, "sx5e"):
		return EuroStoxx50.Ticker
	case strings.Contains(h, "nikkei") || strings.Contains(h, "nky") || strings.Contains(h, "japan"):
		return Nikkei225.Ticker
	}
	return ""
}

// parseWorkbookDate accepts the date renderings excelize produces for
// date-formatted and text cells
func parseWorkbookDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range []string{"2006-01-02", "01-02-06", "1/2/2006", "01/02/2006", "2006-01-02 15:04:05"} {
		if d, err := time.Parse(layout, cell); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	// Raw Excel serial number
	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		d, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date cell %q", cell)
}

func containsSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}
