// Package cache implements the on-disk pass-through cache for pulled series.
// One CSV per (ticker, instrument, date range); entries persist until
// manually cleared — there is no eviction.
package cache

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"divcli/internal/series"
)

const dateFormat = "2006-01-02"

// Store reads and writes cached series under a single directory
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a cache store rooted at dir
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Key builds the cache file name for one pull. Tickers like "SPX Index"
// become filesystem-safe, and the range is part of the key so different
// windows never collide.
func Key(ticker, instrument string, maturity int, start, end time.Time) string {
	safe := strings.NewReplacer(" ", "_", "/", "_").Replace(ticker)
	inst := instrument
	if maturity > 0 {
		inst = fmt.Sprintf("%s%dy", instrument, maturity)
	}
	return fmt.Sprintf("%s_%s_%s_%s.csv",
		safe, inst, start.Format("20060102"), end.Format("20060102"))
}

// Get loads a cached series by key. The second return reports whether the
// entry exists; a missing entry is not an error.
func (s *Store) Get(key string) (series.Series, bool, error) {
	path := filepath.Join(s.dir, key)
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return series.Series{}, false, nil
	}
	if err != nil {
		return series.Series{}, false, fmt.Errorf("failed to open cache entry %s: %w", key, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return series.Series{}, false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	if len(rows) == 0 || len(rows[0]) < 2 || rows[0][0] != "Date" {
		return series.Series{}, false, fmt.Errorf("cache entry %s has unexpected header", key)
	}

	name := rows[0][1]
	points := make([]series.Point, 0, len(rows)-1)
	for i, row := range rows[1:] {
		d, err := time.Parse(dateFormat, row[0])
		if err != nil {
			return series.Series{}, false, fmt.Errorf("cache entry %s row %d: bad date %q: %w", key, i+2, row[0], err)
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return series.Series{}, false, fmt.Errorf("cache entry %s row %d: bad value %q: %w", key, i+2, row[1], err)
		}
		points = append(points, series.Point{Date: d, Value: v})
	}

	result := series.New(name, points)
	if err := result.Validate(); err != nil {
		return series.Series{}, false, fmt.Errorf("cache entry %s: %w", key, err)
	}

	s.logger.Debug("cache hit",
		slog.String("key", key),
		slog.Int("observations", result.Len()))

	return result, true, nil
}

// Put writes a series under the given key, replacing any previous entry.
// The write is atomic (temp file + rename) so a failed pull can never leave
// a truncated entry behind.
func (s *Store) Put(key string, data series.Series) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := filepath.Join(s.dir, key)
	tmp, err := os.CreateTemp(s.dir, key+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write([]string{"Date", data.Name}); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache header: %w", err)
	}
	for _, p := range data.Points {
		row := []string{p.Date.Format(dateFormat), strconv.FormatFloat(p.Value, 'f', -1, 64)}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write cache row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to finalize cache entry %s: %w", key, err)
	}

	s.logger.Debug("cache write",
		slog.String("key", key),
		slog.Int("observations", data.Len()))

	return nil
}
