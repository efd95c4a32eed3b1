package series

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Point is a single dated observation
type Point struct {
	Date  time.Time
	Value float64
}

// Series is a time-indexed sequence of observations for one instrument.
// Dates are strictly increasing; missing trading days are simply absent.
type Series struct {
	Name   string
	Points []Point
}

// New creates a series and sorts its points by date
func New(name string, points []Point) Series {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return Series{Name: name, Points: points}
}

// Validate checks the strictly-increasing-dates invariant
func (s Series) Validate() error {
	for i := 1; i < len(s.Points); i++ {
		if !s.Points[i-1].Date.Before(s.Points[i].Date) {
			return fmt.Errorf("series %s: dates not strictly increasing at index %d (%s >= %s)",
				s.Name, i,
				s.Points[i-1].Date.Format("2006-01-02"),
				s.Points[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Len returns the number of observations
func (s Series) Len() int {
	return len(s.Points)
}

// IsEmpty reports whether the series has no observations
func (s Series) IsEmpty() bool {
	return len(s.Points) == 0
}

// First returns the earliest observation
func (s Series) First() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[0], true
}

// Last returns the latest observation
func (s Series) Last() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// At returns the value observed on the given date
func (s Series) At(date time.Time) (float64, bool) {
	i := sort.Search(len(s.Points), func(i int) bool {
		return !s.Points[i].Date.Before(date)
	})
	if i < len(s.Points) && s.Points[i].Date.Equal(date) {
		return s.Points[i].Value, true
	}
	return 0, false
}

// Slice returns the observations in [start, end] inclusive
func (s Series) Slice(start, end time.Time) Series {
	var points []Point
	for _, p := range s.Points {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		points = append(points, p)
	}
	return Series{Name: s.Name, Points: points}
}

// Values returns the observation values in date order
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// Map applies fn to every observation, producing a new series
func (s Series) Map(fn func(float64) float64) Series {
	points := make([]Point, len(s.Points))
	for i, p := range s.Points {
		points[i] = Point{Date: p.Date, Value: fn(p.Value)}
	}
	return Series{Name: s.Name, Points: points}
}

// DropNonFinite removes NaN and Inf observations
func (s Series) DropNonFinite() Series {
	var points []Point
	for _, p := range s.Points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		points = append(points, p)
	}
	return Series{Name: s.Name, Points: points}
}

// PctChange returns the period-over-period percentage change.
// The first observation has no predecessor and is dropped.
func (s Series) PctChange() Series {
	if len(s.Points) < 2 {
		return Series{Name: s.Name}
	}
	points := make([]Point, 0, len(s.Points)-1)
	for i := 1; i < len(s.Points); i++ {
		prev := s.Points[i-1].Value
		if prev == 0 {
			continue
		}
		points = append(points, Point{
			Date:  s.Points[i].Date,
			Value: s.Points[i].Value/prev - 1,
		})
	}
	return Series{Name: s.Name, Points: points}
}

// CumulativeGrowth compounds a return series into growth factors starting at 1
func (s Series) CumulativeGrowth() Series {
	points := make([]Point, len(s.Points))
	level := 1.0
	for i, p := range s.Points {
		level *= 1 + p.Value
		points[i] = Point{Date: p.Date, Value: level}
	}
	return Series{Name: s.Name, Points: points}
}

// ResampleQuarterEnd keeps the last observation of each calendar quarter,
// restamped to the quarter-end date. This matches the study's quarterly
// estimation frequency.
func (s Series) ResampleQuarterEnd() Series {
	if len(s.Points) == 0 {
		return Series{Name: s.Name}
	}

	var points []Point
	for _, p := range s.Points {
		qe := QuarterEnd(p.Date)
		if len(points) > 0 && points[len(points)-1].Date.Equal(qe) {
			// Later observation within the same quarter wins
			points[len(points)-1].Value = p.Value
			continue
		}
		points = append(points, Point{Date: qe, Value: p.Value})
	}
	return Series{Name: s.Name, Points: points}
}

// Align intersects multiple series on their common dates.
// Returns the shared dates in order and one value column per input series.
func Align(ss ...Series) ([]time.Time, [][]float64) {
	if len(ss) == 0 {
		return nil, nil
	}

	counts := make(map[time.Time]int)
	for _, s := range ss {
		for _, p := range s.Points {
			counts[p.Date]++
		}
	}

	var dates []time.Time
	for _, p := range ss[0].Points {
		if counts[p.Date] == len(ss) {
			dates = append(dates, p.Date)
		}
	}

	columns := make([][]float64, len(ss))
	for i, s := range ss {
		col := make([]float64, len(dates))
		for j, d := range dates {
			v, _ := s.At(d)
			col[j] = v
		}
		columns[i] = col
	}
	return dates, columns
}

// QuarterEnd returns the last calendar day of t's quarter
func QuarterEnd(t time.Time) time.Time {
	quarter := (int(t.Month()) - 1) / 3
	firstOfNext := time.Date(t.Year(), time.Month(quarter*3+4), 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1)
}

// AddQuarters shifts a quarter-end date forward by n quarters, landing on
// the target quarter's end date.
func AddQuarters(t time.Time, n int) time.Time {
	return QuarterEnd(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 3*n, 0))
}
