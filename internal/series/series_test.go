package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		points  []Point
		wantErr bool
	}{
		{
			name: "strictly increasing",
			points: []Point{
				{Date: date(2020, 1, 2), Value: 1},
				{Date: date(2020, 1, 3), Value: 2},
				{Date: date(2020, 1, 6), Value: 3},
			},
		},
		{
			name: "duplicate date",
			points: []Point{
				{Date: date(2020, 1, 2), Value: 1},
				{Date: date(2020, 1, 2), Value: 2},
			},
			wantErr: true,
		},
		{
			name:   "empty",
			points: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Series{Name: "TEST", Points: tt.points}
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewSortsPoints(t *testing.T) {
	s := New("TEST", []Point{
		{Date: date(2020, 3, 1), Value: 3},
		{Date: date(2020, 1, 1), Value: 1},
		{Date: date(2020, 2, 1), Value: 2},
	})

	require.NoError(t, s.Validate())
	assert.Equal(t, []float64{1, 2, 3}, s.Values())
}

func TestSlice(t *testing.T) {
	s := New("TEST", []Point{
		{Date: date(2020, 1, 2), Value: 1},
		{Date: date(2020, 2, 3), Value: 2},
		{Date: date(2020, 3, 4), Value: 3},
	})

	window := s.Slice(date(2020, 2, 1), date(2020, 3, 1))
	require.Equal(t, 1, window.Len())
	assert.Equal(t, 2.0, window.Points[0].Value)
}

func TestPctChange(t *testing.T) {
	s := New("TEST", []Point{
		{Date: date(2020, 1, 1), Value: 100},
		{Date: date(2020, 1, 2), Value: 110},
		{Date: date(2020, 1, 3), Value: 99},
	})

	r := s.PctChange()
	require.Equal(t, 2, r.Len())
	assert.InDelta(t, 0.10, r.Points[0].Value, 1e-12)
	assert.InDelta(t, -0.10, r.Points[1].Value, 1e-12)
}

func TestCumulativeGrowth(t *testing.T) {
	s := New("TEST", []Point{
		{Date: date(2020, 1, 2), Value: 0.10},
		{Date: date(2020, 1, 3), Value: -0.50},
	})

	g := s.CumulativeGrowth()
	require.Equal(t, 2, g.Len())
	assert.InDelta(t, 1.10, g.Points[0].Value, 1e-12)
	assert.InDelta(t, 0.55, g.Points[1].Value, 1e-12)
}

func TestDropNonFinite(t *testing.T) {
	s := Series{Name: "TEST", Points: []Point{
		{Date: date(2020, 1, 1), Value: 1},
		{Date: date(2020, 1, 2), Value: math.NaN()},
		{Date: date(2020, 1, 3), Value: math.Inf(1)},
		{Date: date(2020, 1, 4), Value: 2},
	}}

	clean := s.DropNonFinite()
	assert.Equal(t, []float64{1, 2}, clean.Values())
}

func TestResampleQuarterEnd(t *testing.T) {
	s := New("TEST", []Point{
		{Date: date(2020, 1, 15), Value: 1},
		{Date: date(2020, 3, 20), Value: 2}, // last obs of Q1 wins
		{Date: date(2020, 5, 11), Value: 3},
	})

	q := s.ResampleQuarterEnd()
	require.Equal(t, 2, q.Len())
	assert.Equal(t, date(2020, 3, 31), q.Points[0].Date)
	assert.Equal(t, 2.0, q.Points[0].Value)
	assert.Equal(t, date(2020, 6, 30), q.Points[1].Date)
	assert.Equal(t, 3.0, q.Points[1].Value)
}

func TestAlign(t *testing.T) {
	a := New("A", []Point{
		{Date: date(2020, 1, 1), Value: 1},
		{Date: date(2020, 1, 2), Value: 2},
		{Date: date(2020, 1, 3), Value: 3},
	})
	b := New("B", []Point{
		{Date: date(2020, 1, 2), Value: 20},
		{Date: date(2020, 1, 3), Value: 30},
		{Date: date(2020, 1, 4), Value: 40},
	})

	dates, cols := Align(a, b)
	require.Len(t, dates, 2)
	assert.Equal(t, date(2020, 1, 2), dates[0])
	assert.Equal(t, []float64{2, 3}, cols[0])
	assert.Equal(t, []float64{20, 30}, cols[1])
}

func TestQuarterHelpers(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2020, 1, 1), date(2020, 3, 31)},
		{date(2020, 3, 31), date(2020, 3, 31)},
		{date(2020, 11, 15), date(2020, 12, 31)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuarterEnd(tt.in))
	}

	// Four quarters ahead of Q1 2020 is Q1 2021, year-end rollover included
	assert.Equal(t, date(2021, 3, 31), AddQuarters(date(2020, 3, 31), 4))
	assert.Equal(t, date(2021, 12, 31), AddQuarters(date(2020, 12, 31), 4))
}
