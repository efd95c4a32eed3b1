// Package stats computes the descriptive statistics table for daily index
// returns: count, mean, dispersion, extremes, skewness and excess kurtosis.
// Missing or non-finite observations are dropped, never imputed.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"divcli/internal/series"
)

// Summary holds the descriptive statistics of one return series
type Summary struct {
	Name     string
	Count    int
	Mean     float64
	Std      float64
	Min      float64
	Max      float64
	Skew     float64
	Kurtosis float64 // excess kurtosis; 0 for a normal distribution
}

// Describe computes descriptive statistics over the finite values of the
// sample. Skewness and kurtosis are NaN when the sample has no dispersion.
func Describe(name string, values []float64) Summary {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean = append(clean, v)
	}

	s := Summary{Name: name, Count: len(clean)}
	if len(clean) == 0 {
		s.Mean = math.NaN()
		s.Std = math.NaN()
		s.Min = math.NaN()
		s.Max = math.NaN()
		s.Skew = math.NaN()
		s.Kurtosis = math.NaN()
		return s
	}

	s.Mean = stat.Mean(clean, nil)
	s.Min = floats.Min(clean)
	s.Max = floats.Max(clean)

	if len(clean) < 2 {
		s.Std = math.NaN()
		s.Skew = math.NaN()
		s.Kurtosis = math.NaN()
		return s
	}

	s.Std = stat.StdDev(clean, nil)
	if s.Std == 0 {
		// Constant series: moments beyond the mean are undefined
		s.Skew = math.NaN()
		s.Kurtosis = math.NaN()
		return s
	}

	s.Skew = stat.Skew(clean, nil)
	s.Kurtosis = stat.ExKurtosis(clean, nil)
	return s
}

// DescribeSeries computes the statistics of a series' values
func DescribeSeries(s series.Series) Summary {
	return Describe(s.Name, s.Values())
}
