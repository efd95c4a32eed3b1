// Package transform implements the price/yield transforms feeding Figure 1:
// the 30-year discounting formula turning bond yields into implied prices,
// and the cumulative growth series derived from daily returns.
package transform

import (
	"math"

	"divcli/internal/series"
)

// ImpliedPrice converts a 30-year yield (decimal, e.g. 0.02) into the
// implied price of a 100-face zero via price = 100 / (1+y)^30.
// Defined for any finite y > -1; y = -1 yields +Inf by IEEE division.
func ImpliedPrice(y float64) float64 {
	return 100 / math.Pow(1+y, 30)
}

// ImpliedPriceFromPercent is ImpliedPrice for yields quoted in percent,
// the provider's convention for government yield series.
func ImpliedPriceFromPercent(yPct float64) float64 {
	return ImpliedPrice(yPct * 0.01)
}

// ImpliedPriceSeries applies the discounting transform to every point of a
// percent-quoted yield series.
func ImpliedPriceSeries(s series.Series) series.Series {
	return s.Map(ImpliedPriceFromPercent)
}

// CumulativeReturns aligns the given level series on their common dates and
// compounds daily percentage changes into growth factors starting at 1.
// A date must be present in every series to count, so market holidays in
// any region drop out before returns are computed.
func CumulativeReturns(ss ...series.Series) []series.Series {
	dates, columns := series.Align(ss...)

	out := make([]series.Series, len(ss))
	for i, s := range ss {
		points := make([]series.Point, len(dates))
		for j, d := range dates {
			points[j] = series.Point{Date: d, Value: columns[i][j]}
		}
		aligned := series.Series{Name: s.Name, Points: points}
		out[i] = aligned.PctChange().CumulativeGrowth()
	}
	return out
}
