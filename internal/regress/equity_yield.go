package regress

import (
	"fmt"
	"math"

	"divcli/internal/series"
)

// EquityYield computes the n-year implied dividend yield
//
//	e^(n) = (1/n) * ln(D / F)
//
// where D is the current dividend level and F the n-year futures price.
// Non-positive or non-finite inputs make the log undefined and are
// rejected; callers exclude such observations rather than propagate them.
func EquityYield(dividend, futures float64, n int) (float64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("maturity must be positive, got %d", n)
	}
	if !(dividend > 0) || math.IsInf(dividend, 0) {
		return 0, fmt.Errorf("dividend level %v is outside the log domain", dividend)
	}
	if !(futures > 0) || math.IsInf(futures, 0) {
		return 0, fmt.Errorf("futures price %v is outside the log domain", futures)
	}
	return math.Log(dividend/futures) / float64(n), nil
}

// EquityYieldSeries computes e^(n) on the common dates of a dividend and a
// futures series. Dates where either leg is missing or outside the log
// domain are absent from the result.
func EquityYieldSeries(dividends, futures series.Series, n int) series.Series {
	name := fmt.Sprintf("%s e%d", dividends.Name, n)
	dates, cols := series.Align(dividends, futures)

	var points []series.Point
	for i, d := range dates {
		e, err := EquityYield(cols[0][i], cols[1][i], n)
		if err != nil {
			continue
		}
		points = append(points, series.Point{Date: d, Value: e})
	}
	return series.Series{Name: name, Points: points}
}
