package regress

import (
	"divcli/internal/series"
)

// GDPConversionFactors turn expected dividend growth into expected GDP
// growth per region, using the paper's estimated multipliers.
var GDPConversionFactors = map[string]float64{
	"US": 0.67,
	"EU": 0.33,
	"JP": 0.46,
}

// Slope returns the pooled equity-yield coefficient
func (r *Result) Slope() float64 {
	return r.Coef[len(r.Coef)-1]
}

// InterceptFor returns the fitted intercept for one index label: the base
// intercept plus the label's dummy coefficient when it has one
func (r *Result) InterceptFor(label string) float64 {
	b := r.Coef[0]
	for j, name := range r.Names {
		if name == label+" dummy" {
			b += r.Coef[j]
		}
	}
	return b
}

// ExpectedGrowth evaluates the fitted model on an equity-yield series:
// the dividend growth the regression predicts at each observation.
func ExpectedGrowth(res *Result, label string, yields series.Series) series.Series {
	intercept := res.InterceptFor(label)
	slope := res.Slope()

	out := yields.Map(func(e float64) float64 {
		return intercept + slope*e
	})
	out.Name = label + " expected growth"
	return out
}

// GrowthRevision rebases an expected-growth series to its first
// observation, in percent. This is the "change in expected growth" panel
// input: zero when the window opens, negative as expectations deteriorate.
func GrowthRevision(expected series.Series) series.Series {
	first, ok := expected.First()
	if !ok {
		return series.Series{Name: expected.Name}
	}
	return expected.Map(func(v float64) float64 {
		return (v - first.Value) * 100
	})
}
