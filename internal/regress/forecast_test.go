package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divcli/internal/series"
)

func forecastResult() *Result {
	return &Result{
		Names: []string{"Intercept", "SPX Index dummy", "SX5E Index dummy", "Equity yield"},
		Coef:  []float64{0.015, -0.005, -0.010, 1.5},
	}
}

func TestInterceptFor(t *testing.T) {
	res := forecastResult()

	// NKY is the base level, the others add their dummy
	assert.InDelta(t, 0.015, res.InterceptFor("NKY Index"), 1e-12)
	assert.InDelta(t, 0.010, res.InterceptFor("SPX Index"), 1e-12)
	assert.InDelta(t, 0.005, res.InterceptFor("SX5E Index"), 1e-12)
	assert.InDelta(t, 1.5, res.Slope(), 1e-12)
}

func TestExpectedGrowth(t *testing.T) {
	res := forecastResult()
	yields := series.New("e", []series.Point{
		{Date: date(2020, 1, 2), Value: 0.02},
		{Date: date(2020, 3, 16), Value: 0.06},
	})

	g := ExpectedGrowth(res, "SPX Index", yields)
	require.Equal(t, 2, g.Len())
	assert.InDelta(t, 0.010+1.5*0.02, g.Points[0].Value, 1e-12)
	assert.InDelta(t, 0.010+1.5*0.06, g.Points[1].Value, 1e-12)
}

func TestGrowthRevision(t *testing.T) {
	expected := series.New("g", []series.Point{
		{Date: date(2020, 1, 2), Value: 0.020},
		{Date: date(2020, 2, 3), Value: 0.015},
		{Date: date(2020, 3, 16), Value: -0.010},
	})

	rev := GrowthRevision(expected)
	require.Equal(t, 3, rev.Len())
	assert.InDelta(t, 0.0, rev.Points[0].Value, 1e-12, "the window start is the baseline")
	assert.InDelta(t, -0.5, rev.Points[1].Value, 1e-12)
	assert.InDelta(t, -3.0, rev.Points[2].Value, 1e-12)
}

func TestGrowthRevisionEmpty(t *testing.T) {
	rev := GrowthRevision(series.Series{Name: "g"})
	assert.True(t, rev.IsEmpty())
	assert.Equal(t, "g", rev.Name)
}

func TestGDPConversionFactors(t *testing.T) {
	require.Len(t, GDPConversionFactors, 3)
	assert.InDelta(t, 0.67, GDPConversionFactors["US"], 1e-12)
	assert.InDelta(t, 0.33, GDPConversionFactors["EU"], 1e-12)
	assert.InDelta(t, 0.46, GDPConversionFactors["JP"], 1e-12)
}
