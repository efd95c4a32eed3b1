package render

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"divcli/internal/regress"
	"divcli/internal/stats"
)

func sampleResult() *regress.Result {
	return &regress.Result{
		Names:     []string{"Intercept", "SPX Index dummy", "Equity yield"},
		Coef:      []float64{0.0123, -0.0040, 1.5021},
		StdErr:    []float64{0.0031, 0.0052, 0.2210},
		HACStdErr: []float64{0.0045, 0.0061, 0.3105},
		R2:        0.421,
		N:         96,
	}
}

func TestRegressionTableTex(t *testing.T) {
	tex := RegressionTableTex(sampleResult())

	assert.True(t, strings.HasPrefix(tex, "\\begin{tabular}{lc}"))
	assert.Contains(t, tex, "\\toprule")
	assert.Contains(t, tex, "\\bottomrule")
	assert.Contains(t, tex, "Intercept & 0.0123 \\\\")
	assert.Contains(t, tex, " & (0.0045) \\\\", "errors in parentheses under the estimate")
	assert.Contains(t, tex, "Equity yield & 1.5021 \\\\")
	assert.Contains(t, tex, "$R^2$ & 0.421 \\\\")
	assert.Contains(t, tex, "Observations & 96 \\\\")
}

func TestSummaryTableTex(t *testing.T) {
	summaries := []stats.Summary{
		{Name: "S&P 500", Count: 150, Mean: 0.0002, Std: 0.0210, Min: -0.1198, Max: 0.0938, Skew: -0.412, Kurtosis: 5.821},
		{Name: "const", Count: 4, Mean: 0.01, Std: 0, Skew: math.NaN(), Kurtosis: math.NaN(), Min: 0.01, Max: 0.01},
	}

	tex := SummaryTableTex(summaries)

	assert.Contains(t, tex, "S\\&P 500 & 150 & 0.0002 & 0.0210 & -0.1198 & 0.0938 & -0.412 & 5.821 \\\\")
	assert.Contains(t, tex, "const & 4 & 0.0100 & 0.0000 & 0.0100 & 0.0100 & -- & -- \\\\",
		"undefined moments render as a dash")
}

func TestTexEscape(t *testing.T) {
	assert.Equal(t, "S\\&P\\_500 \\$ 100\\%", texEscape("S&P_500 $ 100%"))
}
