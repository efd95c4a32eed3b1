package render

import (
	"fmt"
	"math"
	"strings"

	"divcli/internal/regress"
	"divcli/internal/stats"
)

// RegressionTableTex renders the pooled regression as a booktabs tabular
// fragment. Coefficients carry Newey-West standard errors in parentheses;
// the CSV mirror additionally reports the classical errors.
func RegressionTableTex(res *regress.Result) string {
	var b strings.Builder

	b.WriteString("\\begin{tabular}{lc}\n")
	b.WriteString("\\toprule\n")
	b.WriteString(" & $\\Delta_1 D_{i,t}$ \\\\\n")
	b.WriteString("\\midrule\n")

	for j, name := range res.Names {
		fmt.Fprintf(&b, "%s & %s \\\\\n", texEscape(name), texNumber(res.Coef[j], 4))
		fmt.Fprintf(&b, " & (%s) \\\\\n", texNumber(res.HACStdErr[j], 4))
	}

	b.WriteString("\\midrule\n")
	fmt.Fprintf(&b, "$R^2$ & %s \\\\\n", texNumber(res.R2, 3))
	fmt.Fprintf(&b, "Observations & %d \\\\\n", res.N)
	b.WriteString("\\bottomrule\n")
	b.WriteString("\\end{tabular}\n")
	return b.String()
}

// SummaryTableTex renders per-series descriptive statistics as a booktabs
// tabular fragment, one row per return series.
func SummaryTableTex(summaries []stats.Summary) string {
	var b strings.Builder

	b.WriteString("\\begin{tabular}{lrrrrrrr}\n")
	b.WriteString("\\toprule\n")
	b.WriteString(" & N & Mean & Std & Min & Max & Skew & Kurt \\\\\n")
	b.WriteString("\\midrule\n")

	for _, s := range summaries {
		fmt.Fprintf(&b, "%s & %d & %s & %s & %s & %s & %s & %s \\\\\n",
			texEscape(s.Name), s.Count,
			texNumber(s.Mean, 4), texNumber(s.Std, 4),
			texNumber(s.Min, 4), texNumber(s.Max, 4),
			texNumber(s.Skew, 3), texNumber(s.Kurtosis, 3))
	}

	b.WriteString("\\bottomrule\n")
	b.WriteString("\\end{tabular}\n")
	return b.String()
}

// texNumber formats a value for a table cell; undefined moments render
// as an en-dash rather than NaN
func texNumber(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "--"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

// texEscape escapes the LaTeX special characters that can appear in
// series and coefficient labels
func texEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "\\&",
		"%", "\\%",
		"_", "\\_",
		"#", "\\#",
		"$", "\\$",
	)
	return replacer.Replace(s)
}
