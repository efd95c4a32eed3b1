package regress

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// NeweyWestLags is the HAC bandwidth: quarterly data with a four-quarter
// overlapping growth window.
const NeweyWestLags = 4

// Result holds the fitted pooled regression
type Result struct {
	Names     []string  // coefficient labels, intercept first
	Coef      []float64 // point estimates
	StdErr    []float64 // classical OLS standard errors
	HACStdErr []float64 // Newey-West standard errors
	R2        float64
	N         int
}

// FitPooled fits
//
//	Δ₁D_{i,t} = β₀ + Σ_i γ_i d_i + β₁ · e^(n)_{i,t} + ε
//
// by OLS on the pooled panel: one shared slope, one dummy per non-base
// index. The alphabetically first index in the panel is the base whose
// intercept is β₀.
func FitPooled(rows []Row) (*Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("regression panel is empty")
	}

	// Distinct index labels, sorted; first is the base level
	seen := make(map[string]bool)
	var labels []string
	for _, r := range rows {
		if !seen[r.Index] {
			seen[r.Index] = true
			labels = append(labels, r.Index)
		}
	}
	sort.Strings(labels)
	dummyIdx := make(map[string]int, len(labels)-1)
	for i, label := range labels[1:] {
		dummyIdx[label] = i
	}

	n := len(rows)
	p := 2 + len(dummyIdx) // intercept, dummies, slope
	if n <= p {
		return nil, fmt.Errorf("panel has %d observations for %d parameters", n, p)
	}

	names := make([]string, 0, p)
	names = append(names, "Intercept")
	for _, label := range labels[1:] {
		names = append(names, label+" dummy")
	}
	names = append(names, "Equity yield")

	X := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, r := range rows {
		X.Set(i, 0, 1)
		if j, ok := dummyIdx[r.Index]; ok {
			X.Set(i, 1+j, 1)
		}
		X.Set(i, p-1, r.EquityYield)
		y.SetVec(i, r.DividendGrowth)
	}

	var qr mat.QR
	qr.Factorize(X)
	beta := mat.NewVecDense(p, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	// Residuals and fit statistics
	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(X, beta)
	resid := make([]float64, n)
	actual := make([]float64, n)
	for i := 0; i < n; i++ {
		actual[i] = y.AtVec(i)
		resid[i] = y.AtVec(i) - fitted.AtVec(i)
	}

	ssr := 0.0
	for _, u := range resid {
		ssr += u * u
	}
	meanY := stat.Mean(actual, nil)
	sst := 0.0
	for _, v := range actual {
		sst += (v - meanY) * (v - meanY)
	}
	r2 := 0.0
	if sst > 0 {
		r2 = 1 - ssr/sst
	}

	// Classical covariance: σ² (X'X)⁻¹
	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("X'X is singular: %w", err)
	}
	sigma2 := ssr / float64(n-p)

	stdErr := make([]float64, p)
	for j := 0; j < p; j++ {
		stdErr[j] = math.Sqrt(sigma2 * xtxInv.At(j, j))
	}

	hacStdErr, err := neweyWestStdErr(X, resid, &xtxInv, NeweyWestLags)
	if err != nil {
		return nil, err
	}

	coef := make([]float64, p)
	for j := 0; j < p; j++ {
		coef[j] = beta.AtVec(j)
	}

	return &Result{
		Names:     names,
		Coef:      coef,
		StdErr:    stdErr,
		HACStdErr: hacStdErr,
		R2:        r2,
		N:         n,
	}, nil
}

// neweyWestStdErr computes HAC standard errors with Bartlett weights:
//
//	cov = (X'X)⁻¹ S (X'X)⁻¹,  S = Γ₀ + Σ_{l=1..L} w_l (Γ_l + Γ_l')
//
// where Γ_l stacks cross-products of the score x_t·u_t at lag l.
func neweyWestStdErr(X *mat.Dense, resid []float64, xtxInv *mat.Dense, lags int) ([]float64, error) {
	n, p := X.Dims()

	// Scores g_t = x_t * u_t
	scores := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			scores.Set(i, j, X.At(i, j)*resid[i])
		}
	}

	S := mat.NewDense(p, p, nil)
	for l := 0; l <= lags; l++ {
		weight := 1 - float64(l)/float64(lags+1)

		gamma := mat.NewDense(p, p, nil)
		for t := l; t < n; t++ {
			for a := 0; a < p; a++ {
				for b := 0; b < p; b++ {
					gamma.Set(a, b, gamma.At(a, b)+scores.At(t, a)*scores.At(t-l, b))
				}
			}
		}

		if l == 0 {
			S.Add(S, gamma)
			continue
		}
		var sym mat.Dense
		sym.Add(gamma, gamma.T())
		sym.Scale(weight, &sym)
		S.Add(S, &sym)
	}

	var tmp, cov mat.Dense
	tmp.Mul(xtxInv, S)
	cov.Mul(&tmp, xtxInv)

	se := make([]float64, p)
	for j := 0; j < p; j++ {
		v := cov.At(j, j)
		if v < 0 {
			return nil, fmt.Errorf("HAC covariance has negative diagonal at %d", j)
		}
		se[j] = math.Sqrt(v)
	}
	return se, nil
}
