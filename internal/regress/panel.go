package regress

import (
	"math"
	"sort"
	"time"

	"divcli/internal/series"
)

// GrowthLeadQuarters is the lead between a yield observation and the
// realized growth it predicts: growth from quarter t to t+4 is regressed on
// the yield observed at t.
const GrowthLeadQuarters = 4

// Row is one pooled-panel observation
type Row struct {
	Index          string    // index label, e.g. "SPX Index"
	YieldDate      time.Time // quarter end of the yield observation
	GrowthDate     time.Time // quarter end four quarters later
	EquityYield    float64   // e^(n) at YieldDate
	DividendGrowth float64   // ln D(GrowthDate) - ln D(YieldDate)
}

// PanelInput is one index's raw series feeding the panel
type PanelInput struct {
	Index     string
	Dividends series.Series // daily dividend levels
	Futures   series.Series // daily n-year futures prices
}

// BuildPanel assembles the pooled regression panel: per index, quarterly
// e^(n) observations paired with the realized log dividend growth exactly
// four quarters ahead. Quarters where the dividend or futures leg is
// non-positive never enter the panel.
//
// The futures series start in 2015, so the panel is far smaller than the
// study's ≈143 observations. That low power is a documented
// limitation of the data, not something this code corrects.
func BuildPanel(inputs []PanelInput, maturity int) []Row {
	var rows []Row

	for _, in := range inputs {
		divQ := in.Dividends.ResampleQuarterEnd()
		futQ := in.Futures.ResampleQuarterEnd()
		yields := EquityYieldSeries(divQ, futQ, maturity)

		for _, p := range yields.Points {
			growthDate := series.AddQuarters(p.Date, GrowthLeadQuarters)

			dNow, okNow := divQ.At(p.Date)
			dAhead, okAhead := divQ.At(growthDate)
			if !okNow || !okAhead || dNow <= 0 || dAhead <= 0 {
				continue
			}
			growth := math.Log(dAhead) - math.Log(dNow)
			if math.IsNaN(growth) || math.IsInf(growth, 0) {
				continue
			}

			rows = append(rows, Row{
				Index:          in.Index,
				YieldDate:      p.Date,
				GrowthDate:     growthDate,
				EquityYield:    p.Value,
				DividendGrowth: growth,
			})
		}
	}

	// Stable ordering: by index, then time. HAC weighting below assumes
	// observations within an index are consecutive.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Index != rows[j].Index {
			return rows[i].Index < rows[j].Index
		}
		return rows[i].YieldDate.Before(rows[j].YieldDate)
	})

	return rows
}
