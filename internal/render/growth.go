package render

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"divcli/internal/series"
)

// keyEvent is a dated pandemic milestone annotated on the growth figures
type keyEvent struct {
	date  time.Time
	label string
}

var keyEvents = []keyEvent{
	{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "Jan 1"},
	{time.Date(2020, 1, 23, 0, 0, 0, 0, time.UTC), "Wuhan Lockdown"},
	{time.Date(2020, 2, 22, 0, 0, 0, 0, time.UTC), "Italy Quarantine"},
	{time.Date(2020, 3, 11, 0, 0, 0, 0, time.UTC), "US Travel Ban"},
	{time.Date(2020, 3, 13, 0, 0, 0, 0, time.UTC), "US Emergency"},
	{time.Date(2020, 3, 24, 0, 0, 0, 0, time.UTC), "Fiscal Stimulus"},
}

// WriteGrowthExpectationsFigures draws the two expectations panels: the
// change in expected dividend growth per region, and its GDP counterpart.
// Both share the region line styles and the key-event markers.
func (w *Writer) WriteGrowthExpectationsFigures(dividend, gdp []series.Series) error {
	if len(dividend) == 0 {
		return fmt.Errorf("no forecast series to plot")
	}

	slog.Info("Writing growth expectations figures",
		slog.String("panel_a", w.paths.Figure5PanelAPNG),
		slog.String("panel_b", w.paths.Figure5PanelBPNG),
		slog.Int("region_count", len(dividend)))

	if err := growthPanel(w.paths.Figure5PanelAPNG, "Panel A: Expected Dividend Growth", dividend); err != nil {
		return err
	}
	return growthPanel(w.paths.Figure5PanelBPNG, "Panel B: Expected GDP Growth", gdp)
}

// growthPanel draws one expectations panel: a line per region plus dashed
// vertical markers at the key-event dates inside the plotted range
func growthPanel(path, title string, ss []series.Series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Y.Label.Text = "Change in expected growth (%)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true

	var (
		haveRange  bool
		xMin, xMax float64
		yMin, yMax float64
	)
	for i, s := range ss {
		line, err := plotter.NewLine(seriesXYs(s))
		if err != nil {
			return fmt.Errorf("failed to build line for %s: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)

		for _, pt := range s.Points {
			x, y := float64(pt.Date.Unix()), pt.Value
			if !haveRange {
				xMin, xMax, yMin, yMax = x, x, y, y
				haveRange = true
				continue
			}
			if x < xMin {
				xMin = x
			}
			if x > xMax {
				xMax = x
			}
			if y < yMin {
				yMin = y
			}
			if y > yMax {
				yMax = y
			}
		}
	}

	if haveRange {
		for _, ev := range keyEvents {
			x := float64(ev.date.Unix())
			if x < xMin || x > xMax {
				continue
			}
			marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}})
			if err != nil {
				return fmt.Errorf("failed to build marker for %s: %w", ev.label, err)
			}
			marker.LineStyle = draw.LineStyle{
				Color:  color.Gray{Y: 120},
				Width:  vg.Points(0.75),
				Dashes: []vg.Length{vg.Points(4), vg.Points(3)},
			}
			p.Add(marker)

			labels, err := plotter.NewLabels(plotter.XYLabels{
				XYs:    plotter.XYs{{X: x, Y: yMax}},
				Labels: []string{ev.label},
			})
			if err != nil {
				return fmt.Errorf("failed to build label for %s: %w", ev.label, err)
			}
			p.Add(labels)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return p.Save(9*vg.Inch, 5*vg.Inch, path)
}
