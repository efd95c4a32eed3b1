package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"divcli/internal/regress"
	"divcli/internal/series"
)

const figureCols = 3

// WriteCumulativeReturnsFigure draws one subplot per series in a tiled
// grid, each showing the cumulative growth factor over the window
func (w *Writer) WriteCumulativeReturnsFigure(ss []series.Series) error {
	if len(ss) == 0 {
		return fmt.Errorf("no series to plot")
	}

	slog.Info("Writing cumulative returns figure",
		slog.String("path", w.paths.Figure1PNG),
		slog.Int("series_count", len(ss)))

	rows := (len(ss) + figureCols - 1) / figureCols
	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, figureCols)
	}

	for i, s := range ss {
		p := plot.New()
		p.Title.Text = s.Name
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
		p.Y.Label.Text = "Cumulative growth"

		line, err := plotter.NewLine(seriesXYs(s))
		if err != nil {
			return fmt.Errorf("failed to build line for %s: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line, plotter.NewGrid())

		plots[i/figureCols][i%figureCols] = p
	}

	img := vgimg.New(vg.Points(1350), vg.Points(float64(rows)*320))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: figureCols,
		PadX: vg.Millimeter * 3,
		PadY: vg.Millimeter * 3,
	}

	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	return writePNG(w.paths.Figure1PNG, img)
}

// WriteScatterFigure draws realized dividend growth against the equity
// yield, one glyph style per index, with the pooled fitted line at the
// base-index intercept
func (w *Writer) WriteScatterFigure(rows []regress.Row, res *regress.Result) error {
	if len(rows) == 0 {
		return fmt.Errorf("no panel rows to plot")
	}

	slog.Info("Writing growth-vs-yield scatter",
		slog.String("path", w.paths.ScatterPNG),
		slog.Int("row_count", len(rows)))

	p := plot.New()
	p.Title.Text = "Dividend growth vs. equity yield"
	p.X.Label.Text = "Equity yield"
	p.Y.Label.Text = "Dividend growth, four quarters ahead"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	byIndex := make(map[string]plotter.XYs)
	for _, r := range rows {
		byIndex[r.Index] = append(byIndex[r.Index], plotter.XY{X: r.EquityYield, Y: r.DividendGrowth})
	}
	labels := make([]string, 0, len(byIndex))
	for label := range byIndex {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for i, label := range labels {
		sc, err := plotter.NewScatter(byIndex[label])
		if err != nil {
			return fmt.Errorf("failed to build scatter for %s: %w", label, err)
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(sc)
		p.Legend.Add(label, sc)
	}

	intercept := res.Coef[0]
	slope := res.Coef[len(res.Coef)-1]
	fit := plotter.NewFunction(func(x float64) float64 { return intercept + slope*x })
	fit.Width = vg.Points(1.5)
	p.Add(fit)

	if err := os.MkdirAll(filepath.Dir(w.paths.ScatterPNG), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return p.Save(7*vg.Inch, 5*vg.Inch, w.paths.ScatterPNG)
}

func seriesXYs(s series.Series) plotter.XYs {
	xys := make(plotter.XYs, s.Len())
	for i, pt := range s.Points {
		xys[i] = plotter.XY{X: float64(pt.Date.Unix()), Y: pt.Value}
	}
	return xys
}

func writePNG(path string, img *vgimg.Canvas) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
