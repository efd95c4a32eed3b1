package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: pulled data under
// DATA_DIR, rendered artifacts under OUTPUT_DIR.
type Paths struct {
	DataDir    string
	CacheDir   string
	ManualDir  string
	OutputDir  string
	TablesDir  string
	FiguresDir string
	LogsDir    string

	// Well-known manual workbooks (fallback when no provider is configured)
	IndexPricesXLSX    string
	EquityDividendXLSX string

	// Well-known output artifacts
	RegressionTableTex string
	RegressionTableCSV string
	SummaryTableTex    string
	SummaryTableCSV    string
	Figure1PNG         string
	ScatterPNG         string
	Figure5PanelAPNG   string
	Figure5PanelBPNG   string
}

// NewPaths derives the full path set from the configured base directories.
// Directory layout:
//
//	data/
//	  ├── cache/        (one CSV per pulled series, no eviction)
//	data_manual/        (hand-maintained Excel fallback workbooks)
//	output/
//	  ├── tables/       (LaTeX fragments + CSV mirrors)
//	  └── figures/      (PNG line charts)
//	logs/
func NewPaths(cfg PathsConfig) *Paths {
	tablesDir := filepath.Join(cfg.OutputDir, "tables")
	figuresDir := filepath.Join(cfg.OutputDir, "figures")

	return &Paths{
		DataDir:    cfg.DataDir,
		CacheDir:   filepath.Join(cfg.DataDir, "cache"),
		ManualDir:  cfg.ManualDir,
		OutputDir:  cfg.OutputDir,
		TablesDir:  tablesDir,
		FiguresDir: figuresDir,
		LogsDir:    "logs",

		IndexPricesXLSX:    filepath.Join(cfg.ManualDir, "index_prices.xlsx"),
		EquityDividendXLSX: filepath.Join(cfg.ManualDir, "equity_dividend.xlsx"),

		RegressionTableTex: filepath.Join(tablesDir, "table1.tex"),
		RegressionTableCSV: filepath.Join(tablesDir, "table1.csv"),
		SummaryTableTex:    filepath.Join(tablesDir, "additional_stats.tex"),
		SummaryTableCSV:    filepath.Join(tablesDir, "additional_stats.csv"),
		Figure1PNG:         filepath.Join(figuresDir, "figure1.png"),
		ScatterPNG:         filepath.Join(figuresDir, "dividend_growth_vs_yield.png"),
		Figure5PanelAPNG:   filepath.Join(figuresDir, "figure5_panel_a.png"),
		Figure5PanelBPNG:   filepath.Join(figuresDir, "figure5_panel_b.png"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.CacheDir,
		p.OutputDir,
		p.TablesDir,
		p.FiguresDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetCachePath returns the full path for a cache file
func (p *Paths) GetCachePath(filename string) string {
	return filepath.Join(p.CacheDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
