package render

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"divcli/internal/config"
	"divcli/internal/regress"
	"divcli/internal/stats"
)

// Writer renders output artifacts into the configured tables and figures
// directories
type Writer struct {
	paths *config.Paths
}

// NewWriter creates a writer bound to the application paths
func NewWriter(paths *config.Paths) *Writer {
	return &Writer{paths: paths}
}

// WriteRegressionTable writes the pooled regression as a LaTeX fragment
// plus a CSV mirror carrying both classical and Newey-West errors
func (w *Writer) WriteRegressionTable(res *regress.Result) error {
	slog.Info("Writing regression table",
		slog.String("tex_path", w.paths.RegressionTableTex),
		slog.Int("observations", res.N))

	if err := writeFile(w.paths.RegressionTableTex, []byte(RegressionTableTex(res))); err != nil {
		return fmt.Errorf("failed to write regression table: %w", err)
	}

	records := make([][]string, 0, len(res.Names)+2)
	for j, name := range res.Names {
		records = append(records, []string{
			name,
			formatFloat(res.Coef[j]),
			formatFloat(res.StdErr[j]),
			formatFloat(res.HACStdErr[j]),
		})
	}
	records = append(records,
		[]string{"R2", formatFloat(res.R2), "", ""},
		[]string{"Observations", strconv.Itoa(res.N), "", ""})

	headers := []string{"Coefficient", "Estimate", "StdErr", "NeweyWestStdErr"}
	if err := writeCSV(w.paths.RegressionTableCSV, headers, records); err != nil {
		return fmt.Errorf("failed to write regression CSV: %w", err)
	}
	return nil
}

// WriteSummaryTable writes the descriptive statistics as a LaTeX fragment
// plus a CSV mirror
func (w *Writer) WriteSummaryTable(summaries []stats.Summary) error {
	slog.Info("Writing summary statistics table",
		slog.String("tex_path", w.paths.SummaryTableTex),
		slog.Int("series_count", len(summaries)))

	if err := writeFile(w.paths.SummaryTableTex, []byte(SummaryTableTex(summaries))); err != nil {
		return fmt.Errorf("failed to write summary table: %w", err)
	}

	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Name,
			strconv.Itoa(s.Count),
			formatFloat(s.Mean),
			formatFloat(s.Std),
			formatFloat(s.Min),
			formatFloat(s.Max),
			formatFloat(s.Skew),
			formatFloat(s.Kurtosis),
		})
	}

	headers := []string{"Series", "Count", "Mean", "Std", "Min", "Max", "Skew", "Kurtosis"}
	if err := writeCSV(w.paths.SummaryTableCSV, headers, records); err != nil {
		return fmt.Errorf("failed to write summary CSV: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// writeFile creates the parent directory and writes the content atomically
// enough for a batch run
func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, content, 0644)
}

// writeCSV writes headers and records to a CSV file
func writeCSV(path string, headers []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
