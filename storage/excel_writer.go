package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"superhost-analysis/models"
)

const (
	summarySheet      = "Summary"
	metricsSheet      = "Metrics"
	reviewScoresSheet = "Review scores"
	maxSheetName      = 31
)

// ExcelWriter writes the host comparison report as an xlsx workbook.
type ExcelWriter struct {
	path string
}

// NewExcelWriter creates a writer for the workbook at path.
func NewExcelWriter(path string) *ExcelWriter {
	return &ExcelWriter{path: path}
}

// WriteSummary writes a Summary sheet, one sheet per comparison list and one
// per percent table, replacing any previous workbook.
func (w *ExcelWriter) WriteSummary(report *models.HostReport, tables []models.PercentTable) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("excel: create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("excel: rename sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Run ID", report.RunID},
		{"Generated at", report.GeneratedAt.Format(time.RFC3339)},
		{"Total listings", report.TotalListings},
		{"Superhost listings", report.Superhosts},
		{"Host listings", report.RegularHosts},
		{"Unknown host type", report.UnknownHostType},
		{"Mean distance to centre (km), Superhost", report.MeanDistanceSuperhost},
		{"Mean distance to centre (km), Host", report.MeanDistanceHost},
		{"Median distance to centre (km), Superhost", report.MedianDistanceSuperhost},
		{"Median distance to centre (km), Host", report.MedianDistanceHost},
		{"Multi-listing share, Superhost", report.MultiListingShareSuper},
		{"Multi-listing share, Host", report.MultiListingShareHost},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	if err := writeComparisons(f, metricsSheet, report.Metrics); err != nil {
		return err
	}
	if err := writeComparisons(f, reviewScoresSheet, report.ReviewScores); err != nil {
		return err
	}

	for _, t := range tables {
		if err := writePercentTable(f, t); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("excel: save %s: %w", w.path, err)
	}
	return nil
}

func writeComparisons(f *excelize.File, sheet string, rows []models.MetricComparison) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("excel: new sheet %s: %w", sheet, err)
	}
	out := [][]interface{}{{"metric", "superhost_mean", "host_mean", "superhost_n", "host_n", "t_statistic", "p_value", "significance"}}
	for _, m := range rows {
		out = append(out, []interface{}{m.Metric, m.SuperhostMean, m.HostMean, m.SuperhostN, m.HostN, m.TStatistic, m.PValue, m.Significance})
	}
	return writeRows(f, sheet, out)
}

func writePercentTable(f *excelize.File, t models.PercentTable) error {
	sheet := sheetName(t.Name)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("excel: new sheet %s: %w", sheet, err)
	}
	header := []interface{}{t.Outer}
	for _, in := range t.Inner {
		header = append(header, in)
	}
	header = append(header, "count", "percent")

	out := [][]interface{}{header}
	for _, r := range t.Rows {
		row := []interface{}{r.Outer}
		for _, in := range r.Inner {
			row = append(row, in)
		}
		row = append(row, r.Count, r.Percent)
		out = append(out, row)
	}
	return writeRows(f, sheet, out)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("excel: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("excel: write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// sheetName strips characters Excel rejects and truncates to its length limit.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "table"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
