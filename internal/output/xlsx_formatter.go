package output

import (
	"fmt"

	"github.com/taxrev/revenue-projector/internal/domain"
	"github.com/xuri/excelize/v2"
)

// XLSXFormatter writes the report as an Excel workbook: a summary sheet, one
// sheet per revenue series, and the lever and effective-rate tables when present.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(report *domain.Report) ([]byte, error) {
	summary, err := Summarize(report)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, err
	}
	rows := [][]interface{}{
		{"Run", report.RunID},
		{"Kind", string(report.Kind)},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Years", summary.Years},
		{"Cumulative", summary.Cumulative.InexactFloat64()},
		{"Mean", summary.Mean.InexactFloat64()},
		{"Median", summary.Median.InexactFloat64()},
		{"Std dev", summary.StdDev.InexactFloat64()},
		{"Target", summary.Target.InexactFloat64()},
		{"Covered", summary.Covered.InexactFloat64()},
		{"Target met", boolToString(summary.TargetMet)},
	}
	for _, a := range reportAssumptions(report) {
		rows = append(rows, []interface{}{"Assumption", a})
	}
	if err := writeSheet(f, "Summary", []string{"Field", "Value"}, rows); err != nil {
		return nil, err
	}

	header := []string{"Year"}
	for _, c := range domain.Categories {
		header = append(header, string(c))
	}
	header = append(header, "total")
	for _, ns := range reportSeries(report) {
		data := make([][]interface{}, 0, len(ns.Series))
		for _, y := range ns.Series {
			row := []interface{}{y.Year}
			for _, c := range domain.Categories {
				row = append(row, y.Get(c).InexactFloat64())
			}
			data = append(data, append(row, y.Total().InexactFloat64()))
		}
		if err := addSheet(f, ns.Name, header, data); err != nil {
			return nil, err
		}
	}

	if len(report.Impacts) > 0 {
		data := make([][]interface{}, 0, len(report.Impacts))
		for _, imp := range report.Impacts {
			data = append(data, []interface{}{string(imp.Lever), imp.EffectiveDelta.InexactFloat64()})
		}
		if err := addSheet(f, "levers", []string{"Lever", "Effective rate impact"}, data); err != nil {
			return nil, err
		}
	}

	if len(report.EffectiveRates) > 0 {
		data := make([][]interface{}, 0, len(report.EffectiveRates))
		for _, r := range report.EffectiveRates {
			data = append(data, []interface{}{
				string(r.Status), r.Income.InexactFloat64(), r.Baseline.InexactFloat64(),
				r.Modified.InexactFloat64(), r.Change.InexactFloat64(),
			})
		}
		if err := addSheet(f, "effective rates", []string{"Status", "Income", "Baseline", "Modified", "Change"}, data); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func addSheet(f *excelize.File, name string, header []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeSheet(f, name, header, rows)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
