package output

import (
	"bytes"
	"encoding/csv"

	"github.com/taxrev/revenue-projector/internal/domain"
)

// CSVDetailedExporter writes every series of the report in long form, one row
// per series, year and category.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

type namedSeries struct {
	Name   string
	Series domain.ProjectionSeries
}

func reportSeries(report *domain.Report) []namedSeries {
	if diff := report.ActiveDiff(); diff != nil {
		return []namedSeries{
			{"baseline", diff.Baseline},
			{"modified", diff.Modified},
			{"difference", diff.Difference},
		}
	}
	return []namedSeries{{"projection", report.Projection}}
}

func (c CSVDetailedExporter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Series", "Year", "Category", "Amount"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, ns := range reportSeries(report) {
		for _, y := range ns.Series {
			for _, cat := range domain.Categories {
				row := []string{ns.Name, intToString(y.Year), string(cat), y.Get(cat).StringFixed(2)}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
