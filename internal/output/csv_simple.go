package output

import (
	"bytes"
	"encoding/csv"

	"github.com/taxrev/revenue-projector/internal/domain"
)

// CSVSummarizer writes one row per projection year of the report's main series
// with a running cumulative total.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "Income", "OASDI", "HI", "AddHI", "Corporate", "Total", "Cumulative"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	series := Series(report)
	cumulative := series.Cumulative()
	for i, y := range series {
		row := []string{
			intToString(y.Year),
			y.Income.StringFixed(2),
			y.OASDI.StringFixed(2),
			y.HI.StringFixed(2),
			y.AddHI.StringFixed(2),
			y.Corporate.StringFixed(2),
			y.Total().StringFixed(2),
			cumulative[i].StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
