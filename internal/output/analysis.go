package output

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
)

// Summary describes the yearly totals a report is about: the difference
// series for comparisons, the projection itself otherwise.
type Summary struct {
	Years           int
	Cumulative      decimal.Decimal
	Mean            decimal.Decimal
	Median          decimal.Decimal
	StdDev          decimal.Decimal
	Min             decimal.Decimal
	Max             decimal.Decimal
	LargestCategory domain.Category
	Target          decimal.Decimal
	Covered         decimal.Decimal
	PercentOfCost   decimal.Decimal
	TargetMet       bool
}

// Series returns the yearly series a report is summarised on.
func Series(report *domain.Report) domain.ProjectionSeries {
	if diff := report.ActiveDiff(); diff != nil {
		return diff.Difference
	}
	return report.Projection
}

// Summarize computes the statistics of a report's yearly totals.
func Summarize(report *domain.Report) (Summary, error) {
	series := Series(report)
	s := Summary{
		Years:      len(series),
		Cumulative: series.Total(),
		Target:     report.Coverage.Target(),
		Covered:    report.Covered(),
	}
	s.PercentOfCost = report.Coverage.PercentOfCost(s.Covered)
	s.TargetMet = report.Kind != domain.ReportProjection && report.Coverage.IsCovered(s.Covered)
	if len(series) == 0 {
		return s, nil
	}

	data := make(stats.Float64Data, len(series))
	for i, y := range series {
		data[i] = y.Total().InexactFloat64()
	}
	var err error
	values := make([]float64, 5)
	for i, fn := range []func(stats.Float64Data) (float64, error){
		stats.Mean, stats.Median, stats.StandardDeviation, stats.Min, stats.Max,
	} {
		if values[i], err = fn(data); err != nil {
			return Summary{}, fmt.Errorf("failed to summarise yearly totals: %w", err)
		}
	}
	s.Mean = decimal.NewFromFloat(values[0]).Round(0)
	s.Median = decimal.NewFromFloat(values[1]).Round(0)
	s.StdDev = decimal.NewFromFloat(values[2]).Round(0)
	s.Min = decimal.NewFromFloat(values[3]).Round(0)
	s.Max = decimal.NewFromFloat(values[4]).Round(0)

	totals := series.CategoryTotals()
	best := decimal.Zero
	for _, c := range domain.Categories {
		if v := totals.Get(c).Abs(); v.GreaterThan(best) {
			best = v
			s.LargestCategory = c
		}
	}
	return s, nil
}
