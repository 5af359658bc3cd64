package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportKind names the command that produced a report.
type ReportKind string

const (
	ReportProjection ReportKind = "projection"
	ReportComparison ReportKind = "comparison"
	ReportSolve      ReportKind = "solve"
	ReportRanking    ReportKind = "ranking"
)

// Report is everything a formatter needs to render the result of one run.
type Report struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Kind        ReportKind `json:"kind"`
	Assumptions []string   `json:"assumptions"`
	BasePolicy  Policy     `json:"base_policy"`
	Policy      *Policy    `json:"policy,omitempty"`
	Coverage    Coverage   `json:"coverage"`

	Projection ProjectionSeries    `json:"projection,omitempty"`
	Diff       *ScenarioDiff       `json:"diff,omitempty"`
	Solve      *SolveResult        `json:"solve,omitempty"`
	Ordered    *OrderedSolveResult `json:"ordered,omitempty"`

	Taxpayer       *Taxpayer          `json:"taxpayer,omitempty"`
	Impacts        []LeverImpact      `json:"impacts,omitempty"`
	RevenueGains   []RevenueGain      `json:"revenue_gains,omitempty"`
	EffectiveRates []EffectiveRateRow `json:"effective_rates,omitempty"`
}

// Covered returns the amount covered by the report's policy change, if any.
func (r *Report) Covered() decimal.Decimal {
	switch {
	case r.Ordered != nil:
		return r.Ordered.TotalCovered
	case r.Solve != nil:
		return r.Solve.TotalCovered
	case r.Diff != nil:
		return r.Diff.CumulativeTotalDifference
	}
	return decimal.Zero
}

// ActiveDiff returns the comparison behind the report, if any.
func (r *Report) ActiveDiff() *ScenarioDiff {
	if r.Diff != nil {
		return r.Diff
	}
	if r.Solve != nil {
		return r.Solve.Diff
	}
	return nil
}
