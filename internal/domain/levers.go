package domain

import (
	"github.com/shopspring/decimal"
)

// Lever is a policy rate the solver may raise.
type Lever string

const (
	LeverIncome    Lever = "income"
	LeverHI        Lever = "hi"
	LeverAddHI     Lever = "add_hi"
	LeverCorporate Lever = "corporate"
)

// Levers lists the levers in the order they are applied within one iteration.
var Levers = []Lever{LeverIncome, LeverHI, LeverAddHI, LeverCorporate}

// LeverSet carries one value per lever (increments or caps).
type LeverSet struct {
	Income    decimal.Decimal `yaml:"income" json:"income" validate:"gte=0,lte=1"`
	HI        decimal.Decimal `yaml:"hi" json:"hi" validate:"gte=0,lte=1"`
	AddHI     decimal.Decimal `yaml:"add_hi" json:"add_hi" validate:"gte=0,lte=1"`
	Corporate decimal.Decimal `yaml:"corporate" json:"corporate" validate:"gte=0,lte=1"`
}

// Get returns the value for a lever.
func (ls LeverSet) Get(l Lever) decimal.Decimal {
	switch l {
	case LeverIncome:
		return ls.Income
	case LeverHI:
		return ls.HI
	case LeverAddHI:
		return ls.AddHI
	case LeverCorporate:
		return ls.Corporate
	}
	return decimal.Zero
}

// Only returns a set with v on lever l and zero elsewhere.
func Only(l Lever, v decimal.Decimal) LeverSet {
	var ls LeverSet
	switch l {
	case LeverIncome:
		ls.Income = v
	case LeverHI:
		ls.HI = v
	case LeverAddHI:
		ls.AddHI = v
	case LeverCorporate:
		ls.Corporate = v
	}
	return ls
}

// Taxpayer is a single filer used to measure the incidence of a lever.
type Taxpayer struct {
	Income decimal.Decimal `yaml:"income" json:"income" validate:"gte=0"`
	Status FilingStatus    `yaml:"status" json:"status" validate:"required"`
}

// SolveRequest parameterises one constrained rate search.
type SolveRequest struct {
	// Ratio spreads income-tax increments across brackets; 1 is a flat increase.
	Ratio          decimal.Decimal
	Increments     LeverSet
	Caps           LeverSet
	Target         decimal.Decimal
	AlreadyCovered decimal.Decimal
	// MaxIterations bounds the search; zero leaves it bounded only by the caps.
	MaxIterations int
}

// StopReason records why a constrained search ended.
type StopReason string

const (
	StopTargetMet      StopReason = "target_met"
	StopLeversFrozen   StopReason = "levers_frozen"
	StopIterationLimit StopReason = "iteration_limit"
)

// SolveResult is the outcome of a constrained rate search.
type SolveResult struct {
	Policy            Policy          `json:"policy"`
	CoveredByThisCall decimal.Decimal `json:"covered_by_this_call"`
	AlreadyCovered    decimal.Decimal `json:"already_covered"`
	TotalCovered      decimal.Decimal `json:"total_covered"`
	Iterations        int             `json:"iterations"`
	StopReason        StopReason      `json:"stop_reason"`
	// PartialCoverage is set when the search ended before reaching the target.
	PartialCoverage bool          `json:"partial_coverage"`
	Diff            *ScenarioDiff `json:"diff,omitempty"`
}

// LeverImpact is the change in a taxpayer's effective rate from one increment on a lever.
type LeverImpact struct {
	Lever          Lever           `json:"lever"`
	EffectiveDelta decimal.Decimal `json:"effective_delta"`
}

// RevenueGain is the cumulative revenue raised by one increment on a lever.
type RevenueGain struct {
	Lever   Lever           `json:"lever"`
	Revenue decimal.Decimal `json:"revenue"`
}

// LeverStep is the search run for one lever while applying levers in impact order.
type LeverStep struct {
	Lever     Lever           `json:"lever"`
	Impact    decimal.Decimal `json:"impact"`
	Increment decimal.Decimal `json:"increment"`
	Result    *SolveResult    `json:"result"`
}

// OrderedSolveResult is the outcome of applying levers in ascending impact order.
type OrderedSolveResult struct {
	Policy       Policy          `json:"policy"`
	Steps        []LeverStep     `json:"steps"`
	Covered      decimal.Decimal `json:"covered"`
	TotalCovered decimal.Decimal `json:"total_covered"`
}

// EffectiveRateRow compares a taxpayer's total effective rate under two policies.
type EffectiveRateRow struct {
	Status   FilingStatus    `json:"status"`
	Income   decimal.Decimal `json:"income"`
	Baseline decimal.Decimal `json:"baseline"`
	Modified decimal.Decimal `json:"modified"`
	Change   decimal.Decimal `json:"change"`
}
