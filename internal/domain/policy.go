package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// FilingStatus identifies a federal filing status.
type FilingStatus string

const (
	Single          FilingStatus = "single"
	MarriedJoint    FilingStatus = "married_joint"
	MarriedSeparate FilingStatus = "married_separate"
	HeadOfHousehold FilingStatus = "head_of_household"
)

// FilingStatuses lists the statuses in their canonical order.
var FilingStatuses = []FilingStatus{Single, MarriedJoint, MarriedSeparate, HeadOfHousehold}

// Bracket is a marginal rate and the taxable income at which it begins.
type Bracket struct {
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
}

// StatusBrackets holds the brackets of one filing status, ascending by rate.
type StatusBrackets struct {
	Status   FilingStatus `yaml:"status" json:"status" validate:"required"`
	Brackets []Bracket    `yaml:"brackets" json:"brackets" validate:"required,min=1"`
}

// BracketSchedule is the rate/threshold table for every filing status.
// Transformations never modify a schedule in place; use Clone before editing.
type BracketSchedule []StatusBrackets

// For returns the brackets of a filing status.
func (bs BracketSchedule) For(status FilingStatus) ([]Bracket, bool) {
	for _, sb := range bs {
		if sb.Status == status {
			return sb.Brackets, true
		}
	}
	return nil, false
}

// Statuses returns the filing statuses present in the schedule.
func (bs BracketSchedule) Statuses() []FilingStatus {
	out := make([]FilingStatus, 0, len(bs))
	for _, sb := range bs {
		out = append(out, sb.Status)
	}
	return out
}

// Clone returns a deep copy of the schedule.
func (bs BracketSchedule) Clone() BracketSchedule {
	if bs == nil {
		return nil
	}
	out := make(BracketSchedule, len(bs))
	for i, sb := range bs {
		out[i] = StatusBrackets{Status: sb.Status, Brackets: append([]Bracket(nil), sb.Brackets...)}
	}
	return out
}

// TopRate returns the highest marginal rate across all filing statuses.
func (bs BracketSchedule) TopRate() decimal.Decimal {
	top := decimal.Zero
	for _, sb := range bs {
		for _, b := range sb.Brackets {
			if b.Rate.GreaterThan(top) {
				top = b.Rate
			}
		}
	}
	return top
}

// Rates returns the distinct marginal rates in ascending order.
func (bs BracketSchedule) Rates() []decimal.Decimal {
	var rates []decimal.Decimal
	for _, sb := range bs {
		for _, b := range sb.Brackets {
			seen := false
			for _, r := range rates {
				if r.Equal(b.Rate) {
					seen = true
					break
				}
			}
			if !seen {
				rates = append(rates, b.Rate)
			}
		}
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].LessThan(rates[j]) })
	return rates
}

// Validate checks that every status lists rates and thresholds in strictly ascending order.
func (bs BracketSchedule) Validate() error {
	seen := make(map[FilingStatus]bool, len(bs))
	for _, sb := range bs {
		if seen[sb.Status] {
			return fmt.Errorf("filing status %q appears more than once", sb.Status)
		}
		seen[sb.Status] = true
		for i := 1; i < len(sb.Brackets); i++ {
			prev, cur := sb.Brackets[i-1], sb.Brackets[i]
			if !cur.Rate.GreaterThan(prev.Rate) {
				return fmt.Errorf("%s: rate %s does not exceed previous rate %s", sb.Status, cur.Rate, prev.Rate)
			}
			if !cur.Threshold.GreaterThan(prev.Threshold) {
				return fmt.Errorf("%s: threshold %s does not exceed previous threshold %s", sb.Status, cur.Threshold, prev.Threshold)
			}
		}
	}
	return nil
}

// StandardDeduction maps a filing status to its deduction amount.
type StandardDeduction map[FilingStatus]decimal.Decimal

// Clone returns a copy of the deduction table.
func (sd StandardDeduction) Clone() StandardDeduction {
	if sd == nil {
		return nil
	}
	out := make(StandardDeduction, len(sd))
	for k, v := range sd {
		out[k] = v
	}
	return out
}

// PayrollPolicy describes the OASDI and HI (Medicare) payroll taxes.
// HIRate and OASDIRate are combined employer plus employee rates.
type PayrollPolicy struct {
	OASDIRate       decimal.Decimal                  `yaml:"oasdi_rate" json:"oasdi_rate" validate:"gte=0,lte=1"`
	OASDICap        decimal.Decimal                  `yaml:"oasdi_cap" json:"oasdi_cap" validate:"gte=0"`
	HIRate          decimal.Decimal                  `yaml:"hi_rate" json:"hi_rate" validate:"gte=0,lte=1"`
	AddHIRate       decimal.Decimal                  `yaml:"add_hi_rate" json:"add_hi_rate" validate:"gte=0,lte=1"`
	AddHIThresholds map[FilingStatus]decimal.Decimal `yaml:"add_hi_thresholds" json:"add_hi_thresholds" validate:"required"`
}

// Clone returns a deep copy of the payroll policy.
func (pp PayrollPolicy) Clone() PayrollPolicy {
	out := pp
	if pp.AddHIThresholds != nil {
		out.AddHIThresholds = make(map[FilingStatus]decimal.Decimal, len(pp.AddHIThresholds))
		for k, v := range pp.AddHIThresholds {
			out.AddHIThresholds[k] = v
		}
	}
	return out
}

// Policy is the complete set of rates a projection runs under.
type Policy struct {
	Name              string            `yaml:"name,omitempty" json:"name,omitempty"`
	Brackets          BracketSchedule   `yaml:"brackets" json:"brackets" validate:"required,min=1,dive"`
	StandardDeduction StandardDeduction `yaml:"standard_deduction" json:"standard_deduction" validate:"required"`
	Payroll           PayrollPolicy     `yaml:"payroll" json:"payroll"`
	CorporateRate     decimal.Decimal   `yaml:"corporate_rate" json:"corporate_rate" validate:"gt=0,lte=1"`
}

// Clone returns a deep copy of the policy so that branches never share tables.
func (p Policy) Clone() Policy {
	return Policy{
		Name:              p.Name,
		Brackets:          p.Brackets.Clone(),
		StandardDeduction: p.StandardDeduction.Clone(),
		Payroll:           p.Payroll.Clone(),
		CorporateRate:     p.CorporateRate,
	}
}

// Proposal is a named set of replacement rates applied to a base policy.
// Nil fields keep the base policy's value.
type Proposal struct {
	Name          string            `yaml:"name" json:"name" validate:"required"`
	IncomeRates   []decimal.Decimal `yaml:"income_rates,omitempty" json:"income_rates,omitempty"`
	HIRate        *decimal.Decimal  `yaml:"hi_rate,omitempty" json:"hi_rate,omitempty"`
	AddHIRate     *decimal.Decimal  `yaml:"add_hi_rate,omitempty" json:"add_hi_rate,omitempty"`
	CorporateRate *decimal.Decimal  `yaml:"corporate_rate,omitempty" json:"corporate_rate,omitempty"`
}

// WithProposal derives a new policy from p with the proposal's rates swapped in.
// Income rates replace each status's bracket rates by index, lowest first.
func (p Policy) WithProposal(pr Proposal) (Policy, error) {
	out := p.Clone()
	out.Name = pr.Name
	if len(pr.IncomeRates) > 0 {
		for i, sb := range out.Brackets {
			if len(sb.Brackets) != len(pr.IncomeRates) {
				return Policy{}, fmt.Errorf("proposal %q lists %d income rates, %s has %d brackets",
					pr.Name, len(pr.IncomeRates), sb.Status, len(sb.Brackets))
			}
			for j := range sb.Brackets {
				out.Brackets[i].Brackets[j].Rate = pr.IncomeRates[j]
			}
		}
		if err := out.Brackets.Validate(); err != nil {
			return Policy{}, fmt.Errorf("proposal %q: %w", pr.Name, err)
		}
	}
	if pr.HIRate != nil {
		out.Payroll.HIRate = *pr.HIRate
	}
	if pr.AddHIRate != nil {
		out.Payroll.AddHIRate = *pr.AddHIRate
	}
	if pr.CorporateRate != nil {
		out.CorporateRate = *pr.CorporateRate
	}
	return out, nil
}
