package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Assumptions is the immutable configuration of a projection run.
type Assumptions struct {
	StartYear         int             `yaml:"start_year" json:"start_year" validate:"required,gt=0"`
	Years             int             `yaml:"years" json:"years" validate:"required,gt=0,lte=100"`
	Inflation         decimal.Decimal `yaml:"inflation" json:"inflation" validate:"gte=-0.1,lte=0.5"`
	PopulationGrowth  decimal.Decimal `yaml:"population_growth" json:"population_growth" validate:"gte=-0.1,lte=0.5"`
	GDPGrowth         decimal.Decimal `yaml:"gdp_growth" json:"gdp_growth" validate:"gte=-0.5,lte=0.5"`
	IncomeBaseYear    int             `yaml:"income_base_year" json:"income_base_year" validate:"required,gt=0"`
	CorporateBaseYear int             `yaml:"corporate_base_year" json:"corporate_base_year" validate:"required,gt=0"`
	// ScheduleYear is the year the policy's thresholds and deductions are stated in.
	ScheduleYear int `yaml:"schedule_year" json:"schedule_year" validate:"required,gt=0"`
}

// Describe lists the assumptions as human-readable lines for reports.
func (a Assumptions) Describe() []string {
	hundred := decimal.NewFromInt(100)
	return []string{
		fmt.Sprintf("Projection: %d years starting %d", a.Years, a.StartYear),
		fmt.Sprintf("Inflation: %s%% annually", a.Inflation.Mul(hundred).StringFixed(2)),
		fmt.Sprintf("Population growth: %s%% annually", a.PopulationGrowth.Mul(hundred).StringFixed(2)),
		fmt.Sprintf("GDP growth: %s%% annually", a.GDPGrowth.Mul(hundred).StringFixed(2)),
		fmt.Sprintf("Income and payroll statistics aged from %d", a.IncomeBaseYear),
		fmt.Sprintf("Corporate taxable income backed out from %d collections", a.CorporateBaseYear),
		fmt.Sprintf("Brackets and deductions indexed from %d levels", a.ScheduleYear),
		"Share of HI wages above the additional-HI threshold held at base-year level",
	}
}

// Coverage is the revenue target a set of rate increases has to meet.
type Coverage struct {
	TotalCost       decimal.Decimal `yaml:"total_cost" json:"total_cost" validate:"gte=0"`
	DesiredCoverage decimal.Decimal `yaml:"desired_coverage" json:"desired_coverage" validate:"gte=0,lte=1"`
}

// Target returns the absolute amount to be covered.
func (c Coverage) Target() decimal.Decimal {
	return c.DesiredCoverage.Mul(c.TotalCost)
}

// IsCovered reports whether amount meets the target.
func (c Coverage) IsCovered(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(c.Target())
}

// PercentOfCost returns amount as a percentage of total cost.
func (c Coverage) PercentOfCost(amount decimal.Decimal) decimal.Decimal {
	if c.TotalCost.IsZero() {
		return decimal.Zero
	}
	return amount.Div(c.TotalCost).Mul(decimal.NewFromInt(100))
}
