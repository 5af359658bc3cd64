package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
)

// EffectiveRateCalculator computes single-taxpayer effective rates in a given year.
// Thresholds and deductions are grown by inflation from the schedule year without rounding.
type EffectiveRateCalculator struct {
	Inflation    decimal.Decimal
	ScheduleYear int
}

// NewEffectiveRateCalculator creates a calculator using the run's inflation and schedule year.
func NewEffectiveRateCalculator(a domain.Assumptions) EffectiveRateCalculator {
	return EffectiveRateCalculator{Inflation: a.Inflation, ScheduleYear: a.ScheduleYear}
}

func (ec EffectiveRateCalculator) factor(year int) decimal.Decimal {
	f := one
	growth := one.Add(ec.Inflation)
	for s := 0; s < steps(year, ec.ScheduleYear); s++ {
		f = f.Mul(growth)
	}
	return f
}

// IncomeTaxRate returns income tax paid divided by income, rounded to four decimals.
func (ec EffectiveRateCalculator) IncomeTaxRate(p domain.Policy, tp domain.Taxpayer, year int) (decimal.Decimal, error) {
	brackets, ok := p.Brackets.For(tp.Status)
	if !ok {
		return decimal.Zero, &StructuralMismatchError{Status: string(tp.Status), Detail: "has no brackets"}
	}
	deduction, ok := p.StandardDeduction[tp.Status]
	if !ok {
		return decimal.Zero, &StructuralMismatchError{Status: string(tp.Status), Detail: "has no standard deduction"}
	}
	if tp.Income.IsZero() {
		return decimal.Zero, nil
	}

	f := ec.factor(year)
	taxable := tp.Income.Sub(deduction.Mul(f))
	tax := decimal.Zero
	for i, br := range brackets {
		threshold := br.Threshold.Mul(f)
		if taxable.LessThan(threshold) {
			continue
		}
		if i == len(brackets)-1 {
			tax = tax.Add(br.Rate.Mul(taxable.Sub(threshold)))
			continue
		}
		next := brackets[i+1].Threshold.Mul(f)
		if taxable.LessThan(next) {
			tax = tax.Add(br.Rate.Mul(taxable.Sub(threshold)))
		} else {
			tax = tax.Add(br.Rate.Mul(next.Sub(threshold)))
		}
	}
	return tax.Div(tp.Income).Round(rateDecimals), nil
}

// PayrollTaxRate returns the employee share of payroll tax divided by income,
// rounded to four decimals. OASDI and HI are split with the employer; the
// additional HI rate is paid in full above the filer's threshold.
func (ec EffectiveRateCalculator) PayrollTaxRate(pp domain.PayrollPolicy, tp domain.Taxpayer, year int) (decimal.Decimal, error) {
	threshold, ok := pp.AddHIThresholds[tp.Status]
	if !ok {
		return decimal.Zero, &StructuralMismatchError{Status: string(tp.Status), Detail: "no additional HI threshold"}
	}
	if tp.Income.IsZero() {
		return decimal.Zero, nil
	}
	threshold = threshold.Mul(ec.factor(year))

	paid := pp.OASDIRate.Mul(decimal.Min(tp.Income, pp.OASDICap)).Div(two)
	if tp.Income.GreaterThan(threshold) {
		paid = paid.Add(pp.AddHIRate.Mul(tp.Income.Sub(threshold)))
	}
	paid = paid.Add(pp.HIRate.Mul(tp.Income).Div(two))
	return paid.Div(tp.Income).Round(rateDecimals), nil
}

// TotalRate returns the income tax rate plus the payroll tax rate.
func (ec EffectiveRateCalculator) TotalRate(p domain.Policy, tp domain.Taxpayer, year int) (decimal.Decimal, error) {
	income, err := ec.IncomeTaxRate(p, tp, year)
	if err != nil {
		return decimal.Zero, err
	}
	payroll, err := ec.PayrollTaxRate(p.Payroll, tp, year)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Add(payroll), nil
}

// EffectiveRateTable compares total effective rates under two policies for every
// filing status in the base schedule, at incomes from 0 to 500,000 in steps of 25,000.
func (ec EffectiveRateCalculator) EffectiveRateTable(base, modified domain.Policy, year int) ([]domain.EffectiveRateRow, error) {
	step := decimal.NewFromInt(25000)
	limit := decimal.NewFromInt(500000)
	var rows []domain.EffectiveRateRow
	for _, status := range base.Brackets.Statuses() {
		for income := decimal.Zero; income.LessThanOrEqual(limit); income = income.Add(step) {
			tp := domain.Taxpayer{Income: income, Status: status}
			before, err := ec.TotalRate(base, tp, year)
			if err != nil {
				return nil, err
			}
			after, err := ec.TotalRate(modified, tp, year)
			if err != nil {
				return nil, err
			}
			rows = append(rows, domain.EffectiveRateRow{
				Status:   status,
				Income:   income,
				Baseline: before,
				Modified: after,
				Change:   after.Sub(before),
			})
		}
	}
	return rows, nil
}
