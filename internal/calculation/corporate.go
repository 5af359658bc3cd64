package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
)

// ProjectCorporateTax returns corporate tax revenue for each projected year.
// Taxable income is backed out of the observed base-year collections at the
// current rate, grown with GDP and inflation, and taxed at the new rate.
func ProjectCorporateTax(observed, currentRate, newRate decimal.Decimal, a domain.Assumptions) ([]decimal.Decimal, error) {
	if !currentRate.IsPositive() {
		return nil, fmt.Errorf("current corporate rate must be positive, got %s", currentRate)
	}
	income := observed.Div(currentRate)
	growth := one.Add(a.GDPGrowth).Mul(one.Add(a.Inflation))
	for s := 0; s < steps(a.StartYear, a.CorporateBaseYear); s++ {
		income = income.Mul(growth).Round(agePrecision)
	}

	out := make([]decimal.Decimal, 0, a.Years)
	for y := 0; y < a.Years; y++ {
		out = append(out, income.Mul(newRate))
		income = income.Mul(growth).Round(agePrecision)
	}
	return out, nil
}

// RaiseCorporateRate returns rate plus increment, rounded to four decimals.
func RaiseCorporateRate(rate, increment decimal.Decimal) decimal.Decimal {
	return rate.Add(increment).Round(rateDecimals)
}
