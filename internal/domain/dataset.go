package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrMissingHistory is returned when a run needs a year the dataset does not cover.
var ErrMissingHistory = errors.New("missing historical data")

// PayrollRecord is the observed payroll tax collection for a year.
type PayrollRecord struct {
	Year         int             `yaml:"year" json:"year" validate:"required,gt=0"`
	OASDIRevenue decimal.Decimal `yaml:"oasdi_revenue" json:"oasdi_revenue" validate:"gte=0"`
	HIRevenue    decimal.Decimal `yaml:"hi_revenue" json:"hi_revenue" validate:"gte=0"`
}

// RevenueRecord is the observed federal revenue by source for a year.
type RevenueRecord struct {
	Year       int             `yaml:"year" json:"year" validate:"required,gt=0"`
	Individual decimal.Decimal `yaml:"individual" json:"individual" validate:"gte=0"`
	Payroll    decimal.Decimal `yaml:"payroll" json:"payroll" validate:"gte=0"`
	Corporate  decimal.Decimal `yaml:"corporate" json:"corporate" validate:"gte=0"`
}

// Dataset is the already-parsed historical input to a projection run.
type Dataset struct {
	Buckets        *BucketIndex
	Payroll        map[int]PayrollRecord
	FederalRevenue map[int]RevenueRecord
}

// PayrollFor returns the payroll record of a year.
func (d *Dataset) PayrollFor(year int) (PayrollRecord, bool) {
	r, ok := d.Payroll[year]
	return r, ok
}

// RevenueFor returns the federal revenue record of a year.
func (d *Dataset) RevenueFor(year int) (RevenueRecord, bool) {
	r, ok := d.FederalRevenue[year]
	return r, ok
}

// RequireYears checks that the dataset covers the base years of a run.
func (d *Dataset) RequireYears(incomeBaseYear, corporateBaseYear int) error {
	if d.Buckets == nil || len(d.Buckets.ForYear(incomeBaseYear)) == 0 {
		return fmt.Errorf("%w: no income buckets for %d", ErrMissingHistory, incomeBaseYear)
	}
	if _, ok := d.PayrollFor(incomeBaseYear); !ok {
		return fmt.Errorf("%w: no payroll collections for %d", ErrMissingHistory, incomeBaseYear)
	}
	if _, ok := d.RevenueFor(corporateBaseYear); !ok {
		return fmt.Errorf("%w: no federal revenue for %d", ErrMissingHistory, corporateBaseYear)
	}
	return nil
}
