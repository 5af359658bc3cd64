package domain

import (
	"github.com/shopspring/decimal"
)

// Category is a tax revenue category tracked by projections.
type Category string

const (
	CategoryOASDI     Category = "oasdi"
	CategoryHI        Category = "hi"
	CategoryAddHI     Category = "add_hi"
	CategoryCorporate Category = "corporate"
	CategoryIncome    Category = "income"
)

// Categories lists the categories in report order.
var Categories = []Category{CategoryOASDI, CategoryHI, CategoryAddHI, CategoryCorporate, CategoryIncome}

// RevenueYear is the projected revenue of a single year.
type RevenueYear struct {
	Year      int             `json:"year"`
	OASDI     decimal.Decimal `json:"oasdi"`
	HI        decimal.Decimal `json:"hi"`
	AddHI     decimal.Decimal `json:"add_hi"`
	Corporate decimal.Decimal `json:"corporate"`
	Income    decimal.Decimal `json:"income"`
}

// Get returns the revenue of one category.
func (ry RevenueYear) Get(c Category) decimal.Decimal {
	switch c {
	case CategoryOASDI:
		return ry.OASDI
	case CategoryHI:
		return ry.HI
	case CategoryAddHI:
		return ry.AddHI
	case CategoryCorporate:
		return ry.Corporate
	case CategoryIncome:
		return ry.Income
	}
	return decimal.Zero
}

// Total returns the revenue summed over all categories.
func (ry RevenueYear) Total() decimal.Decimal {
	return ry.OASDI.Add(ry.HI).Add(ry.AddHI).Add(ry.Corporate).Add(ry.Income)
}

// Sub returns the category-wise difference ry - other, keeping ry's year.
func (ry RevenueYear) Sub(other RevenueYear) RevenueYear {
	return RevenueYear{
		Year:      ry.Year,
		OASDI:     ry.OASDI.Sub(other.OASDI),
		HI:        ry.HI.Sub(other.HI),
		AddHI:     ry.AddHI.Sub(other.AddHI),
		Corporate: ry.Corporate.Sub(other.Corporate),
		Income:    ry.Income.Sub(other.Income),
	}
}

// Add returns the category-wise sum.
func (ry RevenueYear) Add(other RevenueYear) RevenueYear {
	return RevenueYear{
		Year:      ry.Year,
		OASDI:     ry.OASDI.Add(other.OASDI),
		HI:        ry.HI.Add(other.HI),
		AddHI:     ry.AddHI.Add(other.AddHI),
		Corporate: ry.Corporate.Add(other.Corporate),
		Income:    ry.Income.Add(other.Income),
	}
}

// ProjectionSeries is the per-year revenue of one projection.
type ProjectionSeries []RevenueYear

// Total sums every category of every year.
func (ps ProjectionSeries) Total() decimal.Decimal {
	total := decimal.Zero
	for _, y := range ps {
		total = total.Add(y.Total())
	}
	return total
}

// CategoryTotals sums each category over all years. The Year field is zero.
func (ps ProjectionSeries) CategoryTotals() RevenueYear {
	var sum RevenueYear
	for _, y := range ps {
		sum = sum.Add(y)
	}
	sum.Year = 0
	return sum
}

// Cumulative returns the running total of all categories at the end of each year.
func (ps ProjectionSeries) Cumulative() []decimal.Decimal {
	out := make([]decimal.Decimal, len(ps))
	running := decimal.Zero
	for i, y := range ps {
		running = running.Add(y.Total())
		out[i] = running
	}
	return out
}

// ScenarioDiff compares a modified projection against its baseline.
type ScenarioDiff struct {
	Baseline                  ProjectionSeries `json:"baseline"`
	Modified                  ProjectionSeries `json:"modified"`
	Difference                ProjectionSeries `json:"difference"`
	BaselineTotals            RevenueYear      `json:"baseline_totals"`
	ModifiedTotals            RevenueYear      `json:"modified_totals"`
	DifferenceTotals          RevenueYear      `json:"difference_totals"`
	CumulativeTotalDifference decimal.Decimal  `json:"cumulative_total_difference"`
}
