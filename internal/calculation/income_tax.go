package calculation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
)

// IncomeTaxInputs bundles the tables an income tax projection runs on.
type IncomeTaxInputs struct {
	Buckets   []domain.IncomeBucket
	Schedule  domain.BracketSchedule
	Deduction domain.StandardDeduction
}

// ProjectIncomeTax returns the income tax revenue of each projected year.
//
// Buckets are aged from the income base year to the start year, the schedule and
// deduction are indexed from the schedule year to the start year. Each projected
// year indexes the tables one more step, sums the bucket taxes, then ages the buckets.
func ProjectIncomeTax(ctx context.Context, in IncomeTaxInputs, a domain.Assumptions) ([]decimal.Decimal, error) {
	if err := checkStructure(in.Schedule, in.Deduction, in.Buckets); err != nil {
		return nil, err
	}

	buckets := ageAll(in.Buckets, steps(a.StartYear, a.IncomeBaseYear), a.Inflation, a.PopulationGrowth)
	schedule := in.Schedule.Clone()
	deduction := in.Deduction.Clone()
	for s := 0; s < steps(a.StartYear, a.ScheduleYear); s++ {
		schedule = IndexForInflation(schedule, a.Inflation)
		deduction = IndexDeduction(deduction, a.Inflation)
	}

	revenue := make([]decimal.Decimal, 0, a.Years)
	for y := 0; y < a.Years; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		schedule = IndexForInflation(schedule, a.Inflation)
		deduction = IndexDeduction(deduction, a.Inflation)

		total := decimal.Zero
		for _, b := range buckets {
			brackets, _ := schedule.For(b.Status)
			tax, err := ComputeTaxForBucket(b, deduction[b.Status], brackets)
			if err != nil {
				return nil, fmt.Errorf("income tax %d, bucket %s/%s: %w", a.StartYear+y, b.Status, b.Label, err)
			}
			total = total.Add(tax)
		}
		revenue = append(revenue, total)

		for i := range buckets {
			buckets[i] = AgeForward(buckets[i], a.Inflation, a.PopulationGrowth)
		}
	}
	return revenue, nil
}

// checkStructure fails when the schedule and deduction cover different filing
// statuses, or when a bucket belongs to a status the schedule does not know.
func checkStructure(schedule domain.BracketSchedule, deduction domain.StandardDeduction, buckets []domain.IncomeBucket) error {
	inSchedule := make(map[domain.FilingStatus]bool, len(schedule))
	for _, st := range schedule.Statuses() {
		inSchedule[st] = true
		if _, ok := deduction[st]; !ok {
			return &StructuralMismatchError{Status: string(st), Detail: "has brackets but no standard deduction"}
		}
	}
	for st := range deduction {
		if !inSchedule[st] {
			return &StructuralMismatchError{Status: string(st), Detail: "has a standard deduction but no brackets"}
		}
	}
	for _, b := range buckets {
		if !inSchedule[b.Status] {
			return &StructuralMismatchError{Status: string(b.Status), Detail: "income bucket " + b.Label + " has no brackets"}
		}
	}
	return nil
}

// steps returns the number of yearly steps from one year to a later one, zero if from is not earlier.
func steps(to, from int) int {
	if to <= from {
		return 0
	}
	return to - from
}
