package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
)

const (
	// maxSplitIterations bounds the divisor search in SplitAtThreshold.
	maxSplitIterations = 10000
	// agePrecision keeps compounded values from growing unbounded digits.
	agePrecision = 12
)

var (
	one          = decimal.NewFromInt(1)
	two          = decimal.NewFromInt(2)
	divisorStep  = decimal.NewFromFloat(0.1)
	rateDecimals = int32(4)
)

// SplitPart is one side of a bucket split at a threshold.
type SplitPart struct {
	Average decimal.Decimal
	Count   decimal.Decimal
}

// SplitResult holds both sides of a split and the divisor the search stopped at.
type SplitResult struct {
	Low     SplitPart
	High    SplitPart
	Divisor decimal.Decimal
}

// BuildDistribution returns a bucket over [min, max] holding count people spread evenly per dollar.
// A bucket with no width is a point mass and keeps the whole count as its density.
func BuildDistribution(min, max, count decimal.Decimal) domain.IncomeBucket {
	b := domain.IncomeBucket{
		MinIncome:  min,
		MaxIncome:  max,
		Population: count,
	}
	if max.Equal(min) {
		b.PeoplePerDollar = count
	} else {
		b.PeoplePerDollar = count.Div(max.Sub(min))
	}
	return b
}

// BucketsFromRecords builds the income distribution of one year from historical records.
func BucketsFromRecords(records []domain.BucketRecord) []domain.IncomeBucket {
	out := make([]domain.IncomeBucket, 0, len(records))
	for _, r := range records {
		b := BuildDistribution(r.Min, r.Max, r.Returns)
		b.Status = r.Status
		b.Label = r.Label
		b.AverageAGI = r.AverageAGI()
		b.TotalAGI = r.TotalAGI
		out = append(out, b)
	}
	return out
}

// SplitAtThreshold divides a bucket into the populations below and above threshold,
// keeping the bucket's total AGI. The low average starts at the midpoint of
// [min, threshold] and moves down in divisor steps of 0.1 until the implied high
// average reaches the threshold. The result is an approximation, not a closed form.
func SplitAtThreshold(b domain.IncomeBucket, threshold decimal.Decimal) (SplitResult, error) {
	if !threshold.GreaterThan(b.MinIncome) || !threshold.LessThan(b.MaxIncome) {
		return SplitResult{}, &InvalidRangeError{Threshold: threshold, Min: b.MinIncome, Max: b.MaxIncome}
	}

	lowCount := threshold.Sub(b.MinIncome).Mul(b.PeoplePerDollar)
	highCount := b.MaxIncome.Sub(threshold).Mul(b.PeoplePerDollar)
	if !highCount.IsPositive() {
		// Empty bucket: nothing to apportion.
		return SplitResult{
			Low:     SplitPart{Average: threshold.Add(b.MinIncome).Div(two), Count: lowCount},
			High:    SplitPart{Average: threshold, Count: highCount},
			Divisor: two,
		}, nil
	}

	totalAGI := b.AverageAGI.Mul(b.MaxIncome.Sub(b.MinIncome)).Mul(b.PeoplePerDollar)
	divisor := two
	for i := 0; i < maxSplitIterations; i++ {
		lowAvg := threshold.Add(b.MinIncome).Div(divisor)
		highAvg := totalAGI.Sub(lowCount.Mul(lowAvg)).Div(highCount)
		if highAvg.GreaterThanOrEqual(threshold) {
			return SplitResult{
				Low:     SplitPart{Average: lowAvg, Count: lowCount},
				High:    SplitPart{Average: highAvg, Count: highCount},
				Divisor: divisor,
			}, nil
		}
		divisor = divisor.Add(divisorStep)
	}
	return SplitResult{}, &NotConvergedError{Operation: "bucket split", Iterations: maxSplitIterations}
}

// AgeForward moves a bucket one year ahead: incomes grow with inflation and
// population with population growth.
func AgeForward(b domain.IncomeBucket, inflation, populationGrowth decimal.Decimal) domain.IncomeBucket {
	inf := one.Add(inflation)
	pop := one.Add(populationGrowth)
	out := b
	out.AverageAGI = b.AverageAGI.Mul(inf).Round(agePrecision)
	out.MinIncome = b.MinIncome.Mul(inf).Round(agePrecision)
	out.MaxIncome = b.MaxIncome.Mul(inf).Round(agePrecision)
	out.Population = b.Population.Mul(pop).Round(agePrecision)
	out.PeoplePerDollar = b.PeoplePerDollar.Mul(pop).Round(agePrecision)
	out.TotalAGI = b.TotalAGI.Mul(inf).Mul(pop).Round(agePrecision)
	return out
}

// ageAll returns every bucket aged forward by steps years.
func ageAll(buckets []domain.IncomeBucket, steps int, inflation, populationGrowth decimal.Decimal) []domain.IncomeBucket {
	out := append([]domain.IncomeBucket(nil), buckets...)
	for s := 0; s < steps; s++ {
		for i := range out {
			out[i] = AgeForward(out[i], inflation, populationGrowth)
		}
	}
	return out
}
