package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
)

// IndexForInflation returns a copy of the schedule with every threshold grown by
// rate and rounded to the nearest whole currency unit.
func IndexForInflation(schedule domain.BracketSchedule, rate decimal.Decimal) domain.BracketSchedule {
	out := schedule.Clone()
	factor := one.Add(rate)
	for i := range out {
		for j := range out[i].Brackets {
			out[i].Brackets[j].Threshold = out[i].Brackets[j].Threshold.Mul(factor).RoundBank(0)
		}
	}
	return out
}

// IndexDeduction returns a copy of the deduction table grown by rate. Deductions are not rounded.
func IndexDeduction(sd domain.StandardDeduction, rate decimal.Decimal) domain.StandardDeduction {
	out := sd.Clone()
	factor := one.Add(rate)
	for status, amount := range out {
		out[status] = amount.Mul(factor).Round(agePrecision)
	}
	return out
}

// RaiseRates returns a copy of the schedule with every marginal rate raised.
// A ratio of 1 adds increment to each rate. A larger ratio adds
// (ratio*increment/n)*(b+1) to the bracket at index b of n, so the top bracket
// rises by ratio*increment. New rates are rounded to four decimals.
func RaiseRates(schedule domain.BracketSchedule, ratio, increment decimal.Decimal) (domain.BracketSchedule, error) {
	if ratio.LessThan(one) {
		return nil, &UnsupportedRatioError{Ratio: ratio}
	}
	out := schedule.Clone()
	for i := range out {
		n := decimal.NewFromInt(int64(len(out[i].Brackets)))
		for b := range out[i].Brackets {
			addition := increment
			if ratio.GreaterThan(one) {
				addition = ratio.Mul(increment).Div(n).Mul(decimal.NewFromInt(int64(b + 1)))
			}
			out[i].Brackets[b].Rate = out[i].Brackets[b].Rate.Add(addition).Round(rateDecimals)
		}
	}
	return out, nil
}

// ComputeTaxForBucket returns the income tax collected from every return in a bucket.
//
// The deduction is taken off the bucket's average, minimum and maximum (floored
// at zero) and the thresholds are walked in ascending order. A threshold at or
// below the minimum taxes the whole population on the band beneath it. A
// threshold inside the range splits the bucket and taxes each side separately.
// The first threshold above the maximum taxes the remaining income at the
// previous rate. Income beyond the last threshold is taxed at the top rate.
func ComputeTaxForBucket(b domain.IncomeBucket, deduction decimal.Decimal, brackets []domain.Bracket) (decimal.Decimal, error) {
	adjAvg := decimal.Max(b.AverageAGI.Sub(deduction), decimal.Zero)
	adjMin := decimal.Max(b.MinIncome.Sub(deduction), decimal.Zero)
	adjMax := decimal.Max(b.MaxIncome.Sub(deduction), decimal.Zero)

	if !b.Population.IsPositive() || adjAvg.IsZero() || adjMax.IsZero() || len(brackets) == 0 {
		return decimal.Zero, nil
	}

	adjusted := b
	adjusted.AverageAGI = adjAvg
	adjusted.MinIncome = adjMin
	adjusted.MaxIncome = adjMax

	pop := b.Population
	revenue := decimal.Zero
	prevRate := decimal.Zero
	prevThreshold := decimal.Zero

	for _, br := range brackets {
		threshold := br.Threshold
		switch {
		case threshold.LessThanOrEqual(adjMin):
			revenue = revenue.Add(prevRate.Mul(threshold.Sub(prevThreshold)).Mul(pop))
		case threshold.LessThan(adjMax):
			split, err := SplitAtThreshold(adjusted, threshold)
			if err != nil {
				return decimal.Zero, err
			}
			revenue = revenue.
				Add(split.Low.Average.Sub(prevThreshold).Mul(split.Low.Count).Mul(prevRate)).
				Add(threshold.Sub(prevThreshold).Mul(split.High.Count).Mul(prevRate)).
				Add(split.High.Average.Sub(threshold).Mul(split.High.Count).Mul(br.Rate))
		case prevThreshold.LessThanOrEqual(adjMin):
			revenue = revenue.Add(adjAvg.Sub(prevThreshold).Mul(pop).Mul(prevRate))
		}
		prevThreshold = threshold
		prevRate = br.Rate
	}

	if prevThreshold.LessThan(adjMin) {
		revenue = revenue.Add(adjAvg.Sub(prevThreshold).Mul(pop).Mul(prevRate))
	}
	return revenue, nil
}
