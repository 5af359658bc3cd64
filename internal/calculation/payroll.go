package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
)

// StatusShare is how one filing status's AGI sits relative to its additional-HI threshold.
type StatusShare struct {
	Below decimal.Decimal `json:"below"`
	Above decimal.Decimal `json:"above"`
	// AboveShare is Above / (Above + Below).
	AboveShare decimal.Decimal `json:"above_share"`
	// StatusShare is this status's fraction of AGI across all statuses.
	StatusShare decimal.Decimal `json:"status_share"`
}

// Apportionment is the base-year split of AGI around the additional-HI thresholds.
type Apportionment map[domain.FilingStatus]StatusShare

// AboveThresholdShare returns the fraction of all AGI that lies above the thresholds.
func (ap Apportionment) AboveThresholdShare() decimal.Decimal {
	total := decimal.Zero
	for _, s := range ap {
		total = total.Add(s.AboveShare.Mul(s.StatusShare))
	}
	return total
}

// ApportionAGI splits each status's AGI into the parts below and above its
// additional-HI threshold. A bucket straddling the threshold is split; a bucket
// whose maximum does not exceed the threshold counts as below, anything else as above.
func ApportionAGI(buckets []domain.IncomeBucket, thresholds map[domain.FilingStatus]decimal.Decimal) (Apportionment, error) {
	ap := make(Apportionment)
	statusAGI := make(map[domain.FilingStatus]decimal.Decimal)
	grand := decimal.Zero
	for _, b := range buckets {
		threshold, ok := thresholds[b.Status]
		if !ok {
			return nil, &StructuralMismatchError{Status: string(b.Status), Detail: "no additional HI threshold"}
		}
		s := ap[b.Status]
		switch {
		case threshold.GreaterThan(b.MinIncome) && threshold.LessThan(b.MaxIncome):
			split, err := SplitAtThreshold(b, threshold)
			if err != nil {
				return nil, err
			}
			s.Below = s.Below.Add(split.Low.Average.Mul(split.Low.Count))
			s.Above = s.Above.Add(split.High.Average.Mul(split.High.Count))
		case threshold.GreaterThanOrEqual(b.MaxIncome):
			s.Below = s.Below.Add(b.TotalAGI)
		default:
			s.Above = s.Above.Add(b.TotalAGI)
		}
		ap[b.Status] = s
		statusAGI[b.Status] = statusAGI[b.Status].Add(b.TotalAGI)
		grand = grand.Add(b.TotalAGI)
	}

	for st, s := range ap {
		all := s.Below.Add(s.Above)
		s.AboveShare = decimal.Zero
		if all.IsPositive() {
			s.AboveShare = s.Above.Div(all)
		}
		s.StatusShare = decimal.Zero
		if grand.IsPositive() {
			s.StatusShare = statusAGI[st].Div(grand)
		}
		ap[st] = s
	}
	return ap, nil
}

// PayrollYear is one projected year of payroll tax revenue.
type PayrollYear struct {
	OASDI decimal.Decimal
	HI    decimal.Decimal
	AddHI decimal.Decimal
}

// PayrollInputs bundles what a payroll projection needs.
type PayrollInputs struct {
	// Buckets are the base-year income buckets used for the threshold apportionment.
	Buckets  []domain.IncomeBucket
	Observed domain.PayrollRecord
	Current  domain.PayrollPolicy
	Proposed domain.PayrollPolicy
}

// ProjectPayrollTax returns OASDI, HI and additional-HI revenue for each projected year.
//
// OASDI compounds from its observed base-year figure. The observed HI figure is
// turned into a taxable pool by dividing by the current blended HI rate, using a
// base-year share of AGI above the additional threshold that is held constant for
// the run. HI and additional-HI revenue are the pool times the proposed rates, so a
// rate change adds Δrate*pool and Δaddrate*share*pool to the observed series.
func ProjectPayrollTax(in PayrollInputs, a domain.Assumptions) ([]PayrollYear, error) {
	ap, err := ApportionAGI(in.Buckets, in.Proposed.AddHIThresholds)
	if err != nil {
		return nil, err
	}
	above := ap.AboveThresholdShare()

	blended := in.Current.HIRate.Add(in.Current.AddHIRate.Mul(above))
	pool := decimal.Zero
	if blended.IsPositive() {
		pool = in.Observed.HIRevenue.Div(blended)
	}
	oasdi := in.Observed.OASDIRevenue

	growth := one.Add(a.PopulationGrowth).Mul(one.Add(a.Inflation))
	for s := 0; s < steps(a.StartYear, a.IncomeBaseYear); s++ {
		oasdi = oasdi.Mul(growth).Round(agePrecision)
		pool = pool.Mul(growth).Round(agePrecision)
	}

	out := make([]PayrollYear, 0, a.Years)
	for y := 0; y < a.Years; y++ {
		out = append(out, PayrollYear{
			OASDI: oasdi,
			HI:    pool.Mul(in.Proposed.HIRate),
			AddHI: pool.Mul(in.Proposed.AddHIRate).Mul(above),
		})
		oasdi = oasdi.Mul(growth).Round(agePrecision)
		pool = pool.Mul(growth).Round(agePrecision)
	}
	return out, nil
}

// RaisePayroll returns a copy of the payroll policy with the HI and additional-HI
// rates raised, rounded to four decimals.
func RaisePayroll(pp domain.PayrollPolicy, hiIncrement, addHIIncrement decimal.Decimal) domain.PayrollPolicy {
	out := pp.Clone()
	out.HIRate = pp.HIRate.Add(hiIncrement).Round(rateDecimals)
	out.AddHIRate = pp.AddHIRate.Add(addHIIncrement).Round(rateDecimals)
	return out
}
