package calculation

import (
	"context"
	"fmt"

	"github.com/taxrev/revenue-projector/internal/domain"
)

// Projector produces the revenue series of a policy, measured against the
// policy currently in force.
type Projector interface {
	Project(ctx context.Context, current, policy domain.Policy) (domain.ProjectionSeries, error)
}

// RevenueProjector rolls income, payroll and corporate tax forward year by year.
type RevenueProjector struct {
	assumptions domain.Assumptions
	buckets     []domain.IncomeBucket
	payroll     domain.PayrollRecord
	corporate   domain.RevenueRecord
	Logger      Logger
}

// NewRevenueProjector prepares a projector over the base-year history of a dataset.
func NewRevenueProjector(ds *domain.Dataset, a domain.Assumptions) (*RevenueProjector, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: no dataset", domain.ErrMissingHistory)
	}
	if a.Years <= 0 {
		return nil, fmt.Errorf("projection years must be positive, got %d", a.Years)
	}
	if err := ds.RequireYears(a.IncomeBaseYear, a.CorporateBaseYear); err != nil {
		return nil, err
	}
	payroll, _ := ds.PayrollFor(a.IncomeBaseYear)
	revenue, _ := ds.RevenueFor(a.CorporateBaseYear)
	return &RevenueProjector{
		assumptions: a,
		buckets:     BucketsFromRecords(ds.Buckets.ForYear(a.IncomeBaseYear)),
		payroll:     payroll,
		corporate:   revenue,
		Logger:      NopLogger{},
	}, nil
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (rp *RevenueProjector) SetLogger(l Logger) {
	if l == nil {
		rp.Logger = NopLogger{}
		return
	}
	rp.Logger = l
}

// Assumptions returns the run configuration the projector was built with.
func (rp *RevenueProjector) Assumptions() domain.Assumptions { return rp.assumptions }

// BaseBuckets returns a copy of the base-year income distribution.
func (rp *RevenueProjector) BaseBuckets() []domain.IncomeBucket {
	return append([]domain.IncomeBucket(nil), rp.buckets...)
}

// Project returns the five-category revenue series of policy. current supplies
// the rates the observed payroll and corporate collections were raised under.
func (rp *RevenueProjector) Project(ctx context.Context, current, policy domain.Policy) (domain.ProjectionSeries, error) {
	a := rp.assumptions

	income, err := ProjectIncomeTax(ctx, IncomeTaxInputs{
		Buckets:   rp.buckets,
		Schedule:  policy.Brackets,
		Deduction: policy.StandardDeduction,
	}, a)
	if err != nil {
		return nil, fmt.Errorf("failed to project income tax: %w", err)
	}

	payroll, err := ProjectPayrollTax(PayrollInputs{
		Buckets:  rp.buckets,
		Observed: rp.payroll,
		Current:  current.Payroll,
		Proposed: policy.Payroll,
	}, a)
	if err != nil {
		return nil, fmt.Errorf("failed to project payroll tax: %w", err)
	}

	corporate, err := ProjectCorporateTax(rp.corporate.Corporate, current.CorporateRate, policy.CorporateRate, a)
	if err != nil {
		return nil, fmt.Errorf("failed to project corporate tax: %w", err)
	}

	series := make(domain.ProjectionSeries, a.Years)
	for y := 0; y < a.Years; y++ {
		series[y] = domain.RevenueYear{
			Year:      a.StartYear + y,
			OASDI:     payroll[y].OASDI,
			HI:        payroll[y].HI,
			AddHI:     payroll[y].AddHI,
			Corporate: corporate[y],
			Income:    income[y],
		}
	}
	rp.Logger.Debugf("projected %s: %d years, total %s", policyName(policy), a.Years, series.Total().StringFixed(0))
	return series, nil
}

func policyName(p domain.Policy) string {
	if p.Name == "" {
		return "policy"
	}
	return p.Name
}
