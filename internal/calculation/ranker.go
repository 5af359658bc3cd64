package calculation

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
	"golang.org/x/sync/errgroup"
)

// MarginalImpactRanker orders levers by how much one increment raises a given
// taxpayer's effective rate, and applies them in that order.
type MarginalImpactRanker struct {
	solver     *ConstrainedRateSolver
	comparator *ScenarioComparator
	rates      EffectiveRateCalculator
	Logger     Logger
}

// NewMarginalImpactRanker creates a ranker.
func NewMarginalImpactRanker(solver *ConstrainedRateSolver, comparator *ScenarioComparator, rates EffectiveRateCalculator) *MarginalImpactRanker {
	return &MarginalImpactRanker{solver: solver, comparator: comparator, rates: rates, Logger: NopLogger{}}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (r *MarginalImpactRanker) SetLogger(l Logger) {
	if l == nil {
		r.Logger = NopLogger{}
		return
	}
	r.Logger = l
}

// RankLeverImpact applies the same increment to each lever alone and returns the
// levers sorted ascending by the change in the taxpayer's total effective rate.
func (r *MarginalImpactRanker) RankLeverImpact(p domain.Policy, tp domain.Taxpayer, increment, ratio decimal.Decimal, year int) ([]domain.LeverImpact, error) {
	return r.RankLeverImpactSet(p, tp, domain.LeverSet{
		Income: increment, HI: increment, AddHI: increment, Corporate: increment,
	}, ratio, year)
}

// RankLeverImpactSet is RankLeverImpact with a separate increment per lever.
// The corporate lever has no direct individual incidence and always ranks at zero.
func (r *MarginalImpactRanker) RankLeverImpactSet(p domain.Policy, tp domain.Taxpayer, increments domain.LeverSet, ratio decimal.Decimal, year int) ([]domain.LeverImpact, error) {
	before, err := r.rates.TotalRate(p, tp, year)
	if err != nil {
		return nil, err
	}

	impacts := make([]domain.LeverImpact, 0, len(domain.Levers))
	for _, lever := range domain.Levers {
		if lever == domain.LeverCorporate {
			impacts = append(impacts, domain.LeverImpact{Lever: lever, EffectiveDelta: decimal.Zero})
			continue
		}
		raised, err := ApplyLever(p, lever, increments.Get(lever), ratio)
		if err != nil {
			return nil, err
		}
		after, err := r.rates.TotalRate(raised, tp, year)
		if err != nil {
			return nil, err
		}
		impacts = append(impacts, domain.LeverImpact{Lever: lever, EffectiveDelta: after.Sub(before).Round(rateDecimals)})
	}
	sort.SliceStable(impacts, func(i, j int) bool {
		return impacts[i].EffectiveDelta.LessThan(impacts[j].EffectiveDelta)
	})
	return impacts, nil
}

// ApplyLeversInImpactOrder runs the solver on one lever at a time, least
// burdensome for the taxpayer first, threading the covered amount forward. Once
// the target is met the remaining levers get a zero increment and keep their
// base rates. Each lever is solved against the unmodified base policy and the
// raised rates are combined into the returned policy.
func (r *MarginalImpactRanker) ApplyLeversInImpactOrder(ctx context.Context, base domain.Policy, tp domain.Taxpayer, year int, req domain.SolveRequest) (*domain.OrderedSolveResult, error) {
	impacts, err := r.RankLeverImpactSet(base, tp, req.Increments, req.Ratio, year)
	if err != nil {
		return nil, fmt.Errorf("failed to rank levers: %w", err)
	}

	out := &domain.OrderedSolveResult{Policy: base.Clone(), Covered: decimal.Zero}
	covered := req.AlreadyCovered
	for _, impact := range impacts {
		inc := req.Increments.Get(impact.Lever)
		if covered.GreaterThanOrEqual(req.Target) {
			inc = decimal.Zero
		}

		single := req
		single.Increments = domain.Only(impact.Lever, inc)
		single.AlreadyCovered = covered
		res, err := r.solver.RaiseWithConstraints(ctx, base, single)
		if err != nil {
			return nil, fmt.Errorf("lever %s: %w", impact.Lever, err)
		}
		r.Logger.Infof("lever %s: impact %s, %d iterations, covered %s (%s)",
			impact.Lever, impact.EffectiveDelta, res.Iterations, res.CoveredByThisCall.StringFixed(0), res.StopReason)

		covered = covered.Add(res.CoveredByThisCall)
		out.Covered = out.Covered.Add(res.CoveredByThisCall)
		out.Steps = append(out.Steps, domain.LeverStep{
			Lever:     impact.Lever,
			Impact:    impact.EffectiveDelta,
			Increment: inc,
			Result:    res,
		})
		out.Policy = takeLever(out.Policy, res.Policy, impact.Lever)
	}
	out.TotalCovered = req.AlreadyCovered.Add(out.Covered)
	return out, nil
}

// takeLever copies one lever's rates from src into dst.
func takeLever(dst, src domain.Policy, lever domain.Lever) domain.Policy {
	out := dst.Clone()
	switch lever {
	case domain.LeverIncome:
		out.Brackets = src.Brackets.Clone()
	case domain.LeverHI:
		out.Payroll.HIRate = src.Payroll.HIRate
	case domain.LeverAddHI:
		out.Payroll.AddHIRate = src.Payroll.AddHIRate
	case domain.LeverCorporate:
		out.CorporateRate = src.CorporateRate
	}
	return out
}

// RankRevenueGain returns the cumulative revenue raised by one increment on each
// lever alone, in lever order. The four projections run concurrently against a
// shared baseline.
func (r *MarginalImpactRanker) RankRevenueGain(ctx context.Context, base domain.Policy, increments domain.LeverSet, ratio decimal.Decimal) ([]domain.RevenueGain, error) {
	baseline, err := r.comparator.Baseline(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to project baseline: %w", err)
	}

	gains := make([]domain.RevenueGain, len(domain.Levers))
	g, gctx := errgroup.WithContext(ctx)
	for i, lever := range domain.Levers {
		g.Go(func() error {
			raised, err := ApplyLever(base, lever, increments.Get(lever), ratio)
			if err != nil {
				return err
			}
			diff, err := r.comparator.CompareAgainst(gctx, baseline, base, raised)
			if err != nil {
				return fmt.Errorf("lever %s: %w", lever, err)
			}
			gains[i] = domain.RevenueGain{Lever: lever, Revenue: diff.CumulativeTotalDifference}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return gains, nil
}
