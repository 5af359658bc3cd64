package calculation

import (
	"context"
	"fmt"

	"github.com/taxrev/revenue-projector/internal/domain"
)

// CalculationEngine orchestrates projections, comparisons and rate searches for one run.
type CalculationEngine struct {
	Projector   *RevenueProjector
	Comparator  *ScenarioComparator
	Solver      *ConstrainedRateSolver
	Ranker      *MarginalImpactRanker
	Rates       EffectiveRateCalculator
	Assumptions domain.Assumptions
	Coverage    domain.Coverage
	Logger      Logger
}

// NewCalculationEngine wires the projection components over a dataset.
func NewCalculationEngine(ds *domain.Dataset, a domain.Assumptions, cov domain.Coverage) (*CalculationEngine, error) {
	projector, err := NewRevenueProjector(ds, a)
	if err != nil {
		return nil, fmt.Errorf("failed to build projector: %w", err)
	}
	comparator := NewScenarioComparator(projector)
	solver := NewConstrainedRateSolver(comparator)
	rates := NewEffectiveRateCalculator(a)
	return &CalculationEngine{
		Projector:   projector,
		Comparator:  comparator,
		Solver:      solver,
		Ranker:      NewMarginalImpactRanker(solver, comparator, rates),
		Rates:       rates,
		Assumptions: a,
		Coverage:    cov,
		Logger:      NopLogger{},
	}, nil
}

// SetLogger sets the logger for the engine and its components. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	ce.Logger = l
	ce.Projector.SetLogger(l)
	ce.Comparator.SetLogger(l)
	ce.Solver.SetLogger(l)
	ce.Ranker.SetLogger(l)
}

// EvaluationYear is the year single-taxpayer rates are measured in: the end of the projection window.
func (ce *CalculationEngine) EvaluationYear() int {
	return ce.Assumptions.StartYear + ce.Assumptions.Years
}

func (ce *CalculationEngine) newReport(kind domain.ReportKind, base domain.Policy) *domain.Report {
	return &domain.Report{
		RunID:       idFunc(),
		GeneratedAt: nowFunc(),
		Kind:        kind,
		Assumptions: ce.Assumptions.Describe(),
		BasePolicy:  base.Clone(),
		Coverage:    ce.Coverage,
	}
}

// RunProjection projects the revenue of a single policy.
func (ce *CalculationEngine) RunProjection(ctx context.Context, policy domain.Policy) (*domain.Report, error) {
	series, err := ce.Comparator.Baseline(ctx, policy)
	if err != nil {
		return nil, err
	}
	report := ce.newReport(domain.ReportProjection, policy)
	report.Projection = series
	ce.Logger.Infof("projection %s: %d years, total %s", report.RunID, len(series), series.Total().StringFixed(0))
	return report, nil
}

// RunComparison projects base and modified and reports the difference.
func (ce *CalculationEngine) RunComparison(ctx context.Context, base, modified domain.Policy) (*domain.Report, error) {
	diff, err := ce.Comparator.Compare(ctx, base, modified)
	if err != nil {
		return nil, err
	}
	report := ce.newReport(domain.ReportComparison, base)
	mod := modified.Clone()
	report.Policy = &mod
	report.Diff = diff
	if report.EffectiveRates, err = ce.Rates.EffectiveRateTable(base, modified, ce.EvaluationYear()); err != nil {
		return nil, fmt.Errorf("failed to build effective rate table: %w", err)
	}
	ce.Logger.Infof("comparison %s: cumulative difference %s", report.RunID, diff.CumulativeTotalDifference.StringFixed(0))
	return report, nil
}

// RunSolver raises all levers together until the run's coverage target is met.
// The request's target is taken from the engine's coverage settings.
func (ce *CalculationEngine) RunSolver(ctx context.Context, base domain.Policy, req domain.SolveRequest) (*domain.Report, error) {
	req.Target = ce.Coverage.Target()
	res, err := ce.Solver.RaiseWithConstraints(ctx, base, req)
	if err != nil {
		return nil, err
	}
	report := ce.newReport(domain.ReportSolve, base)
	final := res.Policy.Clone()
	report.Policy = &final
	report.Solve = res
	report.Diff = res.Diff
	if report.EffectiveRates, err = ce.Rates.EffectiveRateTable(base, res.Policy, ce.EvaluationYear()); err != nil {
		return nil, fmt.Errorf("failed to build effective rate table: %w", err)
	}
	if res.PartialCoverage {
		ce.Logger.Warnf("solve %s: target %s not met (%s), covered %s",
			report.RunID, req.Target.StringFixed(0), res.StopReason, res.TotalCovered.StringFixed(0))
	} else {
		ce.Logger.Infof("solve %s: covered %s in %d iterations", report.RunID, res.TotalCovered.StringFixed(0), res.Iterations)
	}
	return report, nil
}

// RunRanking ranks the levers for a taxpayer, applies them in ascending impact
// order until the coverage target is met, and reports each lever's revenue gain.
func (ce *CalculationEngine) RunRanking(ctx context.Context, base domain.Policy, tp domain.Taxpayer, req domain.SolveRequest) (*domain.Report, error) {
	req.Target = ce.Coverage.Target()
	year := ce.EvaluationYear()

	impacts, err := ce.Ranker.RankLeverImpactSet(base, tp, req.Increments, req.Ratio, year)
	if err != nil {
		return nil, err
	}
	gains, err := ce.Ranker.RankRevenueGain(ctx, base, req.Increments, req.Ratio)
	if err != nil {
		return nil, err
	}
	ordered, err := ce.Ranker.ApplyLeversInImpactOrder(ctx, base, tp, year, req)
	if err != nil {
		return nil, err
	}
	diff, err := ce.Comparator.Compare(ctx, base, ordered.Policy)
	if err != nil {
		return nil, err
	}

	report := ce.newReport(domain.ReportRanking, base)
	final := ordered.Policy.Clone()
	report.Policy = &final
	taxpayer := tp
	report.Taxpayer = &taxpayer
	report.Impacts = impacts
	report.RevenueGains = gains
	report.Ordered = ordered
	report.Diff = diff
	if report.EffectiveRates, err = ce.Rates.EffectiveRateTable(base, ordered.Policy, year); err != nil {
		return nil, fmt.Errorf("failed to build effective rate table: %w", err)
	}
	ce.Logger.Infof("ranking %s: covered %s", report.RunID, ordered.TotalCovered.StringFixed(0))
	return report, nil
}
