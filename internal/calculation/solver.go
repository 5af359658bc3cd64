package calculation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
)

// ConstrainedRateSolver raises several levers together until a revenue target is covered.
type ConstrainedRateSolver struct {
	comparator *ScenarioComparator
	Logger     Logger
}

// NewConstrainedRateSolver creates a solver over a comparator.
func NewConstrainedRateSolver(c *ScenarioComparator) *ConstrainedRateSolver {
	return &ConstrainedRateSolver{comparator: c, Logger: NopLogger{}}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (s *ConstrainedRateSolver) SetLogger(l Logger) {
	if l == nil {
		s.Logger = NopLogger{}
		return
	}
	s.Logger = l
}

// RaiseWithConstraints applies one increment per iteration to every lever that
// has a nonzero increment and would stay within its cap, then measures the
// revenue covered against the unmodified base policy. It stops at the first
// iteration where already covered plus covered reaches the target, so the final
// step may overshoot. When no lever can move the result reports partial coverage.
func (s *ConstrainedRateSolver) RaiseWithConstraints(ctx context.Context, base domain.Policy, req domain.SolveRequest) (*domain.SolveResult, error) {
	if !req.Increments.Income.IsZero() && req.Ratio.LessThan(one) {
		return nil, &UnsupportedRatioError{Ratio: req.Ratio}
	}

	result := &domain.SolveResult{
		Policy:            base.Clone(),
		CoveredByThisCall: decimal.Zero,
		AlreadyCovered:    req.AlreadyCovered,
	}
	finish := func(reason domain.StopReason) *domain.SolveResult {
		result.StopReason = reason
		result.PartialCoverage = reason != domain.StopTargetMet
		result.TotalCovered = result.AlreadyCovered.Add(result.CoveredByThisCall)
		return result
	}

	if req.AlreadyCovered.GreaterThanOrEqual(req.Target) {
		return finish(domain.StopTargetMet), nil
	}

	baseline, err := s.comparator.Baseline(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to project baseline: %w", err)
	}

	current := base.Clone()
	for {
		if req.MaxIterations > 0 && result.Iterations >= req.MaxIterations {
			s.Logger.Warnf("solver stopped after %d iterations with %s covered", result.Iterations, result.CoveredByThisCall.StringFixed(0))
			return finish(domain.StopIterationLimit), nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, moved, err := raiseUnfrozen(current, req)
		if err != nil {
			return nil, err
		}
		if moved == 0 {
			s.Logger.Warnf("all levers frozen after %d iterations with %s covered", result.Iterations, result.CoveredByThisCall.StringFixed(0))
			return finish(domain.StopLeversFrozen), nil
		}
		current = next
		result.Iterations++

		diff, err := s.comparator.CompareAgainst(ctx, baseline, base, current)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", result.Iterations, err)
		}
		result.Policy = current
		result.Diff = diff
		result.CoveredByThisCall = diff.CumulativeTotalDifference
		s.Logger.Debugf("iteration %d: %d levers raised, covered %s", result.Iterations, moved, result.CoveredByThisCall.StringFixed(0))

		if req.AlreadyCovered.Add(result.CoveredByThisCall).GreaterThanOrEqual(req.Target) {
			return finish(domain.StopTargetMet), nil
		}
	}
}

// raiseUnfrozen applies one increment to every lever that can still move and
// reports how many did.
func raiseUnfrozen(p domain.Policy, req domain.SolveRequest) (domain.Policy, int, error) {
	out := p.Clone()
	moved := 0
	for _, lever := range domain.Levers {
		inc := req.Increments.Get(lever)
		if inc.IsZero() || leverFrozen(out, lever, inc, req.Ratio, req.Caps.Get(lever)) {
			continue
		}
		raised, err := ApplyLever(out, lever, inc, req.Ratio)
		if err != nil {
			return domain.Policy{}, 0, err
		}
		out = raised
		moved++
	}
	return out, moved, nil
}

// leverFrozen reports whether one more increment would push the lever past its cap.
// The income lever is judged by its top rate, which rises by ratio*increment.
func leverFrozen(p domain.Policy, lever domain.Lever, inc, ratio, limit decimal.Decimal) bool {
	var next decimal.Decimal
	switch lever {
	case domain.LeverIncome:
		next = p.Brackets.TopRate().Add(inc.Mul(ratio)).Round(rateDecimals)
	case domain.LeverHI:
		next = p.Payroll.HIRate.Add(inc)
	case domain.LeverAddHI:
		next = p.Payroll.AddHIRate.Add(inc)
	case domain.LeverCorporate:
		next = p.CorporateRate.Add(inc)
	default:
		return true
	}
	return next.GreaterThan(limit)
}

// ApplyLever returns a copy of p with one increment applied to a single lever.
func ApplyLever(p domain.Policy, lever domain.Lever, inc, ratio decimal.Decimal) (domain.Policy, error) {
	out := p.Clone()
	switch lever {
	case domain.LeverIncome:
		raised, err := RaiseRates(out.Brackets, ratio, inc)
		if err != nil {
			return domain.Policy{}, err
		}
		out.Brackets = raised
	case domain.LeverHI:
		out.Payroll = RaisePayroll(out.Payroll, inc, decimal.Zero)
	case domain.LeverAddHI:
		out.Payroll = RaisePayroll(out.Payroll, decimal.Zero, inc)
	case domain.LeverCorporate:
		out.CorporateRate = RaiseCorporateRate(out.CorporateRate, inc)
	default:
		return domain.Policy{}, fmt.Errorf("unknown lever %q", lever)
	}
	return out, nil
}
