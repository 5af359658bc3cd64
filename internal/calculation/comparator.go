package calculation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ScenarioComparator projects a baseline and a modified policy and diffs them.
type ScenarioComparator struct {
	projector Projector
	Logger    Logger
}

// NewScenarioComparator creates a comparator over a projector.
func NewScenarioComparator(p Projector) *ScenarioComparator {
	return &ScenarioComparator{projector: p, Logger: NopLogger{}}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (sc *ScenarioComparator) SetLogger(l Logger) {
	if l == nil {
		sc.Logger = NopLogger{}
		return
	}
	sc.Logger = l
}

// Baseline projects the base policy against itself.
func (sc *ScenarioComparator) Baseline(ctx context.Context, base domain.Policy) (domain.ProjectionSeries, error) {
	return sc.projector.Project(ctx, base, base.Clone())
}

// Compare projects base and modified side by side. Each branch works on its
// own copy of the policy tables.
func (sc *ScenarioComparator) Compare(ctx context.Context, base, modified domain.Policy) (*domain.ScenarioDiff, error) {
	var baseline, changed domain.ProjectionSeries
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		baseline, err = sc.projector.Project(gctx, base.Clone(), base.Clone())
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		changed, err = sc.projector.Project(gctx, base.Clone(), modified.Clone())
		if err != nil {
			return fmt.Errorf("modified: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	diff, err := DiffSeries(baseline, changed)
	if err != nil {
		return nil, err
	}
	sc.Logger.Debugf("compared %s against %s: cumulative difference %s",
		policyName(modified), policyName(base), diff.CumulativeTotalDifference.StringFixed(0))
	return diff, nil
}

// CompareAgainst diffs modified against an already projected baseline of base.
func (sc *ScenarioComparator) CompareAgainst(ctx context.Context, baseline domain.ProjectionSeries, base, modified domain.Policy) (*domain.ScenarioDiff, error) {
	changed, err := sc.projector.Project(ctx, base.Clone(), modified.Clone())
	if err != nil {
		return nil, fmt.Errorf("modified: %w", err)
	}
	return DiffSeries(baseline, changed)
}

// DiffSeries returns the year-by-year, category-by-category difference modified - baseline.
func DiffSeries(baseline, modified domain.ProjectionSeries) (*domain.ScenarioDiff, error) {
	if len(baseline) != len(modified) {
		return nil, fmt.Errorf("series length mismatch: baseline %d, modified %d", len(baseline), len(modified))
	}
	diff := &domain.ScenarioDiff{
		Baseline:   baseline,
		Modified:   modified,
		Difference: make(domain.ProjectionSeries, len(baseline)),
	}
	total := decimal.Zero
	for i := range baseline {
		if baseline[i].Year != modified[i].Year {
			return nil, fmt.Errorf("series year mismatch at %d: baseline %d, modified %d", i, baseline[i].Year, modified[i].Year)
		}
		diff.Difference[i] = modified[i].Sub(baseline[i])
		total = total.Add(diff.Difference[i].Total())
	}
	diff.BaselineTotals = baseline.CategoryTotals()
	diff.ModifiedTotals = modified.CategoryTotals()
	diff.DifferenceTotals = diff.Difference.CategoryTotals()
	diff.CumulativeTotalDifference = total
	return diff, nil
}
