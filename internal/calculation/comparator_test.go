package calculation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxrev/revenue-projector/internal/domain"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failingProjector struct{ err error }

func (f failingProjector) Project(ctx context.Context, current, policy domain.Policy) (domain.ProjectionSeries, error) {
	return nil, f.err
}

func TestCompareIdenticalPolicies(t *testing.T) {
	ce := testEngine(t)
	policy := domain.FederalPolicy2019()

	diff, err := ce.Comparator.Compare(context.Background(), policy, policy)
	require.NoError(t, err)

	require.Len(t, diff.Difference, 3)
	for _, y := range diff.Difference {
		for _, c := range domain.Categories {
			assert.True(t, y.Get(c).IsZero(), "%d %s: %s", y.Year, c, y.Get(c))
		}
	}
	assert.True(t, diff.CumulativeTotalDifference.IsZero())
	assert.True(t, diff.DifferenceTotals.Total().IsZero())
	assert.True(t, diff.BaselineTotals.Total().Equal(diff.Baseline.Total()))
}

func TestCompareCorporateRaise(t *testing.T) {
	ce := testEngine(t)
	base := domain.FederalPolicy2019()
	modified := base.Clone()
	modified.CorporateRate = RaiseCorporateRate(base.CorporateRate, dec("0.01"))

	diff, err := ce.Comparator.Compare(context.Background(), base, modified)
	require.NoError(t, err)

	assert.True(t, diff.CumulativeTotalDifference.IsPositive())
	assert.True(t, diff.DifferenceTotals.Corporate.Equal(diff.CumulativeTotalDifference))
	for _, y := range diff.Difference {
		assert.True(t, y.Income.IsZero())
		assert.True(t, y.OASDI.IsZero())
		assert.True(t, y.HI.IsZero())
		assert.True(t, y.AddHI.IsZero())
	}
	assert.True(t, base.CorporateRate.Equal(dec("0.21")), "base policy must not change")

	t.Run("reusing a baseline gives the same diff", func(t *testing.T) {
		baseline, err := ce.Comparator.Baseline(context.Background(), base)
		require.NoError(t, err)
		again, err := ce.Comparator.CompareAgainst(context.Background(), baseline, base, modified)
		require.NoError(t, err)
		assert.True(t, again.CumulativeTotalDifference.Equal(diff.CumulativeTotalDifference))
	})
}

func TestCompareProjectorFailure(t *testing.T) {
	boom := errors.New("boom")
	sc := NewScenarioComparator(failingProjector{err: boom})
	policy := domain.FederalPolicy2019()
	_, err := sc.Compare(context.Background(), policy, policy)
	assert.ErrorIs(t, err, boom)
}

func TestDiffSeriesLengthMismatch(t *testing.T) {
	_, err := DiffSeries(make(domain.ProjectionSeries, 2), make(domain.ProjectionSeries, 3))
	assert.Error(t, err)
}
