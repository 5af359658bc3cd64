package calculation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxrev/revenue-projector/internal/domain"
)

func fixedRun(t *testing.T) {
	t.Helper()
	SetNowFunc(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) })
	SetIDFunc(func() string { return "run-1" })
	t.Cleanup(func() {
		SetNowFunc(time.Now)
		SetIDFunc(defaultID)
	})
}

func smallCoverage() domain.Coverage {
	return domain.Coverage{TotalCost: dec("1000000000"), DesiredCoverage: dec("0.5")}
}

func TestEngineRunProjection(t *testing.T) {
	fixedRun(t)
	ce := testEngine(t)
	ce.SetLogger(nil)
	assert.IsType(t, NopLogger{}, ce.Logger)

	report, err := ce.RunProjection(context.Background(), domain.FederalPolicy2019())
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, domain.ReportProjection, report.Kind)
	assert.Equal(t, 2024, report.GeneratedAt.Year())
	assert.Len(t, report.Projection, 3)
	assert.NotEmpty(t, report.Assumptions)
	assert.Nil(t, report.Diff)
}

func TestEngineRunComparison(t *testing.T) {
	ce := testEngine(t)
	base := domain.FederalPolicy2019()
	rate := dec("0.25")
	modified, err := base.WithProposal(domain.Proposal{Name: "corporate 25", CorporateRate: &rate})
	require.NoError(t, err)

	report, err := ce.RunComparison(context.Background(), base, modified)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportComparison, report.Kind)
	require.NotNil(t, report.Diff)
	require.NotNil(t, report.Policy)
	assert.Equal(t, "corporate 25", report.Policy.Name)
	assert.True(t, report.Covered().Equal(report.Diff.CumulativeTotalDifference))
	assert.Len(t, report.EffectiveRates, 4*21)
}

func TestEngineRunSolver(t *testing.T) {
	ce := testEngine(t)
	ce.Coverage = smallCoverage()

	report, err := ce.RunSolver(context.Background(), domain.FederalPolicy2019(), domain.SolveRequest{
		Ratio:      dec("7"),
		Increments: uniform("0.0025"),
		Caps:       defaultCaps(),
	})
	require.NoError(t, err)
	require.NotNil(t, report.Solve)
	assert.Equal(t, domain.StopTargetMet, report.Solve.StopReason)
	assert.Equal(t, 1, report.Solve.Iterations)
	assert.True(t, report.Covered().Equal(report.Solve.TotalCovered))
	assert.True(t, ce.Coverage.IsCovered(report.Covered()))
	assert.Same(t, report.Solve.Diff, report.ActiveDiff())
}

func TestEngineRunRanking(t *testing.T) {
	ce := testEngine(t)
	ce.Coverage = smallCoverage()
	tp := domain.Taxpayer{Income: dec("100000"), Status: domain.Single}

	report, err := ce.RunRanking(context.Background(), domain.FederalPolicy2019(), tp, domain.SolveRequest{
		Ratio:      dec("2"),
		Increments: uniform("0.001"),
		Caps:       defaultCaps(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportRanking, report.Kind)
	assert.Len(t, report.Impacts, 4)
	assert.Len(t, report.RevenueGains, 4)
	require.NotNil(t, report.Ordered)
	require.NotNil(t, report.Diff)
	assert.True(t, report.Diff.CumulativeTotalDifference.IsPositive())
	assert.Equal(t, tp, *report.Taxpayer)
}

func TestNewCalculationEngineMissingHistory(t *testing.T) {
	a := testAssumptions()
	a.IncomeBaseYear = 1999
	_, err := NewCalculationEngine(testDataset(t), a, domain.DefaultCoverage())
	assert.ErrorIs(t, err, domain.ErrMissingHistory)
}
