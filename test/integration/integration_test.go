package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxrev/revenue-projector/internal/calculation"
	"github.com/taxrev/revenue-projector/internal/config"
	"github.com/taxrev/revenue-projector/internal/dataset"
	"github.com/taxrev/revenue-projector/internal/domain"
)

var testdata = filepath.Join("..", "..", "testdata")

func loadEngine(t *testing.T) (*domain.Configuration, *calculation.CalculationEngine) {
	t.Helper()
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(filepath.Join(testdata, "example_config.yaml"))
	require.NoError(t, err)

	manager := dataset.NewManager(filepath.Join(testdata, cfg.DataFile))
	require.NoError(t, manager.Load())
	ds, err := manager.Dataset(cfg.Assumptions)
	require.NoError(t, err)

	engine, err := calculation.NewCalculationEngine(ds, cfg.Assumptions, cfg.Coverage)
	require.NoError(t, err)
	return cfg, engine
}

func TestEndToEndProjection(t *testing.T) {
	cfg, engine := loadEngine(t)

	report, err := engine.RunProjection(context.Background(), cfg.CurrentPolicy)
	require.NoError(t, err)
	require.Len(t, report.Projection, cfg.Assumptions.Years)
	assert.Equal(t, cfg.Assumptions.StartYear, report.Projection[0].Year)
	for _, y := range report.Projection {
		assert.True(t, y.Total().IsPositive(), "year %d", y.Year)
	}
	assert.True(t, report.Covered().IsZero())
}

func TestEndToEndComparison(t *testing.T) {
	cfg, engine := loadEngine(t)
	modified, err := cfg.ProposedPolicy("Payroll and corporate")
	require.NoError(t, err)

	report, err := engine.RunComparison(context.Background(), cfg.CurrentPolicy, modified)
	require.NoError(t, err)
	require.NotNil(t, report.Diff)
	assert.Len(t, report.Diff.Difference, cfg.Assumptions.Years)
	for _, y := range report.Diff.Difference {
		assert.True(t, y.Corporate.IsPositive(), "year %d", y.Year)
		assert.True(t, y.Income.IsZero(), "year %d", y.Year)
	}
	assert.True(t, report.Diff.CumulativeTotalDifference.IsPositive())
	assert.NotEmpty(t, report.EffectiveRates)

	// The proposal leaves the base policy untouched.
	assert.True(t, cfg.CurrentPolicy.CorporateRate.Equal(decimal.RequireFromString("0.21")))
}

func TestEndToEndSolver(t *testing.T) {
	cfg, engine := loadEngine(t)
	req := cfg.Solver.Request()
	req.MaxIterations = 3

	report, err := engine.RunSolver(context.Background(), cfg.CurrentPolicy, req)
	require.NoError(t, err)
	require.NotNil(t, report.Solve)
	assert.LessOrEqual(t, report.Solve.Iterations, 3)
	assert.Contains(t, []domain.StopReason{domain.StopTargetMet, domain.StopIterationLimit, domain.StopLeversFrozen}, report.Solve.StopReason)
	assert.False(t, report.Solve.TotalCovered.IsNegative())
	assert.True(t, report.Solve.Policy.CorporateRate.GreaterThanOrEqual(cfg.CurrentPolicy.CorporateRate))
}

func TestEndToEndRanking(t *testing.T) {
	cfg, engine := loadEngine(t)
	req := cfg.Solver.Request()
	req.MaxIterations = 2

	report, err := engine.RunRanking(context.Background(), cfg.CurrentPolicy, cfg.Taxpayer, req)
	require.NoError(t, err)
	assert.Len(t, report.Impacts, len(domain.Levers))
	assert.Len(t, report.RevenueGains, len(domain.Levers))
	require.NotNil(t, report.Ordered)
	assert.NotEmpty(t, report.Ordered.Steps)
	for i := 1; i < len(report.Impacts); i++ {
		assert.True(t, report.Impacts[i-1].EffectiveDelta.LessThanOrEqual(report.Impacts[i].EffectiveDelta))
	}
}

func TestEndToEndCSVDataset(t *testing.T) {
	cfg, _ := loadEngine(t)
	manager := dataset.NewManager(filepath.Join(testdata, "csv"))
	require.NoError(t, manager.Load())
	ds, err := manager.Dataset(cfg.Assumptions)
	require.NoError(t, err)

	engine, err := calculation.NewCalculationEngine(ds, cfg.Assumptions, cfg.Coverage)
	require.NoError(t, err)
	report, err := engine.RunProjection(context.Background(), cfg.CurrentPolicy)
	require.NoError(t, err)
	assert.Len(t, report.Projection, cfg.Assumptions.Years)
}
