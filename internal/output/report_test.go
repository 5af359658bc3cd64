package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxrev/revenue-projector/internal/domain"
)

func TestSummarizeComparison(t *testing.T) {
	s, err := Summarize(buildTestReport())
	require.NoError(t, err)

	assert.Equal(t, 2, s.Years)
	assert.True(t, s.Cumulative.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.Mean.Equal(decimal.NewFromInt(50)))
	assert.True(t, s.Median.Equal(decimal.NewFromInt(50)))
	assert.True(t, s.StdDev.Equal(decimal.NewFromInt(10)))
	assert.True(t, s.Min.Equal(decimal.NewFromInt(40)))
	assert.True(t, s.Max.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, domain.CategoryCorporate, s.LargestCategory)
	assert.True(t, s.Target.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.PercentOfCost.Equal(decimal.NewFromInt(25)))
	assert.True(t, s.TargetMet)
}

func TestSummarizeProjection(t *testing.T) {
	r := buildTestReport()
	projection := &domain.Report{Kind: domain.ReportProjection, Projection: r.Diff.Baseline, Coverage: r.Coverage}

	s, err := Summarize(projection)
	require.NoError(t, err)
	assert.True(t, s.Cumulative.Equal(projection.Projection.Total()))
	assert.Equal(t, domain.CategoryIncome, s.LargestCategory)
	assert.False(t, s.TargetMet, "projections have no coverage")
	assert.True(t, s.Covered.IsZero())
}

func TestSummarizeEmpty(t *testing.T) {
	s, err := Summarize(&domain.Report{Kind: domain.ReportProjection})
	require.NoError(t, err)
	assert.Zero(t, s.Years)
	assert.True(t, s.Mean.IsZero())
}

func TestReportAssumptionsFallback(t *testing.T) {
	assert.Equal(t, DefaultAssumptions, reportAssumptions(&domain.Report{}))
	assert.NotEmpty(t, DefaultAssumptions)
}
