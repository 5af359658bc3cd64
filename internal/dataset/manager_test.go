package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxrev/revenue-projector/internal/domain"
)

var testdata = filepath.Join("..", "..", "testdata")

func TestLoadYAML(t *testing.T) {
	m := NewManager(filepath.Join(testdata, "sample_dataset.yaml"))
	require.NoError(t, m.Load())
	assert.True(t, m.IsLoaded)
	assert.Equal(t, "sample federal statistics", m.Name)

	ds, err := m.Dataset(domain.DefaultAssumptions())
	require.NoError(t, err)
	assert.Equal(t, 11, ds.Buckets.Len())
	assert.Len(t, ds.Buckets.ForYear(2016), 11)

	rec, ok := ds.Buckets.Get(domain.BucketKey{Status: domain.Single, Year: 2016, Label: "$50,000 under $200,000"})
	require.True(t, ok)
	assert.True(t, rec.AverageAGI().Equal(decimal.NewFromInt(90000)))

	payroll, ok := ds.PayrollFor(2016)
	require.True(t, ok)
	assert.True(t, payroll.HIRevenue.Equal(decimal.NewFromInt(250_000_000_000)))

	corp := m.Statistics["corporate_revenue"]
	assert.Equal(t, 2, corp.Count)
	assert.True(t, corp.Mean.Equal(decimal.NewFromInt(251_000_000_000)))
	assert.Empty(t, corp.MissingYears)

	// Second load is a no-op.
	m.DataPath = "does-not-exist"
	assert.NoError(t, m.Load())
}

func TestLoadCSVDirectory(t *testing.T) {
	m := NewManager(filepath.Join(testdata, "csv"))
	require.NoError(t, m.Load())

	ds, err := m.Dataset(domain.DefaultAssumptions())
	require.NoError(t, err)
	assert.Equal(t, 11, ds.Buckets.Len(), "malformed row is skipped")

	rec, ok := ds.Buckets.Get(domain.BucketKey{Status: domain.MarriedJoint, Year: 2016, Label: "$1,000,000 or more"})
	require.True(t, ok)
	assert.True(t, rec.Min.Equal(rec.Max))

	oasdi := m.Statistics["oasdi_revenue"]
	assert.Equal(t, 2014, oasdi.MinYear)
	assert.Equal(t, 2016, oasdi.MaxYear)
	assert.Equal(t, []int{2015}, oasdi.MissingYears)
}

func TestDatasetMissingBaseYear(t *testing.T) {
	m := NewManager(filepath.Join(testdata, "sample_dataset.yaml"))
	require.NoError(t, m.Load())

	a := domain.DefaultAssumptions()
	a.CorporateBaseYear = 2010
	_, err := m.Dataset(a)
	assert.ErrorIs(t, err, domain.ErrMissingHistory)
}

func TestDatasetNotLoaded(t *testing.T) {
	_, err := NewManager("unused").Dataset(domain.DefaultAssumptions())
	assert.Error(t, err)
}

func TestLoadInvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			content: "buckets: [",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "no payroll",
			content: "buckets:\n  - {status: single, year: 2016, label: a, min: 0, max: 10, returns: 1, total_agi: 5}\nfederal_revenue:\n  - {year: 2018, corporate: 1}\n",
			wantErr: "dataset validation failed",
		},
		{
			name: "inverted bucket",
			content: "buckets:\n  - {status: single, year: 2016, label: a, min: 10, max: 0, returns: 1, total_agi: 5}\n" +
				"payroll:\n  - {year: 2016, oasdi_revenue: 1, hi_revenue: 1}\nfederal_revenue:\n  - {year: 2018, corporate: 1}\n",
			wantErr: "below min",
		},
		{
			name: "duplicate bucket",
			content: "buckets:\n  - {status: single, year: 2016, label: a, min: 0, max: 10, returns: 1, total_agi: 5}\n" +
				"  - {status: single, year: 2016, label: a, min: 0, max: 10, returns: 1, total_agi: 5}\n" +
				"payroll:\n  - {year: 2016, oasdi_revenue: 1, hi_revenue: 1}\nfederal_revenue:\n  - {year: 2018, corporate: 1}\n",
			wantErr: "duplicate bucket record",
		},
		{
			name: "negative revenue",
			content: "buckets:\n  - {status: single, year: 2016, label: a, min: 0, max: 10, returns: 1, total_agi: 5}\n" +
				"payroll:\n  - {year: 2016, oasdi_revenue: -1, hi_revenue: 1}\nfederal_revenue:\n  - {year: 2018, corporate: 1}\n",
			wantErr: "dataset validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			err := NewManager(path).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingPath(t *testing.T) {
	err := NewManager(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read dataset")
}
