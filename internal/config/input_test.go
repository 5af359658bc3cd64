package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxrev/revenue-projector/internal/domain"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

var exampleConfig = filepath.Join("..", "..", "testdata", "example_config.yaml")

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(exampleConfig)
	require.NoError(t, err)

	assert.Equal(t, "sample_dataset.yaml", config.DataFile)
	assert.Equal(t, 2020, config.Assumptions.StartYear)
	assert.Len(t, config.Proposals, 2)
	assert.True(t, config.Coverage.Target().Equal(decimal.NewFromInt(15_000_000_000_000)))
	assert.Equal(t, domain.Single, config.Taxpayer.Status)

	// The file carries the built-in 2019 federal policy.
	assert.Empty(t, cmp.Diff(domain.FederalPolicy2019(), config.CurrentPolicy, decimalComparer))

	proposed, err := config.ProposedPolicy("Payroll and corporate")
	require.NoError(t, err)
	assert.True(t, proposed.CorporateRate.Equal(decimal.RequireFromString("0.28")))
	assert.True(t, proposed.Payroll.HIRate.Equal(decimal.RequireFromString("0.035")))
	assert.True(t, config.CurrentPolicy.CorporateRate.Equal(decimal.RequireFromString("0.21")))

	_, err = config.ProposedPolicy("missing")
	assert.Error(t, err)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("nonexistent_file.yaml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeConfig(t, "assumptions: [unclosed"))
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadFromFile_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvYears, "4")
	t.Setenv(EnvInflation, "0.03")

	parser := NewInputParser()
	config, err := parser.LoadFromFile(exampleConfig)
	require.NoError(t, err)
	assert.Equal(t, 4, config.Assumptions.Years)
	assert.True(t, config.Assumptions.Inflation.Equal(decimal.RequireFromString("0.03")))
}

func TestLoadFromFile_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvDataFile+"=other.yaml\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv(EnvDataFile) })

	parser := NewInputParser()
	parser.EnvFiles = []string{envFile, filepath.Join(t.TempDir(), "missing.env")}
	config, err := parser.LoadFromFile(exampleConfig)
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", config.DataFile)
}

func TestLoadFromFile_BadOverride(t *testing.T) {
	t.Setenv(EnvStartYear, "soon")

	_, err := NewInputParser().LoadFromFile(exampleConfig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvStartYear)
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *domain.Configuration)
		wantErr string
	}{
		{
			name:   "example is valid",
			mutate: func(c *domain.Configuration) {},
		},
		{
			name:    "zero years",
			mutate:  func(c *domain.Configuration) { c.Assumptions.Years = 0 },
			wantErr: "Years",
		},
		{
			name:    "coverage above one",
			mutate:  func(c *domain.Configuration) { c.Coverage.DesiredCoverage = decimal.RequireFromString("1.5") },
			wantErr: "DesiredCoverage",
		},
		{
			name:    "ratio below one",
			mutate:  func(c *domain.Configuration) { c.Solver.Ratio = decimal.RequireFromString("0.5") },
			wantErr: "Ratio",
		},
		{
			name: "descending rates",
			mutate: func(c *domain.Configuration) {
				c.CurrentPolicy.Brackets[0].Brackets[1].Rate = decimal.RequireFromString("0.05")
			},
			wantErr: "current policy validation failed",
		},
		{
			name: "missing deduction",
			mutate: func(c *domain.Configuration) {
				delete(c.CurrentPolicy.StandardDeduction, domain.HeadOfHousehold)
			},
			wantErr: "no standard deduction for head_of_household",
		},
		{
			name: "proposal with wrong rate count",
			mutate: func(c *domain.Configuration) {
				c.Proposals[0].IncomeRates = c.Proposals[0].IncomeRates[:3]
			},
			wantErr: "proposal 0 validation failed",
		},
		{
			name: "duplicate proposal",
			mutate: func(c *domain.Configuration) {
				c.Proposals[1].Name = c.Proposals[0].Name
			},
			wantErr: "duplicate name",
		},
		{
			name:    "cap below current rate",
			mutate:  func(c *domain.Configuration) { c.Solver.Caps.Corporate = decimal.RequireFromString("0.2") },
			wantErr: "corporate cap",
		},
		{
			name:    "unknown taxpayer status",
			mutate:  func(c *domain.Configuration) { c.Taxpayer.Status = "widowed" },
			wantErr: "taxpayer filing status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewInputParser()
			config := parser.CreateExampleConfiguration()
			tt.mutate(config)
			err := parser.ValidateConfiguration(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()
	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, parser.SaveToFile(config, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "current_policy:"))

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(config, loaded, decimalComparer))
}
