package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
	"gopkg.in/yaml.v3"
)

// Environment variables that override assumption fields after the file is parsed.
const (
	EnvStartYear        = "REVPROJ_START_YEAR"
	EnvYears            = "REVPROJ_YEARS"
	EnvInflation        = "REVPROJ_INFLATION"
	EnvPopulationGrowth = "REVPROJ_POPULATION_GROWTH"
	EnvGDPGrowth        = "REVPROJ_GDP_GROWTH"
	EnvDataFile         = "REVPROJ_DATA_FILE"
)

// InputParser handles parsing of input configuration files
type InputParser struct {
	// EnvFiles are loaded with godotenv before overrides are read. Missing files are ignored.
	EnvFiles []string
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{validate: domain.NewValidator()}
}

// LoadFromFile loads configuration from a YAML file and applies environment overrides
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ApplyEnvironment(&config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ApplyEnvironment overrides assumption fields from REVPROJ_* variables.
func (ip *InputParser) ApplyEnvironment(config *domain.Configuration) error {
	for _, f := range ip.EnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	ints := map[string]*int{
		EnvStartYear: &config.Assumptions.StartYear,
		EnvYears:     &config.Assumptions.Years,
	}
	for name, field := range ints {
		if v, ok := os.LookupEnv(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*field = n
		}
	}

	decimals := map[string]*decimal.Decimal{
		EnvInflation:        &config.Assumptions.Inflation,
		EnvPopulationGrowth: &config.Assumptions.PopulationGrowth,
		EnvGDPGrowth:        &config.Assumptions.GDPGrowth,
	}
	for name, field := range decimals {
		if v, ok := os.LookupEnv(name); ok {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*field = d
		}
	}

	if v, ok := os.LookupEnv(EnvDataFile); ok {
		config.DataFile = v
	}
	return nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if ip.validate == nil {
		ip.validate = domain.NewValidator()
	}
	if err := ip.validate.Struct(config); err != nil {
		return err
	}

	if err := ip.validatePolicy(&config.CurrentPolicy); err != nil {
		return fmt.Errorf("current policy validation failed: %w", err)
	}

	seen := make(map[string]bool, len(config.Proposals))
	for i, p := range config.Proposals {
		if seen[p.Name] {
			return fmt.Errorf("proposal %d: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		if _, err := config.CurrentPolicy.WithProposal(p); err != nil {
			return fmt.Errorf("proposal %d validation failed: %w", i, err)
		}
	}

	if err := ip.validateSolver(&config.Solver, &config.CurrentPolicy); err != nil {
		return fmt.Errorf("solver validation failed: %w", err)
	}

	if _, ok := config.CurrentPolicy.Brackets.For(config.Taxpayer.Status); !ok {
		return fmt.Errorf("taxpayer filing status %q has no brackets", config.Taxpayer.Status)
	}
	return nil
}

func (ip *InputParser) validatePolicy(p *domain.Policy) error {
	if err := p.Brackets.Validate(); err != nil {
		return err
	}
	for _, status := range p.Brackets.Statuses() {
		if _, ok := p.StandardDeduction[status]; !ok {
			return fmt.Errorf("no standard deduction for %s", status)
		}
		if _, ok := p.Payroll.AddHIThresholds[status]; !ok {
			return fmt.Errorf("no additional HI threshold for %s", status)
		}
	}
	if len(p.StandardDeduction) != len(p.Brackets) {
		return fmt.Errorf("standard deduction lists %d filing statuses, brackets list %d",
			len(p.StandardDeduction), len(p.Brackets))
	}
	return nil
}

func (ip *InputParser) validateSolver(s *domain.SolverSettings, p *domain.Policy) error {
	current := domain.LeverSet{
		Income:    p.Brackets.TopRate(),
		HI:        p.Payroll.HIRate,
		AddHI:     p.Payroll.AddHIRate,
		Corporate: p.CorporateRate,
	}
	for _, l := range domain.Levers {
		if s.Caps.Get(l).LessThan(current.Get(l)) {
			return fmt.Errorf("%s cap %s is below the current rate %s", l, s.Caps.Get(l), current.Get(l))
		}
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	policy := domain.FederalPolicy2019()
	rate := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	return &domain.Configuration{
		DataFile:      "testdata/sample_dataset.yaml",
		Assumptions:   domain.DefaultAssumptions(),
		Coverage:      domain.DefaultCoverage(),
		CurrentPolicy: policy,
		Proposals: []domain.Proposal{
			{
				Name:        "Higher top brackets",
				IncomeRates: decimals("0.10", "0.12", "0.22", "0.24", "0.35", "0.40", "0.45"),
			},
			{
				Name:          "Payroll and corporate",
				HIRate:        rate("0.035"),
				AddHIRate:     rate("0.012"),
				CorporateRate: rate("0.28"),
			},
		},
		Solver: domain.SolverSettings{
			Ratio: decimal.NewFromInt(7),
			Increments: domain.LeverSet{
				Income:    decimal.RequireFromString("0.0025"),
				HI:        decimal.RequireFromString("0.0025"),
				AddHI:     decimal.RequireFromString("0.0025"),
				Corporate: decimal.RequireFromString("0.0025"),
			},
			Caps: domain.LeverSet{
				Income:    decimal.RequireFromString("0.55"),
				HI:        decimal.RequireFromString("0.05"),
				AddHI:     decimal.RequireFromString("0.05"),
				Corporate: decimal.RequireFromString("0.35"),
			},
		},
		Taxpayer: domain.Taxpayer{
			Income: decimal.NewFromInt(100000),
			Status: domain.Single,
		},
	}
}

// SaveToFile writes a configuration as YAML.
func (ip *InputParser) SaveToFile(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

func decimals(vals ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}
