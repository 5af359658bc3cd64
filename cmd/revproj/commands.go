package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/taxrev/revenue-projector/internal/calculation"
	"github.com/taxrev/revenue-projector/internal/config"
	"github.com/taxrev/revenue-projector/internal/dataset"
	"github.com/taxrev/revenue-projector/internal/domain"
	"github.com/taxrev/revenue-projector/internal/logging"
	"github.com/taxrev/revenue-projector/internal/output"
)

var (
	proposalName   string
	maxIterations  int
	taxpayerIncome string
	taxpayerStatus string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project revenue under the current policy or a named proposal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := newRun()
		if err != nil {
			return err
		}
		policy := run.cfg.CurrentPolicy
		if proposalName != "" {
			if policy, err = run.cfg.ProposedPolicy(proposalName); err != nil {
				return err
			}
		}
		report, err := run.engine.RunProjection(cmd.Context(), policy)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), report)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a named proposal against the current policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if proposalName == "" {
			return errors.New("--proposal is required")
		}
		run, err := newRun()
		if err != nil {
			return err
		}
		modified, err := run.cfg.ProposedPolicy(proposalName)
		if err != nil {
			return err
		}
		report, err := run.engine.RunComparison(cmd.Context(), run.cfg.CurrentPolicy, modified)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), report)
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Raise all levers together until the coverage target is met",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := newRun()
		if err != nil {
			return err
		}
		req := run.cfg.Solver.Request()
		if cmd.Flags().Changed("max-iterations") {
			req.MaxIterations = maxIterations
		}
		report, err := run.engine.RunSolver(cmd.Context(), run.cfg.CurrentPolicy, req)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), report)
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank levers by their effect on a taxpayer and apply them least burdensome first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := newRun()
		if err != nil {
			return err
		}
		tp, err := taxpayer(run.cfg.Taxpayer)
		if err != nil {
			return err
		}
		req := run.cfg.Solver.Request()
		if cmd.Flags().Changed("max-iterations") {
			req.MaxIterations = maxIterations
		}
		report, err := run.engine.RunRanking(cmd.Context(), run.cfg.CurrentPolicy, tp, req)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), report)
	},
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show a taxpayer's effective income and payroll tax rates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}
		tp, err := taxpayer(cfg.Taxpayer)
		if err != nil {
			return err
		}
		policies := []domain.Policy{cfg.CurrentPolicy}
		if proposalName != "" {
			p, err := cfg.ProposedPolicy(proposalName)
			if err != nil {
				return err
			}
			policies = append(policies, p)
		}

		rates := calculation.NewEffectiveRateCalculator(cfg.Assumptions)
		year := cfg.Assumptions.StartYear + cfg.Assumptions.Years
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(w, "Policy\tIncome tax\tPayroll tax\tTotal\t\n")
		for _, p := range policies {
			income, err := rates.IncomeTaxRate(p, tp, year)
			if err != nil {
				return err
			}
			payroll, err := rates.PayrollTaxRate(p.Payroll, tp, year)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", p.Name, output.FormatRate(income), output.FormatRate(payroll),
				output.FormatRate(income.Add(payroll)))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s filer with %s in %d\n", tp.Status, output.FormatDollars(tp.Income), year)
		return w.Flush()
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [file]",
	Short: "Write an example configuration with the 2019 federal policy",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		parser := config.NewInputParser()
		if err := parser.SaveToFile(parser.CreateExampleConfiguration(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", path)
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List output formats and aliases",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Formats: %s, all\n", strings.Join(output.AvailableFormatterNames(), ", "))
		fmt.Fprintf(cmd.OutOrStdout(), "Aliases: %s\n", strings.Join(output.AvailableFormatAliases(), ", "))
	},
}

func init() {
	for _, c := range []*cobra.Command{projectCmd, compareCmd, ratesCmd} {
		c.Flags().StringVarP(&proposalName, "proposal", "p", "", "named proposal from the configuration")
	}
	for _, c := range []*cobra.Command{solveCmd, rankCmd} {
		c.Flags().IntVar(&maxIterations, "max-iterations", 0, "stop the search after this many increments (0 = until capped)")
	}
	for _, c := range []*cobra.Command{rankCmd, ratesCmd} {
		c.Flags().StringVar(&taxpayerIncome, "income", "", "taxpayer income, overrides the configuration")
		c.Flags().StringVar(&taxpayerStatus, "status", "", "taxpayer filing status, overrides the configuration")
	}
}

type run struct {
	cfg    *domain.Configuration
	engine *calculation.CalculationEngine
}

func loadConfiguration() (*domain.Configuration, error) {
	parser := config.NewInputParser()
	parser.EnvFiles = []string{envFile}
	if configFile == "" {
		cfg := parser.CreateExampleConfiguration()
		cfg.DataFile = ""
		if err := parser.ApplyEnvironment(cfg); err != nil {
			return nil, err
		}
		return cfg, parser.ValidateConfiguration(cfg)
	}
	cfg, err := parser.LoadFromFile(configFile)
	if err != nil {
		return nil, err
	}
	if cfg.DataFile != "" && !filepath.IsAbs(cfg.DataFile) {
		cfg.DataFile = filepath.Join(filepath.Dir(configFile), cfg.DataFile)
	}
	return cfg, nil
}

func newRun() (*run, error) {
	cfg, err := loadConfiguration()
	if err != nil {
		return nil, err
	}
	path := cfg.DataFile
	if dataFile != "" {
		path = dataFile
	}
	if path == "" {
		return nil, errors.New("no dataset: set data_file in the configuration or pass --data")
	}

	manager := dataset.NewManager(path)
	if err := manager.Load(); err != nil {
		return nil, err
	}
	ds, err := manager.Dataset(cfg.Assumptions)
	if err != nil {
		return nil, err
	}
	logger.Sugar().Debugf("loaded %d income buckets from %s", ds.Buckets.Len(), path)

	engine, err := calculation.NewCalculationEngine(ds, cfg.Assumptions, cfg.Coverage)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(logger.Sugar())
	return &run{cfg: cfg, engine: engine}, nil
}

func taxpayer(tp domain.Taxpayer) (domain.Taxpayer, error) {
	if taxpayerIncome != "" {
		income, err := decimal.NewFromString(taxpayerIncome)
		if err != nil {
			return tp, fmt.Errorf("invalid --income: %w", err)
		}
		tp.Income = income
	}
	if taxpayerStatus != "" {
		tp.Status = domain.FilingStatus(taxpayerStatus)
	}
	if tp.Income.IsNegative() {
		return tp, errors.New("taxpayer income cannot be negative")
	}
	return tp, nil
}

// emit writes the report to stdout, or into the output directory when one is set.
func emit(w io.Writer, report *domain.Report) error {
	log := logging.ForRun(logger, report.RunID)
	if outputDir != "" {
		paths, err := output.GenerateReport(report, format, outputDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			log.Infof("report written to %s", p)
			fmt.Fprintf(w, "Report written to %s\n", p)
		}
		return nil
	}

	if output.NormalizeFormatName(format) == "all" {
		return errors.New("format all needs --output")
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q (see 'revproj formats')", output.ErrUnsupportedFormat, format)
	}
	if f.Name() == "xlsx" {
		return errors.New("xlsx output needs --output")
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	log.Debugf("formatted %s report with %s", report.Kind, f.Name())
	_, err = w.Write(data)
	return err
}
