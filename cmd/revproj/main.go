package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/taxrev/revenue-projector/internal/logging"
	"go.uber.org/zap"
)

var (
	configFile string
	dataFile   string
	format     string
	outputDir  string
	envFile    string
	verbose    bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "revproj",
	Short: "Project federal tax revenue and solve for rate increases",
	Long: `revproj projects personal income, payroll and corporate tax revenue over a
multi-year window, compares a proposed policy against the current one, and searches
for rate increases that cover a revenue target.

Without --config the 2019 federal defaults are used; --data must then point at a
historical dataset (YAML file or directory of CSV files).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "configuration file (YAML)")
	pf.StringVarP(&dataFile, "data", "d", "", "historical dataset, overrides data_file from the configuration")
	pf.StringVarP(&format, "format", "f", "console", "output format (see 'revproj formats')")
	pf.StringVarP(&outputDir, "output", "o", "", "directory to write the report into instead of stdout")
	pf.StringVar(&envFile, "env-file", ".env", "environment file with REVPROJ_* overrides")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(projectCmd, compareCmd, solveCmd, rankCmd, ratesCmd, initConfigCmd, formatsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
