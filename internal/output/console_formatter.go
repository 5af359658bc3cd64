package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/taxrev/revenue-projector/internal/domain"
)

// ConsoleFormatter provides a concise plain-text summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	summary, err := Summarize(report)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "REVENUE %s SUMMARY\n", strings.ToUpper(string(report.Kind)))
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Years: %d  Cumulative: %s\n", summary.Years, FormatDollars(summary.Cumulative))
	if report.Policy != nil {
		fmt.Fprintf(&buf, "Policy: %s\n", report.Policy.Name)
	}
	if report.Solve != nil {
		fmt.Fprintf(&buf, "Search: %d iterations, %s\n", report.Solve.Iterations, report.Solve.StopReason)
	}
	for i, imp := range report.Impacts {
		fmt.Fprintf(&buf, "%d. %s (%s)\n", i+1, imp.Lever, FormatRate(imp.EffectiveDelta))
	}
	if report.Kind != domain.ReportProjection {
		status := "NOT MET"
		if summary.TargetMet {
			status = "MET"
		}
		fmt.Fprintf(&buf, "Coverage: %s of %s target (%s of cost) %s\n",
			FormatDollars(summary.Covered), FormatDollars(summary.Target), FormatPercentage(summary.PercentOfCost), status)
	}
	return buf.Bytes(), nil
}
