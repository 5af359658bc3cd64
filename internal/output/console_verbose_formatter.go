package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
)

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorBorder  = lipgloss.Color("#16858E")
	colorWarning = lipgloss.Color("#F4D03F")
	colorMuted   = lipgloss.Color("#2C4A54")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	headerCell   = lipgloss.NewStyle().Bold(true).Align(lipgloss.Right)
	cell         = lipgloss.NewStyle().Align(lipgloss.Right)
)

var categoryHeaders = []string{"Year", "Income", "OASDI", "HI", "Add'l HI", "Corporate", "Total"}

// ConsoleVerboseFormatter renders the full styled console report.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render("TAX REVENUE "+strings.ToUpper(string(report.Kind))+" REPORT"))
	fmt.Fprintln(&buf, mutedStyle.Render(fmt.Sprintf("run %s, generated %s", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05"))))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("KEY ASSUMPTIONS"))
	for _, a := range reportAssumptions(report) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("POLICY"))
	fmt.Fprintln(&buf, renderPolicies(report))
	fmt.Fprintln(&buf)

	if diff := report.ActiveDiff(); diff != nil {
		fmt.Fprintln(&buf, sectionStyle.Render("REVENUE DIFFERENCE (modified - baseline)"))
		fmt.Fprintln(&buf, renderSeries(diff.Difference, &diff.DifferenceTotals))
		fmt.Fprintf(&buf, "Baseline total: %s   Modified total: %s\n",
			FormatShort(diff.BaselineTotals.Total()), FormatShort(diff.ModifiedTotals.Total()))
		fmt.Fprintln(&buf)
	} else if len(report.Projection) > 0 {
		fmt.Fprintln(&buf, sectionStyle.Render("PROJECTED REVENUE"))
		totals := report.Projection.CategoryTotals()
		fmt.Fprintln(&buf, renderSeries(report.Projection, &totals))
		fmt.Fprintln(&buf)
	}

	if report.Solve != nil {
		writeSolveSection(&buf, report.Solve)
	}
	if len(report.Impacts) > 0 {
		writeRankingSection(&buf, report)
	}

	if report.Kind != domain.ReportProjection {
		writeCoverageSection(&buf, report)
	}

	summary, err := Summarize(report)
	if err != nil {
		return nil, err
	}
	if summary.Years > 0 {
		fmt.Fprintln(&buf, sectionStyle.Render("YEARLY TOTALS"))
		fmt.Fprintf(&buf, "Mean %s  Median %s  Std dev %s  Min %s  Max %s\n",
			FormatShort(summary.Mean), FormatShort(summary.Median), FormatShort(summary.StdDev),
			FormatShort(summary.Min), FormatShort(summary.Max))
		if summary.LargestCategory != "" {
			fmt.Fprintf(&buf, "Largest category: %s\n", summary.LargestCategory)
		}
		fmt.Fprintln(&buf)
	}

	if len(report.EffectiveRates) > 0 {
		fmt.Fprintln(&buf, sectionStyle.Render("EFFECTIVE TAX RATES (income + payroll)"))
		fmt.Fprintln(&buf, renderEffectiveRates(report.EffectiveRates))
	}
	return buf.Bytes(), nil
}

func renderPolicies(report *domain.Report) string {
	lines := []string{policyLine("Base", report.BasePolicy)}
	if report.Policy != nil {
		lines = append(lines, policyLine("Modified", *report.Policy))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func policyLine(label string, p domain.Policy) string {
	name := p.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("%-8s %-24s top income %s  HI %s  add'l HI %s  corporate %s",
		label, name, FormatRate(p.Brackets.TopRate()), FormatRate(p.Payroll.HIRate),
		FormatRate(p.Payroll.AddHIRate), FormatRate(p.CorporateRate))
}

func seriesRow(label string, y domain.RevenueYear) []string {
	return []string{
		label,
		FormatShort(y.Income),
		FormatShort(y.OASDI),
		FormatShort(y.HI),
		FormatShort(y.AddHI),
		FormatShort(y.Corporate),
		FormatShort(y.Total()),
	}
}

func renderSeries(series domain.ProjectionSeries, totals *domain.RevenueYear) string {
	rows := make([][]string, 0, len(series)+1)
	for _, y := range series {
		rows = append(rows, seriesRow(intToString(y.Year), y))
	}
	if totals != nil {
		rows = append(rows, seriesRow("Total", *totals))
	}
	return renderTable(categoryHeaders, rows)
}

func writeSolveSection(buf *bytes.Buffer, res *domain.SolveResult) {
	fmt.Fprintln(buf, sectionStyle.Render("RATE SEARCH"))
	fmt.Fprintf(buf, "Iterations: %d\n", res.Iterations)
	fmt.Fprintf(buf, "Stopped: %s\n", res.StopReason)
	fmt.Fprintf(buf, "Covered by this search: %s\n", FormatShort(res.CoveredByThisCall))
	if res.PartialCoverage {
		fmt.Fprintln(buf, warningStyle.Render("Target not reached: levers frozen before coverage was met"))
	}
	fmt.Fprintln(buf)
}

func writeRankingSection(buf *bytes.Buffer, report *domain.Report) {
	title := "LEVER RANKING"
	if report.Taxpayer != nil {
		title = fmt.Sprintf("LEVER RANKING (%s filer, %s)", report.Taxpayer.Status, FormatDollars(report.Taxpayer.Income))
	}
	fmt.Fprintln(buf, sectionStyle.Render(title))

	gains := make(map[domain.Lever]decimal.Decimal, len(report.RevenueGains))
	for _, g := range report.RevenueGains {
		gains[g.Lever] = g.Revenue
	}
	steps := make(map[domain.Lever]domain.LeverStep)
	if report.Ordered != nil {
		for _, s := range report.Ordered.Steps {
			steps[s.Lever] = s
		}
	}

	rows := make([][]string, 0, len(report.Impacts))
	for i, imp := range report.Impacts {
		row := []string{intToString(i + 1), string(imp.Lever), FormatRate(imp.EffectiveDelta), FormatShort(gains[imp.Lever]), "", ""}
		if s, ok := steps[imp.Lever]; ok && s.Result != nil {
			row[4] = intToString(s.Result.Iterations)
			row[5] = FormatShort(s.Result.CoveredByThisCall)
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(buf, renderTable([]string{"#", "Lever", "Rate impact", "Gain/increment", "Iterations", "Covered"}, rows))
	fmt.Fprintln(buf)
}

func writeCoverageSection(buf *bytes.Buffer, report *domain.Report) {
	covered := report.Covered()
	fmt.Fprintln(buf, sectionStyle.Render("COVERAGE"))
	fmt.Fprintf(buf, "Program cost: %s  Target: %s (%s)\n",
		FormatShort(report.Coverage.TotalCost), FormatShort(report.Coverage.Target()),
		FormatRate(report.Coverage.DesiredCoverage))
	fmt.Fprintf(buf, "Covered: %s (%s of cost)\n", FormatShort(covered), FormatPercentage(report.Coverage.PercentOfCost(covered)))
	if report.Coverage.IsCovered(covered) {
		fmt.Fprintln(buf, titleStyle.Render("Target met"))
	} else {
		fmt.Fprintln(buf, warningStyle.Render("Target not met"))
	}
	fmt.Fprintln(buf)
}

// effectiveRateStep thins the effective-rate table to every 100k of income.
const effectiveRateStep = 4

func renderEffectiveRates(rows []domain.EffectiveRateRow) string {
	var out [][]string
	var status domain.FilingStatus
	n := 0
	for _, r := range rows {
		if r.Status != status {
			status, n = r.Status, 0
		}
		if n%effectiveRateStep == 0 {
			out = append(out, []string{string(r.Status), FormatDollars(r.Income), FormatRate(r.Baseline), FormatRate(r.Modified), FormatRate(r.Change)})
		}
		n++
	}
	return renderTable([]string{"Status", "Income", "Baseline", "Modified", "Change"}, out)
}

// renderTable right-aligns every column to its widest cell.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if w := lipgloss.Width(c); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+2)
	head := make([]string, len(headers))
	rule := make([]string, len(headers))
	for i, h := range headers {
		head[i] = headerCell.Width(widths[i]).Render(h)
		rule[i] = strings.Repeat("-", widths[i])
	}
	lines = append(lines, strings.Join(head, "  "), strings.Join(rule, "  "))
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i := range headers {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			cells[i] = cell.Width(widths[i]).Render(v)
		}
		lines = append(lines, strings.Join(cells, "  "))
	}
	return strings.Join(lines, "\n")
}
