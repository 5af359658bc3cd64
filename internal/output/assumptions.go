package output

import "github.com/taxrev/revenue-projector/internal/domain"

// DefaultAssumptions lists the modeling assumptions of the default run, used
// when a report carries none.
var DefaultAssumptions = domain.DefaultAssumptions().Describe()

func reportAssumptions(report *domain.Report) []string {
	if len(report.Assumptions) == 0 {
		return DefaultAssumptions
	}
	return report.Assumptions
}
