package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/taxrev/revenue-projector/internal/domain"
)

// HTMLFormatter produces a self-contained HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"dollars": FormatDollars,
	"short":   FormatShort,
	"rate":    FormatRate,
	"pct":     FormatPercentage,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.Report) ([]byte, error) {
	summary, err := Summarize(report)
	if err != nil {
		return nil, err
	}
	data := struct {
		*domain.Report
		Summary     Summary
		Assumptions []string
		Series      []namedSeries
		Categories  []domain.Category
	}{report, summary, reportAssumptions(report), reportSeries(report), domain.Categories}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
