package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/rpnl/internal/domain"
)

// HTMLFormatter produces a standalone HTML page with the breakdown and trace.
type HTMLFormatter struct {
	TaxYear *domain.TaxYearConfig
}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"pct":     FormatPercentage,
	"rate":    FormatRate,
	"yesno":   yesNo,
	"evvalue": eventValue,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(res *domain.ScenarioResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.ScenarioResult
		Assumptions []string
	}{res, Assumptions(h.TaxYear)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
