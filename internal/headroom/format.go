package headroom

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rpnl/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats headroom results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a headroom report
func (tf *TableFormatter) Format(report *Report) string {
	var sb strings.Builder

	sb.WriteString("BENEFIT HEADROOM\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")

	if lump := report.LumpSum; lump != nil {
		sb.WriteString("LUMP SUM\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		sb.WriteString(fmt.Sprintf("Eligible:              %s\n", tf.yesNo(lump.Eligible)))
		sb.WriteString(fmt.Sprintf("Max selector (0-10):   %s\n", lump.MaxSelector.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("Max lump sum:          €%s\n", tf.formatCurrency(lump.MaxLumpSumAmount)))
		if lump.LimitingBenefit != "" {
			sb.WriteString(fmt.Sprintf("Limited by:            %s\n", lump.LimitingBenefit))
		}
		sb.WriteString(fmt.Sprintf("Iterations:            %d\n", lump.Iterations))
		sb.WriteString(fmt.Sprintf("Convergence:           %s\n", lump.ConvergenceInfo))
		sb.WriteString("\n")
	}

	if len(report.Income) > 0 {
		sb.WriteString("INCOME HEADROOM\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		sb.WriteString(fmt.Sprintf("%-22s %12s %12s %12s %10s\n", "Benefit", "Ceiling", "Headroom", "Gross room", "Eligible"))
		for _, h := range report.Income {
			sb.WriteString(fmt.Sprintf("%-22s %12s %12s %12s %10s\n",
				h.Name,
				tf.formatCurrency(h.Ceiling),
				tf.formatCurrency(h.Headroom),
				tf.formatCurrency(h.GrossHeadroom),
				tf.yesNo(h.Eligible)))
		}
	}

	return sb.String()
}

// JSONFormatter formats headroom results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format renders the report as JSON
func (jf *JSONFormatter) Format(report *Report) (string, error) {
	data, err := output.EncodeJSON(report, jf.Pretty)
	if err != nil {
		return "", fmt.Errorf("failed to marshal headroom report: %w", err)
	}
	return string(data), nil
}

func (tf *TableFormatter) yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}
