package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder

	sb.WriteString("PENSION SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Tax Year:      %d\n", compSet.TaxYear))
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.Source != "" {
		sb.WriteString(fmt.Sprintf("Source:        %s\n", compSet.Source))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Gross",
		numWidth, "Lump Sum",
		numWidth, "Income Tax",
		numWidth, "Benefits",
		numWidth, "Net Income"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", 96) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, alt := range compSet.AlternativeResults {
			if alt.Deltas == nil {
				continue
			}
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			sb.WriteString(tf.deltaLine("Net Income", alt.Deltas.NetIncome))
			sb.WriteString(tf.deltaLine("Income Tax", alt.Deltas.IncomeTax))
			sb.WriteString(tf.deltaLine("Benefits", alt.Deltas.TotalBenefits))
			if alt.Deltas.GrossIncome.Direction != DirectionUnchanged {
				sb.WriteString(tf.deltaLine("Gross Income", alt.Deltas.GrossIncome))
			}
			if alt.Deltas.PensionContribution.Direction != DirectionUnchanged {
				sb.WriteString(tf.deltaLine("Pension", alt.Deltas.PensionContribution))
			}
		}
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nINSIGHTS\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString("• " + rec + "\n")
		}
	}

	return sb.String(), nil
}

func (tf *TableFormatter) formatRow(r *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := r.ScenarioName
	if isBase {
		name += " (base)"
	}
	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.formatDecimal(r.GrossIncome),
		numWidth, tf.formatDecimal(r.LumpSumAmount),
		numWidth, tf.formatDecimal(r.IncomeTax),
		numWidth, tf.formatDecimal(r.TotalBenefits),
		numWidth, tf.formatDecimal(r.NetIncome))
}

func (tf *TableFormatter) deltaLine(label string, d Delta) string {
	return fmt.Sprintf("  %-14s %s€%s (%s%%)\n", label+":", tf.deltaSymbol(d.Absolute),
		tf.formatDecimal(d.Absolute.Abs()), d.Percent.StringFixed(1))
}

func (tf *TableFormatter) deltaSymbol(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return "+"
}

func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
