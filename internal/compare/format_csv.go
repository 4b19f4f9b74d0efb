package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"ID",
		"Scenario",
		"Type",
		"Gross Income",
		"Pension Contribution",
		"Lump Sum",
		"Income Tax",
		"Total Benefits",
		"Net Income",
		"Effective Tax Rate",
		"Net Income Diff",
		"Net Income % Change",
		"Tax Diff",
		"Benefits Diff",
		"Exceeded Thresholds",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}
	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(r *ComparisonResult, scenarioType string) []string {
	netDiff, netPct, taxDiff, benDiff := "", "", "", ""
	if r.Deltas != nil {
		netDiff = r.Deltas.NetIncome.Absolute.StringFixed(2)
		netPct = r.Deltas.NetIncome.Percent.StringFixed(2)
		taxDiff = r.Deltas.IncomeTax.Absolute.StringFixed(2)
		benDiff = r.Deltas.TotalBenefits.Absolute.StringFixed(2)
	}
	exceeded := make([]string, 0, len(r.ExceededThresholds))
	for _, b := range r.ExceededThresholds {
		exceeded = append(exceeded, string(b))
	}
	return []string{
		r.ID,
		r.ScenarioName,
		scenarioType,
		r.GrossIncome.StringFixed(2),
		r.PensionContribution.StringFixed(2),
		r.LumpSumAmount.StringFixed(2),
		r.IncomeTax.StringFixed(2),
		r.TotalBenefits.StringFixed(2),
		r.NetIncome.StringFixed(2),
		r.EffectiveTaxRate.StringFixed(2),
		netDiff,
		netPct,
		taxDiff,
		benDiff,
		strings.Join(exceeded, ";"),
	}
}
