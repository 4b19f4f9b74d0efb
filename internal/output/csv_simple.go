package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVFormatter writes one row per line item, optionally followed by the trace.
type CSVFormatter struct {
	Trace bool
}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(res *domain.ScenarioResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Item", "Amount"}); err != nil {
		return nil, err
	}
	items := []struct {
		name  string
		value decimal.Decimal
	}{
		{"gross_income", res.GrossIncome},
		{"pension_contribution", res.PensionContributionAmount},
		{"taxable_income_before_lump_sum", res.TaxableIncomeBeforeLumpSum},
		{"lump_sum_amount", res.LumpSumAmount},
		{"taxable_income_with_lump_sum", res.TaxableIncomeWithLumpSum},
		{"income_tax", res.IncomeTax},
		{"aow_premium", res.AOWPremium},
		{"ww_premium", res.WWPremium},
		{"healthcare_subsidy", res.HealthcareSubsidy},
		{"housing_allowance", res.HousingAllowance},
		{"child_benefit", res.ChildBenefit},
		{"net_income", res.NetIncome},
		{"net_income_with_lump_sum", res.NetIncomeWithLumpSum},
	}
	for _, it := range items {
		if err := w.Write([]string{it.name, it.value.StringFixed(2)}); err != nil {
			return nil, err
		}
	}

	if c.Trace {
		if err := w.Write(nil); err != nil {
			return nil, err
		}
		if err := w.Write([]string{"Rule", "Triggered", "Threshold", "Crossed", "Condition", "Impact"}); err != nil {
			return nil, err
		}
		for _, ev := range res.Trace {
			threshold, crossed := "", ""
			if ev.ThresholdValue != nil {
				threshold = ev.ThresholdValue.String()
			}
			if ev.Crossed != nil {
				crossed = strconv.FormatBool(*ev.Crossed)
			}
			row := []string{string(ev.RuleName), strconv.FormatBool(ev.Triggered), threshold, crossed,
				ev.ConditionDescription, ev.ImpactDescription}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
