package output

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SaveRequest writes req as a YAML request file that the CLI can load back.
func SaveRequest(req domain.ScenarioRequest, filename string) error {
	data, err := yaml.Marshal(req)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}

// FormatCurrency formats a decimal as euros with two decimals
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-€" + amount.Abs().StringFixed(2)
	}
	return "€" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatRate formats a 0-1 rate as a percentage.
func FormatRate(rate decimal.Decimal) string {
	return FormatPercentage(rate.Mul(decimal.NewFromInt(100)))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func eventValue(ev domain.RuleEvent) string {
	if ev.ThresholdValue == nil {
		return ""
	}
	if ev.RuleName == domain.RuleLumpSumEligibility {
		return fmt.Sprintf("age %s", ev.ThresholdValue.String())
	}
	return FormatCurrency(*ev.ThresholdValue)
}
