package output

import (
	"fmt"

	"github.com/rgehrsitz/rpnl/internal/domain"
)

// Assumptions lists the tax-year parameters a result was computed with.
func Assumptions(cfg *domain.TaxYearConfig) []string {
	if cfg == nil {
		return nil
	}
	out := make([]string, 0, len(cfg.Brackets)+8)
	for i, b := range cfg.Brackets {
		upper := "and up"
		if b.Max != nil {
			upper = "to " + FormatCurrency(*b.Max)
		}
		out = append(out, fmt.Sprintf("Bracket %d: %s %s at %s", i+1, FormatCurrency(b.Min), upper, FormatRate(b.Rate)))
	}
	out = append(out,
		fmt.Sprintf("Tax credits deducted before brackets: general %s, labour %s",
			FormatCurrency(cfg.Allowances.General), FormatCurrency(cfg.Allowances.Labour)),
		fmt.Sprintf("Premiums on taxable income: AOW %s, WW %s",
			FormatRate(cfg.Premiums.AOWRate), FormatRate(cfg.Premiums.WWRate)),
		fmt.Sprintf("Lump sum available from age %d", cfg.LumpSum.EligibilityAge),
	)
	for _, th := range cfg.OrderedThresholds() {
		out = append(out, fmt.Sprintf("%s ceiling: %s (eligible at or below)", th.Name, FormatCurrency(th.Ceiling)))
	}
	return out
}
