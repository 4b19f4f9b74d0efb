package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rpnl/internal/domain"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	totalStyle   = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
)

// ConsoleFormatter renders the itemized breakdown for a terminal.
type ConsoleFormatter struct {
	Trace   bool
	TaxYear *domain.TaxYearConfig
}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(res *domain.ScenarioResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, headerStyle.Render(fmt.Sprintf("PENSION SCENARIO %d", res.TaxYear)))
	fmt.Fprintln(&buf, strings.Repeat("=", 60))

	if assumptions := Assumptions(c.TaxYear); len(assumptions) > 0 {
		fmt.Fprintln(&buf, sectionStyle.Render("KEY ASSUMPTIONS"))
		for _, a := range assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
		fmt.Fprintln(&buf)
	}

	req := res.Request
	fmt.Fprintln(&buf, sectionStyle.Render("INPUT"))
	line(&buf, "Age", fmt.Sprintf("%d", req.EffectiveAge()))
	line(&buf, "Marital status", string(req.MaritalStatus))
	line(&buf, "Children", fmt.Sprintf("%d", req.ChildrenCount))
	line(&buf, "Housing costs (monthly)", FormatCurrency(req.HousingCosts))
	line(&buf, "Pension contribution", FormatPercentage(req.PensionContributionPercentage))
	line(&buf, "Lump-sum selector", req.LumpSumPercentage.String()+"/10")
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("INCOME"))
	line(&buf, "Gross income", FormatCurrency(res.GrossIncome))
	line(&buf, "Pension contribution", FormatCurrency(res.PensionContributionAmount.Neg()))
	line(&buf, "Taxable before lump sum", FormatCurrency(res.TaxableIncomeBeforeLumpSum))
	line(&buf, "Lump sum", FormatCurrency(res.LumpSumAmount))
	line(&buf, "Taxable with lump sum", FormatCurrency(res.TaxableIncomeWithLumpSum))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("TAXES & PREMIUMS"))
	line(&buf, "Tax base", FormatCurrency(res.TaxBase))
	line(&buf, "Income tax", FormatCurrency(res.IncomeTax))
	if !res.LumpSumTaxEffect.IsZero() {
		line(&buf, "  of which lump sum", FormatCurrency(res.LumpSumTaxEffect))
	}
	line(&buf, "AOW premium", FormatCurrency(res.AOWPremium))
	line(&buf, "WW premium", FormatCurrency(res.WWPremium))
	line(&buf, "Effective tax rate", FormatPercentage(res.EffectiveTaxRate))
	line(&buf, "Marginal rate", FormatRate(res.MarginalRate))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("BENEFITS"))
	line(&buf, "Healthcare subsidy", FormatCurrency(res.HealthcareSubsidy))
	line(&buf, "Housing allowance", FormatCurrency(res.HousingAllowance))
	line(&buf, "Child benefit", FormatCurrency(res.ChildBenefit))
	for _, b := range res.Benefits {
		status := okStyle.Render("eligible")
		if b.Lost() {
			status = warnStyle.Render("LOST by lump sum")
		} else if !b.EligibleAfter {
			status = "not eligible"
		}
		fmt.Fprintf(&buf, "  %-22s ceiling %-12s %s\n", b.Name, FormatCurrency(b.Ceiling), status)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, strings.Repeat("-", 60))
	fmt.Fprintln(&buf, totalStyle.Render(fmt.Sprintf("%-28s %16s", "NET INCOME", FormatCurrency(res.NetIncome))))
	fmt.Fprintf(&buf, "%-28s %16s\n", "Monthly", FormatCurrency(domain.Monthly(res.NetIncome)))
	if res.LumpSumAmount.IsPositive() {
		fmt.Fprintf(&buf, "%-28s %16s\n", "Incl. lump sum", FormatCurrency(res.NetIncomeWithLumpSum))
	}

	if c.Trace {
		fmt.Fprintln(&buf)
		writeTrace(&buf, res.Trace)
	}
	return buf.Bytes(), nil
}

func line(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "  %-26s %16s\n", label+":", value)
}

// ConsoleLiteFormatter prints a short summary.
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(res *domain.ScenarioResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PENSION SCENARIO SUMMARY")
	fmt.Fprintf(&buf, "Net income: %s (gross %s, tax %s, benefits %s)\n",
		FormatCurrency(res.NetIncome), FormatCurrency(res.GrossIncome),
		FormatCurrency(res.IncomeTax), FormatCurrency(res.TotalBenefits))
	if res.LumpSumAmount.IsPositive() {
		fmt.Fprintf(&buf, "Lump sum: %s (tax effect %s, cash incl. lump sum %s)\n",
			FormatCurrency(res.LumpSumAmount), FormatCurrency(res.LumpSumTaxEffect), FormatCurrency(res.NetIncomeWithLumpSum))
	}
	if n := len(res.Trace); n > 0 {
		fmt.Fprintf(&buf, "Rules triggered: %d\n", n)
	}
	return buf.Bytes(), nil
}

// TraceFormatter prints only the rule trace.
type TraceFormatter struct{}

func (t TraceFormatter) Name() string { return "trace" }

func (t TraceFormatter) Format(res *domain.ScenarioResult) ([]byte, error) {
	var buf bytes.Buffer
	writeTrace(&buf, res.Trace)
	return buf.Bytes(), nil
}

func writeTrace(buf *bytes.Buffer, trace domain.RuleTrace) {
	fmt.Fprintln(buf, sectionStyle.Render("RULE TRACE"))
	if len(trace) == 0 {
		fmt.Fprintln(buf, "  No rules changed the outcome.")
		return
	}
	for i, ev := range trace {
		marker := "○"
		if ev.Triggered {
			marker = "●"
		}
		fmt.Fprintf(buf, "%d. %s %s", i+1, marker, ev.RuleName)
		if v := eventValue(ev); v != "" {
			fmt.Fprintf(buf, " [%s]", v)
		}
		if ev.Crossed != nil && *ev.Crossed {
			fmt.Fprint(buf, " "+warnStyle.Render("crossed"))
		}
		fmt.Fprintln(buf)
		fmt.Fprintf(buf, "   %s\n", ev.ConditionDescription)
		fmt.Fprintf(buf, "   → %s\n", ev.ImpactDescription)
	}
}
