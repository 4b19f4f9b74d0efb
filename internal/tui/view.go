package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	left := m.renderControls()
	right := m.renderResults()

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		BorderStyle.Width(44).Render(left),
		"  ",
		right,
	)

	parts := []string{m.renderTitleBar(), body}
	if m.showTrace {
		parts = append(parts, BorderStyle.Render(m.renderTrace()))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderTitleBar renders the application title and tax year
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("RPNL - Pension Scenario Explorer")
	sub := "Loading..."
	if m.taxYear != nil {
		sub = fmt.Sprintf("Tax year %d • lump sum from age %d", m.taxYear.Year, m.taxYear.LumpSum.EligibilityAge)
	}
	if m.loading {
		sub += " • calculating"
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(sub))
}

func (m Model) renderControls() string {
	var b strings.Builder
	for i, s := range m.sliders {
		if Field(i) == m.focus {
			b.WriteString(s.Render())
		} else {
			b.WriteString(s.RenderCompact())
		}
		b.WriteString("\n")
	}

	marker := "  "
	if m.focus == FieldMaritalStatus {
		marker = "▸ "
	}
	single, married := "( ) single", "( ) married"
	if m.marital == domain.MaritalMarried {
		married = "(•) married"
	} else {
		single = "(•) single"
	}
	b.WriteString(marker + "Marital status: " + single + "  " + married)
	return b.String()
}

func (m Model) renderResults() string {
	if m.err != nil {
		return ErrorStyle.Render(errorMessage(m.err))
	}
	res := m.result
	if res == nil {
		return InfoStyle.Render("Calculating...")
	}

	netDesc := FormatCurrency(domain.Monthly(res.NetIncome)) + " per month"
	if res.LumpSumAmount.IsPositive() {
		netDesc += ", " + FormatCurrency(res.NetIncomeWithLumpSum) + " incl. lump sum"
	}
	net := components.NewMetricCard("Net income", res.NetIncome).WithDescription(netDesc)
	tax := components.NewMetricCard("Income tax", res.IncomeTax).
		WithDescription(fmt.Sprintf("effective %s%%", res.EffectiveTaxRate.StringFixed(1)))
	benefits := components.NewMetricCard("Benefits", res.TotalBenefits)
	if m.baseline != nil {
		net.WithDelta(res.NetIncome.Sub(m.baseline.NetIncome), false)
		tax.WithDelta(res.IncomeTax.Sub(m.baseline.IncomeTax), true)
		benefits.WithDelta(res.TotalBenefits.Sub(m.baseline.TotalBenefits), false)
	}

	preview := ComputePreview(m.request, res)
	lump := components.NewMetricCard("Lump sum", res.LumpSumAmount)
	if preview.Active {
		lump = components.NewMetricCard("Lump sum", preview.Requested).
			WithBadge("PREVIEW").
			WithDescription(fmt.Sprintf("applied: %s, available at %d (in %d years)",
				FormatCurrency(preview.Effective), preview.EligibilityAge, preview.YearsToGo))
	} else if res.LumpSumAmount.IsPositive() {
		lump.WithDescription(fmt.Sprintf("pension %s → %s /month",
			FormatCurrency(res.LumpSum.MonthlyBefore), FormatCurrency(res.LumpSum.MonthlyAfter)))
	}

	grid := components.MetricGrid([]*components.MetricCard{net, tax, benefits, lump}, 2)
	return lipgloss.JoinVertical(lipgloss.Left, grid, m.renderEligibility(res))
}

func (m Model) renderEligibility(res *domain.ScenarioResult) string {
	var b strings.Builder
	for _, s := range res.Benefits {
		status := "✓"
		switch {
		case s.Lost():
			status = ErrorStyle.Render("✗ lost by lump sum")
		case !s.EligibleAfter:
			status = "✗"
		}
		fmt.Fprintf(&b, "%-22s ≤ %-9s %s\n", s.Name, FormatCurrency(s.Ceiling), status)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTrace() string {
	if m.result == nil || len(m.result.Trace) == 0 {
		return "Rule trace: no rules changed the outcome"
	}
	lines := []string{"Rule trace"}
	for i, ev := range m.result.Trace {
		lines = append(lines, fmt.Sprintf("%d. %s: %s → %s", i+1, ev.RuleName, ev.ConditionDescription, ev.ImpactDescription))
	}
	return strings.Join(lines, "\n")
}

// errorMessage tells "fix your input" apart from "try again later".
func errorMessage(err error) string {
	switch domain.CodeOf(err) {
	case domain.CodeInvalidInput:
		return "Check your input: " + err.Error()
	case domain.CodeUpstreamUnavailable:
		return "Calculation service unavailable, try again later"
	case domain.CodeConfiguration:
		return "Tax-year configuration error: " + err.Error()
	}
	return "Error: " + err.Error()
}
