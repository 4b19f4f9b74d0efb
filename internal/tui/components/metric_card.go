package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rpnl/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard displays one amount with an optional change and badge.
type MetricCard struct {
	Label       string
	Value       decimal.Decimal
	Delta       *decimal.Decimal
	HigherIsBad bool // taxes: an increase renders red
	Badge       string
	Description string
	Width       int
}

// NewMetricCard creates a new metric card
func NewMetricCard(label string, value decimal.Decimal) *MetricCard {
	return &MetricCard{Label: label, Value: value, Width: 26}
}

// WithDelta adds the change against a reference value. Zero deltas are not shown.
func (m *MetricCard) WithDelta(delta decimal.Decimal, higherIsBad bool) *MetricCard {
	if !delta.IsZero() {
		m.Delta = &delta
		m.HigherIsBad = higherIsBad
	}
	return m
}

// WithBadge adds a short highlighted tag next to the label.
func (m *MetricCard) WithBadge(badge string) *MetricCard {
	m.Badge = badge
	return m
}

// WithDescription adds a description/subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label)
	if m.Badge != "" {
		label += " " + tuistyles.PreviewBadgeStyle.Render(m.Badge)
	}
	content := label + "\n" + tuistyles.MetricValueStyle.Render(tuistyles.FormatCurrency(m.Value))

	if m.Delta != nil {
		positive := m.Delta.IsPositive() != m.HigherIsBad
		sign := "+"
		if m.Delta.IsNegative() {
			sign = "-"
		}
		content += "\n" + tuistyles.MetricTrendStyle(positive).Render(
			tuistyles.TrendIndicator(m.Delta.IsPositive())+" "+sign+tuistyles.FormatCurrency(m.Delta.Abs()))
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid renders multiple metric cards in a grid layout
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
