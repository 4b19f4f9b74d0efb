// Package tuistyles holds the lipgloss palette and styles shared by the
// TUI model and its components.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#7D56F4")
	ColorSecondary = lipgloss.Color("#5A4FCF")
	ColorAccent    = lipgloss.Color("#F25D94")
	ColorSuccess   = lipgloss.Color("#04B575")
	ColorDanger    = lipgloss.Color("#FF5F87")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorInfo      = lipgloss.Color("#3C9EE7")

	ColorForeground = lipgloss.Color("#FAFAFA")
	ColorMuted      = lipgloss.Color("#626262")
	ColorBorder     = lipgloss.Color("#3C3C3C")
)

// Base styles
var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	MetricLabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	MetricValueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorForeground)

	MetricPositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MetricNegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)

	ParameterLabelStyle = lipgloss.NewStyle().Bold(true)
	ParameterValueStyle = lipgloss.NewStyle().Foreground(ColorInfo)

	SliderTrackStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	SliderThumbStyle = lipgloss.NewStyle().Foreground(ColorPrimary)

	PreviewBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground).
				Background(ColorWarning).
				Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
	InfoStyle  = lipgloss.NewStyle().Foreground(ColorInfo)
)

// MetricTrendStyle colors a change green when it favors the user.
func MetricTrendStyle(isPositive bool) lipgloss.Style {
	if isPositive {
		return MetricPositiveStyle
	}
	return MetricNegativeStyle
}

// TrendIndicator returns an arrow for the direction of a change.
func TrendIndicator(isPositive bool) string {
	if isPositive {
		return "▲"
	}
	return "▼"
}

// FormatCurrency renders whole euros for compact display.
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-€" + amount.Abs().StringFixed(0)
	}
	return "€" + amount.StringFixed(0)
}
