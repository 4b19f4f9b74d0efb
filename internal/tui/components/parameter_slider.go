package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rpnl/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ParameterSlider is an adjustable request field. Values stay decimal so the
// request built from them never passes through float64.
type ParameterSlider struct {
	Label       string
	Value       decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
	Step        decimal.Decimal
	Unit        string // suffix such as "%" or "/10"
	Prefix      string // prefix such as "€"
	Places      int32  // decimals shown
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider over [min, max].
func NewParameterSlider(label string, value, min, max, step decimal.Decimal) *ParameterSlider {
	p := &ParameterSlider{
		Label: label,
		Min:   min,
		Max:   max,
		Step:  step,
		Width: 30,
	}
	p.SetValue(value)
	return p
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithPrefix sets the value prefix
func (p *ParameterSlider) WithPrefix(prefix string) *ParameterSlider {
	p.Prefix = prefix
	return p
}

// WithPlaces sets how many decimals are displayed
func (p *ParameterSlider) WithPlaces(places int32) *ParameterSlider {
	p.Places = places
	return p
}

// WithDescription adds a description/help text
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment raises the value by one step, stopping at Max.
func (p *ParameterSlider) Increment() bool {
	return p.move(p.Step)
}

// Decrement lowers the value by one step, stopping at Min.
func (p *ParameterSlider) Decrement() bool {
	return p.move(p.Step.Neg())
}

// IncrementBy moves n steps in either direction, clamped.
func (p *ParameterSlider) IncrementBy(n int) bool {
	return p.move(p.Step.Mul(decimal.NewFromInt(int64(n))))
}

func (p *ParameterSlider) move(delta decimal.Decimal) bool {
	old := p.Value
	p.SetValue(p.Value.Add(delta))
	return !old.Equal(p.Value)
}

// SetValue sets the value directly, clamping to min/max
func (p *ParameterSlider) SetValue(value decimal.Decimal) {
	p.Value = decimal.Max(p.Min, decimal.Min(p.Max, value))
}

// Int returns the value truncated to an integer.
func (p *ParameterSlider) Int() int {
	return int(p.Value.IntPart())
}

// Percentage returns the position within the range, 0 to 1. It only drives
// the bar width.
func (p *ParameterSlider) Percentage() float64 {
	span := p.Max.Sub(p.Min)
	if !span.IsPositive() {
		return 0
	}
	return p.Value.Sub(p.Min).Div(span).InexactFloat64()
}

// FormatValue renders v with the slider's prefix, places and unit.
func (p *ParameterSlider) FormatValue(v decimal.Decimal) string {
	return p.Prefix + v.StringFixed(p.Places) + p.Unit
}

// Render returns the styled parameter slider
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.FormatValue(p.Value)))
	content.WriteString("\n")
	content.WriteString(p.renderSliderBar(p.Width))

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString("\n")
	content.WriteString(rangeStyle.Render(p.FormatValue(p.Min) + "  ─  " + p.FormatValue(p.Max)))

	if p.Description != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(p.Description))
	}
	return content.String()
}

// RenderCompact returns a compact single-line version
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	return labelStyle.Render(p.Label+":") + " " + valueStyle.Render(p.FormatValue(p.Value)) + " " + p.renderSliderBar(10)
}

func (p *ParameterSlider) renderSliderBar(width int) string {
	filled := int(math.Round(float64(width) * p.Percentage()))
	filled = max(0, min(width, filled))

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < width; i++ {
		switch {
		case i == filled || (i == width-1 && filled == width):
			bar.WriteString(thumbStyle.Render("●"))
		case i < filled:
			bar.WriteString(thumbStyle.Render("━"))
		default:
			bar.WriteString(tuistyles.SliderTrackStyle.Render("─"))
		}
	}
	bar.WriteString("]")
	return bar.String()
}
