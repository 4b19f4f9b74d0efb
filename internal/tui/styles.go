package tui

import "github.com/rgehrsitz/rpnl/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	ColorPrimary = tuistyles.ColorPrimary
	ColorMuted   = tuistyles.ColorMuted

	AppStyle          = tuistyles.AppStyle
	TitleStyle        = tuistyles.TitleStyle
	SubtitleStyle     = tuistyles.SubtitleStyle
	BorderStyle       = tuistyles.BorderStyle
	PreviewBadgeStyle = tuistyles.PreviewBadgeStyle
	ErrorStyle        = tuistyles.ErrorStyle
	InfoStyle         = tuistyles.InfoStyle
)

// Re-export helper functions
var (
	FormatCurrency = tuistyles.FormatCurrency
)
