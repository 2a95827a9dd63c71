package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/terragate/terragate/internal/models"
)

// Mode selects how console output is decorated. Plain mode is used for
// files and non-TTY pipes; terminal mode styles with lipgloss.
type Mode int

const (
	ModePlain Mode = iota
	ModeTerminal
)

// Severity colors, matching the usual scanner palette.
var (
	colorCritical = lipgloss.Color("#FF0000")
	colorHigh     = lipgloss.Color("#FF8800")
	colorMedium   = lipgloss.Color("#FFFF00")
	colorLow      = lipgloss.Color("#00FF00")
	colorHeader   = lipgloss.Color("#5F87FF")
)

// Styler renders console decorations. It is constructed per invocation
// with an explicit mode - no package-level mutable state - so the same
// report code serves terminals, files, and CI logs.
type Styler struct {
	mode Mode
}

// NewStyler creates a styler for the given mode.
func NewStyler(mode Mode) Styler {
	return Styler{mode: mode}
}

func (s Styler) render(style lipgloss.Style, text string) string {
	if s.mode == ModePlain {
		return text
	}
	return style.Render(text)
}

// Severity colors text according to a severity tier.
func (s Styler) Severity(sev models.Severity, text string) string {
	switch sev {
	case models.SeverityCritical:
		return s.render(lipgloss.NewStyle().Foreground(colorCritical).Bold(true), text)
	case models.SeverityHigh:
		return s.render(lipgloss.NewStyle().Foreground(colorHigh).Bold(true), text)
	case models.SeverityMedium:
		return s.render(lipgloss.NewStyle().Foreground(colorMedium), text)
	case models.SeverityLow:
		return s.render(lipgloss.NewStyle().Foreground(colorLow), text)
	default:
		return text
	}
}

// Pass styles success text.
func (s Styler) Pass(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(colorLow).Bold(true), text)
}

// Fail styles failure text.
func (s Styler) Fail(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(colorCritical).Bold(true), text)
}

// Warn styles warning text.
func (s Styler) Warn(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(colorMedium), text)
}

// Header styles section headers.
func (s Styler) Header(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(colorHeader).Bold(true), text)
}
