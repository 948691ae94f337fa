package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/the-budget-must-balance/internal/analysis"
	"github.com/Veraticus/the-budget-must-balance/internal/cli"
)

// Styles contains all styling definitions for budget report formatting.
type Styles struct {
	// Base styles from CLI package
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style

	// Report-specific styles
	Box           lipgloss.Style
	Amount        lipgloss.Style
	Negative      lipgloss.Style
	Critical      lipgloss.Style
	TableHeader   lipgloss.Style
	ProgressFill  lipgloss.Style
	ProgressEmpty lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 1)

	s.Amount = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.Negative = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ErrorColor)

	s.Critical = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ErrorColor).
		Background(lipgloss.Color("#2D0000"))

	s.TableHeader = cli.TableHeaderStyle

	s.ProgressFill = lipgloss.NewStyle().Foreground(cli.PrimaryColor)
	s.ProgressEmpty = lipgloss.NewStyle().Foreground(cli.SubtleColor)

	return s
}

// PlainStyles returns styles that render text unchanged, for piping and NO_COLOR.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Title:         plain,
		Subtitle:      plain,
		Success:       plain,
		Warning:       plain,
		Error:         plain,
		Info:          plain,
		Subtle:        plain,
		Normal:        plain,
		Box:           plain,
		Amount:        plain,
		Negative:      plain,
		Critical:      plain,
		TableHeader:   plain,
		ProgressFill:  plain,
		ProgressEmpty: plain,
	}
}

// HealthStyle returns the style for a health classification.
func (s *Styles) HealthStyle(h analysis.Health) lipgloss.Style {
	switch h {
	case analysis.HealthGood:
		return s.Success
	case analysis.HealthFair:
		return s.Warning
	case analysis.HealthPoor:
		return s.Error
	case analysis.HealthCritical:
		return s.Critical
	default:
		return s.Subtle
	}
}

// SeverityStyle returns the style for a recommendation severity.
func (s *Styles) SeverityStyle(sev analysis.Severity) lipgloss.Style {
	switch sev {
	case analysis.SeverityCritical:
		return s.Critical
	case analysis.SeverityWarning:
		return s.Warning
	default:
		return s.Info
	}
}
