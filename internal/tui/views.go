package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
)

const (
	headerHeight = 2
	footerHeight = 2
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor).
			Underline(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(cli.SubtleColor).
				Padding(0, 1)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading budget..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, sectionCount)
	for s := SectionSummary; s < sectionCount; s++ {
		style := inactiveTabStyle
		if s == m.section {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(s.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m Model) renderFooter() string {
	scroll := cli.SubtleStyle.Render(strings.Repeat("─", 3) + " " + scrollPercent(m.viewport.ScrollPercent()))
	return scroll + "\n" + m.help.View(m.keymap)
}

func scrollPercent(p float64) string {
	pct := int(p * 100)
	switch {
	case pct <= 0:
		return "top"
	case pct >= 100:
		return "end"
	default:
		return fmt.Sprintf("%d%%", pct)
	}
}
