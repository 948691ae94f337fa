// Package tui implements the interactive budget dashboard.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/the-budget-must-balance/internal/analysis"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/report"
)

// Section is one page of the dashboard.
type Section int

// Dashboard sections in tab order.
const (
	SectionSummary Section = iota
	SectionGoals
	SectionRecommendations
	SectionPlan
	SectionExpenses
	sectionCount
)

var sectionTitles = map[Section]string{
	SectionSummary:         "Summary",
	SectionGoals:           "Goals",
	SectionRecommendations: "Advice",
	SectionPlan:            "Plan",
	SectionExpenses:        "Expenses",
}

// String returns the tab title.
func (s Section) String() string {
	return sectionTitles[s]
}

// Content is everything the dashboard displays. It is computed once before
// the program starts; the dashboard never mutates the ledger.
type Content struct {
	Report          *analysis.Report
	Recommendations []analysis.Recommendation
	Plan            analysis.Plan
	Snapshot        model.Snapshot
}

// Model holds the dashboard state.
type Model struct {
	formatter *report.Formatter
	content   Content
	rendered  map[Section]string
	keymap    KeyMap
	help      help.Model
	viewport  viewport.Model
	section   Section
	width     int
	height    int
	ready     bool
	quitting  bool
}

// NewModel creates a dashboard for content.
func NewModel(content Content, formatter *report.Formatter) Model {
	m := Model{
		formatter: formatter,
		content:   content,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		section:   SectionSummary,
	}
	m.rendered = m.renderSections()
	return m
}

// Section returns the section currently shown.
func (m Model) Section() Section {
	return m.section
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		bodyHeight := msg.Height - headerHeight - footerHeight
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, bodyHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = bodyHeight
		}
		m.viewport.SetContent(m.rendered[m.section])
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.NextSection):
			return m.showSection((m.section + 1) % sectionCount), nil
		case key.Matches(msg, m.keymap.PrevSection):
			return m.showSection((m.section + sectionCount - 1) % sectionCount), nil
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keymap.Home):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keymap.End):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) showSection(s Section) Model {
	m.section = s
	if m.ready {
		m.viewport.SetContent(m.rendered[s])
		m.viewport.GotoTop()
	}
	return m
}

func (m Model) renderSections() map[Section]string {
	f := m.formatter
	c := m.content
	return map[Section]string{
		SectionSummary:         f.FormatSummary(c.Report),
		SectionGoals:           f.FormatGoals(c.Report),
		SectionRecommendations: f.FormatRecommendations(c.Recommendations),
		SectionPlan:            f.FormatPlan(c.Plan),
		SectionExpenses:        f.FormatExpenses(c.Snapshot),
	}
}
