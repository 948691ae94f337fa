package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/analysis"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/report"
)

func testContent(t *testing.T) Content {
	t.Helper()
	l, err := model.NewLedger(decimal.NewFromInt(4000))
	require.NoError(t, err)
	_, err = l.Record(model.Housing, decimal.NewFromInt(1200), "Rent")
	require.NoError(t, err)
	_, err = l.Record(model.Savings, decimal.NewFromInt(500), "Savings")
	require.NoError(t, err)
	require.NoError(t, l.SetGoal(model.BudgetGoal{Category: model.Housing, TargetAmount: decimal.NewFromInt(1300), Priority: 1}))

	snap := l.Snapshot()
	rules := model.DefaultRules()
	r, err := analysis.Analyze(snap, rules)
	require.NoError(t, err)
	recs, err := analysis.Recommend(snap, r, rules)
	require.NoError(t, err)
	plan, err := analysis.PlanBudget(snap.Income, rules)
	require.NoError(t, err)

	return Content{Report: r, Recommendations: recs, Plan: plan, Snapshot: snap}
}

func sized(t *testing.T) Model {
	t.Helper()
	m := NewModel(testContent(t), report.NewFormatter(true))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestModel_LoadingUntilSized(t *testing.T) {
	m := NewModel(testContent(t), report.NewFormatter(true))
	assert.Equal(t, "Loading budget...", m.View())
	assert.Nil(t, m.Init())
}

func TestModel_ShowsSummaryFirst(t *testing.T) {
	m := sized(t)
	view := m.View()

	assert.Equal(t, SectionSummary, m.Section())
	assert.Contains(t, view, "Budget Summary")
	assert.Contains(t, view, "$4,000.00")
	for s := SectionSummary; s < sectionCount; s++ {
		assert.Contains(t, view, s.String(), "tab bar lists every section")
	}
}

func TestModel_TabCyclesSections(t *testing.T) {
	m := sized(t)

	want := []struct {
		section Section
		text    string
	}{
		{SectionGoals, "Budget Goals"},
		{SectionRecommendations, "Recommendations"},
		{SectionPlan, "Recommended Budget Allocation"},
		{SectionExpenses, "Rent"},
		{SectionSummary, "Budget Summary"},
	}
	for _, w := range want {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, w.section, m.Section())
		assert.Contains(t, m.View(), w.text)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, SectionExpenses, m.Section(), "shift+tab wraps backwards")
}

func TestModel_Quit(t *testing.T) {
	m := sized(t)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_ToggleHelp(t *testing.T) {
	m := sized(t)
	assert.NotContains(t, m.View(), "go to start")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Contains(t, m.View(), "go to start")
}

func TestModel_ResizeKeepsSection(t *testing.T) {
	m := sized(t)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	m = updated.(Model)
	assert.Equal(t, SectionGoals, m.Section())
	assert.Contains(t, m.View(), "Budget Goals")
}
