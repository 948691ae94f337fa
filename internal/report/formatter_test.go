package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/analysis"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func exampleSnapshot(t *testing.T) model.Snapshot {
	t.Helper()
	l, err := model.NewLedger(dec("4000"))
	require.NoError(t, err)

	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	for _, e := range []struct {
		amount string
		desc   string
		c      model.ExpenseCategory
	}{
		{"1200", "Rent", model.Housing},
		{"400", "Groceries", model.Food},
		{"300", "Gas", model.Transportation},
		{"150", "Electric", model.Utilities},
		{"200", "Movies", model.Entertainment},
		{"500", "Monthly savings", model.Savings},
	} {
		expense, err := model.NewExpense(e.c, dec(e.amount), e.desc, at)
		require.NoError(t, err)
		require.NoError(t, l.AddExpense(expense))
	}
	require.NoError(t, l.SetGoal(model.BudgetGoal{Category: model.Food, TargetAmount: dec("350"), Priority: 2}))
	require.NoError(t, l.SetGoal(model.BudgetGoal{Category: model.Housing, TargetAmount: dec("1300"), Priority: 1}))
	return l.Snapshot()
}

func analyzed(t *testing.T) (*analysis.Report, []analysis.Recommendation) {
	t.Helper()
	s := exampleSnapshot(t)
	r, err := analysis.Analyze(s, model.DefaultRules())
	require.NoError(t, err)
	recs, err := analysis.Recommend(s, r, model.DefaultRules())
	require.NoError(t, err)
	return r, recs
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "$0.00"},
		{in: "5", want: "$5.00"},
		{in: "999.999", want: "$1,000.00"},
		{in: "1234.5", want: "$1,234.50"},
		{in: "23500", want: "$23,500.00"},
		{in: "1234567.891", want: "$1,234,567.89"},
		{in: "-500", want: "-$500.00"},
		{in: "-0.5", want: "-$0.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(dec(tt.in)), tt.in)
	}
}

func TestFormatPct(t *testing.T) {
	assert.Equal(t, "30.0%", FormatPct(dec("0.3")))
	assert.Equal(t, "33.3%", FormatPct(dec("1").Div(dec("3"))))
	assert.Equal(t, "0.0%", FormatPct(decimal.Zero))
}

func TestFormatSummary_Plain(t *testing.T) {
	r, _ := analyzed(t)
	out := NewFormatter(true).FormatSummary(r)

	assert.Contains(t, out, "Budget Summary")
	assert.Contains(t, out, "$4,000.00")
	assert.Contains(t, out, "$2,750.00")
	assert.Contains(t, out, "$1,250.00")
	assert.Contains(t, out, "GOOD")
	assert.Contains(t, out, "Housing")
	assert.Contains(t, out, "30.0%")
	assert.NotContains(t, out, "█", "plain output has no bars")
	assert.NotContains(t, out, "\x1b[", "plain output has no escape codes")
}

func TestFormatSummary_Violations(t *testing.T) {
	l, err := model.NewLedger(dec("3000"))
	require.NoError(t, err)
	_, err = l.Record(model.Housing, dec("1500"), "Rent")
	require.NoError(t, err)

	r, err := analysis.Analyze(l.Snapshot(), model.DefaultRules())
	require.NoError(t, err)

	out := NewFormatter(false).FormatSummary(r)
	assert.Contains(t, out, "FAIR")
	assert.Contains(t, out, "Rule violations")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "$600.00 over")
}

func TestFormatGoals(t *testing.T) {
	r, _ := analyzed(t)

	out := NewFormatter(true).FormatGoals(r)
	assert.Contains(t, out, "MET")
	assert.Contains(t, out, "MISSED")
	assert.Less(t, bytesIndex(out, "Housing"), bytesIndex(out, "Food"), "goals are listed by priority")

	styled := NewFormatter(false).FormatGoals(r)
	assert.Contains(t, styled, "✅")
	assert.Contains(t, styled, "❌")

	empty := NewFormatter(true).FormatGoals(&analysis.Report{})
	assert.Contains(t, empty, "No goals set")
}

func TestFormatGoalProgress(t *testing.T) {
	s := exampleSnapshot(t)
	f := NewFormatter(true)

	p, ok := s.GoalProgress(model.Food, model.DefaultRules())
	out := f.FormatGoalProgress(model.Food, p, ok)
	assert.Contains(t, out, "MISSED Food (priority 2)")
	assert.Contains(t, out, "$50.00")

	p, ok = s.GoalProgress(model.Healthcare, model.DefaultRules())
	assert.Contains(t, f.FormatGoalProgress(model.Healthcare, p, ok), "No goal set for Healthcare.")
}

func TestFormatRecommendations(t *testing.T) {
	_, recs := analyzed(t)
	out := NewFormatter(true).FormatRecommendations(recs)

	assert.Contains(t, out, "[CRITICAL]")
	assert.Contains(t, out, "[WARNING]")
	assert.Contains(t, out, "(suggested: $23,500.00)")
	assert.Less(t, bytesIndex(out, "[CRITICAL]"), bytesIndex(out, "[WARNING]"))

	assert.Contains(t, NewFormatter(true).FormatRecommendations(nil), "looks great")
}

func TestFormatPlan(t *testing.T) {
	plan, err := analysis.PlanBudget(dec("4000"), model.DefaultRules())
	require.NoError(t, err)

	out := NewFormatter(true).FormatPlan(plan)
	assert.Contains(t, out, "Based on monthly income of $4,000.00")
	assert.Contains(t, out, "$1,200.00")
	assert.Contains(t, out, "Debt Payment")
	assert.Contains(t, out, "Total")
	assert.NotContains(t, out, "scaled down")
}

func TestFormatExpenses(t *testing.T) {
	s := exampleSnapshot(t)
	out := NewFormatter(true).FormatExpenses(s)

	assert.Contains(t, out, ShortID(s.Expenses[0].ID))
	assert.Contains(t, out, "2024-03-15")
	assert.Contains(t, out, "Monthly savings")
	assert.Contains(t, out, "$2,750.00")

	assert.Contains(t, NewFormatter(true).FormatExpenses(model.Snapshot{}), "No expenses")
	assert.Equal(t, "abc", ShortID("abc"))
}

func TestFormatRules(t *testing.T) {
	out := NewFormatter(true).FormatRules(model.DefaultRules())
	for _, key := range model.RuleKeys() {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "0.3")
}

func TestWriteJSON(t *testing.T) {
	r, recs := analyzed(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Analysis{Report: r, Recommendations: recs}))

	var doc struct {
		Report struct {
			Health    string `json:"health"`
			Remaining string `json:"remaining"`
		} `json:"report"`
		Recommendations []struct {
			Severity string `json:"severity"`
			Kind     string `json:"kind"`
			Category string `json:"category"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "good", doc.Report.Health)
	assert.Equal(t, "1250", doc.Report.Remaining)
	require.NotEmpty(t, doc.Recommendations)
	assert.Equal(t, "critical", doc.Recommendations[0].Severity)
	assert.Equal(t, "emergency_fund", doc.Recommendations[0].Kind)
	assert.Equal(t, "Savings", doc.Recommendations[0].Category)
}

func bytesIndex(s, sub string) int {
	return bytes.Index([]byte(s), []byte(sub))
}
