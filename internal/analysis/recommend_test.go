package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func recommend(t *testing.T, s model.Snapshot, rules model.RulesConfig) []Recommendation {
	t.Helper()
	report, err := Analyze(s, rules)
	require.NoError(t, err)
	recs, err := Recommend(s, report, rules)
	require.NoError(t, err)
	return recs
}

func kinds(recs []Recommendation) []Kind {
	out := make([]Kind, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Kind)
	}
	return out
}

func find(t *testing.T, recs []Recommendation, kind Kind) Recommendation {
	t.Helper()
	for _, r := range recs {
		if r.Kind == kind {
			return r
		}
	}
	t.Fatalf("no %s recommendation in %v", kind, kinds(recs))
	return Recommendation{}
}

func TestRecommend_BalancedMonth(t *testing.T) {
	recs := recommend(t, balancedMonth(t), model.DefaultRules())

	assert.Equal(t, []Kind{KindEmergencyFund, KindSavingsShortfall, KindSurplus}, kinds(recs))

	emergency := find(t, recs, KindEmergencyFund)
	assert.Equal(t, SeverityCritical, emergency.Severity)
	require.NotNil(t, emergency.SuggestedAmount)
	assert.True(t, emergency.SuggestedAmount.Equal(dec("23500")))
	assert.Contains(t, emergency.Text, "$24000.00")

	savings := find(t, recs, KindSavingsShortfall)
	assert.Equal(t, SeverityWarning, savings.Severity)
	assert.True(t, savings.SuggestedAmount.Equal(dec("300")))
	require.NotNil(t, savings.Category)
	assert.Equal(t, model.Savings, *savings.Category)

	surplus := find(t, recs, KindSurplus)
	assert.Equal(t, SeverityInfo, surplus.Severity)
	assert.True(t, surplus.SuggestedAmount.Equal(dec("1250")))
}

func TestRecommend_HousingOverage(t *testing.T) {
	s := snapshot(t, "3000", []entry{{category: model.Housing, amount: "1500"}})
	recs := recommend(t, s, model.DefaultRules())

	overage := find(t, recs, KindCategoryOverage)
	assert.Equal(t, SeverityWarning, overage.Severity)
	assert.Equal(t, model.Housing, *overage.Category)
	assert.True(t, overage.SuggestedAmount.Equal(dec("600")))
	assert.Contains(t, overage.Text, "50.0%")
	assert.Contains(t, overage.Text, "30.0%")
}

func TestRecommend_Overspend(t *testing.T) {
	s := snapshot(t, "2000", []entry{{category: model.Housing, amount: "2500"}})
	recs := recommend(t, s, model.DefaultRules())

	over := find(t, recs, KindOverspend)
	assert.Equal(t, SeverityCritical, over.Severity)
	assert.True(t, over.SuggestedAmount.Equal(dec("500")))
	assert.Nil(t, over.Category)

	for _, r := range recs {
		assert.NotEqual(t, KindSurplus, r.Kind)
	}
}

func TestRecommend_SeverityOrdering(t *testing.T) {
	s := snapshot(t, "2000", []entry{
		{category: model.Housing, amount: "1500"},
		{category: model.Entertainment, amount: "700"},
	})
	recs := recommend(t, s, model.DefaultRules())

	require.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Severity, recs[i].Severity, "recommendations out of order at %d", i)
	}

	// Within a severity the evaluation order holds.
	assert.Equal(t, []Kind{
		KindEmergencyFund,
		KindOverspend,
		KindSavingsShortfall,
		KindCategoryOverage,
		KindCategoryOverage,
	}, kinds(recs))
	assert.Equal(t, model.Housing, *recs[3].Category)
	assert.Equal(t, model.Entertainment, *recs[4].Category)
}

func TestRecommend_Goals(t *testing.T) {
	s := snapshot(t, "4000",
		[]entry{
			{category: model.Food, amount: "400"},
			{category: model.Housing, amount: "1400"},
			{category: model.Savings, amount: "1100"},
		},
		model.BudgetGoal{Category: model.Food, TargetAmount: dec("350"), Priority: 2},
		model.BudgetGoal{Category: model.Housing, TargetAmount: dec("1300"), Priority: 1},
		model.BudgetGoal{Category: model.Savings, TargetAmount: dec("1000"), Priority: 3},
	)
	rules, err := model.DefaultRules().Apply(map[string]any{"emergency_fund_months": 0, "housing_max_pct": 0.5})
	require.NoError(t, err)

	recs := recommend(t, s, rules)
	assert.Equal(t, []Kind{KindGoalOverage, KindGoalOverage, KindGoalOverage}, kinds(recs))

	assert.Equal(t, model.Housing, *recs[0].Category)
	assert.Equal(t, 1, recs[0].Priority)
	assert.True(t, recs[0].SuggestedAmount.Equal(dec("100")))
	assert.Equal(t, model.Food, *recs[1].Category)
	assert.True(t, recs[1].SuggestedAmount.Equal(dec("50")))
	assert.Equal(t, model.Savings, *recs[2].Category)
	assert.True(t, recs[2].SuggestedAmount.Equal(dec("100")))

	for _, r := range recs {
		assert.NotEqual(t, KindSurplus, r.Kind, "goals suppress the surplus hint")
	}
}

func TestRecommend_SavingsGoal(t *testing.T) {
	rules, err := model.DefaultRules().Apply(map[string]any{"emergency_fund_months": 0, "savings_min_pct": 0})
	require.NoError(t, err)
	floorRules, err := rules.Apply(map[string]any{"savings_goal_floor": true})
	require.NoError(t, err)

	tests := []struct {
		name      string
		savings   string
		rules     model.RulesConfig
		want      []Kind
		suggested string
	}{
		{
			name:    "savings under the goal is within it",
			savings: "500",
			rules:   rules,
			want:    []Kind{},
		},
		{
			name:      "savings over the goal warns with the overage",
			savings:   "800",
			rules:     rules,
			want:      []Kind{KindGoalOverage},
			suggested: "200",
		},
		{
			name:      "floor goal warns with the shortfall",
			savings:   "500",
			rules:     floorRules,
			want:      []Kind{KindGoalShortfall},
			suggested: "100",
		},
		{
			name:    "floor goal reached",
			savings: "800",
			rules:   floorRules,
			want:    []Kind{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot(t, "4000",
				[]entry{{category: model.Housing, amount: "1000"}, {category: model.Savings, amount: tt.savings}},
				model.BudgetGoal{Category: model.Savings, TargetAmount: dec("600"), Priority: 1},
			)
			recs := recommend(t, s, tt.rules)
			assert.Equal(t, tt.want, kinds(recs))
			if tt.suggested != "" {
				require.NotNil(t, recs[0].SuggestedAmount)
				assert.True(t, recs[0].SuggestedAmount.Equal(dec(tt.suggested)), "got %s", recs[0].SuggestedAmount)
				assert.Equal(t, model.Savings, *recs[0].Category)
			}
		})
	}
}

func TestRecommend_NothingToSay(t *testing.T) {
	s := snapshot(t, "1000", []entry{
		{category: model.Housing, amount: "300"},
		{category: model.Food, amount: "250"},
		{category: model.Savings, amount: "200"},
	})
	rules, err := model.DefaultRules().Apply(map[string]any{"emergency_fund_months": 0})
	require.NoError(t, err)

	assert.Empty(t, recommend(t, s, rules))
}

func TestRecommend_RejectsBadInput(t *testing.T) {
	_, err := Recommend(balancedMonth(t), nil, model.DefaultRules())
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRecommend_RejectsReportFromOtherRules(t *testing.T) {
	s := snapshot(t, "3000", []entry{{category: model.Housing, amount: "1000"}})
	report, err := Analyze(s, model.DefaultRules())
	require.NoError(t, err)

	looser, err := model.DefaultRules().Apply(map[string]any{"housing_max_pct": 0.5})
	require.NoError(t, err)

	_, err = Recommend(s, report, looser)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Contains(t, err.Error(), "different rules")

	recs, err := Recommend(s, report, report.Rules)
	require.NoError(t, err)
	assert.Equal(t, SeverityWarning, find(t, recs, KindCategoryOverage).Severity)
}
