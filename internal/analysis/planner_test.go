package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func TestPlanBudget_Defaults(t *testing.T) {
	plan, err := PlanBudget(dec("4000"), model.DefaultRules())
	require.NoError(t, err)

	require.Len(t, plan.Allocations, len(model.AllCategories()))
	assert.False(t, plan.Scaled)
	assert.True(t, plan.Total().Equal(dec("4000")))

	want := map[model.ExpenseCategory]string{
		model.Housing:        "1200",
		model.Food:           "600",
		model.Transportation: "400",
		model.Utilities:      "200",
		model.Entertainment:  "200",
		model.Healthcare:     "200",
		model.Savings:        "800",
		model.DebtPayment:    "200",
		model.Other:          "200",
	}
	for c, amount := range want {
		assert.True(t, plan.Amount(c).Equal(dec(amount)), "%s: got %s", c, plan.Amount(c))
	}
}

func TestPlanBudget_Rules(t *testing.T) {
	tests := []struct {
		check     func(t *testing.T, p Plan)
		overrides map[string]any
		name      string
		income    string
	}{
		{
			name:      "lower housing ceiling leaves money unallocated",
			income:    "4000",
			overrides: map[string]any{"housing_max_pct": 0.25},
			check: func(t *testing.T, p Plan) {
				t.Helper()
				assert.True(t, p.Amount(model.Housing).Equal(dec("1000")))
				assert.True(t, p.Total().Equal(dec("3800")))
				assert.False(t, p.Scaled)
			},
		},
		{
			name:      "higher savings floor shrinks free categories",
			income:    "4000",
			overrides: map[string]any{"savings_min_pct": 0.40},
			check: func(t *testing.T, p Plan) {
				t.Helper()
				assert.True(t, p.Scaled)
				assert.True(t, p.Amount(model.Savings).Equal(dec("1600")))
				assert.True(t, p.Amount(model.Housing).Equal(dec("1200")))
				assert.True(t, p.Amount(model.Food).LessThan(dec("600")))
				assert.True(t, p.Total().Equal(dec("4000")))
			},
		},
		{
			name:      "savings floor alone above income scales constrained categories",
			income:    "4000",
			overrides: map[string]any{"savings_min_pct": 0.90},
			check: func(t *testing.T, p Plan) {
				t.Helper()
				assert.True(t, p.Scaled)
				assert.True(t, p.Amount(model.Housing).Equal(dec("960")))
				assert.True(t, p.Amount(model.Savings).Equal(dec("2880")))
				assert.True(t, p.Amount(model.Entertainment).Equal(dec("160")))
				assert.True(t, p.Amount(model.Food).IsZero())
				assert.True(t, p.Total().Equal(dec("4000")))
			},
		},
		{
			name:   "odd income still sums exactly",
			income: "3333.33",
			check: func(t *testing.T, p Plan) {
				t.Helper()
				assert.True(t, p.Total().Equal(dec("3333.33")), "got %s", p.Total())
			},
		},
		{
			name:      "entertainment ceiling below default",
			income:    "2000",
			overrides: map[string]any{"entertainment_max_pct": 0.02},
			check: func(t *testing.T, p Plan) {
				t.Helper()
				assert.True(t, p.Amount(model.Entertainment).Equal(dec("40")))
				assert.True(t, p.Total().LessThanOrEqual(dec("2000")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := model.DefaultRules().Apply(tt.overrides)
			require.NoError(t, err)

			plan, err := PlanBudget(dec(tt.income), rules)
			require.NoError(t, err)
			tt.check(t, plan)

			housing, _ := rules.MaxPct(model.Housing)
			assert.True(t, plan.Amount(model.Housing).LessThanOrEqual(housing.Mul(plan.Income)))
			assert.True(t, plan.Total().LessThanOrEqual(plan.Income))
		})
	}
}

func TestPlanBudget_IsDeterministic(t *testing.T) {
	a, err := PlanBudget(dec("5123.45"), model.DefaultRules())
	require.NoError(t, err)
	b, err := PlanBudget(dec("5123.45"), model.DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
