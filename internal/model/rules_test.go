package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()
	assert.Equal(t, 0.30, r.HousingMaxPct)
	assert.Equal(t, 0.20, r.SavingsMinPct)
	assert.Equal(t, 0.10, r.EntertainmentMaxPct)
	assert.Equal(t, 6, r.EmergencyFundMonths)
	assert.False(t, r.SavingsGoalFloor)
	assert.False(t, r.GoalIsFloor(Savings))
	require.NoError(t, r.Validate())
}

func TestRulesConfig_Apply(t *testing.T) {
	tests := []struct {
		overrides map[string]any
		check     func(t *testing.T, r RulesConfig)
		name      string
		errMsg    string
		wantErr   bool
	}{
		{
			name:      "float override",
			overrides: map[string]any{"housing_max_pct": 0.25},
			check: func(t *testing.T, r RulesConfig) {
				t.Helper()
				assert.Equal(t, 0.25, r.HousingMaxPct)
				assert.Equal(t, 0.20, r.SavingsMinPct)
			},
		},
		{
			name: "string values from flags",
			overrides: map[string]any{
				"savings_min_pct":       "0.3",
				"emergency_fund_months": "12",
			},
			check: func(t *testing.T, r RulesConfig) {
				t.Helper()
				assert.Equal(t, 0.30, r.SavingsMinPct)
				assert.Equal(t, 12, r.EmergencyFundMonths)
			},
		},
		{
			name:      "keys are case-insensitive",
			overrides: map[string]any{"Entertainment_Max_Pct": 0.05},
			check: func(t *testing.T, r RulesConfig) {
				t.Helper()
				assert.Equal(t, 0.05, r.EntertainmentMaxPct)
			},
		},
		{
			name:      "savings goal floor from a flag string",
			overrides: map[string]any{"savings_goal_floor": "true"},
			check: func(t *testing.T, r RulesConfig) {
				t.Helper()
				assert.True(t, r.SavingsGoalFloor)
				assert.True(t, r.GoalIsFloor(Savings))
				assert.False(t, r.GoalIsFloor(Food))
			},
		},
		{
			name:      "savings goal floor not a bool",
			overrides: map[string]any{"savings_goal_floor": "sometimes"},
			wantErr:   true,
			errMsg:    "savings_goal_floor",
		},
		{
			name:      "unknown key",
			overrides: map[string]any{"yacht_max_pct": 0.5},
			wantErr:   true,
			errMsg:    "unknown rule",
		},
		{
			name:      "out of range",
			overrides: map[string]any{"housing_max_pct": 1.5},
			wantErr:   true,
			errMsg:    "housing_max_pct",
		},
		{
			name:      "not a number",
			overrides: map[string]any{"surplus_pct": "lots"},
			wantErr:   true,
		},
		{
			name:      "negative months",
			overrides: map[string]any{"emergency_fund_months": -1},
			wantErr:   true,
			errMsg:    "emergency_fund_months",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := DefaultRules()
			got, err := base.Apply(tt.overrides)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				assert.Equal(t, DefaultRules(), got, "failed apply must return the original rules")
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
			assert.Equal(t, DefaultRules(), base, "receiver must not change")
		})
	}
}

func TestRulesConfig_MaxPct(t *testing.T) {
	r := DefaultRules()

	housing, ok := r.MaxPct(Housing)
	require.True(t, ok)
	assert.Equal(t, "0.3", housing.String())

	_, ok = r.MaxPct(Food)
	assert.False(t, ok)

	assert.Equal(t, []ExpenseCategory{Housing, Entertainment}, CappedCategories())
	assert.Contains(t, r.String(), "housing_max_pct=0.3")
}
