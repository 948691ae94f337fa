package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/analysis"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/report"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize spending, goals and recommendations",
		Long: `Analyze the budget: totals, remaining money, budget health, the spending
breakdown by category, goal status and prioritized recommendations.

Examples:
  budget analyze
  budget analyze --rule housing_max_pct=0.25
  budget analyze --output json | jq .report.health`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}
	cmd.Flags().StringP("output", "o", outputText, "output format (text, json)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	return withLedger(cmd.Context(), false, func(l *model.Ledger) error {
		s := l.Snapshot()
		r, recs, err := analyzeAndRecommend(s)
		if err != nil {
			return err
		}

		if format == outputJSON {
			return report.WriteJSON(cmd.OutOrStdout(), report.Analysis{Report: r, Recommendations: recs})
		}

		f := newFormatter()
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join([]string{
			f.FormatSummary(r),
			f.FormatGoals(r),
			f.FormatRecommendations(recs),
		}, "\n\n"))
		return nil
	})
}

func recommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "recommend",
		Aliases: []string{"advice"},
		Short:   "Show recommendations, most severe first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd.Context(), false, func(l *model.Ledger) error {
				_, recs, err := analyzeAndRecommend(l.Snapshot())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), newFormatter().FormatRecommendations(recs))
				return nil
			})
		},
	}
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Suggest how to allocate income across categories",
		Long: `Suggest a monthly allocation across every category, starting from a
fixed baseline share per category and adjusted to your financial rules.

Examples:
  budget plan                 # use the stored income
  budget plan --income 6500   # no budget needed`,
		Args: cobra.NoArgs,
		RunE: runPlan,
	}
	cmd.Flags().String("income", "", "plan for this income instead of the stored one")
	cmd.Flags().StringP("output", "o", outputText, "output format (text, json)")
	return cmd
}

func runPlan(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	show := func(income decimal.Decimal) error {
		plan, err := analysis.PlanBudget(income, appConfig.Rules)
		if err != nil {
			return common.NewUserError("cannot plan a budget", err)
		}
		if format == outputJSON {
			return report.WriteJSON(cmd.OutOrStdout(), plan)
		}
		fmt.Fprintln(cmd.OutOrStdout(), newFormatter().FormatPlan(plan))
		return nil
	}

	if incomeStr, _ := cmd.Flags().GetString("income"); incomeStr != "" {
		income, err := parseAmountArg("income", incomeStr)
		if err != nil {
			return err
		}
		return show(income)
	}

	return withLedger(cmd.Context(), false, func(l *model.Ledger) error {
		return show(l.Income())
	})
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the financial rules in effect",
		Long: `Show the financial rules after applying the config file, BUDGET_RULES_*
environment variables and --rule flags, in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), newFormatter().FormatRules(appConfig.Rules))
			return nil
		},
	}
}

func analyzeAndRecommend(s model.Snapshot) (*analysis.Report, []analysis.Recommendation, error) {
	r, err := analyze(s)
	if err != nil {
		return nil, nil, err
	}
	recs, err := analysis.Recommend(s, r, appConfig.Rules)
	if err != nil {
		return nil, nil, common.NewUserError("failed to build recommendations", err)
	}
	return r, recs, nil
}

func analyze(s model.Snapshot) (*analysis.Report, error) {
	r, err := analysis.Analyze(s, appConfig.Rules)
	if err != nil {
		return nil, common.NewUserError("cannot analyze budget", err)
	}
	return r, nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch strings.ToLower(format) {
	case outputText, "":
		return outputText, nil
	case outputJSON:
		return outputJSON, nil
	default:
		return "", common.NewUserError(fmt.Sprintf("unknown output format %q (want text or json)", format), common.ErrInvalidConfig)
	}
}
