package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/analysis"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/tui"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Browse the analysis in an interactive dashboard",
		Long: `Open a full-screen dashboard with the summary, goals, recommendations,
allocation plan and expense list. Use tab to switch sections and q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var content tui.Content
			err := withLedger(cmd.Context(), false, func(l *model.Ledger) error {
				s := l.Snapshot()
				r, recs, err := analyzeAndRecommend(s)
				if err != nil {
					return err
				}
				plan, err := analysis.PlanBudget(s.Income, appConfig.Rules)
				if err != nil {
					return common.NewUserError("cannot plan a budget", err)
				}
				content = tui.Content{Report: r, Recommendations: recs, Plan: plan, Snapshot: s}
				return nil
			})
			if err != nil {
				return err
			}

			// The store is closed before the program starts; the dashboard is read-only.
			return tui.Run(cmd.Context(), content, tui.Options{
				Input:     cmd.InOrStdin(),
				Output:    cmd.OutOrStdout(),
				Formatter: newFormatter(),
				AltScreen: true,
			})
		},
	}
}
