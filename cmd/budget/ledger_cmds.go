package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/report"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new budget for a monthly income",
		Long: `Create a new, empty budget. The monthly income must be greater than zero.

Examples:
  budget init --income 4000
  budget init --income 5200 --force   # start over`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().String("income", "", "monthly income (required)")
	cmd.Flags().Bool("force", false, "replace an existing budget")
	_ = cmd.MarkFlagRequired("income")

	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	incomeStr, _ := cmd.Flags().GetString("income")
	force, _ := cmd.Flags().GetBool("force")

	income, err := parseAmountArg("income", incomeStr)
	if err != nil {
		return err
	}
	l, err := model.NewLedger(income)
	if err != nil {
		return common.NewUserError("invalid income", err)
	}

	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	_, loadErr := store.Load(ctx)
	replacing := loadErr == nil
	switch {
	case replacing && !force:
		return common.NewUserError(
			fmt.Sprintf("a budget already exists at %s; use --force to replace it", appConfig.Storage.Path),
			common.ErrAlreadyExists)
	case loadErr != nil && !errors.Is(loadErr, common.ErrNotFound) && !force:
		return common.NewUserError("failed to check for an existing budget", loadErr)
	}

	if err := store.Save(ctx, l); err != nil {
		return common.NewUserError("failed to save budget", err)
	}

	common.LogInfo("Created budget", common.Fields{
		"store":     appConfig.Storage.Path,
		"backend":   appConfig.Storage.Backend,
		"replacing": replacing,
	})
	if replacing {
		warn(cmd, "Replaced the existing budget at %s; its expenses and goals were discarded.", appConfig.Storage.Path)
	}
	success(cmd, "Created a budget with monthly income %s", report.FormatMoney(income))
	return nil
}

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Show or change the monthly income",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <amount>",
		Short: "Change the monthly income; expenses are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			income, err := parseAmountArg("income", args[0])
			if err != nil {
				return err
			}
			err = withLedger(cmd.Context(), true, func(l *model.Ledger) error {
				if err := l.SetIncome(income); err != nil {
					return common.NewUserError("invalid income", err)
				}
				return nil
			})
			if err != nil {
				return err
			}
			success(cmd, "Monthly income set to %s", report.FormatMoney(income))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the monthly income",
		Args:  cobra.NoArgs,
		RunE:  runIncomeShow,
	})

	return cmd
}

func runIncomeShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	l, err := loadLedger(ctx, store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Monthly income: %s\n", report.FormatMoney(l.Income()))
	if updated, err := store.LastUpdated(ctx); err == nil && !updated.IsZero() {
		fmt.Fprintf(out, "Last updated:   %s\n", updated.Local().Format(time.DateTime))
	}
	return nil
}

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses"},
		Short:   "Record, list and remove expenses",
	}

	addCmd := &cobra.Command{
		Use:   "add <category> <amount> [description...]",
		Short: "Record an expense",
		Long: `Record an expense against one of the budget categories:
Housing, Food, Transportation, Utilities, Entertainment, Healthcare,
Savings, Debt Payment, Other.

Examples:
  budget expense add housing 1200 Monthly rent
  budget expense add "debt payment" 300 Credit card --date 2024-03-05`,
		Args: cobra.MinimumNArgs(2),
		RunE: runExpenseAdd,
	}
	addCmd.Flags().String("date", "", "date of the expense (YYYY-MM-DD, default: now)")

	cmd.AddCommand(addCmd)
	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses in the order they were recorded",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd.Context(), false, func(l *model.Ledger) error {
				fmt.Fprintln(cmd.OutOrStdout(), newFormatter().FormatExpenses(l.Snapshot()))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an expense by id or unique id prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var removed model.Expense
			err := withLedger(cmd.Context(), true, func(l *model.Ledger) error {
				e, err := findExpense(l.Snapshot(), args[0])
				if err != nil {
					return err
				}
				l.RemoveExpense(e.ID)
				removed = e
				return nil
			})
			if err != nil {
				return err
			}
			success(cmd, "Removed %s expense %s (%s)", removed.Category, report.ShortID(removed.ID), report.FormatMoney(removed.Amount))
			return nil
		},
	})

	return cmd
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	category, err := parseCategoryArg(args[0])
	if err != nil {
		return err
	}
	amount, err := parseAmountArg("amount", args[1])
	if err != nil {
		return err
	}
	dateStr, _ := cmd.Flags().GetString("date")
	at, err := parseDateFlag(dateStr)
	if err != nil {
		return err
	}
	description := strings.Join(args[2:], " ")

	e, err := model.NewExpense(category, amount, description, at)
	if err != nil {
		return common.NewUserError("invalid expense", err)
	}
	err = withLedger(cmd.Context(), true, func(l *model.Ledger) error {
		if err := l.AddExpense(e); err != nil {
			return common.NewUserError("invalid expense", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	success(cmd, "Added %s expense %s: %s", e.Category, report.ShortID(e.ID), report.FormatMoney(e.Amount))
	return nil
}

// errNoGoal stops goal removal without saving when there is nothing to remove.
var errNoGoal = errors.New("no goal set")

func goalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals"},
		Short:   "Manage per-category budget goals",
		Long: `Goals are spending limits per category, except for Savings where the
goal is a minimum to reach. Priority runs from 1 (highest) to 5.`,
	}

	setCmd := &cobra.Command{
		Use:   "set <category> <target>",
		Short: "Set or replace the goal for a category",
		Args:  cobra.ExactArgs(2),
		RunE:  runGoalSet,
	}
	setCmd.Flags().Int("priority", model.DefaultPriority, "priority from 1 (highest) to 5")

	cmd.AddCommand(setCmd)
	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List goals with their status, highest priority first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd.Context(), false, func(l *model.Ledger) error {
				r, err := analyze(l.Snapshot())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), newFormatter().FormatGoals(r))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "remove <category>",
		Aliases: []string{"rm"},
		Short:   "Remove the goal for a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategoryArg(args[0])
			if err != nil {
				return err
			}
			err = withLedger(cmd.Context(), true, func(l *model.Ledger) error {
				if !l.RemoveGoal(category) {
					return errNoGoal
				}
				return nil
			})
			if errors.Is(err, errNoGoal) {
				info(cmd, "No goal set for %s.", category)
				return nil
			}
			if err != nil {
				return err
			}
			success(cmd, "Removed the %s goal", category)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "progress <category>",
		Short: "Compare a category's spending with its goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategoryArg(args[0])
			if err != nil {
				return err
			}
			return withLedger(cmd.Context(), false, func(l *model.Ledger) error {
				progress, ok := l.Snapshot().GoalProgress(category, appConfig.Rules)
				fmt.Fprintln(cmd.OutOrStdout(), newFormatter().FormatGoalProgress(category, progress, ok))
				return nil
			})
		},
	})

	return cmd
}

func runGoalSet(cmd *cobra.Command, args []string) error {
	category, err := parseCategoryArg(args[0])
	if err != nil {
		return err
	}
	target, err := parseTargetArg(args[1])
	if err != nil {
		return err
	}
	priority, _ := cmd.Flags().GetInt("priority")

	goal, err := model.NewBudgetGoal(category, target, priority)
	if err != nil {
		return common.NewUserError("invalid goal", err)
	}

	err = withLedger(cmd.Context(), true, func(l *model.Ledger) error {
		if err := l.SetGoal(goal); err != nil {
			return common.NewUserError("invalid goal", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	success(cmd, "Goal for %s set to %s (priority %d)", category, report.FormatMoney(target), priority)
	return nil
}
