package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/analysis"
	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/report"
	"github.com/Veraticus/the-budget-must-balance/internal/storage"
)

const promptAttempts = 3

type demoExpense struct {
	amount      string
	description string
	category    model.ExpenseCategory
}

type demoGoal struct {
	target   string
	category model.ExpenseCategory
	priority int
}

// demo renders scenarios to one writer with one formatter.
type demo struct {
	out       io.Writer
	formatter *report.Formatter
	rules     model.RulesConfig
}

type scenario struct {
	run   func(d *demo, ctx context.Context) error
	name  string
	title string
}

var scenarios = []scenario{
	{name: "basic", title: "BASIC USAGE", run: (*demo).basic},
	{name: "optimization", title: "BUDGET OPTIMIZATION", run: (*demo).optimization},
	{name: "persistence", title: "DATA PERSISTENCE", run: (*demo).persistence},
	{name: "advanced", title: "ADVANCED ANALYSIS", run: (*demo).advanced},
	{name: "custom-rules", title: "CUSTOM FINANCIAL RULES", run: (*demo).customRules},
}

func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through sample budgets without touching your data",
		Long: `Run sample budgets in memory to show what the analysis does.

Scenarios:
  basic          a $5,000 income with goals
  optimization   a $3,500 income with problems, and the suggested plan
  persistence    save a budget to a temporary file and load it back
  advanced       a $6,000 income with a detailed breakdown
  custom-rules   aggressive savings rules on a $4,000 income
  original       asks for your income and runs the classic walkthrough
  all            every scenario above except original (default)`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}
	cmd.Flags().StringP("scenario", "s", "all", "scenario to run")
	cmd.Flags().String("income", "", "income for the original scenario (prompted when empty)")
	return cmd
}

func runDemo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	name, _ := cmd.Flags().GetString("scenario")
	d := &demo{out: cmd.OutOrStdout(), formatter: newFormatter(), rules: appConfig.Rules}

	switch name = strings.ToLower(name); name {
	case "original":
		incomeStr, _ := cmd.Flags().GetString("income")
		return d.original(ctx, cmd.InOrStdin(), incomeStr)
	case "all", "":
		for _, s := range scenarios {
			if err := d.runScenario(ctx, s); err != nil {
				return err
			}
		}
		d.banner("All examples completed successfully!")
		return nil
	}

	for _, s := range scenarios {
		if s.name == name {
			return d.runScenario(ctx, s)
		}
	}
	return common.NewUserError(fmt.Sprintf("unknown scenario %q", name), model.ErrInvalidInput)
}

func (d *demo) runScenario(ctx context.Context, s scenario) error {
	fmt.Fprintf(d.out, "\n=== %s EXAMPLE ===\n\n", s.title)
	return s.run(d, ctx)
}

func (d *demo) banner(msg string) {
	line := strings.Repeat("=", 50)
	fmt.Fprintf(d.out, "\n%s\n%s\n%s\n", line, msg, line)
}

func (d *demo) basic(_ context.Context) error {
	l, err := demoLedger("5000", []demoExpense{
		{category: model.Housing, amount: "1500", description: "Apartment rent"},
		{category: model.Food, amount: "600", description: "Groceries and dining"},
		{category: model.Transportation, amount: "400", description: "Car payment and gas"},
		{category: model.Utilities, amount: "200", description: "Electricity, water, internet"},
		{category: model.Entertainment, amount: "300", description: "Movies, subscriptions, hobbies"},
		{category: model.Healthcare, amount: "150", description: "Health insurance premium"},
		{category: model.Savings, amount: "800", description: "Retirement and emergency fund"},
		{category: model.Other, amount: "100", description: "Miscellaneous expenses"},
	}, []demoGoal{
		{category: model.Housing, target: "1400", priority: 1},
		{category: model.Savings, target: "1000", priority: 1},
		{category: model.Food, target: "500", priority: 2},
	})
	if err != nil {
		return err
	}
	return d.summary(l, d.rules)
}

func (d *demo) optimization(_ context.Context) error {
	l, err := demoLedger("3500", []demoExpense{
		{category: model.Housing, amount: "1400", description: "Expensive apartment"},
		{category: model.Food, amount: "500", description: "Eating out frequently"},
		{category: model.Transportation, amount: "450", description: "Car payment + insurance"},
		{category: model.Utilities, amount: "180", description: "All utilities"},
		{category: model.Entertainment, amount: "400", description: "Entertainment overspending"},
		{category: model.Savings, amount: "200", description: "Minimal savings"},
		{category: model.DebtPayment, amount: "300", description: "Credit card payments"},
	}, nil)
	if err != nil {
		return err
	}

	fmt.Fprintln(d.out, "Initial budget with financial issues:")
	if err := d.summary(l, d.rules); err != nil {
		return err
	}

	d.banner("APPLYING RECOMMENDATIONS...")
	plan, err := analysis.PlanBudget(l.Income(), d.rules)
	if err != nil {
		return err
	}
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, d.formatter.FormatPlan(plan))
	return nil
}

func (d *demo) persistence(ctx context.Context) error {
	l, err := demoLedger("4200", []demoExpense{
		{category: model.Housing, amount: "1100", description: "Rent"},
		{category: model.Food, amount: "350", description: "Groceries"},
		{category: model.Savings, amount: "800", description: "Monthly savings"},
	}, []demoGoal{
		{category: model.Savings, target: "900", priority: 1},
	})
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "budget-demo-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	store, err := storage.NewJSONStore(filepath.Join(dir, "example_budget.json"))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(ctx, l); err != nil {
		return err
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(d.out, "Saved to and reloaded from %s\n\n", store.Path())
	fmt.Fprintln(d.out, "Loaded budget data:")
	return d.summary(loaded, d.rules)
}

func (d *demo) advanced(_ context.Context) error {
	l, err := demoLedger("6000", []demoExpense{
		{category: model.Housing, amount: "1800", description: "Mortgage payment"},
		{category: model.Food, amount: "400", description: "Groceries"},
		{category: model.Food, amount: "200", description: "Restaurants"},
		{category: model.Transportation, amount: "300", description: "Car payment"},
		{category: model.Transportation, amount: "150", description: "Gas and maintenance"},
		{category: model.Utilities, amount: "250", description: "All utilities"},
		{category: model.Entertainment, amount: "180", description: "Streaming services"},
		{category: model.Entertainment, amount: "120", description: "Hobbies"},
		{category: model.Healthcare, amount: "200", description: "Insurance and medical"},
		{category: model.Savings, amount: "1200", description: "Retirement + emergency"},
		{category: model.Other, amount: "100", description: "Miscellaneous"},
	}, nil)
	if err != nil {
		return err
	}

	s := l.Snapshot()
	r, err := analysis.Analyze(s, d.rules)
	if err != nil {
		return err
	}
	recs, err := analysis.Recommend(s, r, d.rules)
	if err != nil {
		return err
	}

	fmt.Fprintln(d.out, "Detailed spending analysis:")
	fmt.Fprintf(d.out, "Budget health: %s\n", strings.ToUpper(string(r.Health)))
	fmt.Fprintf(d.out, "Savings rate: %s\n\n", report.FormatPct(r.Pct(model.Savings)))
	fmt.Fprintln(d.out, d.formatter.FormatSummary(r))
	fmt.Fprintf(d.out, "\nGenerated %d recommendations:\n\n", len(recs))
	fmt.Fprintln(d.out, d.formatter.FormatRecommendations(recs))
	return nil
}

func (d *demo) customRules(_ context.Context) error {
	rules, err := model.DefaultRules().Apply(map[string]any{
		"housing_max_pct":       0.25,
		"savings_min_pct":       0.30,
		"entertainment_max_pct": 0.05,
		"emergency_fund_months": 12,
	})
	if err != nil {
		return err
	}

	l, err := demoLedger("4000", []demoExpense{
		{category: model.Housing, amount: "1000", description: "Modest housing"},
		{category: model.Food, amount: "400", description: "Groceries"},
		{category: model.Transportation, amount: "300", description: "Transportation"},
		{category: model.Utilities, amount: "150", description: "Utilities"},
		{category: model.Entertainment, amount: "100", description: "Minimal entertainment"},
		{category: model.Savings, amount: "1200", description: "Aggressive savings"},
	}, nil)
	if err != nil {
		return err
	}

	fmt.Fprintln(d.out, "Budget with custom financial rules (aggressive savings):")
	fmt.Fprintln(d.out, d.formatter.FormatRules(rules))
	fmt.Fprintln(d.out)
	return d.summary(l, rules)
}

// original asks for an income unless one is given, then records a typical
// month with three goals.
func (d *demo) original(ctx context.Context, in io.Reader, incomeStr string) error {
	fmt.Fprintln(d.out, "Welcome to your personal budget assistant!")
	fmt.Fprintln(d.out, "Let's set up your monthly budget...")

	var income decimal.Decimal
	var err error
	if incomeStr != "" {
		income, err = parseAmountArg("income", incomeStr)
	} else {
		income, err = cli.PromptAmount(ctx, cli.NewNonBlockingReader(in), d.out, "Enter your monthly income", promptAttempts)
		if err != nil {
			err = common.NewUserError("no valid income entered", err)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(d.out, "\nAdding sample expenses...")
	fmt.Fprintln(d.out, "Setting budget goals...")
	l, err := demoLedger(income.String(), []demoExpense{
		{category: model.Housing, amount: "1200", description: "Rent payment"},
		{category: model.Food, amount: "400", description: "Groceries"},
		{category: model.Transportation, amount: "300", description: "Car payment + gas"},
		{category: model.Utilities, amount: "150", description: "Electricity + Water"},
		{category: model.Entertainment, amount: "200", description: "Movies + Dining out"},
		{category: model.Savings, amount: "500", description: "Monthly savings"},
	}, []demoGoal{
		{category: model.Housing, target: "1300", priority: 1},
		{category: model.Food, target: "350", priority: 2},
		{category: model.Savings, target: "600", priority: 1},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(d.out)
	if err := d.summary(l, d.rules); err != nil {
		return err
	}
	fmt.Fprintln(d.out, "\nBudget analysis complete! Run 'budget init' to start tracking your own.")
	return nil
}

func (d *demo) summary(l *model.Ledger, rules model.RulesConfig) error {
	s := l.Snapshot()
	r, err := analysis.Analyze(s, rules)
	if err != nil {
		return err
	}
	recs, err := analysis.Recommend(s, r, rules)
	if err != nil {
		return err
	}

	fmt.Fprintln(d.out, strings.Join([]string{
		d.formatter.FormatSummary(r),
		d.formatter.FormatGoals(r),
		d.formatter.FormatRecommendations(recs),
	}, "\n\n"))
	return nil
}

func demoLedger(income string, expenses []demoExpense, goals []demoGoal) (*model.Ledger, error) {
	l, err := model.NewLedger(decimal.RequireFromString(income))
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		if _, err := l.Record(e.category, decimal.RequireFromString(e.amount), e.description); err != nil {
			return nil, err
		}
	}
	for _, g := range goals {
		goal, err := model.NewBudgetGoal(g.category, decimal.RequireFromString(g.target), g.priority)
		if err != nil {
			return nil, err
		}
		if err := l.SetGoal(goal); err != nil {
			return nil, err
		}
	}
	return l, nil
}
