// Package report renders analysis results for the terminal, either styled with
// lipgloss or as plain text, and encodes them as JSON.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/analysis"
	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

const (
	barWidth      = 20
	categoryWidth = 16
	amountWidth   = 13
)

// Formatter renders budget data as terminal text.
type Formatter struct {
	styles *Styles
	plain  bool
}

// NewFormatter creates a formatter. Plain formatters emit no colors, borders
// or bars.
func NewFormatter(plain bool) *Formatter {
	styles := NewStyles()
	if plain {
		styles = PlainStyles()
	}
	return &Formatter{styles: styles, plain: plain}
}

// FormatSummary renders totals, health and the per-category breakdown.
func (f *Formatter) FormatSummary(report *analysis.Report) string {
	if report == nil {
		return f.styles.Error.Render("No report available")
	}

	var sections []string

	sections = append(sections, f.styles.Title.Render(f.icon(cli.MoneyIcon)+"Budget Summary"))

	totals := []string{
		f.kv("Monthly income", f.styles.Amount.Render(FormatMoney(report.Income))),
		f.kv("Total expenses", FormatMoney(report.TotalExpenses)),
		f.kv("Remaining", f.signed(report.Remaining)),
		f.kv("Health", f.health(report.Health)),
	}
	sections = append(sections, strings.Join(totals, "\n"))

	if len(report.Breakdown) > 0 {
		sections = append(sections, f.formatBreakdown(report))
	} else {
		sections = append(sections, f.styles.Subtle.Render("No expenses recorded yet."))
	}

	if len(report.Violations) > 0 {
		var lines []string
		lines = append(lines, f.styles.Subtitle.Render("Rule violations"))
		for _, v := range report.Violations {
			lines = append(lines, f.styles.Warning.Render(fmt.Sprintf("%s%s at %s of income, limit %s (%s over)",
				f.icon(cli.WarningIcon), v.Category, FormatPct(v.Pct), FormatPct(v.Limit), FormatMoney(v.Excess))))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

func (f *Formatter) formatBreakdown(report *analysis.Report) string {
	header := fmt.Sprintf("%-*s %*s %7s", categoryWidth, "Category", amountWidth, "Amount", "Share")
	lines := []string{f.styles.TableHeader.Render(header)}

	for _, b := range report.Breakdown {
		row := fmt.Sprintf("%-*s %*s %7s", categoryWidth, b.Category, amountWidth, FormatMoney(b.Total), FormatPct(b.Pct))
		if limit, ok := report.Rules.MaxPct(b.Category); ok && b.Pct.GreaterThan(limit) {
			row = f.styles.Warning.Render(row)
		}
		if !f.plain {
			row += " " + f.bar(b.Pct)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// FormatGoals renders every goal with its status, in priority order.
func (f *Formatter) FormatGoals(report *analysis.Report) string {
	if report == nil {
		return f.styles.Error.Render("No report available")
	}

	title := f.styles.Title.Render(f.icon(cli.TargetIcon) + "Budget Goals")
	if len(report.Goals) == 0 {
		return title + "\n\n" + f.styles.Subtle.Render("No goals set. Use 'budget goal set' to add one.")
	}

	header := fmt.Sprintf("%-6s %-*s %*s %*s %*s %3s",
		"Status", categoryWidth, "Category", amountWidth, "Target", amountWidth, "Actual", amountWidth, "Difference", "Pri")
	lines := []string{f.styles.TableHeader.Render(header)}

	for _, g := range report.Goals {
		status, style := f.goalStatus(g.Met)
		row := fmt.Sprintf("%-6s %-*s %*s %*s %*s %3d",
			status, categoryWidth, g.Category, amountWidth, FormatMoney(g.Target),
			amountWidth, FormatMoney(g.Actual), amountWidth, FormatMoney(g.Delta), g.Priority)
		lines = append(lines, style.Render(row))
	}

	return title + "\n\n" + strings.Join(lines, "\n")
}

// FormatGoalProgress renders a single goal, or a note when none is set.
func (f *Formatter) FormatGoalProgress(category model.ExpenseCategory, progress model.GoalProgress, ok bool) string {
	if !ok {
		return f.styles.Info.Render(fmt.Sprintf("%sNo goal set for %s.", f.icon(cli.InfoIcon), category))
	}

	status, style := f.goalStatus(progress.Met)
	verb := "limit"
	if progress.Floor {
		verb = "target"
	}
	lines := []string{
		style.Render(fmt.Sprintf("%s %s (priority %d)", status, category, progress.Goal.Priority)),
		f.kv("Goal "+verb, FormatMoney(progress.Goal.TargetAmount)),
		f.kv("Actual", FormatMoney(progress.Actual)),
		f.kv("Difference", f.signed(progress.Delta)),
	}
	return strings.Join(lines, "\n")
}

// FormatRecommendations renders recommendations in the order given, which
// analysis.Recommend has already sorted by severity.
func (f *Formatter) FormatRecommendations(recs []analysis.Recommendation) string {
	title := f.styles.Title.Render(f.icon(cli.BulbIcon) + "Recommendations")
	if len(recs) == 0 {
		return title + "\n\n" + f.styles.Success.Render(f.icon(cli.CheckIcon)+"Your budget looks great. Keep it up!")
	}

	lines := make([]string, 0, len(recs))
	for i, r := range recs {
		label := f.styles.SeverityStyle(r.Severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(r.Severity.String())))
		line := fmt.Sprintf("%2d. %s %s", i+1, label, r.Text)
		if r.SuggestedAmount != nil {
			line += f.styles.Subtle.Render(fmt.Sprintf(" (suggested: %s)", FormatMoney(*r.SuggestedAmount)))
		}
		lines = append(lines, line)
	}

	return title + "\n\n" + strings.Join(lines, "\n")
}

// FormatPlan renders an allocation plan.
func (f *Formatter) FormatPlan(plan analysis.Plan) string {
	title := f.styles.Title.Render(f.icon(cli.ChartIcon) + "Recommended Budget Allocation")
	subtitle := f.styles.Subtle.Render("Based on monthly income of " + FormatMoney(plan.Income))

	header := fmt.Sprintf("%-*s %*s %7s", categoryWidth, "Category", amountWidth, "Amount", "Share")
	lines := []string{f.styles.TableHeader.Render(header)}
	for _, a := range plan.Allocations {
		row := fmt.Sprintf("%-*s %*s %7s", categoryWidth, a.Category, amountWidth, FormatMoney(a.Amount), FormatPct(a.Ratio))
		if a.Constrained {
			row += f.styles.Subtle.Render(" *")
		}
		lines = append(lines, row)
	}
	lines = append(lines, fmt.Sprintf("%-*s %*s", categoryWidth, "Total", amountWidth, FormatMoney(plan.Total())))

	footer := f.styles.Subtle.Render("* adjusted to your financial rules")
	if plan.Scaled {
		footer += "\n" + f.styles.Warning.Render("Rule minimums exceed 100% of the defaults; other categories were scaled down.")
	}

	return strings.Join([]string{title, subtitle, strings.Join(lines, "\n"), footer}, "\n\n")
}

// FormatExpenses renders the ledger's expenses in insertion order.
func (f *Formatter) FormatExpenses(s model.Snapshot) string {
	title := f.styles.Title.Render(f.icon(cli.MoneyIcon) + "Expenses")
	if len(s.Expenses) == 0 {
		return title + "\n\n" + f.styles.Subtle.Render("No expenses recorded yet.")
	}

	header := fmt.Sprintf("%-8s %-10s %-*s %*s  %s", "ID", "Date", categoryWidth, "Category", amountWidth, "Amount", "Description")
	lines := []string{f.styles.TableHeader.Render(header)}
	for _, e := range s.Expenses {
		lines = append(lines, fmt.Sprintf("%-8s %-10s %-*s %*s  %s",
			ShortID(e.ID), e.Timestamp.Format("2006-01-02"), categoryWidth, e.Category,
			amountWidth, FormatMoney(e.Amount), e.Description))
	}
	lines = append(lines, fmt.Sprintf("%-8s %-10s %-*s %*s",
		"", "", categoryWidth, "Total", amountWidth, FormatMoney(s.TotalExpenses())))

	return title + "\n\n" + strings.Join(lines, "\n")
}

// FormatRules renders the effective rules.
func (f *Formatter) FormatRules(rules model.RulesConfig) string {
	title := f.styles.Title.Render("Financial Rules")
	values := rules.Map()

	lines := make([]string, 0, len(values))
	for _, key := range model.RuleKeys() {
		lines = append(lines, f.kv(key, fmt.Sprint(values[key])))
	}
	return title + "\n\n" + strings.Join(lines, "\n")
}

// ShortID returns the first eight characters of an expense id.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func (f *Formatter) kv(key, value string) string {
	return fmt.Sprintf("%-22s %s", key+":", value)
}

func (f *Formatter) signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return f.styles.Negative.Render(FormatMoney(d))
	}
	return f.styles.Amount.Render(FormatMoney(d))
}

func (f *Formatter) health(h analysis.Health) string {
	return f.styles.HealthStyle(h).Render(strings.ToUpper(string(h)))
}

func (f *Formatter) goalStatus(met bool) (string, lipgloss.Style) {
	if met {
		return f.mark(cli.CheckIcon, "MET"), f.styles.Success
	}
	return f.mark(cli.CrossIcon, "MISSED"), f.styles.Error
}

// mark returns the icon, or a word in plain mode.
func (f *Formatter) mark(icon, word string) string {
	if f.plain {
		return word
	}
	return icon
}

// icon returns the icon followed by a space, or nothing in plain mode.
func (f *Formatter) icon(icon string) string {
	if f.plain {
		return ""
	}
	return icon + " "
}

func (f *Formatter) bar(pct decimal.Decimal) string {
	filled := int(pct.Mul(decimal.NewFromInt(barWidth)).IntPart())
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return f.styles.ProgressFill.Render(strings.Repeat("█", filled)) +
		f.styles.ProgressEmpty.Render(strings.Repeat("░", barWidth-filled))
}
