package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/report"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
	"github.com/Veraticus/the-budget-must-balance/internal/storage"
)

// initStore opens the configured ledger store.
func initStore(ctx context.Context) (service.LedgerStore, error) {
	store, err := storage.Open(ctx, appConfig.Storage.Backend, appConfig.Storage.Path)
	if err != nil {
		return nil, common.NewUserError("failed to open budget store", err)
	}
	return store, nil
}

// openStore opens the store used by withLedger. Tests swap it for a store
// that fails on demand.
var openStore = initStore

// loadLedger returns the stored ledger, pointing the user at init when there
// is none yet.
func loadLedger(ctx context.Context, store service.LedgerStore) (*model.Ledger, error) {
	l, err := store.Load(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError("no budget found; run 'budget init --income <amount>' first", nil)
	}
	if err != nil {
		return nil, common.NewUserError("failed to load budget", err)
	}
	return l, nil
}

// withLedger loads the ledger, runs fn, and saves the ledger afterwards when
// save is set and fn succeeded. Callers print confirmations only after it
// returns nil, so a failed save never reports success.
func withLedger(ctx context.Context, save bool, fn func(*model.Ledger) error) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close store", "error", closeErr)
		}
	}()

	l, err := loadLedger(ctx, store)
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := store.Save(ctx, l); err != nil {
		return common.NewUserError("failed to save budget", err)
	}
	return nil
}

func newFormatter() *report.Formatter {
	return report.NewFormatter(appConfig.Output.Plain)
}

// success prints a confirmation line, styled unless output is plain.
func success(cmd *cobra.Command, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !appConfig.Output.Plain {
		msg = cli.FormatSuccess(msg)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
}

// warn prints a caution line, styled unless output is plain.
func warn(cmd *cobra.Command, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !appConfig.Output.Plain {
		msg = cli.FormatWarning(msg)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
}

func info(cmd *cobra.Command, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !appConfig.Output.Plain {
		msg = cli.FormatInfo(msg)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
}

func parseAmountArg(name, s string) (decimal.Decimal, error) {
	amount, err := cli.ParseAmount(s)
	if err != nil {
		return decimal.Zero, common.NewUserError("invalid "+name, fmt.Errorf("%w: %w", model.ErrInvalidInput, err))
	}
	return amount, nil
}

// parseTargetArg accepts zero, unlike parseAmountArg.
func parseTargetArg(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
	target, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, common.NewUserError("invalid target", fmt.Errorf("%w: %q is not a number", model.ErrInvalidInput, s))
	}
	return target, nil
}

func parseCategoryArg(s string) (model.ExpenseCategory, error) {
	c, err := model.ParseCategory(s)
	if err != nil {
		names := make([]string, 0, len(model.AllCategories()))
		for _, c := range model.AllCategories() {
			names = append(names, c.String())
		}
		return 0, common.NewUserError("unknown category (choose from "+strings.Join(names, ", ")+")", err)
	}
	return c, nil
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	at, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, common.NewUserError("invalid --date, expected YYYY-MM-DD", err)
	}
	return at, nil
}

// findExpense resolves a full id or a unique prefix of one.
func findExpense(s model.Snapshot, idOrPrefix string) (model.Expense, error) {
	idOrPrefix = strings.ToLower(strings.TrimSpace(idOrPrefix))
	if idOrPrefix == "" {
		return model.Expense{}, common.NewUserError("expense id is required", nil)
	}

	var matches []model.Expense
	for _, e := range s.Expenses {
		if e.ID == idOrPrefix {
			return e, nil
		}
		if strings.HasPrefix(e.ID, idOrPrefix) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return model.Expense{}, common.NewUserError(fmt.Sprintf("no expense with id %q", idOrPrefix), common.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return model.Expense{}, common.NewUserError(
			fmt.Sprintf("id %q matches %d expenses; use more characters", idOrPrefix, len(matches)), nil)
	}
}
