package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps the ledger in a SQLite database. Amounts are stored as
// decimal text and timestamps as RFC 3339 text.
type SQLiteStore struct {
	db     *sql.DB
	now    func() time.Time
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at dbPath. Call
// Migrate before use.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and :memory: needs exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database location.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// LastUpdated returns when the ledger was last saved.
func (s *SQLiteStore) LastUpdated(ctx context.Context) (time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return time.Time{}, err
	}
	_, updated, err := s.loadLedgerRow(ctx)
	return updated, err
}

// Load reads the ledger and its expenses in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) (*model.Ledger, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	income, _, err := s.loadLedgerRow(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return nil, err
	}

	goals, err := s.loadGoals(ctx)
	if err != nil {
		return nil, err
	}

	ledger, err := model.RestoreLedger(income, expenses, goals)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabaseCorrupted, err)
	}

	slog.Debug("Loaded ledger", "path", s.dbPath, "expenses", len(expenses), "goals", len(goals))
	return ledger, nil
}

func (s *SQLiteStore) loadLedgerRow(ctx context.Context) (decimal.Decimal, time.Time, error) {
	var incomeText, updatedText string
	err := s.db.QueryRowContext(ctx, `SELECT income, updated_at FROM ledger WHERE id = 1`).Scan(&incomeText, &updatedText)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, time.Time{}, fmt.Errorf("%w: no ledger in %s", common.ErrNotFound, s.dbPath)
	}
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("failed to query ledger: %w", err)
	}

	income, err := decimal.NewFromString(incomeText)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("%w: income %q: %w", common.ErrDatabaseCorrupted, incomeText, err)
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedText)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("%w: updated_at %q: %w", common.ErrDatabaseCorrupted, updatedText, err)
	}
	return income, updated, nil
}

func (s *SQLiteStore) loadExpenses(ctx context.Context) ([]model.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, amount, description, occurred_at
		FROM expenses
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		var id, categoryText, amountText, description, occurredText string
		if err := rows.Scan(&id, &categoryText, &amountText, &description, &occurredText); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}

		category, err := model.ParseCategory(categoryText)
		if err != nil {
			return nil, fmt.Errorf("%w: expense %s: %w", common.ErrDatabaseCorrupted, id, err)
		}
		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			return nil, fmt.Errorf("%w: expense %s amount: %w", common.ErrDatabaseCorrupted, id, err)
		}
		occurred, err := time.Parse(time.RFC3339Nano, occurredText)
		if err != nil {
			return nil, fmt.Errorf("%w: expense %s timestamp: %w", common.ErrDatabaseCorrupted, id, err)
		}

		expense, err := model.RestoreExpense(id, category, amount, description, occurred)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrDatabaseCorrupted, err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

func (s *SQLiteStore) loadGoals(ctx context.Context) ([]model.BudgetGoal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, target_amount, priority FROM goals`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.BudgetGoal
	for rows.Next() {
		var categoryText, targetText string
		var priority int
		if err := rows.Scan(&categoryText, &targetText, &priority); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}

		category, err := model.ParseCategory(categoryText)
		if err != nil {
			return nil, fmt.Errorf("%w: goal: %w", common.ErrDatabaseCorrupted, err)
		}
		target, err := decimal.NewFromString(targetText)
		if err != nil {
			return nil, fmt.Errorf("%w: goal %s target: %w", common.ErrDatabaseCorrupted, category, err)
		}
		goals = append(goals, model.BudgetGoal{Category: category, TargetAmount: target, Priority: priority})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return goals, nil
}

// Save replaces the stored ledger in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, ledger *model.Ledger) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateLedger(ledger); err != nil {
		return err
	}

	snap := ledger.Snapshot()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO ledger (id, income, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET income = excluded.income, updated_at = excluded.updated_at
	`, snap.Income.String(), s.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("failed to clear expenses: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM goals`); err != nil {
		return fmt.Errorf("failed to clear goals: %w", err)
	}

	expenseStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (id, category, amount, description, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare expense statement: %w", err)
	}
	defer func() { _ = expenseStmt.Close() }()

	for _, e := range snap.Expenses {
		if _, err = expenseStmt.ExecContext(ctx,
			e.ID, e.Category.String(), e.Amount.String(), e.Description, e.Timestamp.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("failed to save expense %s: %w", e.ID, err)
		}
	}

	for _, g := range snap.SortedGoals() {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO goals (category, target_amount, priority) VALUES (?, ?, ?)`,
			g.Category.String(), g.TargetAmount.String(), g.Priority,
		); err != nil {
			return fmt.Errorf("failed to save goal %s: %w", g.Category, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger: %w", err)
	}

	slog.Debug("Saved ledger", "path", s.dbPath, "expenses", len(snap.Expenses), "goals", len(snap.Goals))
	return nil
}
