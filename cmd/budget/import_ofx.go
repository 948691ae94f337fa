package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/ofx"
	"github.com/Veraticus/the-budget-must-balance/internal/report"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import expenses from OFX/QFX statements",
		Long: `Import the debits from OFX or QFX (Quicken) files exported from your bank
as expenses. Categories are guessed from the transaction description; anything
unrecognized is filed under Other. Transactions already in the budget are skipped.

Examples:
  # Import single file
  budget import-ofx ~/Downloads/checking_mar_2024.qfx

  # Preview a batch without saving
  budget import-ofx --dry-run ~/Downloads/*.qfx

  # File everything from a card statement under one category
  budget import-ofx --category food ~/Downloads/grocery_card.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().String("category", "", "File every imported expense under this category")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	categoryStr, _ := cmd.Flags().GetString("category")

	var opts []ofx.Option
	if categoryStr != "" {
		category, err := parseCategoryArg(categoryStr)
		if err != nil {
			return err
		}
		opts = append(opts, ofx.WithCategory(category))
	}

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	slog.Info("Importing OFX files", "file_count", len(files), "dry_run", dryRun)

	candidates, err := parseFiles(ctx, ofx.NewParser(opts...), files, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var (
		added      []model.Expense
		duplicates int
		income     decimal.Decimal
	)
	err = withLedger(ctx, !dryRun, func(l *model.Ledger) error {
		var fresh []ofx.Candidate
		fresh, duplicates = ofx.Dedupe(l.Snapshot().Expenses, candidates)
		income = l.Income()
		if len(fresh) == 0 {
			return nil
		}

		target := l
		if dryRun {
			preview, err := model.NewLedger(income)
			if err != nil {
				return err
			}
			target = preview
		}

		var importErr error
		added, importErr = ofx.Import(target, fresh)
		if importErr != nil {
			return common.NewUserError(fmt.Sprintf("import stopped after %d expenses", len(added)), importErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(added) == 0 {
		info(cmd, "Nothing to import: %d transactions were already recorded.", duplicates)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, newFormatter().FormatExpenses(model.Snapshot{Income: income, Expenses: added}))
	fmt.Fprintln(out)
	if dryRun {
		info(cmd, "Dry run: %d expenses would be imported, %d duplicates skipped.", len(added), duplicates)
		return nil
	}
	success(cmd, "Imported %d expenses totalling %s, %d duplicates skipped.",
		len(added), report.FormatMoney(model.Snapshot{Expenses: added}.TotalExpenses()), duplicates)
	return nil
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("invalid pattern %s", pattern), err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", common.ErrNotFound)
	}
	return files, nil
}

// parseFiles parses every file, skipping unreadable ones. It fails only when
// no file could be parsed.
func parseFiles(ctx context.Context, parser *ofx.Parser, files []string, progress io.Writer) ([]ofx.Candidate, error) {
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionEnableColorCodes(!appConfig.Output.Plain),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Reading statements..."),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(progress); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	var all []ofx.Candidate
	parsed := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates, err := parseFile(ctx, parser, path)
		_ = bar.Add(1)
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}
		parsed++
		if len(candidates) == 0 {
			slog.Warn("No debits found in file", "file", filepath.Base(path))
		}
		all = append(all, candidates...)
	}

	if parsed == 0 {
		return nil, common.NewUserError("none of the files could be read as OFX", model.ErrInvalidInput)
	}
	return all, nil
}

func parseFile(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseFile(ctx, f)
}
