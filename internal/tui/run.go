package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/the-budget-must-balance/internal/report"
)

// Options configures a dashboard run.
type Options struct {
	Input     io.Reader
	Output    io.Writer
	Formatter *report.Formatter
	// AltScreen runs the dashboard in the terminal's alternate screen.
	AltScreen bool
}

// Run shows the dashboard until the user quits or ctx is cancelled.
func Run(ctx context.Context, content Content, opts Options) error {
	if content.Report == nil {
		return errors.New("dashboard requires an analysis report")
	}
	if opts.Formatter == nil {
		opts.Formatter = report.NewFormatter(false)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	p := tea.NewProgram(NewModel(content, opts.Formatter), programOpts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
