package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/bioflow/internal/shared"
	"github.com/desertthunder/bioflow/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive jobs dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/bioflow-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	store, closeStore, err := r.openHistory()
	if err != nil {
		r.logger.Warn("history unavailable", "error", err)
		store = nil
	} else {
		defer closeStore()
	}

	downloadsDir := r.config.Downloads.Dir
	if downloadsDir == "" {
		downloadsDir = "."
	}

	model := ui.NewModel(ctx, r.client(), store, downloadsDir, r.session.LoggedIn())
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
