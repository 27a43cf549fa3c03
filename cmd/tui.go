package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/igx/internal/shared"
	"github.com/desertthunder/igx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI over a fresh queue.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, logFile, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()

	fileLogger.SetLevel(r.logger.GetLevel())
	restore := r.logger
	r.SetLogger(fileLogger)
	defer r.SetLogger(restore)

	session, err := r.newSession(fileLogger)
	if err != nil {
		return err
	}
	for _, path := range cmd.StringSlice("file") {
		if _, err := session.AddFile(path); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(ctx, session, r.config.Export.Path)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
