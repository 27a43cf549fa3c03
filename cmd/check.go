package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/desertthunder/igx/internal/formatter"
	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/shared"
	"github.com/desertthunder/igx/internal/tasks"
	"github.com/urfave/cli/v3"
)

const maxNotesWidth = 60

type checkOutput struct {
	Records []models.UsernameRecord `json:"records"`
	Stats   models.ProcessingStats  `json:"stats"`
	Run     tasks.RunResult         `json:"run"`
	Export  string                  `json:"export,omitempty"`
}

// Check queues usernames from arguments, --text and --file, runs them once and exports the results.
//
// An interrupt stops the run between usernames; whatever finished is still reported and exported.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	session, err := r.newSession(r.logger)
	if err != nil {
		return err
	}

	session.Add(cmd.Args().Slice())
	session.AddText(cmd.String("text"))
	for _, path := range cmd.StringSlice("file") {
		added, err := session.AddFile(path)
		if err != nil {
			return err
		}
		r.logger.Info("imported usernames", "file", path, "count", len(added))
	}

	if len(session.Records()) == 0 {
		return fmt.Errorf("%w: provide usernames as arguments, --text or --file", shared.ErrMissingArgument)
	}

	exportPath, err := r.exportPath(cmd.String("output"), cmd.String("format"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, _ := session.Start(ctx)
	<-run.Done()
	result := run.Result()
	if result.Stopped {
		r.logger.Warn("run interrupted", "checked", result.Attempted, "eligible", result.Eligible)
	}

	out := checkOutput{Records: session.Records(), Stats: session.Stats(), Run: result}

	if !cmd.Bool("no-export") {
		written, err := session.ExportFile(exportPath)
		switch {
		case errors.Is(err, shared.ErrNothingToExport):
			r.logger.Warn("nothing to export")
		case err != nil:
			return err
		default:
			out.Export = written
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(out, true)
	}

	formatter.RenderTable(r.output, out.Records, out.Stats, formatter.TableOpts{
		Color:    r.colorize(),
		MaxNotes: maxNotesWidth,
	})
	if out.Export != "" {
		return r.writePlain("\nResults saved to %s\n", out.Export)
	}
	return nil
}

// exportPath resolves the output path, swapping its extension when format is given.
func (r *Runner) exportPath(output, format string) (string, error) {
	if output == "" {
		output = r.config.Export.Path
	}
	if output == "" {
		output = formatter.DefaultExportPath
	}
	if format == "" {
		if _, err := formatter.FormatFromPath(output); err != nil {
			return "", err
		}
		return output, nil
	}

	f, err := formatter.ParseFormat(format)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + string(f), nil
}
