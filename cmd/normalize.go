package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/igx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Normalize prints each value as the queue would store it, dropping values that normalize to nothing.
func (r *Runner) Normalize(ctx context.Context, cmd *cli.Command) error {
	values := append(cmd.Args().Slice(), shared.SplitHandles(cmd.String("text"))...)
	if len(values) == 0 {
		return fmt.Errorf("%w: provide values as arguments or --text", shared.ErrMissingArgument)
	}

	handles := shared.NormalizeHandles(values)
	if cmd.Bool("json") {
		if handles == nil {
			handles = []string{}
		}
		return r.writeJSON(handles, false)
	}

	for _, h := range handles {
		if err := r.writePlain("%s\n", h); err != nil {
			return err
		}
	}
	return nil
}
