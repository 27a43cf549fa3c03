package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/igx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the embedded example configuration.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("Wrote %s\n", path)
}

// ConfigShow prints the effective configuration with the credential redacted.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	cfg := *r.config
	if cfg.Classifier.APIKey != "" {
		cfg.Classifier.APIKey = "********"
	}
	if err := r.writeJSON(cfg, true); err != nil {
		return fmt.Errorf("failed to show config: %w", err)
	}
	return nil
}
