package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/igx/internal/server"
	"github.com/desertthunder/igx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP controls until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	session, err := r.newSession(r.logger)
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = int(port)
	}

	srv := server.New(server.Opts{
		Session:        session,
		Logger:         r.logger,
		Addr:           cfg.Addr(),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	open := cmd.Bool("open")
	return srv.ListenAndServe(ctx, func(url string) {
		if !open {
			return
		}
		if err := shared.OpenBrowser(url + "/api/records"); err != nil {
			r.logger.Warn("could not open browser", "err", err)
		}
	})
}
