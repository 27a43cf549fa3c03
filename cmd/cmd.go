// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// checkCommand runs one pass over usernames given on the command line
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check usernames and export the results",
		ArgsUsage: "[username ...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Spreadsheet (xlsx, csv, txt) to import usernames from",
			},
			&cli.StringFlag{
				Name:    "text",
				Aliases: []string{"t"},
				Usage:   "Newline- or comma-separated usernames",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export path (defaults to export.path in config)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format: xlsx, csv or json (defaults to the output extension)",
			},
			&cli.BoolFlag{
				Name:  "no-export",
				Usage: "Skip writing the results file",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON instead of a table",
			},
		},
		Action: r.Check,
	}
}

// tuiCommand launches the interactive queue
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Launch interactive terminal UI",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Spreadsheet to preload into the queue",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the UI owns the terminal",
				Value: "./tmp/igx-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// serveCommand exposes the queue over HTTP
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the queue controls over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to server.host in config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (defaults to server.port in config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the records endpoint in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// normalizeCommand prints handles after normalization
func normalizeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "Print usernames as they would be queued",
		ArgsUsage: "[value ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "text",
				Aliases: []string{"t"},
				Usage:   "Newline- or comma-separated usernames",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output a JSON array",
			},
		},
		Action: r.Normalize,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file helpers",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the example configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration as JSON (credential redacted)",
				Action: r.ConfigShow,
			},
		},
	}
}
