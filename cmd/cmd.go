// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and store the bearer token",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account (does not log you in)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored bearer token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show login state and API reachability",
				Action: r.AuthStatus,
			},
		},
	}
}

// configCommand handles configuration operations
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the config file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:  "set-api",
				Usage: "Save an API base address override and re-check health",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Action: r.ConfigSetAPI,
			},
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ConfigShow,
			},
		},
	}
}

// analyzeCommand uploads a CSV and watches the resulting job
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Upload a CSV for differential analysis",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-wait",
				Usage: "Return immediately after the job is created",
			},
		},
		Action: r.Analyze,
	}
}

// jobsCommand handles job listing, inspection, downloads, and deletion
func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "Manage analysis jobs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your analysis jobs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.JobsList,
			},
			{
				Name:  "show",
				Usage: "Show one job's status and detail",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.JobsShow,
			},
			{
				Name:  "watch",
				Usage: "Poll a job until it finishes, fails, or the poll budget runs out",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.JobsWatch,
			},
			{
				Name:  "download",
				Usage: "Download a job artifact",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "kind",
						Aliases: []string{"k"},
						Usage:   "Artifact kind: result or plot",
						Value:   "result",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory to save into (default: downloads.dir from config)",
					},
				},
				Action: r.JobsDownload,
			},
			{
				Name:  "delete",
				Usage: "Delete a job and its result files",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.JobsDelete,
			},
			{
				Name:  "history",
				Usage: "List locally retained job snapshots",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.JobsHistory,
			},
		},
	}
}

// healthCommand probes the API liveness endpoint
func healthCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check API liveness",
		Action: r.Health,
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive jobs dashboard",
		Action:  r.TUI,
	}
}
