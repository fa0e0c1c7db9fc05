// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command that reads configuration.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// authFlag overrides the credential file resolution order.
func authFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "auth",
		Usage: "Path to browser.json or oauth.json (overrides config)",
	}
}

// proxyFlag points at the ytmusicapi proxy server.
func proxyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "proxy",
		Usage: "Base URL of the ytmusicapi proxy",
	}
}

// runCommand builds a playlist from a text file of song queries.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Create a playlist from a text file of song queries",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			configFlag(),
			authFlag(),
			proxyFlag(),
			&cli.StringFlag{
				Name:    "title",
				Aliases: []string{"t"},
				Usage:   "Playlist title (default: TxtToYoutubeMusic_<timestamp>)",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Playlist description",
			},
			&cli.StringFlag{
				Name:  "privacy",
				Usage: "Playlist privacy: PUBLIC, PRIVATE or UNLISTED",
			},
			&cli.BoolFlag{
				Name:  "allow-duplicates",
				Usage: "Insert every occurrence of a track, even repeats",
			},
			&cli.BoolFlag{
				Name:  "perfect-match",
				Usage: "Only accept results whose title matches the query exactly",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Line-based progress output instead of the TUI",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip prompts and accept defaults",
			},
			&cli.StringFlag{
				Name:  "duplicates-file",
				Usage: "Where to write skipped duplicate queries",
			},
			&cli.IntFlag{
				Name:  "max-retries",
				Usage: "Retries per track on insert conflicts (overrides config)",
			},
			&cli.IntFlag{
				Name:  "retry-delay",
				Usage: "Base seconds between conflict retries (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Resolve every query remotely, ignoring the local cache",
			},
		},
		Action: r.Run,
	}
}

// searchCommand resolves a single query without touching any playlist.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Resolve one song query and print the match",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			configFlag(),
			authFlag(),
			proxyFlag(),
			&cli.BoolFlag{
				Name:  "perfect-match",
				Usage: "Only accept an exact title match",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// setupCommand handles setup operations for configuration, credentials and
// the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "auth",
				Usage: "Configure YouTube Music authentication from browser headers",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to file containing the cURL command",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path for browser.json (default: from config)",
					},
				},
				Action: r.SetupAuth,
			},
			{
				Name:  "oauth",
				Usage: "Authenticate with a Google OAuth device flow",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "client-id",
						Usage: "OAuth client ID (or YTM_CLIENT_ID)",
					},
					&cli.StringFlag{
						Name:  "client-secret",
						Usage: "OAuth client secret (or YTM_CLIENT_SECRET)",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path for oauth.json (default: from config)",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the verification URL instead of opening it",
					},
				},
				Action: r.SetupOAuth,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// cacheCommand manages the cross-run resolution cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the local resolution cache",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show how many resolutions are cached",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheStatus,
			},
			{
				Name:   "clear",
				Usage:  "Drop every cached resolution",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}

// historyCommand browses and exports past runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse past runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one run's full report",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.HistoryShow,
			},
			{
				Name:  "export",
				Usage: "Export one run's report as CSV",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}
