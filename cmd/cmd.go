// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing, initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
		},
	}
}

// tracksCommand handles feed fetching and the local track cache.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracks",
		Aliases: []string{"t"},
		Usage:   "Fetch feeds and inspect the track cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached tracks",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TracksList,
			},
			{
				Name:  "fetch",
				Usage: "Fetch a feed from the API and cache its tracks",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "feed",
						Aliases: []string{"f"},
						Usage:   "Feed to fetch: trending, popular or artist:<id>",
						Value:   "trending",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to fetch",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TracksFetch,
			},
			{
				Name:  "sync",
				Usage: "Fetch several feeds concurrently, cache them and optionally export",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringSliceFlag{
						Name:    "feed",
						Aliases: []string{"f"},
						Usage:   "Feed to sync (repeatable): trending, popular or artist:<id>",
						Value:   []string{"trending", "popular"},
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: json, csv, markdown or txt (empty skips exporting)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Export directory (default: feeds_{timestamp})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers",
						Value: 3,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Tracks per feed",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the summary as JSON",
					},
				},
				Action: r.TracksSync,
			},
		},
	}
}

// playCommand runs the controller without a UI.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a feed headless, printing track changes",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "feed",
				Aliases: []string{"f"},
				Usage:   "Feed to play: trending, popular or artist:<id>",
				Value:   "trending",
			},
			&cli.IntFlag{
				Name:  "index",
				Usage: "Queue position to start from",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of tracks to queue",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "Resume the last session instead of starting the feed from --index",
			},
			&cli.BoolFlag{
				Name:  "shuffle",
				Usage: "Turn shuffle on or off (--shuffle=false); the saved mode is kept when omitted",
			},
			&cli.BoolFlag{
				Name:  "repeat",
				Usage: "Turn repeat-one on or off (--repeat=false); the saved mode is kept when omitted",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Audio backend override: speaker or simulated",
			},
			&cli.FloatFlag{
				Name:  "speed",
				Usage: "Playback rate of the simulated backend",
				Value: 1,
			},
			&cli.DurationFlag{
				Name:  "for",
				Usage: "Stop after this long (0 plays until interrupted)",
			},
		},
		Action: r.Play,
	}
}

// stateCommand inspects the persisted playback session.
func stateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "Inspect or clear the persisted playback session",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print persisted player state",
				Flags: []cli.Flag{
					configFlag(),
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
				Action: r.StateShow,
			},
			{
				Name:   "reset",
				Usage:  "Delete every persisted player key",
				Flags:  []cli.Flag{configFlag()},
				Action: r.StateReset,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playback.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive player",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "feed",
				Aliases: []string{"f"},
				Usage:   "Feed to browse: trending, popular or artist:<id>",
				Value:   "trending",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of tracks to list",
				Value: 20,
			},
		},
		Action: r.TUI,
	}
}
