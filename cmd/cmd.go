// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/desertthunder/kinox/internal/formatter"
	"github.com/urfave/cli/v3"
)

func jsonFlags(prettyDefault bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: prettyDefault,
		},
	}
}

// trendingCommand lists this week's trending movies.
func trendingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "trending",
		Usage:  "List this week's trending movies",
		Flags:  jsonFlags(false),
		Action: r.Trending,
	}
}

// searchCommand searches the catalog by title.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search movies by title",
		ArgsUsage: "<query...>",
		Flags:     jsonFlags(false),
		Action:    r.Search,
	}
}

// movieCommand shows the details of one movie.
func movieCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "movie",
		Usage:     "Show movie details",
		ArgsUsage: "<id>",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags:  jsonFlags(true),
		Action: r.Movie,
	}
}

// genresCommand prints the genre table.
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "genres",
		Usage:  "List known genres; filterable ones are marked with *",
		Flags:  jsonFlags(false),
		Action: r.Genres,
	}
}

// watchlistCommand handles watchlist operations
func watchlistCommand(r *Runner) *cli.Command {
	formats := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		formats[i] = string(f)
	}

	return &cli.Command{
		Name:    "watchlist",
		Aliases: []string{"wl"},
		Usage:   "Saved movie operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List saved movies",
				Flags:   jsonFlags(false),
				Action:  r.WatchlistList,
			},
			{
				Name:      "add",
				Usage:     "Fetch a movie by id and save it",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.WatchlistAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a saved movie",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.WatchlistRemove,
			},
			{
				Name:  "export",
				Usage: "Export the watchlist to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   fmt.Sprintf("Export format (%s)", strings.Join(formats, ", ")),
						Value:   string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: <name>.<format>)",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Watchlist name used in the export",
						Value: "watchlist",
					},
					&cli.StringFlag{
						Name:  "posters",
						Usage: "Download posters into this directory",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Poster downloads per second (default: export.rate_limit)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent poster downloads",
						Value: 4,
					},
				},
				Action: r.WatchlistExport,
			},
			{
				Name:  "history",
				Usage: "Show recent writes of the watchlist slot (sqlite backend)",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of writes to show",
						Value: 10,
					},
				},
				Action: r.WatchlistHistory,
			},
		},
	}
}

// setupCommand writes a config file and prepares the configured backend.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize watchlist storage",
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command for interactive movie browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"explore", "ui"},
		Usage:   "Launch the interactive movie explorer",
		Action:  r.TUI,
	}
}
