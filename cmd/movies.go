package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/kinox/internal/genres"
	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/services"
	"github.com/desertthunder/kinox/internal/shared"
	"github.com/urfave/cli/v3"
)

// Trending lists this week's trending movies.
func (r *Runner) Trending(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	r.logger.Info("fetching trending movies")

	movies, err := catalog.Trending(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch trending movies: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Trending Movies")
	r.writeMovieList(movies)
	return nil
}

// Search lists movies matching the arguments, joined into one query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	r.logger.Info("searching movies", "query", query)

	movies, err := catalog.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to search movies: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Search Results for %q", query))
	r.writeMovieList(movies)
	return nil
}

// Movie prints the details of the movie with the given id.
func (r *Runner) Movie(ctx context.Context, cmd *cli.Command) error {
	id, err := r.movieIDArg(cmd)
	if err != nil {
		return err
	}

	lookup, err := r.lookupService()
	if err != nil {
		return err
	}

	movie, err := lookup.MovieDetails(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, cmd.Bool("pretty"))
	}

	saved := false
	if store, err := r.watchlistStore(ctx); err == nil {
		saved = store.Contains(movie.ID)
	} else {
		r.logger.Warn("watchlist unavailable", "error", err)
	}

	r.writeMovieDetails(*movie, saved)
	return nil
}

// Genres prints the genre table.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	all := genres.All()
	if cmd.Bool("json") {
		return r.writeJSON(all, cmd.Bool("pretty"))
	}

	for _, g := range all {
		marker := " "
		if g.Filterable {
			marker = "*"
		}
		r.writePlain("%s %5d  %s\n", marker, g.ID, g.Name)
	}
	return nil
}

func (r *Runner) movieIDArg(cmd *cli.Command) (int, error) {
	arg := cmd.StringArg("id")
	if arg == "" {
		return 0, fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}
	return services.ParseMovieID(arg)
}

func (r *Runner) writeMovieList(movies []models.Movie) {
	if len(movies) == 0 {
		r.writePlain("No movies found\n")
		return
	}

	r.writePlain("%d movies found\n\n", len(movies))
	for i, m := range movies {
		line := fmt.Sprintf("%2d. %s", i+1, m.Title)
		if year := m.Year(); year != "" {
			line += fmt.Sprintf(" (%s)", year)
		}
		if m.HasRating() {
			line += fmt.Sprintf(" ★ %s", m.Rating())
		}
		r.writePlain("%s\n", line)
		r.writePlain("    id: %d  genres: %s\n", m.ID, strings.Join(genres.Names(m.GenreIDs), ", "))
	}
}

func (r *Runner) writeMovieDetails(m models.Movie, saved bool) {
	images := r.images()

	title := m.Title
	if year := m.Year(); year != "" {
		title = fmt.Sprintf("%s (%s)", m.Title, year)
	}
	r.writePlainHeader(title)

	if m.HasRating() {
		r.writePlain("Rating: %s/10 (%d votes)\n", m.Rating(), m.VoteCount)
	}
	if t, ok := m.ReleaseTime(); ok {
		r.writePlain("Released: %s\n", t.Format("January 2, 2006"))
	}
	if len(m.GenreIDs) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(genres.Names(m.GenreIDs), ", "))
	}
	r.writePlain("Poster: %s\n", images.Poster(m.PosterPath))
	r.writePlain("Backdrop: %s\n", images.Backdrop(m.BackdropPath))
	r.writePlain("TMDB: %s\n", services.MoviePageURL(m.ID))

	if saved {
		r.writePlain("Watchlist: saved\n")
	} else {
		r.writePlain("Watchlist: not saved (kinox watchlist add %d)\n", m.ID)
	}

	if m.Overview != "" {
		r.writePlainln("%s", m.Overview)
	}
}
