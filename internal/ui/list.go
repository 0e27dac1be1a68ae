package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/services"
)

var _ list.DefaultItem = movieItem{}

// movieItem wraps [models.Movie] to implement [list.DefaultItem]. It is the card shown in the grid.
type movieItem struct {
	movie  models.Movie
	saved  bool
	poster string // poster URL or placeholder
}

func newMovieItem(m models.Movie, saved bool, images services.Images) movieItem {
	return movieItem{movie: m, saved: saved, poster: images.Poster(m.PosterPath)}
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	var parts []string
	if i.movie.HasRating() {
		parts = append(parts, ratingBadge(i.movie))
	}
	if year := i.movie.Year(); year != "" {
		parts = append(parts, year)
	}
	if i.poster == services.PosterPlaceholder {
		parts = append(parts, i.poster)
	} else {
		parts = append(parts, "poster: "+i.poster)
	}
	parts = append(parts, watchlistMarker(i.saved))
	return strings.Join(parts, " • ")
}

func ratingBadge(m models.Movie) string { return "★ " + m.Rating() }

func watchlistMarker(saved bool) string {
	if saved {
		return "[✓ watchlist]"
	}
	return "[+ watchlist]"
}

// movieItems builds grid items, marking the movies present in the watchlist.
func movieItems(movies []models.Movie, saved func(id int) bool, images services.Images) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = newMovieItem(m, saved(m.ID), images)
	}
	return items
}
