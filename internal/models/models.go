package models

import (
	"fmt"
	"time"
)

// releaseLayout is the ISO date layout TMDB uses for release_date.
const releaseLayout = "2006-01-02"

// Movie is a catalog record as returned by the trending and search endpoints.
type Movie struct {
	ID           int     `json:"id" yaml:"id"`
	Title        string  `json:"title" yaml:"title"`
	PosterPath   string  `json:"poster_path,omitempty" yaml:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty" yaml:"backdrop_path,omitempty"`
	VoteAverage  float64 `json:"vote_average" yaml:"vote_average"`
	VoteCount    int     `json:"vote_count" yaml:"vote_count"`
	ReleaseDate  string  `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	GenreIDs     []int   `json:"genre_ids" yaml:"genre_ids"`
	Overview     string  `json:"overview,omitempty" yaml:"overview,omitempty"`
}

// ReleaseTime parses ReleaseDate. ok is false when the date is absent or not an ISO date.
func (m Movie) ReleaseTime() (t time.Time, ok bool) {
	if m.ReleaseDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(releaseLayout, m.ReleaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Year returns the four digit release year, or "" when the release date is unknown.
func (m Movie) Year() string {
	t, ok := m.ReleaseTime()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d", t.Year())
}

// HasRating reports whether the movie carries a non-zero vote average.
func (m Movie) HasRating() bool { return m.VoteAverage > 0 }

// Rating formats VoteAverage with one decimal, e.g. "7.3".
func (m Movie) Rating() string { return fmt.Sprintf("%.1f", m.VoteAverage) }

// HasGenre reports whether id is one of the movie's genres.
func (m Movie) HasGenre(id int) bool {
	for _, g := range m.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// WatchlistExport is a snapshot of a saved watchlist prepared for export.
type WatchlistExport struct {
	Name       string    `json:"name" yaml:"name"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Movies     []Movie   `json:"movies" yaml:"movies"`
}
