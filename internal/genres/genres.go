// Package genres holds the canonical TMDB movie genre table and the genre filter used by the explorer.
//
// A single table serves both the filter chips ([Filterable]) and name lookups in the details view ([Name]), so the
// two can never disagree about an id.
package genres

import (
	"slices"

	"github.com/desertthunder/kinox/internal/models"
)

// Unknown is displayed for genre ids missing from the table.
const Unknown = "Unknown"

// Genre is a compiled-in (id, name) pair. Filterable genres are offered as filter chips.
type Genre struct {
	ID         int
	Name       string
	Filterable bool
}

var table = []Genre{
	{ID: 28, Name: "Action", Filterable: true},
	{ID: 12, Name: "Adventure", Filterable: true},
	{ID: 16, Name: "Animation", Filterable: true},
	{ID: 35, Name: "Comedy", Filterable: true},
	{ID: 80, Name: "Crime", Filterable: true},
	{ID: 99, Name: "Documentary"},
	{ID: 18, Name: "Drama", Filterable: true},
	{ID: 10751, Name: "Family"},
	{ID: 14, Name: "Fantasy", Filterable: true},
	{ID: 36, Name: "History"},
	{ID: 27, Name: "Horror", Filterable: true},
	{ID: 10402, Name: "Music"},
	{ID: 9648, Name: "Mystery"},
	{ID: 10749, Name: "Romance", Filterable: true},
	{ID: 878, Name: "Sci-Fi", Filterable: true},
	{ID: 10770, Name: "TV Movie"},
	{ID: 53, Name: "Thriller", Filterable: true},
	{ID: 10752, Name: "War"},
	{ID: 37, Name: "Western"},
}

var byID = func() map[int]Genre {
	m := make(map[int]Genre, len(table))
	for _, g := range table {
		m[g.ID] = g
	}
	return m
}()

// All returns a copy of the full table in display order.
func All() []Genre { return slices.Clone(table) }

// Filterable returns the chip subset of the table, in table order.
func Filterable() []Genre {
	var out []Genre
	for _, g := range table {
		if g.Filterable {
			out = append(out, g)
		}
	}
	return out
}

// Lookup returns the genre with the given id.
func Lookup(id int) (Genre, bool) {
	g, ok := byID[id]
	return g, ok
}

// Name resolves id to its display name, or [Unknown].
func Name(id int) string {
	if g, ok := byID[id]; ok {
		return g.Name
	}
	return Unknown
}

// Names resolves every id in ids, preserving order.
func Names(ids []int) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = Name(id)
	}
	return names
}

// Selection is the set of active filter genre ids, kept in the order they were selected.
type Selection []int

// Has reports whether id is selected.
func (s Selection) Has(id int) bool { return slices.Contains(s, id) }

// Toggle returns a new selection with id added when absent or removed when present. s is not modified.
func Toggle(id int, s Selection) Selection {
	if s.Has(id) {
		out := make(Selection, 0, len(s)-1)
		for _, v := range s {
			if v != id {
				out = append(out, v)
			}
		}
		return out
	}

	out := make(Selection, len(s), len(s)+1)
	copy(out, s)
	return append(out, id)
}

// Matches reports whether a movie with genreIDs passes the filter: always when s is empty, otherwise when at
// least one of its genres is selected.
func Matches(genreIDs []int, s Selection) bool {
	if len(s) == 0 {
		return true
	}
	for _, id := range genreIDs {
		if s.Has(id) {
			return true
		}
	}
	return false
}

// Filter returns the movies that pass [Matches], in their original order. An empty selection returns movies unchanged.
func Filter(movies []models.Movie, s Selection) []models.Movie {
	if len(s) == 0 {
		return movies
	}

	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if Matches(m.GenreIDs, s) {
			out = append(out, m)
		}
	}
	return out
}
