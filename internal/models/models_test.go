package models

import (
	"encoding/json"
	"testing"
)

func TestMovie(t *testing.T) {
	t.Run("Year", func(t *testing.T) {
		tc := []struct {
			name string
			date string
			want string
		}{
			{"iso date", "2021-10-22", "2021"},
			{"absent", "", ""},
			{"malformed", "sometime", ""},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := (Movie{ReleaseDate: tt.date}).Year(); got != tt.want {
					t.Errorf("Year() = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("Rating", func(t *testing.T) {
		m := Movie{VoteAverage: 7.264}
		if !m.HasRating() {
			t.Error("expected rating to be present")
		}
		if m.Rating() != "7.3" {
			t.Errorf("expected 7.3, got %s", m.Rating())
		}
		if (Movie{}).HasRating() {
			t.Error("zero vote average should not count as a rating")
		}
	})

	t.Run("HasGenre", func(t *testing.T) {
		m := Movie{GenreIDs: []int{28, 878}}
		if !m.HasGenre(878) || m.HasGenre(18) {
			t.Errorf("unexpected genre membership for %v", m.GenreIDs)
		}
	})

	t.Run("Decodes TMDB Record", func(t *testing.T) {
		body := `{
			"adult": false,
			"id": 438631,
			"title": "Dune",
			"poster_path": "/d5NXSklXo0qyIYkgV94XAgMIckC.jpg",
			"backdrop_path": null,
			"vote_average": 7.8,
			"vote_count": 9876,
			"release_date": "2021-09-15",
			"genre_ids": [878, 12],
			"overview": "Paul Atreides...",
			"popularity": 123.4
		}`

		var m Movie
		if err := json.Unmarshal([]byte(body), &m); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}

		if m.ID != 438631 || m.Title != "Dune" || m.VoteCount != 9876 {
			t.Errorf("unexpected movie %+v", m)
		}
		if m.BackdropPath != "" {
			t.Errorf("null backdrop should decode to empty, got %q", m.BackdropPath)
		}
		if len(m.GenreIDs) != 2 || m.GenreIDs[0] != 878 {
			t.Errorf("unexpected genre ids %v", m.GenreIDs)
		}
	})
}
