package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/shared"
	th "github.com/desertthunder/kinox/internal/testing"
	"gopkg.in/yaml.v3"
)

func sampleExport() *models.WatchlistExport {
	return &models.WatchlistExport{
		Name:       "kino-xplorer-watchlist",
		ExportedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Movies:     th.SampleMovies(),
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"csv":      FormatCSV,
		"MD":       FormatMarkdown,
		"markdown": FormatMarkdown,
		"text":     FormatText,
		"txt":      FormatText,
		"json":     FormatJSON,
		"yml":      FormatYAML,
		" yaml ":   FormatYAML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "ID,Title,Year,Rating,Votes,Genres,Poster" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if !strings.HasPrefix(lines[1], "438631,Dune,2021,7.8,9876,Sci-Fi|Adventure,") {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.HasPrefix(lines[2], "550,Fight Club,1999,8.4") {
			t.Errorf("rows out of order: %s", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("CDN Posters", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleExport(), Options{})
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# kino-xplorer-watchlist",
				"**Movies**: 2",
				"## 1. Dune (2021)",
				"![Poster](https://image.tmdb.org/t/p/w500/d5NXSklXo0qyIYkgV94XAgMIckC.jpg)",
				"**Rating**: 7.8/10 (9876 votes)",
				"**Genres**: Sci-Fi, Adventure",
				"**TMDB**: https://www.themoviedb.org/movie/438631",
				"## 2. Fight Club (1999)",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got: %s", want, output)
				}
			}

			if strings.Count(output, "![Poster]") != 1 {
				t.Errorf("expected a poster only for the movie that has one")
			}
			if strings.Index(output, "Dune") > strings.Index(output, "Fight Club") {
				t.Error("movies out of order")
			}
		})

		t.Run("Local Posters", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleExport(), Options{Posters: map[int]string{438631: "posters/438631.jpg"}})
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "![Poster](posters/438631.jpg)") {
				t.Errorf("Markdown missing local poster reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Watchlist: kino-xplorer-watchlist") {
			t.Errorf("Text missing watchlist name")
		}
		if !strings.Contains(output, "1. Dune (2021) ★ 7.8") {
			t.Errorf("Text missing first movie, got: %s", output)
		}
		if !strings.Contains(output, "2. Fight Club (1999) ★ 8.4") {
			t.Errorf("Text missing second movie, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded models.WatchlistExport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("JSON export does not decode: %v", err)
		}
		if len(decoded.Movies) != 2 || decoded.Movies[0].PosterPath != "/d5NXSklXo0qyIYkgV94XAgMIckC.jpg" {
			t.Errorf("unexpected movies %+v", decoded.Movies)
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(sampleExport())
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "name: kino-xplorer-watchlist") || !strings.Contains(output, "title: Fight Club") {
			t.Errorf("YAML missing fields, got: %s", output)
		}

		var decoded models.WatchlistExport
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("YAML export does not decode: %v", err)
		}
		if len(decoded.Movies) != 2 || decoded.Movies[1].ID != 550 {
			t.Errorf("unexpected movies %+v", decoded.Movies)
		}
	})

	t.Run("Render Unknown Format", func(t *testing.T) {
		if _, err := Render(Format("xml"), sampleExport(), Options{}); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Custom Path", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "watchlist.csv")

		path, err := WriteExport(FormatCSV, sampleExport(), target, Options{})
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != target {
			t.Errorf("expected %s, got %s", target, path)
		}
		th.AssertFileExists(t, path)

		if content := th.MustReadFile(t, path); !strings.Contains(content, "Fight Club") {
			t.Errorf("export file missing movie data")
		}
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "missing", "watchlist.txt")
		if _, err := WriteExport(FormatText, sampleExport(), target, Options{}); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

func TestPosterFilename(t *testing.T) {
	movies := th.SampleMovies()
	if got := PosterFilename(movies[0]); got != "438631.jpg" {
		t.Errorf("unexpected filename %s", got)
	}
	if got := PosterFilename(models.Movie{ID: 7, PosterPath: "/x.png"}); got != "7.png" {
		t.Errorf("unexpected filename %s", got)
	}
	if got := PosterFilename(movies[1]); got != "550.jpg" {
		t.Errorf("unexpected filename %s", got)
	}
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), ""); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpegbytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(context.Background(), server.URL+"/w500/x.jpg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "jpegbytes" {
			t.Errorf("unexpected body %q", data)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(context.Background(), server.URL+"/missing.jpg"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
