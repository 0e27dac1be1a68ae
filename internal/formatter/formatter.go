// package formatter provides functions to export watchlist data to various formats (CSV, Markdown, plain text, JSON, YAML)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/kinox/internal/genres"
	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/services"
	"github.com/desertthunder/kinox/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format in help-text order.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON, FormatYAML}

// ParseFormat accepts a format name or one of its common aliases ("markdown", "text", "yml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, s)
}

// Options tunes the Markdown export.
type Options struct {
	Images services.Images
	// Posters maps movie ids to locally downloaded poster files. Movies missing from the map link the CDN instead.
	Posters map[int]string
}

// ExportToCSV converts a WatchlistExport to CSV format with columns: ID, Title, Year, Rating, Votes, Genres, Poster
func ExportToCSV(export *models.WatchlistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "Rating", "Votes", "Genres", "Poster"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range export.Movies {
		record := []string{
			strconv.Itoa(movie.ID),
			movie.Title,
			movie.Year(),
			movie.Rating(),
			strconv.Itoa(movie.VoteCount),
			strings.Join(genres.Names(movie.GenreIDs), "|"),
			movie.PosterPath,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a WatchlistExport to Markdown with one section per movie
func ExportToMarkdown(export *models.WatchlistExport, opts Options) ([]byte, error) {
	images := opts.Images
	if images.BaseURL == "" {
		images = services.NewImages("")
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Name)
	fmt.Fprintf(&buf, "**Movies**: %d\n", len(export.Movies))
	if !export.ExportedAt.IsZero() {
		fmt.Fprintf(&buf, "**Exported**: %s\n", export.ExportedAt.Format(time.RFC3339))
	}
	buf.WriteString("\n")

	for i, movie := range export.Movies {
		heading := movie.Title
		if year := movie.Year(); year != "" {
			heading = fmt.Sprintf("%s (%s)", movie.Title, year)
		}
		fmt.Fprintf(&buf, "## %d. %s\n\n", i+1, heading)

		if file, ok := opts.Posters[movie.ID]; ok {
			fmt.Fprintf(&buf, "![Poster](%s)\n\n", file)
		} else if u := images.URL(services.PosterSize, movie.PosterPath); u != "" {
			fmt.Fprintf(&buf, "![Poster](%s)\n\n", u)
		}

		if movie.HasRating() {
			fmt.Fprintf(&buf, "**Rating**: %s/10 (%d votes)\n", movie.Rating(), movie.VoteCount)
		}
		if len(movie.GenreIDs) > 0 {
			fmt.Fprintf(&buf, "**Genres**: %s\n", strings.Join(genres.Names(movie.GenreIDs), ", "))
		}
		fmt.Fprintf(&buf, "**TMDB**: %s\n", services.MoviePageURL(movie.ID))

		if movie.Overview != "" {
			fmt.Fprintf(&buf, "\n%s\n", movie.Overview)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a WatchlistExport to plain text format
func ExportToText(export *models.WatchlistExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Watchlist: %s\n", export.Name)
	fmt.Fprintf(&buf, "Movies: %d\n\n", len(export.Movies))

	for i, movie := range export.Movies {
		line := fmt.Sprintf("%d. %s", i+1, movie.Title)
		if year := movie.Year(); year != "" {
			line += fmt.Sprintf(" (%s)", year)
		}
		if movie.HasRating() {
			line += fmt.Sprintf(" ★ %s", movie.Rating())
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a WatchlistExport to indented JSON
func ExportToJSON(export *models.WatchlistExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// ExportToYAML converts a WatchlistExport to YAML
func ExportToYAML(export *models.WatchlistExport) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(export); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Render encodes export in format.
func Render(format Format, export *models.WatchlistExport, opts Options) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export, opts)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	case FormatYAML:
		return ExportToYAML(export)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
}

// WriteExport renders export and writes it to filepath.
//
// Defaults to {export.Name}.{format} as the filename.
func WriteExport(format Format, export *models.WatchlistExport, filepath string, opts Options) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.%s", export.Name, format)
	}

	data, err := Render(format, export, opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}

// PosterFilename names the local copy of a movie's poster, keeping the CDN file extension.
func PosterFilename(movie models.Movie) string {
	ext := path.Ext(movie.PosterPath)
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%d%s", movie.ID, ext)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download image: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: failed to download image: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}
