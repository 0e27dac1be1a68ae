package services

import (
	"fmt"
	"strings"
)

const (
	// DefaultImageBaseURL is the TMDB image CDN root.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"

	PosterSize   = "w500"
	BackdropSize = "original"

	// PosterPlaceholder is shown in place of a poster URL when the record has no poster path.
	PosterPlaceholder = "no poster"
	// BackdropPlaceholder is shown in place of a backdrop URL when the record has no backdrop path.
	BackdropPlaceholder = "no backdrop"

	moviePageURL = "https://www.themoviedb.org/movie/%d"
)

// Images builds CDN URLs from the path fragments returned by the catalog.
type Images struct {
	BaseURL string
}

// NewImages returns an Images for baseURL, falling back to [DefaultImageBaseURL].
func NewImages(baseURL string) Images {
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	return Images{BaseURL: strings.TrimRight(baseURL, "/")}
}

// URL joins the base, size and path. It returns "" when path is empty.
func (i Images) URL(size, path string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return i.BaseURL + "/" + size + path
}

// Poster returns the poster URL or [PosterPlaceholder].
func (i Images) Poster(path string) string {
	if u := i.URL(PosterSize, path); u != "" {
		return u
	}
	return PosterPlaceholder
}

// Backdrop returns the backdrop URL or [BackdropPlaceholder].
func (i Images) Backdrop(path string) string {
	if u := i.URL(BackdropSize, path); u != "" {
		return u
	}
	return BackdropPlaceholder
}

// MoviePageURL returns the public TMDB web page for a movie.
func MoviePageURL(id int) string {
	return fmt.Sprintf(moviePageURL, id)
}
