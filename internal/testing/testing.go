// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/shared"
)

// MockCatalog is a test double for [services.Catalog] that records calls and returns canned results.
type MockCatalog struct {
	mu sync.Mutex

	TrendingMovies []models.Movie
	TrendingErr    error
	SearchMovies   []models.Movie
	SearchErr      error

	// Block, when non-nil, is received from before every call returns.
	Block chan struct{}

	TrendingCalls int
	SearchQueries []string
}

func (m *MockCatalog) Trending(ctx context.Context) ([]models.Movie, error) {
	m.mu.Lock()
	m.TrendingCalls++
	movies, err := m.TrendingMovies, m.TrendingErr
	m.mu.Unlock()

	m.wait()
	return movies, err
}

func (m *MockCatalog) Search(ctx context.Context, query string) ([]models.Movie, error) {
	m.mu.Lock()
	m.SearchQueries = append(m.SearchQueries, query)
	movies, err := m.SearchMovies, m.SearchErr
	m.mu.Unlock()

	m.wait()
	return movies, err
}

func (m *MockCatalog) wait() {
	if m.Block != nil {
		<-m.Block
	}
}

// Calls returns the number of trending calls and a copy of the search queries seen so far.
func (m *MockCatalog) Calls() (int, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.TrendingCalls, append([]string(nil), m.SearchQueries...)
}

// SampleMovies returns a small fixed catalog page.
func SampleMovies() []models.Movie {
	return []models.Movie{
		{
			ID:          438631,
			Title:       "Dune",
			PosterPath:  "/d5NXSklXo0qyIYkgV94XAgMIckC.jpg",
			VoteAverage: 7.8,
			VoteCount:   9876,
			ReleaseDate: "2021-09-15",
			GenreIDs:    []int{878, 12},
			Overview:    "Paul Atreides, a brilliant and gifted young man...",
		},
		{
			ID:          550,
			Title:       "Fight Club",
			VoteAverage: 8.4,
			VoteCount:   27000,
			ReleaseDate: "1999-10-15",
			GenreIDs:    []int{18},
		},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MockLookup is a test double for [services.MovieLookup] backed by a map.
type MockLookup struct {
	Movies map[int]models.Movie
	Err    error
}

func (m *MockLookup) MovieDetails(ctx context.Context, id int) (*models.Movie, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	movie, ok := m.Movies[id]
	if !ok {
		return nil, fmt.Errorf("%w: status 404: The resource you requested could not be found.", shared.ErrAPIRequest)
	}
	return &movie, nil
}
