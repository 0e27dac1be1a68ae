// TMDB v3 implementation of [Catalog]
//
// Endpoint reference: https://developer.themoviedb.org/reference/intro/getting-started
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/shared"
	"golang.org/x/oauth2"
)

const (
	// DefaultTMDBBaseURL is the TMDB v3 API root.
	DefaultTMDBBaseURL = "https://api.themoviedb.org/3"

	trendingPath = "/trending/movie/week"
	searchPath   = "/search/movie"
	moviePath    = "/movie/%d"
)

// tmdbPage is the paginated envelope shared by the trending and search endpoints.
type tmdbPage struct {
	Page         int            `json:"page"`
	Results      []models.Movie `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// tmdbGenre is a genre object as embedded in the movie details response.
type tmdbGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// tmdbMovieDetails is the /movie/{id} response. It carries genre objects instead of genre_ids.
type tmdbMovieDetails struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	PosterPath   string      `json:"poster_path"`
	BackdropPath string      `json:"backdrop_path"`
	VoteAverage  float64     `json:"vote_average"`
	VoteCount    int         `json:"vote_count"`
	ReleaseDate  string      `json:"release_date"`
	Genres       []tmdbGenre `json:"genres"`
	Overview     string      `json:"overview"`
}

func (d tmdbMovieDetails) movie() models.Movie {
	ids := make([]int, len(d.Genres))
	for i, g := range d.Genres {
		ids[i] = g.ID
	}
	return models.Movie{
		ID:           d.ID,
		Title:        d.Title,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
		VoteAverage:  d.VoteAverage,
		VoteCount:    d.VoteCount,
		ReleaseDate:  d.ReleaseDate,
		GenreIDs:     ids,
		Overview:     d.Overview,
	}
}

// tmdbError is the body TMDB returns with non-success statuses.
type tmdbError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// TMDBOptions configures a [TMDBService].
type TMDBOptions struct {
	APIKey      string
	AccessToken string // v4 read access token; takes precedence over APIKey
	BaseURL     string
	Language    string
	Timeout     time.Duration
	HTTPClient  *http.Client // base client; wrapped for bearer auth when AccessToken is set
}

// TMDBService implements [Catalog] and [MovieLookup] for The Movie Database.
type TMDBService struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
}

var (
	_ Catalog     = (*TMDBService)(nil)
	_ MovieLookup = (*TMDBService)(nil)
)

// NewTMDBService creates a TMDB client. Either APIKey or AccessToken must be set.
func NewTMDBService(opts TMDBOptions) (*TMDBService, error) {
	if opts.APIKey == "" && opts.AccessToken == "" {
		return nil, fmt.Errorf("%w: TMDB api_key or access_token is required", shared.ErrMissingCredentials)
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultTMDBBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: opts.Timeout}
	}

	client := base
	apiKey := opts.APIKey
	if opts.AccessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: opts.AccessToken,
			TokenType:   "Bearer",
		}))
		client.Timeout = base.Timeout
		apiKey = ""
	}

	return &TMDBService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     apiKey,
		language:   opts.Language,
		httpClient: client,
	}, nil
}

// Trending fetches the first page of this week's trending movies.
func (s *TMDBService) Trending(ctx context.Context) ([]models.Movie, error) {
	var page tmdbPage
	if err := s.get(ctx, trendingPath, nil, &page); err != nil {
		return nil, err
	}
	return nonNil(page.Results), nil
}

// Search fetches the first page of movies matching query. The query is sent as given.
func (s *TMDBService) Search(ctx context.Context, query string) ([]models.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", shared.ErrInvalidInput)
	}

	var page tmdbPage
	if err := s.get(ctx, searchPath, url.Values{"query": {query}}, &page); err != nil {
		return nil, err
	}
	return nonNil(page.Results), nil
}

// MovieDetails fetches one movie and converts it to the list record shape.
func (s *TMDBService) MovieDetails(ctx context.Context, id int) (*models.Movie, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: movie id must be positive, got %d", shared.ErrInvalidArgument, id)
	}

	var details tmdbMovieDetails
	if err := s.get(ctx, fmt.Sprintf(moviePath, id), nil, &details); err != nil {
		return nil, err
	}

	movie := details.movie()
	return &movie, nil
}

// get performs a GET against path and decodes the JSON body into out.
func (s *TMDBService) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if s.apiKey != "" {
		params.Set("api_key", s.apiKey)
	}
	if s.language != "" {
		params.Set("language", s.language)
	}

	fullURL := s.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	return nil
}

// statusError builds an [shared.ErrAPIRequest] error, preferring TMDB's own status message.
func statusError(code int, body []byte) error {
	var apiErr tmdbError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.StatusMessage != "" {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, code, apiErr.StatusMessage)
	}
	return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, code)
}

// redact drops the request URL (which may contain api_key) from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", strings.ToLower(urlErr.Op), urlErr.Err)
	}
	return err
}

func nonNil(movies []models.Movie) []models.Movie {
	if movies == nil {
		return []models.Movie{}
	}
	return movies
}

// ParseMovieID parses a positive integer movie id from user input.
func ParseMovieID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a movie id", shared.ErrInvalidArgument, s)
	}
	return id, nil
}
