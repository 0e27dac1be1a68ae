package services

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/shared"
)

// FetchKind identifies which catalog operation produced the held result set.
type FetchKind int

const (
	FetchNone FetchKind = iota
	FetchTrending
	FetchSearch
)

func (k FetchKind) String() string {
	switch k {
	case FetchTrending:
		return "trending"
	case FetchSearch:
		return "search"
	default:
		return "none"
	}
}

// User-facing failure messages.
const (
	MsgTrendingFailed = "Failed to fetch movies"
	MsgSearchFailed   = "Failed to search movies"
	MsgNetworkFailed  = "Could not reach the movie catalog"
	MsgMalformed      = "Received an invalid response from the movie catalog"
	MsgGeneric        = "An error occurred"
)

// Request is a started catalog fetch. Pass it to [CatalogClient.Run] to perform it.
type Request struct {
	ID         string
	Kind       FetchKind
	Query      string
	Generation uint64
}

// CatalogState is a point-in-time copy of what the client holds.
type CatalogState struct {
	Movies     []models.Movie
	Loading    bool
	Err        string // empty when the last settled request succeeded
	Kind       FetchKind
	Query      string
	Generation uint64
}

// CatalogClient owns the result, loading and error state of the most recent catalog request.
//
// It is safe for concurrent use. Only the most recently started request may change the held state; responses to
// earlier requests are discarded when they arrive.
type CatalogClient struct {
	catalog Catalog
	logger  *log.Logger

	mu         sync.Mutex
	generation uint64
	movies     []models.Movie
	loading    bool
	errMsg     string
	kind       FetchKind
	query      string
}

// NewCatalogClient wraps catalog. A nil logger discards log output.
func NewCatalogClient(catalog Catalog, logger *log.Logger) *CatalogClient {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CatalogClient{
		catalog: catalog,
		logger:  logger,
		movies:  []models.Movie{},
	}
}

// Start marks a new request as in flight: it clears the error, sets loading and bumps the generation.
func (c *CatalogClient) Start(kind FetchKind, query string) Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.loading = true
	c.errMsg = ""
	c.kind = kind
	c.query = query

	return Request{
		ID:         shared.GenerateID(),
		Kind:       kind,
		Query:      query,
		Generation: c.generation,
	}
}

// Run performs req and applies its outcome if req is still the latest request.
//
// The returned error is the raw catalog error (nil on success), returned even when the outcome was discarded.
func (c *CatalogClient) Run(ctx context.Context, req Request) error {
	logger := c.logger.With("request_id", req.ID, "kind", req.Kind, "generation", req.Generation)
	logger.Debug("catalog request started", "query", req.Query)

	var (
		movies []models.Movie
		err    error
	)
	switch req.Kind {
	case FetchSearch:
		movies, err = c.catalog.Search(ctx, req.Query)
	default:
		movies, err = c.catalog.Trending(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Generation != c.generation {
		logger.Debug("discarding stale catalog response", "latest", c.generation)
		return err
	}

	c.loading = false
	if err != nil {
		logger.Warn("catalog request failed", "error", err)
		c.movies = []models.Movie{}
		c.errMsg = describe(req.Kind, err)
		return err
	}

	logger.Debug("catalog request settled", "results", len(movies))
	c.movies = slices.Clone(movies)
	if c.movies == nil {
		c.movies = []models.Movie{}
	}
	return nil
}

// FetchTrending replaces the held results with the trending list.
func (c *CatalogClient) FetchTrending(ctx context.Context) error {
	return c.Run(ctx, c.Start(FetchTrending, ""))
}

// SearchMovies replaces the held results with matches for query.
func (c *CatalogClient) SearchMovies(ctx context.Context, query string) error {
	return c.Run(ctx, c.Start(FetchSearch, query))
}

// Submit fetches search results for a non-blank query and the trending list otherwise.
func (c *CatalogClient) Submit(ctx context.Context, query string) error {
	return c.Run(ctx, c.StartSubmit(query))
}

// StartSubmit is the [Start] half of [Submit].
func (c *CatalogClient) StartSubmit(query string) Request {
	if strings.TrimSpace(query) == "" {
		return c.Start(FetchTrending, "")
	}
	return c.Start(FetchSearch, query)
}

// Retry repeats the last attempted kind of request, or fetches trending when nothing was attempted yet.
func (c *CatalogClient) Retry(ctx context.Context) error {
	return c.Run(ctx, c.StartRetry())
}

// StartRetry is the [Start] half of [Retry].
func (c *CatalogClient) StartRetry() Request {
	c.mu.Lock()
	kind, query := c.kind, c.query
	c.mu.Unlock()

	if kind == FetchSearch {
		return c.Start(FetchSearch, query)
	}
	return c.Start(FetchTrending, "")
}

// Snapshot returns a copy of the current state.
func (c *CatalogClient) Snapshot() CatalogState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CatalogState{
		Movies:     slices.Clone(c.movies),
		Loading:    c.loading,
		Err:        c.errMsg,
		Kind:       c.kind,
		Query:      c.query,
		Generation: c.generation,
	}
}

// describe reduces a catalog error to one user-facing message.
func describe(kind FetchKind, err error) string {
	switch {
	case errors.Is(err, shared.ErrAPIRequest):
		if kind == FetchSearch {
			return MsgSearchFailed
		}
		return MsgTrendingFailed
	case errors.Is(err, shared.ErrNetwork):
		return MsgNetworkFailed
	case errors.Is(err, shared.ErrMalformedResponse):
		return MsgMalformed
	default:
		return MsgGeneric
	}
}
