// package services defines interface Catalog for reading movies from a remote metadata API
package services

import (
	"context"

	"github.com/desertthunder/kinox/internal/models"
)

// Catalog defines the read-only operations of a remote movie catalog.
type Catalog interface {
	// Trending returns the current week's trending movies (first page).
	Trending(ctx context.Context) ([]models.Movie, error)

	// Search returns movies matching a free-text query (first page).
	Search(ctx context.Context, query string) ([]models.Movie, error)
}

// MovieLookup fetches a single movie by its catalog id.
type MovieLookup interface {
	MovieDetails(ctx context.Context, id int) (*models.Movie, error)
}
