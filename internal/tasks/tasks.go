// package tasks implements long-running watchlist operations that report progress over a channel.
package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kinox/internal/formatter"
	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/services"
	"github.com/desertthunder/kinox/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 8
	defaultRateLimit = 4.0
)

// Downloader fetches the bytes behind an image URL.
type Downloader func(ctx context.Context, url string) ([]byte, error)

// ExportOpts contains configuration for a watchlist export.
type ExportOpts struct {
	Name       string           // Watchlist name used in the document and default filename
	Format     formatter.Format // Export format
	OutputPath string           // Export file (default: {Name}.{Format})
	PosterDir  string           // Directory for downloaded posters; empty skips downloads
	NumWorkers int              // Concurrent downloads (default: 4, max: 8)
	RateLimit  float64          // Downloads started per second (default: 4)
}

// PosterResult is the outcome of one poster download.
type PosterResult struct {
	MovieID int
	Title   string
	File    string // written file, empty on failure
	Error   error
}

// ExportResult summarizes a finished export job.
type ExportResult struct {
	JobID      string
	OutputPath string
	Movies     int
	Posters    []PosterResult // in watchlist order; movies without a poster path are absent
	Downloaded int
	Failed     int
	Skipped    int // movies without a poster path
}

// ExportEngine exports watchlists, optionally downloading each movie's poster first.
type ExportEngine struct {
	images   services.Images
	download Downloader
	logger   *log.Logger
}

// NewExportEngine creates an engine. A nil download uses [formatter.DownloadImage]; a nil logger discards output.
func NewExportEngine(images services.Images, download Downloader, logger *log.Logger) *ExportEngine {
	if images.BaseURL == "" {
		images = services.NewImages("")
	}
	if download == nil {
		download = formatter.DownloadImage
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ExportEngine{images: images, download: download, logger: logger}
}

// ExportWatchlist writes movies in opts.Format. When opts.PosterDir is set, posters are downloaded first through a
// rate-limited worker pool and the Markdown export links the local copies.
//
// A failed poster download is recorded in the result and never fails the export.
func (e *ExportEngine) ExportWatchlist(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	movies []models.Movie,
	opts ExportOpts,
) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.Name == "" {
		opts.Name = "watchlist"
	}
	if opts.OutputPath == "" {
		opts.OutputPath = fmt.Sprintf("%s.%s", opts.Name, opts.Format)
	}

	result := &ExportResult{
		JobID:      shared.GenerateID(),
		OutputPath: opts.OutputPath,
		Movies:     len(movies),
	}
	logger := e.logger.With("job_id", result.JobID)

	posters := map[int]string{}
	if opts.PosterDir != "" {
		results, err := e.DownloadPosters(ctx, prog, result.JobID, movies, opts)
		if err != nil {
			return result, err
		}
		result.Posters = results
		result.Skipped = len(movies) - len(results)

		for _, res := range results {
			if res.Error != nil {
				result.Failed++
				logger.Warn("poster download failed", "movie_id", res.MovieID, "error", res.Error)
				continue
			}
			result.Downloaded++
			posters[res.MovieID] = relativeTo(opts.OutputPath, res.File)
		}
	}

	export := &models.WatchlistExport{
		Name:       opts.Name,
		ExportedAt: time.Now().UTC(),
		Movies:     movies,
	}

	path, err := formatter.WriteExport(opts.Format, export, opts.OutputPath, formatter.Options{
		Images:  e.images,
		Posters: posters,
	})
	if err != nil {
		return result, err
	}

	e.sendProgress(prog, result.JobID, writeExportUpdate(path, len(movies)))
	logger.Info("watchlist exported", "path", path, "format", opts.Format, "movies", len(movies))
	return result, nil
}

// DownloadPosters fetches the poster of every movie that has one into opts.PosterDir.
//
// Download starts are throttled to opts.RateLimit per second across all workers. Results keep watchlist order.
func (e *ExportEngine) DownloadPosters(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	jobID string,
	movies []models.Movie,
	opts ExportOpts,
) ([]PosterResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	if err := os.MkdirAll(opts.PosterDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create poster directory: %w", err)
	}

	var withPoster []models.Movie
	for _, m := range movies {
		if m.PosterPath != "" {
			withPoster = append(withPoster, m)
		}
	}
	total := len(withPoster)
	e.sendProgress(prog, jobID, preparePostersUpdate(total, len(movies)-total))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	type job struct {
		index int
		movie models.Movie
	}
	type outcome struct {
		index  int
		result PosterResult
	}

	jobs := make(chan job, total)
	outcomes := make(chan outcome, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcomes <- outcome{index: j.index, result: e.downloadPoster(ctx, j.movie, opts.PosterDir)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, m := range withPoster {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- job{index: i, movie: m}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]PosterResult, total)
	completed := 0
	for o := range outcomes {
		completed++
		results[o.index] = o.result
		if o.result.Error != nil {
			e.sendProgress(prog, jobID, posterFailedUpdate(completed, total, o.result))
		} else {
			e.sendProgress(prog, jobID, posterDownloadedUpdate(completed, total, o.result))
		}
	}

	if err := ctx.Err(); err != nil {
		return results[:0], err
	}
	return results, nil
}

func (e *ExportEngine) downloadPoster(ctx context.Context, movie models.Movie, dir string) PosterResult {
	res := PosterResult{MovieID: movie.ID, Title: movie.Title}

	data, err := e.download(ctx, e.images.URL(services.PosterSize, movie.PosterPath))
	if err != nil {
		res.Error = err
		return res
	}

	file := filepath.Join(dir, formatter.PosterFilename(movie))
	if err := os.WriteFile(file, data, 0644); err != nil {
		res.Error = fmt.Errorf("failed to save poster: %w", err)
		return res
	}

	res.File = file
	return res
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, jobID string, update ProgressUpdate) {
	if progress == nil {
		return
	}
	update.JobID = jobID
	select {
	case progress <- update:
	default:
	}
}

// relativeTo expresses file relative to the directory holding output, falling back to file itself.
func relativeTo(output, file string) string {
	rel, err := filepath.Rel(filepath.Dir(output), file)
	if err != nil {
		return file
	}
	return filepath.ToSlash(rel)
}
