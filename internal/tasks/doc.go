// Package tasks runs watchlist exports with real-time progress reporting.
//
// # Export
//
// [ExportEngine.ExportWatchlist] writes a watchlist in one of the formatter formats. When a poster directory is
// given it first calls [ExportEngine.DownloadPosters]:
//   - movies without a poster path are skipped
//   - downloads run on a small worker pool
//   - download starts are throttled by a token bucket so the image CDN is never hammered
//   - a failed download is recorded per movie and does not abort the export
//
// Every job gets a uuid that tags its log lines and progress updates.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default so a slow reader never blocks a job.
package tasks
