package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	JobID   string // Export job the update belongs to
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	PreparePosters Phase = iota
	DownloadPosters
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case PreparePosters:
		return "prepare_posters"
	case DownloadPosters:
		return "download_posters"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func preparePostersUpdate(total, skipped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PreparePosters,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Downloading %d posters (%d movies without a poster)...", total, skipped),
	}
}

func posterDownloadedUpdate(step, total int, res PosterResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPosters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Title),
		Data:    res,
	}
}

func posterFailedUpdate(step, total int, res PosterResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPosters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Title, res.Error),
		Data:    res,
	}
}

func writeExportUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote %d movies to %s", count, path),
	}
}
