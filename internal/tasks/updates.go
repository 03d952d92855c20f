package tasks

import (
	"fmt"

	"github.com/desertthunder/ytplay/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchFeed Phase = iota
	CacheTracks
	ExportFeed
)

func (p Phase) String() string {
	switch p {
	case FetchFeed:
		return "fetch_feed"
	case CacheTracks:
		return "cache_tracks"
	case ExportFeed:
		return "export_feed"
	default:
		return ""
	}
}

func fetchingFeedUpdate(step, total int, feed models.Feed) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s...", step, total, feed.Name),
	}
}

func cachedTracksUpdate(step, total int, feed models.Feed, cached int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Cached %d tracks from %s", step, total, cached, feed.Name),
		Data:    cached,
	}
}

func feedCompletedUpdate(step, total int, res FeedResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFeed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks, %d files)", step, total, res.Feed.Name, res.TrackCount, len(res.Files)),
		Data:    res,
	}
}

func feedFailedUpdate(step, total int, res FeedResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFeed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Feed.Name, res.Error),
		Data:    res,
	}
}
