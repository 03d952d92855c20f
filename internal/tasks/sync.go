package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/ytplay/internal/formatter"
	"github.com/desertthunder/ytplay/internal/models"
)

// SyncOpts contains configuration for syncing several feeds.
type SyncOpts struct {
	Limit      int     // Tracks per feed for trending and popular
	Format     string  // Export format: json, csv, markdown, txt; empty skips exporting
	OutputDir  string  // Export directory (default: feeds_{epoch})
	NumWorkers int     // Concurrent workers (default: 3, max 10)
	RateLimit  float64 // Feed requests per second (default: 5)
}

// FeedResult is the outcome of syncing one feed.
type FeedResult struct {
	Feed       models.Feed `json:"feed"`
	TrackCount int         `json:"track_count"`
	Cached     int         `json:"cached"`
	Files      []string    `json:"files,omitempty"`
	Success    bool        `json:"success"`
	Error      error       `json:"-"`
	ErrorText  string      `json:"error,omitempty"`
}

// SyncResult summarizes a [FeedEngine.Sync] run.
type SyncResult struct {
	TotalFeeds      int          `json:"total_feeds"`
	SuccessfulFeeds int          `json:"successful_feeds"`
	FailedFeeds     int          `json:"failed_feeds"`
	TracksCached    int          `json:"tracks_cached"`
	Results         []FeedResult `json:"results"`
	OutputDirectory string       `json:"output_directory,omitempty"`
	ManifestPath    string       `json:"-"`
}

type syncJob struct {
	step int
	feed models.Feed
}

// Sync fetches feeds concurrently with rate limiting and progress tracking, caching every track.
//
// Requests are paced by a shared limiter and fanned out to a worker pool. A failed feed is
// recorded in the result and does not stop the others. With a Format set, each feed is exported
// and a manifest summarizing the run is written to the output directory.
func (e *FeedEngine) Sync(ctx context.Context, prog chan<- ProgressUpdate, feeds []models.Feed, opts SyncOpts) (*SyncResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if opts.Format != "" {
		if opts.OutputDir == "" {
			opts.OutputDir = fmt.Sprintf("feeds_%d", time.Now().Unix())
		}
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	result := &SyncResult{
		TotalFeeds:      len(feeds),
		OutputDirectory: opts.OutputDir,
		Results:         make([]FeedResult, 0, len(feeds)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan syncJob, len(feeds))
	results := make(chan FeedResult, len(feeds))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.syncWorker(ctx, &wg, prog, jobs, results, len(feeds), opts)
	}

	go func() {
		defer close(jobs)
		for i, feed := range feeds {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			e.sendProgress(prog, fetchingFeedUpdate(i+1, len(feeds), feed))
			jobs <- syncJob{step: i + 1, feed: feed}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		result.TracksCached += res.Cached

		if res.Success {
			result.SuccessfulFeeds++
			e.sendProgress(prog, feedCompletedUpdate(completed, len(feeds), res))
		} else {
			result.FailedFeeds++
			e.sendProgress(prog, feedFailedUpdate(completed, len(feeds), res))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if opts.Format != "" {
		manifestPath := filepath.Join(opts.OutputDir, "sync_manifest.json")
		if err := formatter.WriteManifest(result, opts.Format, manifestPath); err != nil {
			return result, fmt.Errorf("sync completed but failed to write manifest: %w", err)
		}
		result.ManifestPath = manifestPath
	}
	return result, nil
}

// syncWorker fetches, caches and exports the feeds it receives.
func (e *FeedEngine) syncWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	prog chan<- ProgressUpdate,
	jobs <-chan syncJob,
	results chan<- FeedResult,
	total int,
	opts SyncOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- e.syncFeed(ctx, prog, job, total, opts)
	}
}

func (e *FeedEngine) syncFeed(ctx context.Context, prog chan<- ProgressUpdate, job syncJob, total int, opts SyncOpts) FeedResult {
	res := FeedResult{Feed: job.feed, Files: []string{}}

	tracks, err := e.fetch(ctx, job.feed, opts.Limit)
	if err != nil {
		res.Error = fmt.Errorf("failed to fetch feed: %w", err)
		res.ErrorText = res.Error.Error()
		return res
	}
	res.TrackCount = len(tracks)

	res.Cached = e.cacheTracks(job.feed, tracks)
	e.sendProgress(prog, cachedTracksUpdate(job.step, total, job.feed, res.Cached))

	if opts.Format != "" {
		export := &models.FeedExport{Feed: job.feed, FetchedAt: time.Now().UTC(), Tracks: tracks}
		files, err := exportFeed(export, opts)
		if err != nil {
			res.Error = err
			res.ErrorText = err.Error()
			return res
		}
		res.Files = files
	}

	res.Success = true
	return res
}

// exportFeed writes export in the requested format and returns the created files.
func exportFeed(export *models.FeedExport, opts SyncOpts) ([]string, error) {
	base := filepath.Join(opts.OutputDir, export.Feed.Slug())

	switch opts.Format {
	case "csv":
		res, err := formatter.WriteCSVExport(export, base)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		return []string{res.TracksFile, res.MetadataFile}, nil

	case "markdown":
		var cover string
		if len(export.Tracks) > 0 {
			cover = export.Tracks[0].ImageURL
		}
		res, err := formatter.WriteMarkdownExport(export, base, cover)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		return res.Files, nil

	case "txt":
		path, err := formatter.WriteTextExport(export, base+"_tracks.txt")
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		return []string{path}, nil

	case "json":
		fallthrough
	default:
		path, err := formatter.WriteJSONExport(export, base+".json")
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
}
