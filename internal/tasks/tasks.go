package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
)

// TrackSource is the API side of a feed (services.TracksService).
type TrackSource interface {
	Trending(ctx context.Context, limit int) ([]models.Track, error)
	Popular(ctx context.Context, limit int) ([]models.Track, error)
	ArtistPopular(ctx context.Context, artistID string) ([]models.Track, error)
}

// TrackCacher persists fetched tracks.
type TrackCacher interface {
	CacheTracks(tracks []models.Track) (int, error)
}

// CachedTracks lists previously cached tracks, used when the API is unreachable.
type CachedTracks func(limit int) ([]models.Track, error)

// FeedEngine fetches feeds from a [TrackSource] and keeps the local cache current.
type FeedEngine struct {
	source   TrackSource
	cache    TrackCacher
	fallback CachedTracks
	logger   *log.Logger
}

// NewFeedEngine creates a [FeedEngine]. cache and fallback may be nil.
func NewFeedEngine(source TrackSource, cache TrackCacher, fallback CachedTracks, logger *log.Logger) *FeedEngine {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &FeedEngine{
		source:   source,
		cache:    cache,
		fallback: fallback,
		logger:   shared.WithLogger(logger, "component", "feeds"),
	}
}

// Fetch returns the tracks of feed, writing them through to the cache. When the API fails and a
// fallback is configured, cached tracks are served instead.
func (e *FeedEngine) Fetch(ctx context.Context, feed models.Feed, limit int) ([]models.Track, error) {
	tracks, err := e.fetch(ctx, feed, limit)
	if err != nil {
		if e.fallback == nil {
			return nil, err
		}

		cached, cacheErr := e.fallback(limit)
		if cacheErr != nil || len(cached) == 0 {
			return nil, err
		}

		e.logger.Warn("serving cached tracks", "feed", feed.Name, "error", err)
		return cached, nil
	}

	e.cacheTracks(feed, tracks)
	return tracks, nil
}

func (e *FeedEngine) fetch(ctx context.Context, feed models.Feed, limit int) ([]models.Track, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: track source not initialized", shared.ErrServiceUnavailable)
	}

	switch feed.Tag.Kind {
	case models.QueuePopular:
		return e.source.Popular(ctx, limit)
	case models.QueueArtist:
		return e.source.ArtistPopular(ctx, feed.Tag.ID)
	default:
		return e.source.Trending(ctx, limit)
	}
}

// cacheTracks stores tracks and returns how many were written. Failures are logged only.
func (e *FeedEngine) cacheTracks(feed models.Feed, tracks []models.Track) int {
	if e.cache == nil || len(tracks) == 0 {
		return 0
	}

	n, err := e.cache.CacheTracks(tracks)
	if err != nil {
		e.logger.Warn("failed to cache tracks", "feed", feed.Name, "error", err)
	}
	return n
}

// sendProgress sends a progress update through the channel without blocking.
func (e *FeedEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
