package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
)

// TrackCacheAdapter caches fetched track lists using [TrackRepository].
//
// Known tracks have their metadata refreshed; unknown ones are inserted.
// Duplicate inserts racing each other are silently ignored (UNIQUE constraint violations).
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack caches a single track. Tracks without an id are skipped.
func (a *TrackCacheAdapter) CacheTrack(track models.Track) error {
	if track.ID == "" {
		return nil
	}

	existing, err := a.repo.GetByTrackID(track.ID)
	switch {
	case err == nil:
		existing.SetTrack(track)
		return a.repo.Update(existing)
	case !errors.Is(err, shared.ErrTrackNotFound):
		return fmt.Errorf("failed to look up track: %w", err)
	}

	if err := a.repo.Create(models.NewCachedTrack(0, track)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// CacheTracks caches every track and returns how many were written.
// It stops at the first real failure.
func (a *TrackCacheAdapter) CacheTracks(tracks []models.Track) (int, error) {
	n := 0
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		if err := a.CacheTrack(t); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
