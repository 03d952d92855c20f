package services

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
)

// Notifier reports that a track started playing.
type Notifier interface {
	NotifyPlay(ctx context.Context, id models.TrackID) error
}

// PlayCounterStore is the local cache side of a play notification.
type PlayCounterStore interface {
	IncrementPlayCount(trackID models.TrackID) error
}

// PlayCounter fans a play notification out to the API and the local cache.
type PlayCounter struct {
	remote Notifier
	local  PlayCounterStore
	logger *log.Logger
}

// NewPlayCounter builds a [PlayCounter]. Either side may be nil.
func NewPlayCounter(remote Notifier, local PlayCounterStore, logger *log.Logger) *PlayCounter {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &PlayCounter{remote: remote, local: local, logger: logger}
}

// NotifyPlay calls the API first; the cache is updated even when the API fails.
// Tracks missing from the cache are ignored.
func (p *PlayCounter) NotifyPlay(ctx context.Context, id models.TrackID) error {
	var remoteErr error
	if p.remote != nil {
		remoteErr = p.remote.NotifyPlay(ctx, id)
	}

	if p.local != nil {
		if err := p.local.IncrementPlayCount(id); err != nil && !errors.Is(err, shared.ErrTrackNotFound) {
			p.logger.Warn("failed to update cached play count", "track", id, "error", err)
		}
	}

	return remoteErr
}
