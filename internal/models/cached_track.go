package models

import (
	"fmt"
	"time"
)

// CachedTrack is a [Track] stored in the local metadata cache.
type CachedTrack struct {
	id        string
	sequence  int
	track     Track
	createdAt time.Time
	updatedAt time.Time
}

// NewCachedTrack wraps track for persistence. The ID is assigned by the repository.
func NewCachedTrack(sequence int, track Track) *CachedTrack {
	now := time.Now()
	return &CachedTrack{
		sequence:  sequence,
		track:     track,
		createdAt: now,
		updatedAt: now,
	}
}

func (c *CachedTrack) ID() string           { return c.id }
func (c *CachedTrack) Sequence() int        { return c.sequence }
func (c *CachedTrack) Track() Track         { return c.track }
func (c *CachedTrack) TrackID() TrackID     { return c.track.ID }
func (c *CachedTrack) CreatedAt() time.Time { return c.createdAt }
func (c *CachedTrack) UpdatedAt() time.Time { return c.updatedAt }

func (c *CachedTrack) SetID(id string)          { c.id = id }
func (c *CachedTrack) SetSequence(seq int)      { c.sequence = seq }
func (c *CachedTrack) SetTrack(t Track)         { c.track = t }
func (c *CachedTrack) SetCreatedAt(t time.Time) { c.createdAt = t }
func (c *CachedTrack) SetUpdatedAt(t time.Time) { c.updatedAt = t }

// Validate checks the fields the cache relies on.
func (c *CachedTrack) Validate() error {
	if c.track.ID == "" {
		return fmt.Errorf("track id is required")
	}
	if c.track.Title == "" {
		return fmt.Errorf("track title is required")
	}
	return nil
}
