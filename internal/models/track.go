package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/ytplay/internal/shared"
)

// TrackID identifies a track. The API sends either numbers or strings; both decode to the same textual form.
type TrackID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *TrackID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TrackID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("track id must be a string or number: %w", err)
	}
	*id = TrackID(n.String())
	return nil
}

func (id TrackID) String() string { return string(id) }

// Track is one playable audio item with metadata and a resource URL.
type Track struct {
	ID        TrackID `json:"id"`
	Title     string  `json:"title"`
	Artist    string  `json:"artist_name,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
	AudioURL  string  `json:"audio_url"`
	Duration  float64 `json:"duration,omitempty"` // seconds
	PlayCount int     `json:"play_count,omitempty"`
}

// Validate reports whether the track can be handed to an audio resource.
func (t *Track) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil track", shared.ErrInvalidTrack)
	}
	if t.AudioURL == "" {
		return fmt.Errorf("%w: track %q has no audio url", shared.ErrInvalidTrack, t.ID)
	}
	return nil
}

// ArtistName returns the artist or a placeholder for display.
func (t *Track) ArtistName() string {
	if t.Artist == "" {
		return "Unknown Artist"
	}
	return t.Artist
}

// IndexOf returns the position of the track with id in tracks, or -1.
func IndexOf(tracks []Track, id TrackID) int {
	for i := range tracks {
		if tracks[i].ID == id {
			return i
		}
	}
	return -1
}

// QueueKind names the source a queue was built from.
type QueueKind string

const (
	QueueFeed    QueueKind = "feed"
	QueuePopular QueueKind = "popular"
	QueueArtist  QueueKind = "artist"
)

// QueueTag identifies the list that fed the active queue. Collaborators compare tags to decide
// whether a "play all" affordance should toggle playback or replace the queue.
type QueueTag struct {
	Kind QueueKind `json:"kind"`
	ID   string    `json:"id,omitempty"`
}

// FeedTag returns the tag of a generic feed (trending, popular...).
func FeedTag(name string) QueueTag { return QueueTag{Kind: QueueFeed, ID: name} }

// ArtistTag returns the tag of a queue scoped to one artist.
func ArtistTag(artistID string) QueueTag { return QueueTag{Kind: QueueArtist, ID: artistID} }

// IsZero reports whether the tag is unset.
func (t QueueTag) IsZero() bool { return t.Kind == "" && t.ID == "" }

func (t QueueTag) String() string {
	if t.ID == "" {
		return string(t.Kind)
	}
	return fmt.Sprintf("%s:%s", t.Kind, t.ID)
}

// Snapshot is the playback state persisted between runs.
type Snapshot struct {
	Track    *Track  `json:"track,omitempty"`
	Position float64 `json:"position"`
	Playing  bool    `json:"playing"`
	Shuffle  bool    `json:"shuffle"`
	Repeat   bool    `json:"repeat"`
	History  []int   `json:"history"`
}
