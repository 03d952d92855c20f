package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/ytplay/internal/shared"
)

func TestTrackID(t *testing.T) {
	tc := []struct {
		name string
		json string
		want TrackID
	}{
		{name: "string id", json: `{"id":"abc-123"}`, want: "abc-123"},
		{name: "numeric id", json: `{"id":42}`, want: "42"},
		{name: "null id", json: `{"id":null}`, want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var track Track
			if err := json.Unmarshal([]byte(tt.json), &track); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}
			if track.ID != tt.want {
				t.Errorf("ID = %q, want %q", track.ID, tt.want)
			}
		})
	}

	t.Run("rejects objects", func(t *testing.T) {
		var track Track
		if err := json.Unmarshal([]byte(`{"id":{"x":1}}`), &track); err == nil {
			t.Error("expected error for object id")
		}
	})
}

func TestTrackValidate(t *testing.T) {
	var nilTrack *Track
	if err := nilTrack.Validate(); !errors.Is(err, shared.ErrInvalidTrack) {
		t.Errorf("nil track: expected ErrInvalidTrack, got %v", err)
	}

	missing := &Track{ID: "1", Title: "No URL"}
	if err := missing.Validate(); !errors.Is(err, shared.ErrInvalidTrack) {
		t.Errorf("missing url: expected ErrInvalidTrack, got %v", err)
	}

	ok := &Track{ID: "1", Title: "Song", AudioURL: "https://cdn.example.com/1.mp3"}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid track: unexpected error %v", err)
	}
}

func TestIndexOf(t *testing.T) {
	tracks := []Track{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	if got := IndexOf(tracks, "b"); got != 1 {
		t.Errorf("IndexOf(b) = %d, want 1", got)
	}
	if got := IndexOf(tracks, "z"); got != -1 {
		t.Errorf("IndexOf(z) = %d, want -1", got)
	}
}

func TestQueueTag(t *testing.T) {
	if !(QueueTag{}).IsZero() {
		t.Error("empty tag should be zero")
	}
	if ArtistTag("7") != (QueueTag{Kind: QueueArtist, ID: "7"}) {
		t.Error("ArtistTag should build an artist tag")
	}
	if got := ArtistTag("7").String(); got != "artist:7" {
		t.Errorf("String() = %q, want artist:7", got)
	}
	if ArtistTag("7") == FeedTag("7") {
		t.Error("tags of different kinds must not be equal")
	}
}
