package state

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
)

// failingKV rejects every write, like a browser storage over quota.
type failingKV struct{ *Memory }

func (f failingKV) Set(string, string) error { return errors.New("quota exceeded") }

func TestStore(t *testing.T) {
	t.Run("namespaces keys", func(t *testing.T) {
		kv := NewMemory()
		s := New(kv, "test:", nil)

		if err := s.Save(KeyShuffle, true); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		raw, ok, _ := kv.Get("test:shuffle")
		if !ok || raw != "true" {
			t.Errorf("expected test:shuffle=true, got %q (ok=%v)", raw, ok)
		}
	})

	t.Run("default prefix", func(t *testing.T) {
		s := New(NewMemory(), "", nil)
		if s.Key(KeyRepeat) != "player:repeat" {
			t.Errorf("Key() = %q, want player:repeat", s.Key(KeyRepeat))
		}
	})

	t.Run("Load round trips values", func(t *testing.T) {
		s := New(NewMemory(), "p:", nil)
		track := &models.Track{ID: "7", Title: "Song", AudioURL: "https://cdn/7.mp3", Duration: 200}

		s.Save(KeyLastTrack, track)
		s.Save(KeyLastPosition, 42.5)
		s.Save(KeyHistory, []int{2, 0})

		got := Load[*models.Track](s, KeyLastTrack, nil)
		if got == nil || *got != *track {
			t.Errorf("Load(last_track) = %+v, want %+v", got, track)
		}
		if pos := Load(s, KeyLastPosition, 0.0); pos != 42.5 {
			t.Errorf("Load(last_position) = %v, want 42.5", pos)
		}
		if h := Load(s, KeyHistory, []int{}); len(h) != 2 || h[0] != 2 || h[1] != 0 {
			t.Errorf("Load(history) = %v, want [2 0]", h)
		}
	})

	t.Run("Load falls back on missing and corrupt values", func(t *testing.T) {
		var buf bytes.Buffer
		kv := NewMemory()
		s := New(kv, "p:", shared.NewLogger(&buf))

		if got := Load(s, KeyRepeat, true); got != true {
			t.Errorf("missing key should return default, got %v", got)
		}

		kv.Set("p:history", "{not json")
		if got := Load(s, KeyHistory, []int{9}); len(got) != 1 || got[0] != 9 {
			t.Errorf("corrupt value should return default, got %v", got)
		}
		if !strings.Contains(buf.String(), "error loading state") {
			t.Errorf("expected corrupt value to be logged, got %q", buf.String())
		}
	})

	t.Run("failed writes are reported but not fatal", func(t *testing.T) {
		var buf bytes.Buffer
		s := New(failingKV{NewMemory()}, "p:", shared.NewLogger(&buf))

		err := s.Save(KeyWasPlaying, true)
		if !IsStorageError(err) {
			t.Errorf("expected storage error, got %v", err)
		}
		if !strings.Contains(buf.String(), "error saving state") {
			t.Errorf("expected failed write to be logged, got %q", buf.String())
		}
	})

	t.Run("Snapshot and Reset", func(t *testing.T) {
		s := New(NewMemory(), "p:", nil)
		s.Save(KeyLastTrack, models.Track{ID: "1", AudioURL: "u"})
		s.Save(KeyLastPosition, 12.0)
		s.Save(KeyWasPlaying, true)
		s.Save(KeyShuffle, true)
		s.Save(KeyRepeat, false)
		s.Save(KeyHistory, []int{1})

		snap := s.Snapshot()
		if snap.Track == nil || snap.Track.ID != "1" || snap.Position != 12 || !snap.Playing || !snap.Shuffle || snap.Repeat {
			t.Errorf("unexpected snapshot %+v", snap)
		}

		s.Reset()
		entries, err := s.Entries()
		if err != nil {
			t.Fatalf("Entries() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no entries after reset, got %v", entries)
		}

		empty := s.Snapshot()
		if empty.Track != nil || empty.History == nil {
			t.Errorf("expected empty snapshot with non-nil history, got %+v", empty)
		}
	})

	t.Run("Entries strips prefix", func(t *testing.T) {
		kv := NewMemory()
		kv.Set("other:key", "1")
		s := New(kv, "p:", nil)
		s.Save(KeyShuffle, true)

		entries, err := s.Entries()
		if err != nil {
			t.Fatalf("Entries() error = %v", err)
		}
		if len(entries) != 1 || entries["shuffle"] != "true" {
			t.Errorf("Entries() = %v", entries)
		}
		if keys := SortedKeys(map[string]string{"b": "", "a": ""}); keys[0] != "a" {
			t.Errorf("SortedKeys() = %v", keys)
		}
	})
}
