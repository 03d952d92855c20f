package audio

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/player"
	"github.com/desertthunder/ytplay/internal/shared"
)

// testSink collects streamers instead of playing them.
type testSink struct {
	sync.Mutex
	streamers []beep.Streamer
	cleared   int
}

func (s *testSink) Play(st ...beep.Streamer) { s.streamers = append(s.streamers, st...) }
func (s *testSink) Clear()                   { s.streamers = nil; s.cleared++ }

// drain streams everything queued, as the speaker would.
func (s *testSink) drain() {
	s.Lock()
	defer s.Unlock()

	buf := make([][2]float64, 1024)
	for _, st := range s.streamers {
		for {
			if _, ok := st.Stream(buf); !ok {
				break
			}
		}
	}
	s.streamers = nil
}

func writeWAV(t *testing.T, seconds float64) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("failed to create wav: %v", err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(int(seconds*8000)), format); err != nil {
		t.Fatalf("failed to encode wav: %v", err)
	}
	return p
}

func waitFor(t *testing.T, ch <-chan player.ResourceEvent, want player.EventType) player.ResourceEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
			return player.ResourceEvent{}
		}
	}
}

func TestSimulated(t *testing.T) {
	t.Run("plays through to the end", func(t *testing.T) {
		sim := NewSimulated(func(string) float64 { return 10 }, 2)

		if err := sim.Play(); !errors.Is(err, shared.ErrNoSource) {
			t.Errorf("expected ErrNoSource without a source, got %v", err)
		}

		sim.SetSource("a.mp3")
		if ev := <-sim.Events(); ev.Type != player.EventLoadedMetadata || ev.Source != "a.mp3" {
			t.Errorf("expected loadedmetadata for a.mp3, got %+v", ev)
		}
		if sim.Duration() != 10 {
			t.Errorf("expected duration 10, got %v", sim.Duration())
		}

		sim.Advance(time.Second)
		if sim.Position() != 0 {
			t.Error("paused resource must not advance")
		}

		_ = sim.Play()
		if ev := <-sim.Events(); ev.Type != player.EventPlay {
			t.Errorf("expected play, got %v", ev.Type)
		}

		sim.Advance(2 * time.Second)
		if ev := <-sim.Events(); ev.Type != player.EventTimeUpdate || sim.Position() != 4 {
			t.Errorf("expected timeupdate at 4s, got %v at %v", ev.Type, sim.Position())
		}

		sim.Advance(10 * time.Second)
		if ev := <-sim.Events(); ev.Type != player.EventPause {
			t.Errorf("expected pause at end, got %v", ev.Type)
		}
		if ev := <-sim.Events(); ev.Type != player.EventEnded {
			t.Errorf("expected ended, got %v", ev.Type)
		}
		if !sim.Paused() || sim.Position() != 10 {
			t.Errorf("expected paused at 10, got %v", sim.Position())
		}

		_ = sim.Play()
		if sim.Position() != 0 {
			t.Errorf("playing an ended source restarts it, got %v", sim.Position())
		}
	})

	t.Run("default duration and seek clamp", func(t *testing.T) {
		sim := NewSimulated(nil, 0)
		sim.SetSource("b.mp3")
		if sim.Duration() != DefaultDuration {
			t.Errorf("expected default duration, got %v", sim.Duration())
		}

		sim.Seek(1000)
		if sim.Position() != DefaultDuration {
			t.Errorf("expected seek clamped to duration, got %v", sim.Position())
		}
		sim.Seek(-5)
		if sim.Position() != 0 {
			t.Errorf("expected seek clamped to 0, got %v", sim.Position())
		}
	})

	t.Run("drives a controller", func(t *testing.T) {
		sim := NewSimulated(func(string) float64 { return 3 }, 1)
		c, err := player.New(player.Options{Resource: sim})
		if err != nil {
			t.Fatalf("failed to create controller: %v", err)
		}

		tracks := []models.Track{
			{ID: "1", Title: "One", AudioURL: "sim://1"},
			{ID: "2", Title: "Two", AudioURL: "sim://2"},
		}
		if err := c.LoadQueue(tracks, 0, models.FeedTag("trending")); err != nil {
			t.Fatalf("LoadQueue failed: %v", err)
		}
		c.Drain()
		if !c.IsPlaying() {
			t.Fatal("expected playback to start")
		}

		for range 4 {
			sim.Advance(time.Second)
			c.Drain()
		}

		if c.CurrentIndex() != 1 || !c.IsPlaying() {
			t.Errorf("expected auto-advance to the second track, got index %d", c.CurrentIndex())
		}
		if sim.Volume() != 1 {
			t.Errorf("expected controller to set volume, got %v", sim.Volume())
		}
	})
}

func TestSpeaker(t *testing.T) {
	t.Run("loads local wav and plays to the end", func(t *testing.T) {
		out := &testSink{}
		s := newSpeaker(out, DefaultSampleRate, time.Hour, nil, nil)
		defer s.Close()

		src := writeWAV(t, 2)

		if err := s.Play(); !errors.Is(err, shared.ErrNoSource) {
			t.Errorf("expected ErrNoSource, got %v", err)
		}

		s.SetSource(src)
		if err := s.Play(); err != nil {
			t.Fatalf("Play while loading: %v", err)
		}

		waitFor(t, s.Events(), player.EventLoadedMetadata)
		if ev := waitFor(t, s.Events(), player.EventPlay); ev.Source != src {
			t.Errorf("expected play for %s, got %s", src, ev.Source)
		}

		if d := s.Duration(); math.Abs(d-2) > 0.01 {
			t.Errorf("expected duration 2s, got %v", d)
		}

		s.Seek(1.5)
		if p := s.Position(); math.Abs(p-1.5) > 0.01 {
			t.Errorf("expected position 1.5, got %v", p)
		}

		s.SetVolume(0.5)
		if s.volume == nil || s.volume.Volume != -1 || s.volume.Silent {
			t.Errorf("expected volume exponent -1, got %+v", s.volume)
		}

		out.drain()
		waitFor(t, s.Events(), player.EventEnded)
		if !s.Paused() {
			t.Error("expected paused after end")
		}

		if err := s.Play(); err != nil {
			t.Fatalf("replay failed: %v", err)
		}
		if p := s.Position(); p != 0 {
			t.Errorf("expected replay from 0, got %v", p)
		}
	})

	t.Run("fetches over http", func(t *testing.T) {
		src := writeWAV(t, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "audio/wav")
			http.ServeFile(w, r, src)
		}))
		defer srv.Close()

		s := newSpeaker(&testSink{}, DefaultSampleRate, time.Hour, srv.Client(), nil)
		defer s.Close()

		s.SetSource(srv.URL + "/stream/42")
		waitFor(t, s.Events(), player.EventLoadedMetadata)
		if d := s.Duration(); math.Abs(d-1) > 0.01 {
			t.Errorf("expected duration 1s, got %v", d)
		}
	})

	t.Run("reports load failures", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		s := newSpeaker(&testSink{}, DefaultSampleRate, time.Hour, srv.Client(), nil)
		defer s.Close()

		s.SetSource(srv.URL + "/a.mp3")
		if ev := waitFor(t, s.Events(), player.EventError); !errors.Is(ev.Err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", ev.Err)
		}

		s.SetSource(filepath.Join(t.TempDir(), "song.flac"))
		waitFor(t, s.Events(), player.EventError)
	})

	t.Run("pause before load cancels the play request", func(t *testing.T) {
		out := &testSink{}
		s := newSpeaker(out, DefaultSampleRate, time.Hour, nil, nil)
		defer s.Close()

		s.SetSource(writeWAV(t, 1))
		_ = s.Play()
		s.Pause()

		waitFor(t, s.Events(), player.EventLoadedMetadata)
		if !s.Paused() {
			t.Error("expected resource to stay paused")
		}
	})
}

func TestMediaType(t *testing.T) {
	tt := []struct {
		src         string
		contentType string
		want        string
	}{
		{src: "https://cdn.example.com/a.mp3", want: "mp3"},
		{src: "https://cdn.example.com/a.MP3?sig=1", want: "mp3"},
		{src: "/tmp/a.wav", want: "wav"},
		{src: "https://cdn.example.com/stream/1", contentType: "audio/mpeg", want: "mp3"},
		{src: "https://cdn.example.com/stream/1", contentType: "audio/x-wav; charset=binary", want: "wav"},
		{src: "https://cdn.example.com/a.flac", want: ""},
		{src: "https://cdn.example.com/stream/1", want: ""},
	}

	for _, tc := range tt {
		if got := mediaType(tc.src, tc.contentType); got != tc.want {
			t.Errorf("mediaType(%q, %q) = %q, want %q", tc.src, tc.contentType, got, tc.want)
		}
	}
}

func TestGainToVolume(t *testing.T) {
	if gainToVolume(1) != 0 || gainToVolume(0.25) != -2 || gainToVolume(0) != 0 {
		t.Error("unexpected gain conversion")
	}
}
