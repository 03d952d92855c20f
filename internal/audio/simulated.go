package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/ytplay/internal/player"
	"github.com/desertthunder/ytplay/internal/shared"
)

// DefaultDuration is used by [Simulated] when a source's duration is unknown.
const DefaultDuration = 180.0

// Simulated plays nothing; its position advances with [Simulated.Advance] or [Simulated.Run].
type Simulated struct {
	mu       sync.Mutex
	source   string
	paused   bool
	position float64
	duration float64
	volume   float64
	events   chan player.ResourceEvent

	lookup func(url string) float64
	rate   float64
}

// NewSimulated creates a [Simulated] resource. lookup reports the duration of a source in seconds;
// rate speeds up playback (1 is real time).
func NewSimulated(lookup func(url string) float64, rate float64) *Simulated {
	if rate <= 0 {
		rate = 1
	}
	return &Simulated{
		paused: true,
		volume: 1,
		events: make(chan player.ResourceEvent, 256),
		lookup: lookup,
		rate:   rate,
	}
}

func (s *Simulated) SetSource(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.source = url
	s.paused = true
	s.position = 0
	s.duration = 0
	if url == "" {
		return
	}

	if s.lookup != nil {
		s.duration = s.lookup(url)
	}
	if s.duration <= 0 {
		s.duration = DefaultDuration
	}
	s.emit(player.EventLoadedMetadata, nil)
}

func (s *Simulated) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *Simulated) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == "" {
		return fmt.Errorf("%w: nothing to play", shared.ErrNoSource)
	}
	if !s.paused {
		return nil
	}
	if s.position >= s.duration {
		s.position = 0
	}
	s.paused = false
	s.emit(player.EventPlay, nil)
	return nil
}

func (s *Simulated) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.paused = true
	s.emit(player.EventPause, nil)
}

func (s *Simulated) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Simulated) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *Simulated) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

func (s *Simulated) Seek(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == "" {
		return
	}
	s.position = min(max(0, seconds), s.duration)
	s.emit(player.EventTimeUpdate, nil)
}

func (s *Simulated) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
}

// Volume returns the last gain set.
func (s *Simulated) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *Simulated) Events() <-chan player.ResourceEvent { return s.events }

// Advance moves a playing resource forward by d of wall time, emitting timeupdate, or pause and
// ended when the source runs out.
func (s *Simulated) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused || s.source == "" {
		return
	}

	s.position += d.Seconds() * s.rate
	if s.position < s.duration {
		s.emit(player.EventTimeUpdate, nil)
		return
	}

	s.position = s.duration
	s.paused = true
	s.emit(player.EventPause, nil)
	s.emit(player.EventEnded, nil)
}

// Run advances the resource every tick until ctx is done.
func (s *Simulated) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Advance(tick)
		}
	}
}

// emit never blocks; a full buffer drops the event.
func (s *Simulated) emit(t player.EventType, err error) {
	select {
	case s.events <- player.ResourceEvent{Type: t, Source: s.source, Err: err}:
	default:
	}
}
