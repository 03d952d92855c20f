package ui

import (
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/player"
	"github.com/desertthunder/ytplay/internal/scrub"
)

var _ player.View = (*Screen)(nil)

// Screen is the player's view binding. The controller writes into it and [Model.View] reads it.
type Screen struct {
	track    *models.Track
	playing  bool
	position float64
	duration float64
	volume   float64
	muted    bool
	shuffle  bool
	repeat   bool

	preview    float64
	previewing bool

	seek *scrub.Bar
	vol  *scrub.Bar
}

// NewScreen creates a [Screen] with unplaced progress and volume bars.
func NewScreen() *Screen {
	s := &Screen{
		seek: scrub.NewBar(0, 0, scrub.CommitOnRelease),
		vol:  scrub.NewBar(0, 0, scrub.CommitLive),
	}
	// Terminal cells are far coarser than pixels.
	s.seek.Gesture.MinDistance = 2
	s.vol.Gesture.MinDistance = 2
	return s
}

func (s *Screen) RenderTrack(t *models.Track) { s.track = t }

func (s *Screen) RenderPlayState(playing bool) { s.playing = playing }

func (s *Screen) RenderProgress(fraction, position float64) {
	s.position = position
	s.seek.SetValue(fraction)
}

func (s *Screen) RenderDuration(seconds float64) { s.duration = seconds }

func (s *Screen) RenderVolume(volume float64, muted bool) {
	s.volume, s.muted = volume, muted
	s.vol.SetValue(volume)
}

func (s *Screen) RenderModes(shuffle, repeat bool) { s.shuffle, s.repeat = shuffle, repeat }

// Track returns the rendered track, or nil.
func (s *Screen) Track() *models.Track { return s.track }

// Playing reports the rendered play state.
func (s *Screen) Playing() bool { return s.playing }

// Progress returns the displayed progress fraction, which follows the pointer during a drag.
func (s *Screen) Progress() float64 { return s.seek.Value() }

// Elapsed returns the time label for the progress bar.
func (s *Screen) Elapsed() float64 {
	if s.seek.Active() {
		return s.seek.Value() * s.duration
	}
	return s.position
}
