package player

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ytplay/internal/events"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
	"github.com/desertthunder/ytplay/internal/state"
)

const (
	DefaultRestartThreshold = 3.0 // seconds
	DefaultPersistInterval  = 5   // seconds
	DefaultResumeDelay      = 300 * time.Millisecond
	DefaultNotifyTimeout    = 10 * time.Second
)

// EventType names a resource event.
type EventType string

const (
	EventPlay           EventType = "play"
	EventPause          EventType = "pause"
	EventTimeUpdate     EventType = "timeupdate"
	EventLoadedMetadata EventType = "loadedmetadata"
	EventEnded          EventType = "ended"
	EventError          EventType = "error"
)

// ResourceEvent is emitted by a [Resource]. Source is the URL the event belongs to; events for a
// source that has since been replaced are dropped.
type ResourceEvent struct {
	Type   EventType
	Source string
	Err    error
}

// Resource is the single audio resource. Position and duration are authoritative here.
//
// SetSource supersedes any pending work on the previous source and leaves the resource paused.
// Play may fail (e.g. [shared.ErrPlaybackRejected]); success is signalled by an [EventPlay].
type Resource interface {
	SetSource(url string)
	Source() string
	Play() error
	Pause()
	Paused() bool
	Position() float64
	Duration() float64 // 0 until metadata is available
	Seek(seconds float64)
	SetVolume(v float64)
	Events() <-chan ResourceEvent
}

// View renders controller state. Implementations must not call back into the controller.
type View interface {
	RenderTrack(t *models.Track)
	RenderPlayState(playing bool)
	RenderProgress(fraction, position float64)
	RenderDuration(seconds float64)
	RenderVolume(volume float64, muted bool)
	RenderModes(shuffle, repeat bool)
}

// NopView discards every render call.
type NopView struct{}

func (NopView) RenderTrack(*models.Track)       {}
func (NopView) RenderPlayState(bool)            {}
func (NopView) RenderProgress(float64, float64) {}
func (NopView) RenderDuration(float64)          {}
func (NopView) RenderVolume(float64, bool)      {}
func (NopView) RenderModes(bool, bool)          {}

// PlayNotifier is told once per track activation that playback started.
type PlayNotifier interface {
	NotifyPlay(ctx context.Context, id models.TrackID) error
}

// Timer is a pending [Clock.AfterFunc] call.
type Timer interface {
	Stop() bool
}

// Clock abstracts time for the resume delay.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Rand picks shuffled indices. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Options configures a [Controller]. Only Resource is required.
type Options struct {
	Resource Resource
	Store    *state.Store
	View     View
	Bus      *events.Bus
	Notifier PlayNotifier
	Clock    Clock
	Rand     Rand
	Logger   *log.Logger

	Volume           float64 // initial volume, 0 selects 1
	RestartThreshold float64 // seconds; Retreat rewinds past this position
	PersistInterval  int     // whole seconds between position writes
	ResumeDelay      time.Duration
	NotifyTimeout    time.Duration
}

// ConfigOptions maps the [player] config section onto [Options].
func ConfigOptions(cfg shared.PlayerConfig) Options {
	return Options{
		Volume:           cfg.DefaultVolume,
		RestartThreshold: cfg.RestartThreshold,
		PersistInterval:  cfg.PersistInterval,
		ResumeDelay:      cfg.ResumeDelay,
	}
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = shared.DiscardLogger()
	}
	if o.Store == nil {
		o.Store = state.New(state.NewMemory(), "", o.Logger)
	}
	if o.View == nil {
		o.View = NopView{}
	}
	if o.Bus == nil {
		o.Bus = events.NewBus()
	}
	if o.Clock == nil {
		o.Clock = systemClock{}
	}
	if o.Rand == nil {
		o.Rand = globalRand{}
	}
	if o.Volume <= 0 || o.Volume > 1 {
		o.Volume = 1
	}
	if o.RestartThreshold <= 0 {
		o.RestartThreshold = DefaultRestartThreshold
	}
	if o.PersistInterval <= 0 {
		o.PersistInterval = DefaultPersistInterval
	}
	if o.ResumeDelay < 0 {
		o.ResumeDelay = 0
	} else if o.ResumeDelay == 0 {
		o.ResumeDelay = DefaultResumeDelay
	}
	if o.NotifyTimeout <= 0 {
		o.NotifyTimeout = DefaultNotifyTimeout
	}
}

// VolumeLevel is the icon state of the volume button.
type VolumeLevel string

const (
	VolumeMute VolumeLevel = "mute"
	VolumeLow  VolumeLevel = "low"
	VolumeHigh VolumeLevel = "high"
)

// LevelFor returns the icon state for volume.
func LevelFor(volume float64, muted bool) VolumeLevel {
	switch {
	case muted || volume == 0:
		return VolumeMute
	case volume < 0.5:
		return VolumeLow
	default:
		return VolumeHigh
	}
}
