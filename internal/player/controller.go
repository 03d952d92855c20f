package player

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ytplay/internal/events"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
	"github.com/desertthunder/ytplay/internal/state"
)

// Step is a unit of controller work produced by [Controller.Next].
type Step func()

// Controller owns the audio resource, the queue and the playback session.
type Controller struct {
	resource Resource
	store    *state.Store
	view     View
	bus      *events.Bus
	notifier PlayNotifier
	clock    Clock
	rand     Rand
	logger   *log.Logger

	restartThreshold float64
	persistInterval  int
	resumeDelay      time.Duration
	notifyTimeout    time.Duration

	queue   []models.Track
	tag     models.QueueTag
	index   int
	history []int

	current        *models.Track
	position       float64
	playing        bool
	seeking        bool
	volume         float64
	previousVolume float64
	muted          bool
	shuffle        bool
	repeat         bool

	lastPersisted int
	pending       *pendingResume
	resumeTimer   Timer

	tasks chan Step
}

// New creates a [Controller]. The queue and session start empty; call [Controller.Start] to restore
// the persisted session.
func New(opts Options) (*Controller, error) {
	if opts.Resource == nil {
		return nil, fmt.Errorf("%w: player requires an audio resource", shared.ErrInvalidInput)
	}
	opts.setDefaults()

	c := &Controller{
		resource:         opts.Resource,
		store:            opts.Store,
		view:             opts.View,
		bus:              opts.Bus,
		notifier:         opts.Notifier,
		clock:            opts.Clock,
		rand:             opts.Rand,
		logger:           shared.WithLogger(opts.Logger, "component", "player"),
		restartThreshold: opts.RestartThreshold,
		persistInterval:  opts.PersistInterval,
		resumeDelay:      opts.ResumeDelay,
		notifyTimeout:    opts.NotifyTimeout,
		volume:           opts.Volume,
		previousVolume:   opts.Volume,
		lastPersisted:    -1,
		tasks:            make(chan Step, 16),
	}

	c.resource.SetVolume(c.volume)
	return c, nil
}

// Bus returns the event feed UI fragments subscribe to.
func (c *Controller) Bus() *events.Bus { return c.bus }

// Queue returns a copy of the active queue.
func (c *Controller) Queue() []models.Track { return slices.Clone(c.queue) }

// QueueTag returns the tag of the list that fed the queue.
func (c *Controller) QueueTag() models.QueueTag { return c.tag }

// CurrentIndex returns the selected queue index.
func (c *Controller) CurrentIndex() int { return c.index }

// CurrentTrack returns the active track, or nil.
func (c *Controller) CurrentTrack() *models.Track { return c.current }

// IsPlaying reports whether the resource is playing.
func (c *Controller) IsPlaying() bool { return c.playing }

// Seeking reports whether a scrub is in progress.
func (c *Controller) Seeking() bool { return c.seeking }

// Shuffle reports whether shuffle mode is on.
func (c *Controller) Shuffle() bool { return c.shuffle }

// Repeat reports whether repeat-one mode is on.
func (c *Controller) Repeat() bool { return c.repeat }

// Volume returns the current gain in [0, 1].
func (c *Controller) Volume() float64 { return c.volume }

// Muted reports whether the volume is muted.
func (c *Controller) Muted() bool { return c.muted }

// Position returns the mirrored playback position in seconds.
func (c *Controller) Position() float64 { return c.position }

// Duration returns the resource duration, falling back to the track metadata.
func (c *Controller) Duration() float64 {
	if d := c.resource.Duration(); validDuration(d) {
		return d
	}
	if c.current != nil {
		return c.current.Duration
	}
	return 0
}

// History returns a copy of the shuffle history.
func (c *Controller) History() []int { return slices.Clone(c.history) }

// Next blocks until a step is available or ctx is done.
func (c *Controller) Next(ctx context.Context) (Step, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case ev, ok := <-c.resource.Events():
		if !ok {
			return nil, false
		}
		return func() { c.Dispatch(ev) }, true
	case step := <-c.tasks:
		return step, true
	}
}

// Run executes steps until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	for {
		step, ok := c.Next(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("%w: resource event feed closed", shared.ErrNoSource)
		}
		step()
	}
}

// Drain executes every pending step without blocking and returns how many ran.
func (c *Controller) Drain() int {
	n := 0
	for {
		select {
		case ev, ok := <-c.resource.Events():
			if !ok {
				return n
			}
			c.Dispatch(ev)
		case step := <-c.tasks:
			step()
		default:
			return n
		}
		n++
	}
}

// post queues a step from another goroutine.
func (c *Controller) post(step Step) {
	select {
	case c.tasks <- step:
	default:
		c.logger.Warn("task queue full, dropping step")
	}
}
