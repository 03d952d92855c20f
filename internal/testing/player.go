package testing

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/player"
)

// FakeResource is a scriptable [player.Resource]. Tests drive playback with [FakeResource.LoadMetadata],
// [FakeResource.Tick] and [FakeResource.End], then run the queued events through the controller.
type FakeResource struct {
	mu       sync.Mutex
	source   string
	paused   bool
	position float64
	duration float64
	volume   float64
	events   chan player.ResourceEvent

	PlayErr error     // returned by Play when set
	Seeks   []float64 // every Seek call
	Plays   int       // successful Play calls
}

func NewFakeResource() *FakeResource {
	return &FakeResource{paused: true, volume: 1, events: make(chan player.ResourceEvent, 128)}
}

func (r *FakeResource) SetSource(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = url
	r.paused = true
	r.position = 0
	r.duration = 0
}

func (r *FakeResource) Source() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}

func (r *FakeResource) Play() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.PlayErr != nil {
		return r.PlayErr
	}
	r.Plays++
	if r.paused {
		r.paused = false
		r.emit(player.EventPlay)
	}
	return nil
}

func (r *FakeResource) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.paused {
		r.paused = true
		r.emit(player.EventPause)
	}
}

func (r *FakeResource) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

func (r *FakeResource) Position() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position
}

func (r *FakeResource) Duration() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duration
}

func (r *FakeResource) Seek(seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.position = seconds
	r.Seeks = append(r.Seeks, seconds)
}

func (r *FakeResource) SetVolume(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = v
}

// Volume returns the last gain written by the controller.
func (r *FakeResource) Volume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volume
}

func (r *FakeResource) Events() <-chan player.ResourceEvent { return r.events }

// LoadMetadata makes the duration known and emits loadedmetadata.
func (r *FakeResource) LoadMetadata(duration float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.duration = duration
	r.emit(player.EventLoadedMetadata)
}

// Tick moves the position without recording a seek and emits timeupdate.
func (r *FakeResource) Tick(position float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.position = position
	r.emit(player.EventTimeUpdate)
}

// End plays to the end: pause then ended.
func (r *FakeResource) End() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.position = r.duration
	r.paused = true
	r.emit(player.EventPause)
	r.emit(player.EventEnded)
}

// Fail emits an error event.
func (r *FakeResource) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
	r.events <- player.ResourceEvent{Type: player.EventError, Source: r.source, Err: err}
}

// Emit queues an arbitrary event, e.g. one carrying a stale source.
func (r *FakeResource) Emit(ev player.ResourceEvent) { r.events <- ev }

func (r *FakeResource) emit(t player.EventType) {
	r.events <- player.ResourceEvent{Type: t, Source: r.source}
}

// FakeClock is a manual [player.Clock].
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) player.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock and fires due timers in order on the calling goroutine.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	remaining := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case !t.at.After(c.now):
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining
	c.mu.Unlock()

	for _, t := range due {
		t.stopped = true
		t.f()
	}
}

// Pending returns the number of armed timers.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// RecordingView is a [player.View] that remembers what it rendered.
type RecordingView struct {
	Track    *models.Track
	Tracks   int
	Playing  bool
	Fraction float64
	Time     float64
	Progress int
	Duration float64
	Volume   float64
	Muted    bool
	Shuffle  bool
	Repeat   bool
}

func (v *RecordingView) RenderTrack(t *models.Track)  { v.Track = t; v.Tracks++ }
func (v *RecordingView) RenderPlayState(playing bool) { v.Playing = playing }
func (v *RecordingView) RenderProgress(fraction, position float64) {
	v.Fraction, v.Time = fraction, position
	v.Progress++
}
func (v *RecordingView) RenderDuration(seconds float64)          { v.Duration = seconds }
func (v *RecordingView) RenderVolume(volume float64, muted bool) { v.Volume, v.Muted = volume, muted }
func (v *RecordingView) RenderModes(shuffle, repeat bool)        { v.Shuffle, v.Repeat = shuffle, repeat }

// FakeNotifier records play notifications.
type FakeNotifier struct {
	mu       sync.Mutex
	ids      []models.TrackID
	Err      error
	notified chan models.TrackID
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{notified: make(chan models.TrackID, 64)}
}

func (n *FakeNotifier) NotifyPlay(ctx context.Context, id models.TrackID) error {
	n.mu.Lock()
	n.ids = append(n.ids, id)
	n.mu.Unlock()

	select {
	case n.notified <- id:
	default:
	}
	return n.Err
}

// Notified delivers every notified id.
func (n *FakeNotifier) Notified() <-chan models.TrackID { return n.notified }

// IDs returns the notified ids in call order.
func (n *FakeNotifier) IDs() []models.TrackID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.TrackID(nil), n.ids...)
}

// FixedRand always returns the same index, clamped to n.
type FixedRand int

func (r FixedRand) IntN(n int) int { return min(int(r), n-1) }
