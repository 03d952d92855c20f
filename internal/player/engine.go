package player

import (
	"context"
	"math"

	"github.com/desertthunder/ytplay/internal/events"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/state"
)

// Load makes track the active track and assigns it to the resource.
//
// A track without an audio URL is rejected with [shared.ErrInvalidTrack] and nothing changes.
func (c *Controller) Load(track *models.Track, autoplay bool) error {
	if err := track.Validate(); err != nil {
		c.logger.Error("cannot load track", "err", err)
		return err
	}

	c.cancelResume()
	c.current = track
	c.resource.SetSource(track.AudioURL)
	c.position = 0
	c.playing = false
	c.lastPersisted = -1

	c.view.RenderTrack(track)
	c.view.RenderPlayState(false)
	c.view.RenderProgress(0, 0)
	c.view.RenderDuration(track.Duration)

	c.store.Save(state.KeyLastTrack, track)
	c.store.Save(state.KeyLastPosition, 0)

	c.bus.Emit(events.Event{Kind: events.TrackChange, TrackID: track.ID, Playing: false, Track: track})
	c.notifyPlay(track.ID)

	c.logger.Debug("loaded track", "id", track.ID, "title", track.Title, "autoplay", autoplay)

	if autoplay {
		c.Play()
	}
	return nil
}

// Play requests playback. It is a no-op without an active track and source; a rejected request is
// logged and leaves the session paused.
func (c *Controller) Play() {
	if c.current == nil || c.resource.Source() == "" {
		c.logger.Debug("play ignored, nothing loaded")
		return
	}

	if err := c.resource.Play(); err != nil {
		c.logger.Warn("playback request rejected", "id", c.current.ID, "err", err)
		c.playing = false
		c.view.RenderPlayState(false)
	}
}

// Pause requests the resource pause. Pausing a paused resource is harmless.
func (c *Controller) Pause() {
	c.resource.Pause()
}

// TogglePlayPause plays a paused resource and pauses a playing one.
func (c *Controller) TogglePlayPause() {
	if c.resource.Paused() {
		c.Play()
		return
	}
	c.Pause()
}

// Dispatch applies a resource event to the session.
func (c *Controller) Dispatch(ev ResourceEvent) {
	if ev.Source != "" && ev.Source != c.resource.Source() {
		c.logger.Debug("dropping stale resource event", "type", ev.Type, "source", ev.Source)
		return
	}

	switch ev.Type {
	case EventPlay:
		c.setPlaying(true)
	case EventPause:
		c.setPlaying(false)
	case EventTimeUpdate:
		c.onTimeUpdate()
	case EventLoadedMetadata:
		c.onLoadedMetadata()
	case EventEnded:
		c.onEnded()
	case EventError:
		c.logger.Error("audio resource error", "source", ev.Source, "err", ev.Err)
		c.playing = false
		c.view.RenderPlayState(false)
	default:
		c.logger.Warn("unknown resource event", "type", ev.Type)
	}
}

func (c *Controller) setPlaying(playing bool) {
	c.playing = playing
	c.view.RenderPlayState(playing)
	c.store.Save(state.KeyWasPlaying, playing)

	kind := events.Pause
	if playing {
		kind = events.Play
	}
	c.bus.Emit(events.Event{Kind: kind, TrackID: c.currentID(), Playing: playing})
}

func (c *Controller) onTimeUpdate() {
	if c.seeking {
		return
	}

	c.position = c.resource.Position()
	c.view.RenderProgress(fraction(c.position, c.Duration()), c.position)

	second := int(math.Floor(c.position))
	if second%c.persistInterval == 0 && second != c.lastPersisted {
		c.lastPersisted = second
		c.store.Save(state.KeyLastPosition, c.position)
	}
}

func (c *Controller) onLoadedMetadata() {
	c.view.RenderDuration(c.Duration())
	if c.pending != nil {
		c.completeResume()
	}
}

func (c *Controller) onEnded() {
	if c.repeat {
		c.resource.Seek(0)
		c.position = 0
		c.view.RenderProgress(0, 0)
		c.Play()
		return
	}

	if err := c.Advance(); err != nil {
		c.logger.Error("cannot advance after track end", "err", err)
	}
}

// BeforeUnload writes the position and playing flag so a later [Controller.Start] can resume.
//
// A resume still in progress keeps the pair it was restoring.
func (c *Controller) BeforeUnload() {
	if c.current == nil {
		return
	}

	position, playing := c.resource.Position(), c.playing
	switch {
	case c.pending != nil:
		position, playing = c.pending.position, c.pending.play
	case c.resumeTimer != nil:
		playing = true
	}

	c.position = position
	c.store.Save(state.KeyLastPosition, position)
	c.store.Save(state.KeyWasPlaying, playing)
}

// SetVolume sets the gain, clamped to [0, 1]. Zero mutes.
func (c *Controller) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	c.volume = min(1, max(0, v))
	c.muted = c.volume == 0
	c.applyVolume()
}

// ToggleMute mutes, or restores the volume from before muting.
func (c *Controller) ToggleMute() {
	if c.muted {
		c.volume = c.previousVolume
		c.muted = false
	} else {
		c.previousVolume = c.volume
		c.volume = 0
		c.muted = true
	}
	c.applyVolume()
}

func (c *Controller) applyVolume() {
	c.resource.SetVolume(c.volume)
	c.view.RenderVolume(c.volume, c.muted)
	c.bus.Emit(events.Event{
		Kind:    events.VolumeChange,
		TrackID: c.currentID(),
		Playing: c.playing,
		Volume:  c.volume,
		Muted:   c.muted,
	})
}

// Seek moves the resource to seconds, clamped to [0, duration].
func (c *Controller) Seek(seconds float64) {
	if c.current == nil || math.IsNaN(seconds) {
		return
	}

	seconds = max(0, seconds)
	d := c.Duration()
	if validDuration(d) {
		seconds = min(seconds, d)
	}

	c.resource.Seek(seconds)
	c.position = seconds
	c.view.RenderProgress(fraction(seconds, d), seconds)
}

// SeekFraction seeks to f of the duration.
func (c *Controller) SeekFraction(f float64) {
	d := c.Duration()
	if !validDuration(d) {
		return
	}
	c.Seek(min(1, max(0, f)) * d)
}

// BeginSeek suppresses position-driven progress rendering while a scrub is active.
func (c *Controller) BeginSeek() { c.seeking = true }

// EndSeek re-enables progress rendering.
func (c *Controller) EndSeek() { c.seeking = false }

func (c *Controller) notifyPlay(id models.TrackID) {
	if c.notifier == nil || id == "" {
		return
	}

	notifier, timeout, logger := c.notifier, c.notifyTimeout, c.logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := notifier.NotifyPlay(ctx, id); err != nil {
			logger.Warn("play notification failed", "id", id, "err", err)
		}
	}()
}

func (c *Controller) currentID() models.TrackID {
	if c.current == nil {
		return ""
	}
	return c.current.ID
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}

func fraction(position, duration float64) float64 {
	if !validDuration(duration) {
		return 0
	}
	return min(1, max(0, position/duration))
}
