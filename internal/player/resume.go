package player

import (
	"slices"

	"github.com/desertthunder/ytplay/internal/events"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/state"
)

type pendingResume struct {
	track    *models.Track
	position float64
	play     bool
}

// Start restores the persisted mode flags and shuffle history, then resumes the last session.
//
// The saved track is assigned to the resource right away; seeking to the saved position and
// restarting playback wait for its metadata (see [EventLoadedMetadata]).
func (c *Controller) Start() {
	c.shuffle = state.Load(c.store, state.KeyShuffle, false)
	c.repeat = state.Load(c.store, state.KeyRepeat, false)
	c.history = state.Load(c.store, state.KeyHistory, []int{})

	c.view.RenderModes(c.shuffle, c.repeat)
	c.view.RenderVolume(c.volume, c.muted)

	track := state.Load[*models.Track](c.store, state.KeyLastTrack, nil)
	if track == nil {
		return
	}
	if err := track.Validate(); err != nil {
		c.logger.Warn("ignoring persisted track", "err", err)
		return
	}

	c.current = track
	c.resume()
}

// Refresh feeds a re-fetched list into the queue without overriding a session in progress.
//
// With an active track the contents are replaced in place and the session is resumed; otherwise
// the list becomes the queue and its first track is loaded paused.
func (c *Controller) Refresh(tracks []models.Track, tag models.QueueTag) error {
	if c.current != nil {
		c.ReplaceQueuePreservingTrack(tracks, tag)
		c.Resume()
		return nil
	}

	c.queue = slices.Clone(tracks)
	c.tag = tag
	c.index = 0
	if pruned := pruneHistory(c.history, len(c.queue)); len(pruned) != len(c.history) {
		c.setHistory(pruned)
	}
	if len(tracks) == 0 {
		return nil
	}
	return c.Load(&c.queue[0], false)
}

// Resume re-runs the resume step for the active track. It does nothing while the resource still
// holds the active track.
func (c *Controller) Resume() {
	if c.current == nil || c.resource.Source() == c.current.AudioURL {
		return
	}
	c.resume()
}

func (c *Controller) resume() {
	track := c.current

	c.cancelResume()
	c.pending = &pendingResume{
		track:    track,
		position: state.Load(c.store, state.KeyLastPosition, 0.0),
		play:     state.Load(c.store, state.KeyWasPlaying, false),
	}

	c.resource.SetSource(track.AudioURL)
	c.playing = false
	c.lastPersisted = -1

	c.view.RenderTrack(track)
	c.view.RenderPlayState(false)
	c.view.RenderDuration(track.Duration)

	c.bus.Emit(events.Event{Kind: events.TrackChange, TrackID: track.ID, Playing: false, Track: track})
	c.logger.Debug("resuming session", "id", track.ID, "position", c.pending.position, "play", c.pending.play)
}

// completeResume runs once the resumed track's metadata is known.
func (c *Controller) completeResume() {
	r := c.pending
	c.pending = nil

	if r.track != c.current {
		return
	}

	if d := c.resource.Duration(); r.position > 0 && r.position < d {
		c.resource.Seek(r.position)
		c.position = r.position
		c.view.RenderProgress(fraction(r.position, d), r.position)
	}

	if !r.play {
		return
	}

	c.resumeTimer = c.clock.AfterFunc(c.resumeDelay, func() {
		c.post(func() {
			c.resumeTimer = nil
			if c.current == r.track && c.resource.Source() == r.track.AudioURL {
				c.Play()
			}
		})
	})
}

func (c *Controller) cancelResume() {
	c.pending = nil
	if c.resumeTimer != nil {
		c.resumeTimer.Stop()
		c.resumeTimer = nil
	}
}
