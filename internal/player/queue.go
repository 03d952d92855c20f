package player

import (
	"fmt"
	"slices"

	"github.com/desertthunder/ytplay/internal/events"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
	"github.com/desertthunder/ytplay/internal/state"
)

// LoadQueue replaces the queue and plays the track at startIndex (clamped). The shuffle history
// starts over.
func (c *Controller) LoadQueue(tracks []models.Track, startIndex int, tag models.QueueTag) error {
	c.queue = slices.Clone(tracks)
	c.tag = tag
	c.index = 0
	c.setHistory(nil)

	if len(c.queue) == 0 {
		return nil
	}

	c.index = max(0, min(startIndex, len(c.queue)-1))
	return c.Load(&c.queue[c.index], true)
}

// ReplaceQueuePreservingTrack swaps the queue contents without loading anything. The active track
// keeps its selection when the new list contains it; otherwise the index resets to 0 and playback
// carries on untouched.
func (c *Controller) ReplaceQueuePreservingTrack(tracks []models.Track, tag models.QueueTag) {
	c.queue = slices.Clone(tracks)
	c.tag = tag
	c.index = 0

	if c.current != nil {
		if i := models.IndexOf(c.queue, c.current.ID); i >= 0 {
			c.index = i
		} else {
			c.logger.Debug("active track not in replaced queue", "id", c.current.ID)
		}
	}

	if pruned := pruneHistory(c.history, len(c.queue)); len(pruned) != len(c.history) {
		c.setHistory(pruned)
	}
}

// Advance moves to the next track, or to a shuffled pick when shuffle is on. No-op on an empty queue.
func (c *Controller) Advance() error {
	n := len(c.queue)
	if n == 0 {
		return nil
	}

	if c.shuffle {
		c.index = c.pickShuffled()
	} else {
		c.index = (c.index + 1) % n
	}
	return c.Load(&c.queue[c.index], true)
}

// Retreat restarts the current track when it has played past the restart threshold, and otherwise
// moves to the previous track. No-op on an empty queue.
func (c *Controller) Retreat() error {
	n := len(c.queue)
	if n == 0 {
		return nil
	}

	if c.resource.Position() > c.restartThreshold {
		c.Seek(0)
		return nil
	}

	c.index = (c.index - 1 + n) % n
	return c.Load(&c.queue[c.index], true)
}

// PlayTrack handles a track row activation: the active track toggles, any other queued track is
// selected and played.
func (c *Controller) PlayTrack(id models.TrackID) error {
	if c.current != nil && c.current.ID == id {
		c.TogglePlayPause()
		return nil
	}

	i := models.IndexOf(c.queue, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotInQueue, id)
	}

	c.index = i
	return c.Load(&c.queue[i], true)
}

// PlayAll toggles playback when the queue already comes from tag, and otherwise plays tracks from
// the start.
func (c *Controller) PlayAll(tracks []models.Track, tag models.QueueTag) error {
	if c.current != nil && c.IsQueueFromTag(tag) {
		c.TogglePlayPause()
		return nil
	}

	if len(tracks) == 0 {
		return shared.ErrEmptyQueue
	}
	return c.LoadQueue(tracks, 0, tag)
}

// IsQueueFromTag reports whether the queue was built from tag.
func (c *Controller) IsQueueFromTag(tag models.QueueTag) bool {
	return c.tag == tag
}

// ToggleShuffle flips shuffle mode. Turning it off clears the history.
func (c *Controller) ToggleShuffle() {
	c.shuffle = !c.shuffle
	c.store.Save(state.KeyShuffle, c.shuffle)

	if !c.shuffle {
		c.setHistory(nil)
	}
	c.modesChanged()
}

// ToggleRepeat flips repeat-one mode.
func (c *Controller) ToggleRepeat() {
	c.repeat = !c.repeat
	c.store.Save(state.KeyRepeat, c.repeat)
	c.modesChanged()
}

func (c *Controller) modesChanged() {
	c.view.RenderModes(c.shuffle, c.repeat)
	c.bus.Emit(events.Event{
		Kind:    events.ModeChange,
		TrackID: c.currentID(),
		Playing: c.playing,
		Shuffle: c.shuffle,
		Repeat:  c.repeat,
	})
}
