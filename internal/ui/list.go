package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytplay/internal/events"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
)

var _ list.Item = trackItem{}

// rowState is the highlighted row, kept current by player events.
type rowState struct {
	active  models.TrackID
	playing bool
}

// observe updates the highlight from trackchange, play and pause events.
func (r *rowState) observe(e events.Event) {
	r.active = e.TrackID
	r.playing = e.Playing
}

// marker returns the row prefix for id.
func (r *rowState) marker(id models.TrackID) string {
	switch {
	case r == nil || id != r.active:
		return "  "
	case r.playing:
		return "▶ "
	default:
		return "❚❚"
	}
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
	rows  *rowState
}

func (i trackItem) FilterValue() string { return i.track.Title + " " + i.track.Artist }
func (i trackItem) Title() string {
	title := fmt.Sprintf("%s %s", i.rows.marker(i.track.ID), i.track.Title)
	if i.rows != nil && i.track.ID == i.rows.active {
		return styles.active.Render(title)
	}
	return title
}
func (i trackItem) Description() string {
	desc := fmt.Sprintf("   %s • %s", i.track.ArtistName(), shared.FormatDuration(i.track.Duration))
	if i.track.PlayCount > 0 {
		desc = fmt.Sprintf("%s • %s plays", desc, shared.FormatNumber(i.track.PlayCount))
	}
	return desc
}

func toItems(tracks []models.Track, rows *rowState) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t, rows: rows}
	}
	return items
}
