package events

import (
	"testing"

	"github.com/desertthunder/ytplay/internal/models"
)

func TestBus(t *testing.T) {
	t.Run("Subscribe filters by kind", func(t *testing.T) {
		bus := NewBus()

		var got []Event
		bus.Subscribe(Play, func(e Event) { got = append(got, e) })

		bus.Emit(Event{Kind: TrackChange, TrackID: "1"})
		bus.Emit(Event{Kind: Play, TrackID: "1", Playing: true})
		bus.Emit(Event{Kind: Pause, TrackID: "1"})

		if len(got) != 1 {
			t.Fatalf("expected 1 play event, got %d", len(got))
		}
		if got[0].TrackID != "1" || !got[0].Playing {
			t.Errorf("unexpected payload %+v", got[0])
		}
	})

	t.Run("Subscribers run in order", func(t *testing.T) {
		bus := NewBus()

		var order []int
		for i := range 3 {
			bus.Subscribe(Pause, func(Event) { order = append(order, i) })
		}

		bus.Emit(Event{Kind: Pause})

		if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		bus := NewBus()

		calls := 0
		id := bus.Subscribe(TrackChange, func(Event) { calls++ })
		bus.Emit(Event{Kind: TrackChange})
		bus.Unsubscribe(id)
		bus.Emit(Event{Kind: TrackChange})
		bus.Unsubscribe("unknown")

		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
		if bus.Len() != 0 {
			t.Errorf("expected empty bus, got %d", bus.Len())
		}
	})

	t.Run("Handler may unsubscribe itself", func(t *testing.T) {
		bus := NewBus()

		calls := 0
		var id string
		id = bus.Subscribe(Play, func(Event) {
			calls++
			bus.Unsubscribe(id)
		})

		bus.Emit(Event{Kind: Play})
		bus.Emit(Event{Kind: Play})

		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("Listen receives every kind", func(t *testing.T) {
		bus := NewBus()

		ch, cancel := bus.Listen(4)
		defer cancel()

		track := &models.Track{ID: "9", Title: "Song"}
		bus.Emit(Event{Kind: TrackChange, TrackID: "9", Track: track})
		bus.Emit(Event{Kind: ModeChange, Shuffle: true})

		first := <-ch
		if first.Kind != TrackChange || first.Track.Title != "Song" {
			t.Errorf("unexpected first event %+v", first)
		}

		second := <-ch
		if second.Kind != ModeChange || !second.Shuffle {
			t.Errorf("unexpected second event %+v", second)
		}
	})

	t.Run("Listen drops when full", func(t *testing.T) {
		bus := NewBus()

		ch, cancel := bus.Listen(1)

		bus.Emit(Event{Kind: Play, TrackID: "1"})
		bus.Emit(Event{Kind: Play, TrackID: "2"})

		if e := <-ch; e.TrackID != "1" {
			t.Errorf("expected the first event to be kept, got %s", e.TrackID)
		}

		cancel()
		cancel()

		if _, ok := <-ch; ok {
			t.Error("expected channel to be closed after cancel")
		}
		if bus.Len() != 0 {
			t.Errorf("expected listener to be removed, got %d", bus.Len())
		}
	})
}
