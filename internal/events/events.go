// package events implements the typed publish/subscribe feed that keeps UI fragments in sync with the player.
//
// Fragments subscribe by [Kind] with a callback ([Bus.Subscribe]) or consume every event from a channel
// ([Bus.Listen]); neither needs a reference to the controller.
package events

import (
	"sync"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
)

// Kind names an event.
type Kind string

const (
	TrackChange  Kind = "trackchange"
	Play         Kind = "play"
	Pause        Kind = "pause"
	ModeChange   Kind = "modechange"
	VolumeChange Kind = "volumechange"
)

// Event is a state transition published by the player.
//
// TrackID and Playing are set on every event; the remaining fields depend on Kind.
type Event struct {
	Kind    Kind
	TrackID models.TrackID
	Playing bool

	Track   *models.Track // trackchange
	Shuffle bool          // modechange
	Repeat  bool          // modechange
	Volume  float64       // volumechange
	Muted   bool          // volumechange
}

// Handler receives events synchronously on the emitting goroutine.
type Handler func(Event)

type subscription struct {
	id      string
	kind    Kind
	handler Handler
}

type listener struct {
	id string
	ch chan Event
}

// Bus dispatches events to subscribers in subscription order. It is safe for concurrent use.
type Bus struct {
	mu        sync.RWMutex
	subs      []subscription
	listeners []listener
}

// NewBus creates an empty [Bus].
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for events of kind and returns an id for [Bus.Unsubscribe].
func (b *Bus) Subscribe(kind Kind, fn Handler) string {
	id := shared.GenerateID()

	b.mu.Lock()
	b.subs = append(b.subs, subscription{id: id, kind: kind, handler: fn})
	b.mu.Unlock()

	return id
}

// Unsubscribe removes the subscription or listener with id. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}

	for i, l := range b.listeners {
		if l.id == id {
			close(l.ch)
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Listen returns a channel receiving every event and a cancel func that closes it.
//
// Delivery never blocks the emitter: when the buffer is full the event is dropped for that listener.
func (b *Bus) Listen(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}

	l := listener{id: shared.GenerateID(), ch: make(chan Event, buffer)}

	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()

	var once sync.Once
	return l.ch, func() { once.Do(func() { b.Unsubscribe(l.id) }) }
}

// Emit delivers e to matching subscribers, then to listeners.
func (b *Bus) Emit(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kind == e.Kind {
			handlers = append(handlers, s.handler)
		}
	}
	for _, l := range b.listeners {
		select {
		case l.ch <- e:
		default:
		}
	}
	b.mu.RUnlock()

	// Handlers run unlocked so they may subscribe or unsubscribe.
	for _, fn := range handlers {
		fn(e)
	}
}

// Len returns the number of active subscriptions and listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs) + len(b.listeners)
}
