package scrub

import "time"

// Mode selects when a [Bar] writes its target.
type Mode int

const (
	// CommitLive writes the target on every apply (volume).
	CommitLive Mode = iota
	// CommitOnRelease updates the display while dragging and writes the target on release (progress).
	// Drags classified as [Snap] restore the pre-drag value without writing.
	CommitOnRelease
)

// Bar is the shared pointer model of the progress and volume bars.
//
// Coordinates are absolute; the bar occupies [Left, Left+Width). Moves are accepted anywhere while a drag
// is active so leaving the bar keeps tracking, clamped to the bar's range.
type Bar struct {
	Left  float64
	Width float64
	Mode  Mode

	Gesture Gesture
	Now     func() time.Time

	OnBegin   func()
	OnEnd     func()
	OnApply   func(v float64)               // display (and target in CommitLive)
	OnCommit  func(v float64)               // CommitOnRelease target write
	OnPreview func(v float64, visible bool) // floating value preview

	value    float64
	origin   float64
	downX    float64
	active   bool
	moved    bool
	hovering bool
}

// NewBar creates a [Bar] at the given geometry.
func NewBar(left, width float64, mode Mode) *Bar {
	return &Bar{Left: left, Width: width, Mode: mode, Gesture: NewGesture(), Now: time.Now}
}

// Fraction maps x to [0, 1].
func (b *Bar) Fraction(x float64) float64 {
	if b.Width <= 0 {
		return 0
	}
	return min(1, max(0, (x-b.Left)/b.Width))
}

// Contains reports whether x lies on the bar.
func (b *Bar) Contains(x float64) bool {
	return x >= b.Left && x < b.Left+b.Width
}

// Value returns the displayed value.
func (b *Bar) Value() float64 { return b.value }

// Active reports whether a drag is in progress.
func (b *Bar) Active() bool { return b.active }

// Hovering reports whether the pointer rests on the bar.
func (b *Bar) Hovering() bool { return b.hovering }

// SetValue is the passive rendering path used by playback updates. Ignored while dragging.
func (b *Bar) SetValue(v float64) {
	if b.active {
		return
	}
	b.value = min(1, max(0, v))
}

// PointerDown starts a drag at x and applies the value under the pointer.
func (b *Bar) PointerDown(x float64) {
	b.active = true
	b.moved = false
	b.origin = b.value
	b.downX = x
	b.Gesture.Begin(x, b.now())

	if b.OnBegin != nil {
		b.OnBegin()
	}

	b.apply(b.Fraction(x))
	b.preview(b.Fraction(x), true)
}

// PointerMove tracks a drag, or behaves as [Bar.Hover] when no drag is active.
func (b *Bar) PointerMove(x float64) {
	if !b.active {
		if b.Contains(x) {
			b.Hover(x)
		} else {
			b.Leave()
		}
		return
	}

	if x != b.downX {
		b.moved = true
	}
	b.apply(b.Fraction(x))
	b.preview(b.Fraction(x), true)
}

// PointerUp ends a drag at x. It returns the committed value and whether one was written.
func (b *Bar) PointerUp(x float64) (float64, bool) {
	if !b.active {
		return b.value, false
	}
	b.active = false

	outcome, _ := b.Gesture.End(x, b.now())

	committed := true
	if b.Mode == CommitOnRelease {
		if b.moved && outcome == Snap {
			b.apply(b.origin)
			committed = false
		} else if b.OnCommit != nil {
			b.OnCommit(b.value)
		}
	}

	if b.OnEnd != nil {
		b.OnEnd()
	}

	b.hovering = b.Contains(x)
	b.preview(b.Fraction(x), b.hovering)

	return b.value, committed
}

// Hover shows the preview at x without changing the value.
func (b *Bar) Hover(x float64) {
	b.hovering = true
	b.preview(b.Fraction(x), true)
}

// Leave hides the preview unless a drag is active.
func (b *Bar) Leave() {
	was := b.hovering
	b.hovering = false
	if !b.active && was {
		b.preview(b.value, false)
	}
}

func (b *Bar) apply(v float64) {
	b.value = v
	if b.OnApply != nil {
		b.OnApply(v)
	}
}

func (b *Bar) preview(v float64, visible bool) {
	if b.OnPreview != nil {
		b.OnPreview(v, visible)
	}
}

func (b *Bar) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}
