package scrub

import (
	"math"
	"time"
)

// Pager pages through a horizontal strip of items, showing Visible at a time.
type Pager struct {
	Gesture Gesture

	index    int
	maxIndex int
}

// NewPager creates a [Pager] over total items with visible items per page.
func NewPager(total, visible int) *Pager {
	return &Pager{Gesture: NewGesture(), maxIndex: max(0, total-visible)}
}

// Index returns the first visible item.
func (p *Pager) Index() int { return p.index }

// MaxIndex returns the largest valid index.
func (p *Pager) MaxIndex() int { return p.maxIndex }

// Resize updates the item counts, clamping the current index.
func (p *Pager) Resize(total, visible int) {
	p.maxIndex = max(0, total-visible)
	p.index = min(p.index, p.maxIndex)
}

// Next moves one page forward. It reports whether the index changed.
func (p *Pager) Next() bool {
	if p.index >= p.maxIndex {
		return false
	}
	p.index++
	return true
}

// Prev moves one page back. It reports whether the index changed.
func (p *Pager) Prev() bool {
	if p.index <= 0 {
		return false
	}
	p.index--
	return true
}

// Go jumps to i, clamped to [0, MaxIndex].
func (p *Pager) Go(i int) {
	p.index = max(0, min(i, p.maxIndex))
}

// DragStart begins a drag at x.
func (p *Pager) DragStart(x float64, at time.Time) {
	p.Gesture.Begin(x, at)
}

// DragEnd finishes a drag. Dragging right reveals earlier items.
func (p *Pager) DragEnd(x float64, at time.Time) bool {
	outcome, delta := p.Gesture.End(x, at)
	if outcome == Snap {
		return false
	}

	if math.Abs(delta) <= p.Gesture.minDistance()/2 {
		return false
	}
	if delta > 0 {
		return p.Prev()
	}
	return p.Next()
}
