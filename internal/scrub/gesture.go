package scrub

import (
	"math"
	"time"
)

const (
	DefaultMinDistance = 10.0
	DefaultMaxTap      = 200 * time.Millisecond
)

// Outcome classifies a finished pointer gesture.
type Outcome int

const (
	Snap Outcome = iota // too short and too quick: restore the pre-drag state
	Drag                // commit the movement
)

func (o Outcome) String() string {
	if o == Drag {
		return "drag"
	}
	return "snap"
}

// Gesture distinguishes a tap from a drag.
//
// A gesture that travels less than MinDistance in less than MaxTap is a [Snap]; anything else is a [Drag].
type Gesture struct {
	MinDistance float64
	MaxTap      time.Duration

	startX  float64
	startAt time.Time
	active  bool
}

// NewGesture returns a [Gesture] with the default thresholds.
func NewGesture() Gesture {
	return Gesture{MinDistance: DefaultMinDistance, MaxTap: DefaultMaxTap}
}

// Begin records the start of a gesture.
func (g *Gesture) Begin(x float64, at time.Time) {
	g.startX = x
	g.startAt = at
	g.active = true
}

// Active reports whether a gesture is in progress.
func (g *Gesture) Active() bool { return g.active }

// Delta returns the distance travelled so far.
func (g *Gesture) Delta(x float64) float64 {
	if !g.active {
		return 0
	}
	return x - g.startX
}

// End finishes the gesture and classifies it. The returned delta is signed.
func (g *Gesture) End(x float64, at time.Time) (Outcome, float64) {
	if !g.active {
		return Snap, 0
	}
	g.active = false

	delta := x - g.startX
	if math.Abs(delta) < g.minDistance() && at.Sub(g.startAt) < g.maxTap() {
		return Snap, delta
	}
	return Drag, delta
}

func (g *Gesture) minDistance() float64 {
	if g.MinDistance <= 0 {
		return DefaultMinDistance
	}
	return g.MinDistance
}

func (g *Gesture) maxTap() time.Duration {
	if g.MaxTap <= 0 {
		return DefaultMaxTap
	}
	return g.MaxTap
}
