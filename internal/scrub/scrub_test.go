package scrub

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *clock                   { return &clock{t: time.Unix(1_700_000_000, 0)} }
func approx(a, b float64) bool           { d := a - b; return d < 1e-9 && d > -1e-9 }

func TestGesture(t *testing.T) {
	start := time.Unix(0, 0)

	tt := []struct {
		name    string
		dx      float64
		elapsed time.Duration
		want    Outcome
	}{
		{name: "tap", dx: 0, elapsed: 10 * time.Millisecond, want: Snap},
		{name: "short quick drag", dx: 2, elapsed: 50 * time.Millisecond, want: Snap},
		{name: "short quick drag left", dx: -9, elapsed: 199 * time.Millisecond, want: Snap},
		{name: "long quick drag", dx: 10, elapsed: 50 * time.Millisecond, want: Drag},
		{name: "short slow drag", dx: 2, elapsed: 200 * time.Millisecond, want: Drag},
		{name: "long slow drag", dx: -40, elapsed: time.Second, want: Drag},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGesture()
			g.Begin(100, start)

			got, delta := g.End(100+tc.dx, start.Add(tc.elapsed))
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
			if delta != tc.dx {
				t.Errorf("expected delta %v, got %v", tc.dx, delta)
			}
			if g.Active() {
				t.Error("gesture should be inactive after End")
			}
		})
	}

	t.Run("End without Begin", func(t *testing.T) {
		g := NewGesture()
		if got, delta := g.End(50, start); got != Snap || delta != 0 {
			t.Errorf("expected snap with zero delta, got %v %v", got, delta)
		}
	})
}

func TestPager(t *testing.T) {
	start := time.Unix(0, 0)

	t.Run("buttons clamp", func(t *testing.T) {
		p := NewPager(7, 5)
		if p.MaxIndex() != 2 {
			t.Fatalf("expected max index 2, got %d", p.MaxIndex())
		}
		if p.Prev() {
			t.Error("Prev at 0 should not move")
		}
		p.Next()
		p.Next()
		if p.Next() {
			t.Error("Next at max should not move")
		}
		if p.Index() != 2 {
			t.Errorf("expected index 2, got %d", p.Index())
		}
		p.Go(-3)
		if p.Index() != 0 {
			t.Errorf("expected Go to clamp to 0, got %d", p.Index())
		}
	})

	t.Run("fewer items than visible", func(t *testing.T) {
		p := NewPager(3, 5)
		if p.MaxIndex() != 0 || p.Next() {
			t.Error("pager with fewer items than visible should not move")
		}
	})

	t.Run("drag", func(t *testing.T) {
		tt := []struct {
			name      string
			dx        float64
			elapsed   time.Duration
			wantIndex int
		}{
			{name: "snap back", dx: -3, elapsed: 50 * time.Millisecond, wantIndex: 1},
			{name: "drag left moves forward", dx: -30, elapsed: 100 * time.Millisecond, wantIndex: 2},
			{name: "drag right moves back", dx: 30, elapsed: 100 * time.Millisecond, wantIndex: 0},
			{name: "slow tiny drag stays", dx: 4, elapsed: time.Second, wantIndex: 1},
			{name: "slow half-threshold drag moves", dx: 6, elapsed: time.Second, wantIndex: 0},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				p := NewPager(10, 5)
				p.Go(1)

				p.DragStart(200, start)
				p.DragEnd(200+tc.dx, start.Add(tc.elapsed))

				if p.Index() != tc.wantIndex {
					t.Errorf("expected index %d, got %d", tc.wantIndex, p.Index())
				}
			})
		}
	})

	t.Run("Resize clamps", func(t *testing.T) {
		p := NewPager(10, 5)
		p.Go(5)
		p.Resize(6, 5)
		if p.Index() != 1 {
			t.Errorf("expected index clamped to 1, got %d", p.Index())
		}
	})
}

func TestBar(t *testing.T) {
	t.Run("Fraction clamps", func(t *testing.T) {
		b := NewBar(10, 100, CommitLive)

		tt := []struct {
			x    float64
			want float64
		}{
			{x: 0, want: 0},
			{x: 10, want: 0},
			{x: 35, want: 0.25},
			{x: 110, want: 1},
			{x: 500, want: 1},
		}
		for _, tc := range tt {
			if got := b.Fraction(tc.x); !approx(got, tc.want) {
				t.Errorf("Fraction(%v) = %v, want %v", tc.x, got, tc.want)
			}
		}

		if (&Bar{}).Fraction(5) != 0 {
			t.Error("zero-width bar should map to 0")
		}
	})

	t.Run("CommitLive applies on down and move", func(t *testing.T) {
		b := NewBar(0, 100, CommitLive)

		var applied []float64
		b.OnApply = func(v float64) { applied = append(applied, v) }

		b.PointerDown(20)
		b.PointerMove(250) // outside the bar, still tracked
		v, committed := b.PointerUp(250)

		if len(applied) != 2 || !approx(applied[0], 0.2) || !approx(applied[1], 1) {
			t.Errorf("unexpected applied values %v", applied)
		}
		if !committed || !approx(v, 1) {
			t.Errorf("expected committed value 1, got %v (%v)", v, committed)
		}
	})

	t.Run("begin and end hooks", func(t *testing.T) {
		b := NewBar(0, 100, CommitOnRelease)

		seeking := false
		b.OnBegin = func() { seeking = true }
		b.OnEnd = func() { seeking = false }

		b.PointerDown(50)
		if !seeking || !b.Active() {
			t.Error("expected seeking during drag")
		}
		b.PointerUp(50)
		if seeking || b.Active() {
			t.Error("expected seeking cleared after release")
		}
	})

	t.Run("click commits on release", func(t *testing.T) {
		c := newClock()
		b := NewBar(0, 100, CommitOnRelease)
		b.Now = c.now
		b.SetValue(0.1)

		var commits []float64
		b.OnCommit = func(v float64) { commits = append(commits, v) }

		b.PointerDown(75)
		c.advance(30 * time.Millisecond)
		_, committed := b.PointerUp(75)

		if !committed || len(commits) != 1 || !approx(commits[0], 0.75) {
			t.Errorf("expected a single commit of 0.75, got %v", commits)
		}
	})

	t.Run("tiny quick drag reverts", func(t *testing.T) {
		c := newClock()
		b := NewBar(0, 100, CommitOnRelease)
		b.Now = c.now
		b.SetValue(0.4)

		commits := 0
		b.OnCommit = func(float64) { commits++ }
		var last float64
		b.OnApply = func(v float64) { last = v }

		b.PointerDown(60)
		c.advance(25 * time.Millisecond)
		b.PointerMove(62)
		c.advance(25 * time.Millisecond)
		v, committed := b.PointerUp(62)

		if committed || commits != 0 {
			t.Error("expected no commit for a drag below both thresholds")
		}
		if !approx(v, 0.4) || !approx(b.Value(), 0.4) || !approx(last, 0.4) {
			t.Errorf("expected value to revert to 0.4, got %v (display %v)", v, last)
		}
	})

	t.Run("real drag commits final value", func(t *testing.T) {
		c := newClock()
		b := NewBar(0, 100, CommitOnRelease)
		b.Now = c.now

		var commits []float64
		b.OnCommit = func(v float64) { commits = append(commits, v) }

		b.PointerDown(10)
		c.advance(300 * time.Millisecond)
		b.PointerMove(40)
		b.PointerUp(40)

		if len(commits) != 1 || !approx(commits[0], 0.4) {
			t.Errorf("expected commit of 0.4, got %v", commits)
		}
	})

	t.Run("SetValue ignored while dragging", func(t *testing.T) {
		b := NewBar(0, 100, CommitOnRelease)

		b.PointerDown(30)
		b.SetValue(0.9)
		if !approx(b.Value(), 0.3) {
			t.Errorf("expected drag value to win, got %v", b.Value())
		}
		b.PointerUp(30)
		b.SetValue(0.9)
		if !approx(b.Value(), 0.9) {
			t.Errorf("expected passive update after release, got %v", b.Value())
		}
	})

	t.Run("hover previews without mutating", func(t *testing.T) {
		b := NewBar(0, 100, CommitLive)
		b.SetValue(0.5)

		applied := 0
		b.OnApply = func(float64) { applied++ }

		var preview float64
		visible := false
		b.OnPreview = func(v float64, shown bool) { preview, visible = v, shown }

		b.PointerMove(80)
		if !visible || !approx(preview, 0.8) {
			t.Errorf("expected preview at 0.8, got %v (%v)", preview, visible)
		}
		if applied != 0 || !approx(b.Value(), 0.5) {
			t.Error("hover must not change the value")
		}

		b.PointerMove(150)
		if visible || b.Hovering() {
			t.Error("expected preview hidden after leaving the bar")
		}
	})

	t.Run("release over bar keeps preview", func(t *testing.T) {
		b := NewBar(0, 100, CommitLive)

		visible := false
		b.OnPreview = func(_ float64, shown bool) { visible = shown }

		b.PointerDown(10)
		b.PointerUp(20)
		if !visible {
			t.Error("preview should stay visible while hovering")
		}

		b.PointerDown(10)
		b.PointerMove(300)
		b.PointerUp(300)
		if visible {
			t.Error("preview should hide when released off the bar")
		}
	})
}
