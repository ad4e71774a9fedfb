package particles

import "sync/atomic"

// Point is a logical surface coordinate.
type Point struct {
	X, Y float64
}

// Tracker holds the latest pointer position, or nothing when no pointer is
// over the surface. Writes and reads go through an atomic snapshot, so a
// reader never sees a half-updated coordinate.
type Tracker struct {
	p atomic.Pointer[Point]
}

// Set records the pointer at (x, y).
func (t *Tracker) Set(x, y float64) {
	t.p.Store(&Point{X: x, Y: y})
}

// Clear marks the pointer as absent.
func (t *Tracker) Clear() {
	t.p.Store(nil)
}

// Get returns the pointer position and whether one is set.
func (t *Tracker) Get() (Point, bool) {
	p := t.p.Load()
	if p == nil {
		return Point{}, false
	}
	return *p, true
}
