//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hostPointer turns polled cursor and touch state into pointer events.
// Positions arrive in screen pixels and are posted in logical coordinates.
type hostPointer struct {
	inside bool
	lastX  int
	lastY  int

	touches  []ebiten.TouchID
	released []ebiten.TouchID
}

func (p *hostPointer) poll(l *Loop, w, h int, scale float64) {
	if scale <= 0 {
		scale = 1
	}

	p.touches = ebiten.AppendTouchIDs(p.touches[:0])
	p.released = inpututil.AppendJustReleasedTouchIDs(p.released[:0])
	if len(p.touches) > 0 {
		x, y := ebiten.TouchPosition(p.touches[0])
		l.Post(Event{Kind: EventTouchMove, X: float64(x) / scale, Y: float64(y) / scale})
		return
	}
	if len(p.released) > 0 {
		l.Post(Event{Kind: EventTouchEnd})
	}

	sx, sy := ebiten.CursorPosition()
	x, y := float64(sx)/scale, float64(sy)/scale
	in := x >= 0 && y >= 0 && x < float64(w) && y < float64(h)
	switch {
	case in && (!p.inside || sx != p.lastX || sy != p.lastY):
		l.Post(Event{Kind: EventPointerMove, X: x, Y: y})
	case !in && p.inside:
		l.Post(Event{Kind: EventPointerLeave})
	}
	p.inside = in
	p.lastX, p.lastY = sx, sy
}
