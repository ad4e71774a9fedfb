package particles

import (
	"time"

	"nebula/hal"
)

// lifecycle translates host signals into System calls: debounced resize,
// throttled pointer tracking, pause on hidden, theme toggle.
type lifecycle struct {
	sys   *System
	sched hal.Scheduler

	resizeTimer hal.Handle
	fireResize  func()

	lastMove time.Duration
	moved    bool

	light bool

	unsubscribe func()
}

func newLifecycle(s *System, events hal.Events, sched hal.Scheduler) *lifecycle {
	lc := &lifecycle{sys: s, sched: sched}
	lc.fireResize = func() {
		lc.resizeTimer = 0
		lc.sys.Resize()
	}
	lc.unsubscribe = events.Subscribe(lc.handle)
	return lc
}

func (lc *lifecycle) handle(ev hal.Event) {
	switch ev.Kind {
	case hal.EventResize:
		// Restart the quiescence window on every event in a burst.
		lc.sched.CancelTimer(lc.resizeTimer)
		lc.resizeTimer = lc.sched.AfterFunc(resizeQuiescence, lc.fireResize)

	case hal.EventPointerMove, hal.EventTouchMove:
		now := lc.sched.Now()
		if lc.moved && now-lc.lastMove < pointerThrottle {
			return
		}
		lc.moved = true
		lc.lastMove = now
		lc.sys.pointer.Set(ev.X, ev.Y)

	case hal.EventPointerLeave, hal.EventTouchEnd:
		lc.sys.pointer.Clear()

	case hal.EventVisibility:
		if ev.Hidden {
			lc.sys.Stop()
		} else {
			lc.sys.Start()
		}

	case hal.EventKey:
		if ev.Rune != 't' {
			return
		}
		lc.light = !lc.light
		if lc.light {
			lc.sys.UpdateTheme(ThemeLight)
		} else {
			lc.sys.UpdateTheme(ThemeDark)
		}
	}
}

func (lc *lifecycle) close() {
	if lc.unsubscribe != nil {
		lc.unsubscribe()
		lc.unsubscribe = nil
	}
	lc.sched.CancelTimer(lc.resizeTimer)
	lc.resizeTimer = 0
}
