package hal

import (
	"sync/atomic"
	"time"

	"nebula/internal/mailbox"
)

const inboxSlots = 256

type frameReq struct {
	id Handle
	fn func(time.Duration)
}

type timerReq struct {
	id  Handle
	due time.Duration
	fn  func()
}

type subscriber struct {
	id int
	fn func(Event)
}

// Loop is a single-threaded Scheduler and Events hub.
//
// Frame callbacks, timers and event subscribers all run inside Step. Post may
// be called from any goroutine; posted events are dispatched on the next Step
// before timers and frames.
type Loop struct {
	clock func() time.Duration

	nextID  Handle
	frames  []frameReq
	running []frameReq
	spare   []frameReq

	timers []timerReq
	firing []timerReq

	inbox   *mailbox.Mailbox[Event]
	dropped atomic.Uint64

	subs    []subscriber
	nextSub int
}

// NewLoop returns a loop driven by clock. A nil clock measures monotonic time
// since the call.
func NewLoop(clock func() time.Duration) *Loop {
	if clock == nil {
		start := time.Now()
		clock = func() time.Duration { return time.Since(start) }
	}
	return &Loop{
		clock: clock,
		inbox: mailbox.New[Event](inboxSlots),
	}
}

var (
	_ Scheduler = (*Loop)(nil)
	_ Events    = (*Loop)(nil)
)

func (l *Loop) Now() time.Duration { return l.clock() }

func (l *Loop) issue() Handle {
	l.nextID++
	return l.nextID
}

func (l *Loop) RequestFrame(fn func(now time.Duration)) Handle {
	if fn == nil {
		return 0
	}
	id := l.issue()
	l.frames = append(l.frames, frameReq{id: id, fn: fn})
	return id
}

func (l *Loop) CancelFrame(h Handle) {
	if h == 0 {
		return
	}
	for i := range l.frames {
		if l.frames[i].id == h {
			l.frames = append(l.frames[:i], l.frames[i+1:]...)
			return
		}
	}
	for i := range l.running {
		if l.running[i].id == h {
			l.running[i].fn = nil
			return
		}
	}
}

func (l *Loop) PendingFrames() int { return len(l.frames) }

func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	if fn == nil {
		return 0
	}
	if d < 0 {
		d = 0
	}
	id := l.issue()
	l.timers = append(l.timers, timerReq{id: id, due: l.Now() + d, fn: fn})
	return id
}

func (l *Loop) CancelTimer(h Handle) {
	if h == 0 {
		return
	}
	for i := range l.timers {
		if l.timers[i].id == h {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			return
		}
	}
	for i := range l.firing {
		if l.firing[i].id == h {
			l.firing[i].fn = nil
			return
		}
	}
}

// PendingTimers returns the number of timers not yet fired.
func (l *Loop) PendingTimers() int { return len(l.timers) }

// Subscribe registers fn for every dispatched event.
func (l *Loop) Subscribe(fn func(Event)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	l.nextSub++
	id := l.nextSub
	l.subs = append(l.subs, subscriber{id: id, fn: fn})
	return func() {
		for i := range l.subs {
			if l.subs[i].id == id {
				l.subs = append(l.subs[:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

// Post queues ev for dispatch on the next Step. It is safe for concurrent use
// and reports false when the inbox is full and the event was dropped.
func (l *Loop) Post(ev Event) bool {
	if l.inbox.TrySend(ev) {
		return true
	}
	l.dropped.Add(1)
	return false
}

// Dropped returns the number of events lost to a full inbox.
func (l *Loop) Dropped() uint64 { return l.dropped.Load() }

func (l *Loop) dispatch(ev Event) {
	// Subscribers may unsubscribe while being called.
	n := len(l.subs)
	for i := 0; i < n && i < len(l.subs); i++ {
		l.subs[i].fn(ev)
	}
}

// Step runs one refresh: posted events, due timers, then every frame callback
// requested before the step began. Callbacks requested during the step run on
// the next one.
func (l *Loop) Step() {
	for {
		ev, ok := l.inbox.TryRecv()
		if !ok {
			break
		}
		l.dispatch(ev)
	}

	now := l.Now()
	if len(l.timers) > 0 {
		keep := l.timers[:0]
		l.firing = l.firing[:0]
		for _, t := range l.timers {
			if t.due <= now {
				l.firing = append(l.firing, t)
			} else {
				keep = append(keep, t)
			}
		}
		l.timers = keep
		for i := range l.firing {
			if fn := l.firing[i].fn; fn != nil {
				l.firing[i].fn = nil
				fn()
			}
		}
		l.firing = l.firing[:0]
	}

	if len(l.frames) == 0 {
		return
	}
	l.running = l.frames
	l.frames = l.spare[:0]
	for i := range l.running {
		if fn := l.running[i].fn; fn != nil {
			l.running[i].fn = nil
			fn(now)
		}
	}
	l.spare = l.running[:0]
	l.running = nil
}
