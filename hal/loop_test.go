package hal

import (
	"sync"
	"testing"
	"time"
)

type manualClock struct {
	now time.Duration
}

func (c *manualClock) read() time.Duration { return c.now }

func TestLoopRunsFramesOncePerStep(t *testing.T) {
	clk := &manualClock{}
	l := NewLoop(clk.read)

	var got []time.Duration
	var fn func(time.Duration)
	fn = func(now time.Duration) {
		got = append(got, now)
		l.RequestFrame(fn)
	}
	l.RequestFrame(fn)

	for i := 0; i < 3; i++ {
		clk.now += 10 * time.Millisecond
		l.Step()
	}

	if len(got) != 3 {
		t.Fatalf("frames run = %d, want 3", len(got))
	}
	if got[2] != 30*time.Millisecond {
		t.Fatalf("third frame now = %v, want 30ms", got[2])
	}
	if n := l.PendingFrames(); n != 1 {
		t.Fatalf("PendingFrames() = %d, want 1", n)
	}
}

func TestLoopCancelFrame(t *testing.T) {
	l := NewLoop(nil)

	ran := false
	h := l.RequestFrame(func(time.Duration) { ran = true })
	l.CancelFrame(h)
	l.Step()

	if ran {
		t.Fatalf("canceled frame ran")
	}
	if n := l.PendingFrames(); n != 0 {
		t.Fatalf("PendingFrames() = %d, want 0", n)
	}
}

func TestLoopCancelFrameFromSameBatch(t *testing.T) {
	l := NewLoop(nil)

	var second Handle
	ran := false
	l.RequestFrame(func(time.Duration) { l.CancelFrame(second) })
	second = l.RequestFrame(func(time.Duration) { ran = true })
	l.Step()

	if ran {
		t.Fatalf("frame canceled by an earlier callback in the same step ran")
	}
}

func TestLoopHandlesAreUnique(t *testing.T) {
	l := NewLoop(nil)
	seen := map[Handle]bool{}
	for i := 0; i < 10; i++ {
		h := l.RequestFrame(func(time.Duration) {})
		if h == 0 || seen[h] {
			t.Fatalf("RequestFrame() handle %d reused or zero", h)
		}
		seen[h] = true
	}
	if h := l.RequestFrame(nil); h != 0 {
		t.Fatalf("RequestFrame(nil) = %d, want 0", h)
	}
}

func TestLoopTimers(t *testing.T) {
	clk := &manualClock{}
	l := NewLoop(clk.read)

	fired := 0
	l.AfterFunc(250*time.Millisecond, func() { fired++ })
	canceled := l.AfterFunc(100*time.Millisecond, func() { t.Fatalf("canceled timer fired") })
	l.CancelTimer(canceled)

	clk.now = 249 * time.Millisecond
	l.Step()
	if fired != 0 {
		t.Fatalf("fired = %d before due, want 0", fired)
	}

	clk.now = 250 * time.Millisecond
	l.Step()
	l.Step()
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if n := l.PendingTimers(); n != 0 {
		t.Fatalf("PendingTimers() = %d, want 0", n)
	}
}

func TestLoopEventsDispatchOnStep(t *testing.T) {
	l := NewLoop(nil)

	var got []EventKind
	unsub := l.Subscribe(func(ev Event) { got = append(got, ev.Kind) })

	l.Post(Event{Kind: EventPointerMove, X: 1, Y: 2})
	l.Post(Event{Kind: EventPointerLeave})
	if len(got) != 0 {
		t.Fatalf("events dispatched before Step: %v", got)
	}
	l.Step()
	if len(got) != 2 || got[0] != EventPointerMove || got[1] != EventPointerLeave {
		t.Fatalf("dispatched = %v, want [pointer-move pointer-leave]", got)
	}

	unsub()
	l.Post(Event{Kind: EventResize})
	l.Step()
	if len(got) != 2 {
		t.Fatalf("dispatched after unsubscribe = %v", got)
	}
}

func TestLoopEventsBeforeFrames(t *testing.T) {
	l := NewLoop(nil)

	var order []string
	l.Subscribe(func(Event) { order = append(order, "event") })
	l.RequestFrame(func(time.Duration) { order = append(order, "frame") })
	l.Post(Event{Kind: EventKey, Rune: 't'})
	l.Step()

	if len(order) != 2 || order[0] != "event" || order[1] != "frame" {
		t.Fatalf("order = %v, want [event frame]", order)
	}
}

func TestLoopPostConcurrent(t *testing.T) {
	l := NewLoop(nil)

	count := 0
	l.Subscribe(func(Event) { count++ })

	const producers, per = 4, 50
	var wg sync.WaitGroup
	wg.Add(producers)
	for i := 0; i < producers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < per; j++ {
				l.Post(Event{Kind: EventPointerMove})
			}
		}()
	}
	wg.Wait()
	l.Step()

	if count+int(l.Dropped()) != producers*per {
		t.Fatalf("dispatched %d + dropped %d, want %d", count, l.Dropped(), producers*per)
	}
}

func TestLoopPostDropsWhenFull(t *testing.T) {
	l := NewLoop(nil)
	for i := 0; i < inboxSlots; i++ {
		if !l.Post(Event{Kind: EventPointerMove}) {
			t.Fatalf("Post() = false at %d, want true", i)
		}
	}
	if l.Post(Event{Kind: EventPointerMove}) {
		t.Fatalf("Post() on full inbox = true, want false")
	}
	if got := l.Dropped(); got != 1 {
		t.Fatalf("Dropped() = %d, want 1", got)
	}
}
