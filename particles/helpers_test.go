package particles

import (
	"strings"
	"sync"
	"time"

	"nebula/gfx"
	"nebula/hal"
)

type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *testLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *testLogger) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

type testFB struct {
	w, h    int
	buf     []byte
	resizes int
}

func (f *testFB) Width() int              { return f.w }
func (f *testFB) Height() int             { return f.h }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatRGBA8888 }
func (f *testFB) StrideBytes() int        { return f.w * 4 }
func (f *testFB) Buffer() []byte          { return f.buf }
func (f *testFB) Present() error          { return nil }
func (f *testFB) ClearRGB(r, g, b uint8)  {}

func (f *testFB) Resize(w, h int) {
	f.resizes++
	f.w, f.h = w, h
	f.buf = make([]byte, w*h*4)
}

type testViewport struct {
	w, h  int
	scale float64
}

func (v *testViewport) Size() (int, int)     { return v.w, v.h }
func (v *testViewport) DeviceScale() float64 { return v.scale }

type testHAL struct {
	log      *testLogger
	fb       *testFB
	vp       *testViewport
	loop     *hal.Loop
	now      time.Duration
	reduced  bool
	noEvents bool
}

func newTestHAL(w, h int) *testHAL {
	th := &testHAL{
		log: &testLogger{},
		fb:  &testFB{},
		vp:  &testViewport{w: w, h: h, scale: 1},
	}
	th.loop = hal.NewLoop(func() time.Duration { return th.now })
	return th
}

func (h *testHAL) Logger() hal.Logger     { return h.log }
func (h *testHAL) Viewport() hal.Viewport { return h.vp }
func (h *testHAL) Scheduler() hal.Scheduler {
	return h.loop
}

func (h *testHAL) Display() hal.Display { return testDisplay{fb: h.fb} }

func (h *testHAL) Events() hal.Events {
	if h.noEvents {
		return nil
	}
	return h.loop
}

func (h *testHAL) Preferences() hal.Preferences { return testPrefs{reduced: h.reduced} }

// stepAt advances the clock to t and runs one loop step.
func (h *testHAL) stepAt(t time.Duration) {
	h.now = t
	h.loop.Step()
}

// postAt dispatches ev with the clock at t.
func (h *testHAL) postAt(t time.Duration, ev hal.Event) {
	h.now = t
	h.loop.Post(ev)
	h.loop.Step()
}

type testDisplay struct {
	fb *testFB
}

func (d testDisplay) Surface(id string) hal.Framebuffer {
	if d.fb == nil || id != hal.SurfaceParticles {
		return nil
	}
	return d.fb
}

type testPrefs struct {
	reduced bool
}

func (p testPrefs) ReducedMotion() bool { return p.reduced }

type circleOp struct {
	x, y, r float64
	c       gfx.Color
}

type lineOp struct {
	x0, y0, x1, y1 float64
	c              gfx.Color
}

type recCanvas struct {
	ops     []string
	rects   []gfx.Color
	circles []circleOp
	lines   []lineOp
	panics  bool
}

func (c *recCanvas) FillRect(x, y, w, h float64, col gfx.Color) {
	if c.panics {
		panic("canvas lost")
	}
	c.ops = append(c.ops, "rect")
	c.rects = append(c.rects, col)
}

func (c *recCanvas) FillCircle(x, y, r float64, col gfx.Color) {
	c.ops = append(c.ops, "circle")
	c.circles = append(c.circles, circleOp{x: x, y: y, r: r, c: col})
}

func (c *recCanvas) StrokeLine(x0, y0, x1, y1, width float64, col gfx.Color) {
	c.ops = append(c.ops, "line")
	c.lines = append(c.lines, lineOp{x0: x0, y0: y0, x1: x1, y1: y1, c: col})
}

// still returns a motionless particle at (x, y).
func still(x, y float64) Particle {
	return Particle{X: x, Y: y, Z: 500, Size: 2, Opacity: 0.5, Color: ThemeDark.Base}
}
