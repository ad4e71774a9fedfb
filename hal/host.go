package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// SurfaceParticles is the well-known id of the animation's drawing surface.
const SurfaceParticles = "particles-canvas"

// HostConfig is shared by all host runners.
type HostConfig struct {
	// ReducedMotion reports the user's reduced-motion preference to the app.
	ReducedMotion bool
	// Log receives log lines. Nil means stdout.
	Log io.Writer
	// Overlay, when set, draws onto the presented frame after the surface is
	// copied. It never touches the surface itself.
	Overlay func(pix []byte, w, h int)
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	vp     *hostViewport
	loop   *Loop
	prefs  hostPreferences
}

func newHostHAL(cfg HostConfig, width, height int, scale float64) *hostHAL {
	w := cfg.Log
	if w == nil {
		w = os.Stdout
	}
	return &hostHAL{
		logger: &hostLogger{w: w},
		fb:     newHostFramebuffer(width, height),
		vp:     &hostViewport{w: width, h: height, scale: scale},
		loop:   NewLoop(nil),
		prefs:  hostPreferences{reducedMotion: cfg.ReducedMotion},
	}
}

func (h *hostHAL) Logger() Logger           { return h.logger }
func (h *hostHAL) Display() Display         { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Viewport() Viewport       { return h.vp }
func (h *hostHAL) Scheduler() Scheduler     { return h.loop }
func (h *hostHAL) Events() Events           { return h.loop }
func (h *hostHAL) Preferences() Preferences { return h.prefs }

// Poster queues events onto a host loop from any goroutine.
type Poster interface {
	Post(ev Event) bool
}

// PosterOf returns the event poster behind h, if it has one.
func PosterOf(h HAL) (Poster, bool) {
	if h == nil {
		return nil, false
	}
	p, ok := h.Events().(Poster)
	return p, ok
}

// resize updates the logical viewport and queues a resize event when it
// changed.
func (h *hostHAL) resize(w, ht int, scale float64) {
	if !h.vp.set(w, ht, scale) {
		return
	}
	h.loop.Post(Event{Kind: EventResize, X: float64(w), Y: float64(ht)})
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Surface(id string) Framebuffer {
	if id != SurfaceParticles || d.fb == nil {
		return nil
	}
	return d.fb
}

type hostViewport struct {
	mu    sync.Mutex
	w, h  int
	scale float64
}

func (v *hostViewport) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.w, v.h
}

func (v *hostViewport) DeviceScale() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.scale <= 0 {
		return 1
	}
	return v.scale
}

func (v *hostViewport) set(w, h int, scale float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.w == w && v.h == h && v.scale == scale {
		return false
	}
	v.w, v.h, v.scale = w, h, scale
	return true
}

type hostPreferences struct {
	reducedMotion bool
}

func (p hostPreferences) ReducedMotion() bool { return p.reducedMotion }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// present copies the surface into the host's scratch buffer and applies the
// overlay, returning the presented pixels.
func (h *hostHAL) present(cfg HostConfig, scratch []byte) ([]byte, int, int) {
	pix, w, ht := h.fb.snapshot(scratch)
	if cfg.Overlay != nil && w > 0 && ht > 0 {
		cfg.Overlay(pix, w, ht)
	}
	return pix, w, ht
}
