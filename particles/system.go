package particles

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"nebula/gfx"
	"nebula/hal"
)

// State is the run state of a System.
type State uint8

const (
	// StateUninitialized is the inert state of a System that could not bind
	// to its host. It is terminal.
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats describes recent animation work.
type Stats struct {
	Particles      int
	FramesRendered uint64
	FramesSkipped  uint64
	Rebuilds       uint64
	// Pairs and Connections describe the last rendered frame.
	Pairs       int
	Connections int
	// FPS is the rendered frame rate over the last full second.
	FPS float64
}

// System owns a particle population bound to one drawing surface and drives
// its per-frame update, render and connection pass.
type System struct {
	cfg Config

	log   hal.Logger
	fb    hal.Framebuffer
	vp    hal.Viewport
	sched hal.Scheduler

	canvas  Canvas
	pointer *Tracker
	lc      *lifecycle

	particles     []Particle
	width, height float64
	scale         float64

	bound    bool
	state    State
	frame    hal.Handle
	tickFn   func(time.Duration)
	lastTime time.Duration
	interval time.Duration

	rnd func() float64

	stats     Stats
	fpsStart  time.Duration
	fpsFrames int
}

// New binds a System to the surface named surfaceID and starts it. When the
// host lacks the surface, a viewport, a scheduler or an event source, the
// returned System is inert: every method is a safe no-op.
func New(h hal.HAL, surfaceID string, cfg Config) *System {
	s := &System{
		cfg:      cfg.withDefaults(),
		pointer:  &Tracker{},
		interval: frameInterval,
		rnd:      rand.Float64,
	}
	s.tickFn = s.tick
	if h == nil {
		return s
	}
	s.log = h.Logger()

	var events hal.Events
	if d := h.Display(); d != nil {
		s.fb = d.Surface(surfaceID)
	}
	s.vp = h.Viewport()
	s.sched = h.Scheduler()
	events = h.Events()
	switch {
	case s.fb == nil || s.fb.Format() != hal.PixelFormatRGBA8888:
		s.logf("surface %q unavailable", surfaceID)
		return s
	case s.vp == nil, s.sched == nil, events == nil:
		s.logf("host lacks viewport, scheduler or events; disabled")
		return s
	}

	s.bound = true
	s.Resize()
	s.lc = newLifecycle(s, events, s.sched)
	s.Start()
	return s
}

func (s *System) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString("particles: " + fmt.Sprintf(format, args...))
}

// Active reports whether the System is bound to a host.
func (s *System) Active() bool { return s != nil && s.bound }

func (s *System) State() State { return s.state }

// Pointer returns the tracker the System reads each frame.
func (s *System) Pointer() *Tracker { return s.pointer }

// Size returns the logical simulation area.
func (s *System) Size() (w, h float64) { return s.width, s.height }

// Config returns the current configuration.
func (s *System) Config() Config { return s.cfg }

func (s *System) Stats() Stats {
	st := s.stats
	st.Particles = len(s.particles)
	return st
}

// Resize matches the backing store to the viewport and rebuilds the
// population for the new size. Old particles are discarded.
func (s *System) Resize() {
	if !s.bound {
		return
	}
	s.resizeSurface()
	s.createParticles()
}

func (s *System) resizeSurface() {
	scale := math.Min(s.vp.DeviceScale(), maxDeviceScale)
	if !(scale > 0) {
		scale = 1
	}
	w, h := s.vp.Size()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	s.fb.Resize(int(float64(w)*scale), int(float64(h)*scale))
	s.fb.ClearRGB(Background.R, Background.G, Background.B)
	s.width, s.height = float64(w), float64(h)
	s.scale = scale

	target := &gfx.RGBATarget{
		Buf:    s.fb.Buffer(),
		Stride: s.fb.StrideBytes(),
		W:      s.fb.Width(),
		H:      s.fb.Height(),
	}
	s.canvas = gfx.NewPainter(target, scale)
}

func (s *System) createParticles() {
	n := s.cfg.populationFor(int(s.width))
	if cap(s.particles) < n {
		s.particles = make([]Particle, n)
	}
	s.particles = s.particles[:n]
	for i := range s.particles {
		s.particles[i] = newParticle(s.rnd, s.width, s.height, s.cfg)
	}
	s.stats.Rebuilds++
}

// Start resumes the animation. It is a no-op when already running.
func (s *System) Start() {
	if !s.bound || s.state == StateRunning {
		return
	}
	s.state = StateRunning
	s.lastTime = s.sched.Now()
	s.fpsStart, s.fpsFrames = s.lastTime, 0
	s.tick(s.lastTime)
}

// Stop halts the animation and revokes the pending frame.
func (s *System) Stop() {
	if !s.bound {
		return
	}
	s.state = StateStopped
	if s.frame != 0 {
		s.sched.CancelFrame(s.frame)
		s.frame = 0
	}
}

// Close stops the System and detaches it from host events. It stays inert.
func (s *System) Close() {
	if !s.bound {
		return
	}
	s.Stop()
	if s.lc != nil {
		s.lc.close()
		s.lc = nil
	}
	s.bound = false
	s.state = StateUninitialized
}

// UpdateTheme replaces the configured colors and recolors every particle.
func (s *System) UpdateTheme(cs ColorSet) {
	s.cfg.Color = cs.Base
	s.cfg.ConnectionColor = cs.Connection
	for i := range s.particles {
		s.particles[i].Color = cs.Base
	}
}

// tick is the frame callback. It keeps itself scheduled while running and
// renders only when a full frame interval has elapsed; the remainder carries
// over so the cadence does not drift.
func (s *System) tick(now time.Duration) {
	if s.state != StateRunning {
		return
	}
	s.frame = s.sched.RequestFrame(s.tickFn)

	elapsed := now - s.lastTime
	if elapsed < s.interval {
		s.stats.FramesSkipped++
		return
	}
	s.lastTime = now - elapsed%s.interval
	s.frameGuarded(now)
}

// frameGuarded renders one frame. A panic disables the System instead of
// reaching the host loop.
func (s *System) frameGuarded(now time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.logf("frame panic: %v; animation disabled", r)
			s.Close()
		}
	}()

	s.renderFrame()
	s.stats.FramesRendered++

	s.fpsFrames++
	if d := now - s.fpsStart; d >= time.Second {
		s.stats.FPS = float64(s.fpsFrames) / d.Seconds()
		s.fpsStart, s.fpsFrames = now, 0
	}
}

func (s *System) renderFrame() {
	// Translucent fill instead of a clear leaves motion trails.
	s.canvas.FillRect(0, 0, s.width, s.height, Background.WithOpacity(trailAlpha))

	ptr, ok := s.pointer.Get()
	for i := range s.particles {
		p := &s.particles[i]
		scale := p.Advance(ptr, ok, s.cfg.PointerRadius, s.width, s.height)
		p.Render(s.canvas, scale)
	}

	// Every particle has moved before the proximity pass.
	s.drawConnections()
	_ = s.fb.Present()
}

// drawConnections links each unordered pair closer than the connection
// distance, fading the line with distance. It is O(n^2) in the population.
func (s *System) drawConnections() {
	maxD := s.cfg.ConnectionDistance
	pairs, drawn := 0, 0
	for i := 0; i < len(s.particles); i++ {
		a := &s.particles[i]
		for j := i + 1; j < len(s.particles); j++ {
			b := &s.particles[j]
			pairs++
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if d >= maxD {
				continue
			}
			alpha := (1 - d/maxD) * connectionAlpha
			s.canvas.StrokeLine(a.X, a.Y, b.X, b.Y, connectionWidth, s.cfg.ConnectionColor.WithOpacity(alpha))
			drawn++
		}
	}
	s.stats.Pairs = pairs
	s.stats.Connections = drawn
}
