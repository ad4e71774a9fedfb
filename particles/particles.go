// Package particles implements an interactive pseudo-3D particle field.
//
// A System keeps a population of drifting points at simulated depths, renders
// them each frame with a perspective-scaled size and opacity, links nearby
// pairs with fading lines, and pushes points away from the pointer. Frames are
// capped at 60 per second against the host's refresh callbacks, the population
// is halved on narrow viewports, and the animation pauses while the host is
// hidden.
//
// All work runs on the host loop's execution context; see hal.Scheduler.
package particles

import "nebula/hal"

// Init starts the particle field on the host's well-known surface with the
// default configuration. It returns nil, without side effects beyond a log
// line, when the user prefers reduced motion or the host cannot support the
// animation.
func Init(h hal.HAL) *System {
	return InitWithConfig(h, DefaultConfig())
}

// InitWithConfig is Init with a caller-supplied configuration.
func InitWithConfig(h hal.HAL, cfg Config) *System {
	if h == nil {
		return nil
	}
	if p := h.Preferences(); p != nil && p.ReducedMotion() {
		if l := h.Logger(); l != nil {
			l.WriteLineString("particles: reduced motion preferred, particles disabled")
		}
		return nil
	}
	s := New(h, hal.SurfaceParticles, cfg)
	if !s.Active() {
		return nil
	}
	return s
}
