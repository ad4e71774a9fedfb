package app

import (
	"context"
	"fmt"

	"nebula/hal"
	"nebula/particles"
	"nebula/remote"
)

type Config struct {
	// Theme names the starting color set ("dark" or "light").
	Theme string
	// ParticleCount overrides the default population when positive.
	ParticleCount int
	// RemoteAddr starts the websocket pointer feed when non-empty.
	RemoteAddr string
	// HUD, when set, receives stats every refresh. Install HUD.Draw as the
	// host overlay to show them.
	HUD *HUD
	// Context scopes the remote feed. Nil means context.Background.
	Context context.Context
}

type system struct {
	h   hal.HAL
	cfg Config
	ps  *particles.System
}

// New starts the particle field on h and returns the per-refresh step
// function. With reduced motion preferred the field is absent and the step
// function only keeps the host alive.
func New(h hal.HAL, cfg Config) func() error {
	s := newSystem(h, cfg)
	return func() error {
		return guard(h, s.step)
	}
}

func newSystem(h hal.HAL, cfg Config) *system {
	s := &system{h: h, cfg: cfg}

	pcfg := particles.DefaultConfig()
	if cfg.ParticleCount > 0 {
		pcfg.ParticleCount = cfg.ParticleCount
	}
	cs, ok := particles.ThemeByName(cfg.Theme)
	if !ok {
		logf(h, "unknown theme %q, using dark", cfg.Theme)
		cs = particles.ThemeDark
	}
	pcfg.Color, pcfg.ConnectionColor = cs.Base, cs.Connection

	s.ps = particles.InitWithConfig(h, pcfg)

	if cfg.RemoteAddr != "" {
		s.startRemote()
	}
	return s
}

func (s *system) startRemote() {
	post, ok := hal.PosterOf(s.h)
	if !ok {
		logf(s.h, "host cannot accept remote events")
		return
	}
	srv := remote.NewServer(post, s.h.Logger())
	if err := srv.Listen(s.cfg.RemoteAddr); err != nil {
		logf(s.h, "%v", err)
		return
	}
	if s.cfg.HUD != nil {
		s.cfg.HUD.setRemote(srv.Addr())
	}
	ctx := s.cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		if err := srv.Serve(ctx); err != nil {
			logf(s.h, "%v", err)
		}
	}()
}

func (s *system) step() error {
	if s.cfg.HUD != nil && s.ps != nil {
		s.cfg.HUD.update(s.ps.Stats(), s.ps.State())
	}
	return nil
}

func logf(h hal.HAL, format string, args ...any) {
	if h == nil {
		return
	}
	if l := h.Logger(); l != nil {
		l.WriteLineString("nebula: " + fmt.Sprintf(format, args...))
	}
}
