package hal

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	HostConfig

	Enabled bool
	Hz      int
	Ticks   uint64
	Width   int
	Height  int
	Scale   float64
	// Orbit drives a synthetic pointer around the viewport center.
	Orbit bool
	// Snapshot, when set, receives a PNG of the last presented frame.
	Snapshot string
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHostHAL(cfg.HostConfig, cfg.Width, cfg.Height, cfg.Scale)
	step := newApp(h)

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	var err error
loop:
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break loop
		case <-t.C:
			if cfg.Orbit {
				h.loop.Post(orbitEvent(cfg.Width, cfg.Height, tick))
			}
			h.loop.Step()
			if step != nil {
				if serr := step(); serr != nil {
					if !errors.Is(serr, ErrQuit) {
						err = serr
					}
					break loop
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				break loop
			}
		}
	}

	if cfg.Snapshot != "" {
		if serr := writeSnapshot(h, cfg.HostConfig, cfg.Snapshot); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

func orbitEvent(w, h int, tick uint64) Event {
	a := float64(tick) * 0.02
	r := math.Min(float64(w), float64(h)) / 3
	return Event{
		Kind: EventPointerMove,
		X:    float64(w)/2 + r*math.Cos(a),
		Y:    float64(h)/2 + r*math.Sin(a),
	}
}

func writeSnapshot(h *hostHAL, cfg HostConfig, path string) error {
	pix, w, ht := h.present(cfg, nil)
	if w <= 0 || ht <= 0 {
		return errors.New("snapshot: empty surface")
	}
	img := &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, ht)}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("snapshot encode: %w", err)
	}
	return f.Close()
}
