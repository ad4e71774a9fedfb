//go:build cgo

package hal

import (
	"errors"

	"nebula/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindowConfig controls the desktop window host.
type WindowConfig struct {
	HostConfig

	Width  int
	Height int
	Title  string
}

// RunWindow starts a desktop window that presents the particle surface and
// forwards pointer, touch, focus and resize signals. It blocks until the
// window closes.
func RunWindow(cfg WindowConfig, newApp func(HAL) func() error) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Title == "" {
		cfg.Title = "Nebula"
	}

	scale := deviceScale()
	h := newHostHAL(cfg.HostConfig, cfg.Width, cfg.Height, scale)
	step := newApp(h)

	g := &hostGame{h: h, cfg: cfg, step: step}
	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	// Align Update with the display refresh, like an animation-frame callback.
	ebiten.SetTPS(ebiten.SyncWithFPS)

	err := ebiten.RunGame(g)
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

func deviceScale() float64 {
	m := ebiten.Monitor()
	if m == nil {
		return 1
	}
	if s := m.DeviceScaleFactor(); s > 0 {
		return s
	}
	return 1
}

type hostGame struct {
	h    *hostHAL
	cfg  WindowConfig
	step func() error

	ptr    hostPointer
	hidden bool

	scratch []byte
	img     *ebiten.Image
}

func (g *hostGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ErrQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.h.loop.Post(Event{Kind: EventKey, Rune: 't'})
	}

	hidden := ebiten.IsWindowMinimized() || !ebiten.IsFocused()
	if hidden != g.hidden {
		g.hidden = hidden
		g.h.loop.Post(Event{Kind: EventVisibility, Hidden: hidden})
	}

	w, h := g.h.vp.Size()
	g.ptr.poll(g.h.loop, w, h, g.h.vp.DeviceScale())

	g.h.loop.Step()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	pix, w, h := g.h.present(g.cfg.HostConfig, g.scratch)
	g.scratch = pix
	if w <= 0 || h <= 0 {
		return
	}

	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(w, h)
	}
	g.img.WritePixels(pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(w), float64(sh)/float64(h))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.img, op)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := deviceScale()
	g.h.resize(outsideWidth, outsideHeight, scale)
	return int(float64(outsideWidth) * scale), int(float64(outsideHeight) * scale)
}
