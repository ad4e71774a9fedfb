package hal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
)

// TerminalConfig controls the terminal host.
type TerminalConfig struct {
	HostConfig

	Hz int
}

// halfBlock paints the upper pixel of a cell in the foreground color and the
// lower one in the background color.
const halfBlock = '▀'

// RunTerminal renders the particle surface into the terminal, two vertical
// pixels per cell. It blocks until ctx is done, the user quits, or the step
// function fails.
func RunTerminal(ctx context.Context, newApp func(HAL) func() error, cfg TerminalConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Log == nil {
		// Anything written to stdout would tear the screen.
		cfg.Log = io.Discard
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	cols, rows := screen.Size()
	h := newHostHAL(cfg.HostConfig, cols, rows*2, 1)
	step := newApp(h)

	term := &termHost{h: h, cfg: cfg.HostConfig, screen: screen, quit: make(chan struct{})}
	go term.pollEvents()

	t := time.NewTicker(time.Second / time.Duration(cfg.Hz))
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-term.quit:
			return nil
		case <-t.C:
			h.loop.Step()
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrQuit) {
						return nil
					}
					return err
				}
			}
			term.draw()
		}
	}
}

type termHost struct {
	h      *hostHAL
	cfg    HostConfig
	screen tcell.Screen

	quit     chan struct{}
	quitOnce atomic.Bool
	resized  atomic.Bool

	scratch []byte
}

func (t *termHost) requestQuit() {
	if t.quitOnce.CompareAndSwap(false, true) {
		close(t.quit)
	}
}

// pollEvents runs on its own goroutine and only posts into the loop inbox.
func (t *termHost) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		if !t.translate(ev) {
			t.requestQuit()
			return
		}
	}
}

// translate maps one terminal event onto host events and reports whether the
// host should keep running.
func (t *termHost) translate(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return false
			}
			t.h.loop.Post(Event{Kind: EventKey, Rune: ev.Rune()})
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.h.loop.Post(cellPointerEvent(x, y))
	case *tcell.EventFocus:
		if !ev.Focused {
			t.h.loop.Post(Event{Kind: EventPointerLeave})
		}
		t.h.loop.Post(Event{Kind: EventVisibility, Hidden: !ev.Focused})
	case *tcell.EventResize:
		cols, rows := ev.Size()
		t.h.resize(cols, rows*2, 1)
		t.resized.Store(true)
	}
	return true
}

// cellPointerEvent places the pointer in the middle of the cell's two pixels.
func cellPointerEvent(col, row int) Event {
	return Event{Kind: EventPointerMove, X: float64(col) + 0.5, Y: float64(row)*2 + 1}
}

func (t *termHost) draw() {
	if t.resized.CompareAndSwap(true, false) {
		t.screen.Sync()
	}

	pix, w, h := t.h.present(t.cfg, t.scratch)
	t.scratch = pix
	if w <= 0 || h <= 0 {
		return
	}

	cols, rows := t.screen.Size()
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			top := termPixel(pix, w, h, cx, cy*2)
			bot := termPixel(pix, w, h, cx, cy*2+1)
			style := tcell.StyleDefault.Foreground(top).Background(bot)
			t.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	t.screen.Show()
}

func termPixel(pix []byte, w, h, x, y int) tcell.Color {
	if x < 0 || y < 0 || x >= w || y >= h {
		return tcell.ColorBlack
	}
	off := (y*w + x) * 4
	if off+2 >= len(pix) {
		return tcell.ColorBlack
	}
	return tcell.NewRGBColor(int32(pix[off]), int32(pix[off+1]), int32(pix[off+2]))
}
