package app

import (
	"fmt"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"nebula/gfx"
	"nebula/hal"
)

var (
	panicBackground = gfx.RGB(255, 255, 255)
	panicText       = gfx.RGB(0, 0, 0)
)

// guard runs fn and turns a panic into a logged report, a panic screen on
// the particle surface and an error that ends the host run loop.
func guard(h hal.HAL, fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		stack := debug.Stack()
		reportPanic(h, r, stack)
		err = fmt.Errorf("nebula panic: %v", r)
	}()
	return fn()
}

func reportPanic(h hal.HAL, value any, stack []byte) {
	lines := []string{"Nebula Panic:", fmt.Sprintf("panic: %v", value)}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, line)
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	if h == nil {
		return
	}
	if l := h.Logger(); l != nil {
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}

	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Surface(hal.SurfaceParticles)
	if fb == nil || fb.Format() != hal.PixelFormatRGBA8888 {
		return
	}
	t := &gfx.RGBATarget{Buf: fb.Buffer(), Stride: fb.StrideBytes(), W: fb.Width(), H: fb.Height()}
	drawPanicScreen(t, lines)
	_ = fb.Present()
}

func drawPanicScreen(t *gfx.RGBATarget, lines []string) {
	t.Clear(panicBackground)

	fontWidth := gfx.TextWidth("0")
	lh := gfx.LineHeight()
	if fontWidth <= 0 || lh <= 0 {
		return
	}
	cols := t.W / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := 0
	for _, line := range lines {
		for len(line) > 0 {
			if y+lh > t.H {
				return
			}
			chunk, rest := takeRunes(line, cols)
			gfx.DrawText(t, 0, y, chunk, panicText)
			y += lh
			line = strings.TrimLeft(rest, " ")
		}
	}
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
