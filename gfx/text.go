package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var textFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// textBaseline is the distance from a line's top to its baseline.
const textBaseline = 9

// Displayer adapts a Target to the tinygo display driver contract so font
// renderers can draw into it.
type Displayer struct {
	T Target
}

var _ drivers.Displayer = Displayer{}

func (d Displayer) Size() (x, y int16) {
	if d.T == nil {
		return 0, 0
	}
	w, h := d.T.Size()
	return int16(w), int16(h)
}

func (d Displayer) SetPixel(x, y int16, c color.RGBA) {
	if d.T == nil {
		return
	}
	d.T.Blend(int(x), int(y), Color{R: c.R, G: c.G, B: c.B, A: 0xFF}, 1)
}

func (d Displayer) Display() error { return nil }

// DrawText writes s with its top-left corner at (x, y) in target pixels.
func DrawText(t Target, x, y int, s string, c Color) {
	if t == nil || s == "" {
		return
	}
	tinyfont.WriteLine(Displayer{T: t}, textFont, int16(x), int16(y+textBaseline), s, c.RGBA8())
}

// TextWidth returns the rendered width of s in pixels.
func TextWidth(s string) int {
	_, w := tinyfont.LineWidth(textFont, s)
	return int(w)
}

// LineHeight returns the vertical advance of one text line in pixels.
func LineHeight() int {
	return int(textFont.GetYAdvance())
}
