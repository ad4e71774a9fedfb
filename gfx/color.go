package gfx

import "image/color"

// Color is an RGBA color in 8-bit straight (non-premultiplied) channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

func (c Color) WithAlpha(a uint8) Color { c.A = a; return c }

// WithOpacity replaces the alpha channel with o in 0..1.
func (c Color) WithOpacity(o float64) Color {
	c.A = unit8(o)
	return c
}

// Opacity returns the alpha channel as 0..1.
func (c Color) Opacity() float64 { return float64(c.A) / 255 }

// Scale multiplies the alpha channel by s in 0..1.
func (c Color) Scale(s float64) Color {
	return c.WithOpacity(c.Opacity() * s)
}

// RGBA8 converts to the standard library representation used by font and
// display drivers. Alpha is dropped to opaque since those targets do not blend.
func (c Color) RGBA8() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// Over composites src onto dst with coverage cov in 0..1 and returns the
// resulting opaque pixel channels.
func Over(dr, dg, db uint8, src Color, cov float64) (r, g, b uint8) {
	a := uint32(unit8(src.Opacity() * cov))
	if a == 0 {
		return dr, dg, db
	}
	inv := 255 - a
	mix := func(d, s uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*inv + 127) / 255)
	}
	return mix(dr, src.R), mix(dg, src.G), mix(db, src.B)
}

func unit8(f float64) uint8 {
	if !(f > 0) {
		return 0
	}
	if f >= 1 {
		return 0xFF
	}
	return uint8(f*255 + 0.5)
}
