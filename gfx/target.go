package gfx

// Target is a minimal pixel target for software rendering.
//
// Implementations must clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	// Blend composites c onto the pixel at (x, y) with coverage cov in 0..1.
	Blend(x, y int, c Color, cov float64)
	Clear(c Color)
}

// RGBATarget renders into an RGBA8888 byte buffer.
//
// Callers provide the backing buffer and layout (stride); the type holds no
// other state and requires no host services.
type RGBATarget struct {
	Buf    []byte
	Stride int // bytes per row
	W      int
	H      int
}

// NewRGBATarget wraps buf, assuming tightly packed rows.
func NewRGBATarget(buf []byte, w, h int) *RGBATarget {
	return &RGBATarget{Buf: buf, Stride: w * 4, W: w, H: h}
}

func (t *RGBATarget) Size() (w, h int) { return t.W, t.H }

func (t *RGBATarget) valid() bool {
	return t != nil && t.Buf != nil && t.Stride > 0 && t.W > 0 && t.H > 0
}

func (t *RGBATarget) Clear(c Color) {
	if !t.valid() {
		return
	}
	for y := 0; y < t.H; y++ {
		row := y * t.Stride
		for x := 0; x < t.W; x++ {
			off := row + x*4
			if off < 0 || off+3 >= len(t.Buf) {
				continue
			}
			t.Buf[off] = c.R
			t.Buf[off+1] = c.G
			t.Buf[off+2] = c.B
			t.Buf[off+3] = 0xFF
		}
	}
}

func (t *RGBATarget) Blend(x, y int, c Color, cov float64) {
	if !t.valid() {
		return
	}
	if x < 0 || y < 0 || x >= t.W || y >= t.H {
		return
	}
	off := y*t.Stride + x*4
	if off < 0 || off+3 >= len(t.Buf) {
		return
	}
	p := t.Buf[off : off+4 : off+4]
	p[0], p[1], p[2] = Over(p[0], p[1], p[2], c, cov)
	p[3] = 0xFF
}

// At returns the pixel at (x, y), or the zero Color when out of bounds.
func (t *RGBATarget) At(x, y int) Color {
	if !t.valid() || x < 0 || y < 0 || x >= t.W || y >= t.H {
		return Color{}
	}
	off := y*t.Stride + x*4
	if off < 0 || off+3 >= len(t.Buf) {
		return Color{}
	}
	return Color{R: t.Buf[off], G: t.Buf[off+1], B: t.Buf[off+2], A: t.Buf[off+3]}
}

// FillRect blends c over the backing-pixel rectangle [x0,x1)x[y0,y1) without
// per-pixel interface calls.
func (t *RGBATarget) FillRect(x0, y0, x1, y1 int, c Color) {
	if !t.valid() || c.A == 0 {
		return
	}
	x0, y0 = clampInt(x0, 0, t.W), clampInt(y0, 0, t.H)
	x1, y1 = clampInt(x1, 0, t.W), clampInt(y1, 0, t.H)
	for y := y0; y < y1; y++ {
		row := y * t.Stride
		for x := x0; x < x1; x++ {
			off := row + x*4
			if off < 0 || off+3 >= len(t.Buf) {
				continue
			}
			p := t.Buf[off : off+4 : off+4]
			p[0], p[1], p[2] = Over(p[0], p[1], p[2], c, 1)
			p[3] = 0xFF
		}
	}
}
