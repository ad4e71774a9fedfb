package gfx

import "math"

// Painter draws in logical coordinates onto a Target whose pixels are Scale
// times denser than the logical space.
type Painter struct {
	T     Target
	Scale float64
}

// NewPainter returns a Painter for t. A non-positive scale means 1.
func NewPainter(t Target, scale float64) *Painter {
	return &Painter{T: t, Scale: scale}
}

func (p *Painter) scale() float64 {
	if p.Scale <= 0 {
		return 1
	}
	return p.Scale
}

type rectFiller interface {
	FillRect(x0, y0, x1, y1 int, c Color)
}

// FillRect composites c over the logical rectangle (x, y, w, h).
func (p *Painter) FillRect(x, y, w, h float64, c Color) {
	if p == nil || p.T == nil || c.A == 0 || w <= 0 || h <= 0 {
		return
	}
	s := p.scale()
	tw, th := p.T.Size()
	x0 := clampInt(int(math.Floor(x*s)), 0, tw)
	y0 := clampInt(int(math.Floor(y*s)), 0, th)
	x1 := clampInt(int(math.Ceil((x+w)*s)), 0, tw)
	y1 := clampInt(int(math.Ceil((y+h)*s)), 0, th)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	if f, ok := p.T.(rectFiller); ok {
		f.FillRect(x0, y0, x1, y1, c)
		return
	}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			p.T.Blend(px, py, c, 1)
		}
	}
}

// FillCircle draws a disc of logical radius r centered at (cx, cy). Edge
// pixels get fractional coverage.
func (p *Painter) FillCircle(cx, cy, r float64, c Color) {
	if p == nil || p.T == nil || c.A == 0 || r <= 0 {
		return
	}
	s := p.scale()
	bx, by, br := cx*s, cy*s, r*s
	tw, th := p.T.Size()
	x0 := clampInt(int(math.Floor(bx-br-1)), 0, tw)
	y0 := clampInt(int(math.Floor(by-br-1)), 0, th)
	x1 := clampInt(int(math.Ceil(bx+br+1)), 0, tw)
	y1 := clampInt(int(math.Ceil(by+br+1)), 0, th)
	for py := y0; py < y1; py++ {
		dy := float64(py) + 0.5 - by
		for px := x0; px < x1; px++ {
			dx := float64(px) + 0.5 - bx
			cov := br + 0.5 - math.Sqrt(dx*dx+dy*dy)
			if cov <= 0 {
				continue
			}
			if cov > 1 {
				cov = 1
			}
			p.T.Blend(px, py, c, cov)
		}
	}
}

// StrokeLine draws an anti-aliased line. Widths under one backing pixel are
// rendered as a hairline with proportionally reduced coverage.
func (p *Painter) StrokeLine(x0, y0, x1, y1, width float64, c Color) {
	if p == nil || p.T == nil || c.A == 0 || width <= 0 {
		return
	}
	s := p.scale()
	k := width * s
	if k > 1 {
		k = 1
	}
	// Sample at pixel centers.
	ax, ay := x0*s-0.5, y0*s-0.5
	bx, by := x1*s-0.5, y1*s-0.5

	steep := math.Abs(by-ay) > math.Abs(bx-ax)
	if steep {
		ax, ay = ay, ax
		bx, by = by, bx
	}
	if ax > bx {
		ax, bx = bx, ax
		ay, by = by, ay
	}
	plot := func(x, y int, cov float64) {
		if steep {
			x, y = y, x
		}
		p.T.Blend(x, y, c, cov)
	}

	dx := bx - ax
	grad := 1.0
	if dx > 0 {
		grad = (by - ay) / dx
	}
	start := int(math.Round(ax))
	end := int(math.Round(bx))
	for x := start; x <= end; x++ {
		y := ay + grad*(float64(x)-ax)
		iy := math.Floor(y)
		f := y - iy
		plot(x, int(iy), (1-f)*k)
		plot(x, int(iy)+1, f*k)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
