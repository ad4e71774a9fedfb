package particles

import (
	"math"

	"nebula/gfx"
)

// Canvas is the drawing surface a frame renders onto, in logical coordinates.
type Canvas interface {
	FillRect(x, y, w, h float64, c gfx.Color)
	FillCircle(cx, cy, r float64, c gfx.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c gfx.Color)
}

var _ Canvas = (*gfx.Painter)(nil)

// Particle is the simulation state of one point. The System keeps particles
// by value in a single slice.
type Particle struct {
	X, Y float64
	// Z is the simulated distance from the viewer, always in [1, 1000].
	Z float64

	SpeedX, SpeedY, SpeedZ float64

	Size    float64
	Opacity float64
	Color   gfx.Color
}

// ProjectionScale returns the size and opacity multiplier for depth z. It is
// strictly decreasing in z.
func ProjectionScale(z float64) float64 {
	return perspective / (perspective + z)
}

// newParticle places a particle uniformly in a w x h area.
func newParticle(rnd func() float64, w, h float64, cfg Config) Particle {
	return Particle{
		X:       rnd() * w,
		Y:       rnd() * h,
		Z:       minDepth + rnd()*(maxDepth-minDepth),
		SpeedX:  (rnd() - 0.5) * 0.5,
		SpeedY:  (rnd() - 0.5) * 0.5,
		SpeedZ:  (rnd() - 0.5) * 2,
		Size:    cfg.Size,
		Opacity: rnd()*0.5 + 0.2,
		Color:   cfg.Color,
	}
}

// Advance moves the particle one step within a w x h area and returns its
// projection scale. When hasPointer is set, a particle closer than radius to
// ptr is pushed directly away from it.
func (p *Particle) Advance(ptr Point, hasPointer bool, radius, w, h float64) float64 {
	p.Z += p.SpeedZ
	// Depth cycles; it does not bounce.
	if p.Z < minDepth {
		p.Z = maxDepth
	}
	if p.Z > maxDepth {
		p.Z = minDepth
	}
	scale := ProjectionScale(p.Z)

	p.X += p.SpeedX
	p.Y += p.SpeedY

	if hasPointer && radius > 0 {
		dx := ptr.X - p.X
		dy := ptr.Y - p.Y
		if d := math.Hypot(dx, dy); d < radius {
			force := (radius - d) / radius
			angle := math.Atan2(dy, dx)
			p.X -= math.Cos(angle) * force * repulsionStrength
			p.Y -= math.Sin(angle) * force * repulsionStrength
		}
	}

	p.X = wrap(p.X, w)
	p.Y = wrap(p.Y, h)
	return scale
}

// Render draws the particle as a disc shrunk and faded by scale.
func (p *Particle) Render(c Canvas, scale float64) {
	r := math.Max(p.Size*scale, minRadius)
	c.FillCircle(p.X, p.Y, r, p.Color.WithOpacity(p.Opacity*scale))
}

// wrap teleports v to the opposite edge of [0, max).
func wrap(v, max float64) float64 {
	if v < 0 {
		return math.Nextafter(max, 0)
	}
	if v >= max {
		return 0
	}
	return v
}
