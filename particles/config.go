package particles

import (
	"strings"
	"time"

	"nebula/gfx"
)

const (
	// perspective is the projection constant P in scale = P / (P + z).
	perspective = 800

	minDepth = 1
	maxDepth = 1000

	// repulsionStrength is the displacement at zero distance from the pointer.
	repulsionStrength = 3

	minRadius = 0.5

	connectionAlpha = 0.3
	connectionWidth = 0.5

	// trailAlpha controls how quickly old frames fade out.
	trailAlpha = 0.1

	maxDeviceScale = 2

	// Viewports narrower than this get half the configured population.
	compactWidth = 768

	targetFPS     = 60
	frameInterval = time.Second / targetFPS

	resizeQuiescence = 250 * time.Millisecond
	pointerThrottle  = 16 * time.Millisecond
)

// Background is the page color painted under the fading trail.
var Background = gfx.RGB(7, 10, 19)

// ColorSet is the themable part of the configuration.
type ColorSet struct {
	Base       gfx.Color
	Connection gfx.Color
}

var (
	ThemeDark  = ColorSet{Base: gfx.RGB(79, 70, 229), Connection: gfx.RGB(79, 70, 229)}
	ThemeLight = ColorSet{Base: gfx.RGB(99, 102, 241), Connection: gfx.RGB(99, 102, 241)}
)

// ThemeByName returns the named color set. Unknown names report false.
func ThemeByName(name string) (ColorSet, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dark":
		return ThemeDark, true
	case "light":
		return ThemeLight, true
	default:
		return ColorSet{}, false
	}
}

// Config is fixed at construction. Only the color fields change afterwards,
// through System.UpdateTheme.
type Config struct {
	ParticleCount      int
	Color              gfx.Color
	ConnectionDistance float64
	ConnectionColor    gfx.Color
	Size               float64
	PointerRadius      float64
}

// DefaultConfig is the configuration Init uses.
func DefaultConfig() Config {
	return Config{
		ParticleCount:      100,
		Color:              ThemeDark.Base,
		ConnectionDistance: 150,
		ConnectionColor:    ThemeDark.Connection,
		Size:               2.5,
		PointerRadius:      180,
	}
}

// withDefaults fills zero fields with the fallback values.
func (c Config) withDefaults() Config {
	if c.ParticleCount <= 0 {
		c.ParticleCount = 80
	}
	if c.Color == (gfx.Color{}) {
		c.Color = ThemeDark.Base
	}
	if c.ConnectionDistance <= 0 {
		c.ConnectionDistance = 120
	}
	if c.ConnectionColor == (gfx.Color{}) {
		c.ConnectionColor = c.Color
	}
	if c.Size <= 0 {
		c.Size = 2
	}
	if c.PointerRadius <= 0 {
		c.PointerRadius = 150
	}
	return c
}

// populationFor returns how many particles a viewport of logical width w gets.
func (c Config) populationFor(w int) int {
	if w < compactWidth {
		return c.ParticleCount / 2
	}
	return c.ParticleCount
}
