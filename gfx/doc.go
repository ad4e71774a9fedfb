// Package gfx provides a small, predictable 2D software rasterizer.
//
// It draws filled rectangles, anti-aliased discs and hairlines into a
// caller-provided Target using source-over blending on 8-bit channels. A
// Painter maps logical coordinates onto the Target's backing pixels with a
// uniform scale, which is how callers account for display pixel density.
//
// The package does not allocate in the draw hot path and has no dependency on
// any host or window system.
package gfx
