// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/gogpu/canvas"
)

// layerBounds is an axis-aligned bounding box in a layer's own coordinate
// space. The zero area box at +/-infinity marks undefined bounds (an empty
// layer); undefined bounds absorb nothing and combine to the other side.
type layerBounds struct {
	minX, minY float32
	maxX, maxY float32
}

func undefinedBounds() layerBounds {
	inf := float32(math.Inf(1))
	return layerBounds{minX: inf, minY: inf, maxX: float32(math.Inf(-1)), maxY: float32(math.Inf(-1))}
}

func (b layerBounds) isUndefined() bool {
	return b.minX > b.maxX || b.minY > b.maxY
}

func (b layerBounds) addPoint(x, y float32) layerBounds {
	if x < b.minX {
		b.minX = x
	}
	if y < b.minY {
		b.minY = y
	}
	if x > b.maxX {
		b.maxX = x
	}
	if y > b.maxY {
		b.maxY = y
	}
	return b
}

// combine unions two bounding boxes.
func (b layerBounds) combine(other layerBounds) layerBounds {
	if other.isUndefined() {
		return b
	}
	if b.isUndefined() {
		return other
	}
	b = b.addPoint(other.minX, other.minY)
	b = b.addPoint(other.maxX, other.maxY)
	return b
}

// transform maps the bounds through a 2D transform, returning the box of
// the four transformed corners.
func (b layerBounds) transform(t canvas.Transform2D) layerBounds {
	if b.isUndefined() {
		return b
	}
	out := undefinedBounds()
	corners := [4]canvas.Point{
		{X: b.minX, Y: b.minY},
		{X: b.maxX, Y: b.minY},
		{X: b.minX, Y: b.maxY},
		{X: b.maxX, Y: b.maxY},
	}
	for _, c := range corners {
		p := t.Transform(c)
		out = out.addPoint(p.X, p.Y)
	}
	return out
}

// inflate grows the bounds by a radius on every side.
func (b layerBounds) inflate(radius float32) layerBounds {
	if b.isUndefined() || radius <= 0 {
		return b
	}
	b.minX -= radius
	b.minY -= radius
	b.maxX += radius
	b.maxY += radius
	return b
}

// clip intersects two bounding boxes. The result is undefined if they do
// not overlap.
func (b layerBounds) clip(other layerBounds) layerBounds {
	if b.isUndefined() || other.isUndefined() {
		return undefinedBounds()
	}
	out := layerBounds{
		minX: maxf(b.minX, other.minX),
		minY: maxf(b.minY, other.minY),
		maxX: minf(b.maxX, other.maxX),
		maxY: minf(b.maxY, other.maxY),
	}
	if out.isUndefined() {
		return undefinedBounds()
	}
	return out
}

// toViewportPixels converts clip-space bounds (-1..1 on both axes) to
// pixel coordinates for a viewport of the given size.
func (b layerBounds) toViewportPixels(size Size2D) layerBounds {
	if b.isUndefined() {
		return b
	}
	w := float32(size.Width)
	h := float32(size.Height)
	return layerBounds{
		minX: (b.minX + 1) / 2 * w,
		minY: (b.minY + 1) / 2 * h,
		maxX: (b.maxX + 1) / 2 * w,
		maxY: (b.maxY + 1) / 2 * h,
	}
}

// toViewportCoordinates converts pixel bounds back to clip space.
func (b layerBounds) toViewportCoordinates(size Size2D) layerBounds {
	if b.isUndefined() {
		return b
	}
	w := float32(size.Width)
	h := float32(size.Height)
	return layerBounds{
		minX: b.minX/w*2 - 1,
		minY: b.minY/h*2 - 1,
		maxX: b.maxX/w*2 - 1,
		maxY: b.maxY/h*2 - 1,
	}
}

// snapToPixels expands the bounds outward to whole pixels.
func (b layerBounds) snapToPixels() layerBounds {
	if b.isUndefined() {
		return b
	}
	return layerBounds{
		minX: float32(math.Floor(float64(b.minX))),
		minY: float32(math.Floor(float64(b.minY))),
		maxX: float32(math.Ceil(float64(b.maxX))),
		maxY: float32(math.Ceil(float64(b.maxY))),
	}
}

// boundsFromSprite converts declared sprite bounds into layer bounds.
func boundsFromSprite(s canvas.SpriteBounds) layerBounds {
	b := undefinedBounds()
	b = b.addPoint(s.X, s.Y)
	b = b.addPoint(s.X+s.Width, s.Y+s.Height)
	return b
}

func (b layerBounds) width() float32  { return b.maxX - b.minX }
func (b layerBounds) height() float32 { return b.maxY - b.minY }

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
