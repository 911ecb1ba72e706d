// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"
	"sort"

	"github.com/gogpu/canvas/curves"
)

// Polyline is a closed loop of straight line segments, usually produced by
// flattening a bezier subpath. Like BezierSubpath it pairs with a winding
// rule to form an edge.
type Polyline struct {
	points   []curves.Coord2
	space    Space1D[int]
	prepared bool

	minX, minY, maxX, maxY float64
}

// NewPolyline builds a polyline from points, closing the loop back to the
// first point if the caller has not.
func NewPolyline(points []curves.Coord2) *Polyline {
	p := &Polyline{
		points: append([]curves.Coord2(nil), points...),
		minX:   math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
	if n := len(p.points); n > 1 && p.points[n-1] != p.points[0] {
		p.points = append(p.points, p.points[0])
	}
	for _, pt := range p.points {
		p.minX = math.Min(p.minX, pt.X)
		p.minY = math.Min(p.minY, pt.Y)
		p.maxX = math.Max(p.maxX, pt.X)
		p.maxY = math.Max(p.maxY, pt.Y)
	}
	return p
}

// Len returns the number of segments in the loop.
func (p *Polyline) Len() int {
	if len(p.points) < 2 {
		return 0
	}
	return len(p.points) - 1
}

// Bounds returns the polyline's bounding box.
func (p *Polyline) Bounds() (minX, minY, maxX, maxY float64) {
	return p.minX, p.minY, p.maxX, p.maxY
}

// Prepare builds the scanline lookup index. The polyline must not be
// modified afterwards.
func (p *Polyline) Prepare() {
	if p.prepared {
		return
	}
	p.space = Space1D[int]{}
	for i := 0; i < p.Len(); i++ {
		y0, y1 := p.points[i].Y, p.points[i+1].Y
		p.space.Add(math.Min(y0, y1), math.Max(y0, y1), i)
	}
	p.space.build()
	p.prepared = true
}

// lineIntercept is a raw segment crossing before a winding rule is applied.
type lineIntercept struct {
	x       float64
	section int
	t       float64

	// descending is true when the segment runs top to bottom, which is
	// what decides the winding direction.
	descending bool
}

// interceptsOnLine appends the crossings of the horizontal line at y to dst
// in ascending x order. Segment y ranges are half open, so a crossing at a
// shared vertex is only reported for the segment that starts there.
func (p *Polyline) interceptsOnLine(y float64, dst []lineIntercept) []lineIntercept {
	if y < p.minY || y >= p.maxY {
		return dst
	}

	base := len(dst)
	var idxBuf [16]int
	for _, idx := range p.space.At(y, idxBuf[:0]) {
		p0, p1 := p.points[idx], p.points[idx+1]
		t := (y - p0.Y) / (p1.Y - p0.Y)
		dst = append(dst, lineIntercept{
			x:          p0.X + t*(p1.X-p0.X),
			section:    idx,
			t:          t,
			descending: p1.Y < p0.Y,
		})
	}
	found := dst[base:]
	sort.Slice(found, func(i, j int) bool { return found[i].x < found[j].x })
	return dst
}

// NonZeroEdge returns an edge that fills the polyline with the non-zero
// winding rule.
func (p *Polyline) NonZeroEdge(shape ShapeId) *PolylineNonZeroEdge {
	return &PolylineNonZeroEdge{shape: shape, polyline: p}
}

// EvenOddEdge returns an edge that fills the polyline with the even-odd
// winding rule.
func (p *Polyline) EvenOddEdge(shape ShapeId) *PolylineEvenOddEdge {
	return &PolylineEvenOddEdge{shape: shape, polyline: p}
}

// PolylineNonZeroEdge fills a polyline with the non-zero winding rule.
type PolylineNonZeroEdge struct {
	shape    ShapeId
	polyline *Polyline
}

// Shape identifies the shape this edge borders.
func (e *PolylineNonZeroEdge) Shape() ShapeId { return e.shape }

// Prepare readies the polyline for intercept lookups.
func (e *PolylineNonZeroEdge) Prepare() { e.polyline.Prepare() }

// Bounds returns the polyline's bounding box.
func (e *PolylineNonZeroEdge) Bounds() (minX, minY, maxX, maxY float64) {
	return e.polyline.Bounds()
}

// Intercepts appends the crossings for each scanline in ys to the matching
// slot of out.
func (e *PolylineNonZeroEdge) Intercepts(ys []float64, out [][]EdgeIntercept) {
	var buf []lineIntercept
	for i, y := range ys {
		buf = e.polyline.interceptsOnLine(y, buf[:0])
		for _, ic := range buf {
			// A descending segment has its normal pointing +x, so the
			// scanline is entering the shape; an ascending one is leaving.
			dir := DirectionIn
			if !ic.descending {
				dir = DirectionOut
			}
			out[i] = append(out[i], EdgeIntercept{
				Direction: dir,
				X:         ic.x,
				Position:  EdgePosition{Section: ic.section, T: ic.t},
			})
		}
	}
}

// PolylineEvenOddEdge fills a polyline with the even-odd winding rule.
type PolylineEvenOddEdge struct {
	shape    ShapeId
	polyline *Polyline
}

// Shape identifies the shape this edge borders.
func (e *PolylineEvenOddEdge) Shape() ShapeId { return e.shape }

// Prepare readies the polyline for intercept lookups.
func (e *PolylineEvenOddEdge) Prepare() { e.polyline.Prepare() }

// Bounds returns the polyline's bounding box.
func (e *PolylineEvenOddEdge) Bounds() (minX, minY, maxX, maxY float64) {
	return e.polyline.Bounds()
}

// Intercepts appends the crossings for each scanline in ys to the matching
// slot of out.
func (e *PolylineEvenOddEdge) Intercepts(ys []float64, out [][]EdgeIntercept) {
	var buf []lineIntercept
	for i, y := range ys {
		buf = e.polyline.interceptsOnLine(y, buf[:0])
		for _, ic := range buf {
			out[i] = append(out[i], EdgeIntercept{
				Direction: DirectionToggle,
				X:         ic.x,
				Position:  EdgePosition{Section: ic.section, T: ic.t},
			})
		}
	}
}

// RectangleEdge is an axis-aligned rectangle, the cheapest edge there is.
type RectangleEdge struct {
	shape          ShapeId
	x0, y0, x1, y1 float64
}

// NewRectangleEdge builds a rectangle edge covering [x0, x1) by [y0, y1).
// The coordinates are normalized so the bounds may be given in any order.
func NewRectangleEdge(shape ShapeId, x0, y0, x1, y1 float64) *RectangleEdge {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return &RectangleEdge{shape: shape, x0: x0, y0: y0, x1: x1, y1: y1}
}

// Shape identifies the shape this edge borders.
func (e *RectangleEdge) Shape() ShapeId { return e.shape }

// Prepare is a no-op; rectangles need no lookup structures.
func (e *RectangleEdge) Prepare() {}

// Bounds returns the rectangle.
func (e *RectangleEdge) Bounds() (minX, minY, maxX, maxY float64) {
	return e.x0, e.y0, e.x1, e.y1
}

// Intercepts appends the crossings for each scanline in ys to the matching
// slot of out. Every scanline inside the rectangle crosses it exactly
// twice.
func (e *RectangleEdge) Intercepts(ys []float64, out [][]EdgeIntercept) {
	for i, y := range ys {
		if y < e.y0 || y >= e.y1 {
			continue
		}
		out[i] = append(out[i],
			EdgeIntercept{Direction: DirectionToggle, X: e.x0},
			EdgeIntercept{Direction: DirectionToggle, X: e.x1, Position: EdgePosition{Section: 1}},
		)
	}
}
