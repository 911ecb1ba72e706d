// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"fmt"
	"math"
	"sort"

	"github.com/gogpu/canvas/curves"
)

// Curve flattening limits tuned for output at around 4k resolution.
const (
	// FlattenDetail is the segment length below which flattening stops
	// subdividing.
	FlattenDetail = 2.0 / 4000.0

	// FlattenFlatness is the maximum distance a curve may stray from the
	// line between its endpoints before it is subdivided.
	FlattenFlatness = 2.0 / 4000.0
)

// minCurveDistance is the control polygon length below which a curve is
// dropped while building a subpath: such curves are far smaller than any
// pixel and their roots are numerically unreliable.
const minCurveDistance = 1e-6

// BezierSubpath is a closed loop of cubic bezier sections that can report
// where horizontal scanlines cross it. Pair it with a winding rule to get
// an edge for an EdgePlan: NonZeroEdge or EvenOddEdge.
type BezierSubpath struct {
	sections []subpathSection
	space    Space1D[int]
	prepared bool

	minX, minY, maxX, maxY float64
}

// subpathSection is one cubic section, stored as separate x and y basis
// weights so scanline crossings can be solved on the y polynomial alone.
type subpathSection struct {
	// yMin and yMax bound the section vertically, interior extrema
	// included.
	yMin, yMax float64

	wx [4]float64
	wy [4]float64

	// wdy holds the basis weights of the y derivative.
	wdy [3]float64
}

func makeSection(c curves.Curve) subpathSection {
	bounds := c.BoundingBox()
	s := subpathSection{
		yMin: bounds.Min.Y,
		yMax: bounds.Max.Y,
		wx:   [4]float64{c.Start.X, c.Cp1.X, c.Cp2.X, c.End.X},
		wy:   [4]float64{c.Start.Y, c.Cp1.Y, c.Cp2.Y, c.End.Y},
	}
	s.refreshDerivative()
	return s
}

func (s *subpathSection) refreshDerivative() {
	s.wdy[0] = 3 * (s.wy[1] - s.wy[0])
	s.wdy[1] = 3 * (s.wy[2] - s.wy[1])
	s.wdy[2] = 3 * (s.wy[3] - s.wy[2])
}

// curve reconstructs the section as a curve for subdivision and length
// measurements.
func (s *subpathSection) curve() curves.Curve {
	return curves.Curve{
		Start: curves.C2(s.wx[0], s.wy[0]),
		Cp1:   curves.C2(s.wx[1], s.wy[1]),
		Cp2:   curves.C2(s.wx[2], s.wy[2]),
		End:   curves.C2(s.wx[3], s.wy[3]),
	}
}

// sideAt returns the sign of the curve normal's x component at t. The
// normal x component is the negated y tangent, so this tells a scanline
// whether it is entering or leaving the shape at a crossing.
func (s *subpathSection) sideAt(t float64) float64 {
	tangentY := deCasteljau3(t, s.wdy[0], s.wdy[1], s.wdy[2])
	if math.Signbit(-tangentY) {
		return -1
	}
	return 1
}

func deCasteljau2(t, w1, w2 float64) float64 {
	return w1*(1-t) + w2*t
}

func deCasteljau3(t, w1, w2, w3 float64) float64 {
	return deCasteljau2(t, deCasteljau2(t, w1, w2), deCasteljau2(t, w2, w3))
}

func deCasteljau4(t, w1, w2, w3, w4 float64) float64 {
	return deCasteljau3(t, deCasteljau2(t, w1, w2), deCasteljau2(t, w2, w3), deCasteljau2(t, w3, w4))
}

// SubpathFromCurves builds a subpath from a list of curve sections. The
// sections must join end to start and the last must return to the first's
// start point; an end point within minCurveDistance of the start is snapped
// onto it. Sections shorter than minCurveDistance are dropped.
func SubpathFromCurves(sections []curves.Curve) (*BezierSubpath, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("raster: subpath needs at least one curve")
	}

	sub := &BezierSubpath{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
	start := sections[0].Start
	last := start

	for _, c := range sections {
		c.Start = last
		if last.IsNearTo(c.End, minCurveDistance) && c.ControlPolygonLength() <= minCurveDistance {
			continue
		}
		last = c.End

		sec := makeSection(c)
		bounds := c.BoundingBox()
		sub.minX = math.Min(sub.minX, bounds.Min.X)
		sub.minY = math.Min(sub.minY, bounds.Min.Y)
		sub.maxX = math.Max(sub.maxX, bounds.Max.X)
		sub.maxY = math.Max(sub.maxY, bounds.Max.Y)
		sub.sections = append(sub.sections, sec)
	}

	if len(sub.sections) == 0 {
		return nil, fmt.Errorf("raster: subpath has no sections longer than %g", minCurveDistance)
	}

	// Snap an almost-closed loop shut so rays cannot escape through the
	// gap; a loop that is actually open is an error.
	if last != start {
		if !last.IsNearTo(start, minCurveDistance) {
			return nil, fmt.Errorf("raster: subpath is not closed (end %v does not meet start %v)", last, start)
		}
		final := &sub.sections[len(sub.sections)-1]
		final.wx[3] = start.X
		final.wy[3] = start.Y
		final.refreshDerivative()
	}

	return sub, nil
}

// SubpathFromPath builds a subpath from a closed path.
func SubpathFromPath(path *curves.Path) (*BezierSubpath, error) {
	return SubpathFromCurves(path.Curves())
}

// Bounds returns the subpath's bounding box.
func (s *BezierSubpath) Bounds() (minX, minY, maxX, maxY float64) {
	return s.minX, s.minY, s.maxX, s.maxY
}

// Prepare builds the scanline lookup index. It only needs to run once; the
// subpath must not be modified afterwards.
func (s *BezierSubpath) Prepare() {
	if s.prepared {
		return
	}
	s.space = Space1D[int]{}
	for i := range s.sections {
		s.space.Add(s.sections[i].yMin, s.sections[i].yMax, i)
	}
	s.space.build()
	s.prepared = true
}

// subpathIntercept is a raw crossing before a winding rule is applied.
type subpathIntercept struct {
	x       float64
	section int
	t       float64
}

// interceptsOnLine appends the crossings of the horizontal line at y to dst
// in ascending x order.
//
// Crossings that land on the boundary between two sections are found twice,
// once at the end of one section and once at the start of the next. A pair
// of crossings closer together than veryCloseX collapses to one when the
// sections are neighbours in the loop, the curve is on the same side of the
// line at both, and there is next to no arc length between them.
func (s *BezierSubpath) interceptsOnLine(y float64, dst []subpathIntercept) []subpathIntercept {
	const veryCloseX = 1e-6
	const minControlPolygonLength = 1e-6

	if y < s.minY || y >= s.maxY {
		return dst
	}

	base := len(dst)
	var idxBuf [8]int
	for _, idx := range s.space.At(y, idxBuf[:0]) {
		sec := &s.sections[idx]
		for _, t := range curves.SolveBasis(sec.wy[0], sec.wy[1], sec.wy[2], sec.wy[3], y) {
			dst = append(dst, subpathIntercept{
				x:       deCasteljau4(t, sec.wx[0], sec.wx[1], sec.wx[2], sec.wx[3]),
				section: idx,
				t:       t,
			})
		}
	}
	found := dst[base:]
	sort.Slice(found, func(i, j int) bool { return found[i].x < found[j].x })

	if len(found) > 1 {
		for i := 0; i < len(found)-1; i++ {
			j := i + 1
			for j < len(found) && math.Abs(found[i].x-found[j].x) <= veryCloseX {
				prev, next := found[i], found[j]
				if !s.neighbouringSections(prev.section, next.section) {
					j++
					continue
				}
				prevSec := &s.sections[prev.section]
				nextSec := &s.sections[next.section]
				if prevSec.sideAt(prev.t) != nextSec.sideAt(next.t) {
					j++
					continue
				}

				// Measure the loop arc between the two crossings; when it
				// is negligible they are the same crossing seen from both
				// sections. Adjacency is cyclic so the arc across the
				// loop's closing join measures as zero too.
				var overlapLength float64
				var degenerate bool
				if (prev.section+1)%len(s.sections) == next.section {
					overlapLength = prevSec.curve().Section(prev.t, 1).ControlPolygonLength() +
						nextSec.curve().Section(0, next.t).ControlPolygonLength()
					degenerate = prev.t >= 1 && next.t <= 0
				} else {
					overlapLength = prevSec.curve().Section(0, prev.t).ControlPolygonLength() +
						nextSec.curve().Section(next.t, 1).ControlPolygonLength()
					degenerate = prev.t <= 0 && next.t >= 1
				}
				if overlapLength < minControlPolygonLength || degenerate {
					found = append(found[:j], found[j+1:]...)
				} else {
					j++
				}
			}
		}
	}

	// A scanline exactly through a vertical extremum touches the loop
	// without crossing it, which leaves an odd count that would wedge the
	// winding state. The touch is the crossing with no vertical motion.
	if len(found)%2 == 1 {
		drop, minTangent := 0, math.Inf(1)
		for i, ic := range found {
			sec := &s.sections[ic.section]
			tangent := math.Abs(deCasteljau3(ic.t, sec.wdy[0], sec.wdy[1], sec.wdy[2]))
			if tangent < minTangent {
				drop, minTangent = i, tangent
			}
		}
		found = append(found[:drop], found[drop+1:]...)
	}

	return dst[:base+len(found)]
}

func (s *BezierSubpath) neighbouringSections(a, b int) bool {
	if a == 0 && b == len(s.sections)-1 {
		return true
	}
	if b == 0 && a == len(s.sections)-1 {
		return true
	}
	return a-b == 1 || b-a == 1
}

// NonZeroEdge returns an edge that fills the subpath with the non-zero
// winding rule.
func (s *BezierSubpath) NonZeroEdge(shape ShapeId) *SubpathNonZeroEdge {
	return &SubpathNonZeroEdge{shape: shape, subpath: s}
}

// EvenOddEdge returns an edge that fills the subpath with the even-odd
// winding rule.
func (s *BezierSubpath) EvenOddEdge(shape ShapeId) *SubpathEvenOddEdge {
	return &SubpathEvenOddEdge{shape: shape, subpath: s}
}

// SubpathNonZeroEdge fills a bezier subpath with the non-zero winding rule:
// each crossing counts in or out according to the side of the scanline the
// curve normal points to.
type SubpathNonZeroEdge struct {
	shape   ShapeId
	subpath *BezierSubpath
}

// Shape identifies the shape this edge borders.
func (e *SubpathNonZeroEdge) Shape() ShapeId { return e.shape }

// Prepare readies the subpath for intercept lookups.
func (e *SubpathNonZeroEdge) Prepare() { e.subpath.Prepare() }

// Bounds returns the subpath's bounding box.
func (e *SubpathNonZeroEdge) Bounds() (minX, minY, maxX, maxY float64) {
	return e.subpath.Bounds()
}

// Intercepts appends the crossings for each scanline in ys to the matching
// slot of out.
func (e *SubpathNonZeroEdge) Intercepts(ys []float64, out [][]EdgeIntercept) {
	var buf []subpathIntercept
	for i, y := range ys {
		buf = e.subpath.interceptsOnLine(y, buf[:0])
		for _, ic := range buf {
			dir := DirectionIn
			if e.subpath.sections[ic.section].sideAt(ic.t) <= 0 {
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

// SubpathEvenOddEdge fills a bezier subpath with the even-odd winding rule:
// every crossing toggles containment.
type SubpathEvenOddEdge struct {
	shape   ShapeId
	subpath *BezierSubpath
}

// Shape identifies the shape this edge borders.
func (e *SubpathEvenOddEdge) Shape() ShapeId { return e.shape }

// Prepare readies the subpath for intercept lookups.
func (e *SubpathEvenOddEdge) Prepare() { e.subpath.Prepare() }

// Bounds returns the subpath's bounding box.
func (e *SubpathEvenOddEdge) Bounds() (minX, minY, maxX, maxY float64) {
	return e.subpath.Bounds()
}

// Intercepts appends the crossings for each scanline in ys to the matching
// slot of out.
func (e *SubpathEvenOddEdge) Intercepts(ys []float64, out [][]EdgeIntercept) {
	var buf []subpathIntercept
	for i, y := range ys {
		buf = e.subpath.interceptsOnLine(y, buf[:0])
		for _, ic := range buf {
			out[i] = append(out[i], EdgeIntercept{
				Direction: DirectionToggle,
				X:         ic.x,
				Position:  EdgePosition{Section: ic.section, T: ic.t},
			})
		}
	}
}

// Flatten approximates the subpath with a polyline. Subdivision stops once
// a section strays less than flatness from a straight line or is shorter
// than minLength.
func (s *BezierSubpath) Flatten(minLength, flatness float64) *Polyline {
	points := make([]curves.Coord2, 0, len(s.sections)*4)
	points = append(points, curves.C2(s.sections[0].wx[0], s.sections[0].wy[0]))
	for i := range s.sections {
		points = flattenCurve(s.sections[i].curve(), minLength, flatness, points)
	}
	return NewPolyline(points)
}

// FlattenedNonZeroEdge flattens the subpath at the default detail level and
// fills it with the non-zero winding rule.
func (s *BezierSubpath) FlattenedNonZeroEdge(shape ShapeId) *PolylineNonZeroEdge {
	return s.Flatten(FlattenDetail, FlattenFlatness).NonZeroEdge(shape)
}

// FlattenedEvenOddEdge flattens the subpath at the default detail level and
// fills it with the even-odd winding rule.
func (s *BezierSubpath) FlattenedEvenOddEdge(shape ShapeId) *PolylineEvenOddEdge {
	return s.Flatten(FlattenDetail, FlattenFlatness).EvenOddEdge(shape)
}

// flattenCurve subdivides c until every piece is flat or short, appending
// the end point of each piece to dst.
func flattenCurve(c curves.Curve, minLength, flatness float64, dst []curves.Coord2) []curves.Coord2 {
	stack := make([]curves.Curve, 1, 16)
	stack[0] = c
	for len(stack) > 0 {
		section := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		flat := section.Flatness() < flatness
		short := section.Start.IsNearTo(section.End, minLength) &&
			section.Start.IsNearTo(section.PointAt(0.5), minLength)
		if flat || short {
			dst = append(dst, section.End)
		} else {
			lhs, rhs := section.Subdivide(0.5)
			stack = append(stack, rhs, lhs)
		}
	}
	return dst
}
