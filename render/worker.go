// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/ByteArena/poly2tri-go"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/curves"
	"github.com/gogpu/canvas/internal/stroke"
)

// Tessellation runs on worker goroutines: paths are flattened to polygonal
// contours at a tolerance derived from the canvas-to-pixel scale, contours
// are sorted into filled regions and holes by the active winding rule, and
// each region is triangulated into an indexed mesh. A path that cannot be
// triangulated produces an empty mesh and the layer skips the draw.

const (
	// tolerancePixels is the maximum distance, in device pixels, that a
	// flattened curve may stray from the true bezier.
	tolerancePixels = 0.25

	minTolerance = 0.0001
	maxTolerance = 1000.0

	// maxMeshVertices caps a single mesh at what a uint16 index buffer
	// can address.
	maxMeshVertices = 65535
)

// tessellationTolerance converts a canvas-to-pixel scale factor into a
// flattening tolerance in canvas units.
func tessellationTolerance(scaleFactor float32) float64 {
	sf := float64(scaleFactor)
	if sf <= 0 {
		sf = 1
	}
	tol := tolerancePixels / sf
	if tol < minTolerance {
		tol = minTolerance
	}
	if tol > maxTolerance {
		tol = maxTolerance
	}
	return tol
}

// meshPoint is a flattened contour point with its final texture
// coordinates.
type meshPoint struct {
	x, y float64
	tex  [2]float32
}

// tessellateFill triangulates the interior of a path. The returned mesh is
// empty when the path encloses no area or cannot be triangulated.
func tessellateFill(elements []stroke.PathElement, winding canvas.WindingRule, color [4]uint8, tolerance float64) ([]Vertex2D, []uint16) {
	contours := flattenFill(elements, tolerance)
	return buildMesh(contours, winding, color)
}

// tessellateStroke expands a path to its stroked outline and triangulates
// it. Texture coordinates carry the distance along the source path (in
// dash-pattern periods when a pattern is set, canvas units otherwise) and
// which side of the stroke each point lies on.
func tessellateStroke(elements []stroke.PathElement, settings strokeSettings, color [4]uint8, tolerance float64) ([]Vertex2D, []uint16) {
	if settings.width <= 0 || len(elements) == 0 {
		return nil, nil
	}

	expander := stroke.NewStrokeExpander(settings.expanderStyle())
	expander.SetTolerance(tolerance)
	outline, annots := expander.ExpandAnnotated(elements)
	if len(outline) == 0 {
		return nil, nil
	}

	patternLength := float64(dashPatternLength(settings.dashPattern))
	scale := 1.0
	if patternLength > 0 {
		scale = 1 / patternLength
	}
	offset := float64(settings.dashOffset)
	texFor := func(a stroke.Annotation) [2]float32 {
		return [2]float32{float32((a.Advance + offset) * scale), float32(a.Side)}
	}

	contours := flattenOutline(outline, annots, tolerance, texFor)

	// The expanded outline winds consistently, so self-overlapping strokes
	// union correctly under the non-zero rule.
	return buildMesh(contours, canvas.WindingRuleNonZero, color)
}

// contourBuilder accumulates flattened contours, dropping repeated points
// and degenerate contours.
type contourBuilder struct {
	contours [][]meshPoint
	current  []meshPoint
}

const dedupeEpsilonSq = 1e-12

func (b *contourBuilder) start(p meshPoint) {
	b.finish()
	b.current = append(b.current, p)
}

func (b *contourBuilder) push(p meshPoint) {
	if n := len(b.current); n > 0 {
		dx := b.current[n-1].x - p.x
		dy := b.current[n-1].y - p.y
		if dx*dx+dy*dy < dedupeEpsilonSq {
			return
		}
	}
	b.current = append(b.current, p)
}

func (b *contourBuilder) finish() {
	pts := b.current
	b.current = nil

	// Drop an explicit closing point that repeats the start.
	if n := len(pts); n > 1 {
		dx := pts[n-1].x - pts[0].x
		dy := pts[n-1].y - pts[0].y
		if dx*dx+dy*dy < dedupeEpsilonSq {
			pts = pts[:n-1]
		}
	}
	if len(pts) < 3 {
		return
	}
	b.contours = append(b.contours, pts)
}

// flattenFill converts a path into closed polygonal contours.
func flattenFill(elements []stroke.PathElement, tolerance float64) [][]meshPoint {
	var b contourBuilder
	var last stroke.Point
	var start stroke.Point

	emit := func(x, y, _ float64) {
		b.push(meshPoint{x: x, y: y})
	}

	for _, el := range elements {
		switch e := el.(type) {
		case stroke.MoveTo:
			b.start(meshPoint{x: e.Point.X, y: e.Point.Y})
			last = e.Point
			start = e.Point
		case stroke.LineTo:
			b.push(meshPoint{x: e.Point.X, y: e.Point.Y})
			last = e.Point
		case stroke.QuadTo:
			flattenCurve(quadAsCubic(last, e.Control, e.Point), tolerance, emit)
			last = e.Point
		case stroke.CubicTo:
			flattenCurve(cubicCurve(last, e.Control1, e.Control2, e.Point), tolerance, emit)
			last = e.Point
		case stroke.Close:
			b.finish()
			b.start(meshPoint{x: start.X, y: start.Y})
			last = start
		}
	}
	b.finish()
	return b.contours
}

// flattenOutline converts an annotated stroke outline into closed contours,
// interpolating annotations across flattened curve segments.
func flattenOutline(elements []stroke.PathElement, annots []stroke.Annotation, tolerance float64, texFor func(stroke.Annotation) [2]float32) [][]meshPoint {
	var b contourBuilder
	var last stroke.Point
	var prev stroke.Annotation

	for i, el := range elements {
		a := annots[i]
		switch e := el.(type) {
		case stroke.MoveTo:
			b.start(meshPoint{x: e.Point.X, y: e.Point.Y, tex: texFor(a)})
			last = e.Point
			prev = a
		case stroke.LineTo:
			b.push(meshPoint{x: e.Point.X, y: e.Point.Y, tex: texFor(a)})
			last = e.Point
			prev = a
		case stroke.QuadTo:
			flattenAnnotatedCurve(&b, quadAsCubic(last, e.Control, e.Point), prev, a, tolerance, texFor)
			last = e.Point
			prev = a
		case stroke.CubicTo:
			flattenAnnotatedCurve(&b, cubicCurve(last, e.Control1, e.Control2, e.Point), prev, a, tolerance, texFor)
			last = e.Point
			prev = a
		case stroke.Close:
			b.finish()
		}
	}
	b.finish()
	return b.contours
}

func flattenAnnotatedCurve(b *contourBuilder, c curves.Curve, from, to stroke.Annotation, tolerance float64, texFor func(stroke.Annotation) [2]float32) {
	flattenCurve(c, tolerance, func(x, y, t float64) {
		a := stroke.Annotation{
			Advance: from.Advance + (to.Advance-from.Advance)*t,
			Side:    from.Side + (to.Side-from.Side)*t,
		}
		b.push(meshPoint{x: x, y: y, tex: texFor(a)})
	})
}

func cubicCurve(p0 stroke.Point, c1, c2, p1 stroke.Point) curves.Curve {
	return curves.Curve{
		Start: curves.C2(p0.X, p0.Y),
		Cp1:   curves.C2(c1.X, c1.Y),
		Cp2:   curves.C2(c2.X, c2.Y),
		End:   curves.C2(p1.X, p1.Y),
	}
}

// quadAsCubic elevates a quadratic bezier to its exact cubic form.
func quadAsCubic(p0, control, p1 stroke.Point) curves.Curve {
	c1 := stroke.Point{X: p0.X + 2.0/3.0*(control.X-p0.X), Y: p0.Y + 2.0/3.0*(control.Y-p0.Y)}
	c2 := stroke.Point{X: p1.X + 2.0/3.0*(control.X-p1.X), Y: p1.Y + 2.0/3.0*(control.Y-p1.Y)}
	return cubicCurve(p0, c1, c2, p1)
}

// flattenCurve emits line endpoints approximating the curve within the
// tolerance, with the curve parameter at each endpoint. The curve's start
// point is not emitted.
func flattenCurve(c curves.Curve, tolerance float64, emit func(x, y, t float64)) {
	flattenCurveRange(c, 0, 1, tolerance, emit)
}

func flattenCurveRange(c curves.Curve, t0, t1, tolerance float64, emit func(x, y, t float64)) {
	if c.Flatness() <= tolerance {
		emit(c.End.X, c.End.Y, t1)
		return
	}
	left, right := c.Subdivide(0.5)
	mid := (t0 + t1) / 2
	flattenCurveRange(left, t0, mid, tolerance, emit)
	flattenCurveRange(right, mid, t1, tolerance, emit)
}

// contourInfo is the classification of one contour relative to the others.
type contourInfo struct {
	points  []meshPoint
	area    float64
	depth   int // number of other contours containing this one
	winding int // sum of containing contours' orientations
	isOuter bool
	isHole  bool
	owner   int // region index for holes
}

// classifyContours decides which contours bound filled regions and which
// cut holes, under the given winding rule, and assigns each hole to its
// enclosing region.
func classifyContours(contours [][]meshPoint, winding canvas.WindingRule) []contourInfo {
	infos := make([]contourInfo, 0, len(contours))
	for _, pts := range contours {
		area := contourArea(pts)
		if area == 0 {
			continue
		}
		infos = append(infos, contourInfo{points: pts, area: area, owner: -1})
	}

	// Containment by ray-casting a representative vertex. Contours from a
	// flattened path rarely number more than a handful, so the quadratic
	// pass is fine.
	containers := make([][]int, len(infos))
	for i := range infos {
		p := infos[i].points[0]
		for j := range infos {
			if i == j {
				continue
			}
			if contourContains(infos[j].points, p.x, p.y) {
				containers[i] = append(containers[i], j)
				infos[i].depth++
				infos[i].winding += orientation(infos[j].area)
			}
		}
	}

	for i := range infos {
		switch winding {
		case canvas.WindingRuleEvenOdd:
			if infos[i].depth%2 == 0 {
				infos[i].isOuter = true
			} else {
				infos[i].isHole = true
			}
		default:
			outside := infos[i].winding
			inside := outside + orientation(infos[i].area)
			switch {
			case outside == 0 && inside != 0:
				infos[i].isOuter = true
			case outside != 0 && inside == 0:
				infos[i].isHole = true
			}
			// Contours wound the same way as an enclosing region add
			// nothing under the non-zero rule and are dropped.
		}
	}

	// A hole belongs to the innermost region that contains it.
	for i := range infos {
		if !infos[i].isHole {
			continue
		}
		best := -1
		bestDepth := -1
		for _, j := range containers[i] {
			if infos[j].isOuter && infos[j].depth > bestDepth {
				best = j
				bestDepth = infos[j].depth
			}
		}
		infos[i].owner = best
	}
	return infos
}

func orientation(area float64) int {
	if area > 0 {
		return 1
	}
	return -1
}

// contourArea returns twice the signed area of the contour, positive for
// counterclockwise winding.
func contourArea(points []meshPoint) float64 {
	area := 0.0
	j := len(points) - 1
	for i := range points {
		area += points[j].x*points[i].y - points[i].x*points[j].y
		j = i
	}
	return area
}

// contourContains reports whether (x, y) is inside the contour, by the
// even-odd crossing rule.
func contourContains(points []meshPoint, x, y float64) bool {
	inside := false
	j := len(points) - 1
	for i := range points {
		pi, pj := points[i], points[j]
		if (pi.y > y) != (pj.y > y) {
			cross := pi.x + (y-pi.y)/(pj.y-pi.y)*(pj.x-pi.x)
			if x < cross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// meshBuilder accumulates the indexed triangle mesh, deduplicating
// vertices by position.
type meshBuilder struct {
	vertices []Vertex2D
	indices  []uint16
	index    map[[2]float64]int
	tex      map[[2]float64][2]float32
	color    [4]uint8
	overflow bool
}

func newMeshBuilder(color [4]uint8) *meshBuilder {
	return &meshBuilder{
		index: make(map[[2]float64]int),
		tex:   make(map[[2]float64][2]float32),
		color: color,
	}
}

// registerContour converts a contour for the triangulator, remembering
// each position's texture coordinates for when triangles come back.
func (b *meshBuilder) registerContour(points []meshPoint) []*poly2tri.Point {
	out := make([]*poly2tri.Point, len(points))
	for i, p := range points {
		key := [2]float64{p.x, p.y}
		if _, ok := b.tex[key]; !ok {
			b.tex[key] = p.tex
		}
		out[i] = poly2tri.NewPoint(p.x, p.y)
	}
	return out
}

func (b *meshBuilder) vertexAt(x, y float64) int {
	key := [2]float64{x, y}
	if i, ok := b.index[key]; ok {
		return i
	}
	if len(b.vertices) >= maxMeshVertices {
		b.overflow = true
		return 0
	}
	i := len(b.vertices)
	b.vertices = append(b.vertices, Vertex2D{
		Pos:      [2]float32{float32(x), float32(y)},
		TexCoord: b.tex[key],
		Color:    b.color,
	})
	b.index[key] = i
	return i
}

// triangulateRegion triangulates one filled region with its holes into the
// mesh. The triangulator panics on input it cannot handle (such as
// self-intersecting contours); those regions are skipped.
func (b *meshBuilder) triangulateRegion(outer []meshPoint, holes [][]meshPoint) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	swctx := poly2tri.NewSweepContext(b.registerContour(outer), false)
	for _, hole := range holes {
		swctx.AddHole(b.registerContour(hole))
	}
	swctx.Triangulate()

	for _, tri := range swctx.GetTriangles() {
		i0 := b.vertexAt(tri.Points[0].X, tri.Points[0].Y)
		i1 := b.vertexAt(tri.Points[1].X, tri.Points[1].Y)
		i2 := b.vertexAt(tri.Points[2].X, tri.Points[2].Y)
		if b.overflow {
			return false
		}
		if i0 == i1 || i1 == i2 || i0 == i2 {
			continue
		}
		b.indices = append(b.indices, uint16(i0), uint16(i1), uint16(i2))
	}
	return true
}

// buildMesh classifies the contours and triangulates every filled region.
func buildMesh(contours [][]meshPoint, winding canvas.WindingRule, color [4]uint8) ([]Vertex2D, []uint16) {
	if len(contours) == 0 {
		return nil, nil
	}

	infos := classifyContours(contours, winding)
	b := newMeshBuilder(color)
	for i := range infos {
		if !infos[i].isOuter {
			continue
		}
		var holes [][]meshPoint
		for j := range infos {
			if infos[j].isHole && infos[j].owner == i {
				holes = append(holes, infos[j].points)
			}
		}
		b.triangulateRegion(infos[i].points, holes)
		if b.overflow {
			return nil, nil
		}
	}
	if len(b.indices) == 0 {
		return nil, nil
	}
	return b.vertices, b.indices
}
