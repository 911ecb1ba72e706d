package curves

import (
	"math"
	"sort"
)

const (
	// intersectTolerance is the parameter accuracy of reported
	// intersections.
	intersectTolerance = 1e-6

	// clipBudget caps the total work spent on one curve pair, which
	// bounds the pathological cases (overlapping collinear sections
	// never converge to point intersections).
	clipBudget = 10000
)

// CurveIntersections returns the parameter pairs (t1, t2) at which two
// curves cross, found by fat-line clipping with subdivision as the
// fallback when clipping stops making progress. Coincident curves are
// not reported as crossings.
func CurveIntersections(c1, c2 Curve) [][2]float64 {
	if !c1.BoundingBox().Overlaps(c2.BoundingBox()) {
		return nil
	}
	if curvesCoincide(c1, c2) {
		return nil
	}

	budget := clipBudget
	var found [][2]float64
	clipIntersect(c1, c2, tRange{0, 1}, tRange{0, 1}, false, &budget, &found)
	return dedupeIntersections(found)
}

type tRange struct {
	lo, hi float64
}

func (r tRange) size() float64 { return r.hi - r.lo }
func (r tRange) mid() float64  { return (r.lo + r.hi) / 2 }

// lerp maps a local parameter within this range back to the original
// curve's parameter space.
func (r tRange) lerp(t float64) float64 { return r.lo + (r.hi-r.lo)*t }

// clipIntersect narrows the sections of c1 and c2 that can intersect.
// r1 and r2 are the parameter ranges the sections cover on the original
// curves; swapped tracks whether c1 is a section of the second original
// curve, so results are always emitted as (t1, t2).
func clipIntersect(c1, c2 Curve, r1, r2 tRange, swapped bool, budget *int, found *[][2]float64) {
	if *budget <= 0 {
		return
	}
	*budget--

	if !c1.BoundingBox().Overlaps(c2.BoundingBox()) {
		return
	}
	if r1.size() < intersectTolerance && r2.size() < intersectTolerance {
		t1, t2 := r1.mid(), r2.mid()
		if swapped {
			t1, t2 = t2, t1
		}
		*found = append(*found, [2]float64{t1, t2})
		return
	}

	lo, hi, ok := clipToFatLine(c1, c2)
	if !ok {
		return
	}

	clipped := c1.Section(lo, hi)
	newR1 := tRange{r1.lerp(lo), r1.lerp(hi)}

	if hi-lo > 0.8 {
		if curvesCollinear(clipped, c2) {
			// Overlapping collinear sections intersect over a range,
			// not at isolated points, and never converge.
			return
		}
		// Clipping is no longer converging: subdivide whichever curve
		// still covers the larger parameter range.
		if newR1.size() > r2.size() {
			left, right := clipped.Subdivide(0.5)
			mid := newR1.mid()
			clipIntersect(left, c2, tRange{newR1.lo, mid}, r2, swapped, budget, found)
			clipIntersect(right, c2, tRange{mid, newR1.hi}, r2, swapped, budget, found)
		} else {
			left, right := c2.Subdivide(0.5)
			mid := r2.mid()
			clipIntersect(clipped, left, newR1, tRange{r2.lo, mid}, swapped, budget, found)
			clipIntersect(clipped, right, newR1, tRange{mid, r2.hi}, swapped, budget, found)
		}
		return
	}

	// Swap roles so the other curve is clipped next.
	clipIntersect(c2, clipped, r2, newR1, !swapped, budget, found)
}

// clipToFatLine returns the parameter range of c that can lie within
// the fat line around against (the line through its endpoints, widened
// to cover its control points). ok is false when no part of c can.
func clipToFatLine(c, against Curve) (lo, hi float64, ok bool) {
	nx, ny, nc := baseLine(against)

	// Distances of the fat line's own control points bound its width.
	d1 := nx*against.Cp1.X + ny*against.Cp1.Y + nc
	d2 := nx*against.Cp2.X + ny*against.Cp2.Y + nc
	var k float64
	if d1*d2 > 0 {
		k = 3.0 / 4.0
	} else {
		k = 4.0 / 9.0
	}
	dmin := k * math.Min(0, math.Min(d1, d2))
	dmax := k * math.Max(0, math.Max(d1, d2))

	// The distance of c from the line is itself a cubic bezier in t,
	// with these weights at t = 0, 1/3, 2/3, 1. The curve stays inside
	// the convex hull of the weight points, so clipping the hull to the
	// band [dmin, dmax] bounds the parameter range of any crossing.
	hull := convexHull([4]hullPoint{
		{0, nx*c.Start.X + ny*c.Start.Y + nc},
		{1.0 / 3.0, nx*c.Cp1.X + ny*c.Cp1.Y + nc},
		{2.0 / 3.0, nx*c.Cp2.X + ny*c.Cp2.Y + nc},
		{1, nx*c.End.X + ny*c.End.Y + nc},
	})
	hull = clipHull(hull, dmin, false)
	hull = clipHull(hull, dmax, true)
	if len(hull) == 0 {
		return 0, 0, false
	}

	lo, hi = hull[0].t, hull[0].t
	for _, p := range hull[1:] {
		lo = math.Min(lo, p.t)
		hi = math.Max(hi, p.t)
	}
	return lo, hi, true
}

// baseLine returns the normalised implicit line nx*x + ny*y + nc = 0
// through a curve's endpoints.
func baseLine(c Curve) (nx, ny, nc float64) {
	d := c.End.Sub(c.Start)
	length := d.Magnitude()
	if length < 1e-12 {
		// Degenerate curve: measure distances vertically.
		return 0, 1, -c.Start.Y
	}
	nx, ny = -d.Y/length, d.X/length
	return nx, ny, -(nx*c.Start.X + ny*c.Start.Y)
}

type hullPoint struct {
	t, d float64
}

// convexHull builds the hull of four points already ordered by t.
func convexHull(pts [4]hullPoint) []hullPoint {
	turn := func(o, a, b hullPoint) float64 {
		return (a.t-o.t)*(b.d-o.d) - (a.d-o.d)*(b.t-o.t)
	}

	var lower []hullPoint
	for _, p := range pts {
		for len(lower) >= 2 && turn(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []hullPoint
	for i := 3; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && turn(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := lower[:len(lower)-1]
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

// clipHull keeps the part of a convex polygon on one side of a
// horizontal line: d >= limit when above is false, d <= limit when
// above is true.
func clipHull(hull []hullPoint, limit float64, above bool) []hullPoint {
	if len(hull) == 0 {
		return nil
	}
	inside := func(p hullPoint) bool {
		if above {
			return p.d <= limit
		}
		return p.d >= limit
	}

	var out []hullPoint
	prev := hull[len(hull)-1]
	for _, cur := range hull {
		curIn, prevIn := inside(cur), inside(prev)
		if curIn != prevIn {
			// The edge crosses the limit line.
			f := (limit - prev.d) / (cur.d - prev.d)
			out = append(out, hullPoint{prev.t + (cur.t-prev.t)*f, limit})
		}
		if curIn {
			out = append(out, cur)
		}
		prev = cur
	}
	return out
}

// curvesCollinear reports whether c1 is straight and every weight of
// both curves lies on its base line.
func curvesCollinear(c1, c2 Curve) bool {
	nx, ny, nc := baseLine(c1)
	const flat = 1e-12
	for _, p := range []Coord2{c1.Cp1, c1.Cp2, c2.Start, c2.Cp1, c2.Cp2, c2.End} {
		if math.Abs(nx*p.X+ny*p.Y+nc) > flat {
			return false
		}
	}
	return true
}

// curvesCoincide reports whether the curves have the same control
// points, in either direction.
func curvesCoincide(c1, c2 Curve) bool {
	same := c1.Start.IsNearTo(c2.Start, SmallDistance) &&
		c1.Cp1.IsNearTo(c2.Cp1, SmallDistance) &&
		c1.Cp2.IsNearTo(c2.Cp2, SmallDistance) &&
		c1.End.IsNearTo(c2.End, SmallDistance)
	if same {
		return true
	}
	return c1.Start.IsNearTo(c2.End, SmallDistance) &&
		c1.Cp1.IsNearTo(c2.Cp2, SmallDistance) &&
		c1.Cp2.IsNearTo(c2.Cp1, SmallDistance) &&
		c1.End.IsNearTo(c2.Start, SmallDistance)
}

// dedupeIntersections merges intersections that subdivision reported
// from both sides of a split point.
func dedupeIntersections(found [][2]float64) [][2]float64 {
	if len(found) < 2 {
		return found
	}
	sort.Slice(found, func(a, b int) bool {
		if found[a][0] != found[b][0] {
			return found[a][0] < found[b][0]
		}
		return found[a][1] < found[b][1]
	})

	const mergeDistance = 1e-3
	out := found[:1]
	for _, f := range found[1:] {
		last := out[len(out)-1]
		if math.Abs(f[0]-last[0]) < mergeDistance && math.Abs(f[1]-last[1]) < mergeDistance {
			continue
		}
		out = append(out, f)
	}
	return out
}
