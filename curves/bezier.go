package curves

import "math"

// Curve is a cubic bezier curve section.
type Curve struct {
	Start, Cp1, Cp2, End Coord2
}

// DeCasteljau2 interpolates between two basis weights.
func DeCasteljau2(t float64, w1, w2 Coord2) Coord2 {
	return w1.Lerp(w2, t)
}

// DeCasteljau3 evaluates a quadratic bezier with the weights w1..w3.
func DeCasteljau3(t float64, w1, w2, w3 Coord2) Coord2 {
	return DeCasteljau2(t, w1.Lerp(w2, t), w2.Lerp(w3, t))
}

// DeCasteljau4 evaluates a cubic bezier with the weights w1..w4.
func DeCasteljau4(t float64, w1, w2, w3, w4 Coord2) Coord2 {
	return DeCasteljau3(t, w1.Lerp(w2, t), w2.Lerp(w3, t), w3.Lerp(w4, t))
}

// Derivative4 returns the quadratic basis weights of a cubic bezier's
// derivative.
func Derivative4(w1, w2, w3, w4 Coord2) (Coord2, Coord2, Coord2) {
	return w2.Sub(w1).Mul(3), w3.Sub(w2).Mul(3), w4.Sub(w3).Mul(3)
}

// PointAt returns the position on the curve at parameter t.
func (c Curve) PointAt(t float64) Coord2 {
	return DeCasteljau4(t, c.Start, c.Cp1, c.Cp2, c.End)
}

// Subdivide splits the curve at t into two sections that together trace
// the same shape.
func (c Curve) Subdivide(t float64) (Curve, Curve) {
	p12 := c.Start.Lerp(c.Cp1, t)
	p23 := c.Cp1.Lerp(c.Cp2, t)
	p34 := c.Cp2.Lerp(c.End, t)
	p123 := p12.Lerp(p23, t)
	p234 := p23.Lerp(p34, t)
	mid := p123.Lerp(p234, t)
	return Curve{c.Start, p12, p123, mid}, Curve{mid, p234, p34, c.End}
}

// Section returns the part of the curve between parameters t1 and t2
// (with 0 <= t1 <= t2 <= 1), reparameterised over [0, 1].
func (c Curve) Section(t1, t2 float64) Curve {
	if t1 > 0 {
		if t1 >= 1 {
			p := c.PointAt(1)
			return Curve{p, p, p, p}
		}
		_, c = c.Subdivide(t1)
		t2 = (t2 - t1) / (1 - t1)
	}
	if t2 < 1 {
		c, _ = c.Subdivide(t2)
	}
	return c
}

// ControlPolygonLength returns the length of the curve's control
// polygon, an upper bound on the arc length.
func (c Curve) ControlPolygonLength() float64 {
	return c.Cp1.Distance(c.Start) + c.Cp2.Distance(c.Cp1) + c.End.Distance(c.Cp2)
}

// Flatness returns how far the curve strays from the straight line
// between its endpoints: the larger of the two control points'
// distances from that line. A curve whose endpoints coincide falls
// back to the control points' distance from that single point.
func (c Curve) Flatness() float64 {
	dx := c.End.X - c.Start.X
	dy := c.End.Y - c.Start.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return math.Max(c.Cp1.Distance(c.Start), c.Cp2.Distance(c.Start))
	}
	d1 := math.Abs(dy*(c.Cp1.X-c.Start.X)-dx*(c.Cp1.Y-c.Start.Y)) / length
	d2 := math.Abs(dy*(c.Cp2.X-c.Start.X)-dx*(c.Cp2.Y-c.Start.Y)) / length
	return math.Max(d1, d2)
}

// BoundingBox returns the exact bounds of the curve, found by solving
// for the points where the derivative is zero on each axis.
func (c Curve) BoundingBox() Bounds {
	return BoundingBox4(c.Start, c.Cp1, c.Cp2, c.End)
}

// BoundingBox4 returns the exact bounds of a cubic bezier with the
// weights w1..w4.
func BoundingBox4(w1, w2, w3, w4 Coord2) Bounds {
	bounds := Bounds{Min: minCoord(w1, w4), Max: maxCoord(w1, w4)}
	d1, d2, d3 := Derivative4(w1, w2, w3, w4)

	include := func(t float64) {
		if t <= 0 || t >= 1 {
			return
		}
		p := DeCasteljau4(t, w1, w2, w3, w4)
		bounds.Min = minCoord(bounds.Min, p)
		bounds.Max = maxCoord(bounds.Max, p)
	}

	// The derivative B'(t) = d1(1-t)^2 + 2 d2 t(1-t) + d3 t^2 expands
	// to (d1 - 2 d2 + d3) t^2 + 2 (d2 - d1) t + d1 per axis.
	for _, t := range solveQuadratic(d1.X-2*d2.X+d3.X, 2*(d2.X-d1.X), d1.X) {
		include(t)
	}
	for _, t := range solveQuadratic(d1.Y-2*d2.Y+d3.Y, 2*(d2.Y-d1.Y), d1.Y) {
		include(t)
	}
	return bounds
}

// SolveBasis returns the parameters at which a one-dimensional cubic
// bezier with the basis weights w1..w4 takes the value p. The results
// are in ascending order within [0, 1]; an exact hit on the start or
// end weight is reported as 0 or 1.
func SolveBasis(w1, w2, w3, w4, p float64) []float64 {
	// Rearrange into polynomial form: a t^3 + b t^2 + c t + d = p.
	d := w1 - p
	c := 3.0 * (w2 - w1)
	b := 3.0*(w3-w2) - c
	a := w4 - w1 - c - b

	var roots []float64
	if math.Abs(a) < 1e-8 {
		roots = solveQuadratic(b, c, d)
	} else {
		roots = solveCubic(a, b, c, d)
	}

	n := 0
	for _, t := range roots {
		if t > 0.0 && t < 1.0 {
			roots[n] = t
			n++
		}
	}
	roots = roots[:n]

	if w1 == p {
		keep := roots[:0]
		for _, t := range roots {
			if t > smallT {
				keep = append(keep, t)
			}
		}
		roots = append([]float64{0.0}, keep...)
	}
	if w4 == p {
		keep := make([]float64, 0, len(roots)+1)
		for _, t := range roots {
			if t < 1.0-smallT {
				keep = append(keep, t)
			}
		}
		roots = append(keep, 1.0)
	}
	return roots
}
