package curves

import (
	"math"
	"sort"
)

// solveQuadratic returns the real roots of a t^2 + b t + c = 0 in
// ascending order. A vanishing leading coefficient degrades to the
// linear case.
func solveQuadratic(a, b, c float64) []float64 {
	if math.Abs(a) < 1e-12 {
		if math.Abs(b) < 1e-12 {
			return nil
		}
		return []float64{-c / b}
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	if disc == 0 {
		return []float64{-b / (2 * a)}
	}

	// Compute the second root from the first to avoid cancellation
	// when b dominates the discriminant.
	sq := math.Sqrt(disc)
	var q float64
	if b >= 0 {
		q = -(b + sq) / 2
	} else {
		q = -(b - sq) / 2
	}
	r1, r2 := q/a, c/q
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return []float64{r1, r2}
}

// solveCubic returns the real roots of a t^3 + b t^2 + c t + d = 0 in
// ascending order.
func solveCubic(a, b, c, d float64) []float64 {
	if math.Abs(a) < 1e-12 {
		return solveQuadratic(b, c, d)
	}

	// Substituting t = x - B/3 gives the depressed form x^3 + p x + q.
	B := b / a
	C := c / a
	D := d / a
	p := C - B*B/3
	q := 2*B*B*B/27 - B*C/3 + D
	shift := -B / 3

	disc := q*q/4 + p*p*p/27
	switch {
	case disc > 1e-14:
		// One real root.
		sq := math.Sqrt(disc)
		x := math.Cbrt(-q/2+sq) + math.Cbrt(-q/2-sq)
		return []float64{x + shift}

	case disc < -1e-14:
		// Three distinct real roots, via the trigonometric method.
		m := 2 * math.Sqrt(-p/3)
		arg := 3 * q / (p * m)
		if arg > 1 {
			arg = 1
		} else if arg < -1 {
			arg = -1
		}
		theta := math.Acos(arg) / 3
		roots := []float64{
			m*math.Cos(theta) + shift,
			m*math.Cos(theta-2*math.Pi/3) + shift,
			m*math.Cos(theta-4*math.Pi/3) + shift,
		}
		sort.Float64s(roots)
		return roots

	default:
		// Repeated roots.
		if math.Abs(p) < 1e-14 && math.Abs(q) < 1e-14 {
			return []float64{shift}
		}
		u := math.Cbrt(-q / 2)
		roots := []float64{2*u + shift, -u + shift}
		sort.Float64s(roots)
		return roots
	}
}
