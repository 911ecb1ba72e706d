package curves

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPointAtEndpoints(t *testing.T) {
	c := Curve{Start: C2(1, 2), Cp1: C2(3, 5), Cp2: C2(-2, 4), End: C2(6, 1)}
	if got := c.PointAt(0); got != c.Start {
		t.Errorf("PointAt(0) = %v, want %v", got, c.Start)
	}
	if got := c.PointAt(1); got != c.End {
		t.Errorf("PointAt(1) = %v, want %v", got, c.End)
	}
}

func TestSubdivideMatchesCurve(t *testing.T) {
	c := Curve{Start: C2(0, 0), Cp1: C2(1, 3), Cp2: C2(4, -2), End: C2(5, 1)}
	left, right := c.Subdivide(0.25)

	if left.Start != c.Start {
		t.Errorf("left.Start = %v, want %v", left.Start, c.Start)
	}
	if right.End != c.End {
		t.Errorf("right.End = %v, want %v", right.End, c.End)
	}
	if left.End != right.Start {
		t.Errorf("sections do not join: %v vs %v", left.End, right.Start)
	}

	for _, f := range []float64{0, 0.3, 0.5, 0.9, 1} {
		want := c.PointAt(0.25 * f)
		got := left.PointAt(f)
		if got.Distance(want) > 1e-9 {
			t.Errorf("left.PointAt(%v) = %v, want %v", f, got, want)
		}

		want = c.PointAt(0.25 + 0.75*f)
		got = right.PointAt(f)
		if got.Distance(want) > 1e-9 {
			t.Errorf("right.PointAt(%v) = %v, want %v", f, got, want)
		}
	}
}

func TestSectionMatchesCurve(t *testing.T) {
	c := Curve{Start: C2(0, 0), Cp1: C2(1, 3), Cp2: C2(4, -2), End: C2(5, 1)}
	s := c.Section(0.2, 0.7)

	for _, f := range []float64{0, 0.5, 1} {
		want := c.PointAt(0.2 + 0.5*f)
		got := s.PointAt(f)
		if got.Distance(want) > 1e-9 {
			t.Errorf("Section(0.2, 0.7).PointAt(%v) = %v, want %v", f, got, want)
		}
	}
}

func TestSolveBasisIdentityRamp(t *testing.T) {
	// Weights 0, 1/3, 2/3, 1 give B(t) = t exactly.
	for _, p := range []float64{0.1, 0.5, 0.9} {
		roots := SolveBasis(0, 1.0/3.0, 2.0/3.0, 1, p)
		if len(roots) != 1 {
			t.Fatalf("SolveBasis(ramp, %v) = %v, want one root", p, roots)
		}
		if math.Abs(roots[0]-p) > 1e-9 {
			t.Errorf("SolveBasis(ramp, %v) = %v, want %v", p, roots[0], p)
		}
	}
}

func TestSolveBasisEndpointHits(t *testing.T) {
	roots := SolveBasis(2, 3, 4, 5, 2)
	if len(roots) == 0 || roots[0] != 0 {
		t.Errorf("start weight hit: roots = %v, want leading 0", roots)
	}

	roots = SolveBasis(2, 3, 4, 5, 5)
	if len(roots) == 0 || roots[len(roots)-1] != 1 {
		t.Errorf("end weight hit: roots = %v, want trailing 1", roots)
	}
}

func TestSolveBasisThreeRoots(t *testing.T) {
	// B(t) = 6t(1-t)(1-2t) crosses zero at 0, 1/2 and 1.
	roots := SolveBasis(0, 2, -2, 0, 0)
	if len(roots) != 3 {
		t.Fatalf("SolveBasis = %v, want three roots", roots)
	}
	want := []float64{0, 0.5, 1}
	for i, w := range want {
		if math.Abs(roots[i]-w) > 1e-9 {
			t.Errorf("roots[%d] = %v, want %v", i, roots[i], w)
		}
	}
}

func TestSolveBasisAscending(t *testing.T) {
	roots := SolveBasis(1, -5, 7, -1, 0.3)
	for i := 1; i < len(roots); i++ {
		if roots[i] < roots[i-1] {
			t.Fatalf("roots not ascending: %v", roots)
		}
	}
}

func TestDerivative4(t *testing.T) {
	d1, d2, d3 := Derivative4(C2(0, 0), C2(1, 2), C2(3, 2), C2(4, 0))
	if d1 != C2(3, 6) || d2 != C2(6, 0) || d3 != C2(3, -6) {
		t.Errorf("Derivative4 = %v %v %v", d1, d2, d3)
	}
}

func TestBoundingBoxIncludesInteriorExtreme(t *testing.T) {
	// Symmetric arch: the maximum y of 1.5 is reached at t = 0.5, well
	// away from any control point.
	c := Curve{Start: C2(0, 0), Cp1: C2(1, 2), Cp2: C2(2, 2), End: C2(3, 0)}
	b := c.BoundingBox()

	if !almostEqual(b.Min.X, 0) || !almostEqual(b.Max.X, 3) {
		t.Errorf("x bounds = [%v, %v], want [0, 3]", b.Min.X, b.Max.X)
	}
	if !almostEqual(b.Min.Y, 0) || !almostEqual(b.Max.Y, 1.5) {
		t.Errorf("y bounds = [%v, %v], want [0, 1.5]", b.Min.Y, b.Max.Y)
	}
}

func TestControlPolygonLength(t *testing.T) {
	c := Curve{Start: C2(0, 0), Cp1: C2(3, 4), Cp2: C2(3, 4), End: C2(6, 8)}
	if got := c.ControlPolygonLength(); !almostEqual(got, 10) {
		t.Errorf("ControlPolygonLength() = %v, want 10", got)
	}
}

func TestFlatness(t *testing.T) {
	straight := Curve{Start: C2(0, 0), Cp1: C2(1, 0), Cp2: C2(2, 0), End: C2(3, 0)}
	if got := straight.Flatness(); !almostEqual(got, 0) {
		t.Errorf("straight Flatness() = %v, want 0", got)
	}

	bowed := Curve{Start: C2(0, 0), Cp1: C2(1, 2), Cp2: C2(2, -1), End: C2(3, 0)}
	if got := bowed.Flatness(); !almostEqual(got, 2) {
		t.Errorf("bowed Flatness() = %v, want 2", got)
	}

	// A closed loop has no chord to measure against, so the control point
	// distances stand in.
	loop := Curve{Start: C2(1, 1), Cp1: C2(4, 1), Cp2: C2(1, 3), End: C2(1, 1)}
	if got := loop.Flatness(); !almostEqual(got, 3) {
		t.Errorf("loop Flatness() = %v, want 3", got)
	}
}

func TestPathIsClockwise(t *testing.T) {
	ccw := NewPath(C2(0, 0))
	ccw.LineTo(C2(1, 0)).LineTo(C2(1, 1)).LineTo(C2(0, 1)).Close()
	if ccw.IsClockwise() {
		t.Error("right-up-left winding reported clockwise")
	}

	cw := ccw.Reversed()
	if !cw.IsClockwise() {
		t.Error("reversed path not clockwise")
	}
}

func TestPathReversedTracesSameShape(t *testing.T) {
	p := NewPath(C2(0, 0))
	p.CurveTo(C2(1, 2), C2(3, 2), C2(4, 0)).LineTo(C2(5, -1))

	rev := p.Reversed()
	if rev.Start != C2(5, -1) {
		t.Fatalf("reversed start = %v, want (5, -1)", rev.Start)
	}

	curves := p.Curves()
	revCurves := rev.Curves()
	if len(revCurves) != len(curves) {
		t.Fatalf("reversed has %d sections, want %d", len(revCurves), len(curves))
	}
	for i, c := range curves {
		r := revCurves[len(revCurves)-1-i]
		for _, f := range []float64{0, 0.25, 0.75, 1} {
			want := c.PointAt(f)
			got := r.PointAt(1 - f)
			if got.Distance(want) > 1e-9 {
				t.Errorf("section %d: reversed point at %v = %v, want %v", i, f, got, want)
			}
		}
	}
}

func TestPathBoundingBox(t *testing.T) {
	p := NewPath(C2(0, 0))
	p.LineTo(C2(2, 0)).LineTo(C2(2, 3)).Close()
	b := p.BoundingBox()
	if b.Min != C2(0, 0) || b.Max != C2(2, 3) {
		t.Errorf("BoundingBox() = %+v, want (0,0)-(2,3)", b)
	}
}

func BenchmarkSolveBasis(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		SolveBasis(0, 2, -2, 0, 0.1)
	}
}

func BenchmarkSubdivide(b *testing.B) {
	c := Curve{Start: C2(0, 0), Cp1: C2(1, 3), Cp2: C2(4, -2), End: C2(5, 1)}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Subdivide(0.5)
	}
}
