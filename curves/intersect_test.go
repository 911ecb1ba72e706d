package curves

import (
	"math"
	"testing"
)

// lineCurve builds a cubic section tracing the segment from a to b at
// uniform speed.
func lineCurve(a, b Coord2) Curve {
	d := b.Sub(a)
	return Curve{
		Start: a,
		Cp1:   a.Add(d.Mul(1.0 / 3.0)),
		Cp2:   a.Add(d.Mul(2.0 / 3.0)),
		End:   b,
	}
}

func TestCurveIntersectionsCrossingLines(t *testing.T) {
	c1 := lineCurve(C2(0, 0), C2(2, 2))
	c2 := lineCurve(C2(0, 2), C2(2, 0))

	hits := CurveIntersections(c1, c2)
	if len(hits) != 1 {
		t.Fatalf("CurveIntersections = %v, want one crossing", hits)
	}
	t1, t2 := hits[0][0], hits[0][1]
	if math.Abs(t1-0.5) > 1e-3 || math.Abs(t2-0.5) > 1e-3 {
		t.Errorf("crossing at t (%v, %v), want (0.5, 0.5)", t1, t2)
	}
	p1, p2 := c1.PointAt(t1), c2.PointAt(t2)
	if p1.Distance(p2) > 1e-3 {
		t.Errorf("crossing points disagree: %v vs %v", p1, p2)
	}
	if p1.Distance(C2(1, 1)) > 1e-3 {
		t.Errorf("crossing at %v, want (1, 1)", p1)
	}
}

func TestCurveIntersectionsCurveAndLine(t *testing.T) {
	arch := Curve{Start: C2(0, 0), Cp1: C2(1, 2), Cp2: C2(2, 2), End: C2(3, 0)}
	vertical := lineCurve(C2(1, -1), C2(1, 2))

	hits := CurveIntersections(arch, vertical)
	if len(hits) != 1 {
		t.Fatalf("CurveIntersections = %v, want one crossing", hits)
	}

	p := arch.PointAt(hits[0][0])
	if math.Abs(p.X-1) > 1e-3 {
		t.Errorf("crossing x = %v, want 1", p.X)
	}
	if q := vertical.PointAt(hits[0][1]); p.Distance(q) > 1e-3 {
		t.Errorf("crossing points disagree: %v vs %v", p, q)
	}
}

func TestCurveIntersectionsTwoCrossings(t *testing.T) {
	// A dip that starts and ends above the axis and sinks below it in
	// the middle crosses a horizontal line twice.
	dip := Curve{Start: C2(0, 1), Cp1: C2(1, -1), Cp2: C2(2, -1), End: C2(3, 1)}
	axis := lineCurve(C2(-1, 0), C2(4, 0))

	hits := CurveIntersections(dip, axis)
	if len(hits) != 2 {
		t.Fatalf("CurveIntersections = %v, want two crossings", hits)
	}
	for _, h := range hits {
		p := dip.PointAt(h[0])
		if math.Abs(p.Y) > 1e-2 {
			t.Errorf("crossing %v not on the axis (y = %v)", h, p.Y)
		}
	}
	if hits[0][0] >= hits[1][0] {
		t.Errorf("crossings not ordered: %v", hits)
	}
}

func TestCurveIntersectionsDisjoint(t *testing.T) {
	c1 := lineCurve(C2(0, 0), C2(1, 0))
	c2 := lineCurve(C2(0, 5), C2(1, 5))
	if hits := CurveIntersections(c1, c2); hits != nil {
		t.Errorf("CurveIntersections of disjoint curves = %v, want none", hits)
	}
}

func TestCurveIntersectionsCoincident(t *testing.T) {
	c := Curve{Start: C2(0, 0), Cp1: C2(1, 2), Cp2: C2(2, 2), End: C2(3, 0)}
	if hits := CurveIntersections(c, c); hits != nil {
		t.Errorf("CurveIntersections of a curve with itself = %v, want none", hits)
	}

	rev := Curve{Start: c.End, Cp1: c.Cp2, Cp2: c.Cp1, End: c.Start}
	if hits := CurveIntersections(c, rev); hits != nil {
		t.Errorf("CurveIntersections of a curve with its reverse = %v, want none", hits)
	}
}

func TestCurveIntersectionsCollinearOverlap(t *testing.T) {
	// Overlapping sections of one line intersect over a range, not at
	// isolated points; nothing is reported for them.
	c1 := lineCurve(C2(0, 0), C2(2, 0))
	c2 := lineCurve(C2(1, 0), C2(3, 0))
	if hits := CurveIntersections(c1, c2); hits != nil {
		t.Errorf("CurveIntersections of overlapping lines = %v, want none", hits)
	}
}

func TestCurveIntersectionsPerpendicularTouch(t *testing.T) {
	// Touching endpoint to endpoint still reports the contact, at the
	// parameter extremes.
	c1 := lineCurve(C2(0, 0), C2(1, 0))
	c2 := lineCurve(C2(1, 0), C2(1, 1))

	hits := CurveIntersections(c1, c2)
	if len(hits) != 1 {
		t.Fatalf("CurveIntersections = %v, want one contact", hits)
	}
	if math.Abs(hits[0][0]-1) > 1e-3 || math.Abs(hits[0][1]) > 1e-3 {
		t.Errorf("contact at t (%v, %v), want (1, 0)", hits[0][0], hits[0][1])
	}
}

func BenchmarkCurveIntersections(b *testing.B) {
	dip := Curve{Start: C2(0, 1), Cp1: C2(1, -1), Cp2: C2(2, -1), End: C2(3, 1)}
	axis := lineCurve(C2(-1, 0), C2(4, 0))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		CurveIntersections(dip, axis)
	}
}
