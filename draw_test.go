package canvas

import "testing"

func TestColorRGBA8(t *testing.T) {
	cases := []struct {
		color Color
		r     uint8
		g     uint8
		b     uint8
		a     uint8
	}{
		{Rgba(0, 0, 0, 0), 0, 0, 0, 0},
		{Rgba(1, 1, 1, 1), 255, 255, 255, 255},
		{Rgba(0.5, 0.25, 0.75, 1), 128, 64, 191, 255},
		{Rgba(-1, 2, 0, 1), 0, 255, 0, 255},
	}

	for _, c := range cases {
		r, g, b, a := c.color.RGBA8()
		if r != c.r || g != c.g || b != c.b || a != c.a {
			t.Errorf("%v.RGBA8() = (%d,%d,%d,%d), want (%d,%d,%d,%d)",
				c.color, r, g, b, a, c.r, c.g, c.b, c.a)
		}
	}
}

func TestColorWithAlpha(t *testing.T) {
	c := Rgba(0.1, 0.2, 0.3, 1).WithAlpha(0.5)
	if c != Rgba(0.1, 0.2, 0.3, 0.5) {
		t.Errorf("WithAlpha = %v", c)
	}
}

func TestColorMix(t *testing.T) {
	black := Rgba(0, 0, 0, 1)
	white := Rgba(1, 1, 1, 1)
	mid := black.Mix(white, 0.5)
	if mid != Rgba(0.5, 0.5, 0.5, 1) {
		t.Errorf("Mix midpoint = %v", mid)
	}
}

func TestRectOps(t *testing.T) {
	ops := Rect(0, 0, 100, 50)

	want := []Draw{
		Move{0, 0},
		Line{0, 50},
		Line{100, 50},
		Line{100, 0},
		Line{0, 0},
		ClosePath{},
	}

	if len(ops) != len(want) {
		t.Fatalf("Rect produced %d ops, want %d", len(ops), len(want))
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d = %#v, want %#v", i, ops[i], want[i])
		}
	}
}

func TestCircleOpsCloseLoop(t *testing.T) {
	ops := Circle(10, 20, 5)

	move, ok := ops[0].(Move)
	if !ok {
		t.Fatalf("first op is %T, want Move", ops[0])
	}
	if _, ok := ops[len(ops)-1].(ClosePath); !ok {
		t.Fatalf("last op is %T, want ClosePath", ops[len(ops)-1])
	}

	// The final curve must come back to the start point.
	last, ok := ops[len(ops)-2].(BezierCurve)
	if !ok {
		t.Fatalf("penultimate op is %T, want BezierCurve", ops[len(ops)-2])
	}
	if last.End != Pt(move.X, move.Y) {
		t.Errorf("circle ends at %v, starts at (%v,%v)", last.End, move.X, move.Y)
	}

	// All curve endpoints must lie on the circle.
	for _, op := range ops {
		curve, ok := op.(BezierCurve)
		if !ok {
			continue
		}
		d := curve.End.Distance(Pt(10, 20))
		if d < 4.99 || d > 5.01 {
			t.Errorf("curve endpoint %v is %v from the centre, want 5", curve.End, d)
		}
	}
}

func TestPathOpsSatisfyPathOp(t *testing.T) {
	ops := []PathOp{
		NewPath{},
		Move{1, 2},
		Line{3, 4},
		BezierCurve{Pt(1, 2), Pt(3, 4), Pt(5, 6)},
		ClosePath{},
	}
	for _, op := range ops {
		if _, ok := op.(Draw); !ok {
			t.Errorf("%T does not satisfy Draw", op)
		}
	}
}

func TestNamespaceU64Pair(t *testing.T) {
	ns := NewNamespaceId()
	hi, lo := ns.U64Pair()
	back := NamespaceFromU64Pair(hi, lo)
	if back != ns {
		t.Errorf("U64Pair round trip: got %v, want %v", back, ns)
	}

	gHi, gLo := GlobalNamespace.U64Pair()
	if gHi != 0 || gLo != 0 {
		t.Errorf("GlobalNamespace halves = (%d,%d), want (0,0)", gHi, gLo)
	}
}

func TestBlendModeNames(t *testing.T) {
	if BlendSourceOver.String() != "SourceOver" {
		t.Errorf("BlendSourceOver.String() = %q", BlendSourceOver.String())
	}
	if BlendLighten.String() != "Lighten" {
		t.Errorf("BlendLighten.String() = %q", BlendLighten.String())
	}
	if BlendMode(200).String() != "Unknown" {
		t.Errorf("out of range blend mode = %q", BlendMode(200).String())
	}
}
