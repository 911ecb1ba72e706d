package canvas

import (
	"testing"

	"github.com/chewxy/math32"
)

func pointsClose(a, b Point) bool {
	const epsilon = 1e-4
	return math32.Abs(a.X-b.X) < epsilon && math32.Abs(a.Y-b.Y) < epsilon
}

func TestTransformIdentity(t *testing.T) {
	p := Pt(3, -7)
	if got := IdentityMatrix.Transform(p); got != p {
		t.Errorf("identity moved %v to %v", p, got)
	}
	if !IdentityMatrix.IsIdentity() {
		t.Error("IdentityMatrix.IsIdentity() = false")
	}
	if Translate(1, 0).IsIdentity() {
		t.Error("translation reported as identity")
	}
}

func TestTransformTranslate(t *testing.T) {
	got := Translate(10, -5).Transform(Pt(1, 2))
	if !pointsClose(got, Pt(11, -3)) {
		t.Errorf("Translate(10,-5) applied to (1,2) = %v, want (11,-3)", got)
	}
}

func TestTransformScale(t *testing.T) {
	got := Scale(2, 3).Transform(Pt(4, 5))
	if !pointsClose(got, Pt(8, 15)) {
		t.Errorf("Scale(2,3) applied to (4,5) = %v, want (8,15)", got)
	}
}

func TestTransformRotate(t *testing.T) {
	// 90 degrees anticlockwise maps +x onto +y.
	got := RotateDegrees(90).Transform(Pt(1, 0))
	if !pointsClose(got, Pt(0, 1)) {
		t.Errorf("RotateDegrees(90) applied to (1,0) = %v, want (0,1)", got)
	}
}

func TestTransformMultiplyOrder(t *testing.T) {
	// Multiply applies the right-hand transform first.
	scaleThenMove := Translate(10, 0).Multiply(Scale(2, 2))
	got := scaleThenMove.Transform(Pt(1, 1))
	if !pointsClose(got, Pt(12, 2)) {
		t.Errorf("translate*scale applied to (1,1) = %v, want (12,2)", got)
	}

	moveThenScale := Scale(2, 2).Multiply(Translate(10, 0))
	got = moveThenScale.Transform(Pt(1, 1))
	if !pointsClose(got, Pt(22, 2)) {
		t.Errorf("scale*translate applied to (1,1) = %v, want (22,2)", got)
	}
}

func TestTransformInvert(t *testing.T) {
	transforms := []Transform2D{
		IdentityMatrix,
		Translate(3, 4),
		Scale(2, 0.5),
		RotateDegrees(30),
		Translate(1, 2).Multiply(RotateDegrees(45)).Multiply(Scale(3, 3)),
	}

	for _, m := range transforms {
		inv, ok := m.Invert()
		if !ok {
			t.Errorf("Invert() failed for %v", m)
			continue
		}
		p := Pt(5, -2)
		back := inv.Transform(m.Transform(p))
		if !pointsClose(back, p) {
			t.Errorf("inverse of %v round-trips (5,-2) to %v", m, back)
		}
	}
}

func TestTransformInvertSingular(t *testing.T) {
	if _, ok := Scale(0, 0).Invert(); ok {
		t.Error("Invert() succeeded on a singular matrix")
	}
}

func TestTransformScaleFactor(t *testing.T) {
	cases := []struct {
		transform Transform2D
		want      float32
	}{
		{IdentityMatrix, 1},
		{Scale(3, 2), 2},
		{RotateDegrees(90).Multiply(Scale(2, 2)), 2},
		{Translate(100, 100), 1},
	}

	for _, c := range cases {
		if got := c.transform.ScaleFactor(); math32.Abs(got-c.want) > 1e-4 {
			t.Errorf("ScaleFactor() = %v, want %v", got, c.want)
		}
	}
}

func TestPointLerp(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 20)
	if got := a.Lerp(b, 0.5); !pointsClose(got, Pt(5, 10)) {
		t.Errorf("Lerp midpoint = %v, want (5,10)", got)
	}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
}
