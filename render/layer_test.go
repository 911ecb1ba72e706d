// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/stroke"
)

func TestLayerPushPopState(t *testing.T) {
	l := newCanvasLayer(false, 0.5)
	l.state.fill.color = canvas.Color{R: 1, A: 1}
	l.state.windingRule = canvas.WindingRuleEvenOdd

	l.pushState()
	l.state.fill.color = canvas.Color{G: 1, A: 1}
	l.state.windingRule = canvas.WindingRuleNonZero
	l.popState()

	if l.state.fill.color != (canvas.Color{R: 1, A: 1}) {
		t.Errorf("fill color = %+v, want the pushed red", l.state.fill.color)
	}
	if l.state.windingRule != canvas.WindingRuleEvenOdd {
		t.Errorf("winding rule = %v, want EvenOdd restored", l.state.windingRule)
	}
}

func TestLayerPopStateKeepsTransform(t *testing.T) {
	// The canvas transform is global: a pop restores paint state but not
	// the transform built up since the push.
	l := newCanvasLayer(false, 0.5)
	l.pushState()
	l.updateTransform(canvas.Scale(2, 2))
	l.popState()

	if l.state.currentMatrix != canvas.Scale(2, 2) {
		t.Errorf("currentMatrix = %v, want the scale kept through the pop", l.state.currentMatrix)
	}
	if l.state.scaleFactor != 1 {
		t.Errorf("scaleFactor = %v, want 1 (2x scale at base 0.5)", l.state.scaleFactor)
	}
}

func TestLayerPopStateEmptyStack(t *testing.T) {
	l := newCanvasLayer(false, 0.5)
	l.state.fill.color = canvas.Color{B: 1, A: 1}
	l.popState()
	if l.state.fill.color != (canvas.Color{B: 1, A: 1}) {
		t.Error("pop on an empty stack should leave state untouched")
	}
}

func TestLayerPushStateCopiesDashPattern(t *testing.T) {
	l := newCanvasLayer(false, 0.5)
	l.state.stroke.dashPattern = []float32{1, 2}

	l.pushState()
	l.state.stroke.dashPattern = append(l.state.stroke.dashPattern, 3)
	l.state.stroke.dashPattern[0] = 9
	l.popState()

	if !dashPatternsEqual(l.state.stroke.dashPattern, []float32{1, 2}) {
		t.Errorf("dashPattern = %v, want {1, 2} unshared with the mutated copy", l.state.stroke.dashPattern)
	}
}

func TestLayerPopStateKeepsRestorePoint(t *testing.T) {
	l := newCanvasLayer(false, 0.5)
	l.pushState()
	l.state.restorePoint = 7
	l.popState()
	if l.state.restorePoint != 7 {
		t.Errorf("restorePoint = %d, want 7 kept through the pop", l.state.restorePoint)
	}
}

func TestUpdateTransform(t *testing.T) {
	l := newCanvasLayer(false, 0.5)

	l.updateTransform(canvas.Translate(1, 0))
	if len(l.renderOrder) != 1 {
		t.Fatalf("entity count = %d, want 1 transform entity", len(l.renderOrder))
	}
	if e, ok := l.renderOrder[0].(entitySetTransform); !ok || e.transform != canvas.Translate(1, 0) {
		t.Errorf("renderOrder[0] = %#v, want the translate", l.renderOrder[0])
	}

	// The same transform again appends nothing.
	l.updateTransform(canvas.Translate(1, 0))
	if len(l.renderOrder) != 1 {
		t.Errorf("entity count = %d, want 1 after a repeated transform", len(l.renderOrder))
	}

	l.updateTransform(canvas.IdentityMatrix)
	if len(l.renderOrder) != 2 {
		t.Errorf("entity count = %d, want 2 after a changed transform", len(l.renderOrder))
	}
}

func TestUpdateTransformSprite(t *testing.T) {
	// Sprite geometry is pre-transformed at submission; sprite logs never
	// carry transform entities.
	l := newCanvasLayer(true, 0.5)
	l.updateTransform(canvas.Scale(3, 3))
	if len(l.renderOrder) != 0 {
		t.Errorf("entity count = %d, want 0 for a sprite", len(l.renderOrder))
	}
	if l.state.currentMatrix != canvas.IdentityMatrix {
		t.Error("sprite currentMatrix should stay identity")
	}
}

func TestUpdateScaleFactor(t *testing.T) {
	l := newCanvasLayer(false, 100)
	l.updateTransform(canvas.Scale(2, 2))
	if l.state.scaleFactor != 200 {
		t.Errorf("scaleFactor = %v, want 200", l.state.scaleFactor)
	}

	// The y row decides the scale: the canvas maps height to viewport
	// height regardless of x stretching.
	l.updateTransform(canvas.Scale(7, 3))
	if l.state.scaleFactor != 300 {
		t.Errorf("scaleFactor = %v, want 300 from the y row", l.state.scaleFactor)
	}
}

func TestInvalidatePaintMarkers(t *testing.T) {
	l := newCanvasLayer(false, 0.5)
	l.lastFillEntity = entitySetFlatColor{}
	l.lastBlendMode = canvas.BlendSourceOver

	l.invalidatePaintMarkers()
	if l.lastFillEntity != nil {
		t.Error("lastFillEntity should be cleared")
	}
	if l.lastBlendMode == canvas.BlendSourceOver {
		t.Error("lastBlendMode should no longer match any real mode")
	}
}

func TestFillStateFlatColor(t *testing.T) {
	f := fillState{kind: fillColor, color: canvas.Color{R: 0.5, G: 0.25, A: 0.75}}
	if f.flatColor() != f.color {
		t.Errorf("flatColor = %+v, want the fill color", f.flatColor())
	}

	// Texture and gradient fills shade in the fragment stage; their
	// vertices carry opaque black.
	f = fillState{kind: fillTexture}
	if f.flatColor() != (canvas.Color{R: 0, G: 0, B: 0, A: 1}) {
		t.Errorf("texture flatColor = %+v, want opaque black", f.flatColor())
	}
}

func TestTextureFillMatrix(t *testing.T) {
	m := textureFillMatrix(canvas.Point{X: 0, Y: 0}, canvas.Point{X: 2, Y: 4})

	p := m.Transform(canvas.Point{X: 1, Y: 2})
	if !closeTo(p.X, 0.5) || !closeTo(p.Y, 0.5) {
		t.Errorf("midpoint maps to (%v, %v), want (0.5, 0.5)", p.X, p.Y)
	}
	p = m.Transform(canvas.Point{X: 2, Y: 4})
	if !closeTo(p.X, 1) || !closeTo(p.Y, 1) {
		t.Errorf("max maps to (%v, %v), want (1, 1)", p.X, p.Y)
	}
}

func TestGradientFillMatrix(t *testing.T) {
	m := gradientFillMatrix(canvas.Point{X: 0, Y: 0}, canvas.Point{X: 10, Y: 0})

	for _, tt := range []struct {
		point canvas.Point
		want  float32
	}{
		{canvas.Point{X: 0, Y: 0}, 0},
		{canvas.Point{X: 10, Y: 0}, 1},
		{canvas.Point{X: 5, Y: 0}, 0.5},
		// Displacement perpendicular to the axis changes nothing.
		{canvas.Point{X: 5, Y: 7}, 0.5},
	} {
		if got := m.Transform(tt.point).X; !closeTo(got, tt.want) {
			t.Errorf("gradient position of %+v = %v, want %v", tt.point, got, tt.want)
		}
	}
}

func TestExpanderStyle(t *testing.T) {
	s := strokeSettings{width: 3, join: canvas.LineJoinRound, cap: canvas.LineCapSquare}
	style := s.expanderStyle()
	if style.Width != 3 {
		t.Errorf("Width = %v, want 3", style.Width)
	}
	if style.Join != stroke.LineJoinRound {
		t.Errorf("Join = %v, want round", style.Join)
	}
	if style.Cap != stroke.LineCapSquare {
		t.Errorf("Cap = %v, want square", style.Cap)
	}
}

func TestPathAccumulator(t *testing.T) {
	var p pathAccumulator

	// A lineTo before any moveTo starts the path at the origin.
	p.lineTo(5, 5)
	if len(p.elements) != 2 {
		t.Fatalf("element count = %d, want implicit move plus line", len(p.elements))
	}
	if m, ok := p.elements[0].(stroke.MoveTo); !ok || m.Point != (stroke.Point{}) {
		t.Errorf("elements[0] = %#v, want MoveTo origin", p.elements[0])
	}

	snap := p.snapshot()
	p.lineTo(9, 9)
	if len(snap) != 2 {
		t.Errorf("snapshot length = %d, want 2, unaffected by later appends", len(snap))
	}

	p.clear()
	if !p.empty() || p.started {
		t.Error("clear should empty the accumulator")
	}

	// closePath before any point is a no-op.
	p.closePath()
	if len(p.elements) != 0 {
		t.Errorf("element count = %d, want 0 after closing an empty path", len(p.elements))
	}
}
