// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "testing"

const (
	backgroundProgram PixelProgramId = 10
	innerProgram      PixelProgramId = 11
)

func checkSpan(t *testing.T, got ScanSpanStack, xStart, xEnd float64, opaque bool, programs ...PixelProgramPlan) {
	t.Helper()
	if got.XStart != xStart || got.XEnd != xEnd {
		t.Errorf("span covers [%v, %v), want [%v, %v)", got.XStart, got.XEnd, xStart, xEnd)
	}
	if got.Opaque != opaque {
		t.Errorf("span opaque = %v, want %v", got.Opaque, opaque)
	}
	if len(got.Programs) != len(programs) {
		t.Fatalf("span programs = %v, want %v", got.Programs, programs)
	}
	for i := range programs {
		if got.Programs[i] != programs[i] {
			t.Errorf("program %d = %+v, want %+v", i, got.Programs[i], programs[i])
		}
	}
}

// An opaque shape on top of another opaque shape: three spans, and the
// background programs are not planned underneath the inner shape.
func TestPlanOpaqueRectangleHidesBackground(t *testing.T) {
	background := ShapeId(1)
	inner := ShapeId(2)

	plan := NewEdgePlan().
		WithShape(background, OpaqueShape(backgroundProgram)).
		WithShape(inner, OpaqueShape(innerProgram).WithZIndex(1)).
		WithEdge(NewRectangleEdge(background, 0, 0, 400, 300)).
		WithEdge(NewRectangleEdge(inner, 140, 140, 160, 160))
	plan.Prepare()

	lines := ShardScanPlanner{}.Plan(plan, IdentityScanlineTransform(), []float64{150.5}, 0, 400)
	if len(lines) != 1 {
		t.Fatalf("planned %d lines, want 1", len(lines))
	}
	spans := lines[0].Stacks()
	if len(spans) != 3 {
		t.Fatalf("planned %d spans, want 3: %v", len(spans), spans)
	}
	checkSpan(t, spans[0], 0, 140, true, RunProgram(backgroundProgram))
	checkSpan(t, spans[1], 140, 160, true, RunProgram(innerProgram))
	checkSpan(t, spans[2], 160, 400, true, RunProgram(backgroundProgram))
}

// A transparent shape still needs the background drawn underneath it.
func TestPlanTransparentOverlayKeepsBackground(t *testing.T) {
	background := ShapeId(1)
	overlay := ShapeId(2)

	plan := NewEdgePlan().
		WithShape(background, OpaqueShape(backgroundProgram)).
		WithShape(overlay, TransparentShape(innerProgram).WithZIndex(1)).
		WithEdge(NewRectangleEdge(background, 0, 0, 400, 300)).
		WithEdge(NewRectangleEdge(overlay, 140, 140, 160, 160))
	plan.Prepare()

	lines := ShardScanPlanner{}.Plan(plan, IdentityScanlineTransform(), []float64{150.5}, 0, 400)
	spans := lines[0].Stacks()
	if len(spans) != 3 {
		t.Fatalf("planned %d spans, want 3: %v", len(spans), spans)
	}
	checkSpan(t, spans[0], 0, 140, true, RunProgram(backgroundProgram))
	checkSpan(t, spans[1], 140, 160, true,
		RunProgram(backgroundProgram), RunProgram(innerProgram))
	checkSpan(t, spans[2], 160, 400, true, RunProgram(backgroundProgram))
}

// An edge crossing mid-pixel turns into a one-pixel blended span on either
// side of the solid interior.
func TestPlanAntialiasesMidPixelEdges(t *testing.T) {
	background := ShapeId(1)
	inner := ShapeId(2)

	plan := NewEdgePlan().
		WithShape(background, OpaqueShape(backgroundProgram)).
		WithShape(inner, OpaqueShape(innerProgram).WithZIndex(1)).
		WithEdge(NewRectangleEdge(background, 0, 0, 400, 300)).
		WithEdge(NewRectangleEdge(inner, 140.5, 140, 160.5, 160))
	plan.Prepare()

	lines := ShardScanPlanner{}.Plan(plan, IdentityScanlineTransform(), []float64{150.5}, 0, 400)
	spans := lines[0].Stacks()
	if len(spans) != 5 {
		t.Fatalf("planned %d spans, want 5: %v", len(spans), spans)
	}
	checkSpan(t, spans[0], 0, 140, true, RunProgram(backgroundProgram))
	checkSpan(t, spans[1], 140, 141, true,
		RunProgram(backgroundProgram), StartBlend(), RunProgram(innerProgram), LinearSourceOver(0.5, 0.5))
	checkSpan(t, spans[2], 141, 160, true, RunProgram(innerProgram))
	checkSpan(t, spans[3], 160, 161, true,
		RunProgram(backgroundProgram), StartBlend(), RunProgram(innerProgram), LinearSourceOver(0.5, 0.5))
	checkSpan(t, spans[4], 161, 400, true, RunProgram(backgroundProgram))
}

// Planning a sub-range of x clips spans to the requested region.
func TestPlanClipsToRegion(t *testing.T) {
	background := ShapeId(1)

	plan := NewEdgePlan().
		WithShape(background, OpaqueShape(backgroundProgram)).
		WithEdge(NewRectangleEdge(background, 0, 0, 400, 300))
	plan.Prepare()

	lines := ShardScanPlanner{}.Plan(plan, IdentityScanlineTransform(), []float64{150.5}, 100, 200)
	spans := lines[0].Stacks()
	if len(spans) != 1 {
		t.Fatalf("planned %d spans, want 1: %v", len(spans), spans)
	}
	checkSpan(t, spans[0], 100, 200, true, RunProgram(backgroundProgram))
}

// Reaching the region edge closes the open span even when the event at
// the edge belongs to a shape hidden below the z-floor.
func TestPlanRegionEdgeClosesSpanOverHiddenShape(t *testing.T) {
	hidden := ShapeId(1)
	top := ShapeId(2)

	plan := NewEdgePlan().
		WithShape(hidden, OpaqueShape(backgroundProgram)).
		WithShape(top, OpaqueShape(innerProgram).WithZIndex(1)).
		WithEdge(NewRectangleEdge(hidden, 0, 0, 250, 300)).
		WithEdge(NewRectangleEdge(top, 0, 0, 400, 300))
	plan.Prepare()

	lines := ShardScanPlanner{}.Plan(plan, IdentityScanlineTransform(), []float64{150.5}, 0, 200)
	spans := lines[0].Stacks()
	if len(spans) != 1 {
		t.Fatalf("planned %d spans, want 1: %v", len(spans), spans)
	}
	checkSpan(t, spans[0], 0, 200, true, RunProgram(innerProgram))
}

// Lines outside every shape plan nothing.
func TestPlanEmptyScanline(t *testing.T) {
	shape := ShapeId(1)

	plan := NewEdgePlan().
		WithShape(shape, OpaqueShape(backgroundProgram)).
		WithEdge(NewRectangleEdge(shape, 0, 100, 400, 200))
	plan.Prepare()

	lines := ShardScanPlanner{}.Plan(plan, IdentityScanlineTransform(), []float64{50.5, 150.5, 250.5}, 0, 400)
	if len(lines) != 3 {
		t.Fatalf("planned %d lines, want 3", len(lines))
	}
	if n := len(lines[0].Stacks()); n != 0 {
		t.Errorf("line above shape planned %d spans, want 0", n)
	}
	if n := len(lines[1].Stacks()); n != 1 {
		t.Errorf("line inside shape planned %d spans, want 1", n)
	}
	if n := len(lines[2].Stacks()); n != 0 {
		t.Errorf("line below shape planned %d spans, want 0", n)
	}
}
