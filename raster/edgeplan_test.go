// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"
	"testing"

	"github.com/gogpu/canvas/curves"
)

func TestEdgePlanInterceptsMergeShapes(t *testing.T) {
	background := ShapeId(1)
	inner := ShapeId(2)

	plan := NewEdgePlan().
		WithShape(background, OpaqueShape(10)).
		WithShape(inner, OpaqueShape(11).WithZIndex(1)).
		WithEdge(NewRectangleEdge(background, 0, 0, 400, 300)).
		WithEdge(NewRectangleEdge(inner, 140, 140, 160, 160))
	plan.Prepare()

	out := make([][]PlanIntercept, 1)
	plan.InterceptsOnScanlines([]float64{150}, out)

	want := []PlanIntercept{
		{Shape: background, Direction: DirectionToggle, X: 0},
		{Shape: inner, Direction: DirectionToggle, X: 140},
		{Shape: inner, Direction: DirectionToggle, X: 160},
		{Shape: background, Direction: DirectionToggle, X: 400},
	}
	if len(out[0]) != len(want) {
		t.Fatalf("intercepts = %v, want %v", out[0], want)
	}
	for i := range want {
		if out[0][i] != want[i] {
			t.Errorf("intercept %d = %+v, want %+v", i, out[0][i], want[i])
		}
	}
}

func TestEdgePlanBounds(t *testing.T) {
	plan := NewEdgePlan().
		WithEdge(NewRectangleEdge(1, 10, 20, 30, 40)).
		WithEdge(NewRectangleEdge(2, -5, 25, 15, 60))

	minX, minY, maxX, maxY := plan.Bounds()
	if minX != -5 || minY != 20 || maxX != 30 || maxY != 60 {
		t.Errorf("Bounds() = (%v, %v, %v, %v), want (-5, 20, 30, 60)", minX, minY, maxX, maxY)
	}
}

func TestShardsSweepSlantedEdges(t *testing.T) {
	shape := ShapeId(1)
	poly := NewPolyline([]curves.Coord2{
		curves.C2(0, 0), curves.C2(10, 0), curves.C2(5, 10),
	})
	plan := NewEdgePlan().
		WithShape(shape, OpaqueShape(10)).
		WithEdge(poly.NonZeroEdge(shape))
	plan.Prepare()

	out := make([][]ShardIntercept, 1)
	plan.ShardsOnScanlines([]float64{4, 5}, out)

	if len(out[0]) != 2 {
		t.Fatalf("shards = %v, want 2", out[0])
	}
	left, right := out[0][0], out[0][1]
	if math.Abs(left.LowerX-2) > 1e-9 || math.Abs(left.UpperX-2.5) > 1e-9 {
		t.Errorf("left shard sweeps [%v, %v], want [2, 2.5]", left.LowerX, left.UpperX)
	}
	if left.Direction != DirectionIn {
		t.Errorf("left shard direction = %v, want In", left.Direction)
	}
	if math.Abs(right.LowerX-7.5) > 1e-9 || math.Abs(right.UpperX-8) > 1e-9 {
		t.Errorf("right shard sweeps [%v, %v], want [7.5, 8]", right.LowerX, right.UpperX)
	}
	if right.Direction != DirectionOut {
		t.Errorf("right shard direction = %v, want Out", right.Direction)
	}
}

func TestShardsOnShapeBottomRow(t *testing.T) {
	// The row whose lower boundary sits on the shape's bottom edge only
	// sees crossings on its upper boundary; they sweep in place so the
	// last row still fills.
	shape := ShapeId(1)
	plan := NewEdgePlan().
		WithShape(shape, OpaqueShape(10)).
		WithEdge(NewRectangleEdge(shape, 140, 140, 160, 160))
	plan.Prepare()

	out := make([][]ShardIntercept, 1)
	plan.ShardsOnScanlines([]float64{159, 160}, out)

	if len(out[0]) != 2 {
		t.Fatalf("shards = %v, want 2", out[0])
	}
	if out[0][0].LowerX != 140 || out[0][0].UpperX != 140 {
		t.Errorf("left shard = [%v, %v], want degenerate at 140", out[0][0].LowerX, out[0][0].UpperX)
	}
	if out[0][1].LowerX != 160 || out[0][1].UpperX != 160 {
		t.Errorf("right shard = [%v, %v], want degenerate at 160", out[0][1].LowerX, out[0][1].UpperX)
	}
}

func TestShardsAboveShapeTopRowAreDropped(t *testing.T) {
	// The row ending exactly where a shape begins does not overlap it;
	// crossings on its lower boundary belong to the next row down.
	shape := ShapeId(1)
	plan := NewEdgePlan().
		WithShape(shape, OpaqueShape(10)).
		WithEdge(NewRectangleEdge(shape, 140, 140, 160, 160))
	plan.Prepare()

	out := make([][]ShardIntercept, 1)
	plan.ShardsOnScanlines([]float64{139, 140}, out)

	if len(out[0]) != 0 {
		t.Errorf("shards = %v, want none", out[0])
	}
}

func TestShardsOrderedByLowerX(t *testing.T) {
	a, b := ShapeId(1), ShapeId(2)
	plan := NewEdgePlan().
		WithShape(a, OpaqueShape(10)).
		WithShape(b, OpaqueShape(11)).
		WithEdge(NewRectangleEdge(b, 50, 0, 60, 10)).
		WithEdge(NewRectangleEdge(a, 5, 0, 20, 10))
	plan.Prepare()

	out := make([][]ShardIntercept, 1)
	plan.ShardsOnScanlines([]float64{4, 5}, out)

	if len(out[0]) != 4 {
		t.Fatalf("shards = %v, want 4", out[0])
	}
	for i := 1; i < len(out[0]); i++ {
		if out[0][i].LowerX < out[0][i-1].LowerX {
			t.Errorf("shards out of order: %v before %v", out[0][i-1], out[0][i])
		}
	}
	if out[0][0].Shape != a || out[0][3].Shape != b {
		t.Errorf("shard shapes = %v, want shape %d first and shape %d last", out[0], a, b)
	}
}
