// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"
	"testing"

	"github.com/gogpu/canvas/curves"
)

func TestPolylineClosesLoop(t *testing.T) {
	poly := NewPolyline([]curves.Coord2{
		curves.C2(0, 0), curves.C2(10, 0), curves.C2(5, 10),
	})
	if poly.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (closing segment added)", poly.Len())
	}

	closed := NewPolyline([]curves.Coord2{
		curves.C2(0, 0), curves.C2(10, 0), curves.C2(5, 10), curves.C2(0, 0),
	})
	if closed.Len() != 3 {
		t.Errorf("Len() of pre-closed loop = %d, want 3", closed.Len())
	}
}

func TestPolylineTriangleIntercepts(t *testing.T) {
	// A triangle with its apex at the bottom: (0,0) -> (10,0) -> (5,10).
	poly := NewPolyline([]curves.Coord2{
		curves.C2(0, 0), curves.C2(10, 0), curves.C2(5, 10),
	})
	edge := poly.NonZeroEdge(NewShapeId())

	ys := []float64{0, 5, 9.5, 10}
	lines := collectIntercepts(t, edge, ys)

	// y=0 crosses the two slanted sides at their tops.
	if len(lines[0]) != 2 {
		t.Fatalf("crossings at y=0: %d, want 2 (%v)", len(lines[0]), lines[0])
	}
	if math.Abs(lines[0][0].X-0) > 1e-9 || math.Abs(lines[0][1].X-10) > 1e-9 {
		t.Errorf("crossings at y=0: %v, %v, want 0 and 10", lines[0][0].X, lines[0][1].X)
	}

	// Halfway down the triangle has narrowed to half its width.
	if len(lines[1]) != 2 {
		t.Fatalf("crossings at y=5: %d, want 2 (%v)", len(lines[1]), lines[1])
	}
	if math.Abs(lines[1][0].X-2.5) > 1e-9 || math.Abs(lines[1][1].X-7.5) > 1e-9 {
		t.Errorf("crossings at y=5: %v, %v, want 2.5 and 7.5", lines[1][0].X, lines[1][1].X)
	}

	// The scanline entering on the left leaves on the right.
	if lines[1][0].Direction == lines[1][1].Direction {
		t.Errorf("both crossings have direction %v; want one in, one out", lines[1][0].Direction)
	}

	// The apex vertex is an extremum, so the line through it reports both
	// segments ending there as out of range.
	if len(lines[3]) != 0 {
		t.Errorf("crossings at y=10: %v, want none", lines[3])
	}
	if len(lines[2]) != 2 {
		t.Errorf("crossings at y=9.5: %d, want 2 (%v)", len(lines[2]), lines[2])
	}
}

func TestPolylineSharedVertexCountsOnce(t *testing.T) {
	// A diamond: the left and right vertices sit exactly on y=5, shared by
	// an ascending and a descending segment. Each crossing must be
	// reported exactly once, by the segment that starts there.
	poly := NewPolyline([]curves.Coord2{
		curves.C2(5, 0), curves.C2(10, 5), curves.C2(5, 10), curves.C2(0, 5),
	})
	lines := collectIntercepts(t, poly.EvenOddEdge(NewShapeId()), []float64{5})

	if len(lines[0]) != 2 {
		t.Fatalf("crossings at y=5: %d, want 2 (%v)", len(lines[0]), lines[0])
	}
	if math.Abs(lines[0][0].X-0) > 1e-9 || math.Abs(lines[0][1].X-10) > 1e-9 {
		t.Errorf("crossings at y=5: %v, %v, want 0 and 10", lines[0][0].X, lines[0][1].X)
	}
}

func TestRectangleEdgeIntercepts(t *testing.T) {
	edge := NewRectangleEdge(NewShapeId(), 140, 140, 160, 160)

	minX, minY, maxX, maxY := edge.Bounds()
	if minX != 140 || minY != 140 || maxX != 160 || maxY != 160 {
		t.Errorf("Bounds() = (%v, %v, %v, %v), want (140, 140, 160, 160)", minX, minY, maxX, maxY)
	}

	ys := []float64{139.5, 140, 150, 159.5, 160}
	lines := collectIntercepts(t, edge, ys)

	for i, want := range []int{0, 2, 2, 2, 0} {
		if len(lines[i]) != want {
			t.Errorf("crossings at y=%v: %d, want %d", ys[i], len(lines[i]), want)
		}
	}
	if lines[2][0].X != 140 || lines[2][1].X != 160 {
		t.Errorf("crossings at y=150: %v, %v, want 140 and 160", lines[2][0].X, lines[2][1].X)
	}
	if lines[2][0].Direction != DirectionToggle || lines[2][1].Direction != DirectionToggle {
		t.Error("rectangle crossings should toggle containment")
	}
}

func TestNewRectangleEdgeNormalizesBounds(t *testing.T) {
	edge := NewRectangleEdge(1, 160, 160, 140, 140)
	minX, minY, maxX, maxY := edge.Bounds()
	if minX != 140 || minY != 140 || maxX != 160 || maxY != 160 {
		t.Errorf("Bounds() = (%v, %v, %v, %v), want normalized (140, 140, 160, 160)", minX, minY, maxX, maxY)
	}
}
