// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"
	"testing"
)

func TestAlphaCoverage(t *testing.T) {
	tests := []struct {
		name  string
		left  float64
		right float64
		want  float64
	}{
		{"fully above", 1.5, 1.5, 1},
		{"fully below", -0.5, -0.5, 0},
		{"corner to corner", 0, 1, 0.5},
		{"rising through the bottom", -0.5, 0.5, 0.125},
		{"rising to the middle", 0, 0.5, 0.25},
		{"rising past the top", 0.5, 1, 0.75},
		{"falling to the bottom", 0.5, 0, 0.25},
		{"partial rise", 0.1, 0.6, 0.35},
		{"clipped both sides", -0.5, 2.0, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlphaCoverage(tt.left, tt.right)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AlphaCoverage(%v, %v) = %v, want %v", tt.left, tt.right, got, tt.want)
			}
		})
	}
}

func TestFadeForSpanVerticalBoundary(t *testing.T) {
	// A vertical boundary halfway through a one-pixel span covers half of
	// it, whichever way the fade runs.
	start, end := fadeForSpan(140, 141, 140.5, 140.5, 0, 1)
	if math.Abs(start-0.5) > 1e-9 || math.Abs(end-0.5) > 1e-9 {
		t.Errorf("fade in at midpixel = (%v, %v), want (0.5, 0.5)", start, end)
	}

	// Fading out a quarter of the way in leaves a quarter covered.
	start, end = fadeForSpan(140, 141, 140.25, 140.25, 1, 0)
	if math.Abs(start-0.25) > 1e-9 || math.Abs(end-0.25) > 1e-9 {
		t.Errorf("fade out at quarter = (%v, %v), want (0.25, 0.25)", start, end)
	}
}

func TestFadeForSpanRamp(t *testing.T) {
	// A ramp from 0 at x=10 to 1 at x=14 over the span [10, 14): the first
	// pixel sees the ramp cross 0 to 0.25 and the last 0.75 to 1.
	start, end := fadeForSpan(10, 14, 10, 14, 0, 1)
	if math.Abs(start-0.125) > 1e-9 {
		t.Errorf("ramp start alpha = %v, want 0.125", start)
	}
	if math.Abs(end-0.875) > 1e-9 {
		t.Errorf("ramp end alpha = %v, want 0.875", end)
	}
}

func TestShardEventOrder(t *testing.T) {
	tr := IdentityScanlineTransform()
	shards := []ShardIntercept{
		{Shape: 1, Direction: DirectionToggle, LowerX: 0, UpperX: 2},
		{Shape: 2, Direction: DirectionToggle, LowerX: 1, UpperX: 8},
		{Shape: 3, Direction: DirectionToggle, LowerX: 4, UpperX: 5},
		{Shape: 4, Direction: DirectionToggle, LowerX: 10, UpperX: 11},
	}

	type event struct {
		shape ShapeId
		start bool
		x     float64
	}
	var got []event
	it := newShardEventIter(shards, tr)
	for ev, ok := it.nextEvent(); ok; ev, ok = it.nextEvent() {
		got = append(got, event{shape: ev.loc.shape, start: ev.start, x: ev.x()})
	}

	// Shape 1 finishes before shape 3 starts; shape 3 nests inside shape 2
	// and finishes first; shape 4 starts after everything else is done.
	want := []event{
		{1, true, 0},
		{2, true, 1},
		{1, false, 2},
		{3, true, 4},
		{3, false, 5},
		{2, false, 8},
		{4, true, 10},
		{4, false, 11},
	}
	if len(got) != len(want) {
		t.Fatalf("event count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
