// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/canvas"
)

func TestEffectiveDashPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern []float32
		want    []float32
	}{
		{"empty", nil, nil},
		{"even", []float32{2, 1}, []float32{2, 1}},
		{"odd repeats", []float32{2}, []float32{2, 2}},
		{"odd three repeats", []float32{3, 1, 2}, []float32{3, 1, 2, 3, 1, 2}},
		{"negative lengths count by magnitude", []float32{-2, 1}, []float32{2, 1}},
		{"all zero", []float32{0, 0}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := effectiveDashPattern(tt.pattern)
			if !dashPatternsEqual(got, tt.want) {
				t.Errorf("effectiveDashPattern(%v) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestDashPatternLength(t *testing.T) {
	tests := []struct {
		pattern []float32
		want    float32
	}{
		{nil, 0},
		{[]float32{3, 1}, 4},
		{[]float32{2}, 4}, // odd pattern doubles
		{[]float32{1, 2, 3}, 12},
	}
	for _, tt := range tests {
		if got := dashPatternLength(tt.pattern); got != tt.want {
			t.Errorf("dashPatternLength(%v) = %v, want %v", tt.pattern, got, tt.want)
		}
	}
}

func TestDashTexturePixels(t *testing.T) {
	pixels := dashTexturePixels([]float32{1, 1})
	if len(pixels) != dashTextureLength {
		t.Fatalf("len = %d, want %d", len(pixels), dashTextureLength)
	}
	for i := 0; i < dashTextureLength/2; i++ {
		if pixels[i] != 255 {
			t.Fatalf("pixels[%d] = %d, want 255 (dash half)", i, pixels[i])
		}
	}
	for i := dashTextureLength / 2; i < dashTextureLength; i++ {
		if pixels[i] != 0 {
			t.Fatalf("pixels[%d] = %d, want 0 (gap half)", i, pixels[i])
		}
	}
}

func TestDashTexturePixelsDegenerate(t *testing.T) {
	for _, pattern := range [][]float32{nil, {0, 0}} {
		pixels := dashTexturePixels(pattern)
		for i, p := range pixels {
			if p != 255 {
				t.Fatalf("pattern %v: pixels[%d] = %d, want solid 255", pattern, i, p)
			}
		}
	}
}

func TestDashPolyline(t *testing.T) {
	line := []canvas.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}

	got := DashPolyline(line, []float32{2, 2}, 0)
	want := [][]canvas.Point{
		{{X: 0, Y: 0}, {X: 2, Y: 0}},
		{{X: 4, Y: 0}, {X: 6, Y: 0}},
		{{X: 8, Y: 0}, {X: 10, Y: 0}},
	}
	assertPolylines(t, got, want)
}

func TestDashPolylineOffset(t *testing.T) {
	line := []canvas.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}

	// Offset 2 starts the line inside the first gap.
	got := DashPolyline(line, []float32{2, 2}, 2)
	want := [][]canvas.Point{
		{{X: 2, Y: 0}, {X: 4, Y: 0}},
		{{X: 6, Y: 0}, {X: 8, Y: 0}},
	}
	assertPolylines(t, got, want)
}

func TestDashPolylineSpansCorners(t *testing.T) {
	// An L shape: the dash cycle carries across the corner. The first
	// dash runs 4 units, along the top edge and one unit down the side;
	// the gap covers the remaining 2 units, so nothing else renders.
	line := []canvas.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 3}}

	got := DashPolyline(line, []float32{4, 2}, 0)
	want := [][]canvas.Point{
		{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}},
	}
	assertPolylines(t, got, want)
}

func TestDashPolylineEmptyPattern(t *testing.T) {
	line := []canvas.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}
	got := DashPolyline(line, nil, 0)
	if len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("empty pattern = %v, want the polyline unsplit", got)
	}
}

func TestDashPolylineTooShort(t *testing.T) {
	if got := DashPolyline([]canvas.Point{{X: 1, Y: 1}}, []float32{1, 1}, 0); got != nil {
		t.Errorf("single point = %v, want nil", got)
	}
}

func assertPolylines(t *testing.T, got, want [][]canvas.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d polylines, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("polyline %d has %d points, want %d: %v", i, len(got[i]), len(want[i]), got[i])
		}
		for j := range want[i] {
			if !pointClose(got[i][j], want[i][j]) {
				t.Errorf("polyline %d point %d = %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func pointClose(a, b canvas.Point) bool {
	return closeTo(a.X, b.X) && closeTo(a.Y, b.Y)
}
