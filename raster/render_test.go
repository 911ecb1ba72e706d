// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"
	"testing"
)

var (
	white = Pixel{1, 1, 1, 1}
	blue  = Pixel{0, 0, 1, 1}
)

func checkPixel(t *testing.T, frame *Frame, x, y int, want Pixel) {
	t.Helper()
	got := frame.At(x, y)
	for c := 0; c < 4; c++ {
		if math.Abs(float64(got[c]-want[c])) > 1e-6 {
			t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			return
		}
	}
}

func TestRenderFrameTwoRectangles(t *testing.T) {
	background := ShapeId(1)
	inner := ShapeId(2)

	plan := NewEdgePlan().
		WithShape(background, OpaqueShape(backgroundProgram)).
		WithShape(inner, OpaqueShape(innerProgram).WithZIndex(1)).
		WithEdge(NewRectangleEdge(background, 0, 0, 40, 30)).
		WithEdge(NewRectangleEdge(inner, 14, 14, 16, 16))

	frame := NewFrame(40, 30)
	RenderFrame(plan, SolidColorRunner{backgroundProgram: white, innerProgram: blue}, frame)

	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			want := white
			if x >= 14 && x < 16 && y >= 14 && y < 16 {
				want = blue
			}
			checkPixel(t, frame, x, y, want)
		}
	}
}

func TestRenderFrameAntialiasedEdge(t *testing.T) {
	background := ShapeId(1)
	inner := ShapeId(2)

	plan := NewEdgePlan().
		WithShape(background, OpaqueShape(backgroundProgram)).
		WithShape(inner, OpaqueShape(innerProgram).WithZIndex(1)).
		WithEdge(NewRectangleEdge(background, 0, 0, 40, 30)).
		WithEdge(NewRectangleEdge(inner, 14.5, 14, 16.5, 16))

	frame := NewFrame(40, 30)
	RenderFrame(plan, SolidColorRunner{backgroundProgram: white, innerProgram: blue}, frame)

	half := Pixel{0.5, 0.5, 1, 1}
	checkPixel(t, frame, 13, 14, white)
	checkPixel(t, frame, 14, 14, half)
	checkPixel(t, frame, 15, 14, blue)
	checkPixel(t, frame, 16, 14, half)
	checkPixel(t, frame, 17, 14, white)
	checkPixel(t, frame, 14, 13, white)
}

func TestRenderFrameTransparentOverlay(t *testing.T) {
	background := ShapeId(1)
	overlay := ShapeId(2)
	halfRed := Pixel{0.5, 0, 0, 0.5}

	runner := ProgramRunnerFunc(func(id PixelProgramId, target []Pixel, xStart, xEnd int, _ ScanlineTransform, _ float64) {
		for x := xStart; x < xEnd; x++ {
			switch id {
			case backgroundProgram:
				target[x] = white
			case innerProgram:
				d := target[x]
				inv := 1 - halfRed[3]
				target[x] = Pixel{
					halfRed[0] + d[0]*inv,
					halfRed[1] + d[1]*inv,
					halfRed[2] + d[2]*inv,
					halfRed[3] + d[3]*inv,
				}
			}
		}
	})

	plan := NewEdgePlan().
		WithShape(background, OpaqueShape(backgroundProgram)).
		WithShape(overlay, TransparentShape(innerProgram).WithZIndex(1)).
		WithEdge(NewRectangleEdge(background, 0, 0, 40, 30)).
		WithEdge(NewRectangleEdge(overlay, 10, 10, 30, 20))

	frame := NewFrame(40, 30)
	RenderFrame(plan, runner, frame)

	checkPixel(t, frame, 20, 15, Pixel{1, 0.5, 0.5, 1})
	checkPixel(t, frame, 5, 15, white)
	checkPixel(t, frame, 20, 5, white)
}

// Two rectangle edges under one even-odd shape cut a hole.
func TestRenderFrameEvenOddHole(t *testing.T) {
	background := ShapeId(1)
	ring := ShapeId(2)

	plan := NewEdgePlan().
		WithShape(background, OpaqueShape(backgroundProgram)).
		WithShape(ring, OpaqueShape(innerProgram).WithZIndex(1)).
		WithEdge(NewRectangleEdge(background, 0, 0, 40, 30)).
		WithEdge(NewRectangleEdge(ring, 5, 5, 35, 25)).
		WithEdge(NewRectangleEdge(ring, 15, 10, 25, 20))

	frame := NewFrame(40, 30)
	RenderFrame(plan, SolidColorRunner{backgroundProgram: white, innerProgram: blue}, frame)

	checkPixel(t, frame, 2, 15, white)
	checkPixel(t, frame, 10, 15, blue)
	checkPixel(t, frame, 20, 15, white)
	checkPixel(t, frame, 30, 15, blue)
	checkPixel(t, frame, 37, 15, white)
	checkPixel(t, frame, 20, 7, blue)
	checkPixel(t, frame, 20, 22, blue)
}

func TestRenderFrameCircle(t *testing.T) {
	background := ShapeId(1)
	disc := ShapeId(2)

	subpath, err := SubpathFromPath(circlePath(20, 15.5, 10))
	if err != nil {
		t.Fatal(err)
	}
	plan := NewEdgePlan().
		WithShape(background, OpaqueShape(backgroundProgram)).
		WithShape(disc, OpaqueShape(innerProgram).WithZIndex(1)).
		WithEdge(NewRectangleEdge(background, 0, 0, 40, 31)).
		WithEdge(subpath.NonZeroEdge(disc))

	frame := NewFrame(40, 31)
	RenderFrame(plan, SolidColorRunner{backgroundProgram: white, innerProgram: blue}, frame)

	checkPixel(t, frame, 20, 15, blue)
	checkPixel(t, frame, 20, 7, blue)
	checkPixel(t, frame, 0, 15, white)
	checkPixel(t, frame, 20, 2, white)
	checkPixel(t, frame, 20, 28, white)

	// The left rim pixel is partially covered, so it blends toward the
	// background without reaching it.
	rim := frame.At(10, 15)
	if rim[0] <= 0 || rim[0] >= 1 {
		t.Errorf("rim pixel = %v, want red channel strictly between 0 and 1", rim)
	}
	if math.Abs(float64(rim[2]-1)) > 1e-6 || math.Abs(float64(rim[3]-1)) > 1e-6 {
		t.Errorf("rim pixel = %v, want full blue and alpha channels", rim)
	}
}

func TestRenderScanlineClampsToRow(t *testing.T) {
	plan := ScanlinePlan{
		Y: 0.5,
		stacks: []ScanSpanStack{
			{XStart: -5, XEnd: 3, Opaque: true, Programs: []PixelProgramPlan{RunProgram(backgroundProgram)}},
			{XStart: 8, XEnd: 15, Opaque: true, Programs: []PixelProgramPlan{RunProgram(backgroundProgram)}},
		},
	}

	row := make([]Pixel, 10)
	renderer := NewScanlineRenderer(SolidColorRunner{backgroundProgram: white})
	renderer.RenderScanline(&plan, IdentityScanlineTransform(), row)

	for x := 0; x < 10; x++ {
		want := Pixel{}
		if x < 3 || x >= 8 {
			want = white
		}
		if row[x] != want {
			t.Errorf("row[%d] = %v, want %v", x, row[x], want)
		}
	}
}
