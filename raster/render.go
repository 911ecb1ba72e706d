// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "math"

// Pixel is one premultiplied RGBA pixel in linear light.
type Pixel [4]float32

// ProgramRunner executes pixel programs by ID. target is the whole
// scanline; a program writes the pixels in [xStart, xEnd). The transform
// and y position let programs that sample source coordinates know where
// they are.
type ProgramRunner interface {
	RunProgram(id PixelProgramId, target []Pixel, xStart, xEnd int, tr ScanlineTransform, y float64)
}

// ProgramRunnerFunc adapts a function to the ProgramRunner interface.
type ProgramRunnerFunc func(id PixelProgramId, target []Pixel, xStart, xEnd int, tr ScanlineTransform, y float64)

// RunProgram calls f.
func (f ProgramRunnerFunc) RunProgram(id PixelProgramId, target []Pixel, xStart, xEnd int, tr ScanlineTransform, y float64) {
	f(id, target, xStart, xEnd, tr, y)
}

// SolidColorRunner runs every program as a solid premultiplied color fill.
// Programs missing from the map paint nothing.
type SolidColorRunner map[PixelProgramId]Pixel

// RunProgram fills [xStart, xEnd) with the program's color.
func (r SolidColorRunner) RunProgram(id PixelProgramId, target []Pixel, xStart, xEnd int, _ ScanlineTransform, _ float64) {
	color, ok := r[id]
	if !ok {
		return
	}
	for x := xStart; x < xEnd; x++ {
		target[x] = color
	}
}

// ScanlineRenderer executes scanline plans against rows of pixels. The
// renderer keeps one scratch buffer per blend nesting depth, so it is not
// safe for concurrent use; give each goroutine its own.
type ScanlineRenderer struct {
	runner ProgramRunner
	blends [][]Pixel
}

// NewScanlineRenderer returns a renderer executing programs with runner.
func NewScanlineRenderer(runner ProgramRunner) *ScanlineRenderer {
	return &ScanlineRenderer{runner: runner}
}

// RenderScanline paints one planned scanline into row.
func (r *ScanlineRenderer) RenderScanline(plan *ScanlinePlan, tr ScanlineTransform, row []Pixel) {
	for _, span := range plan.Stacks() {
		xs := int(math.Floor(span.XStart))
		xe := int(math.Ceil(span.XEnd))
		if xs < 0 {
			xs = 0
		}
		if xe > len(row) {
			xe = len(row)
		}
		if xs >= xe {
			continue
		}

		depth := 0
		target := row
		for _, step := range span.Programs {
			switch step.Op {
			case PlanRun:
				r.runner.RunProgram(step.Program, target, xs, xe, tr, plan.Y)

			case PlanStartBlend:
				buf := r.blendBuffer(depth, len(row))
				for x := xs; x < xe; x++ {
					buf[x] = Pixel{}
				}
				depth++
				target = buf

			case PlanLinearSourceOver:
				if depth == 0 {
					continue
				}
				src := target
				depth--
				if depth > 0 {
					target = r.blends[depth-1]
				} else {
					target = row
				}
				compositeLinearSourceOver(src, target, xs, xe,
					float64(step.AlphaStart), float64(step.AlphaEnd))
			}
		}
	}
}

func (r *ScanlineRenderer) blendBuffer(depth, width int) []Pixel {
	for depth >= len(r.blends) {
		r.blends = append(r.blends, nil)
	}
	if len(r.blends[depth]) < width {
		r.blends[depth] = make([]Pixel, width)
	}
	return r.blends[depth]
}

// compositeLinearSourceOver composites src onto dst over [xs, xe) with the
// source alpha ramping linearly from a0 at the first pixel to a1 at the
// last.
func compositeLinearSourceOver(src, dst []Pixel, xs, xe int, a0, a1 float64) {
	n := xe - xs
	if n <= 0 {
		return
	}
	step := 0.0
	if n > 1 {
		step = (a1 - a0) / float64(n-1)
	}
	alpha := a0
	for x := xs; x < xe; x++ {
		a := float32(clamp01(alpha))
		s, d := src[x], dst[x]
		inv := 1 - s[3]*a
		dst[x] = Pixel{
			s[0]*a + d[0]*inv,
			s[1]*a + d[1]*inv,
			s[2]*a + d[2]*inv,
			s[3]*a + d[3]*inv,
		}
		alpha += step
	}
}

// Frame is a width by height grid of pixels rendered row by row.
type Frame struct {
	Width  int
	Height int

	// Pixels holds the rows back to back, row major.
	Pixels []Pixel
}

// NewFrame returns a transparent frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height, Pixels: make([]Pixel, width*height)}
}

// Row returns the pixels of row y.
func (f *Frame) Row(y int) []Pixel {
	return f.Pixels[y*f.Width : (y+1)*f.Width]
}

// At returns the pixel at (x, y).
func (f *Frame) At(x, y int) Pixel {
	return f.Pixels[y*f.Width+x]
}

// RenderFrame rasterizes an edge plan into a frame with the shard planner,
// one pixel row per scanline. Source coordinates are taken to be pixel
// coordinates, with each row planned at its vertical center.
func RenderFrame(plan *EdgePlan, runner ProgramRunner, frame *Frame) {
	plan.Prepare()

	tr := IdentityScanlineTransform()
	ys := make([]float64, frame.Height)
	for y := range ys {
		ys[y] = float64(y) + 0.5
	}

	lines := ShardScanPlanner{}.Plan(plan, tr, ys, 0, float64(frame.Width))
	renderer := NewScanlineRenderer(runner)
	for y := range lines {
		renderer.RenderScanline(&lines[y], tr, frame.Row(y))
	}
}
