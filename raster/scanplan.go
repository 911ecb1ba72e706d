// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

// ScanlineTransform maps source x coordinates onto pixel columns. Planning
// happens in pixel coordinates so that anti-aliasing fades line up with the
// pixel grid whatever the source coordinate system is.
type ScanlineTransform struct {
	sourceMin  float64
	pixelScale float64
}

// IdentityScanlineTransform maps source coordinates straight onto pixel
// columns.
func IdentityScanlineTransform() ScanlineTransform {
	return ScanlineTransform{pixelScale: 1}
}

// ScanlineTransformForRegion maps the source range [minX, maxX) onto
// pixelWidth columns.
func ScanlineTransformForRegion(minX, maxX float64, pixelWidth int) ScanlineTransform {
	return ScanlineTransform{
		sourceMin:  minX,
		pixelScale: float64(pixelWidth) / (maxX - minX),
	}
}

// SourceToPixels converts a source x coordinate to a pixel column.
func (t ScanlineTransform) SourceToPixels(x float64) float64 {
	return (x - t.sourceMin) * t.pixelScale
}

// PixelToSource converts a pixel column back to a source x coordinate.
func (t ScanlineTransform) PixelToSource(x float64) float64 {
	return x/t.pixelScale + t.sourceMin
}

// PixelSize returns the width of one pixel in source units.
func (t ScanlineTransform) PixelSize() float64 {
	return 1 / t.pixelScale
}

// PlanOp selects what a PixelProgramPlan step does.
type PlanOp uint8

const (
	// PlanRun executes a pixel program over the span.
	PlanRun PlanOp = iota

	// PlanStartBlend redirects the steps that follow into a fresh
	// transparent buffer.
	PlanStartBlend

	// PlanLinearSourceOver composites the buffer opened by the matching
	// PlanStartBlend onto the pixels below it, with the source alpha
	// ramping linearly across the span.
	PlanLinearSourceOver
)

// PixelProgramPlan is one step in a span's program stack. Steps run in
// order, and PlanStartBlend/PlanLinearSourceOver pairs nest like brackets
// around the steps between them.
type PixelProgramPlan struct {
	Op      PlanOp
	Program PixelProgramId

	// AlphaStart and AlphaEnd are the source alphas applied at the span's
	// first and last pixel by PlanLinearSourceOver.
	AlphaStart float32
	AlphaEnd   float32
}

// RunProgram returns a step that executes the given pixel program.
func RunProgram(id PixelProgramId) PixelProgramPlan {
	return PixelProgramPlan{Op: PlanRun, Program: id}
}

// StartBlend returns a step that opens a fresh blend buffer.
func StartBlend() PixelProgramPlan {
	return PixelProgramPlan{Op: PlanStartBlend}
}

// LinearSourceOver returns a step that closes the innermost blend buffer,
// compositing it source-over with alpha ramping from start to end across
// the span.
func LinearSourceOver(start, end float32) PixelProgramPlan {
	return PixelProgramPlan{Op: PlanLinearSourceOver, AlphaStart: start, AlphaEnd: end}
}

// ScanSpanStack is a run of pixels and the steps that paint it, in
// execution order: the bottom-most shape's programs first.
type ScanSpanStack struct {
	// XStart and XEnd bound the span in pixels, half open.
	XStart float64
	XEnd   float64

	// Opaque is true when the bottom of the stack fully covers the span,
	// so whatever was in the target beforehand does not show through.
	Opaque bool

	Programs []PixelProgramPlan
}

// newSpanStackReversed builds a span stack from steps collected top-down,
// storing them bottom-up so they are in execution order.
func newSpanStackReversed(xStart, xEnd float64, opaque bool, topDown []PixelProgramPlan) ScanSpanStack {
	programs := make([]PixelProgramPlan, len(topDown))
	for i, step := range topDown {
		programs[len(topDown)-1-i] = step
	}
	return ScanSpanStack{XStart: xStart, XEnd: xEnd, Opaque: opaque, Programs: programs}
}

// ScanlinePlan is everything needed to paint one scanline: ordered,
// non-overlapping span stacks.
type ScanlinePlan struct {
	// Y is the scanline's position in source coordinates.
	Y float64

	stacks []ScanSpanStack
}

// Stacks returns the span stacks in ascending x order.
func (p *ScanlinePlan) Stacks() []ScanSpanStack {
	return p.stacks
}

// Clear empties the plan, keeping its storage for reuse.
func (p *ScanlinePlan) Clear() {
	p.stacks = p.stacks[:0]
}
