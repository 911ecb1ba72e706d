// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "sync/atomic"

// PixelProgramId identifies a pixel program to a ProgramRunner. The planner
// only decides which programs run where; what a program ID actually paints
// is up to the runner that executes the plan.
type PixelProgramId uint32

// ShapeId identifies the shape an edge belongs to. Crossing an edge enters
// or leaves the shape it names.
type ShapeId uint64

var lastShapeId atomic.Uint64

// NewShapeId returns a shape ID that is unique within the process.
func NewShapeId() ShapeId {
	return ShapeId(lastShapeId.Add(1))
}

// ShapeDescriptor describes how a shape is painted once the planner knows
// which pixels it covers.
type ShapeDescriptor struct {
	// Programs run in order over every span inside the shape.
	Programs []PixelProgramId

	// IsOpaque marks shapes whose programs fully hide whatever is below
	// them. The planner stops stacking programs at the topmost opaque
	// shape on a span.
	IsOpaque bool

	// ZIndex orders shapes within a plan. Higher values paint in front.
	ZIndex int64
}

// OpaqueShape describes a shape whose programs hide everything underneath.
func OpaqueShape(programs ...PixelProgramId) ShapeDescriptor {
	return ShapeDescriptor{Programs: programs, IsOpaque: true}
}

// TransparentShape describes a shape whose programs blend with the pixels
// underneath.
func TransparentShape(programs ...PixelProgramId) ShapeDescriptor {
	return ShapeDescriptor{Programs: programs}
}

// WithZIndex returns a copy of the descriptor placed at the given z-index.
func (d ShapeDescriptor) WithZIndex(z int64) ShapeDescriptor {
	d.ZIndex = z
	return d
}
