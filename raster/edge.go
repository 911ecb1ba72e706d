// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

// InterceptDirection describes how crossing an edge changes shape
// containment.
type InterceptDirection uint8

const (
	// DirectionToggle flips containment on every crossing (even-odd rule).
	DirectionToggle InterceptDirection = iota

	// DirectionIn decrements the winding count (non-zero rule).
	DirectionIn

	// DirectionOut increments the winding count (non-zero rule).
	DirectionOut
)

// String returns the direction name for test failures and debug output.
func (d InterceptDirection) String() string {
	switch d {
	case DirectionToggle:
		return "Toggle"
	case DirectionIn:
		return "In"
	case DirectionOut:
		return "Out"
	}
	return "Unknown"
}

// EdgePosition locates an intercept on the edge that produced it: the
// subpath, the section within that subpath, and the t value along the
// section. Edges made of a single loop always report subpath 0.
type EdgePosition struct {
	Subpath int
	Section int
	T       float64
}

// EdgeIntercept is one crossing of an edge by a horizontal scanline.
type EdgeIntercept struct {
	// Direction says whether the crossing enters or leaves the shape.
	Direction InterceptDirection

	// X is the x coordinate of the crossing.
	X float64

	// Position locates the crossing on the edge itself.
	Position EdgePosition
}

// EdgeDescriptor traces one boundary of a shape for the planner.
//
// Prepare must be called before Intercepts, and implementations must report
// the crossings for each scanline in ascending x order. Intercepts takes
// every scanline at once so descriptors can amortize lookups over a whole
// frame.
type EdgeDescriptor interface {
	// Shape identifies the shape this edge borders.
	Shape() ShapeId

	// Prepare builds whatever lookup structures Intercepts needs. After
	// Prepare returns the edge must be safe for concurrent Intercepts
	// calls.
	Prepare()

	// Bounds returns the bounding box of the edge.
	Bounds() (minX, minY, maxX, maxY float64)

	// Intercepts appends the crossings for each scanline in ys to the
	// matching slot of out. len(out) must equal len(ys).
	Intercepts(ys []float64, out [][]EdgeIntercept)
}
