// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"
	"sort"
)

// EdgePlan is a retained description of a scene: every shape's paint
// descriptor plus the edges tracing its boundary. Plans are built once,
// prepared, and then read by any number of planner passes.
type EdgePlan struct {
	shapes   map[ShapeId]*ShapeDescriptor
	edges    []EdgeDescriptor
	space    Space1D[int]
	prepared bool
}

// NewEdgePlan returns an empty plan.
func NewEdgePlan() *EdgePlan {
	return &EdgePlan{shapes: make(map[ShapeId]*ShapeDescriptor)}
}

// DeclareShape registers how the shape behind one or more edges is painted.
// Redeclaring a shape replaces its descriptor.
func (p *EdgePlan) DeclareShape(id ShapeId, desc ShapeDescriptor) {
	copied := desc
	p.shapes[id] = &copied
}

// WithShape is DeclareShape returning the plan, for building scenes in one
// expression.
func (p *EdgePlan) WithShape(id ShapeId, desc ShapeDescriptor) *EdgePlan {
	p.DeclareShape(id, desc)
	return p
}

// AddEdge adds a shape boundary to the plan.
func (p *EdgePlan) AddEdge(edge EdgeDescriptor) {
	p.edges = append(p.edges, edge)
	p.prepared = false
}

// WithEdge is AddEdge returning the plan.
func (p *EdgePlan) WithEdge(edge EdgeDescriptor) *EdgePlan {
	p.AddEdge(edge)
	return p
}

// ShapeDescriptor returns the descriptor declared for a shape, or nil when
// the shape was never declared.
func (p *EdgePlan) ShapeDescriptor(id ShapeId) *ShapeDescriptor {
	return p.shapes[id]
}

// EdgeCount returns the number of edges in the plan.
func (p *EdgePlan) EdgeCount() int {
	return len(p.edges)
}

// Bounds returns the bounding box of every edge in the plan.
func (p *EdgePlan) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, e := range p.edges {
		x0, y0, x1, y1 := e.Bounds()
		minX = math.Min(minX, x0)
		minY = math.Min(minY, y0)
		maxX = math.Max(maxX, x1)
		maxY = math.Max(maxY, y1)
	}
	return minX, minY, maxX, maxY
}

// Prepare readies every edge for intercept lookups and indexes them by
// their vertical extent. It must be called before planning and after any
// change to the plan's edges.
func (p *EdgePlan) Prepare() {
	if p.prepared {
		return
	}
	p.space = Space1D[int]{}
	for i, e := range p.edges {
		e.Prepare()
		_, minY, _, maxY := e.Bounds()
		p.space.Add(minY, maxY, i)
	}
	p.space.build()
	p.prepared = true
}

// PlanIntercept is an edge crossing found by the plan, tagged with the
// shape it belongs to.
type PlanIntercept struct {
	Shape     ShapeId
	Direction InterceptDirection
	X         float64
}

// InterceptsOnScanlines finds every crossing for each scanline in ys,
// appending them to the matching slot of out in ascending x order.
// len(out) must equal len(ys), and Prepare must have been called.
func (p *EdgePlan) InterceptsOnScanlines(ys []float64, out [][]PlanIntercept) {
	if len(ys) == 0 {
		return
	}

	minY, maxY := ys[0], ys[0]
	for _, y := range ys[1:] {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	lines := make([][]EdgeIntercept, len(ys))
	for _, idx := range p.space.Overlapping(minY, maxY, nil) {
		edge := p.edges[idx]
		shape := edge.Shape()
		for i := range lines {
			lines[i] = lines[i][:0]
		}
		edge.Intercepts(ys, lines)
		for i := range lines {
			for _, ic := range lines[i] {
				out[i] = append(out[i], PlanIntercept{Shape: shape, Direction: ic.Direction, X: ic.X})
			}
		}
	}

	for i := range out {
		row := out[i]
		sort.SliceStable(row, func(a, b int) bool { return row[a].X < row[b].X })
	}
}

// ShardIntercept is a shape boundary swept between the two scanlines that
// bound a pixel row. The crossing moves from one x position to another
// across the row, fading coverage over [LowerX, UpperX].
type ShardIntercept struct {
	Shape     ShapeId
	Direction InterceptDirection

	// LowerX and UpperX bound the sweep horizontally, LowerX <= UpperX.
	LowerX float64
	UpperX float64
}

// ShardsOnScanlines computes the shard intercepts for the pixel rows
// bounded by consecutive entries of boundaries: row i is swept between
// boundaries[i] and boundaries[i+1], so len(out) must be
// len(boundaries)-1. Each row comes back ordered by LowerX. Prepare must
// have been called.
func (p *EdgePlan) ShardsOnScanlines(boundaries []float64, out [][]ShardIntercept) {
	if len(boundaries) < 2 {
		return
	}

	minY, maxY := boundaries[0], boundaries[0]
	for _, y := range boundaries[1:] {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	lines := make([][]EdgeIntercept, len(boundaries))
	for _, idx := range p.space.Overlapping(minY, maxY, nil) {
		edge := p.edges[idx]
		shape := edge.Shape()
		for i := range lines {
			lines[i] = lines[i][:0]
		}
		edge.Intercepts(boundaries, lines)
		for row := 0; row < len(boundaries)-1; row++ {
			out[row] = pairShards(shape, lines[row], lines[row+1], out[row])
		}
	}

	for i := range out {
		row := out[i]
		sort.SliceStable(row, func(a, b int) bool { return row[a].LowerX < row[b].LowerX })
	}
}

// pairShards pairs each crossing on a row's upper boundary with the
// crossing at the same position on its lower boundary, producing the shard
// swept between them. A crossing with no partner below sweeps a degenerate
// zero-width shard, which keeps the bottom row of a shape filled; crossings
// found only on the lower boundary belong to the row below and are dropped
// here. Features narrow enough to cross neither boundary vanish, which is
// the shard model's accepted loss.
func pairShards(shape ShapeId, upper, lower []EdgeIntercept, dst []ShardIntercept) []ShardIntercept {
	for k, ic := range upper {
		lowerX, upperX := ic.X, ic.X
		if k < len(lower) {
			if x := lower[k].X; x < lowerX {
				lowerX = x
			} else {
				upperX = x
			}
		}
		dst = append(dst, ShardIntercept{
			Shape:     shape,
			Direction: ic.Direction,
			LowerX:    lowerX,
			UpperX:    upperX,
		})
	}
	return dst
}
