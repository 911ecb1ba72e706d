// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "fmt"

// ShardScanPlanner plans scanlines with shard anti-aliasing: every edge
// crossing is swept between the scanlines half a pixel above and below each
// planned line, and the sweep becomes a linear alpha ramp over the pixels
// it spans. Edges fade in and out rather than cutting hard pixel
// boundaries.
//
// The planner is stateless; the zero value is ready to use.
type ShardScanPlanner struct{}

// Plan produces one scanline plan per entry of ys, covering the source
// region [xMin, xMax). The y positions must be in ascending order.
func (pl ShardScanPlanner) Plan(plan *EdgePlan, tr ScanlineTransform, ys []float64, xMin, xMax float64) []ScanlinePlan {
	out := make([]ScanlinePlan, len(ys))
	pl.PlanInto(plan, tr, ys, xMin, xMax, out)
	return out
}

// PlanInto is Plan writing into caller-owned scanline storage, reusing the
// span slices already there. len(dst) must be at least len(ys).
func (pl ShardScanPlanner) PlanInto(plan *EdgePlan, tr ScanlineTransform, ys []float64, xMin, xMax float64, dst []ScanlinePlan) {
	if len(dst) < len(ys) {
		panic(fmt.Sprintf("raster: %d scanline plans supplied for %d y positions", len(dst), len(ys)))
	}
	if len(ys) == 0 {
		return
	}

	// Shards sweep between lines half a pixel either side of each planned
	// line, so n lines need n+1 boundaries.
	halfPixel := tr.PixelSize() / 2
	boundaries := make([]float64, 0, len(ys)+1)
	for _, y := range ys {
		boundaries = append(boundaries, y-halfPixel)
	}
	boundaries = append(boundaries, ys[len(ys)-1]+halfPixel)

	rows := make([][]ShardIntercept, len(ys))
	plan.ShardsOnScanlines(boundaries, rows)

	pxMin := tr.SourceToPixels(xMin)
	pxMax := tr.SourceToPixels(xMax)

	var stack []PixelProgramPlan

	for i := range ys {
		line := &dst[i]
		line.Y = ys[i]
		line.Clear()

		events := newShardEventIter(rows[i], tr)
		ev, ok := events.nextEvent()
		if !ok {
			continue
		}

		state := newInterceptState()

		// Events left of the planned region only update the state.
		for ev.x() < pxMin {
			applyShardEvent(&state, ev, plan)
			if ev, ok = events.nextEvent(); !ok {
				break
			}
		}
		if !ok {
			continue
		}
		state.clipStartX(pxMin)

		lastX := pxMin
		zFloor := state.zFloor

		// emit closes the span [lastX, nextX) from the current state.
		// Steps are collected top-down, stopping at the first shape that
		// hides everything below it. Each fade a shape is crossing becomes
		// a StartBlend/LinearSourceOver pair around its programs.
		emit := func(nextX float64) {
			if nextX == lastX {
				return
			}
			stack = stack[:0]
			opaque := false
			for s := len(state.active) - 1; s >= 0; s-- {
				shape := &state.active[s]
				blends := 0
				for b := shape.blend; b != nil; b = b.nested {
					a0, a1 := fadeForSpan(lastX, nextX, b.xStart, b.xEnd, b.alphaStart, b.alphaEnd)
					stack = append(stack, LinearSourceOver(float32(a0), float32(a1)))
					blends++
				}
				for _, prog := range shape.desc.Programs {
					stack = append(stack, RunProgram(prog))
				}
				for n := 0; n < blends; n++ {
					stack = append(stack, StartBlend())
				}
				if shape.isOpaque() {
					opaque = true
					break
				}
			}
			if len(stack) > 0 {
				line.stacks = append(line.stacks, newSpanStackReversed(lastX, nextX, opaque, stack))
			}
			lastX = nextX
		}

		for {
			nextX := ev.x()
			if nextX >= pxMax {
				// The region edge closes the span no matter which shape's
				// event reached it.
				emit(pxMax)
				break
			}

			// Inside the region, only events at or above the z-floor can
			// change what is visible, so only they close off a span.
			if desc := plan.ShapeDescriptor(ev.loc.shape); desc != nil && desc.ZIndex >= zFloor {
				emit(nextX)
			}

			applyShardEvent(&state, ev, plan)
			zFloor = state.zFloor

			if ev, ok = events.nextEvent(); !ok {
				emit(pxMax)
				break
			}
		}
	}
}

func applyShardEvent(state *interceptState, ev shardEvent, plan *EdgePlan) {
	desc := plan.ShapeDescriptor(ev.loc.shape)
	if ev.start {
		state.startIntercept(ev.loc, desc)
	} else {
		state.finishIntercept(ev.loc, desc)
	}
}
