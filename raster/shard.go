// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "math"

// shardLocation is a shard intercept resolved to pixel coordinates, with
// the pixel columns where its fade starts and stops taking effect.
type shardLocation struct {
	shape     ShapeId
	direction InterceptDirection

	// lowerX and upperX bound the fade in fractional pixel coordinates.
	lowerX float64
	upperX float64

	// lowerXFloor is the column where the shape starts to appear, and
	// upperXCeil the column where its coverage is complete.
	lowerXFloor float64
	upperXCeil  float64
}

func locateShard(ic ShardIntercept, tr ScanlineTransform) shardLocation {
	lower := tr.SourceToPixels(ic.LowerX)
	upper := tr.SourceToPixels(ic.UpperX)
	return shardLocation{
		shape:       ic.Shape,
		direction:   ic.Direction,
		lowerX:      lower,
		upperX:      upper,
		lowerXFloor: math.Floor(lower),
		upperXCeil:  math.Ceil(upper),
	}
}

// shardEvent is one end of a shard: the start, where its fade begins, or
// the finish, where its coverage is complete.
type shardEvent struct {
	start bool
	loc   shardLocation
}

// x returns the pixel column the event takes effect at.
func (e shardEvent) x() float64 {
	if e.start {
		return e.loc.lowerXFloor
	}
	return e.loc.upperXCeil
}

// shardEventIter turns a row's shard intercepts, ordered by lower x, into
// an ordered stream of start and finish events. Starts keep the input
// order; each shard's finish is emitted as soon as no later shard starts
// before it, with overlapping shards finishing nearest-end-first.
type shardEventIter struct {
	intercepts []ShardIntercept
	transform  ScanlineTransform
	next       int
	pending    *shardLocation

	// started holds shards whose start has been emitted but not their
	// finish, ordered bottom to top by descending upperXCeil.
	started []shardLocation
}

func newShardEventIter(intercepts []ShardIntercept, tr ScanlineTransform) shardEventIter {
	return shardEventIter{intercepts: intercepts, transform: tr}
}

func (it *shardEventIter) nextEvent() (shardEvent, bool) {
	var next *shardLocation
	if it.pending != nil {
		next, it.pending = it.pending, nil
	} else if it.next < len(it.intercepts) {
		loc := locateShard(it.intercepts[it.next], it.transform)
		it.next++
		next = &loc
	}

	if next != nil {
		if n := len(it.started); n > 0 {
			if top := it.started[n-1]; top.upperXCeil <= next.lowerX {
				it.started = it.started[:n-1]
				it.pending = next
				return shardEvent{loc: top}, true
			}
		}

		// Keep the soonest-finishing shard on top; ties go below their
		// equals so earlier starts finish first.
		place := 0
		for i := len(it.started) - 1; i >= 0; i-- {
			if it.started[i].upperXCeil > next.upperXCeil {
				place = i + 1
				break
			}
		}
		it.started = append(it.started, shardLocation{})
		copy(it.started[place+1:], it.started[place:])
		it.started[place] = *next
		return shardEvent{start: true, loc: *next}, true
	}

	if n := len(it.started); n > 0 {
		top := it.started[n-1]
		it.started = it.started[:n-1]
		return shardEvent{loc: top}, true
	}
	return shardEvent{}, false
}

// AlphaCoverage returns how much of a unit pixel a shard edge covers, given
// the edge's alpha at the pixel's left side and right side. The alphas
// describe a straight line across the pixel; the result is the area under
// that line clipped to the pixel square.
func AlphaCoverage(alphaLeft, alphaRight float64) float64 {
	ay := math.Min(alphaLeft, alphaRight)
	by := math.Max(alphaLeft, alphaRight)

	switch {
	case ay <= 0 && by <= 0:
		return 0

	case ay >= 1 && by >= 1:
		return 1

	case ay < 0:
		// The line enters the pixel square partway across.
		cx := -ay / (by - ay)
		if by < 1 {
			return 0.5 * (1 - cx) * by
		}
		// It also exits through the top.
		dx := (1 - ay) / (by - ay)
		return 0.5*(dx-cx) + (1 - dx)

	default:
		if by < 1 {
			return 0.5*(by-ay) + ay
		}
		// The line exits through the top of the pixel square.
		dx := (1 - ay) / (by - ay)
		return 1 - 0.5*dx*(1-ay)
	}
}

// fadeForSpan converts a shard fade into the alpha applied at a span's
// first and last pixel. The fade ramps from alphaStart at column
// alphaXStart to alphaEnd at alphaXEnd; pixels only partially covered by
// the ramp get the area the ramp actually covers.
func fadeForSpan(spanStart, spanEnd, alphaXStart, alphaXEnd, alphaStart, alphaEnd float64) (float64, float64) {
	if math.Abs(alphaXEnd-alphaXStart) < 1e-6 {
		// A vertical fade: the shape boundary is a straight vertical line
		// partway through the span's pixels.
		offset := (alphaXStart - spanStart) / (spanEnd - spanStart)
		if alphaStart > 0.5 {
			return offset, offset
		}
		return 1 - offset, 1 - offset
	}

	pixelStart := math.Floor(spanStart)
	pixelEnd := math.Ceil(spanEnd)
	ratio := (alphaEnd - alphaStart) / (alphaXEnd - alphaXStart)

	firstLeft := (pixelStart-alphaXStart)*ratio + alphaStart
	firstRight := (pixelStart+1-alphaXStart)*ratio + alphaStart
	lastLeft := (pixelEnd-1-alphaXStart)*ratio + alphaStart
	lastRight := (pixelEnd-alphaXStart)*ratio + alphaStart

	return clamp01(AlphaCoverage(firstLeft, firstRight)), clamp01(AlphaCoverage(lastLeft, lastRight))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
