// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "math"

// interceptBlend is an alpha ramp a shape is currently fading across. A nil
// blend means the shape covers its span solidly. Fades that begin before an
// earlier fade has run its course nest, and the planner emits one linear
// source-over per level.
type interceptBlend struct {
	xStart, xEnd         float64
	alphaStart, alphaEnd float64
	nested               *interceptBlend
}

func fadeIn(lowerX, upperX float64, nested *interceptBlend) *interceptBlend {
	return &interceptBlend{xStart: lowerX, xEnd: upperX, alphaStart: 0, alphaEnd: 1, nested: nested}
}

func fadeOut(lowerX, upperX float64, nested *interceptBlend) *interceptBlend {
	return &interceptBlend{xStart: lowerX, xEnd: upperX, alphaStart: 1, alphaEnd: 0, nested: nested}
}

// clearFinished drops every fade that ends at or before x, returning nil
// when nothing is left fading.
func (b *interceptBlend) clearFinished(x float64) *interceptBlend {
	if b == nil {
		return nil
	}
	nested := b.nested.clearFinished(x)
	if b.xEnd <= x {
		return nested
	}
	if nested == b.nested {
		return b
	}
	return &interceptBlend{
		xStart: b.xStart, xEnd: b.xEnd,
		alphaStart: b.alphaStart, alphaEnd: b.alphaEnd,
		nested: nested,
	}
}

// activeShape is one shape the scanline is currently inside of, or still
// fading out of.
type activeShape struct {
	// count is the winding count, 0 once the scanline has left the shape.
	count int

	// startX is where the scanline entered the shape, clipped to the
	// planned region.
	startX float64

	blend *interceptBlend
	shape ShapeId
	desc  *ShapeDescriptor
}

// isOpaque reports whether the shape hides everything below it over the
// current span: it must be declared opaque and not be mid-fade.
func (s *activeShape) isOpaque() bool {
	return s.blend == nil && s.desc.IsOpaque
}

// interceptState tracks the shapes a scanline is inside while shard events
// are applied left to right. Shapes stay sorted by (z-index, shape ID), and
// zFloor tracks the z-index of the topmost solidly-opaque shape so the
// planner can skip everything below it.
type interceptState struct {
	active []activeShape
	zFloor int64
}

func newInterceptState() interceptState {
	return interceptState{zFloor: math.MinInt64}
}

// find locates the active entry for (z, shape), or the index where it would
// be inserted.
func (st *interceptState) find(z int64, shape ShapeId) (int, bool) {
	lo, hi := 0, len(st.active)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		s := &st.active[mid]
		switch {
		case s.desc.ZIndex < z:
			lo = mid + 1
		case s.desc.ZIndex > z:
			hi = mid
		case s.shape < shape:
			lo = mid + 1
		case s.shape > shape:
			hi = mid
		default:
			return mid, true
		}
	}
	return lo, false
}

// startIntercept applies the start of a shard: the scanline begins crossing
// into or out of the shape, fading over [lowerX, upperX].
func (st *interceptState) startIntercept(loc shardLocation, desc *ShapeDescriptor) {
	if desc == nil {
		return
	}

	idx, found := st.find(desc.ZIndex, loc.shape)
	if !found {
		count := 1
		if loc.direction == DirectionIn {
			count = -1
		}
		st.active = append(st.active, activeShape{})
		copy(st.active[idx+1:], st.active[idx:])
		st.active[idx] = activeShape{
			count:  count,
			startX: loc.lowerX,
			blend:  fadeIn(loc.lowerX, loc.upperX, nil),
			shape:  loc.shape,
			desc:   desc,
		}
		return
	}

	s := &st.active[idx]
	wasInside := s.count != 0
	switch loc.direction {
	case DirectionToggle:
		if s.count != 0 {
			s.count = 0
		} else {
			s.count = 1
		}
	case DirectionOut:
		s.count++
	case DirectionIn:
		s.count--
	}

	switch {
	case !wasInside && s.count != 0:
		s.blend = fadeIn(loc.lowerX, loc.upperX, s.blend)

	case s.count == 0:
		s.blend = fadeOut(loc.lowerX, loc.upperX, s.blend)

		// An opaque shape that held the z-floor is now fading out, so the
		// floor falls to the next solidly-opaque shape below it.
		if desc.IsOpaque && desc.ZIndex == st.zFloor {
			st.zFloor = math.MinInt64
			for i := idx - 1; i >= 0; i-- {
				if st.active[i].isOpaque() {
					st.zFloor = st.active[i].desc.ZIndex
					break
				}
			}
		}
	}
}

// finishIntercept applies the end of a shard at upperX: fades that have run
// their course are cleared, and a shape the scanline has fully left is
// removed.
func (st *interceptState) finishIntercept(loc shardLocation, desc *ShapeDescriptor) {
	if desc == nil {
		return
	}

	idx, found := st.find(desc.ZIndex, loc.shape)
	if !found {
		return
	}

	s := &st.active[idx]
	blend := s.blend.clearFinished(loc.upperX)
	switch {
	case s.count != 0:
		s.blend = blend
		if blend == nil && desc.IsOpaque && desc.ZIndex > st.zFloor {
			st.zFloor = desc.ZIndex
		}

	case blend == nil:
		st.active = append(st.active[:idx], st.active[idx+1:]...)

	default:
		s.blend = blend
	}
}

// clipStartX moves every active shape's start to x, used when planning
// begins partway into a scanline.
func (st *interceptState) clipStartX(x float64) {
	for i := range st.active {
		st.active[i].startX = x
	}
}
