// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "sort"

// Space1D indexes values by half-open ranges [min, max) along a single
// axis. It answers "which values cover this position" without scanning
// every entry: entries are kept sorted by their lower bound, and the widest
// entry bounds how far a query has to look back.
type Space1D[T any] struct {
	items   []spaceItem[T]
	maxSpan float64
	sorted  bool
}

type spaceItem[T any] struct {
	min, max float64
	value    T
}

// Add indexes value over the half-open range [min, max). Entries where
// max <= min can never match a query.
func (s *Space1D[T]) Add(min, max float64, value T) {
	s.items = append(s.items, spaceItem[T]{min: min, max: max, value: value})
	s.sorted = false
}

// Len returns the number of indexed values.
func (s *Space1D[T]) Len() int {
	return len(s.items)
}

func (s *Space1D[T]) build() {
	sort.SliceStable(s.items, func(i, j int) bool { return s.items[i].min < s.items[j].min })
	s.maxSpan = 0
	for i := range s.items {
		if w := s.items[i].max - s.items[i].min; w > s.maxSpan {
			s.maxSpan = w
		}
	}
	s.sorted = true
}

// At appends the values whose range contains pos to dst and returns the
// extended slice.
func (s *Space1D[T]) At(pos float64, dst []T) []T {
	if !s.sorted {
		s.build()
	}
	hi := sort.Search(len(s.items), func(i int) bool { return s.items[i].min > pos })
	for i := hi - 1; i >= 0; i-- {
		it := &s.items[i]
		if it.min+s.maxSpan <= pos {
			break
		}
		if pos < it.max {
			dst = append(dst, it.value)
		}
	}
	return dst
}

// Overlapping appends the values whose range intersects the closed range
// [min, max] to dst and returns the extended slice.
func (s *Space1D[T]) Overlapping(min, max float64, dst []T) []T {
	if !s.sorted {
		s.build()
	}
	hi := sort.Search(len(s.items), func(i int) bool { return s.items[i].min > max })
	for i := hi - 1; i >= 0; i-- {
		it := &s.items[i]
		if it.min+s.maxSpan <= min {
			break
		}
		if it.max > min {
			dst = append(dst, it.value)
		}
	}
	return dst
}
