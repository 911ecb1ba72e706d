// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/gogpu/canvas"
)

// Dashed strokes normally render through a 1D pattern texture sampled by
// distance along the path. Plan consumers without a dashed-line shader can
// instead pre-split flattened polylines with DashPolyline and draw the
// pieces solid.

// effectiveDashPattern returns the alternating dash/gap lengths actually
// used. Negative lengths count by magnitude, and odd-length patterns are
// repeated so every cycle keeps the same dash/gap phase. Returns nil when
// the pattern is empty or adds up to nothing.
func effectiveDashPattern(pattern []float32) []float32 {
	if len(pattern) == 0 {
		return nil
	}
	out := make([]float32, 0, len(pattern)*2)
	total := float32(0)
	for _, l := range pattern {
		if l < 0 {
			l = -l
		}
		out = append(out, l)
		total += l
	}
	if total <= 0 {
		return nil
	}
	if len(out)%2 != 0 {
		out = append(out, out...)
	}
	return out
}

// dashPatternLength returns the length of one full pattern cycle in the
// pattern's own units, accounting for odd-length repetition.
func dashPatternLength(pattern []float32) float32 {
	total := float32(0)
	for _, l := range effectiveDashPattern(pattern) {
		total += l
	}
	return total
}

// dashTexturePixels bakes one pattern cycle into dashTextureLength
// monochrome texels: 255 inside dashes, 0 inside gaps. A degenerate
// pattern bakes solid.
func dashTexturePixels(pattern []float32) []byte {
	pixels := make([]byte, dashTextureLength)
	eff := effectiveDashPattern(pattern)
	if len(eff) == 0 {
		for i := range pixels {
			pixels[i] = 255
		}
		return pixels
	}

	total := float32(0)
	for _, l := range eff {
		total += l
	}
	scale := float32(dashTextureLength) / total

	pos := 0
	value := byte(255)
	acc := float32(0)
	for _, l := range eff {
		acc += l * scale
		end := int(acc + 0.5)
		if end > dashTextureLength {
			end = dashTextureLength
		}
		for ; pos < end; pos++ {
			pixels[pos] = value
		}
		value = 255 - value
	}
	// Rounding can leave a texel or two at the end; they belong to the
	// final run.
	for ; pos < dashTextureLength; pos++ {
		pixels[pos] = 255 - value
	}
	return pixels
}

// DashPolyline splits a polyline into the sub-polylines covered by the
// dash pattern's "on" runs. The pattern alternates dash and gap lengths in
// the same units as the point coordinates, and offset shifts where in the
// cycle the polyline starts. An empty or degenerate pattern returns the
// polyline unsplit.
func DashPolyline(points []canvas.Point, pattern []float32, offset float32) [][]canvas.Point {
	if len(points) < 2 {
		return nil
	}
	eff := effectiveDashPattern(pattern)
	if len(eff) == 0 {
		return [][]canvas.Point{points}
	}

	total := float32(0)
	for _, l := range eff {
		total += l
	}

	phase := float32(math.Mod(float64(offset), float64(total)))
	if phase < 0 {
		phase += total
	}

	seg := 0
	for phase >= eff[seg] && phase > 0 {
		phase -= eff[seg]
		seg = (seg + 1) % len(eff)
	}
	for eff[seg] == 0 {
		seg = (seg + 1) % len(eff)
	}
	on := seg%2 == 0
	remaining := eff[seg] - phase

	advance := func() {
		seg = (seg + 1) % len(eff)
		for eff[seg] == 0 {
			seg = (seg + 1) % len(eff)
		}
		remaining = eff[seg]
		on = seg%2 == 0
	}

	var result [][]canvas.Point
	var current []canvas.Point
	if on {
		current = append(current, points[0])
	}

	for i := 1; i < len(points); i++ {
		p0, p1 := points[i-1], points[i]
		length := p0.Distance(p1)
		travelled := float32(0)

		for length-travelled > remaining {
			travelled += remaining
			cut := p0.Lerp(p1, travelled/length)
			if on {
				current = append(current, cut)
				if len(current) >= 2 {
					result = append(result, current)
				}
				current = nil
			}
			advance()
			if on && current == nil {
				current = []canvas.Point{cut}
			}
		}
		remaining -= length - travelled
		if on {
			current = append(current, p1)
		}
	}

	if on && len(current) >= 2 {
		result = append(result, current)
	}
	return result
}
