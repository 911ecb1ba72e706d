// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "math"

// ShaderType selects the shader program used by subsequent draws. All
// variants accept an optional erase mask and clip mask texture; a draw is
// multiplied by the clip mask and attenuated by the erase mask wherever
// those are set. NoTexture marks an unused mask slot.
//
// Variants are comparable values so a plan generator can diff consecutive
// states cheaply.
type ShaderType interface {
	shaderType()
}

// SimpleShader colors fragments from the vertex color alone.
type SimpleShader struct {
	EraseMask TextureId
	ClipMask  TextureId
}

// DashedLineShader samples a 1D dash texture by the vertex texture x
// coordinate, which carries distance along the stroked path.
type DashedLineShader struct {
	DashTexture TextureId
	EraseMask   TextureId
	ClipMask    TextureId
}

// TextureShader samples a texture positioned by Transform, multiplied by
// Alpha. Repeat tiles the texture instead of clamping.
type TextureShader struct {
	Texture   TextureId
	Transform Matrix
	Repeat    bool
	Alpha     float32
	EraseMask TextureId
	ClipMask  TextureId
}

// LinearGradientShader samples a 1D gradient ramp positioned by Transform,
// multiplied by Alpha.
type LinearGradientShader struct {
	Texture   TextureId
	Transform Matrix
	Repeat    bool
	Alpha     float32
	EraseMask TextureId
	ClipMask  TextureId
}

func (SimpleShader) shaderType()         {}
func (DashedLineShader) shaderType()     {}
func (TextureShader) shaderType()        {}
func (LinearGradientShader) shaderType() {}

// TextureFilter is one step of a FilterTexture action. Blur radii are in
// texture pixels; separable blurs appear as a horizontal and a vertical
// step.
type TextureFilter interface {
	textureFilter()

	// KernelSize reports the number of taps on each side of the center
	// texel the filter reads, zero for point filters.
	KernelSize() int
}

// GaussianBlurHorizontal blurs along the x axis with the given standard
// deviation. Count is the number of weights on one side of the center
// (center included); Step is the sampling stride in texels.
type GaussianBlurHorizontal struct {
	Sigma float32
	Step  int
	Count int
}

// GaussianBlurVertical blurs along the y axis.
type GaussianBlurVertical struct {
	Sigma float32
	Step  int
	Count int
}

// AlphaBlendFilter multiplies every texel's alpha by Alpha.
type AlphaBlendFilter struct {
	Alpha float32
}

// MaskFilter multiplies texel alpha by the corresponding texel of a mask
// texture.
type MaskFilter struct {
	Mask TextureId
}

// DisplacementMapFilter offsets each texel by the displacement texture's
// red and green channels scaled to +/- the radii, in texels.
type DisplacementMapFilter struct {
	Displacement     TextureId
	RadiusX, RadiusY float32
}

func (GaussianBlurHorizontal) textureFilter() {}
func (GaussianBlurVertical) textureFilter()   {}
func (AlphaBlendFilter) textureFilter()       {}
func (MaskFilter) textureFilter()             {}
func (DisplacementMapFilter) textureFilter()  {}

// KernelSize implements TextureFilter.
func (f GaussianBlurHorizontal) KernelSize() int { return (f.Count - 1) * f.Step }

// KernelSize implements TextureFilter.
func (f GaussianBlurVertical) KernelSize() int { return (f.Count - 1) * f.Step }

// KernelSize implements TextureFilter.
func (AlphaBlendFilter) KernelSize() int { return 0 }

// KernelSize implements TextureFilter.
func (MaskFilter) KernelSize() int { return 0 }

// KernelSize implements TextureFilter.
func (f DisplacementMapFilter) KernelSize() int {
	r := f.RadiusX
	if f.RadiusY > r {
		r = f.RadiusY
	}
	return int(math.Ceil(float64(r)))
}

// gaussianKernelSize picks the one-sided weight count for a blur of the
// given standard deviation. Kernels cover three standard deviations each
// side; the fixed sizes match the specialised shader variants backends
// carry for common blurs (9, 29 and 61 tap kernels).
func gaussianKernelSize(sigma float32) int {
	taps := int(math.Ceil(float64(sigma)*6)) | 1
	switch {
	case taps <= 9:
		return 5
	case taps <= 29:
		return 15
	case taps <= 61:
		return 31
	default:
		return (taps-1)/2 + 1
	}
}

// gaussianWeights returns count weights for the center texel and one side
// of a discrete gaussian, normalised so center + 2*sum(rest) equals one.
func gaussianWeights(sigma float32, count int) []float32 {
	if count < 1 {
		return nil
	}
	if sigma <= 0 {
		weights := make([]float32, count)
		weights[0] = 1
		return weights
	}
	weights := make([]float32, count)
	s := float64(sigma)
	total := 0.0
	for i := range weights {
		w := math.Exp(-float64(i*i) / (2 * s * s))
		weights[i] = float32(w)
		if i == 0 {
			total += w
		} else {
			total += 2 * w
		}
	}
	for i := range weights {
		weights[i] = float32(float64(weights[i]) / total)
	}
	return weights
}

// gaussianBlurSteps builds the separable filter pair for a blur of the
// given pixel radius.
func gaussianBlurSteps(pixelRadius float32) (GaussianBlurHorizontal, GaussianBlurVertical) {
	sigma := pixelRadius / 2
	if sigma < 0 {
		sigma = 0
	}
	count := gaussianKernelSize(sigma)
	h := GaussianBlurHorizontal{Sigma: sigma, Step: 1, Count: count}
	v := GaussianBlurVertical{Sigma: sigma, Step: 1, Count: count}
	return h, v
}
