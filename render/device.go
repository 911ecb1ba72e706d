// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The renderer itself never touches the device: it produces plans, and
// the backend executing them needs a device to allocate the buffers,
// textures and targets the actions describe. The host application owns
// that device and passes it in, so canvas rendering shares GPU resources
// with everything else the host draws.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, giving the
// interface a canvas-flavored name while staying fully compatible with
// the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// Device returns the device handle the renderer was configured with. A
// renderer built without WithDevice returns NullDeviceHandle, which is
// what headless and test setups want.
func (r *CanvasRenderer) Device() DeviceHandle {
	return r.device
}

// msaaSampleCount is the multisample level backends should use for the
// multisampled render target types. Four samples is the level WebGPU
// guarantees on every adapter.
const msaaSampleCount = 4

// SampleCount returns the multisample level a backend should render a
// target of this type with.
func (t RenderTargetType) SampleCount() uint32 {
	switch t {
	case RenderTargetMultisampled, RenderTargetMultisampledTexture, RenderTargetMonochromeMultisampledTexture:
		return msaaSampleCount
	default:
		return 1
	}
}

// DescribeRenderTarget returns the descriptor for the backing texture of
// a CreateRenderTarget action. Multisampled target types resolve into
// this texture, so the descriptor is always single-sampled; the
// multisample attachment itself is the backend's own, sized per
// SampleCount.
func DescribeRenderTarget(t RenderTargetType, size Size2D) gputypes.TextureDescriptor {
	format := gputypes.TextureFormatRGBA8Unorm
	switch t {
	case RenderTargetMonochrome, RenderTargetMonochromeMultisampledTexture:
		format = gputypes.TextureFormatR8Unorm
	}
	usage := gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding
	if t == RenderTargetStandardForReading {
		usage |= gputypes.TextureUsageCopySrc
	}
	return gputypes.TextureDescriptor{
		Size: gputypes.Extent3D{
			Width:              size.Width,
			Height:             size.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	}
}

// DescribeTexture returns the descriptor for a CreateTextureRgba or
// CreateTextureMono action. The full mip chain is allocated up front so a
// later CreateMipMaps action has levels to fill.
func DescribeTexture(size Size2D, mono bool) gputypes.TextureDescriptor {
	format := gputypes.TextureFormatRGBA8Unorm
	if mono {
		format = gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureDescriptor{
		Size: gputypes.Extent3D{
			Width:              size.Width,
			Height:             size.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: mipLevelCount(size.Width, size.Height),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage: gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopyDst |
			gputypes.TextureUsageCopySrc |
			gputypes.TextureUsageRenderAttachment,
	}
}

// Describe1DTexture returns the descriptor for a Create1DTextureRgba or
// Create1DTextureMono action. Gradient and dash strips are sampled with
// mipmaps so minified draws stay smooth.
func Describe1DTexture(length uint32, mono bool) gputypes.TextureDescriptor {
	format := gputypes.TextureFormatRGBA8Unorm
	if mono {
		format = gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureDescriptor{
		Size: gputypes.Extent3D{
			Width:              length,
			Height:             1,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: mipLevelCount(length, 1),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension1D,
		Format:        format,
		Usage: gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopyDst,
	}
}

// mipLevelCount is the number of levels in a full mip chain for the given
// extent.
func mipLevelCount(width, height uint32) uint32 {
	max := width
	if height > max {
		max = height
	}
	levels := uint32(1)
	for max > 1 {
		max >>= 1
		levels++
	}
	return levels
}

// NullDeviceHandle is a DeviceHandle with no device behind it, for
// headless use where plans are generated but never executed on a GPU.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo reports an unknown adapter for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

var _ DeviceHandle = NullDeviceHandle{}
