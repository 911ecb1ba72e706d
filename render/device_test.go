// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

func TestNullDeviceHandle(t *testing.T) {
	var handle DeviceHandle = NullDeviceHandle{}

	if handle.Device() != nil {
		t.Error("NullDeviceHandle.Device() should return nil")
	}
	if handle.Queue() != nil {
		t.Error("NullDeviceHandle.Queue() should return nil")
	}
	if handle.Adapter() != nil {
		t.Error("NullDeviceHandle.Adapter() should return nil")
	}
	if handle.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Error("NullDeviceHandle.SurfaceFormat() should return Undefined")
	}
	if info := handle.AdapterInfo(); info.Type != gpucontext.AdapterTypeUnknown {
		t.Errorf("NullDeviceHandle.AdapterInfo().Type = %v, want Unknown", info.Type)
	}
}

func TestDeviceHandleAlias(t *testing.T) {
	// DeviceHandle should be an alias for gpucontext.DeviceProvider.
	// This is a compile-time check - if it compiles, types are compatible.
	handle := NullDeviceHandle{}

	var dh DeviceHandle = handle
	if dh.Device() != nil {
		t.Error("NullDeviceHandle.Device() should return nil")
	}

	acceptProvider := func(_ gpucontext.DeviceProvider) {}
	acceptProvider(handle)
}

func TestRendererDefaultDevice(t *testing.T) {
	r := NewCanvasRenderer()
	defer r.Close()

	if _, ok := r.Device().(NullDeviceHandle); !ok {
		t.Errorf("Device() = %T, want NullDeviceHandle", r.Device())
	}
}

func TestSampleCount(t *testing.T) {
	tests := []struct {
		target RenderTargetType
		want   uint32
	}{
		{RenderTargetStandard, 1},
		{RenderTargetStandardForReading, 1},
		{RenderTargetMultisampled, 4},
		{RenderTargetMultisampledTexture, 4},
		{RenderTargetMonochrome, 1},
		{RenderTargetMonochromeMultisampledTexture, 4},
	}
	for _, tt := range tests {
		if got := tt.target.SampleCount(); got != tt.want {
			t.Errorf("SampleCount(%v) = %d, want %d", tt.target, got, tt.want)
		}
	}
}

func TestDescribeRenderTarget(t *testing.T) {
	desc := DescribeRenderTarget(RenderTargetMultisampledTexture, Size2D{Width: 1920, Height: 1080})

	if desc.Size.Width != 1920 || desc.Size.Height != 1080 {
		t.Errorf("Size = %dx%d, want 1920x1080", desc.Size.Width, desc.Size.Height)
	}
	if desc.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", desc.Format)
	}
	// The backing texture resolves the multisample attachment, so it is
	// always single-sampled itself.
	if desc.SampleCount != 1 {
		t.Errorf("SampleCount = %d, want 1", desc.SampleCount)
	}
	if desc.MipLevelCount != 1 {
		t.Errorf("MipLevelCount = %d, want 1", desc.MipLevelCount)
	}
	if desc.Usage&gputypes.TextureUsageRenderAttachment == 0 {
		t.Error("missing RenderAttachment usage")
	}
	if desc.Usage&gputypes.TextureUsageTextureBinding == 0 {
		t.Error("missing TextureBinding usage")
	}
}

func TestDescribeRenderTargetMonochrome(t *testing.T) {
	desc := DescribeRenderTarget(RenderTargetMonochromeMultisampledTexture, Size2D{Width: 64, Height: 64})
	if desc.Format != gputypes.TextureFormatR8Unorm {
		t.Errorf("Format = %v, want R8Unorm", desc.Format)
	}
}

func TestDescribeRenderTargetForReading(t *testing.T) {
	desc := DescribeRenderTarget(RenderTargetStandardForReading, Size2D{Width: 64, Height: 64})
	if desc.Usage&gputypes.TextureUsageCopySrc == 0 {
		t.Error("readable target should carry CopySrc usage")
	}
}

func TestDescribeTexture(t *testing.T) {
	desc := DescribeTexture(Size2D{Width: 256, Height: 128}, false)

	if desc.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", desc.Format)
	}
	if desc.MipLevelCount != 9 {
		t.Errorf("MipLevelCount = %d, want 9", desc.MipLevelCount)
	}
	if desc.Usage&gputypes.TextureUsageCopyDst == 0 {
		t.Error("missing CopyDst usage")
	}

	mono := DescribeTexture(Size2D{Width: 16, Height: 16}, true)
	if mono.Format != gputypes.TextureFormatR8Unorm {
		t.Errorf("mono Format = %v, want R8Unorm", mono.Format)
	}
}

func TestDescribe1DTexture(t *testing.T) {
	desc := Describe1DTexture(256, true)

	if desc.Size.Width != 256 || desc.Size.Height != 1 {
		t.Errorf("Size = %dx%d, want 256x1", desc.Size.Width, desc.Size.Height)
	}
	if desc.Dimension != gputypes.TextureDimension1D {
		t.Errorf("Dimension = %v, want 1D", desc.Dimension)
	}
	if desc.Format != gputypes.TextureFormatR8Unorm {
		t.Errorf("Format = %v, want R8Unorm", desc.Format)
	}
	if desc.MipLevelCount != 9 {
		t.Errorf("MipLevelCount = %d, want 9", desc.MipLevelCount)
	}
}

func TestMipLevelCount(t *testing.T) {
	tests := []struct {
		w, h uint32
		want uint32
	}{
		{1, 1, 1},
		{2, 1, 2},
		{256, 1, 9},
		{256, 128, 9},
		{1920, 1080, 11},
	}
	for _, tt := range tests {
		if got := mipLevelCount(tt.w, tt.h); got != tt.want {
			t.Errorf("mipLevelCount(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}
