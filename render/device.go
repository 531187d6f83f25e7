// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// This is the integration point between wand and GPU frameworks like
// gogpu: the host implements DeviceHandle (or reuses its
// gpucontext.DeviceProvider) and hands it over, so the overlay texture
// lives on the same device the map is rendered with.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// wand-specific name while staying compatible with the gpucontext
// ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// TextureDescriptor describes parameters for creating the overlay
// texture. This mirrors the WebGPU GPUTextureDescriptor specification.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// Depth is the array layer count; 1 for regular 2D textures.
	Depth uint32

	// MipLevelCount is the number of mipmap levels; 1 for no mipmaps.
	MipLevelCount uint32

	// SampleCount is the number of samples; 1 for no multisampling.
	SampleCount uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}

// TextureUsage specifies how a texture can be used.
// These flags can be combined with bitwise OR.
type TextureUsage uint32

const (
	// TextureUsageCopySrc allows the texture to be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << iota

	// TextureUsageCopyDst allows the texture to be used as a copy destination.
	TextureUsageCopyDst

	// TextureUsageTextureBinding allows use in a texture binding.
	TextureUsageTextureBinding

	// TextureUsageStorageBinding allows use in a storage binding.
	TextureUsageStorageBinding

	// TextureUsageRenderAttachment allows use as a render attachment.
	TextureUsageRenderAttachment
)

// Texture represents a GPU texture resource holding the uploaded
// overlay.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat

	// CreateView creates a view for this texture.
	CreateView() TextureView

	// Destroy releases GPU resources associated with this texture.
	Destroy()
}

// TextureView represents a view into a texture.
// Views are used to bind textures to shader stages.
type TextureView interface {
	// Destroy releases resources associated with this view.
	Destroy()
}

// OverlayTextureDescriptor returns the descriptor for a viewport-sized
// overlay texture: RGBA8, no mipmaps, sampled and copy destination so
// the hatched pixels can be uploaded each frame.
func OverlayTextureDescriptor(width, height uint32) TextureDescriptor {
	return TextureDescriptor{
		Label:         "wand_overlay",
		Width:         width,
		Height:        height,
		Depth:         1,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         TextureUsageTextureBinding | TextureUsageCopyDst,
	}
}

// MaskTextureDescriptor returns the descriptor for a single-channel
// texture holding the raw selection mask, for hosts that shade the
// selection on the GPU instead of blitting the prehatched overlay.
func MaskTextureDescriptor(width, height uint32) TextureDescriptor {
	return TextureDescriptor{
		Label:         "wand_mask",
		Width:         width,
		Height:        height,
		Depth:         1,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         TextureUsageTextureBinding | TextureUsageCopyDst,
	}
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only overlay rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns a zero AdapterInfo for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
