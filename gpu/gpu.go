//go:build !nogpu

// Package gpu registers the GPU accelerator for hardware-accelerated
// mask processing.
//
// Import this package to enable GPU-based border blur during selection
// gestures. The accelerator uses wgpu/hal compute shaders compiled from
// WGSL via naga.
//
// If GPU initialization fails (no Vulkan/Metal/DX12 available), the
// registration is silently skipped and mask processing falls back to
// CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/wand/gpu" // enable GPU acceleration
package gpu

import (
	"github.com/gogpu/wand"
)

func init() {
	accel := &BlurAccelerator{}
	if err := wand.RegisterAccelerator(accel); err != nil {
		wand.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU accelerator to use a shared GPU
// device from an external provider (e.g., gogpu). This avoids creating
// a separate GPU instance and enables efficient device sharing.
//
// The provider should be a gpucontext.DeviceProvider that also
// implements gpucontext.HalProvider for direct HAL access.
//
// Call this after the map window is created, before the first gesture.
func SetDeviceProvider(provider any) error {
	return wand.SetAcceleratorDeviceProvider(provider)
}
