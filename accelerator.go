package wand

import (
	"errors"
	"sync"

	"github.com/gogpu/wand/raster"
)

// ErrFallbackToCPU indicates the accelerator cannot handle this
// operation. The caller should transparently fall back to the CPU path.
var ErrFallbackToCPU = errors.New("wand: falling back to CPU processing")

// AcceleratedOp describes operation types for capability checking.
type AcceleratedOp uint32

const (
	// AccelBlur represents border-only gaussian blur of a mask.
	AccelBlur AcceleratedOp = 1 << iota

	// AccelComposite represents mask merge operations.
	AccelComposite
)

// GPUAccelerator is an optional GPU provider for the heavy raster steps.
//
// When registered via RegisterAccelerator, the default toolkit tries the
// accelerator first for supported operations. If it returns
// ErrFallbackToCPU or any error, processing transparently falls back to
// the CPU implementation in package raster.
//
// Implementations are provided by GPU backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/wand/gpu" // enables GPU acceleration
type GPUAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the given
	// operation. A fast check used to skip the GPU entirely.
	CanAccelerate(op AcceleratedOp) bool

	// BlurOnlyBorder performs a border-only gaussian blur of the mask.
	// Returns ErrFallbackToCPU if the mask cannot be accelerated.
	BlurOnlyBorder(m *raster.Mask, radius int, seed *raster.Mask) (*raster.Mask, error)
}

// DeviceProviderAware is an optional interface for accelerators that can
// share GPU resources with an external provider (e.g., a gogpu window).
// When SetDeviceProvider is called, the accelerator reuses the provided
// GPU device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers an accelerator for optional GPU
// processing.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. The accelerator's Init() is called during registration;
// if it fails, the accelerator is not registered and the error is
// returned.
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("wand: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Accelerator returns the currently registered accelerator, or nil.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the
// registered accelerator, enabling GPU device sharing. No-op when no
// accelerator is registered or it does not support device sharing.
//
// The provider should implement HalDevice() any and HalQueue() any
// methods returning wgpu/hal types.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
