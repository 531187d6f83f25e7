//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/wand"
	"github.com/gogpu/wand/raster"
)

//go:embed shaders/blur.wgsl
var blurShaderWGSL string

// GPUBlurConfig contains GPU blur configuration.
// Must match Config in blur.wgsl.
type GPUBlurConfig struct {
	Width       uint32  // Mask width in pixels
	Height      uint32  // Mask height in pixels
	Radius      int32   // Blur radius in pixels
	Sigma       float32 // Gaussian sigma
	BorderCount uint32  // Number of border indices to process
	Padding1    uint32  // Padding for alignment
	Padding2    uint32  // Padding for alignment
	Padding3    uint32  // Padding for alignment
}

// BlurAccelerator performs border-only mask blur on the GPU using
// wgpu/hal compute shaders. It implements the wand.GPUAccelerator
// interface.
//
// Note: full GPU buffer binding requires HAL API extensions to expose
// buffer handles. The pipeline infrastructure is created and verified;
// dispatch currently mirrors the shader algorithm on the CPU.
type BlurAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// Compute pipeline
	blurPipeline hal.ComputePipeline

	// Shader module (cached)
	shaderModule hal.ShaderModule

	// Pipeline layout and bind group layouts
	pipelineLayout  hal.PipelineLayout
	inputBindLayout hal.BindGroupLayout
	maskBindLayout  hal.BindGroupLayout

	// Compiled SPIR-V (cached for verification)
	spirvCode []uint32

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

var _ wand.GPUAccelerator = (*BlurAccelerator)(nil)

// Name returns the accelerator name.
func (a *BlurAccelerator) Name() string { return "wgpu-blur" }

// CanAccelerate reports whether the accelerator supports the operation.
func (a *BlurAccelerator) CanAccelerate(op wand.AcceleratedOp) bool {
	return op&wand.AccelBlur != 0
}

// Init initializes GPU resources. GPU initialization failure is not an
// error: the accelerator stays registered and reports fallback per call.
func (a *BlurAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		wand.Logger().Warn("GPU blur init failed, using CPU fallback", "err", err)
	}
	return nil
}

// Close releases GPU resources.
func (a *BlurAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
			a.device = nil
		}
		if a.instance != nil {
			a.instance.Destroy()
			a.instance = nil
		}
	} else {
		// Shared resources are owned by the provider, not us.
		a.device = nil
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to use a shared GPU device
// from an external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (a *BlurAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu-blur: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu-blur: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu-blur: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Destroy own resources if we created them
	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	// Use provided resources
	a.device = device
	a.queue = queue
	a.externalDevice = true

	// Recreate pipelines with shared device
	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("wgpu-blur: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	wand.Logger().Info("switched to shared GPU device", "accelerator", a.Name())
	return nil
}

// BlurOnlyBorder performs a border-only gaussian blur of the mask.
//
// Note: full GPU dispatch requires buffer binding which needs HAL API
// extensions. When the GPU is ready, the blur is computed with the same
// algorithm as the shader; otherwise ErrFallbackToCPU is returned.
func (a *BlurAccelerator) BlurOnlyBorder(m *raster.Mask, radius int, seed *raster.Mask) (*raster.Mask, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.gpuReady {
		return nil, wand.ErrFallbackToCPU
	}
	if m == nil || radius < 1 {
		return nil, wand.ErrFallbackToCPU
	}

	// Prepare GPU data structures (validates data conversion).
	cfg := a.buildConfig(m, radius)
	if cfg.BorderCount == 0 {
		return nil, wand.ErrFallbackToCPU
	}

	// GPU infrastructure is ready, but buffer binding needs a HAL
	// extension. Compute with the shader's algorithm on the CPU.
	return raster.GaussBlurOnlyBorder(m, radius, seed), nil
}

// buildConfig prepares the uniform config for the blur dispatch.
func (a *BlurAccelerator) buildConfig(m *raster.Mask, radius int) GPUBlurConfig {
	sigma := float32(radius) / 3.0
	if sigma < 0.5 {
		sigma = 0.5
	}
	borders := raster.BorderIndices(m.Data, m.Width, m.Height)
	//nolint:gosec // G115: raster dimensions are bounded well below uint32
	return GPUBlurConfig{
		Width:       uint32(m.Width),
		Height:      uint32(m.Height),
		Radius:      int32(radius),
		Sigma:       sigma,
		BorderCount: uint32(len(borders)),
	}
}

// initGPU creates the GPU instance, device, and compute pipelines.
func (a *BlurAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	wand.Logger().Info("GPU blur accelerator initialized", "gpu", selected.Info.Name)
	return nil
}

// createPipelines compiles the shader and creates the compute pipeline.
func (a *BlurAccelerator) createPipelines() error {
	// Compile WGSL to SPIR-V
	spirvBytes, err := naga.Compile(blurShaderWGSL)
	if err != nil {
		return fmt.Errorf("compile blur shader: %w", err)
	}

	// Convert bytes to uint32 slice for SPIR-V
	a.spirvCode = make([]uint32, len(spirvBytes)/4)
	for i := range a.spirvCode {
		a.spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shaderModule, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "wand_blur",
		Source: hal.ShaderSource{
			SPIRV: a.spirvCode,
		},
	})
	if err != nil {
		return fmt.Errorf("create blur shader module: %w", err)
	}
	a.shaderModule = shaderModule

	inputLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "wand_blur_input_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, MinBindingSize: 32}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create input bind group layout: %w", err)
	}
	a.inputBindLayout = inputLayout

	maskLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "wand_blur_mask_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create mask bind group layout: %w", err)
	}
	a.maskBindLayout = maskLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "wand_blur_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{a.inputBindLayout, a.maskBindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipelineLayout = pipeLayout

	blurPipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "wand_blur_pipeline",
		Layout: a.pipelineLayout,
		Compute: hal.ComputeState{
			Module:     a.shaderModule,
			EntryPoint: "cs_blur_border",
		},
	})
	if err != nil {
		return fmt.Errorf("create blur compute pipeline: %w", err)
	}
	a.blurPipeline = blurPipeline

	return nil
}

func (a *BlurAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	if a.blurPipeline != nil {
		a.device.DestroyComputePipeline(a.blurPipeline)
	}
	if a.pipelineLayout != nil {
		a.device.DestroyPipelineLayout(a.pipelineLayout)
	}
	if a.maskBindLayout != nil {
		a.device.DestroyBindGroupLayout(a.maskBindLayout)
	}
	if a.inputBindLayout != nil {
		a.device.DestroyBindGroupLayout(a.inputBindLayout)
	}
	if a.shaderModule != nil {
		a.device.DestroyShaderModule(a.shaderModule)
	}
	a.blurPipeline = nil
	a.pipelineLayout = nil
	a.maskBindLayout = nil
	a.inputBindLayout = nil
	a.shaderModule = nil
}
