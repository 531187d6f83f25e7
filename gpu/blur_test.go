//go:build !nogpu

package gpu

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/gogpu/naga"

	"github.com/gogpu/wand"
	"github.com/gogpu/wand/raster"
)

func TestBlurAcceleratorCanAccelerate(t *testing.T) {
	a := &BlurAccelerator{}

	if !a.CanAccelerate(wand.AccelBlur) {
		t.Error("expected AccelBlur to be supported")
	}
	if a.CanAccelerate(wand.AccelComposite) {
		t.Error("expected AccelComposite to be unsupported")
	}
}

func TestBlurAcceleratorName(t *testing.T) {
	a := &BlurAccelerator{}
	if a.Name() != "wgpu-blur" {
		t.Errorf("Name() = %q, want %q", a.Name(), "wgpu-blur")
	}
}

func TestBlurAcceleratorFallbackWhenNotReady(t *testing.T) {
	a := &BlurAccelerator{}

	m := raster.NewMask(10, 10)
	_, err := a.BlurOnlyBorder(m, 3, nil)
	if !errors.Is(err, wand.ErrFallbackToCPU) {
		t.Errorf("expected ErrFallbackToCPU, got %v", err)
	}
}

func TestBlurConfigConversion(t *testing.T) {
	a := &BlurAccelerator{}

	m := raster.NewMask(20, 10)
	m.FillRect(image.Rect(5, 5, 8, 8))

	cfg := a.buildConfig(m, 6)

	if cfg.Width != 20 {
		t.Errorf("Width = %d, want 20", cfg.Width)
	}
	if cfg.Height != 10 {
		t.Errorf("Height = %d, want 10", cfg.Height)
	}
	if cfg.Radius != 6 {
		t.Errorf("Radius = %d, want 6", cfg.Radius)
	}
	if cfg.Sigma != 2.0 {
		t.Errorf("Sigma = %v, want 2.0", cfg.Sigma)
	}
	// A 3x3 block has 8 border pixels (all but the center).
	if cfg.BorderCount != 8 {
		t.Errorf("BorderCount = %d, want 8", cfg.BorderCount)
	}
}

func TestBlurConfigMinimumSigma(t *testing.T) {
	a := &BlurAccelerator{}

	m := raster.NewMask(10, 10)
	m.FillRect(image.Rect(4, 4, 6, 6))

	cfg := a.buildConfig(m, 1)
	if cfg.Sigma != 0.5 {
		t.Errorf("Sigma = %v, want clamped minimum 0.5", cfg.Sigma)
	}
}

// TestBlurShaderCompiles verifies the embedded WGSL compiles to SPIR-V.
func TestBlurShaderCompiles(t *testing.T) {
	spirvBytes, err := naga.Compile(blurShaderWGSL)
	if err != nil {
		// Check for known naga limitations and skip gracefully
		errStr := err.Error()
		if strings.Contains(errStr, "runtime-sized arrays not yet implemented") {
			t.Skip("Skipping: naga doesn't yet support runtime-sized arrays (needed for storage buffers)")
		}
		if strings.Contains(errStr, "not yet implemented") || strings.Contains(errStr, "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		t.Fatalf("failed to compile blur shader: %v", err)
	}

	if len(spirvBytes) == 0 {
		t.Error("SPIR-V output is empty")
	}
	if len(spirvBytes)%4 != 0 {
		t.Errorf("SPIR-V length %d is not word-aligned", len(spirvBytes))
	}
}
