package wand

import "github.com/gogpu/wand/raster"

// Toolkit bundles the raster algorithms the engine delegates to. The
// default implementation forwards to package raster; applications with
// their own flood fill or tracer substitute it via WithToolkit.
type Toolkit interface {
	// FloodFill grows a region from the seed pixel over color-similar
	// neighbors; set pixels of seed join the region regardless of color.
	FloodFill(img raster.Image, x, y, threshold int, seed *raster.Mask, includeBorders bool) *raster.Mask

	// GaussBlurOnlyBorder smooths the region edge; seed pixels are
	// pinned and survive the blur.
	GaussBlurOnlyBorder(m *raster.Mask, radius int, seed *raster.Mask) *raster.Mask

	// TraceContours extracts closed boundary polygons from a mask.
	TraceContours(m *raster.Mask) []raster.Contour

	// SimplifyContours reduces contour vertices by tolerance and cap.
	SimplifyContours(cs []raster.Contour, tolerance float64, maxCount int) []raster.Contour

	// BorderIndices lists the boundary pixel indices of a raster.
	BorderIndices(data []uint8, width, height int) []int
}

// defaultToolkit forwards to package raster, routing the blur through a
// registered accelerator when one can take it.
type defaultToolkit struct{}

func (defaultToolkit) FloodFill(img raster.Image, x, y, threshold int, seed *raster.Mask, includeBorders bool) *raster.Mask {
	return raster.FloodFill(img, x, y, threshold, seed, includeBorders)
}

func (defaultToolkit) GaussBlurOnlyBorder(m *raster.Mask, radius int, seed *raster.Mask) *raster.Mask {
	if a := Accelerator(); a != nil && a.CanAccelerate(AccelBlur) {
		out, err := a.BlurOnlyBorder(m, radius, seed)
		if err == nil {
			return out
		}
		Logger().Warn("wand: accelerator blur failed, falling back to CPU",
			"accelerator", a.Name(), "error", err)
	}
	return raster.GaussBlurOnlyBorder(m, radius, seed)
}

func (defaultToolkit) TraceContours(m *raster.Mask) []raster.Contour {
	return raster.TraceContours(m)
}

func (defaultToolkit) SimplifyContours(cs []raster.Contour, tolerance float64, maxCount int) []raster.Contour {
	return raster.SimplifyContours(cs, tolerance, maxCount)
}

func (defaultToolkit) BorderIndices(data []uint8, width, height int) []int {
	return raster.BorderIndices(data, width, height)
}
