package wand

import (
	"image"
	"image/color"
)

// Hatch colors of the two marching-ants phases.
var (
	hatchDark  = color.RGBA{A: 255}
	hatchLight = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// drawHatch paints the cached border into dst as a two-phase diagonal
// hatch. Boundary indices are converted back to viewport coordinates
// (undoing the one-pixel padding); indices outside the viewport are
// discarded. A pixel's phase is (x+y+offset) mod 2L < L for hatch length
// L, so advancing offset by one per tick marches the pattern along the
// boundary without recomputing the border.
//
// Reports whether anything was drawn.
func drawHatch(dst *image.RGBA, b *Border, hatchLength, hatchOffset int) bool {
	if b.Empty() || hatchLength <= 0 {
		return false
	}
	bounds := dst.Bounds()
	period := 2 * hatchLength
	drawn := false
	for _, k := range b.indices {
		x := k%b.width - 1
		y := k/b.width - 1
		if x < 0 || y < 0 || x >= b.width-2 || y >= b.height-2 {
			continue
		}
		px := bounds.Min.X + x
		py := bounds.Min.Y + y
		if !image.Pt(px, py).In(bounds) {
			continue
		}
		if (x+y+hatchOffset)%period < hatchLength {
			dst.SetRGBA(px, py, hatchDark)
		} else {
			dst.SetRGBA(px, py, hatchLight)
		}
		drawn = true
	}
	return drawn
}

// clearImage resets every pixel of dst to fully transparent.
func clearImage(dst *image.RGBA) {
	for i := range dst.Pix {
		dst.Pix[i] = 0
	}
}
