package wand

import (
	"image"

	"github.com/gogpu/wand/raster"
)

// BuildVisibleSeed projects the committed mask's set pixels into a
// viewport-sized buffer, considering that the same territory may be
// shown one world repetition to the left or right of where the mask was
// committed. The result seeds the next incremental flood fill and is
// rebuilt per request, never cached: both the viewport and the mask
// generation change between calls.
//
// Candidates that do not intersect the viewport are skipped. Candidate
// copies are combined with OR, so a pixel set by an earlier candidate is
// never cleared by a later one; legitimate content never overlaps across
// candidates more than one world apart.
//
// Returns an all-zero buffer when mask is nil or out of view.
func BuildVisibleSeed(mask *Mask, wo WorldOffset, viewportW, viewportH int) *raster.Mask {
	seed := raster.NewMask(viewportW, viewportH)
	if mask == nil {
		return seed
	}
	viewRect := image.Rect(0, 0, viewportW, viewportH)

	for _, shift := range wo.shifts() {
		// Mask local origin in viewport coordinates for this candidate.
		origin := mask.offset.Add(image.Pt(shift, 0)).Sub(wo.Origin())
		r := mask.bounds.Add(origin).Intersect(viewRect)
		if r.Empty() {
			continue
		}
		copySetPixels(seed.Data, viewportW, mask, origin, r)
		if seed.Bounds.Empty() {
			seed.Bounds = r
		} else {
			seed.Bounds = seed.Bounds.Union(r)
		}
	}
	return seed
}

// copySetPixels ORs the mask's set pixels into dst over the viewport
// rectangle r. origin is the mask's local origin in dst coordinates.
func copySetPixels(dst []uint8, dstWidth int, mask *Mask, origin image.Point, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		srcRow := (y - origin.Y) * mask.width
		dstRow := y * dstWidth
		for x := r.Min.X; x < r.Max.X; x++ {
			if mask.data[srcRow+x-origin.X] != 0 {
				dst[dstRow+x] = 1
			}
		}
	}
}
