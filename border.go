package wand

import "image"

// Border is the cached boundary of the committed mask within the current
// viewport. Indices address a raster one pixel larger than the viewport
// on every side, so boundary detection behaves correctly at the viewport
// edge. The cache is rebuilt when the mask or viewport changes, not on
// every animation tick.
type Border struct {
	indices []int
	width   int // viewport width + 2
	height  int // viewport height + 2
}

// ExtractBorder computes the boundary pixel indices of the mask
// intersected with the viewport, across the three world candidates.
// Returns nil when the mask is nil or nothing of it is in view.
func ExtractBorder(mask *Mask, wo WorldOffset, viewportW, viewportH int, tk Toolkit) *Border {
	if mask == nil {
		return nil
	}
	w := viewportW + 2
	h := viewportH + 2
	padded := make([]uint8, w*h)
	viewRect := image.Rect(0, 0, viewportW, viewportH)

	any := false
	for _, shift := range wo.shifts() {
		origin := mask.offset.Add(image.Pt(shift, 0)).Sub(wo.Origin())
		r := mask.bounds.Add(origin).Intersect(viewRect)
		if r.Empty() {
			continue
		}
		any = true
		for y := r.Min.Y; y < r.Max.Y; y++ {
			srcRow := (y - origin.Y) * mask.width
			dstRow := (y + 1) * w
			for x := r.Min.X; x < r.Max.X; x++ {
				if mask.data[srcRow+x-origin.X] != 0 {
					padded[dstRow+x+1] = 1
				}
			}
		}
	}
	if !any {
		return nil
	}
	return &Border{
		indices: tk.BorderIndices(padded, w, h),
		width:   w,
		height:  h,
	}
}

// Empty reports whether the border has no boundary pixels.
func (b *Border) Empty() bool {
	return b == nil || len(b.indices) == 0
}
