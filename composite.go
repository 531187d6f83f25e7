package wand

import "image"

// Composite merges a freshly computed mask into the previously committed
// one and returns a new Mask; neither input is modified. worldWidth is
// the current world pixel width (0 disables wrap canonicalization).
//
// When the two masks' centers lie more than half a world apart the new
// mask was computed in a different world repetition; its offset is
// shifted by whole world widths toward the prior mask first, so the
// merged raster spans roughly one world at most instead of several.
//
// The merge is strictly additive: the prior region is copied as-is and
// the new region contributes only its set pixels, so a zero in the new
// mask can never erase committed content.
//
// The merged bounds cover the whole merged raster rather than the tight
// box of set pixels; downstream consumers iterate a few always-zero
// border rows in exchange. Callers guarantee both masks have valid
// positive bounds.
func Composite(prev, next *Mask, worldWidth int) *Mask {
	nextOffset := next.offset
	if worldWidth > 0 {
		prevCenter := prev.offset.X + (prev.bounds.Min.X+prev.bounds.Max.X)/2
		nextCenter := nextOffset.X + (next.bounds.Min.X+next.bounds.Max.X)/2
		for nextCenter-prevCenter > worldWidth/2 {
			nextOffset.X -= worldWidth
			nextCenter -= worldWidth
		}
		for prevCenter-nextCenter > worldWidth/2 {
			nextOffset.X += worldWidth
			nextCenter += worldWidth
		}
		if nextOffset != next.offset {
			Logger().Debug("wand: canonicalized new mask offset",
				"from", next.offset.X, "to", nextOffset.X, "worldWidth", worldWidth)
		}
	}

	prevGlobal := prev.bounds.Add(prev.offset)
	nextGlobal := next.bounds.Add(nextOffset)
	merged := prevGlobal.Union(nextGlobal)

	w := merged.Dx()
	h := merged.Dy()
	out := NewMask(w, h, merged.Min)

	// Prior content first, copied verbatim: it is disjoint in time from
	// the region being added.
	dstOff := prevGlobal.Min.Sub(merged.Min)
	for y := prev.bounds.Min.Y; y < prev.bounds.Max.Y; y++ {
		srcRow := y * prev.width
		dstRow := (y - prev.bounds.Min.Y + dstOff.Y) * w
		copy(out.data[dstRow+dstOff.X:dstRow+dstOff.X+prev.bounds.Dx()],
			prev.data[srcRow+prev.bounds.Min.X:srcRow+prev.bounds.Max.X])
	}

	// New content on top, set pixels only.
	dstOff = nextGlobal.Min.Sub(merged.Min)
	for y := next.bounds.Min.Y; y < next.bounds.Max.Y; y++ {
		srcRow := y * next.width
		dstRow := (y - next.bounds.Min.Y + dstOff.Y) * w
		for x := next.bounds.Min.X; x < next.bounds.Max.X; x++ {
			if next.data[srcRow+x] != 0 {
				out.data[dstRow+dstOff.X+x-next.bounds.Min.X] = 1
			}
		}
	}

	out.bounds = image.Rect(0, 0, w, h)
	return out
}
