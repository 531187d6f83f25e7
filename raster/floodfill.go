package raster

import "image"

// span is a horizontal run of accepted pixels queued for neighbor scans.
type span struct {
	x0, x1 int // inclusive pixel range
	y      int // row to scan next
}

// FloodFill grows a region from the seed pixel (x, y) over all 4-connected
// pixels whose color lies within threshold of the seed color, per channel.
//
// When seed is non-nil it must have the image's dimensions; its set pixels
// are treated as part of the region regardless of color, which lets an
// incremental fill flow through previously selected territory.
//
// When includeBorders is true the result additionally contains the
// one-pixel rim of rejected pixels 4-adjacent to the region, matching the
// softened edge the blur step expects to work on.
//
// Returns nil if the seed pixel is outside the image.
func FloodFill(img Image, x, y, threshold int, seed *Mask, includeBorders bool) *Mask {
	w, h := img.Width, img.Height
	if x < 0 || x >= w || y < 0 || y >= h {
		return nil
	}
	bpp := img.BytesPerPixel
	if bpp == 0 {
		bpp = 4
	}

	base := (y*w + x) * bpp
	sr := int(img.Data[base])
	sg := int(img.Data[base+1])
	sb := int(img.Data[base+2])

	inside := func(k int) bool {
		if seed != nil && seed.Data[k] != 0 {
			return true
		}
		p := k * bpp
		dr := int(img.Data[p]) - sr
		dg := int(img.Data[p+1]) - sg
		db := int(img.Data[p+2]) - sb
		if dr < 0 {
			dr = -dr
		}
		if dg < 0 {
			dg = -dg
		}
		if db < 0 {
			db = -db
		}
		return dr <= threshold && dg <= threshold && db <= threshold
	}

	result := NewMask(w, h)
	mark := func(x0, x1, y int) {
		for k := y*w + x0; k <= y*w+x1; k++ {
			result.Data[k] = 1
		}
	}

	// Initial span around the seed pixel.
	x0, x1 := x, x
	for x0 > 0 && inside(y*w+x0-1) {
		x0--
	}
	for x1 < w-1 && inside(y*w+x1+1) {
		x1++
	}
	mark(x0, x1, y)

	stack := []span{{x0, x1, y - 1}, {x0, x1, y + 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.y < 0 || s.y >= h {
			continue
		}
		row := s.y * w
		x := s.x0
		for x <= s.x1 {
			if result.Data[row+x] != 0 || !inside(row+x) {
				x++
				continue
			}
			// Extend the run in both directions.
			r0, r1 := x, x
			for r0 > 0 && result.Data[row+r0-1] == 0 && inside(row+r0-1) {
				r0--
			}
			for r1 < w-1 && result.Data[row+r1+1] == 0 && inside(row+r1+1) {
				r1++
			}
			mark(r0, r1, s.y)
			stack = append(stack, span{r0, r1, s.y - 1}, span{r0, r1, s.y + 1})
			x = r1 + 1
		}
	}

	if includeBorders {
		addRim(result)
	}
	result.Bounds = result.TightBounds()
	return result
}

// addRim sets the rejected pixels 4-adjacent to the filled region.
func addRim(m *Mask) {
	w, h := m.Width, m.Height
	rim := make([]int, 0, 64)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			k := y*w + x
			if m.Data[k] != 0 {
				continue
			}
			if (x > 0 && m.Data[k-1] == 1) || (x < w-1 && m.Data[k+1] == 1) ||
				(y > 0 && m.Data[k-w] == 1) || (y < h-1 && m.Data[k+w] == 1) {
				rim = append(rim, k)
			}
		}
	}
	for _, k := range rim {
		m.Data[k] = 1
	}
}

// FillRect sets every pixel inside r, clipped to the mask, and grows the
// bounds accordingly. Used by tests and by callers seeding synthetic masks.
func (m *Mask) FillRect(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Data[y*m.Width : (y+1)*m.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = 1
		}
	}
	if m.Bounds.Empty() {
		m.Bounds = r
	} else {
		m.Bounds = m.Bounds.Union(r)
	}
}
