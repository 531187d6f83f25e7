package raster

import "math"

// GaussBlurOnlyBorder smooths the edge of a binary mask without touching
// its interior: only pixels within radius of a border pixel are
// re-evaluated. Each such pixel gets the gaussian-weighted average of the
// mask values in its (2*radius+1)^2 window and stays set iff the average
// exceeds one half.
//
// When seed is non-nil, pixels set in it are pinned to 1 so that blurring
// a fresh selection can never eat into previously committed territory.
//
// The input mask is not modified; a new mask with recomputed tight bounds
// is returned. A radius below 1 returns a plain clone.
func GaussBlurOnlyBorder(m *Mask, radius int, seed *Mask) *Mask {
	if radius < 1 {
		return m.Clone()
	}
	w, h := m.Width, m.Height
	border := BorderIndices(m.Data, w, h)

	// Gaussian kernel, sigma tied to the radius as usual for a cutoff
	// at roughly 3 sigma.
	size := 2*radius + 1
	sigma := float64(radius) / 3
	if sigma < 0.5 {
		sigma = 0.5
	}
	kernel := make([]float64, size*size)
	var total float64
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			v := math.Exp(-float64(dx*dx+dy*dy) / (2 * sigma * sigma))
			kernel[(dy+radius)*size+(dx+radius)] = v
			total += v
		}
	}
	for i := range kernel {
		kernel[i] /= total
	}

	// Pixels eligible for re-evaluation: the window around each border
	// pixel. Marked once so overlapping windows are not blurred twice.
	candidate := make([]uint8, w*h)
	for _, k := range border {
		cx, cy := k%w, k/w
		for dy := -radius; dy <= radius; dy++ {
			y := cy + dy
			if y < 0 || y >= h {
				continue
			}
			for dx := -radius; dx <= radius; dx++ {
				x := cx + dx
				if x >= 0 && x < w {
					candidate[y*w+x] = 1
				}
			}
		}
	}

	out := NewMask(w, h)
	copy(out.Data, m.Data)
	for k, c := range candidate {
		if c == 0 {
			continue
		}
		cx, cy := k%w, k/w
		var sum float64
		for dy := -radius; dy <= radius; dy++ {
			y := cy + dy
			if y < 0 || y >= h {
				continue
			}
			for dx := -radius; dx <= radius; dx++ {
				x := cx + dx
				if x < 0 || x >= w {
					continue
				}
				if m.Data[y*w+x] != 0 {
					sum += kernel[(dy+radius)*size+(dx+radius)]
				}
			}
		}
		if sum > 0.5 {
			out.Data[k] = 1
		} else {
			out.Data[k] = 0
		}
	}

	if seed != nil {
		for k, v := range seed.Data {
			if v != 0 {
				out.Data[k] = 1
			}
		}
	}
	out.Bounds = out.TightBounds()
	return out
}
