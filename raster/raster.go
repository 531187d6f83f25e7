package raster

import "image"

// Image is a read-only view of source pixel data for flood filling.
// Data is row-major with BytesPerPixel bytes per pixel; the first three
// bytes of each pixel are compared against the seed color (RGB for the
// usual RGBA layout).
type Image struct {
	Data          []uint8
	Width         int
	Height        int
	BytesPerPixel int
}

// Mask is a binary raster. Data is row-major, length Width*Height, and
// every value is 0 or 1. Bounds encloses the set pixels (exclusive max,
// as usual for image.Rectangle).
type Mask struct {
	Data   []uint8
	Width  int
	Height int
	Bounds image.Rectangle
}

// NewMask creates a zero-filled mask with empty bounds.
func NewMask(width, height int) *Mask {
	return &Mask{
		Data:   make([]uint8, width*height),
		Width:  width,
		Height: height,
	}
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	c := &Mask{
		Data:   make([]uint8, len(m.Data)),
		Width:  m.Width,
		Height: m.Height,
		Bounds: m.Bounds,
	}
	copy(c.Data, m.Data)
	return c
}

// Empty reports whether no pixel is set.
func (m *Mask) Empty() bool {
	return m.Bounds.Empty()
}

// TightBounds recomputes the bounding rectangle of the set pixels.
// Returns the empty rectangle if no pixel is set.
func (m *Mask) TightBounds() image.Rectangle {
	return TightBoundsOf(m.Data, m.Width, m.Height)
}

// TightBoundsOf computes the bounding rectangle of the set pixels of a
// row-major raster. Returns the empty rectangle if no pixel is set.
func TightBoundsOf(data []uint8, width, height int) image.Rectangle {
	minX, minY := width, height
	maxX, maxY := -1, -1
	for y := 0; y < height; y++ {
		row := data[y*width : (y+1)*width]
		for x, v := range row {
			if v == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			maxY = y
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// BorderIndices returns the indices of set pixels that touch the raster
// edge or have at least one clear 4-neighbor, in row-major order.
func BorderIndices(data []uint8, width, height int) []int {
	var out []int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			k := y*width + x
			if data[k] == 0 {
				continue
			}
			if x == 0 || x == width-1 || y == 0 || y == height-1 ||
				data[k-1] == 0 || data[k+1] == 0 ||
				data[k-width] == 0 || data[k+width] == 0 {
				out = append(out, k)
			}
		}
	}
	return out
}
