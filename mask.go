package wand

import (
	"image"

	"github.com/gogpu/wand/raster"
)

// Mask is a committed binary selection raster together with its placement
// in the global (unwrapped) pixel space at the current resolution.
//
// Data values are restricted to 0 and 1. Bounds tightly encloses the set
// pixels when the mask comes out of a flood fill; after compositing it
// covers the whole merged raster instead (see Composite). The offset is
// the global position of the raster's local origin.
//
// Masks are treated as immutable once committed: compositing allocates a
// new value instead of patching either input.
type Mask struct {
	data   []uint8
	width  int
	height int
	bounds image.Rectangle
	offset image.Point
}

// NewMask creates a zero-filled mask with the given dimensions and
// global offset. Bounds start empty.
func NewMask(width, height int, offset image.Point) *Mask {
	return &Mask{
		data:   make([]uint8, width*height),
		width:  width,
		height: height,
		offset: offset,
	}
}

// FromRaster wraps a toolkit mask with a global placement. The raster's
// data is referenced, not copied; the toolkit allocates a fresh buffer
// per fill, so ownership transfers here. Returns nil for a nil or empty
// raster, matching the not-ready taxonomy.
func FromRaster(rm *raster.Mask, offset image.Point) *Mask {
	if rm == nil || rm.Bounds.Empty() {
		return nil
	}
	return &Mask{
		data:   rm.Data,
		width:  rm.Width,
		height: rm.Height,
		bounds: rm.Bounds,
		offset: offset,
	}
}

// Width returns the local raster width.
func (m *Mask) Width() int { return m.width }

// Height returns the local raster height.
func (m *Mask) Height() int { return m.height }

// Bounds returns the local rectangle enclosing the set pixels
// (full-raster after compositing).
func (m *Mask) Bounds() image.Rectangle { return m.bounds }

// Offset returns the global position of the local origin.
func (m *Mask) Offset() image.Point { return m.offset }

// At returns the pixel value at local (x, y), 0 outside the raster.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// GlobalBounds returns the bounded region in global coordinates.
func (m *Mask) GlobalBounds() image.Rectangle {
	return m.bounds.Add(m.offset)
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	c := &Mask{
		data:   make([]uint8, len(m.data)),
		width:  m.width,
		height: m.height,
		bounds: m.bounds,
		offset: m.offset,
	}
	copy(c.data, m.data)
	return c
}

// setRect sets every pixel of r (local coordinates, clipped) and grows
// the bounds. Test helper shared by the package tests.
func (m *Mask) setRect(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, m.width, m.height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.data[y*m.width : (y+1)*m.width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = 1
		}
	}
	if m.bounds.Empty() {
		m.bounds = r
	} else {
		m.bounds = m.bounds.Union(r)
	}
}

// OffsetMask is the exported form of a committed mask: the raster cropped
// to its tight content bounds, with the offset re-expressed relative to
// the current viewport's main-world origin. Produced by Session.GetMask.
type OffsetMask struct {
	Data   []uint8
	Width  int
	Height int
	Offset image.Point
}

// cropTight copies the tight content region out of the mask. Returns the
// cropped raster and the global position of its origin. A mask with no
// set pixel returns nil.
func (m *Mask) cropTight() (*raster.Mask, image.Point) {
	tight := raster.TightBoundsOf(m.data, m.width, m.height)
	if tight.Empty() {
		return nil, image.Point{}
	}
	w := tight.Dx()
	h := tight.Dy()
	out := raster.NewMask(w, h)
	for y := 0; y < h; y++ {
		src := (tight.Min.Y+y)*m.width + tight.Min.X
		copy(out.Data[y*w:(y+1)*w], m.data[src:src+w])
	}
	out.Bounds = image.Rect(0, 0, w, h)
	return out, m.offset.Add(tight.Min)
}
