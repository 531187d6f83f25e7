package wand

import (
	"image"
	"math"
)

// Coordinate is a map coordinate in projection units.
type Coordinate struct {
	X, Y float64
}

// Extent is a rectangular region in projection units.
type Extent struct {
	MinX, MinY, MaxX, MaxY float64
}

// MapView is the slice of the external map the engine needs: the
// viewport pixel size and the pixel mapping of the repeating projection.
// PixelFromCoordinate returns viewport-local pixel coordinates for a
// coordinate in the world the viewport currently shows.
type MapView interface {
	Size() (width, height int)
	PixelFromCoordinate(c Coordinate) (x, y float64)
	ProjectionExtent() Extent
}

// WorldOffset places the viewport origin within one repetition of the
// horizontally wrapping world. X is normalized into [0, Width); Y has no
// wrap. Width is the pixel width of one full world at the current
// resolution, or 0 when the view is degenerate (no wrap math applies).
//
// A WorldOffset is only valid at the resolution it was resolved at;
// callers request a fresh value per operation instead of caching one
// across zoom changes.
type WorldOffset struct {
	X, Y  int
	Width int
}

// ResolveWorldOffset computes the WorldOffset for the view's current
// state. The projection extent's top-left and bottom-right corners are
// projected to viewport pixels; their negated, rounded x positions are
// two candidate origins one world apart, which yields the world width
// and, modulo that width, the wrapped origin.
func ResolveWorldOffset(view MapView) WorldOffset {
	ext := view.ProjectionExtent()
	tlx, tly := view.PixelFromCoordinate(Coordinate{X: ext.MinX, Y: ext.MaxY})
	brx, _ := view.PixelFromCoordinate(Coordinate{X: ext.MaxX, Y: ext.MinY})

	dx := -int(math.Round(tlx))
	dy := -int(math.Round(tly))
	dx2 := -int(math.Round(brx))

	width := dx - dx2
	if width <= 0 {
		return WorldOffset{Y: dy}
	}
	x := dx % width
	if x < 0 {
		x += width
	}
	return WorldOffset{X: x, Y: dy, Width: width}
}

// Origin returns the viewport origin in global pixels.
func (wo WorldOffset) Origin() image.Point {
	return image.Pt(wo.X, wo.Y)
}

// shifts returns the horizontal candidate displacements under which a
// mask may be visible: unshifted, one world left, one world right. The
// one-pixel overlap avoids a seam at the wrap boundary. Without a valid
// world width only the unshifted candidate applies.
func (wo WorldOffset) shifts() []int {
	if wo.Width <= 0 {
		return []int{0}
	}
	return []int{0, -(wo.Width - 1), wo.Width - 1}
}
