package wand

import (
	"image"

	"github.com/gogpu/wand/raster"
)

// Contour is a closed selection boundary polygon in viewport
// coordinates. Inner marks a hole. InitialCount is the vertex count
// before simplification.
type Contour struct {
	Points       []image.Point
	Inner        bool
	Label        int
	InitialCount int
}

// contoursInViewport traces the mask's tight content region and
// re-expresses the vertices in viewport coordinates, picking the world
// candidate under which the content is actually in (or nearest to) view.
func contoursInViewport(mask *Mask, wo WorldOffset, viewportW, viewportH int,
	tk Toolkit, tolerance float64, maxCount int) []Contour {

	cropped, globalMin := mask.cropTight()
	if cropped == nil {
		return nil
	}

	shift := bestShift(globalMin, cropped.Width, cropped.Height, wo, viewportW, viewportH)
	origin := globalMin.Add(image.Pt(shift, 0)).Sub(wo.Origin())

	traced := tk.SimplifyContours(tk.TraceContours(cropped), tolerance, maxCount)
	out := make([]Contour, 0, len(traced))
	for _, c := range traced {
		pts := make([]image.Point, len(c.Points))
		for i, p := range c.Points {
			pts[i] = p.Add(origin)
		}
		out = append(out, Contour{
			Points:       pts,
			Inner:        c.Inner,
			Label:        c.Label,
			InitialCount: c.InitialCount,
		})
	}
	return out
}

// bestShift picks the world displacement that brings the content
// rectangle into the viewport, preferring the unshifted candidate, and
// falling back to it when no candidate intersects.
func bestShift(globalMin image.Point, w, h int, wo WorldOffset, viewportW, viewportH int) int {
	viewRect := image.Rect(0, 0, viewportW, viewportH)
	for _, shift := range wo.shifts() {
		origin := globalMin.Add(image.Pt(shift, 0)).Sub(wo.Origin())
		if image.Rect(origin.X, origin.Y, origin.X+w, origin.Y+h).Overlaps(viewRect) {
			return shift
		}
	}
	return 0
}

// rasterImageFromRGBA adapts an RGBA image to the toolkit's pixel view.
func rasterImageFromRGBA(img *image.RGBA) raster.Image {
	return raster.Image{
		Data:          img.Pix,
		Width:         img.Rect.Dx(),
		Height:        img.Rect.Dy(),
		BytesPerPixel: 4,
	}
}
