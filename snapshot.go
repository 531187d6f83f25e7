package wand

import (
	"context"
	"errors"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Capture errors. ErrCaptureInFlight is the deferral signal of the
// re-entrancy guard: the external render pass is shared mutable state,
// so a second capture is rejected instead of interleaved.
var (
	ErrCaptureInFlight = errors.New("wand: snapshot capture already in flight")
	ErrNoLayers        = errors.New("wand: no layers set")
)

// Layer is one rendered map layer surface contributing to the snapshot.
// Image returns the layer's current pixels; a nil return skips the
// layer for this capture.
type Layer interface {
	Image() *image.RGBA
}

// RenderSource delivers the external map's render lifecycle. Each call
// returns a channel closed when the next signal of that kind fires. A
// snapshot is only valid after a render-complete signal followed by a
// subsequent post-render pass.
type RenderSource interface {
	RenderComplete() <-chan struct{}
	PostRender() <-chan struct{}
}

// snapshot is the captured viewport pixel state fed to the flood fill.
type snapshot struct {
	img    *image.RGBA
	width  int
	height int
}

// captureSnapshot waits out the two-stage render handshake and then
// flattens the layers into a viewport-sized RGBA buffer. Layers whose
// surface size differs from the viewport (hidpi, scaled tiles) are
// resampled; same-sized surfaces are composited directly. The ctx
// cancellation is checked at each suspension point.
func captureSnapshot(ctx context.Context, src RenderSource, layers []Layer, w, h int) (*snapshot, error) {
	select {
	case <-src.RenderComplete():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case <-src.PostRender():
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for _, l := range layers {
		img := l.Image()
		if img == nil {
			continue
		}
		if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
			xdraw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, xdraw.Over)
		} else {
			xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
		}
	}
	return &snapshot{img: dst, width: w, height: h}, nil
}
