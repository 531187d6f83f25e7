package wand

import (
	"context"
	"image"
	"sync/atomic"

	"github.com/gogpu/wand/raster"
	"github.com/gogpu/wand/render"
)

// Session owns the state of one magic-wand interaction over one map
// view: the captured snapshot, the committed mask, its history, and the
// cached boundary. Construct one per interaction instance; there are no
// process-wide singletons.
//
// A Session is single-threaded and cooperative. The only blocking call
// is Scan, which waits on the map's render lifecycle; everything else
// runs synchronously in response to externally driven events.
type Session struct {
	view   MapView
	source RenderSource
	opts   sessionOptions

	layers []Layer

	snap       *snapshot
	capturing  atomic.Bool
	generation atomic.Uint64

	mask    *Mask
	history *History

	border      *Border
	borderBusy  atomic.Bool
	hatchOffset int

	inGesture    bool
	gestureAdd   bool
	gestureDirty bool
	gestureBase  *Mask
}

// NewSession creates a session for the given map view and render
// lifecycle source.
func NewSession(view MapView, source RenderSource, opts ...SessionOption) *Session {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{
		view:    view,
		source:  source,
		opts:    o,
		history: NewHistory(),
	}
}

// SetLayers sets the rendered layers the snapshot is captured from and
// invalidates any previous snapshot. Rejects an empty layer set and
// reports failure.
func (s *Session) SetLayers(layers []Layer) bool {
	if len(layers) == 0 {
		Logger().Warn("wand: rejecting empty layer set")
		return false
	}
	s.layers = layers
	s.snap = nil
	return true
}

// Scan captures a fresh snapshot of the rendered layers. It waits for
// the render-complete signal and the subsequent post-render pass before
// reading pixels; a second Scan while one is in flight is deferred with
// ErrCaptureInFlight rather than interleaved.
//
// A resolution change during the wait discards the captured result
// silently: the session state was already cleared and the snapshot
// would be expressed at a dead resolution.
func (s *Session) Scan(ctx context.Context) error {
	if len(s.layers) == 0 {
		return ErrNoLayers
	}
	if !s.capturing.CompareAndSwap(false, true) {
		return ErrCaptureInFlight
	}
	defer s.capturing.Store(false)

	gen := s.generation.Load()
	w, h := s.view.Size()
	snap, err := captureSnapshot(ctx, s.source, s.layers, w, h)
	if err != nil {
		return err
	}
	if s.generation.Load() != gen {
		Logger().Debug("wand: discarding snapshot captured across a resolution change")
		return nil
	}
	s.snap = snap
	Logger().Debug("wand: snapshot captured", "width", w, "height", h)
	return nil
}

// IsReady reports whether a snapshot is available for selection.
func (s *Session) IsReady() bool {
	return s.snap != nil
}

// BeginGesture starts a pointer gesture. With add set, the selection
// grows from the previously committed mask; otherwise the gesture
// replaces it. Fails when no snapshot has been captured.
func (s *Session) BeginGesture(add bool) bool {
	if s.snap == nil {
		return false
	}
	s.inGesture = true
	s.gestureBase = s.mask
	s.gestureAdd = add && s.mask != nil
	s.gestureDirty = false
	return true
}

// SelectAt runs a flood fill from the viewport-local seed pixel with the
// given color threshold and installs the result as the current mask
// (merged with the committed mask in add mode). Called repeatedly while
// the pointer drags, each call superseding the previous result; only
// EndGesture commits to history.
//
// Returns false with no effect when the session is not ready, the seed
// is outside the viewport, or the fill produced nothing.
func (s *Session) SelectAt(x, y, threshold int) bool {
	if s.snap == nil {
		return false
	}
	if x < 0 || y < 0 || x >= s.snap.width || y >= s.snap.height {
		return false
	}

	wo := ResolveWorldOffset(s.view)

	var seed *raster.Mask
	if s.gestureAdd && s.gestureBase != nil {
		seed = BuildVisibleSeed(s.gestureBase, wo, s.snap.width, s.snap.height)
	}

	fill := s.opts.toolkit.FloodFill(rasterImageFromRGBA(s.snap.img), x, y, threshold, seed, s.opts.includeBorders)
	if fill == nil || fill.Bounds.Empty() {
		return false
	}
	if s.opts.blurRadius > 0 {
		fill = s.opts.toolkit.GaussBlurOnlyBorder(fill, s.opts.blurRadius, seed)
	}

	next := FromRaster(fill, wo.Origin())
	if next == nil {
		return false
	}
	if s.gestureAdd && s.gestureBase != nil {
		s.mask = Composite(s.gestureBase, next, wo.Width)
	} else {
		s.mask = next
	}
	s.border = nil
	s.gestureDirty = true
	return true
}

// EndGesture finishes the gesture and commits the current mask to
// history. A gesture in which no fill ever succeeded changed nothing,
// so it reports false and leaves history untouched.
func (s *Session) EndGesture() bool {
	dirty := s.gestureDirty
	s.inGesture = false
	s.gestureBase = nil
	s.gestureAdd = false
	s.gestureDirty = false
	if !dirty {
		return false
	}
	return s.history.Add(s.mask)
}

// Mask returns the current committed mask, nil when none is set.
func (s *Session) Mask() *Mask {
	return s.mask
}

// GetMask returns the committed mask cropped to its tight content
// bounds, with the offset re-expressed relative to the current
// viewport's main-world origin. Returns nil when no mask is set or the
// mask has no content.
func (s *Session) GetMask() *OffsetMask {
	if s.mask == nil {
		return nil
	}
	cropped, globalMin := s.mask.cropTight()
	if cropped == nil {
		return nil
	}
	wo := ResolveWorldOffset(s.view)
	return &OffsetMask{
		Data:   cropped.Data,
		Width:  cropped.Width,
		Height: cropped.Height,
		Offset: globalMin.Sub(wo.Origin()),
	}
}

// GetContours traces the committed mask's boundary polygons, simplified
// with the given tolerance and vertex cap, translated into current
// viewport coordinates. Returns nil when no mask is set.
func (s *Session) GetContours(tolerance float64, maxCount int) []Contour {
	if s.mask == nil {
		return nil
	}
	w, h := s.view.Size()
	wo := ResolveWorldOffset(s.view)
	return contoursInViewport(s.mask, wo, w, h, s.opts.toolkit, tolerance, maxCount)
}

// ClearMask drops the committed mask and its cached boundary. History
// is kept; use Undo/Redo or HandleResolutionChange for the rest.
func (s *Session) ClearMask() {
	s.mask = nil
	s.border = nil
}

// Undo steps the history back and installs that mask. Reports false
// when there is nothing to undo.
func (s *Session) Undo() bool {
	m, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.mask = m
	s.border = nil
	return true
}

// Redo steps the history forward and installs that mask. Reports false
// when there is nothing to redo.
func (s *Session) Redo() bool {
	m, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.mask = m
	s.border = nil
	return true
}

// HandleResolutionChange invalidates everything expressed in pixels at
// the old resolution: snapshot, mask, cached boundary, history, and any
// in-flight capture. Masks do not survive a zoom.
func (s *Session) HandleResolutionChange() {
	s.generation.Add(1)
	s.snap = nil
	s.mask = nil
	s.border = nil
	s.history.Clear()
}

// HandleSizeChange invalidates the snapshot and cached boundary after a
// viewport resize. The mask survives: it lives in global coordinates.
// An in-flight capture is invalidated as well, since its pixels are
// sized to the old viewport.
func (s *Session) HandleSizeChange() {
	s.generation.Add(1)
	s.snap = nil
	s.border = nil
}

// HandleViewChange invalidates the cached boundary after a pan; the
// border is recomputed against the new viewport on the next render.
func (s *Session) HandleViewChange() {
	s.border = nil
}

// TickHatch advances the marching-ants phase by one pixel. Drive it
// from a fixed timer and redraw the overlay afterwards; the boundary
// itself is not recomputed.
func (s *Session) TickHatch() {
	s.hatchOffset = (s.hatchOffset + 1) % (2 * s.opts.hatchLength)
}

// RenderOverlay clears dst and draws the committed mask's boundary into
// it as the animated hatch. Reports false and leaves dst cleared when
// there is no mask or none of it is in view. dst should be the
// viewport-sized overlay surface.
//
// Re-extraction of the border is guarded by a flag so a timer-driven
// redraw cannot interleave with one already in progress; the guarded
// call reports false without drawing.
func (s *Session) RenderOverlay(dst *image.RGBA) bool {
	clearImage(dst)
	if s.mask == nil {
		return false
	}
	if !s.borderBusy.CompareAndSwap(false, true) {
		return false
	}
	defer s.borderBusy.Store(false)

	if s.border == nil {
		w, h := s.view.Size()
		wo := ResolveWorldOffset(s.view)
		s.border = ExtractBorder(s.mask, wo, w, h, s.opts.toolkit)
	}
	if s.border.Empty() {
		return false
	}
	return drawHatch(dst, s.border, s.opts.hatchLength, s.hatchOffset)
}

// RenderOverlayTo draws the overlay into a render target's backing
// image. Targets without CPU-accessible pixels report false.
func (s *Session) RenderOverlayTo(target render.RenderTarget) bool {
	if target == nil {
		return false
	}
	img := target.Image()
	if img == nil {
		return false
	}
	return s.RenderOverlay(img)
}
