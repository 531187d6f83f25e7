package wand

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/wand/render"
)

// closedChan returns a channel that is already closed, so the capture
// handshake completes immediately.
func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeSource struct {
	// onRenderComplete runs synchronously when the capture starts
	// waiting, before the signal fires.
	onRenderComplete func()
}

func (s *fakeSource) RenderComplete() <-chan struct{} {
	if s.onRenderComplete != nil {
		s.onRenderComplete()
	}
	return closedChan()
}

func (s *fakeSource) PostRender() <-chan struct{} {
	return closedChan()
}

type fakeLayer struct {
	img *image.RGBA
}

func (l *fakeLayer) Image() *image.RGBA { return l.img }

// testLayer builds a white 100x100 layer with a red block at
// (30,30)-(40,40) and a green block at (60,60)-(70,70).
func testLayer() *fakeLayer {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	for y := 30; y < 40; y++ {
		for x := 30; x < 40; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	for y := 60; y < 70; y++ {
		for x := 60; x < 70; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 255, 0, 255})
		}
	}
	return &fakeLayer{img: img}
}

func newTestSession(source RenderSource, opts ...SessionOption) *Session {
	view := &fakeView{width: 100, height: 100, worldWidth: 360}
	base := []SessionOption{WithBlurRadius(0), WithIncludeBorders(false)}
	return NewSession(view, source, append(base, opts...)...)
}

func scanned(t *testing.T, s *Session) {
	t.Helper()
	if !s.SetLayers([]Layer{testLayer()}) {
		t.Fatal("SetLayers failed")
	}
	if err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan error = %v", err)
	}
	if !s.IsReady() {
		t.Fatal("expected session to be ready after Scan")
	}
}

func TestSessionScanRequiresLayers(t *testing.T) {
	s := newTestSession(&fakeSource{})

	if err := s.Scan(context.Background()); !errors.Is(err, ErrNoLayers) {
		t.Errorf("Scan = %v, want ErrNoLayers", err)
	}
	if s.SetLayers(nil) {
		t.Error("expected empty layer set to be rejected")
	}
}

func TestSessionScanGuard(t *testing.T) {
	s := newTestSession(&fakeSource{})
	s.SetLayers([]Layer{testLayer()})

	s.capturing.Store(true)
	if err := s.Scan(context.Background()); !errors.Is(err, ErrCaptureInFlight) {
		t.Errorf("Scan = %v, want ErrCaptureInFlight", err)
	}
	s.capturing.Store(false)

	if err := s.Scan(context.Background()); err != nil {
		t.Errorf("Scan after guard release = %v", err)
	}
}

func TestSessionScanCancelled(t *testing.T) {
	// A source that never signals.
	src := renderSourceFunc{
		complete: make(chan struct{}),
		post:     make(chan struct{}),
	}

	s := newTestSession(src)
	s.SetLayers([]Layer{testLayer()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Scan(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Scan = %v, want context.Canceled", err)
	}
}

type renderSourceFunc struct {
	complete chan struct{}
	post     chan struct{}
}

func (s renderSourceFunc) RenderComplete() <-chan struct{} { return s.complete }
func (s renderSourceFunc) PostRender() <-chan struct{}     { return s.post }

func TestSessionScanDiscardsAcrossResolutionChange(t *testing.T) {
	s := newTestSession(nil)
	src := &fakeSource{onRenderComplete: func() {
		s.HandleResolutionChange()
	}}
	s.source = src
	s.SetLayers([]Layer{testLayer()})

	if err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan error = %v", err)
	}
	if s.IsReady() {
		t.Error("snapshot captured across a resolution change must be discarded")
	}
}

func TestSessionScanDiscardsAcrossSizeChange(t *testing.T) {
	s := newTestSession(nil)
	src := &fakeSource{onRenderComplete: func() {
		s.HandleSizeChange()
	}}
	s.source = src
	s.SetLayers([]Layer{testLayer()})

	if err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan error = %v", err)
	}
	if s.IsReady() {
		t.Error("snapshot captured across a resize must be discarded")
	}
}

func TestSessionSelectAt(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	if !s.BeginGesture(false) {
		t.Fatal("BeginGesture failed")
	}
	if !s.SelectAt(35, 35, 10) {
		t.Fatal("SelectAt failed on the red block")
	}
	if !s.EndGesture() {
		t.Fatal("EndGesture failed to commit")
	}

	m := s.Mask()
	if m == nil {
		t.Fatal("expected a committed mask")
	}
	if m.GlobalBounds() != image.Rect(30, 30, 40, 40) {
		t.Errorf("GlobalBounds = %v, want (30,30)-(40,40)", m.GlobalBounds())
	}
}

func TestSessionSelectAtRejections(t *testing.T) {
	s := newTestSession(&fakeSource{})

	// Not ready: no snapshot yet.
	if s.SelectAt(35, 35, 10) {
		t.Error("expected SelectAt to fail before Scan")
	}
	if s.BeginGesture(false) {
		t.Error("expected BeginGesture to fail before Scan")
	}

	scanned(t, s)

	// Seed outside the viewport.
	if s.SelectAt(-1, 50, 10) {
		t.Error("expected SelectAt to fail for negative seed")
	}
	if s.SelectAt(100, 50, 10) {
		t.Error("expected SelectAt to fail past the viewport")
	}
}

func TestSessionAddGesture(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	s.EndGesture()

	// Second gesture in add mode grows the selection.
	if !s.BeginGesture(true) {
		t.Fatal("BeginGesture(add) failed")
	}
	if !s.SelectAt(65, 65, 10) {
		t.Fatal("SelectAt failed on the green block")
	}
	s.EndGesture()

	m := s.Mask()
	if m.GlobalBounds() != image.Rect(30, 30, 70, 70) {
		t.Errorf("GlobalBounds = %v, want union (30,30)-(70,70)", m.GlobalBounds())
	}

	// Both blocks are selected.
	off := m.Offset()
	if m.At(35-off.X, 35-off.Y) != 1 {
		t.Error("expected red block pixel in the merged mask")
	}
	if m.At(65-off.X, 65-off.Y) != 1 {
		t.Error("expected green block pixel in the merged mask")
	}
}

func TestSessionDragSupersedes(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	first := s.Mask()
	// Drag moved to the green block: the new fill replaces the
	// uncommitted one instead of adding to it.
	s.SelectAt(65, 65, 10)
	s.EndGesture()

	m := s.Mask()
	if m == first {
		t.Error("expected the drag to produce a fresh mask")
	}
	if m.GlobalBounds() != image.Rect(60, 60, 70, 70) {
		t.Errorf("GlobalBounds = %v, want (60,60)-(70,70)", m.GlobalBounds())
	}
	if s.history.Len() != 1 {
		t.Errorf("history Len = %d, want 1 (only EndGesture commits)", s.history.Len())
	}
}

func TestSessionEmptyGestureDoesNotCommit(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	s.EndGesture()
	committed := s.Mask()

	// A gesture in which every fill failed changes nothing and must
	// not push a duplicate history entry.
	s.BeginGesture(true)
	if s.SelectAt(-1, 50, 10) {
		t.Fatal("expected the out-of-viewport fill to fail")
	}
	if s.EndGesture() {
		t.Error("expected an empty gesture to report no commit")
	}
	if s.history.Len() != 1 {
		t.Errorf("history Len = %d, want 1", s.history.Len())
	}
	if s.Mask() != committed {
		t.Error("expected the committed mask to be unchanged")
	}
	if s.Undo() {
		t.Error("expected no undo step from an empty gesture")
	}
}

func TestSessionGetMask(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	if s.GetMask() != nil {
		t.Error("expected nil OffsetMask before any selection")
	}

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	s.EndGesture()

	om := s.GetMask()
	if om == nil {
		t.Fatal("expected an OffsetMask")
	}
	if om.Width != 10 || om.Height != 10 {
		t.Errorf("cropped = %dx%d, want 10x10", om.Width, om.Height)
	}
	if om.Offset != image.Pt(30, 30) {
		t.Errorf("Offset = %v, want (30, 30)", om.Offset)
	}
	if got := countSet(om.Data); got != 100 {
		t.Errorf("expected 100 set pixels, got %d", got)
	}
}

func TestSessionGetContours(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	if s.GetContours(0, 0) != nil {
		t.Error("expected nil contours before any selection")
	}

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	s.EndGesture()

	cs := s.GetContours(0, 0)
	if len(cs) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(cs))
	}
	c := cs[0]
	if c.Inner {
		t.Error("expected an outer contour")
	}
	if len(c.Points) != 4 {
		t.Fatalf("expected 4 corners, got %d", len(c.Points))
	}
	want := map[image.Point]bool{
		image.Pt(30, 30): true,
		image.Pt(40, 30): true,
		image.Pt(40, 40): true,
		image.Pt(30, 40): true,
	}
	for _, p := range c.Points {
		if !want[p] {
			t.Errorf("unexpected corner %v", p)
		}
	}
}

func TestSessionUndoRedo(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	s.EndGesture()
	first := s.Mask()

	s.BeginGesture(true)
	s.SelectAt(65, 65, 10)
	s.EndGesture()
	second := s.Mask()

	if !s.Undo() {
		t.Fatal("Undo failed")
	}
	if s.Mask() != first {
		t.Error("expected the first mask after Undo")
	}
	if s.Undo() {
		t.Error("expected no undo past the first commit")
	}

	if !s.Redo() {
		t.Fatal("Redo failed")
	}
	if s.Mask() != second {
		t.Error("expected the second mask after Redo")
	}
	if s.Redo() {
		t.Error("expected no redo at the top")
	}
}

func TestSessionClearMask(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	s.EndGesture()

	s.ClearMask()

	if s.Mask() != nil {
		t.Error("expected no mask after ClearMask")
	}
	// History survives a clear.
	if s.history.Len() != 1 {
		t.Errorf("history Len = %d, want 1", s.history.Len())
	}
}

func TestSessionHandleResolutionChange(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	s.EndGesture()

	s.HandleResolutionChange()

	if s.IsReady() {
		t.Error("expected snapshot to be invalidated")
	}
	if s.Mask() != nil {
		t.Error("expected mask to be invalidated")
	}
	if s.history.Len() != 0 {
		t.Error("expected history to be cleared")
	}
}

func TestSessionHandleSizeChange(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	s.EndGesture()

	s.HandleSizeChange()

	if s.IsReady() {
		t.Error("expected snapshot to be invalidated by a resize")
	}
	if s.Mask() == nil {
		t.Error("expected the mask to survive a resize")
	}
}

func TestSessionRenderOverlay(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	if s.RenderOverlay(dst) {
		t.Error("expected nothing to draw without a mask")
	}

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	s.EndGesture()

	if !s.RenderOverlay(dst) {
		t.Fatal("expected the overlay to draw")
	}
	drawn := 0
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 0 {
			drawn++
		}
	}
	// 10x10 block boundary: 36 pixels.
	if drawn != 36 {
		t.Errorf("expected 36 hatched pixels, got %d", drawn)
	}

	// Clearing the mask clears the overlay too.
	s.ClearMask()
	if s.RenderOverlay(dst) {
		t.Error("expected nothing to draw after ClearMask")
	}
	for i := range dst.Pix {
		if dst.Pix[i] != 0 {
			t.Fatal("expected a cleared overlay")
		}
	}
}

func TestSessionRenderOverlayTo(t *testing.T) {
	s := newTestSession(&fakeSource{})
	scanned(t, s)

	s.BeginGesture(false)
	s.SelectAt(35, 35, 10)
	s.EndGesture()

	target := render.NewPixmapTarget(100, 100)
	if !s.RenderOverlayTo(target) {
		t.Error("expected the overlay to draw into the target")
	}
	if s.RenderOverlayTo(nil) {
		t.Error("expected nil target to report false")
	}
}

func TestSessionTickHatch(t *testing.T) {
	s := newTestSession(&fakeSource{}, WithHatchLength(4))

	for i := 1; i <= 8; i++ {
		s.TickHatch()
		if i < 8 && s.hatchOffset != i {
			t.Fatalf("hatchOffset after %d ticks = %d", i, s.hatchOffset)
		}
	}
	// 2L ticks wrap back to zero.
	if s.hatchOffset != 0 {
		t.Errorf("hatchOffset after a full period = %d, want 0", s.hatchOffset)
	}
}
