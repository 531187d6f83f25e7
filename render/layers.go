// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"slices"

	"github.com/gogpu/gputypes"
)

// LayeredTarget supports z-ordered overlay layers: the marching-ants
// boundary, tool feedback, and debug views can be drawn on separate
// surfaces and composited in ascending z-order (lower z behind higher).
type LayeredTarget interface {
	RenderTarget

	// CreateLayer creates a new layer at the specified z-order.
	// Returns an error if a layer with the same z-order already exists.
	CreateLayer(z int) (RenderTarget, error)

	// RemoveLayer removes a layer by z-order.
	// Returns an error if the layer does not exist.
	RemoveLayer(z int) error

	// SetLayerVisible controls layer visibility without removing it.
	// Invisible layers are not composited but retain their content.
	SetLayerVisible(z int, visible bool)

	// Layers returns all layer z-orders in render order (ascending).
	Layers() []int

	// Composite blends all visible layers onto the base target.
	// Call after drawing to layers is complete.
	Composite()
}

// overlayLayer is a single compositing layer.
type overlayLayer struct {
	img     *image.RGBA
	visible bool
}

// LayeredPixmapTarget is a CPU-backed implementation of LayeredTarget.
// It uses *image.RGBA per layer and composites them in z-order with
// source-over blending.
type LayeredPixmapTarget struct {
	base   *image.RGBA           // always-visible base surface
	layers map[int]*overlayLayer // additional layers by z-order
	zOrder []int                 // cached sorted z-order list
	width  int
	height int
}

// NewLayeredPixmapTarget creates a new layered CPU render target.
func NewLayeredPixmapTarget(width, height int) *LayeredPixmapTarget {
	return &LayeredPixmapTarget{
		base:   image.NewRGBA(image.Rect(0, 0, width, height)),
		layers: make(map[int]*overlayLayer),
		width:  width,
		height: height,
	}
}

// Width returns the target width in pixels.
func (t *LayeredPixmapTarget) Width() int {
	return t.width
}

// Height returns the target height in pixels.
func (t *LayeredPixmapTarget) Height() int {
	return t.height
}

// Format returns the pixel format (RGBA8).
func (t *LayeredPixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// TextureView returns nil as this is a CPU-only target.
func (t *LayeredPixmapTarget) TextureView() TextureView {
	return nil
}

// Image returns the base layer image, not the composited result.
// Call Composite() first to flatten the layers into the base.
func (t *LayeredPixmapTarget) Image() *image.RGBA {
	return t.base
}

// Pixels returns direct access to the base layer pixel data.
// Call Composite() first to get the composited result.
func (t *LayeredPixmapTarget) Pixels() []byte {
	return t.base.Pix
}

// Stride returns the number of bytes per row.
func (t *LayeredPixmapTarget) Stride() int {
	return t.base.Stride
}

// CreateLayer creates a new layer at the specified z-order and returns
// a RenderTarget for drawing into it.
func (t *LayeredPixmapTarget) CreateLayer(z int) (RenderTarget, error) {
	if _, exists := t.layers[z]; exists {
		return nil, fmt.Errorf("render: layer with z=%d already exists", z)
	}

	l := &overlayLayer{
		img:     image.NewRGBA(image.Rect(0, 0, t.width, t.height)),
		visible: true,
	}
	t.layers[z] = l
	t.zOrder = nil

	return NewPixmapTargetFromImage(l.img), nil
}

// RemoveLayer removes a layer by z-order.
func (t *LayeredPixmapTarget) RemoveLayer(z int) error {
	if _, exists := t.layers[z]; !exists {
		return fmt.Errorf("render: layer with z=%d does not exist", z)
	}
	delete(t.layers, z)
	t.zOrder = nil
	return nil
}

// SetLayerVisible controls layer visibility.
func (t *LayeredPixmapTarget) SetLayerVisible(z int, visible bool) {
	if l, exists := t.layers[z]; exists {
		l.visible = visible
	}
}

// Layers returns all layer z-orders in render order (ascending).
func (t *LayeredPixmapTarget) Layers() []int {
	if t.zOrder == nil {
		t.zOrder = make([]int, 0, len(t.layers))
		for z := range t.layers {
			t.zOrder = append(t.zOrder, z)
		}
		slices.Sort(t.zOrder)
	}
	// Return a copy to prevent modification of the cache.
	return slices.Clone(t.zOrder)
}

// GetLayer returns the RenderTarget for a specific layer, nil if the
// layer does not exist.
func (t *LayeredPixmapTarget) GetLayer(z int) RenderTarget {
	l, exists := t.layers[z]
	if !exists {
		return nil
	}
	return NewPixmapTargetFromImage(l.img)
}

// Composite blends all visible layers onto the base target in z-order
// using standard source-over alpha blending.
func (t *LayeredPixmapTarget) Composite() {
	for _, z := range t.Layers() {
		l := t.layers[z]
		if l.visible {
			draw.Draw(t.base, t.base.Bounds(), l.img, image.Point{}, draw.Over)
		}
	}
}

// Clear fills the base layer with the given color.
// Does not affect other layers.
func (t *LayeredPixmapTarget) Clear(c color.Color) {
	fillRGBA(t.base, c)
}

// ClearLayer fills a specific layer with a color.
// Returns an error if the layer does not exist.
func (t *LayeredPixmapTarget) ClearLayer(z int, c color.Color) error {
	l, exists := t.layers[z]
	if !exists {
		return fmt.Errorf("render: layer with z=%d does not exist", z)
	}
	fillRGBA(l.img, c)
	return nil
}

// fillRGBA fills an image with a uniform color.
func fillRGBA(img *image.RGBA, c color.Color) {
	r, g, b, a := c.RGBA()
	//nolint:gosec // G115: mask ensures no overflow
	rgba := color.RGBA{
		R: uint8((r >> 8) & 0xFF),
		G: uint8((g >> 8) & 0xFF),
		B: uint8((b >> 8) & 0xFF),
		A: uint8((a >> 8) & 0xFF),
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, rgba)
		}
	}
}

// Ensure LayeredPixmapTarget implements both interfaces.
var (
	_ RenderTarget  = (*LayeredPixmapTarget)(nil)
	_ LayeredTarget = (*LayeredPixmapTarget)(nil)
)
