// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the presentation surfaces the wand overlay is
// drawn onto, and the integration point for host GPU frameworks.
//
// # Key Principle
//
// wand RECEIVES a GPU device from the host application, it does NOT
// create its own. The selection overlay is a small, frequently redrawn
// surface; the host (e.g. a gogpu window) owns the device and composites
// the overlay over its map rendering.
//
// # Core Types
//
//   - DeviceHandle: GPU device access provided by the host application
//   - RenderTarget: a surface the overlay hatch is drawn into
//   - PixmapTarget: CPU-backed *image.RGBA target
//   - LayeredPixmapTarget: z-ordered overlay layers with source-over
//     compositing, for hosts that stack the selection boundary, debug
//     views, and tool feedback separately
//
// # Usage
//
//	overlay := render.NewLayeredPixmapTarget(w, h)
//	hatch, _ := overlay.CreateLayer(10)
//	session.RenderOverlayTo(hatch)
//	overlay.Composite()
package render
