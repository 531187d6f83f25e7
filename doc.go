// Package wand implements a magic-wand selection engine for tiled map
// viewports: a region-growing selection painted over a rendered map and
// kept consistent while the user pans, zooms, and extends it.
//
// # Overview
//
// The hard part is not the flood fill itself (package raster, pluggable
// via Toolkit) but mask bookkeeping: a committed selection lives in a
// local byte raster with a global pixel offset, while the map projection
// repeats infinitely east-west, so the same territory is visible in more
// than one "world". The engine reconciles those placements whenever a
// new fill is merged into the committed mask, when previously committed
// pixels must seed an incremental fill, and when the selection boundary
// is drawn into the current viewport.
//
// # Quick Start
//
//	session := wand.NewSession(view, source)
//	session.SetLayers(layers)
//
//	// Capture a snapshot of the rendered layers, then select.
//	if err := session.Scan(ctx); err != nil { ... }
//	session.BeginGesture(false)
//	session.SelectAt(x, y, wand.DefaultColorThreshold)
//	session.EndGesture()
//
//	// Draw the marching-ants boundary every animation tick.
//	session.TickHatch()
//	session.RenderOverlay(overlay)
//
// # Coordinate Systems
//
// Three pixel spaces appear throughout:
//   - local: a mask's own raster, origin at its top-left
//   - viewport: the visible map canvas, origin at its top-left
//   - global: one unwrapped copy of the world at the current resolution
//
// A WorldOffset ties them together; it must be resolved freshly for
// every operation because it changes with every pan and zoom.
//
// # Concurrency
//
// A Session is not safe for concurrent use. All mask operations are
// synchronous; only the snapshot capture waits on the map's render
// lifecycle and is guarded against re-entrant capture requests.
package wand
