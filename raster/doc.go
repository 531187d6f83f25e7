// Package raster implements the pixel algorithms behind magic-wand
// selection: threshold flood fill, border-only gaussian blur, contour
// tracing and simplification, and border index extraction.
//
// The package operates on plain byte buffers and is independent of the
// wand package: wand consumes it through the wand.Toolkit interface, so
// an application can substitute its own implementations.
//
// Masks produced here are binary: every value is 0 or 1. Bounds returned
// with a mask tightly enclose its set pixels.
package raster
