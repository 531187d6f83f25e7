package wand

// Default tuning values for a Session.
const (
	// DefaultColorThreshold is the per-channel color distance within
	// which a pixel joins the flood-filled region.
	DefaultColorThreshold = 15

	// DefaultBlurRadius is the border-only blur applied to a fresh fill.
	DefaultBlurRadius = 5

	// DefaultHatchLength is the stripe length of the boundary hatch.
	DefaultHatchLength = 4

	// MaxColorThreshold caps the threshold reachable by dragging.
	MaxColorThreshold = 255
)

// SessionOption configures a Session during creation.
//
// Example:
//
//	// Defaults
//	s := wand.NewSession(view, source)
//
//	// Custom blur and hatch
//	s := wand.NewSession(view, source,
//	    wand.WithBlurRadius(3),
//	    wand.WithHatchLength(6))
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	toolkit        Toolkit
	blurRadius     int
	hatchLength    int
	includeBorders bool
}

// defaultSessionOptions returns the default session options.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		toolkit:        defaultToolkit{},
		blurRadius:     DefaultBlurRadius,
		hatchLength:    DefaultHatchLength,
		includeBorders: true,
	}
}

// WithToolkit sets a custom raster-algorithm toolkit. Use this to
// substitute the flood fill, blur, or tracer with an application's own
// implementations.
func WithToolkit(tk Toolkit) SessionOption {
	return func(o *sessionOptions) {
		if tk != nil {
			o.toolkit = tk
		}
	}
}

// WithBlurRadius sets the border-only blur radius applied after each
// flood fill. Zero disables the blur.
func WithBlurRadius(radius int) SessionOption {
	return func(o *sessionOptions) {
		if radius >= 0 {
			o.blurRadius = radius
		}
	}
}

// WithHatchLength sets the stripe length of the boundary hatch pattern.
func WithHatchLength(length int) SessionOption {
	return func(o *sessionOptions) {
		if length > 0 {
			o.hatchLength = length
		}
	}
}

// WithIncludeBorders controls whether the flood fill includes the
// one-pixel rim of rejected pixels around the region, the edge the blur
// step softens.
func WithIncludeBorders(include bool) SessionOption {
	return func(o *sessionOptions) {
		o.includeBorders = include
	}
}

// ThresholdForDrag maps a horizontal drag distance in pixels to a color
// threshold, clamped to [0, MaxColorThreshold]. Dragging right of the
// anchor loosens the threshold, dragging left tightens it back toward
// the base value.
func ThresholdForDrag(base, dx int) int {
	t := base + dx/2
	if t < 0 {
		return 0
	}
	if t > MaxColorThreshold {
		return MaxColorThreshold
	}
	return t
}
