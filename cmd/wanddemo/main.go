// Command wanddemo runs a magic-wand selection over a PNG image and
// writes the selection overlay next to it.
package main

import (
	"context"
	"flag"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"

	"github.com/gogpu/wand"
)

func main() {
	var (
		input     = flag.String("input", "input.png", "input image")
		output    = flag.String("output", "overlay.png", "output overlay file")
		seedX     = flag.Int("x", 0, "seed pixel x")
		seedY     = flag.Int("y", 0, "seed pixel y")
		threshold = flag.Int("threshold", wand.DefaultColorThreshold, "color threshold")
	)
	flag.Parse()

	img, err := loadPNG(*input)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	session := wand.NewSession(&flatView{width: w, height: h}, immediateSource{})
	session.SetLayers([]wand.Layer{&imageLayer{img: img}})
	if err := session.Scan(context.Background()); err != nil {
		log.Fatalf("Failed to capture: %v", err)
	}

	session.BeginGesture(false)
	if !session.SelectAt(*seedX, *seedY, *threshold) {
		log.Fatalf("Nothing selected at (%d, %d)", *seedX, *seedY)
	}
	session.EndGesture()

	if m := session.GetMask(); m != nil {
		log.Printf("Selected %dx%d region at offset %v", m.Width, m.Height, m.Offset)
	}

	overlay := image.NewRGBA(image.Rect(0, 0, w, h))
	session.RenderOverlay(overlay)

	// Draw the hatch over a copy of the input for inspection.
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	draw.Draw(out, out.Bounds(), overlay, image.Point{}, draw.Over)

	if err := savePNG(*output, out); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Overlay saved to %s (%dx%d)", *output, w, h)
}

// flatView is a non-wrapping MapView over a plain image: one world, the
// viewport covering all of it.
type flatView struct {
	width, height int
}

func (v *flatView) Size() (int, int) { return v.width, v.height }

func (v *flatView) ProjectionExtent() wand.Extent {
	return wand.Extent{MinX: 0, MinY: 0, MaxX: float64(v.width), MaxY: float64(v.height)}
}

func (v *flatView) PixelFromCoordinate(c wand.Coordinate) (float64, float64) {
	return c.X, float64(v.height) - c.Y
}

// immediateSource signals render completion immediately: a static image
// has no render lifecycle to wait for.
type immediateSource struct{}

func (immediateSource) RenderComplete() <-chan struct{} { return closedChan() }
func (immediateSource) PostRender() <-chan struct{}     { return closedChan() }

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type imageLayer struct {
	img *image.RGBA
}

func (l *imageLayer) Image() *image.RGBA { return l.img }

func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
