// Package imagesink is a concrete isomap.Sink backed by the standard
// library's image/png, grounded on the other_examples/ pack's own
// gzip-nbt-to-png converter (njhanley-mcmapconv), which drives the same
// os.Create/png.Encode/defer-close shape this package uses.
//
// image/png is standard library rather than a third-party codec: the
// example pack never imports a third-party PNG encoder anywhere, so
// there is nothing in the corpus to ground a substitute on.
package imagesink

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/astei/isomap/colors"
	"github.com/astei/isomap/nbt"
)

// PNGSink writes every pixel the Renderer addresses into an in-memory
// RGBA bitmap, then flushes it to path on SaveImage. It never splits
// the image across files: spec.md §9 calls the legacy memory-limit
// split mode out of scope for this rebuild (SPEC_FULL.md §13).
type PNGSink struct {
	path   string
	colors *colors.ColorMap
	img    *image.RGBA
}

// New builds a PNGSink that writes to path using table for block-name
// to color resolution. table may be nil, in which case SetPixel paints
// a fixed fallback gray rather than panicking.
func New(path string, table *colors.ColorMap) *PNGSink {
	return &PNGSink{path: path, colors: table}
}

// CreateImage allocates the backing bitmap. split is rejected outright:
// this sink never implements split-file output.
func (s *PNGSink) CreateImage(width, height int, split bool) bool {
	if split {
		return false
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return true
}

// SetPixel resolves block's Name child to a color and paints it at
// (x, y), darkened by shade eighths (shade 0 leaves the color
// unchanged, matching the convention Render's shade parameter reserves
// for future face-shading work). Coordinates outside the allocated
// bitmap are ignored, not an error: the renderer's traversal math can
// legitimately produce an off-canvas bmpPosY near MinY/MaxY bounds.
func (s *PNGSink) SetPixel(x, y int, block *nbt.Value, shade uint8) {
	if s.img == nil || !(image.Point{X: x, Y: y}.In(s.img.Bounds())) {
		return
	}
	name := block.Child("Name").AsString()
	var rgb colors.RGB
	if s.colors != nil {
		rgb = s.colors.Lookup(name)
	} else {
		rgb = colors.RGB{R: 160, G: 160, B: 160}
	}
	s.img.Set(x, y, shadeColor(rgb, shade))
}

// shadeColor darkens rgb by shade eighths, clamped at black.
func shadeColor(rgb colors.RGB, shade uint8) color.RGBA {
	if shade == 0 {
		return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
	}
	factor := 1.0 - float64(shade)/8.0
	if factor < 0 {
		factor = 0
	}
	return color.RGBA{
		R: uint8(float64(rgb.R) * factor),
		G: uint8(float64(rgb.G) * factor),
		B: uint8(float64(rgb.B) * factor),
		A: 255,
	}
}

// SaveImage encodes the bitmap as PNG to the configured path.
func (s *PNGSink) SaveImage() error {
	if s.img == nil {
		return fmt.Errorf("imagesink: SaveImage called before CreateImage")
	}
	out, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("imagesink: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, s.img); err != nil {
		return fmt.Errorf("imagesink: %w", err)
	}
	return nil
}
