package isomap

import "github.com/astei/isomap/terrain"

// Canvas is the virtual isometric grid the Renderer walks. SizeX/SizeZ
// follow the original source's runtime convention of (extent - 1) so
// that "for x in [0, SizeX]" (inclusive both ends, as spec.md §4.7's
// traversal states) visits exactly rect.WidthBlocks() columns; spec.md
// §4.6's prose ("sizeX = rect.width_blocks") is reconciled with §4.7's
// inclusive loop bounds by this off-by-one, resolved against
// original_source/main.cpp's IsometricCanvas rather than guessed.
type Canvas struct {
	SizeX, SizeZ int
	MinY, MaxY   int
	Orientation  Orientation
}

// NewCanvas builds the canvas for rect at the given orientation and
// vertical range, swapping SizeX/SizeZ for NE/SW per spec.md §4.6.
func NewCanvas(rect terrain.Rect, o Orientation, minY, maxY int) Canvas {
	sizeX := rect.MaxX - rect.MinX
	sizeZ := rect.MaxZ - rect.MinZ
	if o.axesSwapped() {
		sizeX, sizeZ = sizeZ, sizeX
	}
	return Canvas{SizeX: sizeX, SizeZ: sizeZ, MinY: minY, MaxY: maxY, Orientation: o}
}

// ImageSize computes the bitmap dimensions needed to hold every pixel
// the Renderer will address, derived from the bmpPosX/bmpPosY formulas
// in spec.md §4.7 rather than from the (unavailable) original image
// allocator. Both dimensions are floored at 4, matching the "create_image
// is called with width >= 4 and height >= 4" testable property for an
// empty rect.
func (c Canvas) ImageSize(offsetY int) (width, height int) {
	width = 2*(c.SizeX+c.SizeZ) + 1
	height = 4 + c.SizeX + c.SizeZ + c.MaxY*offsetY
	if width < 4 {
		width = 4
	}
	if height < 4 {
		height = 4
	}
	return width, height
}
