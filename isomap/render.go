package isomap

import (
	"github.com/astei/isomap/nbt"
	"github.com/astei/isomap/terrain"
)

// Sink is the external image-sink collaborator of spec.md §6.5. isomap
// only calls it; allocation, pixel format, and file writing are the
// sink's concern.
type Sink interface {
	// CreateImage allocates a width x height bitmap. split is the
	// legacy memory-limit image-splitting flag (spec.md §9); the CLI
	// always passes false, and no memory limit is checked anywhere.
	CreateImage(width, height int, split bool) bool
	// SetPixel writes one block-shaded pixel. Out-of-bounds coordinates
	// are silently ignored by the sink, not by the renderer.
	SetPixel(x, y int, block *nbt.Value, shade uint8)
	// SaveImage flushes the bitmap to its backing file handle.
	SaveImage() error
}

// BlockSource is the subset of terrain.Store's accessors the Renderer
// needs; *terrain.Store satisfies it directly. Declared as an interface
// here (rather than taking *terrain.Store concretely) so renderer tests
// can exercise the traversal order against a minimal fake instead of a
// fully decoded region file.
type BlockSource interface {
	Block(x, y, z int) *nbt.Value
	MaxHeightAt(x, z int) int
}

// Renderer walks a Terrain Store in the isometric front-to-back order
// spec.md §4.7 requires and feeds every visited block to a Sink.
type Renderer struct {
	OffsetY int
}

// NewRenderer builds a Renderer with the given vertical pixel stride
// per block (spec.md §6.4's -3 flag / default 3).
func NewRenderer(offsetY int) *Renderer {
	if offsetY < 1 {
		offsetY = 1
	}
	return &Renderer{OffsetY: offsetY}
}

// Render walks canvas over store within rect, in outer-x/inner-z/
// innermost-ascending-y order, and calls sink.SetPixel for every block
// from canvas.MinY up to (but excluding) each column's clamped top.
//
// The traversal order is the entire correctness argument for overdraw
// freedom (spec.md §8): a block drawn later in this order is always
// the same bmpPosX/bmpPosY as, or strictly in front of, everything
// drawn before it for that screen position.
func (r *Renderer) Render(store BlockSource, rect terrain.Rect, canvas Canvas, imageHeight int, sink Sink) {
	for x := 0; x <= canvas.SizeX; x++ {
		for z := 0; z <= canvas.SizeZ; z++ {
			bmpPosX := 2*canvas.SizeZ + (x-z)*2

			worldX, worldZ := WorldCoords(x, z, rect, canvas.Orientation)

			top := store.MaxHeightAt(worldX, worldZ)
			if top > canvas.MaxY {
				top = canvas.MaxY
			}

			for y := canvas.MinY; y < top; y++ {
				bmpPosY := imageHeight - 4 + x + z - canvas.SizeX - canvas.SizeZ - y*r.OffsetY
				block := store.Block(worldX, y, worldZ)
				sink.SetPixel(bmpPosX, bmpPosY, block, 0)
			}
		}
	}
}
