// Package terrain implements the Chunk Decoder, Terrain Store and Block
// Accessor of spec.md §4.3-§4.5: it turns region payloads into a dense
// 3D block lattice addressable by absolute world coordinates.
package terrain

// Rect is an inclusive rectangle of world-block coordinates, spec.md §3.
type Rect struct {
	MinX, MaxX int
	MinZ, MaxZ int
}

// WidthBlocks returns the inclusive block extent along X.
func (r Rect) WidthBlocks() int { return r.MaxX - r.MinX + 1 }

// DepthBlocks returns the inclusive block extent along Z.
func (r Rect) DepthBlocks() int { return r.MaxZ - r.MinZ + 1 }

// Chunk converts a block coordinate to its chunk coordinate (block >> 4,
// arithmetic shift so negative coordinates floor correctly).
func Chunk(block int) int { return block >> 4 }

// RegionOf converts a chunk coordinate to its region coordinate
// (chunk >> 5).
func RegionOf(chunk int) int { return chunk >> 5 }

// chunkRect is the rectangle's extent in chunk coordinates.
func (r Rect) chunkRect() (minCX, maxCX, minCZ, maxCZ int) {
	return Chunk(r.MinX), Chunk(r.MaxX), Chunk(r.MinZ), Chunk(r.MaxZ)
}

// WidthChunks and DepthChunks are the store's row/column counts.
func (r Rect) WidthChunks() int {
	minCX, maxCX, _, _ := r.chunkRect()
	return maxCX - minCX + 1
}

func (r Rect) DepthChunks() int {
	_, _, minCZ, maxCZ := r.chunkRect()
	return maxCZ - minCZ + 1
}
