package terrain

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/astei/isomap/internal/logx"
	"github.com/astei/isomap/nbt"
	"github.com/astei/isomap/region"
)

// chunkSlot holds one chunk's normalized sections plus its per-column
// height bounds, addressed densely by the Store's row-major index.
type chunkSlot struct {
	sections   []Section
	topSlab    uint8
	bottomSlab uint8
}

// heightByte packs (topSlab<<4)|bottomSlab, both in [0,15] — see
// SPEC_FULL.md §12.3 for why these are slab indices, not the source's
// lossy block-height nibble.
func heightByte(top, bottom uint8) byte {
	return (top << 4) | (bottom & 0xf)
}

// Store is the Terrain Store of spec.md §4.4: a dense 2D array of
// per-chunk section vectors over a Rect, plus per-chunk height bytes
// and the palette-name cache an external color loader consumes.
type Store struct {
	rect         Rect
	widthChunks  int
	depthChunks  int
	chunks       []chunkSlot
	heightBounds byte // (globalTopSlab<<4)|globalBottomSlab; Load only raises the top nibble
	paletteCache map[string]struct{}
	loaded       *loadedMask
}

// NewStore allocates an empty store for rect; Load populates it.
func NewStore(rect Rect) *Store {
	w := rect.WidthChunks()
	d := rect.DepthChunks()
	return &Store{
		rect:         rect,
		widthChunks:  w,
		depthChunks:  d,
		chunks:       make([]chunkSlot, w*d),
		heightBounds: 0,
		paletteCache: make(map[string]struct{}),
		loaded:       newLoadedMask(w * d),
	}
}

func (s *Store) chunkIndex(chunkX, chunkZ int) (int, bool) {
	minCX, _, minCZ, _ := s.rect.chunkRect()
	cx := chunkX - minCX
	cz := chunkZ - minCZ
	if cx < 0 || cx >= s.widthChunks || cz < 0 || cz >= s.depthChunks {
		return 0, false
	}
	return cx + cz*s.widthChunks, true
}

// Load opens every region file that can contain a chunk inside rect and
// decodes all in-bounds chunks into the store, per spec.md §4.4. Missing
// region files are logged and skipped, never fatal (spec.md §7).
func (s *Store) Load(regionDir string) {
	minCX, maxCX, minCZ, maxCZ := s.rect.chunkRect()
	minRX, maxRX := RegionOf(minCX), RegionOf(maxCX)
	minRZ, maxRZ := RegionOf(minCZ), RegionOf(maxCZ)

	for rx := minRX; rx <= maxRX; rx++ {
		for rz := minRZ; rz <= maxRZ; rz++ {
			s.loadRegion(regionDir, rx, rz)
		}
	}
	logx.Infof("loaded %d/%d chunks in range", s.loaded.count(), len(s.chunks))
}

func (s *Store) loadRegion(regionDir string, rx, rz int) {
	path := filepath.Join(regionDir, fmt.Sprintf("r.%d.%d.mca", rx, rz))
	reader, err := region.Open(path, rx, rz)
	if err != nil {
		logx.Warnf("region r.%d.%d.mca missing or unreadable, skipping: %v", rx, rz, err)
		return
	}
	defer reader.Close()

	reader.ForEachChunk(func(chunkX, chunkZ int, payload []byte) {
		idx, ok := s.chunkIndex(chunkX, chunkZ)
		if !ok {
			return
		}
		s.decodeAndStore(idx, chunkX, chunkZ, payload)
	})
}

func (s *Store) decodeAndStore(idx, chunkX, chunkZ int, payload []byte) {
	root, err := nbt.NewDecoder(bytes.NewReader(payload)).Decode()
	if err != nil {
		logx.Warnf("chunk (%d,%d): NBT parse failed, skipping: %v", chunkX, chunkZ, err)
		return
	}

	level := root.Child("Level")
	sectionsNode := level.Child("Sections")
	if sectionsNode.IsEnd() {
		// Some chunk formats nest sections directly at the root.
		sectionsNode = root.Child("sections")
	}

	decoded := decodeChunkSections(sectionsNode.AsList())
	if decoded.saturated {
		logx.Warnf("chunk (%d,%d): section Y index saturated to [0,15]", chunkX, chunkZ)
	}

	for _, name := range decoded.paletteNames {
		s.paletteCache[name] = struct{}{}
	}

	// decodeAndStore either lands the full normalized vector or nothing:
	// no partial state is ever visible at idx (spec.md §7 invariant).
	s.chunks[idx] = chunkSlot{
		sections:   decoded.sections,
		topSlab:    decoded.topSlab,
		bottomSlab: decoded.bottomSlab,
	}
	s.loaded.set(idx)

	if decoded.topSlab > s.heightBounds>>4 {
		s.heightBounds = heightByte(decoded.topSlab, s.heightBounds&0xf)
	}
}

// Block returns the palette compound at absolute (x, y, z), or AIR if
// the column is unloaded, the section is a hole, or y is out of the
// lattice entirely.
func (s *Store) Block(x, y, z int) *nbt.Value {
	idx, ok := s.chunkIndex(Chunk(x), Chunk(z))
	if !ok {
		return &nbt.AIR
	}
	slot := s.chunks[idx]
	si := y >> 4
	if si < 0 || si >= len(slot.sections) {
		return &nbt.AIR
	}
	return blockInSection(slot.sections[si], x, y, z)
}

// MaxHeight returns the global top bound in block coordinates (a
// multiple of 16).
func (s *Store) MaxHeight() int { return int(s.heightBounds>>4) * 16 }

// MinHeight returns the global bottom bound in block coordinates (a
// multiple of 16). Load never updates the bottom nibble, so this is 0.
func (s *Store) MinHeight() int { return int(s.heightBounds&0xf) * 16 }

// MaxHeightAt returns column (x,z)'s top bound in block coordinates.
func (s *Store) MaxHeightAt(x, z int) int {
	idx, ok := s.chunkIndex(Chunk(x), Chunk(z))
	if !ok {
		return 0
	}
	return int(s.chunks[idx].topSlab) * 16
}

// MinHeightAt returns column (x,z)'s bottom bound in block coordinates.
func (s *Store) MinHeightAt(x, z int) int {
	idx, ok := s.chunkIndex(Chunk(x), Chunk(z))
	if !ok {
		return 0
	}
	return int(s.chunks[idx].bottomSlab) * 16
}

// Loaded reports whether chunk (chunkX, chunkZ) was successfully decoded
// into the store (SPEC_FULL.md §12.4 diagnostic addition).
func (s *Store) Loaded(chunkX, chunkZ int) bool {
	idx, ok := s.chunkIndex(chunkX, chunkZ)
	if !ok {
		return false
	}
	return s.loaded.test(idx)
}

// PaletteNames returns every palette block name observed while loading,
// for the external color loader to resolve (spec.md §4.4, §6.6).
func (s *Store) PaletteNames() []string {
	names := make([]string, 0, len(s.paletteCache))
	for n := range s.paletteCache {
		names = append(names, n)
	}
	return names
}

// Rect returns the rectangle the store was loaded for.
func (s *Store) Rect() Rect { return s.rect }
