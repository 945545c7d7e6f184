package terrain

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/astei/isomap/nbt"
)

const slotsPerRegionTest = 1024
const sectorSizeTest = 4096

// writeSyntheticRegion is a minimal standalone .mca writer, duplicated
// from region's own test helper rather than exported across packages,
// since terrain must stay decoupled from region's test internals.
func writeSyntheticRegion(t *testing.T, path string, chunks map[[2]int][]byte) {
	t.Helper()

	var offsets [slotsPerRegionTest]uint32
	var body bytes.Buffer
	sector := uint32(2)

	for slot, raw := range chunks {
		local := slot[0] + slot[1]*32

		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		zw.Write(raw)
		zw.Close()

		var payload bytes.Buffer
		var header [5]byte
		binary.BigEndian.PutUint32(header[:4], uint32(compressed.Len()))
		header[4] = 2
		payload.Write(header[:])
		payload.Write(compressed.Bytes())

		sectorsUsed := uint32((payload.Len() + sectorSizeTest - 1) / sectorSizeTest)
		offsets[local] = (sector << 8) | (sectorsUsed & 0xff)

		padded := make([]byte, sectorsUsed*sectorSizeTest)
		copy(padded, payload.Bytes())
		body.Write(padded)
		sector += sectorsUsed
	}

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, offsets)
	out.Write(make([]byte, sectorSizeTest))
	out.Write(body.Bytes())

	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("write region: %v", err)
	}
}

// chunkWithSingleBlock builds one-section chunk NBT with a two-entry
// palette [air, stone] and exactly one stone block at local (lx,ly,lz).
func chunkWithSingleBlock(t *testing.T, lx, ly, lz int) []byte {
	t.Helper()
	indices := make([]int, 4096)
	idx := lx + (lz+ly*16)*16
	indices[idx] = 1

	palette := paletteOfNames("minecraft:air", "minecraft:stone")
	bits := bitsPerIndex(2)
	section := sectionNBT(0, palette, packPost116(indices, bits))

	root := nbt.Compound([]nbt.CompoundEntry{
		{Name: "Level", Value: nbt.Compound([]nbt.CompoundEntry{
			{Name: "Sections", Value: nbt.List(nbt.TagCompound, []nbt.Value{section})},
		})},
	})

	var buf bytes.Buffer
	if err := nbt.NewEncoder(&buf).Encode(root); err != nil {
		t.Fatalf("encode chunk: %v", err)
	}
	return buf.Bytes()
}

func TestChunkIndexRoundTrip(t *testing.T) {
	rect := Rect{MinX: -5, MaxX: 20, MinZ: 3, MaxZ: 40}
	s := NewStore(rect)

	minCX, maxCX, minCZ, maxCZ := rect.chunkRect()
	seen := map[int]bool{}
	for cx := minCX; cx <= maxCX; cx++ {
		for cz := minCZ; cz <= maxCZ; cz++ {
			idx, ok := s.chunkIndex(cx, cz)
			if !ok {
				t.Fatalf("chunkIndex(%d,%d) not ok, expected in bounds", cx, cz)
			}
			if idx < 0 || idx >= len(s.chunks) {
				t.Fatalf("chunkIndex(%d,%d) = %d out of [0,%d)", cx, cz, idx, len(s.chunks))
			}
			if seen[idx] {
				t.Fatalf("chunkIndex(%d,%d) = %d collides with another chunk", cx, cz, idx)
			}
			seen[idx] = true
		}
	}
}

// TestSingleChunkSingleSolidBlock covers scenario 2 from spec.md §8.
func TestSingleChunkSingleSolidBlock(t *testing.T) {
	dir := t.TempDir()
	writeSyntheticRegion(t, filepath.Join(dir, "r.0.0.mca"), map[[2]int][]byte{
		{0, 0}: chunkWithSingleBlock(t, 0, 0, 0),
	})

	rect := Rect{MinX: 0, MaxX: 15, MinZ: 0, MaxZ: 15}
	s := NewStore(rect)
	s.Load(dir)

	if !s.Loaded(0, 0) {
		t.Fatalf("expected chunk (0,0) to be loaded")
	}

	found := 0
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			for z := 0; z < 16; z++ {
				b := s.Block(x, y, z)
				if b.IsEnd() {
					continue
				}
				if b.Child("Name").AsString() == "minecraft:stone" {
					found++
					if x != 0 || y != 0 || z != 0 {
						t.Errorf("unexpected stone at (%d,%d,%d)", x, y, z)
					}
				}
			}
		}
	}
	if found != 1 {
		t.Errorf("found %d stone blocks, want exactly 1", found)
	}
}

// TestRegionMissingTolerance covers scenario 6: a rect spanning three
// regions where the middle one is absent leaves its chunks unloaded
// (AIR) while the chunks of the flanking regions still load.
func TestRegionMissingTolerance(t *testing.T) {
	dir := t.TempDir()
	// Region (0,0) covers chunks x in [0,31]; region (1,0) covers [32,63];
	// region (2,0) covers [64,95]. Only regions 0 and 2 are written.
	writeSyntheticRegion(t, filepath.Join(dir, "r.0.0.mca"), map[[2]int][]byte{
		{0, 0}: chunkWithSingleBlock(t, 1, 1, 1),
	})
	writeSyntheticRegion(t, filepath.Join(dir, "r.2.0.mca"), map[[2]int][]byte{
		{0, 0}: chunkWithSingleBlock(t, 2, 2, 2), // chunk (64,0) in world chunk coords
	})
	// r.1.0.mca intentionally not written.

	rect := Rect{MinX: 0, MaxX: 95 * 16 + 15, MinZ: 0, MaxZ: 15}
	s := NewStore(rect)
	s.Load(dir)

	if !s.Loaded(0, 0) {
		t.Errorf("expected chunk (0,0) from region (0,0) to be loaded")
	}
	if !s.Loaded(64, 0) {
		t.Errorf("expected chunk (64,0) from region (2,0) to be loaded")
	}
	if s.Loaded(32, 0) {
		t.Errorf("chunk (32,0) should be unloaded: its region file does not exist")
	}

	b := s.Block(32*16, 1, 1)
	if !b.IsEnd() {
		t.Errorf("expected AIR in the missing middle region, got %q", b.Child("Name").AsString())
	}
}
