package terrain

import (
	"testing"

	"github.com/astei/isomap/nbt"
)

// packPost116 packs indices (4096 of them, in the section's x+z*16+y*256
// order) with no index crossing a 64-bit word boundary, per spec.md
// §4.5's POST116 rule.
func packPost116(indices []int, bits int) []int64 {
	blocksPerLong := 64 / bits
	wordCount := (len(indices) + blocksPerLong - 1) / blocksPerLong
	words := make([]uint64, wordCount)
	for i, v := range indices {
		longIndex := i / blocksPerLong
		shift := (i - longIndex*blocksPerLong) * bits
		words[longIndex] |= uint64(v) << uint(shift)
	}
	out := make([]int64, len(words))
	for i, w := range words {
		out[i] = int64(w)
	}
	return out
}

// packPre116 packs indices end-to-end with no padding, per spec.md
// §4.5's PRE116 rule: an index may straddle a word boundary.
func packPre116(indices []int, bits int) []int64 {
	totalBits := len(indices) * bits
	wordCount := (totalBits + 63) / 64
	words := make([]uint64, wordCount)
	for i, v := range indices {
		bitPos := i * bits
		longIndex := bitPos / 64
		shift := uint(bitPos % 64)
		words[longIndex] |= uint64(v) << shift
		overflow := int(shift) + bits - 64
		if overflow > 0 {
			words[longIndex+1] |= uint64(v) >> uint(bits-overflow)
		}
	}
	out := make([]int64, len(words))
	for i, w := range words {
		out[i] = int64(w)
	}
	return out
}

func paletteOfNames(names ...string) nbt.Value {
	entries := make([]nbt.Value, len(names))
	for i, n := range names {
		entries[i] = nbt.Compound([]nbt.CompoundEntry{{Name: "Name", Value: nbt.String(n)}})
	}
	return nbt.List(nbt.TagCompound, entries)
}

func sectionNBT(y int8, palette nbt.Value, words []int64) nbt.Value {
	return nbt.Compound([]nbt.CompoundEntry{
		{Name: "Y", Value: nbt.Byte(y)},
		{Name: "Palette", Value: palette},
		{Name: "BlockStates", Value: nbt.LongArray(words)},
	})
}

func namesFor(paletteLen int) []string {
	names := make([]string, paletteLen)
	for i := range names {
		names[i] = "minecraft:block_" + string(rune('a'+i%26))
	}
	return names
}

// TestBitPackingLawsAgree covers the bit-packing-laws property from
// spec.md §8: for the listed palette sizes, PRE116 and POST116 encodings
// of the same logical content decode to the same palette name at every
// index.
func TestBitPackingLawsAgree(t *testing.T) {
	for _, paletteLen := range []int{2, 5, 17, 33, 257} {
		paletteLen := paletteLen
		t.Run("", func(t *testing.T) {
			names := namesFor(paletteLen)
			palette := paletteOfNames(names...)

			indices := make([]int, 4096)
			for i := range indices {
				indices[i] = i % paletteLen
			}

			bits := bitsPerIndex(paletteLen)
			pre := sectionNBT(0, palette, packPre116(indices, bits))
			post := sectionNBT(0, palette, packPost116(indices, bits))

			preSection := Section{NBT: pre, Kind: SectionPre116}
			postSection := Section{NBT: post, Kind: SectionPost116}

			for i := 0; i < 4096; i++ {
				x := i & 15
				z := (i >> 4) & 15
				y := (i >> 8) & 15

				wantName := names[indices[i]]
				gotPre := blockInSection(preSection, x, y, z).Child("Name").AsString()
				gotPost := blockInSection(postSection, x, y, z).Child("Name").AsString()

				if gotPre != wantName {
					t.Fatalf("PRE116 palette=%d idx=%d (%d,%d,%d): got %q want %q", paletteLen, i, x, y, z, gotPre, wantName)
				}
				if gotPost != wantName {
					t.Fatalf("POST116 palette=%d idx=%d (%d,%d,%d): got %q want %q", paletteLen, i, x, y, z, gotPost, wantName)
				}
			}
		})
	}
}

// TestPaletteDispatchSoundnessSingleEntry covers the palette dispatch
// soundness property: a palette of size 1 must resolve every query to
// that sole entry, regardless of BlockStates contents (all indices are
// implicitly 0).
func TestPaletteDispatchSoundnessSingleEntry(t *testing.T) {
	palette := paletteOfNames("minecraft:stone")
	section := Section{NBT: sectionNBT(0, palette, nil), Kind: SectionPost116}

	for _, coord := range [][3]int{{0, 0, 0}, {15, 15, 15}, {3, 9, 12}} {
		got := blockInSection(section, coord[0], coord[1], coord[2]).Child("Name").AsString()
		if got != "minecraft:stone" {
			t.Errorf("at %v: got %q, want minecraft:stone", coord, got)
		}
	}
}

func TestEmptySectionReturnsAir(t *testing.T) {
	got := blockInSection(emptySection, 0, 0, 0)
	if !got.IsEnd() {
		t.Errorf("expected AIR for an empty section")
	}
}

func TestOutOfRangeResultReturnsAir(t *testing.T) {
	palette := paletteOfNames("minecraft:air", "minecraft:stone")
	// 256 words of all-1 bits: every 4-bit index decodes to 15, which is
	// out of range for a 2-entry palette.
	words := make([]int64, 256)
	for i := range words {
		words[i] = -1
	}
	section := Section{NBT: sectionNBT(0, palette, words), Kind: SectionPost116}
	got := blockInSection(section, 15, 15, 15)
	if !got.IsEnd() {
		t.Errorf("expected AIR for an out-of-range palette index, got %q", got.Child("Name").AsString())
	}
}
