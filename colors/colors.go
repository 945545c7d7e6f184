// Package colors implements the color-loader collaborator of spec.md
// §6.6: it is out of the core's scope, but isomap still needs a
// concrete implementation to exercise the renderer end-to-end. The
// on-disk format is YAML, matching the rest of the example pack's own
// config/table loaders (gopkg.in/yaml.v3).
package colors

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RGB is one block's base color. It carries no per-face shading data;
// the sink's shade parameter darkens the whole color uniformly.
type RGB struct {
	R, G, B uint8
}

// entry is the on-disk shape of one color table row.
type entry struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// ColorMap maps a palette block Name to its RGB color. Names absent
// from the table resolve to Fallback, never an error: a renderer should
// never abort a render because one block's name is unrecognized.
type ColorMap struct {
	byName   map[string]RGB
	Fallback RGB
}

// defaultTable is deliberately small: it is a stand-in sufficient to
// exercise isomap end-to-end, not a faithful reproduction of the real
// (externally maintained) vanilla block color table (SPEC_FULL.md
// §12.5).
const defaultTable = `
minecraft:air: {r: 255, g: 255, b: 255}
minecraft:stone: {r: 125, g: 125, b: 125}
minecraft:dirt: {r: 134, g: 96, b: 67}
minecraft:grass_block: {r: 92, g: 153, b: 62}
minecraft:water: {r: 63, g: 90, b: 191}
minecraft:oak_log: {r: 102, g: 81, b: 51}
minecraft:oak_leaves: {r: 56, g: 95, b: 31}
minecraft:sand: {r: 219, g: 207, b: 163}
`

// Load reads a YAML color table from path, or returns the built-in
// default table when path is empty. A failure to read or parse an
// explicitly requested path is fatal (spec.md §7's ColorLoadFailed).
func Load(path string) (*ColorMap, error) {
	if path == "" {
		return parseTable([]byte(defaultTable))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("colors: %w", err)
	}
	return parseTable(data)
}

func parseTable(data []byte) (*ColorMap, error) {
	var raw map[string]entry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("colors: invalid table: %w", err)
	}
	cm := &ColorMap{
		byName:   make(map[string]RGB, len(raw)),
		Fallback: RGB{R: 200, G: 0, B: 200},
	}
	for name, e := range raw {
		cm.byName[name] = RGB{R: e.R, G: e.G, B: e.B}
	}
	return cm, nil
}

// Lookup returns name's color, or Fallback if name is not in the table.
func (c *ColorMap) Lookup(name string) RGB {
	if rgb, ok := c.byName[name]; ok {
		return rgb
	}
	return c.Fallback
}

// ResolveNeeded restricts the lookup surface to exactly the palette
// names observed while decoding (spec.md §4.4's paletteCache purpose):
// callers that only want colors for blocks actually present in the
// render can use this to build a smaller, render-specific map rather
// than walking the full table.
func (c *ColorMap) ResolveNeeded(names []string) map[string]RGB {
	out := make(map[string]RGB, len(names))
	for _, n := range names {
		out[n] = c.Lookup(n)
	}
	return out
}
