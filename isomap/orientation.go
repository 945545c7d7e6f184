// Package isomap implements the Oriented Map, Canvas and Isometric
// Renderer of spec.md §4.6-§4.7: it walks a Terrain Store in the
// overdraw-safe order an isometric projection requires and hands each
// column's blocks to an external image sink.
package isomap

import "github.com/astei/isomap/terrain"

// Orientation selects which world corner canvas (0,0) corresponds to,
// per spec.md §3/§4.6.
type Orientation int

const (
	NW Orientation = iota
	NE
	SE
	SW
)

// ParseOrientation maps a CLI flag name ("nw", "ne", "se", "sw") to an
// Orientation. ok is false for an unrecognized name.
func ParseOrientation(name string) (Orientation, bool) {
	switch name {
	case "nw":
		return NW, true
	case "ne":
		return NE, true
	case "se":
		return SE, true
	case "sw":
		return SW, true
	default:
		return NW, false
	}
}

// vectors returns the unit step (vx, vz) for the orientation, per the
// table in spec.md §4.6.
func (o Orientation) vectors() (vx, vz int) {
	switch o {
	case NW:
		return 1, 1
	case SE:
		return -1, -1
	case NE:
		return 1, -1
	case SW:
		return -1, 1
	default:
		return 1, 1
	}
}

// axesSwapped reports whether canvas X/Z map to swapped world X/Z, true
// for NE and SW per spec.md §4.6.
func (o Orientation) axesSwapped() bool {
	return o == NE || o == SW
}

// WorldCoords is a pure function of (canvasX, canvasZ, orientation): no
// loop-variable mutation, unlike the swap-and-swap-back the original
// source used (spec.md §9's "open question" about that fragility).
// Canvas (0,0) maps to the rect corner the step vectors start from
// (MaxX/MaxZ for a negative step), so every canvas position lands
// inside rect.
func WorldCoords(canvasX, canvasZ int, rect terrain.Rect, o Orientation) (worldX, worldZ int) {
	vx, vz := o.vectors()
	baseX, baseZ := rect.MinX, rect.MinZ
	if vx < 0 {
		baseX = rect.MaxX
	}
	if vz < 0 {
		baseZ = rect.MaxZ
	}
	if o.axesSwapped() {
		return baseX + canvasZ*vx, baseZ + canvasX*vz
	}
	return baseX + canvasX*vx, baseZ + canvasZ*vz
}
