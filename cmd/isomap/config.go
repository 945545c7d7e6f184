package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/astei/isomap/isomap"
	"github.com/astei/isomap/terrain"
)

// ErrConfiguration is spec.md §7's Configuration error kind: an empty
// path, inverted rect, or inverted Y range, all fatal before any
// decoding begins.
var ErrConfiguration = errors.New("configuration")

// Config is the parsed CLI surface of spec.md §6.4.
type Config struct {
	WorldPath   string
	Rect        terrain.Rect
	MinY, MaxY  int
	OffsetY     int
	Orientation isomap.Orientation
	OutFile     string
	ShowHelp    bool
}

// parseArgs walks args in the manual, argv-style loop
// original_source/main.cpp's parseArgs uses (rather than urfave/cli's
// declarative flag Value binding, which has no good shape for a
// two-value option like "-from X Z"). Unknown, non-flag arguments are
// treated as the world path per spec.md §6.4's closing sentence.
func parseArgs(args []string) (*Config, error) {
	cfg := &Config{
		MinY:        0,
		MaxY:        255,
		OffsetY:     3,
		Orientation: isomap.NW,
		OutFile:     "map.png",
	}

	var fromX, fromZ int
	var toXExclusive, toZExclusive int
	haveFrom, haveTo := false, false

	i := 0
	for i < len(args) {
		arg := args[i]
		switch arg {
		case "-from":
			x, z, err := twoInts(args, i)
			if err != nil {
				return nil, err
			}
			fromX, fromZ = x, z
			haveFrom = true
			i += 3
		case "-to":
			x, z, err := twoInts(args, i)
			if err != nil {
				return nil, err
			}
			// User input is inclusive; internal representation is
			// exclusive-upper until Rect construction below undoes it
			// (SPEC_FULL.md §12.2).
			toXExclusive, toZExclusive = x+1, z+1
			haveTo = true
			i += 3
		case "-min":
			v, err := oneInt(args, i)
			if err != nil {
				return nil, err
			}
			cfg.MinY = v
			i += 2
		case "-max":
			v, err := oneInt(args, i)
			if err != nil {
				return nil, err
			}
			cfg.MaxY = v
			i += 2
		case "-file":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%w: -file needs a path", ErrConfiguration)
			}
			cfg.OutFile = args[i+1]
			i += 2
		case "-nw", "-ne", "-se", "-sw":
			o, _ := isomap.ParseOrientation(arg[1:])
			cfg.Orientation = o
			i++
		case "-3":
			// Documented no-op alias (SPEC_FULL.md §12.1): OffsetY is
			// already 3 by default.
			cfg.OffsetY = 3
			i++
		case "-h", "-help":
			cfg.ShowHelp = true
			i++
		default:
			cfg.WorldPath = arg
			i++
		}
	}

	if cfg.ShowHelp {
		return cfg, nil
	}
	if cfg.WorldPath == "" {
		return nil, fmt.Errorf("%w: no world path given", ErrConfiguration)
	}
	if !haveFrom || !haveTo {
		return nil, fmt.Errorf("%w: -from and -to are both required", ErrConfiguration)
	}

	maxX := toXExclusive - 1
	maxZ := toZExclusive - 1
	if maxX < fromX || maxZ < fromZ {
		return nil, fmt.Errorf("%w: -to must not precede -from", ErrConfiguration)
	}
	// original_source/main.cpp requires mapMaxY - mapMinY >= 1: a
	// zero-height range has nothing to render, not just an inverted one.
	if cfg.MaxY-cfg.MinY < 1 {
		return nil, fmt.Errorf("%w: -max must be greater than -min", ErrConfiguration)
	}

	cfg.Rect = terrain.Rect{MinX: fromX, MaxX: maxX, MinZ: fromZ, MaxZ: maxZ}
	return cfg, nil
}

func twoInts(args []string, at int) (a, b int, err error) {
	if at+2 >= len(args) {
		return 0, 0, fmt.Errorf("%w: %s needs two coordinates", ErrConfiguration, args[at])
	}
	a, err1 := strconv.Atoi(args[at+1])
	b, err2 := strconv.Atoi(args[at+2])
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("%w: %s needs two integer coordinates", ErrConfiguration, args[at])
	}
	return a, b, nil
}

func oneInt(args []string, at int) (int, error) {
	if at+1 >= len(args) {
		return 0, fmt.Errorf("%w: %s needs a value", ErrConfiguration, args[at])
	}
	v, err := strconv.Atoi(args[at+1])
	if err != nil {
		return 0, fmt.Errorf("%w: %s needs an integer value", ErrConfiguration, args[at])
	}
	return v, nil
}
