package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/astei/isomap/colors"
	"github.com/astei/isomap/imagesink"
	"github.com/astei/isomap/internal/logx"
	"github.com/astei/isomap/isomap"
	"github.com/astei/isomap/terrain"
)

func main() {
	app := &cli.App{
		Name:  "isomap",
		Usage: "renders an isometric map of a Minecraft Anvil world",
		UsageText: "isomap [options] <world path>\n\n" +
			"   -from X Z          inclusive lower world-block corner\n" +
			"   -to X Z            inclusive upper world-block corner\n" +
			"   -min V / -max V    vertical block range, 0..255\n" +
			"   -file NAME         output PNG path (default map.png)\n" +
			"   -nw/-ne/-se/-sw    orientation (default -nw)\n" +
			"   -3                 set offsetY = 3 (default already)\n" +
			"   -h/-help           show this help",
		// parseArgs walks the raw argv itself (see config.go): the stdlib
		// flag package cli/v2 would otherwise route args through has no
		// way to parse a two-value option like "-from X Z", and aborts on
		// the first "-from" it doesn't recognize as a registered flag.
		SkipFlagParsing: true,
		Action:          run,
	}

	if err := app.Run(os.Args); err != nil {
		logx.Warnf("%v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := parseArgs(c.Args().Slice())
	if err != nil {
		return err
	}
	if cfg.ShowHelp {
		return cli.ShowAppHelp(c)
	}

	colorTable, err := colors.Load("")
	if err != nil {
		return fmt.Errorf("color load failed: %w", err)
	}

	store := terrain.NewStore(cfg.Rect)
	store.Load(filepath.Join(cfg.WorldPath, "region"))

	canvas := isomap.NewCanvas(cfg.Rect, cfg.Orientation, cfg.MinY, cfg.MaxY)
	renderer := isomap.NewRenderer(cfg.OffsetY)
	width, height := canvas.ImageSize(renderer.OffsetY)

	sink := imagesink.New(cfg.OutFile, colorTable)
	if !sink.CreateImage(width, height, false) {
		return fmt.Errorf("image allocation failed for %dx%d", width, height)
	}

	renderer.Render(store, cfg.Rect, canvas, height, sink)

	if err := sink.SaveImage(); err != nil {
		return fmt.Errorf("output open failed: %w", err)
	}

	logx.Infof("wrote %s (%dx%d)", cfg.OutFile, width, height)
	return nil
}
