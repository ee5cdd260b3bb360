package ui

import (
	"context"
	"image/color"
	"io"
	"log/slog"
	"strings"
	"testing"

	"worldgen/internal/build"
	"worldgen/internal/config"
	"worldgen/internal/heightmap"
	"worldgen/internal/terrain"
	"worldgen/internal/transform"
	"worldgen/pkg/core"
)

func TestElevationColorEndpoints(t *testing.T) {
	if got := elevationColor(-1); got != (color.RGBA{R: 40, G: 60, B: 120, A: 150}) {
		t.Fatalf("low clamp = %v", got)
	}
	if got := elevationColor(2); got != (color.RGBA{R: 240, G: 235, B: 215, A: 215}) {
		t.Fatalf("high clamp = %v", got)
	}
	mid := elevationColor(0.125)
	if mid.R != 55 || mid.B != 140 {
		t.Fatalf("midpoint of first span = %v", mid)
	}
}

func TestFillMask(t *testing.T) {
	g, err := heightmap.Synthesize(5, 10, 0.5, core.NewRNG(2))
	if err != nil {
		t.Fatal(err)
	}
	res, err := heightmap.Calibrator{Target: 0.5, Tolerance: 0.3}.Calibrate(g)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 4*25)
	fillMaskRGBA(buf, res.Mask, oceanTint)
	opaque := 0
	for i := 0; i < 25; i++ {
		if buf[i*4+3] != 0 {
			opaque++
		}
	}
	if opaque != res.Mask.Count() {
		t.Fatalf("tinted cells = %d, ocean cells = %d", opaque, res.Mask.Count())
	}
}

func TestFillElevation(t *testing.T) {
	s := terrain.NewVoxels(2, 1, 5)
	s.SetTile(1, 0, 4, 1)
	buf := make([]byte, 8)
	fillElevationRGBA(buf, s)
	if buf[3] != 0 {
		t.Fatal("empty column should be transparent")
	}
	top := elevationColor(1)
	if buf[4] != top.R || buf[7] != top.A {
		t.Fatalf("top column = %v", buf[4:])
	}
}

func TestStatusLines(t *testing.T) {
	cfg := config.DefaultConfig()
	store := terrain.NewVoxels(8, 8, 6)
	s := build.Schedule(build.Env{
		Store:   store,
		Service: transform.NewBuilder(1),
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, build.Plans()["classic"](build.PlanOptions{}))
	pending := strings.Join(statusLines(cfg.Parameters(), heightmap.Result{}, nil, s), "\n")
	if !strings.Contains(pending, "next: Bedrock") {
		t.Fatalf("pending session should name its next stage:\n%s", pending)
	}
	if err := s.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	text := strings.Join(statusLines(cfg.Parameters(), heightmap.Result{}, nil, s), "\n")
	for _, want := range []string{"Heightmap", "Build 2/2 (complete)", "Bedrock", build.PopulateLabel} {
		if !strings.Contains(text, want) {
			t.Fatalf("status lines missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "next:") || strings.Contains(text, "Liquid") {
		t.Fatalf("finished build without liquids:\n%s", text)
	}
	if strings.Contains(text, "Sea level") {
		t.Fatal("sea level shown without a calibration result")
	}
}

func TestStatusLinesLiquidTotals(t *testing.T) {
	liquids := terrain.NewLiquids()
	liquids.SetLiquid(0, 0, 1, 1)
	liquids.SetLiquid(1, 0, 1, 0.5)
	lines := statusLines(config.DefaultConfig().Parameters(), heightmap.Result{}, liquids, nil)
	text := strings.Join(lines, "\n")
	if !strings.Contains(text, "Liquid 2 voxels, volume 1.5") {
		t.Fatalf("liquid totals missing:\n%s", text)
	}
}
