package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"worldgen/internal/build"
	"worldgen/internal/config"
	"worldgen/internal/heightmap"
	"worldgen/internal/terrain"
	"worldgen/internal/transform"
	"worldgen/pkg/core"
)

// World is a synthesized heightmap with its calibrated ocean and an empty
// terrain store waiting for its build stages.
type World struct {
	Seed    int64
	Grid    *heightmap.Grid
	Ocean   heightmap.Result
	Store   *terrain.Voxels
	Liquids *terrain.Liquids
	Service transform.Service
	Plan    string
	Stages  []build.Stage
}

// Generate synthesizes and calibrates the heightmap for cfg, then prepares
// the store and the stages of the configured plan. It does not run them.
func Generate(cfg config.Config, log *slog.Logger) (*World, error) {
	return GenerateContext(context.Background(), cfg, log)
}

// GenerateContext is Generate with a context for fetching remote plans.
func GenerateContext(ctx context.Context, cfg config.Config, log *slog.Logger) (*World, error) {
	if log == nil {
		log = slog.Default()
	}
	rng := core.NewRNG(cfg.Seed)
	grid, err := heightmap.Synthesize(cfg.Size(), cfg.Entropy, cfg.Granularity, rng)
	if err != nil {
		return nil, err
	}
	log.Info("heightmap synthesized", "seed", cfg.Seed, "size", grid.Size(), "min", grid.Min(), "max", grid.Max())

	cal := heightmap.Calibrator{Target: cfg.OceanTarget, Tolerance: cfg.OceanTolerance, MaxPasses: cfg.MaxPasses}
	res, err := cal.Calibrate(grid)
	if err != nil {
		var ce *heightmap.ConvergenceError
		if errors.As(err, &ce) {
			log.Warn("sea level did not converge", "passes", ce.Passes, "fraction", ce.Fraction, "sea_level", ce.SeaLevel)
		}
		return nil, err
	}
	log.Info("sea level calibrated", "sea_level", res.SeaLevel, "fraction", res.Fraction, "passes", res.Passes)

	w := &World{
		Seed:    cfg.Seed,
		Grid:    grid,
		Ocean:   res,
		Store:   terrain.NewVoxels(cfg.Width, cfg.Height, cfg.Depth),
		Liquids: terrain.NewLiquids(),
		Service: transform.NewBuilder(rng.Int64()),
	}
	if w.Stages, w.Plan, err = loadStages(ctx, cfg, w.Liquids); err != nil {
		return nil, err
	}
	return w, nil
}

func loadStages(ctx context.Context, cfg config.Config, liquids *terrain.Liquids) ([]build.Stage, string, error) {
	if cfg.PlanSource != "" {
		dir, err := os.MkdirTemp("", "worldgen-plan-")
		if err != nil {
			return nil, "", err
		}
		defer os.RemoveAll(dir)
		p, err := build.FetchPlan(ctx, cfg.PlanSource, dir, liquids)
		if err != nil {
			return nil, "", err
		}
		return p.Stages, p.Name, nil
	}
	factory, ok := build.Plans()[cfg.Plan]
	if !ok {
		return nil, "", fmt.Errorf("unknown plan %q (have %v)", cfg.Plan, build.PlanNames())
	}
	return factory(build.PlanOptions{Liquids: liquids}), cfg.Plan, nil
}

// Env is the build environment for this world's store and service.
func (w *World) Env(log *slog.Logger) build.Env {
	return build.Env{Store: w.Store, Service: w.Service, Log: log}
}
