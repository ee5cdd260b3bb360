package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"worldgen/internal/app"
	"worldgen/internal/build"
	"worldgen/internal/catalog"
	"worldgen/internal/config"
	"worldgen/internal/core"
	"worldgen/internal/heightmap"
	"worldgen/internal/terrain"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so deferred cleanup runs first.
func realMain() int {
	cfg := config.DefaultConfig()
	cfg.Bind(flag.CommandLine)
	cfgPath := flag.String("config", "", "JSON config file (explicit flags win)")
	list := flag.Bool("list", false, "list catalogued worlds and exit")
	replay := flag.String("replay", "", "regenerate the catalogued world with this id")
	save := flag.String("save", "", "write the finished voxel store to this file")
	overrides := flag.String("set", "", "comma-separated key=value overrides applied last")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *cfgPath != "" {
		fromFile, err := config.Load(*cfgPath)
		if err != nil {
			log.Error("load config", "path", *cfgPath, "err", err)
			return 1
		}
		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		cfg = config.Merge(cfg, fromFile, explicit)
	}
	if *overrides != "" {
		if err := cfg.FromMap(parseOverrides(*overrides)); err != nil {
			log.Error("apply -set", "err", err)
			return 2
		}
	}

	var cat *catalog.Catalog
	if cfg.Catalog != "" {
		var err error
		if cat, err = catalog.Open(cfg.Catalog); err != nil {
			log.Error("open catalog", "err", err)
			return 1
		}
		defer func() {
			if err := cat.Close(); err != nil {
				log.Error("close catalog", "err", err)
			}
		}()
	}

	if *list {
		if err := listWorlds(os.Stdout, cat); err != nil {
			log.Error("list worlds", "err", err)
			return 1
		}
		return 0
	}
	if *replay != "" {
		if cat == nil {
			log.Error("-replay needs -catalog")
			return 2
		}
		rec, err := cat.Get(*replay)
		if err != nil {
			log.Error("replay", "id", *replay, "err", err)
			return 1
		}
		cfg = fromRecord(cfg, rec)
		log.Info("replaying world", "id", rec.ID, "seed", rec.Seed, "plan", cfg.Plan, "plan_source", cfg.PlanSource)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		return 2
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
		log.Info("derived seed from clock", "seed", cfg.Seed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, session, err := run(ctx, cfg, log)
	if err != nil {
		log.Error("generate", "err", err)
		return 1
	}
	report(os.Stdout, cfg, w, session)

	if *save != "" {
		if err := saveStore(*save, w.Store); err != nil {
			log.Error("save store", "path", *save, "err", err)
			return 1
		}
		log.Info("store saved", "path", *save)
	}
	if cat != nil {
		rec, err := cat.Put(toRecord(cfg, w, session))
		if err != nil {
			log.Error("catalog world", "err", err)
			return 1
		}
		log.Info("world catalogued", "id", rec.ID)
	}
	return 0
}

// run generates the world for cfg and drives its build to completion.
func run(ctx context.Context, cfg config.Config, log *slog.Logger) (*app.World, *build.Session, error) {
	w, err := app.GenerateContext(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	env := w.Env(log)
	store, check := instrument(w.Store, log)
	env.Store = store
	s := build.Schedule(env, w.Stages)
	pacer := core.NewPacer(cfg.TPS)
	log.Info("build scheduled", "session", s.ID(), "plan", w.Plan, "stages", len(w.Stages), "interval", pacer.Interval())
	if err := core.Drive(ctx, pacer, s); err != nil {
		return nil, nil, err
	}
	if err := check(); err != nil {
		return nil, nil, err
	}
	return w, s, nil
}

func report(out io.Writer, cfg config.Config, w *app.World, s *build.Session) {
	_, _ = cfg.Parameters().WriteTo(out)
	fmt.Fprintf(out, "\nHeightmap %dx%d spans [%.3f, %.3f]\n", w.Grid.Size(), w.Grid.Size(), w.Grid.Min(), w.Grid.Max())
	fmt.Fprintf(out, "Sea level %.3f floods %.1f%% after %d passes\n",
		w.Ocean.SeaLevel, 100*w.Ocean.Fraction, w.Ocean.Passes)
	for _, p := range w.Ocean.Trace {
		fmt.Fprintf(out, "  pass %2d: level %9.3f in [%9.3f, %9.3f] -> %.3f\n",
			p.Index, p.SeaLevel, p.Lower, p.Upper, p.Fraction)
	}
	done, total := s.Progress()
	fmt.Fprintf(out, "\nPlan %q: %d/%d stages, %d liquid voxels\n", w.Plan, done, total, w.Liquids.Len())
	fmt.Fprint(out, s.Timings().String())
}

// parseOverrides splits "k=v,k=v". A pair without '=' maps to an empty value
// so FromMap reports it.
func parseOverrides(s string) map[string]string {
	kv := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		k, v, _ := strings.Cut(strings.TrimSpace(pair), "=")
		kv[k] = v
	}
	return kv
}

func saveStore(path string, v *terrain.Voxels) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := v.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toRecord(cfg config.Config, w *app.World, s *build.Session) catalog.Record {
	return catalog.Record{
		ID:          s.ID().String(),
		Seed:        cfg.Seed,
		Entropy:     cfg.Entropy,
		Granularity: cfg.Granularity,
		Power:       cfg.Power,
		Target:      cfg.OceanTarget,
		Tolerance:   cfg.OceanTolerance,
		MaxPasses:   cfg.MaxPasses,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Depth:       cfg.Depth,
		Plan:        w.Plan,
		PlanSource:  cfg.PlanSource,
		SeaLevel:    w.Ocean.SeaLevel,
		Fraction:    w.Ocean.Fraction,
		Passes:      w.Ocean.Passes,
		Timings:     s.Timings().Entries(),
	}
}

func fromRecord(cfg config.Config, rec catalog.Record) config.Config {
	cfg.Seed = rec.Seed
	cfg.Entropy = rec.Entropy
	cfg.Granularity = rec.Granularity
	cfg.Power = rec.Power
	cfg.OceanTarget = rec.Target
	cfg.OceanTolerance = rec.Tolerance
	cfg.Width, cfg.Height, cfg.Depth = rec.Width, rec.Height, rec.Depth
	if rec.MaxPasses > 0 {
		cfg.MaxPasses = rec.MaxPasses
	}
	cfg.PlanSource = rec.PlanSource
	if _, ok := build.Plans()[rec.Plan]; ok {
		cfg.Plan = rec.Plan
	}
	return cfg
}

func listWorlds(out io.Writer, cat *catalog.Catalog) error {
	if cat == nil {
		return errors.New("-list needs -catalog")
	}
	recs, err := cat.List()
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Fprintf(out, "%s  %s  seed=%d size=%d plan=%s sea=%.3f (%.1f%%)\n",
			r.ID, r.Created.Format(time.RFC3339), r.Seed, heightmap.SizeForPower(r.Power), r.Plan, r.SeaLevel, 100*r.Fraction)
	}
	return nil
}
