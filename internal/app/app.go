//go:build ebiten

package app

import (
	"errors"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"worldgen/internal/build"
	"worldgen/internal/config"
	"worldgen/internal/render"
	"worldgen/internal/ui"
)

const hudWidth = 240

// Game shows a world being built: the heightmap on the left, the terrain
// surface on the right. Each frame advances the build by one stage.
type Game struct {
	cfg config.Config
	log *slog.Logger

	world   *World
	builds  build.Manager
	failure error

	mapPainter     *render.Painter
	surfacePainter *render.Painter
	overlay        *ui.Overlay
	hud            *ui.HUD

	paused   bool
	tickOnce bool
}

// New constructs a Game and starts building the world for cfg.Seed.
func New(cfg config.Config, log *slog.Logger) (*Game, error) {
	g := &Game{
		cfg:            cfg,
		log:            log,
		mapPainter:     render.NewPainter(cfg.Size(), cfg.Size()),
		surfacePainter: render.NewPainter(cfg.Width, cfg.Height),
		overlay:        ui.NewOverlay(cfg.Scale),
		hud:            ui.NewHUD(hudWidth),
	}
	if err := g.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset generates a new world for seed, abandoning any build in progress.
func (g *Game) Reset(seed int64) error {
	g.cfg.Seed = seed
	w, err := Generate(g.cfg, g.log)
	if err != nil {
		return err
	}
	g.world = w
	g.failure = nil
	g.builds.Begin(w.Env(g.log), w.Stages)
	g.tickOnce = false
	return nil
}

// Update handles per-frame logic and advances the build one stage.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(g.cfg.Seed); err != nil {
			g.log.Error("regenerate", "err", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.Reset(time.Now().UnixNano()); err != nil {
			g.log.Error("regenerate", "err", err)
		}
	}
	g.overlay.Update()

	s := g.builds.Active()
	if s != nil && ((!g.paused) || g.tickOnce) {
		if _, err := s.Step(); err != nil && g.failure == nil && !errors.Is(err, build.ErrAbandoned) {
			g.failure = err
			g.log.Error("build halted", "err", err)
		}
		g.tickOnce = false
	}
	g.hud.Update(g.cfg.Parameters(), g.world.Ocean, g.world.Liquids, s)
	return nil
}

// Draw renders both views, the overlays and the status panel.
func (g *Game) Draw(screen *ebiten.Image) {
	scale := g.cfg.Scale
	mapW := float64(g.cfg.Size() * scale)
	g.mapPainter.Blit(screen, render.Heightmap(g.world.Grid, nil), scale, 0, 0)
	g.overlay.DrawOcean(screen, g.world.Ocean.Mask, 0, 0)
	g.surfacePainter.Blit(screen, render.Surface(g.world.Store), scale, mapW, 0)
	g.overlay.DrawElevation(screen, g.world.Store, mapW, 0)
	w, h := g.viewSize()
	g.hud.Draw(screen, w, h)
}

func (g *Game) viewSize() (int, int) {
	s := g.cfg.Scale
	return (g.cfg.Size() + g.cfg.Width) * s, max(g.cfg.Size(), g.cfg.Height) * s
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.viewSize()
	return w + hudWidth, h
}
