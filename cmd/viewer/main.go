//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"worldgen/internal/app"
	"worldgen/internal/config"
)

func main() {
	cfg := config.DefaultConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	game, err := app.New(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle(fmt.Sprintf("worldgen - seed %d", cfg.Seed))
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
