//go:build debug

package main

import (
	"log/slog"

	"worldgen/internal/terrain"
)

// instrument routes every store access through a shadow-copy verifier.
func instrument(v *terrain.Voxels, log *slog.Logger) (terrain.Store, func() error) {
	ver := terrain.NewVerifier(v, log)
	log.Debug("store verification enabled")
	return ver, ver.Check
}
