// Package transform holds the terrain transform operations applied by build
// stages, plus a reference implementation.
package transform

import (
	"errors"

	"worldgen/internal/terrain"
)

var (
	// ErrInvalidLayer reports layer parameters out of range.
	ErrInvalidLayer = errors.New("transform: invalid layer parameters")
	// ErrInvalidPasses reports a negative smoothing pass count.
	ErrInvalidPasses = errors.New("transform: passes must be non-negative")
	// ErrNoLiquids reports an ocean fill without a liquid manager.
	ErrNoLiquids = errors.New("transform: no liquid manager")
)

// LiquidManager receives liquid volumes written by FillOcean.
type LiquidManager interface {
	SetLiquid(x, y, z int, volume float32)
}

// Service is the set of operations a build stage may invoke. Every method
// mutates t in place and runs on the caller's goroutine.
type Service interface {
	AddLayer(t terrain.Store, tile terrain.TileType, low, high, scale, persistence float64) error
	CompositeLayer(t terrain.Store, tile terrain.TileType, low, high, scale, persistence float64) error
	Shear(t terrain.Store, magnitude float64, axisA, axisB int) error
	GenerateRiverbeds(t terrain.Store, tile terrain.TileType) error
	Average(t terrain.Store, passes int) error
	FillOcean(t terrain.Store, liquids LiquidManager) error
}
