// Package heightmap synthesizes diamond-square terrain and calibrates the
// sea level that splits it into ocean and land.
package heightmap

import (
	"errors"
	"fmt"
	"math"

	"worldgen/internal/core"
)

var (
	// ErrInvalidSize reports a grid size that is not 2^n+1 with n >= 1.
	ErrInvalidSize = errors.New("heightmap: size must be 2^n+1 with n >= 1")
	// ErrInvalidGranularity reports a non-positive or non-finite granularity.
	ErrInvalidGranularity = errors.New("heightmap: granularity must be a finite value > 0")
	// ErrInvalidEntropy reports a negative or non-finite entropy.
	ErrInvalidEntropy = errors.New("heightmap: entropy must be a finite value >= 0")
)

// Grid is a square elevation map of side 2^n+1 with running extrema.
type Grid struct {
	cells    *core.Grid[float64]
	min, max float64
	written  bool
}

// ValidateSize checks that size has the form 2^n+1 for some n >= 1.
func ValidateSize(size int) error {
	n := size - 1
	if n < 2 || n&(n-1) != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return nil
}

// SizeForPower returns 2^power+1.
func SizeForPower(power int) int {
	if power < 0 || power > 30 {
		return 0
	}
	return 1<<power + 1
}

// NewGrid allocates a zeroed grid. Min and Max stay zero until the first write.
func NewGrid(size int) (*Grid, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	return &Grid{cells: core.NewGrid[float64](size, size)}, nil
}

// Size returns the side length.
func (g *Grid) Size() int { return g.cells.W }

// Min returns the lowest value written so far.
func (g *Grid) Min() float64 { return g.min }

// Max returns the highest value written so far.
func (g *Grid) Max() float64 { return g.max }

// Get reads the cell at (x, y). Coordinates are truncated toward zero.
func (g *Grid) Get(x, y float64) float64 {
	return g.cells.At(int(x), int(y))
}

// Put writes the cell at (x, y) and widens the extrema. Coordinates are
// truncated toward zero.
func (g *Grid) Put(x, y, v float64) {
	if !g.written {
		g.min, g.max = v, v
		g.written = true
	}
	if v < g.min {
		g.min = v
	}
	if v > g.max {
		g.max = v
	}
	g.cells.Set(int(x), int(y), v)
}

// At reads an integer cell.
func (g *Grid) At(x, y int) float64 { return g.cells.At(x, y) }

// Cells exposes the row-major backing slice. Callers must not write to it.
func (g *Grid) Cells() []float64 { return g.cells.Cells() }

// Mask records which cells lie below a sea level.
type Mask struct {
	cells *core.Grid[bool]
	count int
}

func newMask(g *Grid, seaLevel float64) *Mask {
	m := &Mask{cells: core.NewGrid[bool](g.Size(), g.Size())}
	oc := m.cells.Cells()
	for i, v := range g.Cells() {
		if v < seaLevel {
			oc[i] = true
			m.count++
		}
	}
	return m
}

// Size returns the side length.
func (m *Mask) Size() int { return m.cells.W }

// Ocean reports whether (x, y) is below sea level.
func (m *Mask) Ocean(x, y int) bool { return m.cells.At(x, y) }

// Count returns the number of ocean cells.
func (m *Mask) Count() int { return m.count }

// Fraction returns the share of ocean cells in [0, 1].
func (m *Mask) Fraction() float64 {
	total := m.cells.W * m.cells.H
	return float64(m.count) / float64(total)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
