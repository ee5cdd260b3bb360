package heightmap

import (
	"fmt"

	"worldgen/pkg/core"
)

// Synthesize fills a new size×size grid with diamond-square midpoint
// displacement. Entropy is the perturbation range at the finest level and is
// divided by granularity once per coarser level, so granularity below one
// gives big features with calm detail and values near one keep fine scales
// rugged. All randomness comes from rng.
func Synthesize(size int, entropy, granularity float64, rng *core.RNG) (*Grid, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	if !finite(granularity) || granularity <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidGranularity, granularity)
	}
	if !finite(entropy) || entropy < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidEntropy, entropy)
	}
	g, err := NewGrid(size)
	if err != nil {
		return nil, err
	}
	s := &synth{grid: g, size: float64(size), rng: rng}
	s.level(2, entropy, granularity)
	return g, nil
}

type synth struct {
	grid *Grid
	size float64
	rng  *core.RNG
}

// level recurses to the coarsest level first, seeds the corners there, then
// refines on the way back out.
func (s *synth) level(level int, entropy, granularity float64) {
	if float64(level+1) < s.size {
		s.level(level*2, entropy/granularity, granularity)
	} else {
		s.seed(entropy / granularity)
	}

	segments := (int(s.size) - 1) / level
	step := float64(level)
	for x := 0; x < segments; x++ {
		for y := 0; y < segments; y++ {
			lx, ly := float64(x)*step, float64(y)*step
			s.box(lx, ly, lx+step, ly+step, entropy)
		}
	}
	for x := 0; x < segments; x++ {
		for y := 0; y < segments; y++ {
			lx, ly := float64(x)*step, float64(y)*step
			s.diamond(lx, ly, lx+step, ly+step, entropy)
		}
	}
}

func (s *synth) seed(entropy float64) {
	last := s.size - 1
	var corners [4]float64
	for i := range corners {
		corners[i] = s.rng.Spread(entropy)
	}
	s.grid.Put(0, 0, corners[0])
	s.grid.Put(0, last, corners[1])
	s.grid.Put(last, 0, corners[2])
	s.grid.Put(last, last, corners[3])
}

func (s *synth) box(lowerX, lowerY, upperX, upperY, entropy float64) {
	offset := (upperX - lowerX) / 2
	g := s.grid
	middle := g.Get(lowerX, lowerY) + g.Get(lowerX, upperY) + g.Get(upperX, lowerY) + g.Get(upperX, upperY)
	middle /= 4
	middle += s.rng.Spread(entropy)
	g.Put(lowerX+offset, lowerY+offset, middle)
}

func (s *synth) diamond(lowerX, lowerY, upperX, upperY, entropy float64) {
	offset := (upperX - lowerX) / 2
	middleX := lowerX + offset
	middleY := lowerY + offset
	preX, postX := lowerX-offset, upperX+offset
	preY, postY := lowerY-offset, upperY+offset
	g := s.grid
	center := g.Get(middleX, middleY)

	left := s.edge(g.Get(lowerX, lowerY)+g.Get(lowerX, upperY)+center, preX >= 0, preX, middleY, entropy)
	right := s.edge(g.Get(upperX, lowerY)+g.Get(upperX, upperY)+center, postX < s.size, postX, middleY, entropy)
	top := s.edge(g.Get(lowerX, upperY)+g.Get(upperX, upperY)+center, postY < s.size, middleX, postY, entropy)
	bottom := s.edge(g.Get(lowerX, lowerY)+g.Get(upperX, lowerY)+center, preY >= 0, middleX, preY, entropy)

	g.Put(lowerX, middleY, left)
	g.Put(upperX, middleY, right)
	g.Put(middleX, upperY, top)
	g.Put(middleX, lowerY, bottom)
}

// edge averages a three-term sum with the neighboring square's center at
// (nx, ny), or scales the sum by 4/3 when that neighbor is off the grid.
func (s *synth) edge(sum float64, inside bool, nx, ny, entropy float64) float64 {
	if inside {
		sum += s.grid.Get(nx, ny)
	} else {
		sum = sum * 4 / 3
	}
	return sum/4 + s.rng.Spread(entropy)
}
