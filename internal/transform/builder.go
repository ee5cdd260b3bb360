package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/dgravesa/go-parallel/parallel"
	"github.com/ojrac/opensimplex-go"

	"worldgen/internal/terrain"
)

const (
	octaves    = 4
	noiseBeta  = 2.0
	scaleUnits = 1000.0
)

// Builder is the reference Service. Each noise layer draws from its own
// seed derived from Seed and the number of layers applied so far, so a
// fixed sequence of calls is reproducible.
type Builder struct {
	Seed   int64
	layers int64
}

// NewBuilder returns a Builder seeded with seed.
func NewBuilder(seed int64) *Builder {
	return &Builder{Seed: seed}
}

var _ Service = (*Builder)(nil)

func checkLayer(low, high, scale, persistence float64) error {
	for _, v := range []float64{low, high} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: bound %v outside [0,1]", ErrInvalidLayer, v)
		}
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return fmt.Errorf("%w: scale %v", ErrInvalidLayer, scale)
	}
	if !(persistence > 0) || math.IsInf(persistence, 0) {
		return fmt.Errorf("%w: persistence %v", ErrInvalidLayer, persistence)
	}
	return nil
}

func (b *Builder) nextSeed() int64 {
	b.layers++
	return b.Seed + b.layers
}

// columnHeights evaluates sample for every column in parallel and maps the
// [0,1] result to a tile count between low and high of the store's depth.
func columnHeights(t terrain.Store, low, high, scale float64, sample func(x, y float64) float64) []int {
	w, h, d := t.Width(), t.Height(), t.Depth()
	heights := make([]int, w*h)
	freq := scale / scaleUnits
	parallel.For(w*h, func(i, _ int) {
		x, y := i%w, i/w
		v := sample(float64(x)/float64(w)*freq, float64(y)/float64(h)*freq)
		v = min(max(v, 0), 1)
		heights[i] = int(float64(d) * (low + (high-low)*v))
	})
	return heights
}

// AddLayer stacks a perlin-shaped layer of tile on top of every column.
func (b *Builder) AddLayer(t terrain.Store, tile terrain.TileType, low, high, scale, persistence float64) error {
	if err := checkLayer(low, high, scale, persistence); err != nil {
		return err
	}
	noise := perlin.NewPerlin(1/persistence, noiseBeta, octaves, b.nextSeed())
	amp := 0.0
	for i := 0; i < octaves; i++ {
		amp += math.Pow(persistence, float64(i))
	}
	heights := columnHeights(t, low, high, scale, func(x, y float64) float64 {
		return (noise.Noise2D(x, y)/amp + 1) / 2
	})

	w := t.Width()
	for i, n := range heights {
		x, y := i%w, i/w
		base := t.SurfaceHeight(x, y) + 1
		top := min(base+n, t.Depth())
		for z := base; z < top; z++ {
			t.SetTile(x, y, z, tile)
		}
	}
	return nil
}

// CompositeLayer replaces existing tiles below an opensimplex-shaped
// boundary with tile. Empty voxels stay empty.
func (b *Builder) CompositeLayer(t terrain.Store, tile terrain.TileType, low, high, scale, persistence float64) error {
	if err := checkLayer(low, high, scale, persistence); err != nil {
		return err
	}
	noise := opensimplex.NewNormalized(b.nextSeed())
	heights := columnHeights(t, low, high, scale, func(x, y float64) float64 {
		v, amp, total, f := 0.0, 1.0, 0.0, 1.0
		for i := 0; i < octaves; i++ {
			v += noise.Eval2(x*f, y*f) * amp
			total += amp
			amp *= persistence
			f *= noiseBeta
		}
		return v / total
	})

	w := t.Width()
	for i, n := range heights {
		x, y := i%w, i/w
		for z := 0; z < min(n, t.Depth()); z++ {
			if t.Tile(x, y, z) != terrain.Empty {
				t.SetTile(x, y, z, tile)
			}
		}
	}
	return nil
}

// Shear is not implemented by the reference builder.
func (b *Builder) Shear(t terrain.Store, magnitude float64, axisA, axisB int) error {
	return fmt.Errorf("shear: %w", errors.ErrUnsupported)
}

// GenerateRiverbeds is not implemented by the reference builder.
func (b *Builder) GenerateRiverbeds(t terrain.Store, tile terrain.TileType) error {
	return fmt.Errorf("riverbeds: %w", errors.ErrUnsupported)
}

// Average smooths the surface by moving each column toward the rounded
// mean surface height of its 3×3 neighborhood, once per pass.
func (b *Builder) Average(t terrain.Store, passes int) error {
	if passes < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPasses, passes)
	}
	w, h := t.Width(), t.Height()
	for p := 0; p < passes; p++ {
		surface := make([]int, w*h)
		top := make([]terrain.TileType, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				s := t.SurfaceHeight(x, y)
				surface[y*w+x] = s
				if s >= 0 {
					top[y*w+x] = t.Tile(x, y, s)
				}
			}
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				sum, n := 0, 0
				fill, fillZ := terrain.Empty, -1
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := x+dx, y+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						s := surface[ny*w+nx]
						sum += s
						n++
						if s > fillZ {
							fill, fillZ = top[ny*w+nx], s
						}
					}
				}
				old := surface[y*w+x]
				next := int(math.Round(float64(sum) / float64(n)))
				if old >= 0 {
					fill = top[y*w+x]
				}
				switch {
				case next > old && fill != terrain.Empty:
					for z := old + 1; z <= next; z++ {
						t.SetTile(x, y, z, fill)
					}
				case next < old:
					for z := old; z > next; z-- {
						t.SetTile(x, y, z, terrain.Empty)
					}
				}
			}
		}
	}
	return nil
}

// FillOcean floods every column with full liquid voxels from just above
// its surface up to the lowest surface height found on the map border.
func (b *Builder) FillOcean(t terrain.Store, liquids LiquidManager) error {
	if liquids == nil {
		return ErrNoLiquids
	}
	w, h := t.Width(), t.Height()
	level := t.Depth() - 1
	for x := 0; x < w; x++ {
		level = min(level, t.SurfaceHeight(x, 0), t.SurfaceHeight(x, h-1))
	}
	for y := 0; y < h; y++ {
		level = min(level, t.SurfaceHeight(0, y), t.SurfaceHeight(w-1, y))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for z := t.SurfaceHeight(x, y) + 1; z <= level; z++ {
				liquids.SetLiquid(x, y, z, 1)
			}
		}
	}
	return nil
}
