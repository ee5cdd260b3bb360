package heightmap

import (
	"errors"
	"math"
	"slices"
	"testing"

	"worldgen/pkg/core"
)

func TestValidateSize(t *testing.T) {
	for _, size := range []int{3, 5, 9, 17, 33, 65, 129} {
		if err := ValidateSize(size); err != nil {
			t.Fatalf("size %d rejected: %v", size, err)
		}
	}
	for _, size := range []int{-1, 0, 1, 2, 4, 6, 10, 32, 64} {
		if err := ValidateSize(size); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("size %d accepted or wrong error: %v", size, err)
		}
	}
}

func TestSynthesizePreconditions(t *testing.T) {
	rng := core.NewRNG(1)
	if _, err := Synthesize(6, 100, 0.5, rng); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected size error, got %v", err)
	}
	if _, err := Synthesize(5, 100, 0, rng); !errors.Is(err, ErrInvalidGranularity) {
		t.Fatalf("expected granularity error, got %v", err)
	}
	if _, err := Synthesize(5, 100, -0.5, rng); !errors.Is(err, ErrInvalidGranularity) {
		t.Fatalf("expected granularity error, got %v", err)
	}
	if _, err := Synthesize(5, math.NaN(), 0.5, rng); !errors.Is(err, ErrInvalidEntropy) {
		t.Fatalf("expected entropy error, got %v", err)
	}
}

func TestSynthesizeSmallGridMatchesSequence(t *testing.T) {
	const seed = 2024
	g, err := Synthesize(5, 100, 0.5, core.NewRNG(seed))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	// Level 2 runs with entropy 100, level 4 with 200, and the corners are
	// seeded with 400.
	replay := core.NewRNG(seed)
	var corners [4]float64
	for i := range corners {
		corners[i] = replay.Spread(400)
		if math.Abs(corners[i]) > 200 {
			t.Fatalf("corner seed %d = %f exceeds half the seed range", i, corners[i])
		}
	}
	got := [4]float64{g.At(0, 0), g.At(0, 4), g.At(4, 0), g.At(4, 4)}
	if got != corners {
		t.Fatalf("corners = %v, want %v", got, corners)
	}

	center := (corners[0]+corners[1]+corners[2]+corners[3])/4 + replay.Spread(200)
	if g.At(2, 2) != center {
		t.Fatalf("center = %v, want %v", g.At(2, 2), center)
	}
}

func TestSynthesizeExtremaBoundCells(t *testing.T) {
	for power := 1; power <= 6; power++ {
		size := SizeForPower(power)
		g, err := Synthesize(size, 80, 0.6, core.NewRNG(int64(power)))
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if g.Min() > g.Max() {
			t.Fatalf("size %d: min %f > max %f", size, g.Min(), g.Max())
		}
		for i, v := range g.Cells() {
			if v < g.Min() || v > g.Max() {
				t.Fatalf("size %d cell %d = %f outside [%f, %f]", size, i, v, g.Min(), g.Max())
			}
		}
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	a, err := Synthesize(33, 100, 0.5, core.NewRNG(77))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Synthesize(33, 100, 0.5, core.NewRNG(77))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatal("same seed produced different grids")
	}
	c, err := Synthesize(33, 100, 0.5, core.NewRNG(78))
	if err != nil {
		t.Fatal(err)
	}
	if slices.Equal(a.Cells(), c.Cells()) {
		t.Fatal("different seeds produced identical grids")
	}
}

func TestSynthesizeFillsEveryCell(t *testing.T) {
	g, err := Synthesize(17, 50, 0.5, core.NewRNG(3))
	if err != nil {
		t.Fatal(err)
	}
	zeros := 0
	for _, v := range g.Cells() {
		if v == 0 {
			zeros++
		}
	}
	if zeros > 0 {
		t.Fatalf("%d cells were never written", zeros)
	}
}

func TestGetTruncatesTowardZero(t *testing.T) {
	g, err := NewGrid(3)
	if err != nil {
		t.Fatal(err)
	}
	g.Put(1.9, 0.99, 7)
	if got := g.At(1, 0); got != 7 {
		t.Fatalf("Put(1.9, 0.99) landed elsewhere; At(1,0) = %v", got)
	}
	if got := g.Get(1.5, 0.5); got != 7 {
		t.Fatalf("Get(1.5, 0.5) = %v, want 7", got)
	}
	if g.Min() != 7 || g.Max() != 7 {
		t.Fatalf("extrema after first write = [%v, %v], want [7, 7]", g.Min(), g.Max())
	}
}
