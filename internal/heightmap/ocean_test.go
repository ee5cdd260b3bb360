package heightmap

import (
	"errors"
	"math"
	"testing"

	"worldgen/pkg/core"
)

// rampGrid fills a 5x5 grid with evenly spaced values from -50 to 50.
func rampGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(5)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 25; i++ {
		g.Put(float64(i%5), float64(i/5), -50+float64(i)*100/24)
	}
	return g
}

func TestCalibrateRampScenario(t *testing.T) {
	g := rampGrid(t)
	if g.Min() != -50 || g.Max() != 50 {
		t.Fatalf("ramp extrema = [%v, %v]", g.Min(), g.Max())
	}

	res, err := Calibrator{Target: 0.25, Tolerance: 0.05}.Calibrate(g)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if res.Trace[0].SeaLevel != 0 {
		t.Fatalf("first pass sea level = %v, want 0", res.Trace[0].SeaLevel)
	}
	// Twelve of 25 cells sit below zero, so the first pass overshoots and the
	// search moves down.
	if res.Trace[0].Fraction <= 0.25 {
		t.Fatalf("first pass fraction = %v, expected overshoot", res.Trace[0].Fraction)
	}
	if len(res.Trace) < 2 || res.Trace[1].SeaLevel >= 0 || res.Trace[1].Upper != 0 {
		t.Fatalf("second pass did not move down: %+v", res.Trace)
	}
	if res.Passes != 2 || res.SeaLevel != -25 {
		t.Fatalf("converged after %d passes at %v, want 2 passes at -25", res.Passes, res.SeaLevel)
	}
	if math.Abs(res.Fraction-0.24) > 1e-12 || res.Mask.Count() != 6 {
		t.Fatalf("fraction %v with %d ocean cells, want 0.24 with 6", res.Fraction, res.Mask.Count())
	}
}

func TestCalibrateRunsAtLeastOnePass(t *testing.T) {
	g := rampGrid(t)
	res, err := Calibrator{Target: 0.48, Tolerance: 0.01}.Calibrate(g)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passes != 1 || len(res.Trace) != 1 {
		t.Fatalf("passes = %d, want exactly 1", res.Passes)
	}
}

func TestCalibrateMaskMatchesSeaLevel(t *testing.T) {
	g, err := Synthesize(33, 100, 0.5, core.NewRNG(11))
	if err != nil {
		t.Fatal(err)
	}
	res, err := Calibrator{Target: 0.3, Tolerance: 0.02}.Calibrate(g)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for y := 0; y < g.Size(); y++ {
		for x := 0; x < g.Size(); x++ {
			ocean := g.At(x, y) < res.SeaLevel
			if ocean != res.Mask.Ocean(x, y) {
				t.Fatalf("mask mismatch at (%d,%d)", x, y)
			}
			if ocean {
				count++
			}
		}
	}
	if count != res.Mask.Count() {
		t.Fatalf("mask count = %d, want %d", res.Mask.Count(), count)
	}
	if math.Abs(res.Fraction-0.3) > 0.02 {
		t.Fatalf("fraction %v outside tolerance", res.Fraction)
	}
}

func TestCalibrateBisectionBounds(t *testing.T) {
	g, err := Synthesize(65, 100, 0.5, core.NewRNG(5))
	if err != nil {
		t.Fatal(err)
	}
	res, err := Calibrator{Target: 0.4, Tolerance: 0.001}.Calibrate(g)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passes < 2 {
		t.Skipf("converged in %d pass; nothing to compare", res.Passes)
	}
	for i, p := range res.Trace {
		if p.SeaLevel < p.Lower || p.SeaLevel > p.Upper {
			t.Fatalf("pass %d: sea level %v outside [%v, %v]", p.Index, p.SeaLevel, p.Lower, p.Upper)
		}
		if i == 0 {
			continue
		}
		prev := res.Trace[i-1]
		wPrev, w := prev.Upper-prev.Lower, p.Upper-p.Lower
		if !(w < wPrev) || math.Abs(w-wPrev/2) > 1e-9*wPrev {
			t.Fatalf("pass %d: width %v is not half of %v", p.Index, w, wPrev)
		}
	}
}

func TestRecalibrateConvergesInOnePass(t *testing.T) {
	g, err := Synthesize(33, 100, 0.5, core.NewRNG(8))
	if err != nil {
		t.Fatal(err)
	}
	first, err := Calibrator{Target: 0.25, Tolerance: 0.05}.Calibrate(g)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Calibrator{Target: first.Fraction, Tolerance: 0}.Recalibrate(g, first)
	if err != nil {
		t.Fatal(err)
	}
	if again.Passes != 1 {
		t.Fatalf("recalibration took %d passes, want 1", again.Passes)
	}
	if again.SeaLevel != first.SeaLevel || again.Mask.Count() != first.Mask.Count() {
		t.Fatalf("recalibration changed result: %v/%d vs %v/%d",
			again.SeaLevel, again.Mask.Count(), first.SeaLevel, first.Mask.Count())
	}
}

func TestCalibrateDeterministic(t *testing.T) {
	g, err := Synthesize(33, 100, 0.5, core.NewRNG(21))
	if err != nil {
		t.Fatal(err)
	}
	c := Calibrator{Target: 0.25, Tolerance: 0.01}
	a, errA := c.Calibrate(g)
	b, errB := c.Calibrate(g)
	if errA != nil || errB != nil {
		t.Fatalf("calibrate errors: %v, %v", errA, errB)
	}
	if a.Passes != b.Passes || len(a.Trace) != len(b.Trace) {
		t.Fatalf("pass counts differ: %d vs %d", a.Passes, b.Passes)
	}
	for i := range a.Trace {
		if a.Trace[i] != b.Trace[i] {
			t.Fatalf("pass %d differs: %+v vs %+v", i+1, a.Trace[i], b.Trace[i])
		}
	}
}

func TestCalibrateFlatGridDoesNotConverge(t *testing.T) {
	g, err := NewGrid(3)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			g.Put(float64(x), float64(y), 3)
		}
	}
	_, err = Calibrator{Target: 0.5, Tolerance: 0.01, MaxPasses: 10}.Calibrate(g)
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("expected ErrNotConverged, got %v", err)
	}
	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConvergenceError, got %T", err)
	}
	if ce.Passes != 10 || ce.Fraction != 0 || ce.SeaLevel != 3 {
		t.Fatalf("unexpected convergence error %+v", ce)
	}
}

func TestCalibratePreconditions(t *testing.T) {
	g := rampGrid(t)
	if _, err := (Calibrator{Target: 0.25, Tolerance: -0.1}).Calibrate(g); !errors.Is(err, ErrInvalidTolerance) {
		t.Fatalf("expected tolerance error, got %v", err)
	}
	if _, err := (Calibrator{Target: 1.5, Tolerance: 0.1}).Calibrate(g); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected target error, got %v", err)
	}
}
