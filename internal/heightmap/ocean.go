package heightmap

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMaxPasses bounds calibration when Calibrator.MaxPasses is zero.
// Bisection over float64 runs out of resolution well before this.
const DefaultMaxPasses = 64

var (
	// ErrInvalidTolerance reports a negative or non-finite tolerance.
	ErrInvalidTolerance = errors.New("heightmap: tolerance must be a finite value >= 0")
	// ErrInvalidTarget reports an ocean fraction outside [0, 1].
	ErrInvalidTarget = errors.New("heightmap: ocean target must be within [0, 1]")
	// ErrNotConverged is matched by every *ConvergenceError.
	ErrNotConverged = errors.New("heightmap: sea level did not converge")
)

// ConvergenceError carries the last observation of a calibration that hit
// its pass limit.
type ConvergenceError struct {
	Passes   int
	Fraction float64
	SeaLevel float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("heightmap: sea level did not converge after %d passes (last level %g produced fraction %g)",
		e.Passes, e.SeaLevel, e.Fraction)
}

// Is lets errors.Is match ErrNotConverged.
func (e *ConvergenceError) Is(target error) bool { return target == ErrNotConverged }

// Calibrator searches for the sea level that floods Target of the grid.
type Calibrator struct {
	// Target is the desired ocean fraction.
	Target float64
	// Tolerance is the accepted absolute deviation from Target.
	Tolerance float64
	// MaxPasses caps the search; zero selects DefaultMaxPasses.
	MaxPasses int
}

// Pass records the state a single calibration pass classified with.
type Pass struct {
	Index    int
	SeaLevel float64
	Lower    float64
	Upper    float64
	Fraction float64
}

// Result is the outcome of a converged calibration.
type Result struct {
	// SeaLevel is the level that produced Mask.
	SeaLevel float64
	Fraction float64
	Passes   int
	Mask     *Mask
	Trace    []Pass
}

// Calibrate bisects [g.Min(), g.Max()] starting from its midpoint.
func (c Calibrator) Calibrate(g *Grid) (Result, error) {
	lo, hi := g.Min(), g.Max()
	return c.search(g, lo+(hi-lo)/2)
}

// Recalibrate starts the search from a previous result's sea level, so a
// target equal to prev.Fraction is met on the first pass.
func (c Calibrator) Recalibrate(g *Grid, prev Result) (Result, error) {
	return c.search(g, prev.SeaLevel)
}

func (c Calibrator) validate() error {
	if !finite(c.Tolerance) || c.Tolerance < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTolerance, c.Tolerance)
	}
	if !finite(c.Target) || c.Target < 0 || c.Target > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidTarget, c.Target)
	}
	return nil
}

func (c Calibrator) search(g *Grid, sea float64) (Result, error) {
	if err := c.validate(); err != nil {
		return Result{}, err
	}
	limit := c.MaxPasses
	if limit <= 0 {
		limit = DefaultMaxPasses
	}

	lower, upper := g.Min(), g.Max()
	var res Result
	for pass := 1; ; pass++ {
		mask := newMask(g, sea)
		frac := mask.Fraction()
		res.Trace = append(res.Trace, Pass{Index: pass, SeaLevel: sea, Lower: lower, Upper: upper, Fraction: frac})
		res.SeaLevel, res.Fraction, res.Passes, res.Mask = sea, frac, pass, mask

		if math.Abs(frac-c.Target) <= c.Tolerance {
			return res, nil
		}
		if pass >= limit {
			return res, &ConvergenceError{Passes: pass, Fraction: frac, SeaLevel: sea}
		}
		if frac > c.Target {
			upper = sea
			sea = lower + (sea-lower)/2
		} else {
			lower = sea
			sea += (upper - sea) / 2
		}
	}
}
