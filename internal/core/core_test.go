package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewGridMinimumSize(t *testing.T) {
	g := NewGrid[int](0, -3)
	if g.W != 1 || g.H != 1 || len(g.Cells()) != 1 {
		t.Fatalf("grid = %dx%d with %d cells", g.W, g.H, len(g.Cells()))
	}
}

func TestGridSetAt(t *testing.T) {
	g := NewGrid[float64](3, 3)
	g.Set(2, 1, 4.5)
	if got := g.At(2, 1); got != 4.5 {
		t.Fatalf("At(2,1) = %v, want 4.5", got)
	}
	if got := g.Cells()[g.Index(2, 1)]; got != 4.5 {
		t.Fatalf("backing cell = %v, want 4.5", got)
	}
}

type countdown struct {
	left int
	fail int
}

func (c *countdown) Advance() (bool, error) {
	c.left--
	if c.fail > 0 && c.left == c.fail {
		return false, errors.New("boom")
	}
	return c.left <= 0, nil
}

func TestPacerInterval(t *testing.T) {
	p := NewPacer(50)
	if got := p.Interval(); got != 20*time.Millisecond {
		t.Fatalf("interval = %v, want 20ms", got)
	}
	p.SetTPS(0)
	if got := p.Interval(); got != 0 {
		t.Fatalf("unpaced interval = %v", got)
	}
}

func TestDriveUnpaced(t *testing.T) {
	c := &countdown{left: 5}
	if err := Drive(context.Background(), NewPacer(0), c); err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if c.left != 0 {
		t.Fatalf("expected all steps consumed, %d left", c.left)
	}
}

func TestDriveStopsOnError(t *testing.T) {
	c := &countdown{left: 5, fail: 2}
	if err := Drive(context.Background(), NewPacer(0), c); err == nil {
		t.Fatal("expected error from stepper")
	}
	if c.left != 2 {
		t.Fatalf("expected to stop at the failing step, %d left", c.left)
	}
}

func TestDriveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &countdown{left: 5}
	if err := Drive(ctx, NewPacer(1000), c); !errors.Is(err, context.Canceled) {
		t.Fatalf("Drive error = %v, want context.Canceled", err)
	}
	if c.left != 5 {
		t.Fatalf("no step should run after cancellation, %d left", c.left)
	}
}

func TestSnapshotLookup(t *testing.T) {
	s := ParameterSnapshot{Groups: []ParameterGroup{{
		Name:   "Heightmap",
		Params: []Parameter{FloatParam("entropy", "Entropy", 100), IntParam("power", "Power", 6)},
	}}}
	p, ok := s.Lookup("power")
	if !ok || p.Value != "6" || p.Type != ParamTypeInt {
		t.Fatalf("Lookup(power) = %+v, %v", p, ok)
	}
	if _, ok := s.Lookup("missing"); ok {
		t.Fatal("unexpected parameter found")
	}
}
