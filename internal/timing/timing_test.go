package timing

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeClock advances by a fixed step on every reading.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestStopRecordsInOrder(t *testing.T) {
	clk := &fakeClock{step: 10 * time.Millisecond}
	r := New(clk.now)

	r.Start("Base")
	if _, err := r.Stop("Base"); err != nil {
		t.Fatal(err)
	}
	stop := r.Track("Populate")
	stop()

	got := r.Entries()
	if len(got) != 2 || got[0].Label != "Base" || got[1].Label != "Populate" {
		t.Fatalf("entries = %+v", got)
	}
	for _, e := range got {
		if e.Duration != 10*time.Millisecond {
			t.Fatalf("%s recorded %v, want 10ms", e.Label, e.Duration)
		}
	}
	if r.Total() != 20*time.Millisecond {
		t.Fatalf("total = %v, want 20ms", r.Total())
	}
	if r.Sum("Populate") != 10*time.Millisecond {
		t.Fatalf("Sum(Populate) = %v", r.Sum("Populate"))
	}
}

func TestStopWithoutStart(t *testing.T) {
	r := New(nil)
	if _, err := r.Stop("never"); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	if len(r.Entries()) != 0 {
		t.Fatal("failed stop must not append an entry")
	}
}

func TestStringAlignsLabelsAndAppendsTotal(t *testing.T) {
	clk := &fakeClock{step: time.Second}
	r := New(clk.now)
	for _, label := range []string{"Layer", "Populate", "Composite layer"} {
		r.Start(label)
		if _, err := r.Stop(label); err != nil {
			t.Fatal(err)
		}
	}

	lines := strings.Split(strings.TrimSuffix(r.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", lines)
	}
	want := []string{
		"Layer          : 1s",
		"Populate       : 1s",
		"Composite layer: 1s",
		"total          : 3s",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	r := New(nil)
	r.Track("x")()
	e := r.Entries()
	e[0].Label = "mutated"
	if r.Entries()[0].Label != "x" {
		t.Fatal("Entries must not expose internal storage")
	}
}
