package core

import "testing"

func TestSpreadRange(t *testing.T) {
	rng := NewRNG(7)
	for i := 0; i < 1000; i++ {
		v := rng.Spread(10)
		if v < -5 || v >= 5 {
			t.Fatalf("draw %d out of range: %f", i, v)
		}
	}
}

func TestSpreadMatchesFloat64(t *testing.T) {
	a := NewRNG(99)
	b := NewRNG(99)
	for i := 0; i < 16; i++ {
		want := b.Float64()*40 - 20
		if got := a.Spread(40); got != want {
			t.Fatalf("draw %d = %v, want %v", i, got, want)
		}
	}
}
