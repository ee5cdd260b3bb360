package core

import (
	"context"
	"time"
)

// Pacer spaces cooperative steps at a steady ticks-per-second rate so a
// headless driver behaves like a frame loop.
type Pacer struct {
	step time.Duration
	last time.Time
}

// NewPacer constructs a Pacer targeting the given TPS. A non-positive TPS
// disables pacing.
func NewPacer(tps int) *Pacer {
	p := &Pacer{}
	p.SetTPS(tps)
	return p
}

// SetTPS changes the tick rate.
func (p *Pacer) SetTPS(tps int) {
	if tps <= 0 {
		p.step = 0
		return
	}
	p.step = time.Second / time.Duration(tps)
}

// Interval reports the configured tick length; zero means unpaced.
func (p *Pacer) Interval() time.Duration { return p.step }

// Wait blocks until the next tick is due or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.step == 0 {
		return ctx.Err()
	}
	now := time.Now()
	if p.last.IsZero() {
		p.last = now
		return ctx.Err()
	}
	due := p.last.Add(p.step)
	if wait := due.Sub(now); wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		p.last = due
		return nil
	}
	p.last = now
	return ctx.Err()
}

// Drive advances s once per tick until it reports completion, fails, or ctx
// is cancelled. Cancellation is only observed between steps.
func Drive(ctx context.Context, p *Pacer, s Stepper) error {
	for {
		if err := p.Wait(ctx); err != nil {
			return err
		}
		done, err := s.Advance()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
