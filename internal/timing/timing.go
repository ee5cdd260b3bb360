// Package timing records named intervals for build diagnostics.
package timing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TotalLabel names the synthesized sum entry appended by String.
const TotalLabel = "total"

// ErrNotStarted reports a Stop without a matching Start.
var ErrNotStarted = errors.New("timing: timer not started")

// Entry is one recorded interval.
type Entry struct {
	Label    string        `json:"label"`
	Duration time.Duration `json:"duration"`
}

// Recorder is a named-interval stopwatch with an append-only log. It is not
// safe for concurrent use.
type Recorder struct {
	now     func() time.Time
	running map[string]time.Time
	entries []Entry
}

// New returns a Recorder reading time from clock, or time.Now when nil.
func New(clock func() time.Time) *Recorder {
	if clock == nil {
		clock = time.Now
	}
	return &Recorder{now: clock, running: make(map[string]time.Time)}
}

// Start begins (or restarts) the timer called label.
func (r *Recorder) Start(label string) {
	r.running[label] = r.now()
}

// Stop ends the timer called label and appends its duration to the log.
func (r *Recorder) Stop(label string) (time.Duration, error) {
	began, ok := r.running[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotStarted, label)
	}
	delete(r.running, label)
	d := r.now().Sub(began)
	r.entries = append(r.entries, Entry{Label: label, Duration: d})
	return d, nil
}

// Track starts label and returns the matching stop function.
// Usage: defer rec.Track("Populate")()
func (r *Recorder) Track(label string) func() {
	r.Start(label)
	return func() { _, _ = r.Stop(label) }
}

// Entries returns a copy of the recorded log in order.
func (r *Recorder) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Total sums every recorded duration.
func (r *Recorder) Total() time.Duration {
	var total time.Duration
	for _, e := range r.entries {
		total += e.Duration
	}
	return total
}

// Sum adds up the durations recorded under label.
func (r *Recorder) Sum(label string) time.Duration {
	var total time.Duration
	for _, e := range r.entries {
		if e.Label == label {
			total += e.Duration
		}
	}
	return total
}

// String lists every entry as "label: duration" followed by the total,
// padding labels to a common width.
func (r *Recorder) String() string {
	width := len(TotalLabel)
	for _, e := range r.entries {
		width = max(width, len(e.Label))
	}
	var b strings.Builder
	for _, e := range r.entries {
		fmt.Fprintf(&b, "%-*s: %s\n", width, e.Label, e.Duration)
	}
	fmt.Fprintf(&b, "%-*s: %s\n", width, TotalLabel, r.Total())
	return b.String()
}
