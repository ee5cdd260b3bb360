// Package build runs ordered transform stages against a terrain store, one
// stage per Step, so a frame loop can stay responsive while a world is
// shaped.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"worldgen/internal/terrain"
	"worldgen/internal/timing"
	"worldgen/internal/transform"
)

// PopulateLabel is the timing label recorded around each regeneration.
const PopulateLabel = "Populate"

// ErrAbandoned is returned by Step once a session has been abandoned.
var ErrAbandoned = errors.New("build: session abandoned")

// Status is the state a session is in after a Step.
type Status int

const (
	// StatusPending means no stage has run yet.
	StatusPending Status = iota
	// StatusRunning means at least one stage ran and more remain.
	StatusRunning
	// StatusComplete is reported by the step that finished the last stage.
	StatusComplete
	// StatusAlreadyComplete is reported by every step after completion.
	StatusAlreadyComplete
	// StatusFailed means a stage returned an error and the session halted.
	StatusFailed
	// StatusAbandoned means the session was stopped before finishing.
	StatusAbandoned
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusComplete:
		return "complete"
	case StatusAlreadyComplete:
		return "already complete"
	case StatusFailed:
		return "failed"
	case StatusAbandoned:
		return "abandoned"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether no further stage will run.
func (s Status) Terminal() bool {
	return s != StatusPending && s != StatusRunning
}

// StageError wraps the failure of one stage.
type StageError struct {
	Index int
	Name  string
	Op    Op
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d %q (%v): %v", e.Index, e.Name, e.Op, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Env is what a session works on.
type Env struct {
	Store   terrain.Store
	Service transform.Service
	Log     *slog.Logger
	// Clock feeds the timing recorder; nil means time.Now.
	Clock func() time.Time
}

// StepResult describes what one Step did.
type StepResult struct {
	Status Status
	// Index and Stage identify the stage that ran; Index is -1 when none did.
	Index   int
	Stage   string
	Elapsed time.Duration
}

// Session is a cooperative build in progress. It is not safe for
// concurrent use; the store must not be written by anyone else while a
// Step runs.
type Session struct {
	id      uuid.UUID
	env     Env
	log     *slog.Logger
	stages  []Stage
	next    int
	status  Status
	err     error
	timings *timing.Recorder
}

// Schedule copies stages and returns a pending session. Nothing runs until
// the first Step.
func Schedule(env Env, stages []Stage) *Session {
	s := &Session{
		id:      uuid.New(),
		env:     env,
		stages:  make([]Stage, len(stages)),
		timings: timing.New(env.Clock),
	}
	for i, st := range stages {
		st.Args = append([]any(nil), st.Args...)
		s.stages[i] = st
	}
	log := env.Log
	if log == nil {
		log = slog.Default()
	}
	s.log = log.With("session", s.id.String())
	return s
}

// Step runs exactly one stage and returns. Once every stage has run, the
// step that ran the last one reports StatusComplete and later steps report
// StatusAlreadyComplete without doing anything. A failed stage halts the
// session and every later Step returns the same *StageError.
func (s *Session) Step() (StepResult, error) {
	switch s.status {
	case StatusFailed:
		var se *StageError
		errors.As(s.err, &se)
		return StepResult{Status: StatusFailed, Index: se.Index, Stage: se.Name}, s.err
	case StatusAbandoned:
		return StepResult{Status: StatusAbandoned, Index: -1}, ErrAbandoned
	case StatusComplete, StatusAlreadyComplete:
		s.status = StatusAlreadyComplete
		return StepResult{Status: StatusAlreadyComplete, Index: -1}, nil
	}
	if s.next >= len(s.stages) {
		s.status = StatusComplete
		return StepResult{Status: StatusComplete, Index: -1}, nil
	}

	idx := s.next
	stage := s.stages[idx]
	store := s.env.Store
	store.SetFinalize(stage.Final)
	store.SetAutoUpdate(false)

	s.log.Debug("stage started", "stage", stage.Name, "index", idx, "op", stage.Op.String())
	s.timings.Start(stage.Name)
	err := s.dispatch(stage)
	elapsed, _ := s.timings.Stop(stage.Name)
	if err != nil {
		s.status = StatusFailed
		s.err = &StageError{Index: idx, Name: stage.Name, Op: stage.Op, Err: err}
		s.log.Error("stage failed", "stage", stage.Name, "index", idx, "elapsed", elapsed, "err", err)
		return StepResult{Status: StatusFailed, Index: idx, Stage: stage.Name, Elapsed: elapsed}, s.err
	}

	stop := s.timings.Track(PopulateLabel)
	store.Regenerate()
	stop()
	store.SetAutoUpdate(stage.Final)

	s.next++
	s.status = StatusRunning
	if s.next == len(s.stages) {
		s.status = StatusComplete
	}
	s.log.Info("stage finished", "stage", stage.Name, "index", idx, "elapsed", elapsed)
	return StepResult{Status: s.status, Index: idx, Stage: stage.Name, Elapsed: elapsed}, nil
}

func (s *Session) dispatch(stage Stage) error {
	fn, err := bind(stage)
	if err != nil {
		return err
	}
	return fn(s.env.Service, s.env.Store)
}

// Advance implements core.Stepper.
func (s *Session) Advance() (bool, error) {
	res, err := s.Step()
	if err != nil {
		return true, err
	}
	return res.Status.Terminal(), nil
}

// Run steps the session until it finishes, fails, or ctx is done. ctx is
// only checked between stages. onStep may be nil.
func (s *Session) Run(ctx context.Context, onStep func(StepResult)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.Step()
		if onStep != nil {
			onStep(res)
		}
		if err != nil {
			return err
		}
		if res.Status.Terminal() {
			return nil
		}
	}
}

// Abandon stops a pending or running session. The store keeps whatever
// the last completed stage produced. Finished sessions are left alone.
func (s *Session) Abandon() {
	if s.status.Terminal() {
		return
	}
	s.status = StatusAbandoned
	s.log.Info("session abandoned", "completed", s.next, "total", len(s.stages))
}

// Progress reports how many stages have completed out of the total.
func (s *Session) Progress() (done, total int) { return s.next, len(s.stages) }

// Status returns the current state.
func (s *Session) Status() Status { return s.status }

// Err returns the failure that halted the session, if any.
func (s *Session) Err() error { return s.err }

// Timings exposes the session's timing log.
func (s *Session) Timings() *timing.Recorder { return s.timings }

// ID identifies the session in logs and persisted records.
func (s *Session) ID() uuid.UUID { return s.id }

// Stages returns a copy of the scheduled stages.
func (s *Session) Stages() []Stage { return append([]Stage(nil), s.stages...) }
