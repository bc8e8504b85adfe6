package game

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Clock supplies wall time to the runner.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Observer receives snapshots and events from a Runner. Callbacks run while
// the runner holds its lock and must not call back into the runner.
type Observer interface {
	OnSnapshot(Snapshot)
	OnEvent(Event)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Snapshot func(Snapshot)
	Event    func(Event)
}

func (o ObserverFuncs) OnSnapshot(s Snapshot) {
	if o.Snapshot != nil {
		o.Snapshot(s)
	}
}

func (o ObserverFuncs) OnEvent(ev Event) {
	if o.Event != nil {
		o.Event(ev)
	}
}

// Runner drives an Engine from irregular frame callbacks with a fixed-step
// accumulator. All entry points are serialized; after Stop no further
// steps run and the observer hears nothing more.
type Runner struct {
	mu          sync.Mutex
	engine      *Engine
	observer    Observer
	clock       Clock
	logger      *log.Logger
	stepMs      float64
	maxFrameMs  float64
	accumulator float64
	last        time.Time
	started     bool
	paused      bool
	stopped     bool
	done        chan struct{}
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock replaces the wall clock used by Run.
func WithClock(c Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithRunnerLogger sets the runner's logger.
func WithRunnerLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner wraps e. It takes over the engine's event handler.
func NewRunner(e *Engine, obs Observer, opts ...RunnerOption) *Runner {
	if obs == nil {
		obs = ObserverFuncs{}
	}
	cfg := e.Config()
	r := &Runner{
		engine:     e,
		observer:   obs,
		clock:      systemClock{},
		stepMs:     cfg.StepMs(),
		maxFrameMs: cfg.Physics.MaxFrameMs,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	e.SetEventHandler(func(ev Event) {
		if !r.stopped {
			r.observer.OnEvent(ev)
		}
	})
	return r
}

// Frame is the per-display-frame callback. It absorbs the wall time since
// the previous frame, capped at the max frame time, runs as many fixed steps
// as the accumulator allows and then publishes one snapshot.
// It returns the number of steps run.
func (r *Runner) Frame(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return 0
	}
	if !r.started || r.paused {
		r.started = true
		r.last = now
		r.observer.OnSnapshot(r.engine.Snapshot())
		return 0
	}

	elapsed := float64(now.Sub(r.last)) / float64(time.Millisecond)
	r.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > r.maxFrameMs {
		r.logger.Debug("frame clamped", "elapsed_ms", elapsed, "max_ms", r.maxFrameMs)
		elapsed = r.maxFrameMs
	}
	r.accumulator += elapsed

	steps := 0
	for r.accumulator >= r.stepMs {
		r.engine.Step(r.stepMs)
		r.accumulator -= r.stepMs
		steps++
	}
	r.observer.OnSnapshot(r.engine.Snapshot())
	return steps
}

// Run calls Frame every interval until ctx is done or Stop is called.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	r.Frame(r.clock.Now())
	for {
		select {
		case <-ctx.Done():
			r.Stop()
			return ctx.Err()
		case <-r.done:
			return nil
		case <-ticker.C:
			r.Frame(r.clock.Now())
		}
	}
}

// Stop halts the runner for good. It is safe to call more than once.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	close(r.done)
	r.logger.Debug("runner stopped")
}

// Stopped reports whether Stop was called.
func (r *Runner) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// SetPaused freezes or resumes the simulation. While paused frames only
// resync the clock, so resuming never replays the paused interval.
func (r *Runner) SetPaused(paused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = paused
	r.accumulator = 0
}

// Paused reports whether the runner is paused.
func (r *Runner) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Snapshot returns the current engine snapshot.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Snapshot()
}

// do runs an intent against the engine and publishes the result.
func (r *Runner) do(fn func(*Engine)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	fn(r.engine)
	r.observer.OnSnapshot(r.engine.Snapshot())
}

// StartRound starts round n.
func (r *Runner) StartRound(n int) { r.do(func(e *Engine) { e.StartRound(n) }) }

// NextRound starts the following round.
func (r *Runner) NextRound() { r.do((*Engine).NextRound) }

// NewGame restarts from round 1 with a zero total.
func (r *Runner) NewGame() { r.do((*Engine).NewGame) }

// EndGame finishes the session.
func (r *Runner) EndGame() { r.do((*Engine).EndGame) }

// Advance resolves a finished round: the next round when one remains,
// otherwise game over. It does nothing while a round is in play.
func (r *Runner) Advance() {
	r.do(func(e *Engine) {
		switch e.Status() {
		case StatusRoundComplete, StatusRoundFailed:
			if e.HasNextRound() {
				e.NextRound()
			} else {
				e.EndGame()
			}
		case StatusMenu, StatusGameOver:
			e.NewGame()
		}
	})
}
