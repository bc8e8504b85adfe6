package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/thrifty/internal/config"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type countingObserver struct {
	mu        sync.Mutex
	snapshots int
	events    []Event
	last      Snapshot
}

func (o *countingObserver) OnSnapshot(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshots++
	o.last = s
}

func (o *countingObserver) OnEvent(ev Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

// fiftyHz uses a 20ms step so accumulator arithmetic stays exact.
func fiftyHz() config.Config {
	cfg := config.Default()
	cfg.Physics.TickRate = 50
	return cfg
}

func TestRunnerAccumulator(t *testing.T) {
	e := New(fiftyHz(), WithSeed(1))
	obs := &countingObserver{}
	r := NewRunner(e, obs)
	r.StartRound(1)

	t0 := time.Unix(1000, 0)
	if n := r.Frame(t0); n != 0 {
		t.Errorf("first frame ran %d steps", n)
	}
	if n := r.Frame(t0.Add(50 * time.Millisecond)); n != 2 {
		t.Errorf("50ms ran %d steps, want 2", n)
	}
	if n := r.Frame(t0.Add(80 * time.Millisecond)); n != 2 {
		t.Errorf("carry-over ran %d steps, want 2", n)
	}
	if n := r.Frame(t0.Add(85 * time.Millisecond)); n != 0 {
		t.Errorf("5ms ran %d steps, want 0", n)
	}
	if got := e.Snapshot().Tick; got != 4 {
		t.Errorf("tick = %d, want 4", got)
	}
	if obs.snapshots != 5 { // StartRound + four frames
		t.Errorf("snapshots = %d, want 5", obs.snapshots)
	}
}

func TestRunnerClampsLongFrames(t *testing.T) {
	e := New(fiftyHz(), WithSeed(1))
	r := NewRunner(e, nil)
	r.StartRound(1)

	t0 := time.Unix(1000, 0)
	r.Frame(t0)
	if n := r.Frame(t0.Add(time.Hour)); n != 50 {
		t.Errorf("suspended hour ran %d steps, want 50", n)
	}
	if n := r.Frame(t0.Add(time.Hour - time.Second)); n != 0 {
		t.Errorf("clock going backwards ran %d steps", n)
	}
}

func TestRunnerStop(t *testing.T) {
	e := New(fiftyHz(), WithSeed(1))
	obs := &countingObserver{}
	r := NewRunner(e, obs)
	r.StartRound(1)

	t0 := time.Unix(1000, 0)
	r.Frame(t0)
	r.Stop()
	r.Stop()

	seen := obs.snapshots
	if n := r.Frame(t0.Add(time.Second)); n != 0 {
		t.Errorf("stopped runner ran %d steps", n)
	}
	r.NextRound()
	if obs.snapshots != seen {
		t.Error("observer notified after Stop")
	}
	if !r.Stopped() {
		t.Error("Stopped() = false")
	}
}

func TestRunnerPauseResyncs(t *testing.T) {
	e := New(fiftyHz(), WithSeed(1))
	r := NewRunner(e, nil)
	r.StartRound(1)

	t0 := time.Unix(1000, 0)
	r.Frame(t0)
	r.SetPaused(true)
	if n := r.Frame(t0.Add(500 * time.Millisecond)); n != 0 {
		t.Errorf("paused frame ran %d steps", n)
	}
	r.SetPaused(false)
	if n := r.Frame(t0.Add(540 * time.Millisecond)); n != 2 {
		t.Errorf("resumed frame ran %d steps, want 2", n)
	}
}

func TestRunnerForwardsEvents(t *testing.T) {
	e := New(fiftyHz(), WithSeed(1))
	obs := &countingObserver{}
	r := NewRunner(e, obs)
	r.NewGame()

	if len(obs.events) != 1 || obs.events[0].Kind() != "round_started" {
		t.Errorf("events = %+v", obs.events)
	}
	if obs.last.Status != StatusPlaying {
		t.Errorf("last snapshot status = %s", obs.last.Status)
	}
}

func TestRunnerAdvance(t *testing.T) {
	e := New(singleRound(fiftyHz()), WithSeed(1))
	obs := &countingObserver{}
	r := NewRunner(e, obs)

	r.Advance()
	if e.Status() != StatusPlaying {
		t.Fatalf("Advance from menu: %s", e.Status())
	}
	r.Advance()
	if e.Status() != StatusPlaying {
		t.Error("Advance interrupted a round in play")
	}

	e.state.Status = StatusRoundFailed
	r.Advance()
	if e.Status() != StatusGameOver {
		t.Errorf("Advance after the last round: %s", e.Status())
	}
}

func TestRunnerRunUntilStopped(t *testing.T) {
	clock := &manualClock{now: time.Unix(1000, 0)}
	e := New(fiftyHz(), WithSeed(1))
	r := NewRunner(e, nil, WithClock(clock))
	r.StartRound(1)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background(), time.Millisecond) }()

	r.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v after Stop", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestRunnerRunHonoursContext(t *testing.T) {
	e := New(fiftyHz(), WithSeed(1))
	r := NewRunner(e, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run ignored cancellation")
	}
	if !r.Stopped() {
		t.Error("cancelled Run left the runner live")
	}
}
