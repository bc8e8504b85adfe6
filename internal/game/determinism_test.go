package game

import (
	"testing"

	"github.com/vovakirdan/thrifty/internal/config"
)

// playThrough runs a whole autopiloted game and returns the final snapshot.
func playThrough(seed int64) (Snapshot, int) {
	e := New(config.Default(), WithSeed(seed))
	NewAutopilot(e)
	e.NewGame()

	events := 0
	e.SetEventHandler(func(Event) { events++ })
	for i := 0; i < 20000; i++ {
		switch e.Status() {
		case StatusRoundComplete, StatusRoundFailed:
			if e.HasNextRound() {
				e.NextRound()
			} else {
				e.EndGame()
			}
		case StatusGameOver:
			return e.Snapshot(), events
		}
		e.Step(1000.0 / 60)
	}
	return e.Snapshot(), events
}

func TestGameDeterminism(t *testing.T) {
	snap1, events1 := playThrough(12345)
	snap2, events2 := playThrough(12345)

	if snap1.Hash() != snap2.Hash() {
		t.Errorf("hashes differ: %d vs %d", snap1.Hash(), snap2.Hash())
	}
	if snap1.TotalScore != snap2.TotalScore {
		t.Errorf("scores differ: %d vs %d", snap1.TotalScore, snap2.TotalScore)
	}
	if events1 != events2 {
		t.Errorf("event counts differ: %d vs %d", events1, events2)
	}
	if snap1.Status != StatusGameOver {
		t.Errorf("game did not finish within the step budget: %s", snap1.Status)
	}
}

func TestAutopilotSteers(t *testing.T) {
	e, _ := newTestEngine(t, config.Default())
	ap := NewAutopilot(e)
	e.StartRound(1)
	silence(e)

	c := e.state.Catcher
	e.state.Items = []FallingItem{{
		ID:       "target",
		Category: CategoryUtility,
		Cost:     300,
		Value:    400,
	}}
	e.state.Items[0].X = c.X + 200
	e.state.Items[0].Y = 100
	e.state.Items[0].W, e.state.Items[0].H = 30, 30

	e.Step(step)
	if e.state.Catcher.X <= c.X {
		t.Errorf("autopilot did not move toward the item: %v -> %v", c.X, e.state.Catcher.X)
	}
	if !ap.IsKeyDown("ArrowRight") || ap.IsKeyDown("ArrowLeft") {
		t.Error("expected only right held")
	}
}

func TestAutopilotDodgesBust(t *testing.T) {
	e, _ := newTestEngine(t, config.Default())
	NewAutopilot(e)
	e.StartRound(1)
	silence(e)
	e.state.Budget = 400

	c := e.state.Catcher
	e.state.Items = []FallingItem{{
		ID:       "too-dear",
		Category: CategoryPremium,
		Cost:     1500,
	}}
	e.state.Items[0].X = c.X + 50
	e.state.Items[0].Y = c.Y - 40
	e.state.Items[0].W, e.state.Items[0].H = 30, 30

	e.Step(step)
	if e.state.Catcher.X >= c.X {
		t.Errorf("autopilot did not dodge left: %v -> %v", c.X, e.state.Catcher.X)
	}
}
