package game

import (
	"testing"

	"github.com/vovakirdan/thrifty/internal/config"
	"github.com/vovakirdan/thrifty/internal/core"
)

const step = 1000.0 / 60

func TestEngineStartsInMenu(t *testing.T) {
	e, _ := newTestEngine(t, config.Default())
	if e.Status() != StatusMenu {
		t.Errorf("status = %s, want menu", e.Status())
	}
	e.Step(step)
	if e.Snapshot().Tick != 0 {
		t.Error("Step advanced outside of play")
	}
}

func TestStartRoundResets(t *testing.T) {
	e, rec := newTestEngine(t, config.Default())
	e.StartRound(2)

	snap := e.Snapshot()
	if snap.Status != StatusPlaying || snap.Round != 2 || snap.RoundName != "Medium" {
		t.Errorf("round state = %s %d %q", snap.Status, snap.Round, snap.RoundName)
	}
	if snap.Budget != 4000 || snap.InitialBudget != 4000 || snap.TimerMs != 30000 {
		t.Errorf("budget/timer = %d/%d/%v", snap.Budget, snap.InitialBudget, snap.TimerMs)
	}
	if snap.Catcher.X != 360 || snap.Catcher.Y != 480 {
		t.Errorf("catcher at (%v, %v), want (360, 480)", snap.Catcher.X, snap.Catcher.Y)
	}
	if rec.count("round_started") != 1 {
		t.Errorf("events = %v", rec.kinds())
	}
}

func TestStartRoundInvalidPanics(t *testing.T) {
	e, _ := newTestEngine(t, config.Default())
	defer func() {
		if recover() == nil {
			t.Error("expected panic for round 4")
		}
	}()
	e.StartRound(4)
}

func TestEngineCompletesRound(t *testing.T) {
	e, rec := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)

	items := []FallingItem{
		dropOnCatcher(e, "w", CategoryWeapon, 500, 600),
		dropOnCatcher(e, "s", CategoryShield, 500, 500),
		dropOnCatcher(e, "u", CategoryUtility, 500, 400),
		dropOnCatcher(e, "p", CategoryPremium, 500, 900),
		dropOnCatcher(e, "b", CategoryBonus, 500, 50),
	}
	e.Step(step)

	snap := e.Snapshot()
	if snap.Status != StatusRoundComplete {
		t.Fatalf("status = %s, want round_complete", snap.Status)
	}
	if snap.LastScore == nil {
		t.Fatal("no last score recorded")
	}
	var sum float64
	for _, it := range items {
		sum += it.Value
	}
	if snap.LastScore.ItemValue != sum {
		t.Errorf("item value = %v, want %v", snap.LastScore.ItemValue, sum)
	}
	if snap.TotalScore != snap.LastScore.Total {
		t.Errorf("total %d != last %d", snap.TotalScore, snap.LastScore.Total)
	}
	if snap.Budget != 2500 {
		t.Errorf("budget = %d, want 2500", snap.Budget)
	}
	if len(snap.Items) != 0 {
		t.Errorf("caught items still falling: %d", len(snap.Items))
	}
	if rec.count("item_caught") != 5 || rec.count("round_complete") != 1 {
		t.Errorf("events = %v", rec.kinds())
	}
	if rec.count("combo_achieved") != len(snap.LastScore.Combos) {
		t.Errorf("combo events = %d, combos = %d", rec.count("combo_achieved"), len(snap.LastScore.Combos))
	}
	for i, it := range snap.Slots {
		if it == nil || it.ID != items[i].ID {
			t.Errorf("slot %d = %+v", i, it)
		}
	}

	e.NextRound()
	if s := e.Snapshot(); s.Round != 2 || s.Slots.Filled() != 0 || s.TotalScore == 0 {
		t.Errorf("next round did not carry total or clear slots: %+v", s.State)
	}
}

func TestEngineFinalRoundEndsGame(t *testing.T) {
	e, rec := newTestEngine(t, singleRound(config.Default()))
	e.StartRound(1)
	silence(e)
	for i, cat := range []Category{CategoryWeapon, CategoryWeapon, CategoryShield, CategoryShield, CategoryBonus} {
		dropOnCatcher(e, string(rune('a'+i)), cat, 100, 100)
	}
	e.Step(step)

	if e.Status() != StatusGameOver {
		t.Fatalf("status = %s, want game_over", e.Status())
	}
	kinds := rec.kinds()
	if kinds[len(kinds)-1] != "game_over" {
		t.Errorf("last event = %s, want game_over", kinds[len(kinds)-1])
	}
	if e.HasNextRound() {
		t.Error("HasNextRound true on the final round")
	}
}

func TestEngineBust(t *testing.T) {
	e, rec := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)

	dropOnCatcher(e, "first", CategoryWeapon, 600, 700)
	e.Step(step)
	dropOnCatcher(e, "greedy", CategoryPremium, 4500, 4000)
	e.Step(step)

	snap := e.Snapshot()
	if snap.Status != StatusRoundFailed || snap.FailReason != FailBust {
		t.Fatalf("status = %s reason = %q", snap.Status, snap.FailReason)
	}
	if snap.Slots[0] == nil || snap.Slots[0].ID != "first" || snap.Slots.Filled() != 1 {
		t.Errorf("slots before the bust lost: %+v", snap.Slots)
	}
	if snap.Budget != 4400 {
		t.Errorf("bust must not deduct: budget = %d", snap.Budget)
	}
	if snap.LastScore == nil || snap.LastScore.Total != 0 || snap.TotalScore != 0 {
		t.Errorf("bust scored: %+v total=%d", snap.LastScore, snap.TotalScore)
	}
	kinds := rec.kinds()
	if kinds[len(kinds)-1] != "round_failed" {
		t.Errorf("last event = %s", kinds[len(kinds)-1])
	}

	before := snap.Tick
	e.Step(step)
	if e.Snapshot().Tick != before {
		t.Error("engine kept stepping after the round failed")
	}
}

func TestEngineEventOrderWithinTick(t *testing.T) {
	e, rec := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)

	dropPowerUp(e, "slow", PowerUpSlowMotion)
	dropOnCatcher(e, "cheap", CategoryWeapon, 600, 700)
	dropOnCatcher(e, "greedy", CategoryPremium, 9000, 8000)
	e.Step(step)

	want := []string{"round_started", "power_up_activated", "item_caught", "round_failed"}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
	if e.state.Slots.Filled() != 1 || e.state.Budget != 4400 {
		t.Errorf("slots = %d budget = %d, want 1 and 4400", e.state.Slots.Filled(), e.state.Budget)
	}
}

func TestEngineCatchWithNoFreeSlot(t *testing.T) {
	e, rec := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)

	for i := 0; i < SlotCount-1; i++ {
		e.state.Slots[i] = &FallingItem{ID: string(rune('a' + i)), Category: CategoryUtility, Cost: 100, Value: 100}
	}
	e.state.Effects = []PowerUpEffect{{Type: PowerUpSlotLock, RemainingMs: 5000, Value: SlotCount - 1}}
	budget := e.state.Budget

	dropOnCatcher(e, "stray", CategoryWeapon, 500, 500)
	e.Step(step)

	if got := rec.kinds(); len(got) != 1 || got[0] != "round_started" {
		t.Errorf("events = %v, want only round_started", got)
	}
	if e.state.Slots.Filled() != SlotCount-1 {
		t.Errorf("filled = %d, want %d", e.state.Slots.Filled(), SlotCount-1)
	}
	if e.state.Budget != budget {
		t.Errorf("budget = %d, want %d", e.state.Budget, budget)
	}
	if len(e.state.Items) != 0 {
		t.Errorf("stray item still falling: %+v", e.state.Items)
	}
	if e.state.Status != StatusPlaying {
		t.Errorf("status = %s, want playing", e.state.Status)
	}
}

func TestEngineTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Rounds[0].DurationMs = 100
	e, rec := newTestEngine(t, cfg)
	e.StartRound(1)
	silence(e)

	dropOnCatcher(e, "one", CategoryShield, 300, 330)
	for i := 0; i < 10; i++ {
		e.Step(step)
	}

	snap := e.Snapshot()
	if snap.Status != StatusRoundFailed || snap.FailReason != FailTimeout {
		t.Fatalf("status = %s reason = %q", snap.Status, snap.FailReason)
	}
	if snap.TimerMs != 0 {
		t.Errorf("timer = %v, want 0", snap.TimerMs)
	}
	if snap.TotalScore != 100 || snap.LastScore.Total != 100 {
		t.Errorf("timeout with one slot should score 100, got %d", snap.TotalScore)
	}
	if rec.count("timer_warning") != 1 {
		t.Errorf("timer warnings = %d", rec.count("timer_warning"))
	}
}

func TestEngineCatcherClamped(t *testing.T) {
	for _, tc := range []struct {
		name string
		keys core.KeySet
		want float64
	}{
		{"left", core.KeySet{core.KeyLeft: true}, 0},
		{"right", core.KeySet{core.KeyD: true}, 720},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine(t, config.Default(), WithInput(tc.keys))
			e.StartRound(1)
			silence(e)
			for i := 0; i < 300; i++ {
				e.Step(step)
				x := e.state.Catcher.X
				if x < 0 || x > 720 {
					t.Fatalf("catcher escaped: x = %v", x)
				}
			}
			if e.state.Catcher.X != tc.want {
				t.Errorf("x = %v, want %v", e.state.Catcher.X, tc.want)
			}
		})
	}
}

func TestEngineBothKeysCancel(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), WithInput(core.KeySet{core.KeyLeft: true, core.KeyRight: true}))
	e.StartRound(1)
	silence(e)
	e.Step(step)
	if e.state.Catcher.X != 360 || e.state.Catcher.VelocityX != 0 {
		t.Errorf("catcher moved: %+v", e.state.Catcher)
	}
}

func TestEnginePowerUps(t *testing.T) {
	e, rec := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)

	dropPowerUp(e, "boost", PowerUpBudgetBoost)
	e.Step(step)
	if e.state.Budget != 5500 {
		t.Errorf("budget = %d, want 5500", e.state.Budget)
	}
	if e.state.Slots.Filled() != 0 {
		t.Error("power-up occupied a slot")
	}
	if rec.count("power_up_activated") != 1 {
		t.Errorf("events = %v", rec.kinds())
	}

	dropPowerUp(e, "x2", PowerUpScoreMultiplier)
	e.Step(step)
	dropOnCatcher(e, "doubled", CategoryUtility, 200, 300)
	e.Step(step)
	if got := e.state.Slots[0].Value; got != 600 {
		t.Errorf("multiplied value = %v, want 600", got)
	}
	if HasScoreMultiplier(e.state.Effects) {
		t.Error("multiplier charge not consumed")
	}
}

func TestEngineSlotLock(t *testing.T) {
	e, _ := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)
	e.state.Effects = []PowerUpEffect{{Type: PowerUpSlotLock, RemainingMs: 5000, Value: 0}}

	dropOnCatcher(e, "a", CategoryWeapon, 500, 500)
	e.Step(step)
	if e.state.Slots[0] != nil || e.state.Slots[1] == nil {
		t.Errorf("locked slot was filled: %+v", e.state.Slots)
	}
}

func TestEngineTimeFreeze(t *testing.T) {
	e, _ := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)
	e.state.Effects = []PowerUpEffect{{Type: PowerUpTimeFreeze, RemainingMs: 1000}}

	e.Step(step)
	if e.state.TimerMs != 35000 {
		t.Errorf("timer moved while frozen: %v", e.state.TimerMs)
	}
	e.state.Effects = nil
	e.Step(step)
	if e.state.TimerMs >= 35000 {
		t.Error("timer did not resume")
	}
}

func TestEngineBudgetWarningOnce(t *testing.T) {
	e, rec := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)

	dropOnCatcher(e, "big", CategoryPremium, 4000, 3600)
	e.Step(step)
	dropOnCatcher(e, "small", CategoryBonus, 10, 20)
	e.Step(step)

	if rec.count("budget_warning") != 1 {
		t.Errorf("budget warnings = %d, want 1", rec.count("budget_warning"))
	}
}

func TestEngineItemsFallAndVanish(t *testing.T) {
	e, _ := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)
	e.state.Items = []FallingItem{{
		ID:        "miss",
		Box:       core.Box{X: 10, Y: 595, W: 30, H: 30},
		VelocityY: 600,
		Category:  CategoryWeapon,
		Cost:      500,
	}}

	e.Step(step)
	if len(e.state.Items) != 0 {
		t.Errorf("off-screen item kept: %+v", e.state.Items)
	}
	if e.state.Budget != 5000 {
		t.Error("missed item cost budget")
	}
}

func TestEngineHintSnapshot(t *testing.T) {
	e, _ := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)
	e.state.Items = []FallingItem{
		{ID: "meh", Category: CategoryWeapon, Cost: 1000, Value: 900},
		{ID: "deal", Category: CategoryUtility, Cost: 200, Value: 280},
		{ID: "pricey", Category: CategoryPremium, Cost: 9000, Value: 20000},
	}

	if e.Snapshot().HintItemID != "" {
		t.Error("hint shown without the power-up")
	}
	e.state.Effects = []PowerUpEffect{{Type: PowerUpOptimalHint, RemainingMs: 4000}}
	if got := e.Snapshot().HintItemID; got != "deal" {
		t.Errorf("hint = %q, want deal", got)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	e, _ := newTestEngine(t, config.Default())
	e.StartRound(1)
	silence(e)
	dropOnCatcher(e, "a", CategoryWeapon, 500, 500)
	e.Step(step)

	snap := e.Snapshot()
	snap.Slots[0].Value = 1
	snap.Effects = append(snap.Effects, PowerUpEffect{Type: PowerUpTimeFreeze})
	if e.state.Slots[0].Value == 1 || len(e.state.Effects) != 0 {
		t.Error("snapshot shares memory with engine state")
	}
}

func TestEndGameAndNewGame(t *testing.T) {
	e, rec := newTestEngine(t, config.Default())
	e.StartRound(1)
	e.state.TotalScore = 21000
	e.EndGame()
	e.EndGame()

	if rec.count("game_over") != 1 {
		t.Errorf("game_over events = %d, want 1", rec.count("game_over"))
	}
	last := rec.events[len(rec.events)-1].(GameOver)
	if last.Rank.Grade != "C" || last.TotalScore != 21000 {
		t.Errorf("game over = %+v", last)
	}

	e.NewGame()
	if s := e.Snapshot(); s.Status != StatusPlaying || s.Round != 1 || s.TotalScore != 0 {
		t.Errorf("new game state = %s round %d total %d", s.Status, s.Round, s.TotalScore)
	}
}
