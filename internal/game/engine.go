package game

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/thrifty/internal/config"
	"github.com/vovakirdan/thrifty/internal/core"
)

// Engine owns the game state and advances it one fixed step at a time.
// It is not safe for concurrent use; Runner serializes access.
type Engine struct {
	cfg     config.Config
	spawn   SpawnerConfig
	rng     Rand
	ids     io.Reader
	input   core.KeyState
	logger  *log.Logger
	onEvent func(Event)

	state        State
	spawner      *Spawner
	roundClockMs float64
	budgetWarned bool
	timerWarned  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes item generation reproducible. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.rng = NewSimpleRNG(seed)
		e.ids = NewSimpleRNG(seed ^ 0x5DEECE66D)
	}
}

// WithRand substitutes the gameplay random source. Item IDs fall back to uuid's default source.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		e.rng = r
		e.ids = nil
	}
}

// WithInput sets the key state polled at the start of every step.
func WithInput(ks core.KeyState) Option {
	return func(e *Engine) { e.input = ks }
}

// WithLogger sets the logger for state transitions.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithEventHandler registers the event callback.
func WithEventHandler(fn func(Event)) Option {
	return func(e *Engine) { e.onEvent = fn }
}

// New creates an engine in the menu state. cfg must be valid.
func New(cfg config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:   cfg,
		spawn: SpawnerConfigFrom(cfg),
		input: core.NoKeys,
		state: State{Status: StatusMenu},
	}
	WithSeed(0)(e)
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// SetInput swaps the key state provider.
func (e *Engine) SetInput(ks core.KeyState) {
	if ks == nil {
		ks = core.NoKeys
	}
	e.input = ks
}

// SetEventHandler replaces the event callback.
func (e *Engine) SetEventHandler(fn func(Event)) {
	e.onEvent = fn
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Status returns the current state machine position.
func (e *Engine) Status() Status {
	return e.state.Status
}

// TotalRounds returns the length of the round table.
func (e *Engine) TotalRounds() int {
	return e.cfg.TotalRounds()
}

// HasNextRound reports whether another round follows the current one.
func (e *Engine) HasNextRound() bool {
	return e.state.Round < e.cfg.TotalRounds()
}

func (e *Engine) emit(ev Event) {
	e.logger.Debug("event", "kind", ev.Kind(), "round", e.state.Round, "tick", e.state.Tick)
	if e.onEvent != nil {
		e.onEvent(ev)
	}
}

// StartRound resets the playfield for round n (1-based) and starts playing.
// Asking for a round outside the table is a programming error and panics.
func (e *Engine) StartRound(n int) {
	round, err := e.cfg.Round(n)
	if err != nil {
		panic(fmt.Sprintf("game: start round: %v", err))
	}

	cw, ch := e.cfg.Catcher.Width, e.cfg.Catcher.Height
	st := &e.state
	st.Status = StatusPlaying
	st.Round = n
	st.RoundName = round.Name
	st.Catcher = Catcher{Box: core.Box{
		X: (e.cfg.Playfield.Width - cw) / 2,
		Y: e.cfg.Playfield.Height - e.cfg.Catcher.BottomMargin - ch,
		W: cw,
		H: ch,
	}}
	st.Items = nil
	st.Slots = Slots{}
	st.Budget = round.Budget
	st.InitialBudget = round.Budget
	st.TimerMs = round.DurationMs
	st.Effects = nil
	st.FailReason = FailNone

	e.spawner = NewSpawner(e.spawn, round, e.rng, e.ids)
	e.roundClockMs = 0
	e.budgetWarned = false
	e.timerWarned = false

	e.logger.Debug("round started", "round", n, "name", round.Name, "budget", round.Budget)
	e.emit(RoundStarted{Round: n, Name: round.Name})
}

// NextRound advances to the following round. Callers check HasNextRound first.
func (e *Engine) NextRound() {
	e.StartRound(e.state.Round + 1)
}

// NewGame clears the running total and starts round 1.
func (e *Engine) NewGame() {
	e.state = State{Status: StatusMenu}
	e.StartRound(1)
}

// EndGame moves to game_over and announces the final rank.
// It is a no-op when the game is already over.
func (e *Engine) EndGame() {
	if e.state.Status == StatusGameOver {
		return
	}
	e.finish()
}

func (e *Engine) finish() {
	e.state.Status = StatusGameOver
	rank := RankFor(e.state.TotalScore)
	e.logger.Info("game over", "total", e.state.TotalScore, "rank", rank.Grade)
	e.emit(GameOver{TotalScore: e.state.TotalScore, Rank: rank})
}

// Step advances the simulation by dtMs. It does nothing unless playing.
func (e *Engine) Step(dtMs float64) {
	st := &e.state
	if st.Status != StatusPlaying {
		return
	}
	st.Tick++

	st.Catcher.VelocityX = float64(core.Axis(e.input)) * e.cfg.Catcher.Speed
	st.Effects = UpdateEffects(st.Effects, dtMs)

	e.roundClockMs += dtMs
	if item, ok := e.spawner.Update(e.roundClockMs); ok {
		st.Items = append(st.Items, item)
	}

	dt := dtMs / 1000
	speed := SpeedMultiplier(st.Effects)
	for i := range st.Items {
		st.Items[i].Y += st.Items[i].VelocityY * speed * dt
	}
	st.Catcher.X = core.ClampF(st.Catcher.X+st.Catcher.VelocityX*dt, 0, e.cfg.Playfield.Width-st.Catcher.W)

	if e.resolveCollisions() {
		return
	}

	if st.Slots.Filled() == SlotCount {
		e.completeRound()
		return
	}

	if !e.budgetWarned && float64(st.Budget) <= budgetWarnFrac*float64(st.InitialBudget) {
		e.budgetWarned = true
		e.emit(BudgetWarning{Budget: st.Budget, InitialBudget: st.InitialBudget})
	}

	if !IsTimeFrozen(st.Effects) {
		st.TimerMs = math.Max(st.TimerMs-dtMs, 0)
	}
	if !e.timerWarned && st.TimerMs <= timerWarnMs {
		e.timerWarned = true
		e.emit(TimerWarning{RemainingMs: st.TimerMs})
	}
	if st.TimerMs <= 0 && st.Slots.Filled() < SlotCount {
		e.failRound(FailTimeout)
	}
}

// resolveCollisions handles every item touching the catcher and prunes
// consumed and fallen items. It returns true when the round ended.
func (e *Engine) resolveCollisions() bool {
	st := &e.state
	consumed := make(map[string]bool)

	for _, it := range core.FindColliding(st.Catcher.Box, st.Items) {
		if it.IsPowerUp() {
			consumed[it.ID] = true
			eff, tracked := ApplyPowerUp(st, it.PowerUp, e.rng)
			slot := -1
			if tracked && eff.Type == PowerUpSlotLock {
				slot = eff.Value
			}
			e.emit(PowerUpActivated{Type: it.PowerUp, Slot: slot})
			continue
		}

		if st.Budget-it.Cost < 0 {
			e.pruneItems(consumed)
			e.failRound(FailBust)
			return true
		}

		consumed[it.ID] = true
		slot := st.Slots.FirstEmpty(LockedSlotIndex(st.Effects))
		if slot < 0 {
			// No unlocked slot: the item is swallowed before any cost is charged.
			continue
		}
		st.Budget -= it.Cost
		if HasScoreMultiplier(st.Effects) {
			it.Value *= 2
			st.Effects = consumeScoreMultiplier(st.Effects)
		}
		caught := it
		st.Slots[slot] = &caught
		e.emit(ItemCaught{Item: caught, Slot: slot})
	}

	e.pruneItems(consumed)
	return false
}

func (e *Engine) pruneItems(consumed map[string]bool) {
	st := &e.state
	kept := st.Items[:0]
	for _, it := range st.Items {
		if consumed[it.ID] || core.IsOffScreen(it.Box, e.cfg.Playfield.Height) {
			continue
		}
		kept = append(kept, it)
	}
	st.Items = kept
}

func (e *Engine) completeRound() {
	st := &e.state
	score := CalculateRoundScore(st.Slots, st.Budget, st.InitialBudget, st.TimerMs, st.Round, FailNone)
	st.TotalScore += score.Total
	st.LastScore = &score

	e.logger.Info("round complete", "round", st.Round, "score", score.Total, "combos", len(score.Combos))
	e.emit(RoundComplete{Score: score.clone()})
	for _, c := range score.Combos {
		e.emit(ComboAchieved{Combo: c})
	}

	if e.HasNextRound() {
		st.Status = StatusRoundComplete
		return
	}
	e.finish()
}

func (e *Engine) failRound(reason FailReason) {
	st := &e.state
	score := CalculateRoundScore(st.Slots, st.Budget, st.InitialBudget, st.TimerMs, st.Round, reason)
	st.TotalScore += score.Total
	st.LastScore = &score
	st.FailReason = reason
	st.Status = StatusRoundFailed

	e.logger.Info("round failed", "round", st.Round, "reason", reason, "score", score.Total)
	e.emit(RoundFailed{Round: st.Round, Reason: reason, Score: score.clone()})
}
