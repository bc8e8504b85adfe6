package game

// Event is something observers are told about. Events are emitted
// synchronously inside the step that produced them.
type Event interface {
	// Kind is a stable snake_case name, used for logs and JSON output.
	Kind() string
	gameEvent()
}

// RoundStarted fires whenever a round begins.
type RoundStarted struct {
	Round int    `json:"round"`
	Name  string `json:"name"`
}

// ItemCaught fires when a regular item lands in a slot.
type ItemCaught struct {
	Item FallingItem `json:"item"`
	Slot int         `json:"slot"`
}

// PowerUpActivated fires when the catcher touches a power-up.
// Slot is the locked slot for slot_lock and -1 otherwise.
type PowerUpActivated struct {
	Type PowerUpType `json:"type"`
	Slot int         `json:"slot"`
}

// BudgetWarning fires once per round when the budget first falls to 20% or less.
type BudgetWarning struct {
	Budget        int `json:"budget"`
	InitialBudget int `json:"initial_budget"`
}

// TimerWarning fires once per round when the timer first falls to 5s or less.
type TimerWarning struct {
	RemainingMs float64 `json:"remaining_ms"`
}

// RoundComplete fires when all slots are filled.
type RoundComplete struct {
	Score ScoreResult `json:"score"`
}

// RoundFailed fires on bust or timeout.
type RoundFailed struct {
	Round  int         `json:"round"`
	Reason FailReason  `json:"reason"`
	Score  ScoreResult `json:"score"`
}

// ComboAchieved fires once per combo after RoundComplete.
type ComboAchieved struct {
	Combo ComboBonus `json:"combo"`
}

// GameOver fires when the session ends.
type GameOver struct {
	TotalScore int  `json:"total_score"`
	Rank       Rank `json:"rank"`
}

func (RoundStarted) Kind() string     { return "round_started" }
func (ItemCaught) Kind() string       { return "item_caught" }
func (PowerUpActivated) Kind() string { return "power_up_activated" }
func (BudgetWarning) Kind() string    { return "budget_warning" }
func (TimerWarning) Kind() string     { return "timer_warning" }
func (RoundComplete) Kind() string    { return "round_complete" }
func (RoundFailed) Kind() string      { return "round_failed" }
func (ComboAchieved) Kind() string    { return "combo_achieved" }
func (GameOver) Kind() string         { return "game_over" }

func (RoundStarted) gameEvent()     {}
func (ItemCaught) gameEvent()       {}
func (PowerUpActivated) gameEvent() {}
func (BudgetWarning) gameEvent()    {}
func (TimerWarning) gameEvent()     {}
func (RoundComplete) gameEvent()    {}
func (RoundFailed) gameEvent()      {}
func (ComboAchieved) gameEvent()    {}
func (GameOver) gameEvent()         {}
