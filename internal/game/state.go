package game

// Status is the engine's state machine position.
type Status string

const (
	StatusMenu          Status = "menu"
	StatusPlaying       Status = "playing"
	StatusRoundComplete Status = "round_complete"
	StatusRoundFailed   Status = "round_failed"
	StatusGameOver      Status = "game_over"
)

// State is the single aggregate the engine mutates. Observers only ever see
// deep copies of it.
type State struct {
	Status        Status
	Round         int
	RoundName     string
	Catcher       Catcher
	Items         []FallingItem
	Slots         Slots
	Budget        int
	InitialBudget int
	TimerMs       float64
	TotalScore    int
	Effects       []PowerUpEffect
	LastScore     *ScoreResult
	FailReason    FailReason
	Tick          uint64
}

// Clone returns a deep copy.
func (s *State) Clone() State {
	c := *s
	c.Items = append([]FallingItem(nil), s.Items...)
	c.Effects = append([]PowerUpEffect(nil), s.Effects...)
	c.Slots = s.Slots.clone()
	if s.LastScore != nil {
		ls := s.LastScore.clone()
		c.LastScore = &ls
	}
	return c
}
