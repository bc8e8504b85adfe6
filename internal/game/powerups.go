package game

// PowerUpType identifies a power-up. The empty string means "not a power-up".
type PowerUpType string

const (
	PowerUpSlowMotion      PowerUpType = "slow_motion"
	PowerUpBudgetBoost     PowerUpType = "budget_boost"
	PowerUpOptimalHint     PowerUpType = "optimal_hint"
	PowerUpTimeFreeze      PowerUpType = "time_freeze"
	PowerUpScoreMultiplier PowerUpType = "score_multiplier"
	PowerUpBudgetDrain     PowerUpType = "budget_drain"
	PowerUpSpeedUp         PowerUpType = "speed_up"
	PowerUpSlotLock        PowerUpType = "slot_lock"
	PowerUpPointDrain      PowerUpType = "point_drain"
)

// Instant effect magnitudes.
const (
	BudgetBoostAmount = 500
	BudgetDrainAmount = 300
	PointDrainAmount  = 200
)

// EffectKind says how a power-up resolves once caught.
type EffectKind int

const (
	// EffectInstant mutates budget or score on pickup and is never tracked.
	EffectInstant EffectKind = iota
	// EffectTimed stays active until its duration runs out.
	EffectTimed
	// EffectCharge stays active until the next regular catch consumes it.
	EffectCharge
)

// PowerUpDefinition is one catalog row.
type PowerUpDefinition struct {
	Type       PowerUpType
	Name       string
	Kind       EffectKind
	DurationMs float64
	DropWeight float64
	Beneficial bool
}

// Order matters for weighted selection.
var powerUpCatalog = [...]PowerUpDefinition{
	{Type: PowerUpSlowMotion, Name: "Slow Motion", Kind: EffectTimed, DurationMs: 5000, DropWeight: 4, Beneficial: true},
	{Type: PowerUpBudgetBoost, Name: "Budget Boost", Kind: EffectInstant, DropWeight: 3, Beneficial: true},
	{Type: PowerUpOptimalHint, Name: "Optimal Hint", Kind: EffectTimed, DurationMs: 4000, DropWeight: 3, Beneficial: true},
	{Type: PowerUpTimeFreeze, Name: "Time Freeze", Kind: EffectTimed, DurationMs: 3000, DropWeight: 2, Beneficial: true},
	{Type: PowerUpScoreMultiplier, Name: "Score x2", Kind: EffectCharge, DropWeight: 3, Beneficial: true},
	{Type: PowerUpBudgetDrain, Name: "Budget Drain", Kind: EffectInstant, DropWeight: 4},
	{Type: PowerUpSpeedUp, Name: "Speed Up", Kind: EffectTimed, DurationMs: 4000, DropWeight: 3},
	{Type: PowerUpSlotLock, Name: "Slot Lock", Kind: EffectTimed, DurationMs: 5000, DropWeight: 2},
	{Type: PowerUpPointDrain, Name: "Point Drain", Kind: EffectInstant, DropWeight: 2},
}

// PowerUps returns a copy of the catalog in selection order.
func PowerUps() []PowerUpDefinition {
	out := make([]PowerUpDefinition, len(powerUpCatalog))
	copy(out, powerUpCatalog[:])
	return out
}

// LookupPowerUp returns the catalog entry for t.
func LookupPowerUp(t PowerUpType) (PowerUpDefinition, bool) {
	for _, def := range powerUpCatalog {
		if def.Type == t {
			return def, true
		}
	}
	return PowerUpDefinition{}, false
}

// String returns the display name.
func (t PowerUpType) String() string {
	if def, ok := LookupPowerUp(t); ok {
		return def.Name
	}
	return string(t)
}

// Glyph returns the single-cell marker used by the terminal renderer.
func (t PowerUpType) Glyph() rune {
	switch t {
	case PowerUpSlowMotion:
		return '~'
	case PowerUpBudgetBoost:
		return '$'
	case PowerUpOptimalHint:
		return '?'
	case PowerUpTimeFreeze:
		return '*'
	case PowerUpScoreMultiplier:
		return 'x'
	case PowerUpBudgetDrain:
		return '!'
	case PowerUpSpeedUp:
		return '>'
	case PowerUpSlotLock:
		return '#'
	case PowerUpPointDrain:
		return '-'
	default:
		return '?'
	}
}

// PowerUpChance is the probability that a spawned item becomes a power-up:
// the catalog drop weights read as percentages.
func PowerUpChance() float64 {
	var sum float64
	for _, def := range powerUpCatalog {
		sum += def.DropWeight
	}
	return sum / 100
}

// SelectPowerUp picks a power-up type by drop weight.
func SelectPowerUp(rng Rand) PowerUpType {
	weights := make([]float64, len(powerUpCatalog))
	for i, def := range powerUpCatalog {
		weights[i] = def.DropWeight
	}
	return powerUpCatalog[SelectWeighted(weights, rng)].Type
}

// PowerUpEffect is an active timed or charge effect.
type PowerUpEffect struct {
	Type        PowerUpType `json:"type"`
	RemainingMs float64     `json:"remaining_ms"`
	// Value carries the locked slot index for slot_lock.
	Value int `json:"value"`
}

// ApplyPowerUp resolves a caught power-up against st. Instant types change
// budget or total score, floored at zero. Timed and charge types append a
// fresh effect; repeats stack rather than refresh. rng picks the slot for
// slot_lock. The applied effect, if any, is returned.
func ApplyPowerUp(st *State, t PowerUpType, rng Rand) (PowerUpEffect, bool) {
	def, ok := LookupPowerUp(t)
	if !ok {
		return PowerUpEffect{}, false
	}
	switch def.Kind {
	case EffectInstant:
		switch t {
		case PowerUpBudgetBoost:
			st.Budget += BudgetBoostAmount
		case PowerUpBudgetDrain:
			st.Budget = max(st.Budget-BudgetDrainAmount, 0)
		case PowerUpPointDrain:
			st.TotalScore = max(st.TotalScore-PointDrainAmount, 0)
		}
		return PowerUpEffect{}, false
	}

	eff := PowerUpEffect{Type: t, RemainingMs: def.DurationMs}
	if t == PowerUpSlotLock {
		eff.Value = -1
		if empty := st.Slots.Empty(); len(empty) > 0 {
			i := int(rng.Float64() * float64(len(empty)))
			eff.Value = empty[min(i, len(empty)-1)]
		}
	}
	st.Effects = append(st.Effects, eff)
	return eff, true
}

// UpdateEffects returns a new slice with every timed effect decremented by
// dtMs and expired ones dropped. Charge effects pass through untouched.
// A zero dt leaves the set unchanged.
func UpdateEffects(effects []PowerUpEffect, dtMs float64) []PowerUpEffect {
	out := make([]PowerUpEffect, 0, len(effects))
	for _, e := range effects {
		if isCharge(e.Type) {
			out = append(out, e)
			continue
		}
		e.RemainingMs -= dtMs
		if e.RemainingMs <= 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

func isCharge(t PowerUpType) bool {
	def, ok := LookupPowerUp(t)
	return ok && def.Kind == EffectCharge
}

// SpeedMultiplier combines every slow and speed effect multiplicatively.
func SpeedMultiplier(effects []PowerUpEffect) float64 {
	m := 1.0
	for _, e := range effects {
		switch e.Type {
		case PowerUpSlowMotion:
			m *= 0.5
		case PowerUpSpeedUp:
			m *= 1.5
		}
	}
	return m
}

func hasEffect(effects []PowerUpEffect, t PowerUpType) bool {
	for _, e := range effects {
		if e.Type == t {
			return true
		}
	}
	return false
}

// IsTimeFrozen reports an active time freeze.
func IsTimeFrozen(effects []PowerUpEffect) bool {
	return hasEffect(effects, PowerUpTimeFreeze)
}

// HasScoreMultiplier reports an unspent score multiplier charge.
func HasScoreMultiplier(effects []PowerUpEffect) bool {
	return hasEffect(effects, PowerUpScoreMultiplier)
}

// HasHint reports an active optimal hint.
func HasHint(effects []PowerUpEffect) bool {
	return hasEffect(effects, PowerUpOptimalHint)
}

// LockedSlotIndex returns the slot held by the first active slot lock, or -1.
func LockedSlotIndex(effects []PowerUpEffect) int {
	for _, e := range effects {
		if e.Type == PowerUpSlotLock {
			return e.Value
		}
	}
	return -1
}

// consumeScoreMultiplier removes one multiplier charge.
func consumeScoreMultiplier(effects []PowerUpEffect) []PowerUpEffect {
	out := make([]PowerUpEffect, 0, len(effects))
	spent := false
	for _, e := range effects {
		if !spent && e.Type == PowerUpScoreMultiplier {
			spent = true
			continue
		}
		out = append(out, e)
	}
	return out
}
