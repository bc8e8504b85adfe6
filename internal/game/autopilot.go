package game

import (
	"math"

	"github.com/vovakirdan/thrifty/internal/core"
)

// Autopilot steers the catcher for demos and headless runs. It implements
// core.KeyState by reading the engine it drives, deciding once per tick.
//
// It chases the lowest item worth taking and sidesteps items that would
// bust the budget or hurt.
type Autopilot struct {
	engine    *Engine
	deadzone  float64
	decidedAt uint64
	axis      int
}

// NewAutopilot attaches an autopilot to e and installs it as e's input.
func NewAutopilot(e *Engine) *Autopilot {
	a := &Autopilot{engine: e, deadzone: 6, decidedAt: math.MaxUint64}
	e.SetInput(a)
	return a
}

// IsKeyDown implements core.KeyState.
func (a *Autopilot) IsKeyDown(k core.Key) bool {
	st := &a.engine.state
	if a.decidedAt != st.Tick {
		a.decidedAt = st.Tick
		a.axis = a.decide(st)
	}
	switch k {
	case core.KeyLeft:
		return a.axis < 0
	case core.KeyRight:
		return a.axis > 0
	}
	return false
}

func (a *Autopilot) decide(st *State) int {
	c := st.Catcher.Box
	remaining := SlotCount - st.Slots.Filled()
	reserve := (remaining - 1) * a.cheapestCost()

	wanted := func(it FallingItem) bool {
		if it.IsPowerUp() {
			def, _ := LookupPowerUp(it.PowerUp)
			return def.Beneficial
		}
		return it.Cost <= st.Budget-reserve
	}

	// Dodge first: anything unwanted about to land on the catcher.
	for _, it := range st.Items {
		if wanted(it) || it.Bottom() < c.Y-it.H*2 || it.Y > c.Bottom() {
			continue
		}
		if core.Overlaps(core.Box{X: c.X - 4, Y: it.Y, W: c.W + 8, H: it.H}, it.Box) {
			if it.CenterX() > c.CenterX() {
				return -1
			}
			return 1
		}
	}

	var target *FallingItem
	for i := range st.Items {
		it := &st.Items[i]
		if !wanted(*it) || it.Y > c.Bottom() {
			continue
		}
		if target == nil || it.Y > target.Y {
			target = it
		}
	}
	if target == nil {
		return 0
	}
	dx := target.CenterX() - c.CenterX()
	switch {
	case dx > a.deadzone:
		return 1
	case dx < -a.deadzone:
		return -1
	default:
		return 0
	}
}

func (a *Autopilot) cheapestCost() int {
	cheapest := math.MaxInt
	for _, c := range a.engine.spawn.Categories {
		if c.Weight > 0 && c.MinCost < cheapest {
			cheapest = c.MinCost
		}
	}
	if cheapest == math.MaxInt {
		return 0
	}
	return cheapest
}
