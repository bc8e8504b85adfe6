package game

import (
	"math"

	"github.com/vovakirdan/thrifty/internal/config"
)

// Snapshot is a read-only copy of the engine state plus what a renderer
// needs to draw it.
type Snapshot struct {
	State
	TotalRounds     int
	Playfield       config.Playfield
	RoundDurationMs float64
	// HintItemID is the best-value affordable item while an optimal hint is active.
	HintItemID string
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:       e.state.Clone(),
		TotalRounds: e.cfg.TotalRounds(),
		Playfield:   e.cfg.Playfield,
	}
	if r, err := e.cfg.Round(e.state.Round); err == nil {
		snap.RoundDurationMs = r.DurationMs
	}
	if HasHint(e.state.Effects) {
		snap.HintItemID = bestValueItem(e.state.Items, e.state.Budget)
	}
	return snap
}

// bestValueItem picks the affordable regular item with the highest value per
// unit of cost. Free items rank by value alone.
func bestValueItem(items []FallingItem, budget int) string {
	best, bestRatio := "", math.Inf(-1)
	for _, it := range items {
		if it.IsPowerUp() || it.Cost > budget {
			continue
		}
		ratio := it.Value / math.Max(float64(it.Cost), 1)
		if ratio > bestRatio {
			best, bestRatio = it.ID, ratio
		}
	}
	return best
}

// Hash returns a hash of the simulation state for determinism tests.
func (s Snapshot) Hash() uint64 {
	var h uint64 = 17
	mix := func(v uint64) { h = h*31 + v }
	mixF := func(f float64) { mix(math.Float64bits(f)) }
	mixS := func(str string) {
		for i := 0; i < len(str); i++ {
			mix(uint64(str[i]))
		}
	}

	mixS(string(s.Status))
	mix(uint64(s.Round)) //#nosec G115 -- hashing only
	mix(s.Tick)
	mixF(s.Catcher.X)
	mix(uint64(s.Budget))     //#nosec G115 -- hashing only
	mix(uint64(s.TotalScore)) //#nosec G115 -- hashing only
	mixF(s.TimerMs)
	for _, it := range s.Items {
		mixS(it.ID)
		mixF(it.X)
		mixF(it.Y)
		mix(uint64(it.Cost)) //#nosec G115 -- hashing only
		mixS(string(it.PowerUp))
	}
	for _, it := range s.Slots {
		if it == nil {
			mix(0)
			continue
		}
		mixS(it.ID)
		mixF(it.Value)
	}
	for _, e := range s.Effects {
		mixS(string(e.Type))
		mixF(e.RemainingMs)
		mix(uint64(e.Value)) //#nosec G115 -- hashing only
	}
	return h
}
