package game

import (
	"math"
	"testing"

	"github.com/vovakirdan/thrifty/internal/config"
	"github.com/vovakirdan/thrifty/internal/core"
)

// seqRand replays a fixed sequence of draws, wrapping around.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

type recorder struct {
	events []Event
}

func (r *recorder) handle(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind()
	}
	return out
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T, cfg config.Config, opts ...Option) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{WithSeed(7), WithEventHandler(rec.handle)}, opts...)
	return New(cfg, opts...), rec
}

// silence stops the current round's spawner from producing anything.
func silence(e *Engine) {
	e.spawner.lastSpawn = math.Inf(1)
}

// dropOnCatcher places a motionless item overlapping the catcher.
func dropOnCatcher(e *Engine, id string, cat Category, cost int, value float64) FallingItem {
	c := e.state.Catcher
	it := FallingItem{
		ID:       id,
		Box:      core.Box{X: c.X + 10, Y: c.Y - 5, W: 30, H: 30},
		Category: cat,
		Cost:     cost,
		Value:    value,
	}
	e.state.Items = append(e.state.Items, it)
	return it
}

func dropPowerUp(e *Engine, id string, t PowerUpType) {
	c := e.state.Catcher
	e.state.Items = append(e.state.Items, FallingItem{
		ID:       id,
		Box:      core.Box{X: c.X + 10, Y: c.Y - 5, W: 30, H: 30},
		Category: CategoryPowerUp,
		PowerUp:  t,
	})
}

func singleRound(cfg config.Config) config.Config {
	cfg.Rounds = cfg.Rounds[:1]
	return cfg
}
