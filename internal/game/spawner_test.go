package game

import (
	"testing"

	"github.com/vovakirdan/thrifty/internal/config"
)

func testSpawner(rng Rand) *Spawner {
	cfg := config.Default()
	return NewSpawner(SpawnerConfigFrom(cfg), cfg.Rounds[0], rng, nil)
}

func TestSpawnerInterval(t *testing.T) {
	// category, cost, value, x, conversion roll
	s := testSpawner(&seqRand{vals: []float64{0, 0.5, 0.5, 0, 0.9}})

	if _, ok := s.Update(0); !ok {
		t.Fatal("first update must spawn")
	}
	if _, ok := s.Update(1399); ok {
		t.Error("spawned before the interval elapsed")
	}
	if _, ok := s.Update(1400); !ok {
		t.Error("expected a spawn once the interval elapsed")
	}
	if s.Spawned() != 2 {
		t.Errorf("Spawned = %d", s.Spawned())
	}
}

func TestSpawnerItemRolls(t *testing.T) {
	s := testSpawner(&seqRand{vals: []float64{0, 0.5, 0.5, 0, 0.9}})
	it, _ := s.Update(0)

	if it.Category != CategoryWeapon {
		t.Errorf("category = %s", it.Category)
	}
	if it.Cost != 1000 {
		t.Errorf("cost = %d, want 1000", it.Cost)
	}
	if it.Value != 1000 {
		t.Errorf("value = %v, want 1000", it.Value)
	}
	if it.X != 80 || it.Y != -30 || it.W != 30 || it.H != 30 {
		t.Errorf("box = %+v", it.Box)
	}
	if it.VelocityY != 150 {
		t.Errorf("vy = %v", it.VelocityY)
	}
	if it.IsPowerUp() || it.ID == "" {
		t.Errorf("unexpected item %+v", it)
	}
}

func TestSpawnerBoundsAtExtremes(t *testing.T) {
	s := testSpawner(&seqRand{vals: []float64{0.999999, 0.999999, 0.999999, 0.999999, 0.9}})
	it, _ := s.Update(0)

	if it.Category != CategoryBonus {
		t.Errorf("category = %s", it.Category)
	}
	if it.Cost < 0 || it.Cost > 100 {
		t.Errorf("cost %d outside bonus range", it.Cost)
	}
	if it.X < 80 || it.Right() > 720 {
		t.Errorf("x = %v escapes [10%%, 90%%]", it.X)
	}
}

func TestSpawnerPowerUpConversion(t *testing.T) {
	s := testSpawner(&seqRand{vals: []float64{0, 0.5, 0.5, 0.25, 0.1, 0}})
	it, _ := s.Update(0)

	if !it.IsPowerUp() || it.PowerUp != PowerUpSlowMotion {
		t.Fatalf("expected slow motion power-up, got %+v", it)
	}
	if it.Category != CategoryPowerUp || it.Cost != 0 || it.Value != 0 {
		t.Errorf("power-up kept item economics: %+v", it)
	}
	if it.VelocityY != 150 {
		t.Errorf("power-up vy = %v", it.VelocityY)
	}
}

func TestSpawnerSeededIDs(t *testing.T) {
	cfg := config.Default()
	a := NewSpawner(SpawnerConfigFrom(cfg), cfg.Rounds[0], NewSimpleRNG(1), NewSimpleRNG(2))
	b := NewSpawner(SpawnerConfigFrom(cfg), cfg.Rounds[0], NewSimpleRNG(1), NewSimpleRNG(2))

	ia, _ := a.Update(0)
	ib, _ := b.Update(0)
	if ia.ID != ib.ID {
		t.Errorf("seeded IDs differ: %s vs %s", ia.ID, ib.ID)
	}
	ia2, _ := a.Update(5000)
	if ia2.ID == ia.ID {
		t.Error("IDs repeated")
	}
}
