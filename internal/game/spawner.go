package game

import (
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/vovakirdan/thrifty/internal/config"
	"github.com/vovakirdan/thrifty/internal/core"
)

// SpawnerConfig is the round-independent part of item generation.
type SpawnerConfig struct {
	PlayfieldWidth float64
	ItemWidth      float64
	ItemHeight     float64
	BaseSpeed      float64
	Categories     []CategorySpec
	PowerUpChance  float64
}

// SpawnerConfigFrom builds a SpawnerConfig from the game configuration.
func SpawnerConfigFrom(cfg config.Config) SpawnerConfig {
	return SpawnerConfig{
		PlayfieldWidth: cfg.Playfield.Width,
		ItemWidth:      cfg.Items.Width,
		ItemHeight:     cfg.Items.Height,
		BaseSpeed:      cfg.Items.BaseSpeed,
		Categories:     CategoriesFromConfig(cfg.Categories),
		PowerUpChance:  PowerUpChance(),
	}
}

// Spawner emits one item per spawn interval of round time.
// A new Spawner is built for every round.
type Spawner struct {
	cfg       SpawnerConfig
	round     config.Round
	rng       Rand
	ids       io.Reader
	lastSpawn float64
	spawned   int
}

// NewSpawner creates a spawner whose first Update always yields an item.
// ids feeds item identifiers; nil uses uuid's default source.
func NewSpawner(cfg SpawnerConfig, round config.Round, rng Rand, ids io.Reader) *Spawner {
	return &Spawner{
		cfg:       cfg,
		round:     round,
		rng:       rng,
		ids:       ids,
		lastSpawn: math.Inf(-1),
	}
}

// Update returns a new item when at least one spawn interval has passed
// since the previous spawn, measured in round time.
func (s *Spawner) Update(gameTimeMs float64) (FallingItem, bool) {
	if gameTimeMs-s.lastSpawn < s.round.SpawnIntervalMs {
		return FallingItem{}, false
	}
	s.lastSpawn = gameTimeMs
	s.spawned++

	item := s.CreateItem(SelectCategory(s.cfg.Categories, s.rng))
	if s.rng.Float64() < s.cfg.PowerUpChance {
		item.PowerUp = SelectPowerUp(s.rng)
		item.Category = CategoryPowerUp
		item.Cost = 0
		item.Value = 0
	}
	return item, true
}

// Spawned counts items produced so far.
func (s *Spawner) Spawned() int {
	return s.spawned
}

// CreateItem rolls cost, value and position for one item of the given category.
func (s *Spawner) CreateItem(cat CategorySpec) FallingItem {
	span := cat.MaxCost - cat.MinCost + 1
	cost := cat.MinCost + min(int(s.rng.Float64()*float64(span)), span-1)
	value := float64(cost) * cat.Multiplier * (0.8 + 0.4*s.rng.Float64())

	minX := s.cfg.PlayfieldWidth * 0.1
	maxX := s.cfg.PlayfieldWidth*0.9 - s.cfg.ItemWidth
	x := minX + s.rng.Float64()*(maxX-minX)

	return FallingItem{
		ID:        s.newID(),
		Box:       core.Box{X: x, Y: -s.cfg.ItemHeight, W: s.cfg.ItemWidth, H: s.cfg.ItemHeight},
		VelocityY: s.cfg.BaseSpeed * s.round.SpeedMultiplier,
		Category:  cat.Category,
		Cost:      cost,
		Value:     value,
	}
}

func (s *Spawner) newID() string {
	if s.ids != nil {
		if id, err := uuid.NewRandomFromReader(s.ids); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}
