// Package config loads the tunable numbers of a THRIFTY session from YAML:
// playfield geometry, catcher and item physics, the item category table
// and the round table.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidRound is returned when a round number is outside the round table.
var ErrInvalidRound = errors.New("config: invalid round")

// Config is the full game configuration.
type Config struct {
	Physics    Physics    `yaml:"physics"`
	Playfield  Playfield  `yaml:"playfield"`
	Catcher    Catcher    `yaml:"catcher"`
	Items      Items      `yaml:"items"`
	Categories []Category `yaml:"categories"`
	Rounds     []Round    `yaml:"rounds"`
}

// Physics controls the fixed-step loop.
type Physics struct {
	TickRate   int     `yaml:"tick_rate"`    // steps per second
	MaxFrameMs float64 `yaml:"max_frame_ms"` // longest wall-clock gap absorbed in one frame
}

// Playfield is the logical world size in pixels.
type Playfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Catcher describes the player's basket.
type Catcher struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Speed        float64 `yaml:"speed"`         // px/s
	BottomMargin float64 `yaml:"bottom_margin"` // gap between catcher bottom and playfield bottom
}

// Items describes falling item geometry.
type Items struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	BaseSpeed float64 `yaml:"base_speed"` // px/s before the round multiplier
}

// Category is one row of the item category table.
type Category struct {
	Name       string  `yaml:"name"`
	Weight     float64 `yaml:"weight"`
	MinCost    int     `yaml:"min_cost"`
	MaxCost    int     `yaml:"max_cost"`
	Multiplier float64 `yaml:"multiplier"`
}

// Round is one row of the round table.
type Round struct {
	Name            string  `yaml:"name"`
	Budget          int     `yaml:"budget"`
	DurationMs      float64 `yaml:"duration_ms"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
	SpawnIntervalMs float64 `yaml:"spawn_interval_ms"`
}

// StepMs is the fixed simulation step in milliseconds.
func (c Config) StepMs() float64 {
	if c.Physics.TickRate <= 0 {
		return 1000.0 / 60
	}
	return 1000.0 / float64(c.Physics.TickRate)
}

// TotalRounds returns the number of configured rounds.
func (c Config) TotalRounds() int {
	return len(c.Rounds)
}

// Round returns the 1-based round n.
func (c Config) Round(n int) (Round, error) {
	if n < 1 || n > len(c.Rounds) {
		return Round{}, fmt.Errorf("%w: %d (have %d)", ErrInvalidRound, n, len(c.Rounds))
	}
	return c.Rounds[n-1], nil
}

// Validate rejects configurations the simulation cannot run.
func (c Config) Validate() error {
	var errs []error
	if c.Physics.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("physics.tick_rate must be positive, got %d", c.Physics.TickRate))
	}
	if c.Physics.MaxFrameMs <= 0 {
		errs = append(errs, fmt.Errorf("physics.max_frame_ms must be positive, got %v", c.Physics.MaxFrameMs))
	}
	if c.Playfield.Width <= 0 || c.Playfield.Height <= 0 {
		errs = append(errs, fmt.Errorf("playfield must have positive size, got %vx%v", c.Playfield.Width, c.Playfield.Height))
	}
	if c.Catcher.Width <= 0 || c.Catcher.Width > c.Playfield.Width {
		errs = append(errs, fmt.Errorf("catcher.width must be in (0, playfield.width], got %v", c.Catcher.Width))
	}
	if c.Catcher.Height <= 0 || c.Catcher.Speed <= 0 {
		errs = append(errs, errors.New("catcher.height and catcher.speed must be positive"))
	}
	if c.Catcher.BottomMargin < 0 || c.Catcher.BottomMargin+c.Catcher.Height > c.Playfield.Height {
		errs = append(errs, fmt.Errorf("catcher.bottom_margin + catcher.height must fit in [0, playfield.height], got %v+%v",
			c.Catcher.BottomMargin, c.Catcher.Height))
	}
	if c.Items.Width <= 0 || c.Items.Height <= 0 || c.Items.BaseSpeed <= 0 {
		errs = append(errs, errors.New("items.width, items.height and items.base_speed must be positive"))
	}
	if len(c.Categories) == 0 {
		errs = append(errs, errors.New("at least one category is required"))
	}
	var totalWeight float64
	for i, cat := range c.Categories {
		if cat.Weight > 0 {
			totalWeight += cat.Weight
		}
		if cat.Name == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: name is required", i))
		}
		if cat.Weight < 0 {
			errs = append(errs, fmt.Errorf("categories[%d] %s: weight must not be negative", i, cat.Name))
		}
		if cat.MinCost < 0 || cat.MaxCost < cat.MinCost {
			errs = append(errs, fmt.Errorf("categories[%d] %s: cost range [%d, %d] is invalid", i, cat.Name, cat.MinCost, cat.MaxCost))
		}
	}
	if len(c.Categories) > 0 && totalWeight == 0 {
		errs = append(errs, errors.New("categories: at least one weight must be positive"))
	}
	if len(c.Rounds) == 0 {
		errs = append(errs, errors.New("at least one round is required"))
	}
	for i, r := range c.Rounds {
		if r.Budget <= 0 || r.DurationMs <= 0 || r.SpeedMultiplier <= 0 || r.SpawnIntervalMs <= 0 {
			errs = append(errs, fmt.Errorf("rounds[%d] %s: budget, duration, speed and spawn interval must be positive", i, r.Name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
