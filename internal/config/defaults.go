package config

import (
	_ "embed"
)

//go:embed defaults/thrifty.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the built-in configuration. It mirrors defaults/thrifty.yaml
// and is used when the embedded file cannot be parsed.
func Default() Config {
	return Config{
		Physics: Physics{
			TickRate:   60,
			MaxFrameMs: 1000,
		},
		Playfield: Playfield{Width: 800, Height: 600},
		Catcher: Catcher{
			Width:        80,
			Height:       20,
			Speed:        400,
			BottomMargin: 100,
		},
		Items: Items{
			Width:     30,
			Height:    30,
			BaseSpeed: 150,
		},
		Categories: []Category{
			{Name: "weapon", Weight: 30, MinCost: 500, MaxCost: 1500, Multiplier: 1.0},
			{Name: "shield", Weight: 25, MinCost: 300, MaxCost: 800, Multiplier: 1.1},
			{Name: "utility", Weight: 25, MinCost: 200, MaxCost: 600, Multiplier: 1.2},
			{Name: "premium", Weight: 15, MinCost: 1000, MaxCost: 1800, Multiplier: 0.9},
			{Name: "bonus", Weight: 5, MinCost: 0, MaxCost: 100, Multiplier: 2.0},
		},
		Rounds: []Round{
			{Name: "Easy", Budget: 5000, DurationMs: 35000, SpeedMultiplier: 1.0, SpawnIntervalMs: 1400},
			{Name: "Medium", Budget: 4000, DurationMs: 30000, SpeedMultiplier: 1.25, SpawnIntervalMs: 1000},
			{Name: "Hard", Budget: 3000, DurationMs: 25000, SpeedMultiplier: 1.5, SpawnIntervalMs: 700},
		},
	}
}
