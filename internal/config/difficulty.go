package config

import (
	"fmt"
	"math"
	"strings"
)

// DifficultyPreset is a named scaling of the round table.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// presetScaling multiplies the round table columns.
type presetScaling struct {
	budget   float64
	duration float64
	speed    float64
	interval float64
}

var presets = map[DifficultyPreset]presetScaling{
	DifficultyEasy:   {budget: 1.2, duration: 1.15, speed: 0.85, interval: 1.1},
	DifficultyNormal: {budget: 1, duration: 1, speed: 1, interval: 1},
	DifficultyHard:   {budget: 0.85, duration: 0.9, speed: 1.15, interval: 0.9},
}

// ParsePreset accepts a preset name case-insensitively. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return DifficultyNormal, nil
	}
	if _, ok := presets[p]; !ok {
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
	return p, nil
}

// ApplyPreset scales every round in place. Normal leaves the table untouched.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	sc, ok := presets[preset]
	if !ok || preset == DifficultyNormal {
		return
	}
	rounds := make([]Round, len(cfg.Rounds))
	for i, r := range cfg.Rounds {
		r.Budget = int(math.Round(float64(r.Budget) * sc.budget))
		r.DurationMs = math.Round(r.DurationMs * sc.duration)
		r.SpeedMultiplier *= sc.speed
		r.SpawnIntervalMs = math.Round(r.SpawnIntervalMs * sc.interval)
		rounds[i] = r
	}
	cfg.Rounds = rounds
}
