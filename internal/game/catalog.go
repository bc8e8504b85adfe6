package game

import "github.com/vovakirdan/thrifty/internal/config"

// Category classifies a falling item. Combos count distinct categories.
type Category string

// Default item categories, in selection order.
const (
	CategoryWeapon  Category = "weapon"
	CategoryShield  Category = "shield"
	CategoryUtility Category = "utility"
	CategoryPremium Category = "premium"
	CategoryBonus   Category = "bonus"

	// CategoryPowerUp marks items converted into power-ups. It never occupies a slot.
	CategoryPowerUp Category = "powerup"
)

// CategorySpec is one entry of the category table.
type CategorySpec struct {
	Category   Category
	Weight     float64
	MinCost    int
	MaxCost    int
	Multiplier float64
}

// CategoriesFromConfig converts the configured table, keeping its order.
func CategoriesFromConfig(cats []config.Category) []CategorySpec {
	specs := make([]CategorySpec, len(cats))
	for i, c := range cats {
		specs[i] = CategorySpec{
			Category:   Category(c.Name),
			Weight:     c.Weight,
			MinCost:    c.MinCost,
			MaxCost:    c.MaxCost,
			Multiplier: c.Multiplier,
		}
	}
	return specs
}

// DefaultCategories returns the stock category table.
func DefaultCategories() []CategorySpec {
	return CategoriesFromConfig(config.Default().Categories)
}

// SelectWeighted draws r in [0, total) and walks weights in order,
// subtracting each until the remainder drops to zero or below.
// Non-positive weights are never chosen. With no positive weight it returns 0.
func SelectWeighted(weights []float64, rng Rand) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	r := rng.Float64() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		r -= w
		if r <= 0 {
			return i
		}
	}
	// Float rounding can leave a sliver; it belongs to the last positive entry.
	return last
}

// SelectCategory picks a category by weight. specs must not be empty.
func SelectCategory(specs []CategorySpec, rng Rand) CategorySpec {
	weights := make([]float64, len(specs))
	for i, s := range specs {
		weights[i] = s.Weight
	}
	return specs[SelectWeighted(weights, rng)]
}
