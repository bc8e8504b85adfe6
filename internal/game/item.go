package game

import "github.com/vovakirdan/thrifty/internal/core"

// SlotCount is the number of equipment slots filled per round.
const SlotCount = 5

// FallingItem is a regular item or a power-up travelling down the playfield.
type FallingItem struct {
	ID string `json:"id"`
	core.Box
	VelocityY float64     `json:"vy"`
	Category  Category    `json:"category"`
	Cost      int         `json:"cost"`
	Value     float64     `json:"value"`
	PowerUp   PowerUpType `json:"power_up,omitempty"`
}

// Bounds implements core.Bounded.
func (it FallingItem) Bounds() core.Box { return it.Box }

// IsPowerUp reports whether the item carries a power-up instead of equipment.
func (it FallingItem) IsPowerUp() bool { return it.PowerUp != "" }

// Catcher is the player's basket.
type Catcher struct {
	core.Box
	VelocityX float64
}

// Slots are the five equipment cells. A nil entry is empty.
type Slots [SlotCount]*FallingItem

// Filled counts occupied slots.
func (s *Slots) Filled() int {
	n := 0
	for _, it := range s {
		if it != nil {
			n++
		}
	}
	return n
}

// FirstEmpty returns the lowest empty index other than locked, or -1.
func (s *Slots) FirstEmpty(locked int) int {
	for i, it := range s {
		if it == nil && i != locked {
			return i
		}
	}
	return -1
}

// Empty lists the indices of empty slots.
func (s *Slots) Empty() []int {
	var idx []int
	for i, it := range s {
		if it == nil {
			idx = append(idx, i)
		}
	}
	return idx
}

// Items returns the occupied slots in slot order.
func (s *Slots) Items() []FallingItem {
	items := make([]FallingItem, 0, SlotCount)
	for _, it := range s {
		if it != nil {
			items = append(items, *it)
		}
	}
	return items
}

func (s Slots) clone() Slots {
	var out Slots
	for i, it := range s {
		if it != nil {
			c := *it
			out[i] = &c
		}
	}
	return out
}
