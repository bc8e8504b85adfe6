// Package core holds the primitives shared by the simulation and the
// terminal front end: world-space boxes, keyboard polling and a cell buffer.
package core

// Box is an axis-aligned rectangle in world pixels.
// (X, Y) is the top-left corner; Y grows downward.
type Box struct {
	X, Y, W, H float64
}

// Right returns the exclusive right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the exclusive bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// CenterX returns the horizontal midpoint.
func (b Box) CenterX() float64 { return b.X + b.W/2 }

// Bounded is anything that occupies a Box in the playfield.
type Bounded interface {
	Bounds() Box
}

// Overlaps reports whether two boxes share interior area.
// Boxes that only touch along an edge do not overlap.
func Overlaps(a, b Box) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// FindColliding returns the items overlapping the catcher box, in input order.
func FindColliding[T Bounded](catcher Box, items []T) []T {
	var hits []T
	for _, it := range items {
		if Overlaps(catcher, it.Bounds()) {
			hits = append(hits, it)
		}
	}
	return hits
}

// IsOffScreen reports whether a box has fallen past the bottom of a
// playfield of the given height.
func IsOffScreen(b Box, playfieldHeight float64) bool {
	return b.Y >= playfieldHeight
}

// ClampF restricts a float to [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
