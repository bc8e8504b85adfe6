package core

// Key names a physical key the simulation can poll.
type Key string

// Keys the catcher responds to. Front ends map their own key codes onto these.
const (
	KeyLeft  Key = "ArrowLeft"
	KeyRight Key = "ArrowRight"
	KeyA     Key = "a"
	KeyD     Key = "d"
)

// KeyState is polled once per simulation tick.
type KeyState interface {
	IsKeyDown(k Key) bool
}

// KeySet is a fixed set of held keys. The zero value holds nothing.
type KeySet map[Key]bool

// IsKeyDown implements KeyState.
func (s KeySet) IsKeyDown(k Key) bool {
	return s[k]
}

// NoKeys is a KeyState with nothing held.
var NoKeys KeyState = KeySet(nil)

// Axis folds the directional keys into -1 (left), 0 or +1 (right).
// Left and right held together cancel out.
func Axis(ks KeyState) int {
	if ks == nil {
		return 0
	}
	left := ks.IsKeyDown(KeyLeft) || ks.IsKeyDown(KeyA)
	right := ks.IsKeyDown(KeyRight) || ks.IsKeyDown(KeyD)
	switch {
	case left && !right:
		return -1
	case right && !left:
		return 1
	default:
		return 0
	}
}
