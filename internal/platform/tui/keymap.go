package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/thrifty/internal/core"
)

// DefaultHoldWindow is how long a key counts as held after its last press
// or auto-repeat. It has to bridge the terminal's initial repeat delay.
const DefaultHoldWindow = 220 * time.Millisecond

// KeyMap defines the key bindings for the game screen.
type KeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Pause   key.Binding
	Advance key.Binding
	Scores  key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Pause, k.Advance, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right},
		{k.Pause, k.Advance, k.Scores, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Advance: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "continue"),
		),
		Scores: key.NewBinding(
			key.WithKeys("s", "tab"),
			key.WithHelp("s", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// simKey maps a terminal key to the simulation key it stands for.
func simKey(msg tea.KeyMsg) (core.Key, bool) {
	switch msg.String() {
	case "left", "h":
		return core.KeyLeft, true
	case "right", "l":
		return core.KeyRight, true
	case "a":
		return core.KeyA, true
	case "d":
		return core.KeyD, true
	}
	return "", false
}

// HeldKeys is the input state a terminal can offer. Terminals report key
// presses and auto-repeats but never releases, so a key reads as down until
// the hold window after its last press has passed. Pressing one direction
// releases the other at once.
type HeldKeys struct {
	hold time.Duration
	now  func() time.Time
	last map[core.Key]time.Time
}

// NewHeldKeys creates an empty key state with the given hold window.
func NewHeldKeys(hold time.Duration) *HeldKeys {
	if hold <= 0 {
		hold = DefaultHoldWindow
	}
	return &HeldKeys{
		hold: hold,
		now:  time.Now,
		last: make(map[core.Key]time.Time),
	}
}

// Press records a press or auto-repeat of k.
func (h *HeldKeys) Press(k core.Key) {
	switch k {
	case core.KeyLeft, core.KeyA:
		delete(h.last, core.KeyRight)
		delete(h.last, core.KeyD)
	case core.KeyRight, core.KeyD:
		delete(h.last, core.KeyLeft)
		delete(h.last, core.KeyA)
	}
	h.last[k] = h.now()
}

// Clear releases every key.
func (h *HeldKeys) Clear() {
	clear(h.last)
}

// IsKeyDown implements core.KeyState.
func (h *HeldKeys) IsKeyDown(k core.Key) bool {
	at, ok := h.last[k]
	if !ok {
		return false
	}
	if h.now().Sub(at) > h.hold {
		delete(h.last, k)
		return false
	}
	return true
}
