// Package tui is the Bubble Tea front end for THRIFTY. It turns display
// frames into runner frames, maps keys onto the simulation's input state and
// draws snapshots into a colored cell buffer.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is one display frame. The runner converts the wall time it
// carries into fixed simulation steps.
type FrameMsg time.Time

// frameCmd schedules the next display frame at fps frames per second.
func frameCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
