package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// flashDuration is how long a status message stays on screen.
const flashDuration = 2500 * time.Millisecond

// flashExpiredMsg clears the flash message it was scheduled for.
type flashExpiredMsg struct {
	seq int
}

// flashCmd returns a command that expires flash number seq after d.
func flashCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}
