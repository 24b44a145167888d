// Package tui provides the Bubble Tea front end: an interactive board where a
// human plays against the uniform-random policy, and a browser for stored
// self-play games.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// OpponentMsg tells the board model to let the random policy move.
type OpponentMsg time.Time

// opponentCmd schedules the next random move after delay.
func opponentCmd(delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return OpponentMsg(time.Now()) }
	}
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return OpponentMsg(t)
	})
}
