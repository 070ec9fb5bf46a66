// Package tui provides the Bubble Tea integration for Patty Hop.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// rawTickRate is the cadence of the continuous callback signal, in
// callbacks per second. It deliberately exceeds both frame-rate tiers;
// the engine's frame clock throttles it down to the target rate.
const rawTickRate = 120

// TickMsg carries one continuous callback with its timestamp.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the
// raw callback rate.
func tickCmd() tea.Cmd {
	interval := time.Second / time.Duration(rawTickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
