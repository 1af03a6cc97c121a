package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type (
	// RedrawMsg names the widget that changed.
	RedrawMsg string

	// ClosedMsg is sent once the redraw subscription has been closed.
	ClosedMsg struct{}

	// TickMsg drives the clock in the footer.
	TickMsg time.Time
)

// waitForRedraw blocks on the subscription until a widget changes.
func waitForRedraw(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		w, ok := <-ch
		if !ok {
			return ClosedMsg{}
		}
		return RedrawMsg(w)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
