package tui

import (
	"bytes"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pingwatch/internal/shell"
)

// statsInterval is how often the dashboard re-reads the counters.
const statsInterval = time.Second

// statsTick returns a tea.Cmd that fires after statsInterval.
func statsTick() tea.Cmd {
	return tea.Tick(statsInterval, func(time.Time) tea.Msg {
		return statsTickMsg{}
	})
}

// runCommand executes one shell command off the UI goroutine.
func runCommand(sh *shell.Shell, line string) tea.Cmd {
	return func() tea.Msg {
		var buf bytes.Buffer
		quit := sh.Execute(&buf, line)
		return commandDoneMsg{line: line, output: buf.String(), quit: quit}
	}
}

// clearNotification returns a command that fires after a delay.
func clearNotification(d time.Duration, version int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNotificationMsg{version: version}
	})
}
