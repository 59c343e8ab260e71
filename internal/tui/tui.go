package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pingwatch/internal/config"
	"pingwatch/internal/monitor"
	"pingwatch/internal/shell"
)

// Tab indices.
const (
	tabStats    = 0
	tabActivity = 1
	tabCount    = 2
)

// Model is the root BubbleTea model.
type Model struct {
	// Dependencies.
	shell     *shell.Shell
	stats     *monitor.Stats
	flags     *config.Flags
	feed      *Feed
	target    string
	threshold float64

	// Dimensions.
	width  int
	height int

	// Navigation.
	activeTab int
	showHelp  bool

	snapshot monitor.Snapshot
	input    textinput.Model
	running  bool // a shell command is in flight

	// Output of the last shell command.
	lastCommand string
	output      string

	// Notification.
	notification    string
	notificationErr bool
	notifVersion    int

	spinner spinner.Model
}

// Deps holds all dependencies injected into the TUI.
type Deps struct {
	Shell       *shell.Shell
	Stats       *monitor.Stats
	Flags       *config.Flags
	Feed        *Feed
	Target      string
	ThresholdMS int
}

// NewModel creates a new root Model.
func NewModel(deps Deps) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	ti := textinput.New()
	ti.CharLimit = 32
	ti.Prompt = "> "
	ti.Placeholder = "command (? for help)"
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorPurple)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorFg)
	ti.Focus()

	feed := deps.Feed
	if feed == nil {
		feed = NewFeed(defaultFeedLines)
	}

	return &Model{
		shell:     deps.Shell,
		stats:     deps.Stats,
		flags:     deps.Flags,
		feed:      feed,
		target:    deps.Target,
		threshold: float64(deps.ThresholdMS),
		activeTab: tabStats,
		snapshot:  deps.Stats.Snapshot(),
		input:     ti,
		spinner:   s,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, statsTick(), m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	prevNotifVersion := m.notifVersion

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-6, 10)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case statsTickMsg:
		m.snapshot = m.stats.Snapshot()
		cmds = append(cmds, statsTick())

	case commandDoneMsg:
		m.running = false
		m.lastCommand = msg.line
		m.output = strings.TrimRight(msg.output, "\n")
		m.snapshot = m.stats.Snapshot()
		if msg.quit {
			return m, tea.Quit
		}
		m.setNotification("ran "+msg.line, false)

	case clearNotificationMsg:
		if msg.version == m.notifVersion {
			m.notification = ""
			m.notificationErr = false
		}
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.notifVersion > prevNotifVersion && m.notification != "" {
		cmds = append(cmds, clearNotification(4*time.Second, m.notifVersion))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, keys.TabNext):
		m.activeTab = (m.activeTab + 1) % tabCount
		return nil, true

	case key.Matches(msg, keys.TabPrev):
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		return nil, true

	case key.Matches(msg, keys.Clear):
		m.input.Reset()
		return nil, true

	case key.Matches(msg, keys.Submit):
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" || m.running {
			return nil, true
		}
		m.running = true
		return runCommand(m.shell, line), true
	}
	return nil, false
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := renderHeader(m.activeTab, m.snapshot, m.target, m.width)

	var content string
	switch m.activeTab {
	case tabStats:
		content = m.viewStats()
	case tabActivity:
		content = m.viewActivity()
	}

	var notif string
	if m.notification != "" {
		if m.notificationErr {
			notif = notifErrorStyle.Render("! " + m.notification)
		} else {
			notif = notifSuccessStyle.Render("* " + m.notification)
		}
	}

	input := m.input.View()
	if m.running {
		input = m.spinner.View() + " " + input
	}

	footer := renderFooter(renderHelpBar(m.showHelp), m.width)

	parts := []string{header}
	if notif != "" {
		parts = append(parts, notif)
	}
	parts = append(parts, forceHeight(content, m.width, m.contentHeight()), input, footer)
	output := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Force exactly m.height lines to prevent BubbleTea rendering drift.
	return forceHeight(output, m.width, m.height)
}

// forceHeight ensures the string has exactly `height` lines, each padded to `width`.
func forceHeight(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	blank := strings.Repeat(" ", max(width, 0))
	for len(lines) < height {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) contentHeight() int {
	overhead := 7
	if m.showHelp {
		overhead += 2
	}
	if m.notification != "" {
		overhead++
	}
	return max(m.height-overhead, 1)
}

func (m *Model) setNotification(text string, isErr bool) {
	m.notification = text
	m.notificationErr = isErr
	m.notifVersion++
}

// NewProgram creates a bubbletea program with alt screen.
func NewProgram(deps Deps) *tea.Program {
	return tea.NewProgram(NewModel(deps), tea.WithAltScreen())
}
