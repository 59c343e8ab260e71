package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pingwatch/internal/monitor"
)

var tabNames = []string{"Stats", "Activity"}

func renderHeader(activeTab int, snap monitor.Snapshot, target string, width int) string {
	// Logo.
	logo := logoStyle.Render("PINGWATCH") + dimStyle.Render(target)

	// Last outcome pill.
	var pill string
	switch {
	case snap.LastOutcome == nil:
		pill = waitingPillStyle.Render(" WAITING ")
	case snap.LastOutcome.Kind == monitor.KindSuccess:
		pill = okPillStyle.Render(fmt.Sprintf(" %.1f ms ", snap.LastOutcome.LatencyMS))
	case snap.LastOutcome.Kind == monitor.KindHighLatency:
		pill = slowPillStyle.Render(fmt.Sprintf(" SLOW %.1f ms ", snap.LastOutcome.LatencyMS))
	default:
		pill = faultPillStyle.Render(" " + strings.ToUpper(strings.ReplaceAll(snap.LastOutcome.Kind.String(), "_", " ")) + " ")
	}

	// Tabs.
	var tabs []string
	for i, name := range tabNames {
		if i == activeTab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	// First row: logo + pill right-aligned.
	gap := max(width-lipgloss.Width(logo)-lipgloss.Width(pill), 1)
	topRow := logo + strings.Repeat(" ", gap) + pill

	sep := lipgloss.NewStyle().
		Foreground(colorBorder).
		Render(strings.Repeat("─", max(width, 0)))

	return lipgloss.JoinVertical(lipgloss.Left, topRow, tabBar, sep)
}

func renderFooter(helpText string, width int) string {
	sep := lipgloss.NewStyle().
		Foreground(colorBorder).
		Render(strings.Repeat("─", max(width, 0)))
	return lipgloss.JoinVertical(lipgloss.Left, sep, helpBarStyle.Render(helpText))
}

func renderHelpBar(showFull bool) string {
	if showFull {
		return renderFullHelp()
	}
	return renderShortHelp()
}

func renderShortHelp() string {
	var parts []string
	for _, b := range keys.ShortHelp() {
		if !b.Enabled() {
			continue
		}
		parts = append(parts, helpKeyStyle.Render(b.Help().Key)+" "+helpDescStyle.Render(b.Help().Desc))
	}
	return strings.Join(parts, helpSepStyle.Render(" | "))
}

func renderFullHelp() string {
	var lines []string
	for _, group := range keys.FullHelp() {
		var parts []string
		for _, b := range group {
			if !b.Enabled() {
				continue
			}
			parts = append(parts, helpKeyStyle.Render(b.Help().Key)+" "+helpDescStyle.Render(b.Help().Desc))
		}
		lines = append(lines, strings.Join(parts, helpSepStyle.Render("  ")))
	}
	return strings.Join(lines, "\n")
}
