package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"pingwatch/internal/config"
	"pingwatch/internal/monitor"
)

func (m *Model) viewStats() string {
	snap := m.snapshot

	probeRows := []string{
		row("Uptime", formatDuration(snap.Uptime())),
		row("Started", humanize.Time(snap.StartedAt)),
		row("Probes", fmt.Sprintf("%d", snap.TotalProbes)),
		row("Successes", successStyle.Render(fmt.Sprintf("%d", snap.Successes))),
		row("Avg Latency", m.renderLatency(snap.AverageLatencyMS())),
	}
	if last := snap.LastOutcome; last != nil {
		probeRows = append(probeRows, row("Last", renderOutcome(*last, m.threshold)))
		probeRows = append(probeRows, row("Last At", snap.LastProbeAt.Format("15:04:05")))
	}
	probeCard := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{cardTitleStyle.Render("Probes")}, probeRows...)...,
	)

	faultRows := []string{row("Total", fmt.Sprintf("%d", snap.TotalFaults()))}
	for _, f := range monitor.FaultKinds {
		n := snap.Faults[f]
		value := fmt.Sprintf("%d", n)
		if n > 0 {
			value = errorStyle.Render(value)
		}
		faultRows = append(faultRows, row(f.String(), value))
	}
	faultCard := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{cardTitleStyle.Render("Faults")}, faultRows...)...,
	)

	flagCard := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Logging"),
		row("Debug", onOff(m.flags.Get(config.FlagLogDebug))),
		row("Success", onOff(m.flags.Get(config.FlagLogSuccess))),
		row("Verbose", onOff(m.flags.Get(config.FlagVerbose))),
	)

	w := max(m.width-6, 30)
	var cards string
	if m.width > 100 {
		third := (w - 4) / 3
		cards = lipgloss.JoinHorizontal(lipgloss.Top,
			cardStyle.Width(third).Render(probeCard), " ",
			cardStyle.Width(third).Render(faultCard), " ",
			cardStyle.Width(third).Render(flagCard),
		)
	} else {
		cards = lipgloss.JoinVertical(lipgloss.Left,
			cardStyle.Width(w).Render(probeCard),
			cardStyle.Width(w).Render(faultCard),
			cardStyle.Width(w).Render(flagCard),
		)
	}

	if m.output == "" {
		return cards
	}
	out := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("$ "+m.lastCommand),
		m.output,
	)
	return lipgloss.JoinVertical(lipgloss.Left, cards, out)
}

func (m *Model) viewActivity() string {
	lines := m.feed.Lines()
	if len(lines) == 0 {
		return dimStyle.Render("No probe output yet. Terminal printing may be off.")
	}
	// Newest at the bottom; keep what fits.
	if h := m.contentHeight(); len(lines) > h {
		lines = lines[len(lines)-h:]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderLatency(ms float64) string {
	return latencyStyle(ms, m.threshold).Render(fmt.Sprintf("%.2f ms", ms))
}

func renderOutcome(o monitor.Outcome, thresholdMS float64) string {
	if o.HasLatency {
		return latencyStyle(o.LatencyMS, thresholdMS).Render(fmt.Sprintf("%s (%.1f ms)", o.Kind, o.LatencyMS))
	}
	if o.Kind.Successful() {
		return successStyle.Render(o.Kind.String())
	}
	return errorStyle.Render(o.Kind.String())
}

func row(label, value string) string {
	return cardLabelStyle.Render(label+":") + " " + cardValueStyle.Render(value)
}

func onOff(v bool) string {
	if v {
		return successStyle.Render("on")
	}
	return dimStyle.Render("off")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
