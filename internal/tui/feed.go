package tui

import (
	"strings"
	"sync"
)

const defaultFeedLines = 200

// Feed is an io.Writer that keeps the last lines written to it. The probe
// loop writes its terminal echo here while the dashboard owns the screen.
type Feed struct {
	mu      sync.Mutex
	lines   []string
	max     int
	partial string
}

// NewFeed creates a Feed holding at most n lines.
func NewFeed(n int) *Feed {
	if n <= 0 {
		n = defaultFeedLines
	}
	return &Feed{max: n}
}

func (f *Feed) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(f.partial+string(p), "\n")
	f.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		f.lines = append(f.lines, strings.TrimRight(line, "\r"))
	}
	if over := len(f.lines) - f.max; over > 0 {
		f.lines = append([]string(nil), f.lines[over:]...)
	}
	return len(p), nil
}

// Lines returns a copy of the complete lines held, oldest first.
func (f *Feed) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lines...)
}
