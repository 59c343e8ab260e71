package probe

import (
	"regexp"
	"strconv"
	"strings"
)

var rttRegex = regexp.MustCompile(`time[=<]\s*([0-9]+(?:\.[0-9]+)?)\s*ms`)

// ParseLatency extracts the round-trip time in milliseconds from ping output.
func ParseLatency(output string) (float64, bool) {
	match := rttRegex.FindStringSubmatch(output)
	if len(match) < 2 {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// SummaryLine returns the reply line of ping output, falling back to the
// second line the way most ping implementations lay out a single echo.
func SummaryLine(output string) string {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	for _, line := range lines {
		if rttRegex.MatchString(line) {
			return strings.TrimSpace(line)
		}
	}
	if len(lines) > 1 {
		return strings.TrimSpace(lines[1])
	}
	return strings.TrimSpace(output)
}
