package probe

import (
	"context"
	"strings"

	"golang.org/x/sys/execabs"
)

func (systemNamer) NetworkName(ctx context.Context) string {
	out, err := execabs.CommandContext(ctx, "iwgetid", "-r").Output()
	if err != nil {
		return "Unknown (Linux error: " + err.Error() + ")"
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return "SSID Unknown/Not connected"
	}
	return name
}
