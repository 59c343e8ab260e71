package probe

import (
	"context"

	"golang.org/x/sys/execabs"
)

func (systemNamer) NetworkName(ctx context.Context) string {
	out, err := execabs.CommandContext(ctx, "netsh", "wlan", "show", "interfaces").Output()
	if err != nil {
		return "Unknown (Windows error: " + err.Error() + ")"
	}
	return parseNetshInterfaces(string(out))
}
