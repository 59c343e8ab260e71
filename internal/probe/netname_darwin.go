package probe

import (
	"context"

	"golang.org/x/sys/execabs"
)

func (systemNamer) NetworkName(ctx context.Context) string {
	out, err := execabs.CommandContext(ctx, "networksetup", "-listallhardwareports").Output()
	if err != nil {
		return "Unknown (macOS error: " + err.Error() + ")"
	}
	device := parseHardwarePorts(string(out))
	if device == "" {
		return "Wi-Fi interface not found"
	}

	out, err = execabs.CommandContext(ctx, "networksetup", "-getairportnetwork", device).Output()
	if err != nil {
		return "Unknown (macOS error: " + err.Error() + ")"
	}
	return parseAirportNetwork(string(out))
}
