package probe

import (
	"context"
	"strings"
)

// NetworkNamer reports the name of the network the host is attached to.
// Implementations never fail: any problem is described in the returned
// string instead.
type NetworkNamer interface {
	NetworkName(ctx context.Context) string
}

// NewNetworkNamer returns the implementation for the running OS.
func NewNetworkNamer() NetworkNamer {
	return systemNamer{}
}

// StaticNamer always reports the same name.
type StaticNamer string

func (s StaticNamer) NetworkName(context.Context) string { return string(s) }

type systemNamer struct{}

// parseHardwarePorts finds the Wi-Fi device in `networksetup -listallhardwareports` output.
func parseHardwarePorts(output string) string {
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "Wi-Fi") {
			continue
		}
		for j := i; j < i+3 && j < len(lines); j++ {
			if strings.Contains(lines[j], "Device") {
				if _, dev, ok := strings.Cut(lines[j], ":"); ok {
					return strings.TrimSpace(dev)
				}
			}
		}
		break
	}
	return ""
}

// parseAirportNetwork interprets `networksetup -getairportnetwork <dev>` output.
func parseAirportNetwork(output string) string {
	output = strings.TrimSpace(output)
	switch {
	case strings.Contains(output, "You are not associated"):
		return "SSID Unknown/Not connected"
	case strings.Contains(output, "Current Wi-Fi Network:"):
		_, name, _ := strings.Cut(output, ":")
		return strings.TrimSpace(name)
	default:
		return "Unknown (unmatched output: " + output + ")"
	}
}

// parseNetshInterfaces finds the SSID in `netsh wlan show interfaces` output.
func parseNetshInterfaces(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "SSID") && !strings.Contains(line, "BSSID") {
			if _, name, ok := strings.Cut(line, ":"); ok {
				return strings.TrimSpace(name)
			}
		}
	}
	return "SSID Unknown/Not connected"
}
