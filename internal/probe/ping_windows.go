//go:build windows

package probe

import "strconv"

// pingArgs sends one request; -l sets the data size.
func pingArgs(host string, payloadBytes int) []string {
	return []string{"-n", "1", "-l", strconv.Itoa(payloadBytes), host}
}

// PlatformExitCodes: Windows ping exits 1 for every failure, including an
// unresolvable name, so all failures count as packet loss.
func PlatformExitCodes() ExitCodes {
	return ExitCodes{PacketLoss: 1, UnknownHost: NoCode}
}
