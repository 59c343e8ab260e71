//go:build !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package probe

import "strconv"

// pingArgs sends one request; -s sets the payload size excluding the
// 8-byte ICMP header.
func pingArgs(host string, payloadBytes int) []string {
	return []string{"-c", "1", "-s", strconv.Itoa(payloadBytes), host}
}

// PlatformExitCodes follows iputils ping: 1 when no reply was received,
// 2 for other errors, which in practice is a failed name lookup.
func PlatformExitCodes() ExitCodes {
	return ExitCodes{PacketLoss: 1, UnknownHost: 2}
}
