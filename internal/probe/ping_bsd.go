//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package probe

import "strconv"

// pingArgs sends one request; -s sets the payload size excluding the
// 8-byte ICMP header.
func pingArgs(host string, payloadBytes int) []string {
	return []string{"-c", "1", "-s", strconv.Itoa(payloadBytes), host}
}

// PlatformExitCodes follows the BSD ping manual: 2 when no reply was
// received, EX_NOHOST (68) when the name does not resolve.
func PlatformExitCodes() ExitCodes {
	return ExitCodes{PacketLoss: 2, UnknownHost: 68}
}
