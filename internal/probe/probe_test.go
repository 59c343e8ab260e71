package probe

import (
	"context"
	"errors"
	"testing"

	perrors "pingwatch/pkg/errors"
)

const macReply = `PING google.com (142.250.72.14): 32 data bytes
40 bytes from 142.250.72.14: icmp_seq=0 ttl=117 time=23.417 ms

--- google.com ping statistics ---
1 packets transmitted, 1 packets received, 0.0% packet loss
round-trip min/avg/max/stddev = 23.417/23.417/23.417/0.000 ms
`

const windowsReply = "\r\nPinging google.com [142.250.72.14] with 32 bytes of data:\r\n" +
	"Reply from 142.250.72.14: bytes=32 time<1ms TTL=117\r\n\r\n"

func TestParseLatency(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   float64
		ok     bool
	}{
		{"unix reply", macReply, 23.417, true},
		{"windows sub millisecond", windowsReply, 1, true},
		{"integer", "64 bytes from x: icmp_seq=1 ttl=56 time=80 ms", 80, true},
		{"no reply", "Request timeout for icmp_seq 0\n", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLatency(tt.output)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseLatency() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSummaryLine(t *testing.T) {
	if got := SummaryLine(macReply); got != "40 bytes from 142.250.72.14: icmp_seq=0 ttl=117 time=23.417 ms" {
		t.Errorf("SummaryLine(mac) = %q", got)
	}
	if got := SummaryLine(windowsReply); got != "Reply from 142.250.72.14: bytes=32 time<1ms TTL=117" {
		t.Errorf("SummaryLine(windows) = %q", got)
	}
	if got := SummaryLine("header\nsecond\nthird"); got != "second" {
		t.Errorf("SummaryLine(fallback) = %q", got)
	}
}

func TestParseNetworkNames(t *testing.T) {
	ports := "Hardware Port: Ethernet\nDevice: en1\n\nHardware Port: Wi-Fi\nDevice: en0\nEthernet Address: aa:bb\n"
	if got := parseHardwarePorts(ports); got != "en0" {
		t.Errorf("parseHardwarePorts = %q, want en0", got)
	}
	if got := parseHardwarePorts("Hardware Port: Ethernet\nDevice: en1\n"); got != "" {
		t.Errorf("parseHardwarePorts without Wi-Fi = %q", got)
	}

	if got := parseAirportNetwork("Current Wi-Fi Network: home-net\n"); got != "home-net" {
		t.Errorf("parseAirportNetwork = %q", got)
	}
	if got := parseAirportNetwork("You are not associated with an AirPort network."); got != "SSID Unknown/Not connected" {
		t.Errorf("parseAirportNetwork(not associated) = %q", got)
	}

	netsh := "    Name                   : Wi-Fi\r\n    BSSID                  : aa:bb\r\n    SSID                   : office\r\n"
	if got := parseNetshInterfaces(netsh); got != "office" {
		t.Errorf("parseNetshInterfaces = %q", got)
	}
}

func TestPingProberLaunchFailure(t *testing.T) {
	p := &PingProber{command: "pingwatch-no-such-binary"}
	_, err := p.Probe(context.Background(), "example.com", 32)
	if !errors.Is(err, perrors.ErrProbeFailed) {
		t.Fatalf("err = %v, want ErrProbeFailed", err)
	}
	var perr *perrors.ProbeError
	if !errors.As(err, &perr) || perr.Host != "example.com" {
		t.Errorf("err = %v, want ProbeError for example.com", err)
	}
}
