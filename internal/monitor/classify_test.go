package monitor

import (
	"errors"
	"testing"

	"pingwatch/internal/probe"
	perrors "pingwatch/pkg/errors"
)

func reply(ms string) string {
	return "PING google.com (142.250.72.14): 32 data bytes\n" +
		"40 bytes from 142.250.72.14: icmp_seq=0 ttl=117 time=" + ms + " ms\n"
}

var testCodes = probe.ExitCodes{PacketLoss: 2, UnknownHost: 68}

func TestClassify(t *testing.T) {
	c := Classifier{ThresholdMS: 50, Codes: testCodes}

	tests := []struct {
		name    string
		res     probe.Result
		err     error
		want    Kind
		latency float64
	}{
		{"success under threshold", probe.Result{Stdout: reply("30.0")}, nil, KindSuccess, 30},
		{"success at threshold", probe.Result{Stdout: reply("50")}, nil, KindSuccess, 50},
		{"high latency", probe.Result{Stdout: reply("80.5")}, nil, KindHighLatency, 80.5},
		{"malformed output", probe.Result{Stdout: "PING google.com\nsomething odd\n"}, nil, KindOther, 0},
		{"packet loss", probe.Result{ExitCode: 2}, nil, KindPacketLoss, 0},
		{"unknown host", probe.Result{ExitCode: 68}, nil, KindUnknownHost, 0},
		{"other exit status", probe.Result{ExitCode: 1}, nil, KindTimeout, 0},
		{"launch failure", probe.Result{}, errors.New("exec: not found"), KindOther, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := c.Classify(tt.res, tt.err)
			if out.Kind != tt.want {
				t.Fatalf("Kind = %s, want %s", out.Kind, tt.want)
			}
			if out.LatencyMS != tt.latency {
				t.Errorf("LatencyMS = %v, want %v", out.LatencyMS, tt.latency)
			}
			if out.Kind == KindOther && out.Err == nil {
				t.Errorf("Other outcome without error")
			}
		})
	}
}

func TestClassifyPlatformCodes(t *testing.T) {
	// Codes are parameters: the same exit status means different things per OS.
	linux := Classifier{Codes: probe.ExitCodes{PacketLoss: 1, UnknownHost: 2}}
	mac := Classifier{Codes: probe.ExitCodes{PacketLoss: 2, UnknownHost: 68}}

	if got := linux.Classify(probe.Result{ExitCode: 2}, nil).Kind; got != KindUnknownHost {
		t.Errorf("linux exit 2 = %s, want unknown_host", got)
	}
	if got := mac.Classify(probe.Result{ExitCode: 2}, nil).Kind; got != KindPacketLoss {
		t.Errorf("mac exit 2 = %s, want packet_loss", got)
	}
	windows := Classifier{Codes: probe.ExitCodes{PacketLoss: 1, UnknownHost: probe.NoCode}}
	if got := windows.Classify(probe.Result{ExitCode: 5}, nil).Kind; got != KindTimeout {
		t.Errorf("windows exit 5 = %s, want timeout", got)
	}
}

func TestFaultMessages(t *testing.T) {
	c := Classifier{ThresholdMS: 50, Codes: testCodes}

	high := c.Classify(probe.Result{Stdout: reply("80")}, nil)
	if got := high.SuccessMessage("home"); got != "home | 40 bytes from 142.250.72.14: icmp_seq=0 ttl=117 time=80 ms\t\tHIGH LATENCY" {
		t.Errorf("SuccessMessage = %q", got)
	}
	if got := high.FaultMessage("home"); got != "HIGH LATENCY - home | 40 bytes from 142.250.72.14: icmp_seq=0 ttl=117 time=80 ms" {
		t.Errorf("FaultMessage = %q", got)
	}

	malformed := c.Classify(probe.Result{Stdout: "x\ny\n"}, nil)
	if !errors.Is(malformed.Err, perrors.ErrProbeOutputMalformed) {
		t.Errorf("malformed Err = %v", malformed.Err)
	}

	cases := map[Kind]string{
		KindPacketLoss:  "COMPLETE PACKET LOSS - home",
		KindUnknownHost: "UNKNOWN HOST - home",
		KindTimeout:     "TIMEOUT/NO RESPONSE - home",
	}
	for kind, want := range cases {
		if got := (Outcome{Kind: kind}).FaultMessage("home"); got != want {
			t.Errorf("%s FaultMessage = %q, want %q", kind, got, want)
		}
	}
}

func TestKindNames(t *testing.T) {
	for _, name := range KindNames() {
		k, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q) err=%v", name, err)
		}
		if k.String() != name {
			t.Errorf("ParseKind(%q).String() = %q", name, k.String())
		}
	}
	if _, err := ParseKind("slow"); err == nil {
		t.Errorf("ParseKind(slow) should fail")
	}
}
