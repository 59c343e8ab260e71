package monitor

import (
	"errors"
	"fmt"

	perrors "pingwatch/pkg/errors"
)

// Kind is the classification of one probe.
type Kind int

const (
	KindSuccess Kind = iota
	KindHighLatency
	KindTimeout
	KindPacketLoss
	KindUnknownHost
	KindOther
)

var kindNames = [...]string{
	KindSuccess:     "success",
	KindHighLatency: "high_latency",
	KindTimeout:     "timeout",
	KindPacketLoss:  "packet_loss",
	KindUnknownHost: "unknown_host",
	KindOther:       "other",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindNames lists every kind name, for flag validation and completion.
func KindNames() []string {
	return append([]string(nil), kindNames[:]...)
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown outcome kind %q", s)
}

// Successful reports whether the probe got a reply. High latency is still
// a successful probe.
func (k Kind) Successful() bool {
	return k == KindSuccess || k == KindHighLatency
}

// Fault returns the fault counter a kind increments, if any.
func (k Kind) Fault() (FaultKind, bool) {
	switch k {
	case KindHighLatency:
		return FaultLatency, true
	case KindTimeout:
		return FaultTimeout, true
	case KindPacketLoss:
		return FaultPacketLoss, true
	case KindUnknownHost:
		return FaultUnknownHost, true
	case KindOther:
		return FaultOther, true
	}
	return 0, false
}

// FaultKind is one of the mutually exclusive fault counters.
type FaultKind int

const (
	FaultLatency FaultKind = iota
	FaultTimeout
	FaultPacketLoss
	FaultUnknownHost
	FaultOther

	faultKindCount
)

// FaultKinds lists every fault kind in report order.
var FaultKinds = []FaultKind{FaultLatency, FaultTimeout, FaultPacketLoss, FaultUnknownHost, FaultOther}

func (f FaultKind) String() string {
	switch f {
	case FaultLatency:
		return "Latency"
	case FaultTimeout:
		return "Timeout"
	case FaultPacketLoss:
		return "Packet Loss"
	case FaultUnknownHost:
		return "Unknown Host"
	case FaultOther:
		return "Other"
	}
	return fmt.Sprintf("fault(%d)", int(f))
}

// Outcome is the classified result of one probe.
type Outcome struct {
	Kind       Kind
	LatencyMS  float64
	HasLatency bool
	ExitCode   int
	Summary    string // reply line of the probe output
	Err        error  // set for KindOther
}

// SuccessMessage is the success-log line for a successful outcome.
func (o Outcome) SuccessMessage(network string) string {
	msg := fmt.Sprintf("%s | %s", network, o.Summary)
	if o.Kind == KindHighLatency {
		msg += "\t\tHIGH LATENCY"
	}
	return msg
}

// FaultMessage is the fault-log line for a faulty outcome.
func (o Outcome) FaultMessage(network string) string {
	switch o.Kind {
	case KindHighLatency:
		return fmt.Sprintf("HIGH LATENCY - %s | %s", network, o.Summary)
	case KindPacketLoss:
		return fmt.Sprintf("COMPLETE PACKET LOSS - %s", network)
	case KindUnknownHost:
		return fmt.Sprintf("UNKNOWN HOST - %s", network)
	case KindTimeout:
		return fmt.Sprintf("TIMEOUT/NO RESPONSE - %s", network)
	case KindOther:
		if errors.Is(o.Err, perrors.ErrProbeOutputMalformed) {
			return fmt.Sprintf("UNEXPECTED FORMAT - %v", o.Err)
		}
		return fmt.Sprintf("EXCEPTION - %v - %s", o.Err, network)
	}
	return ""
}
