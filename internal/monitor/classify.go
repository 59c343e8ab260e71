package monitor

import (
	"fmt"

	"pingwatch/internal/probe"
	perrors "pingwatch/pkg/errors"
)

// Classifier maps raw probe results to outcomes. It is a pure function of
// its inputs.
type Classifier struct {
	ThresholdMS float64
	Codes       probe.ExitCodes
}

// Classify returns exactly one outcome for a probe result. probeErr is the
// error returned by the Prober, if the tool could not be run at all.
func (c Classifier) Classify(res probe.Result, probeErr error) Outcome {
	out := Outcome{ExitCode: res.ExitCode, Summary: probe.SummaryLine(res.Stdout)}

	if probeErr != nil {
		out.Kind = KindOther
		out.Err = probeErr
		return out
	}

	switch res.ExitCode {
	case 0:
		latency, ok := probe.ParseLatency(res.Stdout)
		if !ok {
			out.Kind = KindOther
			out.Err = fmt.Errorf("%w: no round-trip time in %q", perrors.ErrProbeOutputMalformed, out.Summary)
			return out
		}
		out.LatencyMS = latency
		out.HasLatency = true
		if latency > c.ThresholdMS {
			out.Kind = KindHighLatency
		} else {
			out.Kind = KindSuccess
		}
	case c.Codes.PacketLoss:
		out.Kind = KindPacketLoss
	case c.Codes.UnknownHost:
		out.Kind = KindUnknownHost
	default:
		out.Kind = KindTimeout
	}
	return out
}
