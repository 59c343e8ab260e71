package models

import "time"

// ProbeRecord represents one classified probe outcome
type ProbeRecord struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Target      string    `json:"target"`
	Kind        string    `json:"kind"`                 // success, high_latency, timeout, packet_loss, unknown_host, other
	LatencyMS   *float64  `json:"latency_ms,omitempty"` // NULL if no reply was parsed
	ExitCode    int       `json:"exit_code"`
	NetworkName string    `json:"network_name,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	ProbedAt    time.Time `json:"probed_at"`
}
