package monitor

import (
	"sync"
	"time"
)

// Stats is the process-wide set of probe counters. The probe loop writes
// it; reporting reads consistent snapshots of it.
type Stats struct {
	mu sync.RWMutex

	successes           int
	faults              [faultKindCount]int
	cumulativeLatencyMS float64
	probeCount          int // cycles since the last archive
	totalProbes         int
	startedAt           time.Time

	last   Outcome
	lastAt time.Time
}

// NewStats creates empty counters started at startedAt.
func NewStats(startedAt time.Time) *Stats {
	return &Stats{startedAt: startedAt}
}

// Record applies one classified outcome and counts the finished cycle in a
// single update, so a snapshot never pairs a new latency total with an old
// cycle count. A high-latency outcome counts as both a success and a latency
// fault. It reports whether an archive is due; when it is, the cycle count
// is reset, so between cycles probeCount*probeInterval < archiveInterval
// always holds.
func (s *Stats) Record(o Outcome, at time.Time, probeInterval, archiveInterval time.Duration) (archiveDue bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.Kind.Successful() {
		s.successes++
		s.cumulativeLatencyMS += o.LatencyMS
	}
	if f, ok := o.Kind.Fault(); ok {
		s.faults[f]++
	}
	s.totalProbes++
	s.last = o
	s.lastAt = at

	s.probeCount++
	if time.Duration(s.probeCount)*probeInterval >= archiveInterval {
		s.probeCount = 0
		return true
	}
	return false
}

// Snapshot is an immutable copy of the counters.
type Snapshot struct {
	Successes           int
	Faults              map[FaultKind]int
	CumulativeLatencyMS float64
	ProbeCount          int
	TotalProbes         int
	StartedAt           time.Time
	TakenAt             time.Time

	LastOutcome *Outcome
	LastProbeAt time.Time
}

// Snapshot returns a consistent copy of the counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Successes:           s.successes,
		Faults:              make(map[FaultKind]int, len(FaultKinds)),
		CumulativeLatencyMS: s.cumulativeLatencyMS,
		ProbeCount:          s.probeCount,
		TotalProbes:         s.totalProbes,
		StartedAt:           s.startedAt,
		TakenAt:             time.Now(),
	}
	for _, f := range FaultKinds {
		snap.Faults[f] = s.faults[f]
	}
	if s.totalProbes > 0 {
		last := s.last
		snap.LastOutcome = &last
		snap.LastProbeAt = s.lastAt
	}
	return snap
}

// TotalFaults sums every fault counter.
func (s Snapshot) TotalFaults() int {
	total := 0
	for _, n := range s.Faults {
		total += n
	}
	return total
}

// AverageLatencyMS is the cumulative latency divided by the cycle count
// since the last archive; zero before the first cycle completes.
func (s Snapshot) AverageLatencyMS() float64 {
	if s.ProbeCount == 0 {
		return 0
	}
	return s.CumulativeLatencyMS / float64(s.ProbeCount)
}

// Uptime is the time between process start and the snapshot.
func (s Snapshot) Uptime() time.Duration {
	return s.TakenAt.Sub(s.StartedAt)
}
