package monitor

import (
	"context"
	"testing"
	"time"

	"pingwatch/internal/probe"
)

func TestSchedulerRunsAndStops(t *testing.T) {
	h := newHarness(t, []step{{res: probe.Result{Stdout: reply("5")}}})
	h.cfg.ArchiveInterval = time.Hour

	s, err := NewScheduler(h.loop, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewScheduler() err=%v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	if err := s.Start(context.Background()); err == nil {
		t.Errorf("second Start() should fail")
	}

	deadline := time.Now().Add(5 * time.Second)
	for h.prober.Calls() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d cycles ran before deadline", h.prober.Calls())
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() err=%v", err)
	}
	if s.IsRunning() {
		t.Errorf("IsRunning() after Stop")
	}

	calls := h.prober.Calls()
	time.Sleep(100 * time.Millisecond)
	if got := h.prober.Calls(); got != calls {
		t.Errorf("cycles ran after Stop: %d -> %d", calls, got)
	}
	if got := h.stats.Snapshot().Successes; got != calls {
		t.Errorf("Successes = %d, want %d", got, calls)
	}
}
