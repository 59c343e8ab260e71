package app

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pingwatch/internal/config"
	"pingwatch/internal/probe"
	"pingwatch/internal/shell"
	"pingwatch/internal/storage"
)

type countingProber struct {
	calls atomic.Int32
}

func (p *countingProber) Probe(ctx context.Context, host string, payloadBytes int) (probe.Result, error) {
	p.calls.Add(1)
	return probe.Result{
		Args:   []string{"ping", host},
		Stdout: "PING " + host + "\n64 bytes from 10.0.0.1: icmp_seq=0 ttl=64 time=12.5 ms\n",
	}, nil
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunProbesUntilEndOfInput(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)
	cfg.ProbeInterval = 20 * time.Millisecond
	cfg.HistoryDB = filepath.Join(dir, "history.db")

	prober := &countingProber{}
	out := &lockedBuffer{}
	a, err := New(cfg, Options{
		LogLevel: "debug",
		LogFile:  filepath.Join(dir, "pingwatch.log"),
		Terminal: shell.NewTerminal(out),
		Prober:   prober,
		Namer:    probe.StaticNamer("lab"),
	})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	defer a.Close()

	if a.History == nil {
		t.Fatal("history should be enabled when HISTORY_DB is set")
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background(), pr) }()

	deadline := time.Now().Add(5 * time.Second)
	for prober.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("probe loop did not run")
		}
		time.Sleep(5 * time.Millisecond)
	}

	io.WriteString(pw, "report\n")
	pw.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() err=%v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after end of input")
	}

	if a.Scheduler.IsRunning() {
		t.Errorf("scheduler still running after Run returned")
	}
	if !strings.Contains(out.String(), "===== Report =====") {
		t.Errorf("terminal output missing report:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "time=12.5 ms") {
		t.Errorf("terminal output missing probe echo:\n%s", out.String())
	}

	records, err := a.History.GetRecentProbes(context.Background(), storage.ProbeFilter{SessionID: a.Session, Limit: 100})
	if err != nil {
		t.Fatalf("GetRecentProbes() err=%v", err)
	}
	if len(records) < 2 {
		t.Errorf("history records = %d, want >= 2", len(records))
	}
	for _, r := range records {
		if r.Kind != "success" || r.NetworkName != "lab" {
			t.Errorf("record = %+v", r)
		}
	}
}

func TestNewWithoutHistory(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)

	a, err := New(cfg, Options{LogFile: filepath.Join(dir, "pingwatch.log"), Prober: &countingProber{}})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	defer a.Close()

	if a.History != nil {
		t.Errorf("history should be nil without HISTORY_DB")
	}
	if a.Session == "" {
		t.Errorf("session id not set")
	}
}

func TestOpenHistoryDisabled(t *testing.T) {
	cfg := config.Default(t.TempDir())
	if _, err := OpenHistory(cfg); err == nil {
		t.Errorf("OpenHistory() should fail without HISTORY_DB")
	}
}
