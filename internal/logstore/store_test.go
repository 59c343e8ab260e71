package logstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	perrors "pingwatch/pkg/errors"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	s := New(map[Category]string{
		CategorySuccess: filepath.Join(dir, "success.log"),
		CategoryFault:   filepath.Join(dir, "fault.log"),
		CategoryDebug:   filepath.Join(dir, "debug.log"),
	})
	s.now = func() time.Time { return time.Date(2025, 7, 18, 21, 7, 12, 0, time.Local) }
	return s, dir
}

func TestAppendCreatesDirectoryAndFile(t *testing.T) {
	s, dir := newTestStore(t)

	if err := s.Append(CategorySuccess, "home-wifi | 64 bytes from x: time=12.3 ms"); err != nil {
		t.Fatalf("Append() err=%v", err)
	}
	if err := s.Append(CategorySuccess, "second"); err != nil {
		t.Fatalf("Append() err=%v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "success.log"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "2025-07-18 21:07:12.000000 - home-wifi | 64 bytes from x: time=12.3 ms\n" +
		"2025-07-18 21:07:12.000000 - second\n"
	if string(data) != want {
		t.Errorf("content = %q, want %q", data, want)
	}

	if _, err := os.Stat(filepath.Join(dir, "fault.log")); !os.IsNotExist(err) {
		t.Errorf("fault.log should not exist before first write, stat err=%v", err)
	}
}

func TestClearTruncatesAndCreates(t *testing.T) {
	s, dir := newTestStore(t)

	if err := s.Append(CategoryFault, "TIMEOUT/NO RESPONSE - net"); err != nil {
		t.Fatalf("Append() err=%v", err)
	}
	if err := s.Clear(CategoryFault); err != nil {
		t.Fatalf("Clear() err=%v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "fault.log"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("size after Clear = %d, want 0", info.Size())
	}

	if err := s.Clear(CategoryDebug); err != nil {
		t.Fatalf("Clear(absent) err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "debug.log")); err != nil {
		t.Errorf("Clear should create missing file: %v", err)
	}
}

func TestUnknownCategory(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.Append(Category("trace"), "x")
	if !errors.Is(err, perrors.ErrUnknownCategory) {
		t.Errorf("err = %v, want ErrUnknownCategory", err)
	}
	if _, err := ParseCategory(" Fault "); err != nil {
		t.Errorf("ParseCategory(Fault) err=%v", err)
	}
	if _, err := ParseCategory("trace"); !errors.Is(err, perrors.ErrUnknownCategory) {
		t.Errorf("ParseCategory(trace) err=%v", err)
	}
}

func TestConcurrentAppendsDoNotInterleave(t *testing.T) {
	s, dir := newTestStore(t)
	payload := strings.Repeat("x", 512)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if err := s.Append(CategoryDebug, payload); err != nil {
					t.Errorf("Append() err=%v", err)
				}
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 200 {
		t.Fatalf("got %d lines, want 200", len(lines))
	}
	for i, line := range lines {
		if !strings.HasSuffix(line, " - "+payload) {
			t.Fatalf("line %d is torn: %q", i, line)
		}
	}
}
