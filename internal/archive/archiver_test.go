package archive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pingwatch/internal/logstore"
	perrors "pingwatch/pkg/errors"
)

type fixture struct {
	store    *logstore.Store
	archiver *Archiver
	logDir   string
	archDir  string
	now      time.Time
}

func newFixture(t *testing.T, deletionAgeDays int) *fixture {
	t.Helper()
	root := t.TempDir()
	logDir := filepath.Join(root, "logs")
	archDir := filepath.Join(root, "archive")

	store := logstore.New(map[logstore.Category]string{
		logstore.CategorySuccess: filepath.Join(logDir, "success.log"),
		logstore.CategoryFault:   filepath.Join(logDir, "fault.log"),
		logstore.CategoryDebug:   filepath.Join(logDir, "debug.log"),
	})
	a := New(store, Options{Dir: archDir, DeletionAgeDays: deletionAgeDays})
	now := time.Date(2025, 7, 20, 12, 0, 0, 0, time.Local)
	a.now = func() time.Time { return now }

	return &fixture{store: store, archiver: a, logDir: logDir, archDir: archDir, now: now}
}

func (f *fixture) writeEntry(t *testing.T, name string, size int) {
	t.Helper()
	if err := os.MkdirAll(f.archDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(f.archDir, name), []byte(strings.Repeat("a", size)), 0644); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) exists(name string) bool {
	_, err := os.Stat(filepath.Join(f.archDir, name))
	return err == nil
}

func TestEntryNameRoundTrip(t *testing.T) {
	created := time.Date(2025, 7, 18, 21, 7, 12, 0, time.Local)
	name := EntryName(logstore.CategoryFault, created)
	if name != "fault_2025-07-18_21-07-12.log" {
		t.Fatalf("EntryName = %q", name)
	}

	label, parsed, err := ParseEntryName(name)
	if err != nil {
		t.Fatalf("ParseEntryName err=%v", err)
	}
	if label != "fault" || !parsed.Equal(created) {
		t.Errorf("parsed = %q %v, want fault %v", label, parsed, created)
	}

	for _, bad := range []string{"fault.log", "fault_2025-07-18.log", "notes_yesterday_noon.log", "fault_2025-13-40_99-99-99.log"} {
		if _, _, err := ParseEntryName(bad); !errors.Is(err, perrors.ErrArchiveNameInvalid) {
			t.Errorf("ParseEntryName(%q) err=%v, want ErrArchiveNameInvalid", bad, err)
		}
	}
}

func TestArchiveAllSnapshotsAndClears(t *testing.T) {
	f := newFixture(t, 7)

	if err := f.store.Append(logstore.CategorySuccess, "ok one"); err != nil {
		t.Fatal(err)
	}
	if err := f.store.Append(logstore.CategoryFault, "TIMEOUT/NO RESPONSE - net"); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(filepath.Join(f.logDir, "success.log"))
	if err != nil {
		t.Fatal(err)
	}

	result, err := f.archiver.ArchiveAll()
	if err != nil {
		t.Fatalf("ArchiveAll() err=%v", err)
	}
	if len(result.Archived) != 2 {
		t.Fatalf("archived %d entries, want 2", len(result.Archived))
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != logstore.CategoryDebug {
		t.Errorf("skipped = %v, want [debug]", result.Skipped)
	}

	live, err := os.ReadFile(filepath.Join(f.logDir, "success.log"))
	if err != nil {
		t.Fatal(err)
	}
	if len(live) != 0 {
		t.Errorf("live success log not empty after archive: %q", live)
	}

	archived, err := os.ReadFile(filepath.Join(f.archDir, EntryName(logstore.CategorySuccess, f.now)))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if string(archived) != string(before) {
		t.Errorf("archived = %q, want %q", archived, before)
	}

	if f.exists(EntryName(logstore.CategoryDebug, f.now)) {
		t.Errorf("debug archive created for absent live log")
	}
}

func TestArchiveAllNeverOverwrites(t *testing.T) {
	f := newFixture(t, 7)

	if err := f.store.Append(logstore.CategorySuccess, "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.archiver.ArchiveAll(); err != nil {
		t.Fatalf("ArchiveAll() err=%v", err)
	}
	if err := f.store.Append(logstore.CategorySuccess, "second"); err != nil {
		t.Fatal(err)
	}

	_, err := f.archiver.ArchiveAll()
	if !errors.Is(err, perrors.ErrArchiveFailed) {
		t.Fatalf("err = %v, want ErrArchiveFailed", err)
	}

	live, _ := os.ReadFile(filepath.Join(f.logDir, "success.log"))
	if !strings.Contains(string(live), "second") {
		t.Errorf("live log should keep content when the archive name is taken, got %q", live)
	}
}

func TestPruneRespectsSizeAndAge(t *testing.T) {
	f := newFixture(t, 7)
	const threshold = 100

	oldSmall := EntryName(logstore.CategorySuccess, f.now.AddDate(0, 0, -10))
	oldLarge := EntryName(logstore.CategoryFault, f.now.AddDate(0, 0, -10))
	youngSmall := EntryName(logstore.CategoryDebug, f.now.AddDate(0, 0, -2))
	exactAge := EntryName(logstore.CategoryFault, f.now.AddDate(0, 0, -7))
	exactSize := EntryName(logstore.CategoryDebug, f.now.AddDate(0, 0, -30))
	unparsable := "notes_today.log"

	f.writeEntry(t, oldSmall, 10)
	f.writeEntry(t, oldLarge, 500)
	f.writeEntry(t, youngSmall, 0)
	f.writeEntry(t, exactAge, 5)
	f.writeEntry(t, exactSize, threshold)
	f.writeEntry(t, unparsable, 0)

	result, err := f.archiver.Prune(threshold)
	if err != nil {
		t.Fatalf("Prune() err=%v", err)
	}

	wantDeleted := map[string]bool{oldSmall: true, exactAge: true}
	if len(result.Deleted) != len(wantDeleted) {
		t.Fatalf("deleted %v, want %v", result.Deleted, wantDeleted)
	}
	for _, d := range result.Deleted {
		if !wantDeleted[d.Name] {
			t.Errorf("unexpected deletion of %s", d.Name)
		}
	}

	for _, kept := range []string{oldLarge, youngSmall, exactSize, unparsable} {
		if !f.exists(kept) {
			t.Errorf("%s should have been kept", kept)
		}
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != unparsable {
		t.Errorf("skipped = %v, want [%s]", result.Skipped, unparsable)
	}
	if result.Kept != 3 {
		t.Errorf("kept = %d, want 3", result.Kept)
	}
}

func TestPruneMissingDirectory(t *testing.T) {
	f := newFixture(t, 0)
	result, err := f.archiver.Prune(1024)
	if err != nil {
		t.Fatalf("Prune() err=%v", err)
	}
	if len(result.Deleted) != 0 {
		t.Errorf("deleted = %v, want none", result.Deleted)
	}
}

func TestPruneReportsForeignFilesQuietly(t *testing.T) {
	f := newFixture(t, 0)
	core, logs := observer.New(zapcore.DebugLevel)
	f.archiver.logger = zap.New(core)

	f.writeEntry(t, "notes_today.log", 0)
	f.writeEntry(t, "README.txt", 0)

	for i := 0; i < 3; i++ {
		if _, err := f.archiver.Prune(1024); err != nil {
			t.Fatalf("Prune() err=%v", err)
		}
	}

	skipped := logs.FilterMessage("skipping unrecognized archive file")
	if skipped.Len() != 3 {
		t.Fatalf("skip entries = %d, want 3", skipped.Len())
	}
	for _, e := range skipped.All() {
		if e.Level != zapcore.DebugLevel {
			t.Errorf("skip entry logged at %s, want debug", e.Level)
		}
	}
	loud := logs.Filter(func(e observer.LoggedEntry) bool { return e.Level >= zapcore.WarnLevel })
	if loud.Len() != 0 {
		t.Errorf("unexpected warn entries: %v", loud.All())
	}
}
