package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pingwatch/internal/storage/models"
	"pingwatch/internal/storage/sqlite"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SUDO_USER", "")
	t.Setenv("SUDO_UID", "")
	return home
}

func TestConfigInitWritesLoadableFile(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, "settings.cfg")

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config init err=%v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("settings file not written: %v", err)
	}

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	if err := rootCmd.Execute(); err == nil {
		t.Errorf("config init should refuse to overwrite without --force")
	}

	rootCmd.SetArgs([]string{"config", "show", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config show err=%v", err)
	}
	if appConfig == nil || appConfig.Source != path {
		t.Errorf("config show loaded %+v, want source %s", appConfig, path)
	}
}

func TestResolveSession(t *testing.T) {
	dir := t.TempDir()
	store, err := sqlite.New(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	if id, err := resolveSession(ctx, store, "current"); err != nil || id != "" {
		t.Errorf("empty history: id=%q err=%v", id, err)
	}

	now := time.Now()
	for i, session := range []string{"older", "newer"} {
		err := store.RecordProbe(ctx, &models.ProbeRecord{
			SessionID: session,
			Target:    "google.com",
			Kind:      "success",
			ProbedAt:  now.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		flag string
		want string
	}{
		{"current", "newer"},
		{"", "newer"},
		{"all", ""},
		{"older", "older"},
	}
	for _, tt := range tests {
		got, err := resolveSession(ctx, store, tt.flag)
		if err != nil || got != tt.want {
			t.Errorf("resolveSession(%q) = %q, %v; want %q", tt.flag, got, err, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("home-wifi", 24); got != "home-wifi" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
}

func TestCompleteKinds(t *testing.T) {
	got, _ := completeKinds(nil, nil, "t")
	if len(got) != 1 || got[0] != "timeout" {
		t.Errorf("completeKinds(t) = %v", got)
	}
}
