package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-ini/ini"

	perrors "pingwatch/pkg/errors"
)

// Section names of the settings file.
const (
	SectionLogging   = "Logging"
	SectionIntervals = "Intervals"
	SectionPayload   = "Payload"
	SectionOther     = "Other"
	SectionFiles     = "Files"
)

// DefaultTarget is the host probed when the settings file names none.
const DefaultTarget = "google.com"

// Config holds the parameters fixed at load time. The four logging switches
// are only the initial values; see Flags for their runtime state.
type Config struct {
	Verbose       bool
	PrintTerminal bool
	LogDebug      bool
	LogSuccess    bool

	ArchiveInterval    time.Duration
	ProbeInterval      time.Duration
	ArchiveDeletionAge int // days

	PayloadBytes       int
	LatencyThresholdMS int
	Target             string

	DeletionSizeThreshold int64 // bytes
	LogDir                string
	ArchiveDir            string
	SuccessLog            string
	FaultLog              string
	DebugLog              string
	HistoryDB             string

	// Source is the file the config was read from, empty when defaults are used.
	Source string
}

// Default returns the built-in configuration rooted at dataDir.
func Default(dataDir string) *Config {
	logDir := filepath.Join(dataDir, "logs")
	return &Config{
		Verbose:               false,
		PrintTerminal:         true,
		LogDebug:              false,
		LogSuccess:            true,
		ArchiveInterval:       24 * time.Hour,
		ProbeInterval:         5 * time.Second,
		ArchiveDeletionAge:    7,
		PayloadBytes:          32,
		LatencyThresholdMS:    100,
		Target:                DefaultTarget,
		DeletionSizeThreshold: 1024,
		LogDir:                logDir,
		ArchiveDir:            filepath.Join(logDir, "archive"),
		SuccessLog:            filepath.Join(logDir, "success.log"),
		FaultLog:              filepath.Join(logDir, "fault.log"),
		DebugLog:              filepath.Join(logDir, "debug.log"),
	}
}

// Load reads the settings file at path on top of Default(dataDir).
// A missing file is not an error: the defaults are returned with an empty Source.
func Load(path, dataDir string) (*Config, error) {
	cfg := Default(dataDir)

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Fall through to defaults.
		case err != nil:
			return nil, &perrors.ConfigError{Err: fmt.Errorf("failed to stat %s: %w", path, err)}
		default:
			file, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
			if err != nil {
				return nil, &perrors.ConfigError{Err: fmt.Errorf("failed to parse %s: %w", path, err)}
			}
			if err := apply(cfg, file); err != nil {
				return nil, err
			}
			cfg.Source = path
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func apply(cfg *Config, file *ini.File) error {
	r := &reader{file: file}

	cfg.Verbose = r.bool(SectionLogging, "VERBOSE", cfg.Verbose)
	cfg.PrintTerminal = r.bool(SectionLogging, "PRINT_TERMINAL", cfg.PrintTerminal)
	cfg.LogDebug = r.bool(SectionLogging, "LOG_DEBUG", cfg.LogDebug)
	cfg.LogSuccess = r.bool(SectionLogging, "LOG_SUCCESS", cfg.LogSuccess)

	cfg.ArchiveInterval = r.seconds(SectionIntervals, "AUTO_ARCHIVE_INTERVAL", cfg.ArchiveInterval)
	cfg.ProbeInterval = r.seconds(SectionIntervals, "PING_INTERVAL", cfg.ProbeInterval)
	cfg.ArchiveDeletionAge = r.int(SectionIntervals, "ARCHIVE_DELETION_INTERVAL", cfg.ArchiveDeletionAge)

	cfg.PayloadBytes = r.int(SectionPayload, "BYTE_COUNT", cfg.PayloadBytes)

	cfg.LatencyThresholdMS = r.int(SectionOther, "LATENCY_THRESHOLD", cfg.LatencyThresholdMS)
	cfg.Target = r.string(SectionOther, "TARGET", cfg.Target)

	cfg.DeletionSizeThreshold = r.size(SectionFiles, "AUTO_DELETION_SIZE_THRESHOLD", cfg.DeletionSizeThreshold)

	// Log file defaults follow LOG_DIR when only the directory is overridden.
	defaultDir := cfg.LogDir
	cfg.LogDir = r.string(SectionFiles, "LOG_DIR", cfg.LogDir)
	if cfg.LogDir != defaultDir {
		cfg.ArchiveDir = filepath.Join(cfg.LogDir, "archive")
		cfg.SuccessLog = filepath.Join(cfg.LogDir, "success.log")
		cfg.FaultLog = filepath.Join(cfg.LogDir, "fault.log")
		cfg.DebugLog = filepath.Join(cfg.LogDir, "debug.log")
	}
	cfg.ArchiveDir = r.string(SectionFiles, "ARCHIVE_DIR", cfg.ArchiveDir)
	cfg.SuccessLog = r.string(SectionFiles, "SUCCESS_LOG", cfg.SuccessLog)
	cfg.FaultLog = r.string(SectionFiles, "FAULT_LOG", cfg.FaultLog)
	cfg.DebugLog = r.string(SectionFiles, "DEBUG_LOG", cfg.DebugLog)
	cfg.HistoryDB = r.string(SectionFiles, "HISTORY_DB", cfg.HistoryDB)

	return r.err
}

// normalize joins bare log file names onto LogDir.
func (c *Config) normalize() {
	for _, p := range []*string{&c.SuccessLog, &c.FaultLog, &c.DebugLog} {
		if *p != "" && !filepath.IsAbs(*p) && filepath.Dir(*p) == "." {
			*p = filepath.Join(c.LogDir, *p)
		}
	}
}

// Validate checks the invariants the probe loop relies on.
func (c *Config) Validate() error {
	invalid := func(section, key, reason string) error {
		return &perrors.ConfigError{
			Section: section,
			Key:     key,
			Err:     fmt.Errorf("%w: %s", perrors.ErrConfigInvalid, reason),
		}
	}

	if c.ProbeInterval <= 0 {
		return invalid(SectionIntervals, "PING_INTERVAL", "must be greater than zero")
	}
	if c.ArchiveInterval < 0 {
		return invalid(SectionIntervals, "AUTO_ARCHIVE_INTERVAL", "must not be negative")
	}
	if c.ArchiveDeletionAge < 0 {
		return invalid(SectionIntervals, "ARCHIVE_DELETION_INTERVAL", "must not be negative")
	}
	if c.PayloadBytes < 0 {
		return invalid(SectionPayload, "BYTE_COUNT", "must not be negative")
	}
	if c.LatencyThresholdMS < 0 {
		return invalid(SectionOther, "LATENCY_THRESHOLD", "must not be negative")
	}
	if c.Target == "" {
		return invalid(SectionOther, "TARGET", "must not be empty")
	}
	if c.DeletionSizeThreshold < 0 {
		return invalid(SectionFiles, "AUTO_DELETION_SIZE_THRESHOLD", "must not be negative")
	}

	paths := []struct {
		key   string
		value string
	}{
		{"LOG_DIR", c.LogDir},
		{"ARCHIVE_DIR", c.ArchiveDir},
		{"SUCCESS_LOG", c.SuccessLog},
		{"FAULT_LOG", c.FaultLog},
		{"DEBUG_LOG", c.DebugLog},
	}
	for _, p := range paths {
		if p.value == "" {
			return invalid(SectionFiles, p.key, "path must not be empty")
		}
	}
	return nil
}

// reader pulls typed values out of an ini file, remembering the first failure.
type reader struct {
	file *ini.File
	err  error
}

func (r *reader) key(section, name string) *ini.Key {
	if r.err != nil {
		return nil
	}
	sec, err := r.file.GetSection(section)
	if err != nil || !sec.HasKey(name) {
		return nil
	}
	return sec.Key(name)
}

func (r *reader) fail(section, name string, err error) {
	r.err = &perrors.ConfigError{
		Section: section,
		Key:     name,
		Err:     fmt.Errorf("%w: %v", perrors.ErrConfigInvalid, err),
	}
}

func (r *reader) bool(section, name string, def bool) bool {
	k := r.key(section, name)
	if k == nil {
		return def
	}
	v, err := k.Bool()
	if err != nil {
		r.fail(section, name, err)
		return def
	}
	return v
}

func (r *reader) int(section, name string, def int) int {
	k := r.key(section, name)
	if k == nil {
		return def
	}
	v, err := k.Int()
	if err != nil {
		r.fail(section, name, err)
		return def
	}
	return v
}

func (r *reader) seconds(section, name string, def time.Duration) time.Duration {
	n := r.int(section, name, int(def/time.Second))
	return time.Duration(n) * time.Second
}

func (r *reader) string(section, name, def string) string {
	k := r.key(section, name)
	if k == nil {
		return def
	}
	return k.String()
}

func (r *reader) size(section, name string, def int64) int64 {
	k := r.key(section, name)
	if k == nil {
		return def
	}
	v, err := humanize.ParseBytes(k.String())
	if err != nil {
		r.fail(section, name, err)
		return def
	}
	return int64(v)
}
