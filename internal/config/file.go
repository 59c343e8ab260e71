package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-ini/ini"
)

// ToINI renders the config as a settings file with the same sections and
// keys Load understands.
func (c *Config) ToINI() *ini.File {
	f := ini.Empty()

	set := func(section, key, value string) {
		f.Section(section).Key(key).SetValue(value)
	}
	secs := func(d time.Duration) string {
		return strconv.FormatInt(int64(d/time.Second), 10)
	}

	set(SectionLogging, "VERBOSE", strconv.FormatBool(c.Verbose))
	set(SectionLogging, "PRINT_TERMINAL", strconv.FormatBool(c.PrintTerminal))
	set(SectionLogging, "LOG_DEBUG", strconv.FormatBool(c.LogDebug))
	set(SectionLogging, "LOG_SUCCESS", strconv.FormatBool(c.LogSuccess))

	set(SectionIntervals, "AUTO_ARCHIVE_INTERVAL", secs(c.ArchiveInterval))
	set(SectionIntervals, "PING_INTERVAL", secs(c.ProbeInterval))
	set(SectionIntervals, "ARCHIVE_DELETION_INTERVAL", strconv.Itoa(c.ArchiveDeletionAge))

	set(SectionPayload, "BYTE_COUNT", strconv.Itoa(c.PayloadBytes))

	set(SectionOther, "LATENCY_THRESHOLD", strconv.Itoa(c.LatencyThresholdMS))
	set(SectionOther, "TARGET", c.Target)

	set(SectionFiles, "AUTO_DELETION_SIZE_THRESHOLD", strconv.FormatInt(c.DeletionSizeThreshold, 10))
	set(SectionFiles, "LOG_DIR", c.LogDir)
	set(SectionFiles, "ARCHIVE_DIR", c.ArchiveDir)
	set(SectionFiles, "SUCCESS_LOG", c.SuccessLog)
	set(SectionFiles, "FAULT_LOG", c.FaultLog)
	set(SectionFiles, "DEBUG_LOG", c.DebugLog)
	set(SectionFiles, "HISTORY_DB", c.HistoryDB)

	return f
}

// WriteTo writes the settings file representation of c to w.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	return c.ToINI().WriteTo(w)
}

// Save writes c to path. An existing file is only replaced when force is set.
func (c *Config) Save(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := c.ToINI().SaveTo(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
