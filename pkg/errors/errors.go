package errors

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// Probe errors
	ErrProbeFailed          = errors.New("probe invocation failed")
	ErrProbeOutputMalformed = errors.New("unexpected probe output format")

	// Log errors
	ErrLogWriteFailed  = errors.New("failed to write log")
	ErrUnknownCategory = errors.New("unknown log category")

	// Archive errors
	ErrArchiveFailed      = errors.New("failed to archive log")
	ErrArchiveNameInvalid = errors.New("unrecognized archive file name")
	ErrArchiveExists      = errors.New("archive entry already exists")

	// Config errors
	ErrConfigInvalid = errors.New("invalid config")

	// History errors
	ErrHistoryDisabled = errors.New("probe history is disabled")
)

// ProbeError represents a failure to launch or run the probe tool
type ProbeError struct {
	Host string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Host, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// LogError represents a file-system failure on a live log or archive entry
type LogError struct {
	Category string
	Path     string
	Err      error
}

func (e *LogError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("%s log (%s): %v", e.Category, e.Path, e.Err)
	}
	return fmt.Sprintf("log %s: %v", e.Path, e.Err)
}

func (e *LogError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid or unreadable config value
type ConfigError struct {
	Section string
	Key     string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config [%s] %s: %v", e.Section, e.Key, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
