package config

import (
	"fmt"

	"go.uber.org/atomic"
)

// Flag identifies one of the runtime logging switches.
type Flag int

const (
	FlagVerbose Flag = iota
	FlagPrintTerminal
	FlagLogDebug
	FlagLogSuccess
)

func (f Flag) String() string {
	switch f {
	case FlagVerbose:
		return "verbose"
	case FlagPrintTerminal:
		return "print_terminal"
	case FlagLogDebug:
		return "log_debug"
	case FlagLogSuccess:
		return "log_success"
	default:
		return fmt.Sprintf("flag(%d)", int(f))
	}
}

// Flags holds the logging switches that the command shell may flip while
// the probe loop is running. Every read and toggle is atomic.
type Flags struct {
	verbose       atomic.Bool
	printTerminal atomic.Bool
	logDebug      atomic.Bool
	logSuccess    atomic.Bool
}

// NewFlags seeds runtime flags from the loaded config.
func NewFlags(cfg *Config) *Flags {
	f := &Flags{}
	f.verbose.Store(cfg.Verbose)
	f.printTerminal.Store(cfg.PrintTerminal)
	f.logDebug.Store(cfg.LogDebug)
	f.logSuccess.Store(cfg.LogSuccess)
	return f
}

func (f *Flags) ref(flag Flag) *atomic.Bool {
	switch flag {
	case FlagVerbose:
		return &f.verbose
	case FlagPrintTerminal:
		return &f.printTerminal
	case FlagLogDebug:
		return &f.logDebug
	case FlagLogSuccess:
		return &f.logSuccess
	}
	panic(fmt.Sprintf("config: unknown flag %d", int(flag)))
}

// Get returns the current value of flag.
func (f *Flags) Get(flag Flag) bool {
	return f.ref(flag).Load()
}

// Set stores value for flag.
func (f *Flags) Set(flag Flag, value bool) {
	f.ref(flag).Store(value)
}

// Toggle flips flag and returns its new value.
func (f *Flags) Toggle(flag Flag) bool {
	return !f.ref(flag).Toggle()
}

func (f *Flags) Verbose() bool       { return f.verbose.Load() }
func (f *Flags) PrintTerminal() bool { return f.printTerminal.Load() }
func (f *Flags) LogDebug() bool      { return f.logDebug.Load() }
func (f *Flags) LogSuccess() bool    { return f.logSuccess.Load() }
