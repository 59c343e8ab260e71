package shell

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"pingwatch/internal/archive"
	"pingwatch/internal/config"
	"pingwatch/internal/logstore"
	"pingwatch/internal/monitor"
)

// Prompt is printed before each command when input is a terminal.
const Prompt = "> "

// Options configures a Shell.
type Options struct {
	Flags                 *config.Flags
	Stats                 *monitor.Stats
	Logs                  *logstore.Store
	Archiver              *archive.Archiver
	DeletionSizeThreshold int64
	Logger                *zap.Logger
}

// Shell interprets the line commands that control a running monitor. It
// never blocks the probe loop: every command works on shared handles that
// are safe for concurrent use.
type Shell struct {
	flags     *config.Flags
	stats     *monitor.Stats
	logs      *logstore.Store
	archiver  *archive.Archiver
	threshold int64
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a Shell.
func New(opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		flags:     opts.Flags,
		stats:     opts.Stats,
		logs:      opts.Logs,
		archiver:  opts.Archiver,
		threshold: opts.DeletionSizeThreshold,
		logger:    logger.Named("shell"),
		now:       time.Now,
	}
}

// Execute runs one command line and writes its output to w in a single
// Write. It reports whether the command asked the monitor to stop.
func (s *Shell) Execute(w io.Writer, line string) (quit bool) {
	var buf bytes.Buffer
	quit = s.execute(&buf, strings.ToLower(strings.TrimSpace(line)))
	buf.WriteString("\n")
	w.Write(buf.Bytes())
	return quit
}

// clearFlags maps the short clear flags to their log category.
var clearFlags = map[string]logstore.Category{
	"-s": logstore.CategorySuccess,
	"-f": logstore.CategoryFault,
	"-d": logstore.CategoryDebug,
}

var clearedMessages = map[logstore.Category]string{
	logstore.CategorySuccess: "Success log cleared.",
	logstore.CategoryFault:   "Faults log cleared.",
	logstore.CategoryDebug:   "Debug log cleared.",
}

func (s *Shell) execute(w *bytes.Buffer, cmd string) bool {
	if arg, ok := strings.CutPrefix(cmd, "clear "); ok && arg != "-a" {
		s.clear(w, strings.TrimSpace(arg))
		return false
	}

	switch cmd {
	case "q", "quit", "exit":
		fmt.Fprintln(w, "Exiting...")
		return true
	case "clear -a":
		s.prune(w)
	case "log -t":
		fmt.Fprintln(w, "Terminal logging not implemented and not recommended")
	case "log -d":
		fmt.Fprintf(w, "Debug logging enabled? %t\n", s.flags.Toggle(config.FlagLogDebug))
	case "log -s":
		fmt.Fprintf(w, "Success logging enabled? %t\n", s.flags.Toggle(config.FlagLogSuccess))
	case "log -v":
		fmt.Fprintf(w, "Verbose logging enabled? %t\n", s.flags.Toggle(config.FlagVerbose))
	case "archive":
		s.archive(w)
	case "report":
		writeReport(w, s.stats.Snapshot())
	case "?", "help":
		writeHelp(w)
	default:
		fmt.Fprintln(w, "Unknown command. Enter '?' for a list of commands")
	}
	return false
}

// clear truncates one live log, named by flag or by category.
func (s *Shell) clear(w *bytes.Buffer, arg string) {
	c, ok := clearFlags[arg]
	if !ok {
		var err error
		if c, err = logstore.ParseCategory(arg); err != nil {
			fmt.Fprintf(w, "Unknown log %q. Use -s, -f, -d or a log name (success, fault, debug)\n", arg)
			return
		}
	}
	if err := s.logs.Clear(c); err != nil {
		fmt.Fprintf(w, "Failed to clear %s log: %v\n", c, err)
		return
	}
	fmt.Fprintln(w, clearedMessages[c])
}

func (s *Shell) prune(w *bytes.Buffer) {
	result, err := s.archiver.Prune(s.threshold)
	if err != nil {
		s.logger.Warn("prune failed", zap.Error(err))
		fmt.Fprintf(w, "Error handling archive: %v\n", err)
	}
	for _, d := range result.Deleted {
		fmt.Fprintf(w, "Deleted: %s (size: %s, age: %.1f days)\n", d.Name, humanize.Bytes(uint64(d.Size)), d.AgeDays)
	}
	for _, name := range result.Skipped {
		fmt.Fprintf(w, "Skipping unrecognized filename format: %s\n", name)
	}
	fmt.Fprintf(w, "%d old/small log file(s) deleted.\n", len(result.Deleted))
}

func (s *Shell) archive(w *bytes.Buffer) {
	result, err := s.archiver.ArchiveAll()
	for _, e := range result.Archived {
		fmt.Fprintf(w, "Archived %s log to %s\n", e.Category, e.Path)
	}
	for _, c := range result.Skipped {
		fmt.Fprintf(w, "%s log not found; skipping.\n", c)
	}
	if err != nil {
		s.logger.Warn("archive failed", zap.Error(err))
		fmt.Fprintf(w, "Archive incomplete: %v\n", err)
		return
	}
	fmt.Fprintln(w, "All available logs archived and cleared.")
}

func writeReport(w io.Writer, snap monitor.Snapshot) {
	uptime := int64(snap.Uptime() / time.Second)
	hours, rem := uptime/3600, uptime%3600
	minutes, seconds := rem/60, rem%60

	fmt.Fprintln(w, "===== Report =====")
	fmt.Fprintf(w, "Uptime:    %dh %dm %ds (started %s)\n", hours, minutes, seconds, humanize.RelTime(snap.StartedAt, snap.TakenAt, "ago", "from now"))
	fmt.Fprintf(w, "Successes: %d\n", snap.Successes)
	fmt.Fprintf(w, "Faults:    %d\n", snap.TotalFaults())
	for _, f := range monitor.FaultKinds {
		fmt.Fprintf(w, "     %-12s %d\n", f.String()+":", snap.Faults[f])
	}
	fmt.Fprintf(w, "Avg Ltncy: %.2f\n", snap.AverageLatencyMS())
}

func writeHelp(w io.Writer) {
	fmt.Fprintln(w, "===== Command List =====")
	fmt.Fprintln(w, "q = Quit Application")
	fmt.Fprintln(w, "clear -s = Clear success log")
	fmt.Fprintln(w, "clear -f = Clear faults log")
	fmt.Fprintln(w, "clear -d = Clear debug log")
	fmt.Fprintln(w, "clear -a = Clear small archived logs")
	fmt.Fprintln(w, "clear <log> = Clear a log by name (success, fault, debug)")
	fmt.Fprintln(w, "log -t = Toggle terminal logging (NOT IMPLEMENTED)")
	fmt.Fprintln(w, "log -d = Toggle debug logging")
	fmt.Fprintln(w, "log -s = Toggle success logging")
	fmt.Fprintln(w, "log -v = Toggle verbose logging")
	fmt.Fprintln(w, "archive = Archive running logs")
	fmt.Fprintln(w, "report = Print current uptime report")
}

// Run reads commands from in until a quit command, end of input or ctx is
// done. End of input is treated like quit.
//
// The reader goroutine stays blocked on in after ctx is cancelled; callers
// exit the process shortly after Run returns.
func (s *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interactive := isTerminal(in)
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		if interactive {
			io.WriteString(out, Prompt)
		}
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			s.logger.Info("end of input; stopping")
			return nil
		case line := <-lines:
			if strings.TrimSpace(line) == "" {
				continue
			}
			if s.Execute(out, line) {
				return nil
			}
		}
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
