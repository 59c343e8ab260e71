package monitor

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"pingwatch/internal/archive"
	"pingwatch/internal/config"
	"pingwatch/internal/logstore"
	"pingwatch/internal/probe"
	"pingwatch/internal/storage"
	"pingwatch/internal/storage/models"
	perrors "pingwatch/pkg/errors"
)

// Deps holds everything a Loop needs. History and Terminal are optional.
type Deps struct {
	Config   *config.Config
	Flags    *config.Flags
	Stats    *Stats
	Logs     *logstore.Store
	Archiver *archive.Archiver
	Prober   probe.Prober
	Namer    probe.NetworkNamer
	Codes    probe.ExitCodes
	History  storage.Storage
	Session  string
	Terminal io.Writer
	Logger   *zap.Logger
}

// Loop runs probe cycles: probe, classify, record, prune and, every
// archive interval, archive.
type Loop struct {
	cfg        *config.Config
	flags      *config.Flags
	stats      *Stats
	logs       *logstore.Store
	archiver   *archive.Archiver
	prober     probe.Prober
	namer      probe.NetworkNamer
	classifier Classifier
	history    storage.Storage
	session    string
	terminal   io.Writer
	logger     *zap.Logger
	now        func() time.Time
}

// NewLoop creates a Loop from its dependencies.
func NewLoop(d Deps) *Loop {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	terminal := d.Terminal
	if terminal == nil {
		terminal = io.Discard
	}
	namer := d.Namer
	if namer == nil {
		namer = probe.StaticNamer("unknown")
	}
	return &Loop{
		cfg:      d.Config,
		flags:    d.Flags,
		stats:    d.Stats,
		logs:     d.Logs,
		archiver: d.Archiver,
		prober:   d.Prober,
		namer:    namer,
		classifier: Classifier{
			ThresholdMS: float64(d.Config.LatencyThresholdMS),
			Codes:       d.Codes,
		},
		history:  d.History,
		session:  d.Session,
		terminal: terminal,
		logger:   logger.Named("loop"),
		now:      time.Now,
	}
}

// RunCycle performs one full cycle and returns its outcome. It never fails:
// every error is classified, logged and absorbed so the next cycle runs.
func (l *Loop) RunCycle(ctx context.Context) Outcome {
	// A stop request must not interrupt a cycle that has already started.
	ctx = context.WithoutCancel(ctx)

	out, archiveDue := l.probeAndRecord(ctx)

	l.prune()

	if archiveDue {
		l.archive(ctx)
	}
	return out
}

// probeAndRecord runs the probe and records exactly one outcome for it in
// Stats, even when something panics along the way.
func (l *Loop) probeAndRecord(ctx context.Context) (out Outcome, archiveDue bool) {
	at := l.now()
	network := l.networkName(ctx)
	recorded := false

	record := func(o Outcome) {
		archiveDue = l.stats.Record(o, at, l.cfg.ProbeInterval, l.cfg.ArchiveInterval)
		recorded = true
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err := fmt.Errorf("%w: panic: %v", perrors.ErrProbeFailed, r)
		name := safeName(network)
		if recorded {
			// The outcome is already counted; only report the failure.
			l.logger.Error("cycle panicked after recording", zap.Error(err), zap.Stringer("kind", out.Kind))
			l.debug(fmt.Sprintf("Exception - %v - %s", err, name))
			return
		}
		out = Outcome{Kind: KindOther, Err: err}
		record(out)
		l.write(logstore.CategoryFault, out.FaultMessage(name))
		l.debug(fmt.Sprintf("Exception - %v - %s", err, name))
	}()

	res, err := l.prober.Probe(ctx, l.cfg.Target, l.cfg.PayloadBytes)

	l.debug(res.String())
	if err != nil {
		l.debug(fmt.Sprintf("Exception - %v - %s | %s", err, network(), res))
	}

	out = l.classifier.Classify(res, err)
	record(out)

	l.echo(res, out, network)

	if out.Kind.Successful() {
		if l.flags.LogSuccess() {
			l.write(logstore.CategorySuccess, out.SuccessMessage(network()))
		}
		if out.Kind == KindHighLatency {
			l.write(logstore.CategoryFault, out.FaultMessage(network()))
		}
	} else {
		l.write(logstore.CategoryFault, out.FaultMessage(network()))
		if out.Kind == KindOther && err == nil {
			l.debug(fmt.Sprintf("Parse error - %v", out.Err))
		}
	}

	l.recordHistory(ctx, out, res, network, at)
	return out, archiveDue
}

// unknownNetwork is reported when the network name lookup itself panics.
const unknownNetwork = "Unknown (network name lookup failed)"

// networkName resolves the network name at most once per cycle, and only
// when a log line needs it. A lookup that panics is not retried.
func (l *Loop) networkName(ctx context.Context) func() string {
	var name string
	resolved := false
	return func() string {
		if !resolved {
			resolved = true
			name = unknownNetwork
			name = l.namer.NetworkName(ctx)
		}
		return name
	}
}

// safeName resolves the network name inside a recover handler, where a
// second panic would escape.
func safeName(network func() string) (name string) {
	defer func() {
		if recover() != nil {
			name = unknownNetwork
		}
	}()
	return network()
}

func (l *Loop) echo(res probe.Result, out Outcome, network func() string) {
	if !l.flags.PrintTerminal() {
		return
	}
	switch {
	case l.flags.Verbose():
		fmt.Fprintln(l.terminal, res.String())
	case out.Kind.Successful():
		fmt.Fprintln(l.terminal, out.Summary)
	default:
		fmt.Fprintln(l.terminal, out.FaultMessage(network()))
	}
}

func (l *Loop) recordHistory(ctx context.Context, out Outcome, res probe.Result, network func() string, at time.Time) {
	if l.history == nil {
		return
	}
	record := &models.ProbeRecord{
		SessionID:   l.session,
		Target:      l.cfg.Target,
		Kind:        out.Kind.String(),
		ExitCode:    res.ExitCode,
		NetworkName: network(),
		Detail:      out.Summary,
		ProbedAt:    at,
	}
	if out.HasLatency {
		latency := out.LatencyMS
		record.LatencyMS = &latency
	}
	if out.Err != nil {
		record.Detail = out.Err.Error()
	}
	if err := l.history.RecordProbe(ctx, record); err != nil {
		l.logger.Warn("failed to record probe history", zap.Error(err))
	}
}

func (l *Loop) prune() {
	result, err := l.archiver.Prune(l.cfg.DeletionSizeThreshold)
	if err != nil {
		l.fsFailure(err)
	}
	if n := len(result.Deleted); n > 0 && l.flags.PrintTerminal() {
		fmt.Fprintf(l.terminal, "%d old/small log file(s) deleted.\n", n)
	}
}

func (l *Loop) archive(ctx context.Context) {
	result, err := l.archiver.ArchiveAll()
	if err != nil {
		l.fsFailure(err)
	}
	if l.flags.PrintTerminal() {
		for _, e := range result.Archived {
			fmt.Fprintf(l.terminal, "Archived %s log to %s\n", e.Category, e.Path)
		}
		fmt.Fprintln(l.terminal, "All available logs archived and cleared.")
	}

	if l.history != nil && l.cfg.ArchiveDeletionAge > 0 {
		cutoff := l.now().AddDate(0, 0, -l.cfg.ArchiveDeletionAge)
		n, err := l.history.DeleteProbesBefore(ctx, cutoff)
		if err != nil {
			l.logger.Warn("failed to trim probe history", zap.Error(err))
		} else if n > 0 {
			l.logger.Info("trimmed probe history", zap.Int64("rows", n), zap.Time("before", cutoff))
		}
	}
}

func (l *Loop) write(c logstore.Category, text string) {
	if err := l.logs.Append(c, text); err != nil {
		l.fsFailure(err)
	}
}

func (l *Loop) debug(text string) {
	if !l.flags.LogDebug() {
		return
	}
	if err := l.logs.Append(logstore.CategoryDebug, text); err != nil {
		l.logger.Warn("failed to write debug log", zap.Error(err))
	}
}

// fsFailure surfaces a file-system error on the debug log when it is
// enabled, falling back to a terminal notice.
func (l *Loop) fsFailure(err error) {
	if l.flags.LogDebug() {
		if derr := l.logs.Append(logstore.CategoryDebug, fmt.Sprintf("File system error - %v", err)); derr == nil {
			return
		}
	}
	l.logger.Warn("log file operation failed", zap.Error(err))
}
