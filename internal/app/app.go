package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pingwatch/internal/archive"
	"pingwatch/internal/config"
	"pingwatch/internal/logging"
	"pingwatch/internal/logstore"
	"pingwatch/internal/monitor"
	"pingwatch/internal/paths"
	"pingwatch/internal/probe"
	"pingwatch/internal/shell"
	"pingwatch/internal/storage"
	"pingwatch/internal/storage/sqlite"
	perrors "pingwatch/pkg/errors"
)

// Options controls how New wires the application.
type Options struct {
	LogLevel string
	LogFile  string    // diagnostics destination, empty for stderr
	Terminal io.Writer // probe echo and shell output, defaults to stdout

	// Prober and Namer replace the platform implementations when set.
	Prober probe.Prober
	Namer  probe.NetworkNamer
}

// App represents the application context
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Flags     *config.Flags
	Stats     *monitor.Stats
	Logs      *logstore.Store
	Archiver  *archive.Archiver
	History   storage.Storage // nil when HISTORY_DB is empty
	Session   string
	Loop      *monitor.Loop
	Scheduler *monitor.Scheduler
	Shell     *shell.Shell
	Terminal  io.Writer
}

// LoadConfig reads the settings file at path, or the default settings file
// when path is empty.
func LoadConfig(path string) (*config.Config, error) {
	dataDir, err := paths.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if path == "" {
		path, err = paths.DefaultConfigFile()
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return config.Load(path, dataDir)
}

// OpenHistory opens the probe history database named by cfg.
func OpenHistory(cfg *config.Config) (storage.Storage, error) {
	if cfg.HistoryDB == "" {
		return nil, perrors.ErrHistoryDisabled
	}
	store, err := sqlite.New(cfg.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	paths.ChownToRealUser(cfg.HistoryDB)
	return store, nil
}

// New creates a new application instance around a loaded config. Nothing
// runs until Run or Scheduler.Start is called.
func New(cfg *config.Config, opts Options) (*App, error) {
	level := opts.LogLevel
	if level == "" {
		level = "info"
	}
	logger, err := logging.New(level, opts.LogFile)
	if err != nil {
		return nil, err
	}
	if cfg.Source == "" {
		logger.Info("settings file not found; using defaults")
	} else {
		logger.Debug("loaded settings", zap.String("path", cfg.Source))
	}

	terminal := opts.Terminal
	if terminal == nil {
		terminal = shell.NewTerminal(os.Stdout)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Flags:    config.NewFlags(cfg),
		Stats:    monitor.NewStats(time.Now()),
		Session:  uuid.NewString(),
		Terminal: terminal,
	}

	a.Logs = logstore.New(map[logstore.Category]string{
		logstore.CategorySuccess: cfg.SuccessLog,
		logstore.CategoryFault:   cfg.FaultLog,
		logstore.CategoryDebug:   cfg.DebugLog,
	})
	a.Archiver = archive.New(a.Logs, archive.Options{
		Dir:             cfg.ArchiveDir,
		DeletionAgeDays: cfg.ArchiveDeletionAge,
		Logger:          logger,
	})

	if cfg.HistoryDB != "" {
		history, err := OpenHistory(cfg)
		if err != nil {
			// History is optional: the monitor runs without it.
			logger.Warn("probe history disabled", zap.Error(err))
		} else {
			a.History = history
		}
	}

	prober := opts.Prober
	if prober == nil {
		prober = probe.NewPingProber()
	}
	namer := opts.Namer
	if namer == nil {
		namer = probe.NewNetworkNamer()
	}

	a.Loop = monitor.NewLoop(monitor.Deps{
		Config:   cfg,
		Flags:    a.Flags,
		Stats:    a.Stats,
		Logs:     a.Logs,
		Archiver: a.Archiver,
		Prober:   prober,
		Namer:    namer,
		Codes:    probe.PlatformExitCodes(),
		History:  a.History,
		Session:  a.Session,
		Terminal: terminal,
		Logger:   logger,
	})

	a.Scheduler, err = monitor.NewScheduler(a.Loop, cfg.ProbeInterval, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Shell = shell.New(shell.Options{
		Flags:                 a.Flags,
		Stats:                 a.Stats,
		Logs:                  a.Logs,
		Archiver:              a.Archiver,
		DeletionSizeThreshold: cfg.DeletionSizeThreshold,
		Logger:                logger,
	})

	logger.Info("monitor ready",
		zap.String("target", cfg.Target),
		zap.Duration("probe_interval", cfg.ProbeInterval),
		zap.Duration("archive_interval", cfg.ArchiveInterval),
		zap.String("session", a.Session))

	return a, nil
}

// Run starts the probe loop and reads shell commands from in until a quit
// command, end of input or ctx is done, then stops the loop.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	if err := a.Scheduler.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	shellDone := make(chan struct{})
	g.Go(func() error {
		defer close(shellDone)
		return a.Shell.Run(gctx, in, a.Terminal)
	})
	g.Go(func() error {
		select {
		case <-shellDone:
		case <-gctx.Done():
		}
		return a.Scheduler.Stop()
	})
	return g.Wait()
}

// Close closes the application and releases resources
func (a *App) Close() error {
	var err error
	if a.History != nil {
		err = multierr.Append(err, a.History.Close())
	}
	if a.Logger != nil {
		// Sync on a console logger fails on some platforms; ignore it.
		a.Logger.Sync()
	}
	return err
}
