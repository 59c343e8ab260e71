package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the diagnostics logger. level is one of debug, info, warn or
// error; outputPath is a file path, or empty for stderr.
func New(level, outputPath string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Development = false
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	if outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{outputPath}
		cfg.ErrorOutputPaths = []string{outputPath}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// GocronLogger adapts a zap logger to gocron's Logger interface.
type GocronLogger struct {
	l *zap.SugaredLogger
}

// NewGocronLogger wraps logger for use with gocron.WithLogger.
func NewGocronLogger(logger *zap.Logger) *GocronLogger {
	return &GocronLogger{l: logger.Named("scheduler").Sugar()}
}

func (g *GocronLogger) Debug(msg string, args ...any) { g.l.Debugw(msg, args...) }
func (g *GocronLogger) Info(msg string, args ...any)  { g.l.Infow(msg, args...) }
func (g *GocronLogger) Warn(msg string, args ...any)  { g.l.Warnw(msg, args...) }
func (g *GocronLogger) Error(msg string, args ...any) { g.l.Errorw(msg, args...) }
