package storage

import (
	"context"
	"time"

	"pingwatch/internal/storage/models"
)

// Storage defines the interface for probe history persistence
type Storage interface {
	// Probe history operations
	RecordProbe(ctx context.Context, record *models.ProbeRecord) error
	GetRecentProbes(ctx context.Context, filter ProbeFilter) ([]*models.ProbeRecord, error)
	CountByKind(ctx context.Context, sessionID string) (map[string]int, error)
	GetLatestSession(ctx context.Context) (string, error)
	DeleteProbesBefore(ctx context.Context, before time.Time) (int64, error)

	// Close closes the storage connection
	Close() error
}

// ProbeFilter represents filters for querying probe history
type ProbeFilter struct {
	SessionID string // empty for all sessions
	Kind      string // empty for all kinds
	Limit     int
}
