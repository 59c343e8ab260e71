package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pingwatch/internal/storage"
	"pingwatch/internal/storage/models"
)

// DB implements the Storage interface using SQLite
type DB struct {
	db *sql.DB
}

// New creates a new SQLite storage instance
func New(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The probe loop is the only writer.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &DB{db: db}

	if err := runMigrations(store); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

var _ storage.Storage = (*DB)(nil)

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// ─── Probe history operations ───────────────────────────────────────────────

func (d *DB) RecordProbe(ctx context.Context, record *models.ProbeRecord) error {
	query := `
		INSERT INTO probe_history (session_id, target, kind, latency_ms, exit_code, network_name, detail, probed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := d.db.ExecContext(ctx, query,
		record.SessionID, record.Target, record.Kind, record.LatencyMS, record.ExitCode,
		record.NetworkName, record.Detail, record.ProbedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record probe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	record.ID = id
	return nil
}

func (d *DB) GetRecentProbes(ctx context.Context, filter storage.ProbeFilter) ([]*models.ProbeRecord, error) {
	query := `
		SELECT id, session_id, target, kind, latency_ms, exit_code, network_name, detail, probed_at
		FROM probe_history
	`
	var conditions []string
	var args []interface{}

	if filter.SessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, filter.Kind)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY probed_at DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query probe history: %w", err)
	}
	defer rows.Close()

	var records []*models.ProbeRecord
	for rows.Next() {
		record := &models.ProbeRecord{}
		var networkName, detail sql.NullString
		err := rows.Scan(
			&record.ID, &record.SessionID, &record.Target, &record.Kind, &record.LatencyMS,
			&record.ExitCode, &networkName, &detail, &record.ProbedAt,
		)
		if err != nil {
			return nil, err
		}
		record.NetworkName = networkName.String
		record.Detail = detail.String
		record.ProbedAt = record.ProbedAt.Local()
		records = append(records, record)
	}
	return records, rows.Err()
}

func (d *DB) CountByKind(ctx context.Context, sessionID string) (map[string]int, error) {
	query := "SELECT kind, COUNT(*) FROM probe_history"
	var args []interface{}
	if sessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, sessionID)
	}
	query += " GROUP BY kind"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count probes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

func (d *DB) GetLatestSession(ctx context.Context) (string, error) {
	var sessionID string
	err := d.db.QueryRowContext(ctx,
		"SELECT session_id FROM probe_history ORDER BY probed_at DESC, id DESC LIMIT 1",
	).Scan(&sessionID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (d *DB) DeleteProbesBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := d.db.ExecContext(ctx, "DELETE FROM probe_history WHERE probed_at < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete probe history: %w", err)
	}
	return result.RowsAffected()
}
