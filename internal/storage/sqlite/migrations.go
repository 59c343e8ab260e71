package sqlite

const schema = `
-- One row per completed probe cycle
CREATE TABLE IF NOT EXISTS probe_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    target TEXT NOT NULL,
    kind TEXT NOT NULL,
    latency_ms REAL,
    exit_code INTEGER NOT NULL DEFAULT 0,
    network_name TEXT,
    detail TEXT,
    probed_at TIMESTAMP NOT NULL
);

-- Indexes for performance
CREATE INDEX IF NOT EXISTS idx_probe_history_session_id ON probe_history(session_id);
CREATE INDEX IF NOT EXISTS idx_probe_history_kind ON probe_history(kind);
CREATE INDEX IF NOT EXISTS idx_probe_history_probed_at ON probe_history(probed_at);
`

// runMigrations executes the database schema
func runMigrations(db *DB) error {
	if _, err := db.db.Exec(schema); err != nil {
		return err
	}
	return nil
}
