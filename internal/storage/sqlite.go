package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	conn    *sql.DB
	dataDir string // root directory for project export files
}

// New creates a new DB, opening (or creating) the SQLite file at dbPath.
// dataDir is the root directory where project export files are written.
func New(dbPath, dataDir string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer — limit to single connection to prevent SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, dataDir: dataDir}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// DataDir returns the root data directory.
func (db *DB) DataDir() string {
	return db.dataDir
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		// Durable event log — one row per journaled event, ordered by seq.
		`CREATE TABLE IF NOT EXISTS events (
			project_id TEXT NOT NULL REFERENCES projects(id),
			seq INTEGER NOT NULL,
			event_id INTEGER NOT NULL,
			type TEXT NOT NULL,
			time DATETIME NOT NULL,
			payload_json TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (project_id, seq)
		)`,
		// Cursor position per project, so undo state survives a restart.
		`CREATE TABLE IF NOT EXISTS cursors (
			project_id TEXT PRIMARY KEY REFERENCES projects(id),
			cursor INTEGER NOT NULL DEFAULT -1
		)`,
		// Periodic whole-state snapshots; pruned by count per project.
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id TEXT NOT NULL REFERENCES projects(id),
			cursor INTEGER NOT NULL,
			state_json TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_project ON snapshots(project_id)`,
		// Linked export files watched for external edits.
		`CREATE TABLE IF NOT EXISTS project_links (
			project_id TEXT PRIMARY KEY REFERENCES projects(id),
			file_path TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}

	return nil
}
