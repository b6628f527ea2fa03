// Package db provides SQLite database operations for fontdue.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute pragma %q: %w", pragma, err)
		}
	}

	d := &DB{DB: db, path: path}

	if err := d.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Migrate runs database migrations.
func (d *DB) Migrate() error {
	schema := `
	-- Persisted collection documents, one JSON blob per key
	CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Full catalogs fetched from remote sources
	CREATE TABLE IF NOT EXISTS catalogs (
		source TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		font_count INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Catalog refresh jobs
	CREATE TABLE IF NOT EXISTS refresh_jobs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		status TEXT DEFAULT 'pending',
		attempts INTEGER DEFAULT 0,
		max_attempts INTEGER DEFAULT 3,
		font_count INTEGER DEFAULT 0,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_refresh_jobs_status ON refresh_jobs(status);
	CREATE INDEX IF NOT EXISTS idx_refresh_jobs_source ON refresh_jobs(source);

	-- Refresh job events (for tracking)
	CREATE TABLE IF NOT EXISTS refresh_events (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		details TEXT,
		FOREIGN KEY (job_id) REFERENCES refresh_jobs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_refresh_events_job ON refresh_events(job_id);
	`

	_, err := d.Exec(schema)
	return err
}

// SqlConn returns a go-zero sqlx.SqlConn wrapping the underlying database.
// This provides automatic circuit breaking and OpenTelemetry tracing on every query.
func (d *DB) SqlConn() sqlx.SqlConn {
	return sqlx.NewSqlConnFromDB(d.DB, sqlx.WithAcceptable(sqliteAcceptable))
}

// sqliteAcceptable tells the circuit breaker that "database is locked" errors
// are transient (SQLite WAL contention) and should not trip the breaker.
func sqliteAcceptable(err error) bool {
	return err == nil || strings.Contains(err.Error(), "database is locked")
}
