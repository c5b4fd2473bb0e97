// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

// Package sqlite implements the time-series store on an embedded SQLite
// database. It is the only shared mutable resource in the process; every
// poll-cycle commit is an independent transaction scoped to one host.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/PedroNoriega/agentless-hub/internal/pkg/errors"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// DB wraps the sqlx handle shared by the repositories.
type DB struct {
	db     *sqlx.DB
	logger *logger.Logger
}

// Open opens (creating if needed) the database at path and runs the schema
// migration. WAL keeps API reads from blocking poller writes.
func Open(ctx context.Context, path string, log *logger.Logger) (*DB, error) {
	if log == nil {
		log = logger.Nop()
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create database directory")
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_synchronous=NORMAL", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "database not responding")
	}

	// A single writer connection sidesteps SQLITE_BUSY under the
	// concurrent per-host commits at the end of a cycle.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	d := &DB{
		db:     db,
		logger: log.Named("sqlite"),
	}
	if err := d.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	d.logger.Info("database ready", "path", path)
	return d, nil
}

// Close closes the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping verifies the connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// migrate creates the schema. Statements are idempotent; raw samples are
// append-only so there are no versioned migrations to replay.
func (d *DB) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS hosts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE,
			ip TEXT,
			os TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			host_id INTEGER,
			ts INTEGER,
			cpu REAL,
			mem_total INTEGER,
			mem_avail INTEGER,
			uptime INTEGER,
			latency_ms REAL,
			net_rx_kbps REAL,
			net_tx_kbps REAL,
			FOREIGN KEY(host_id) REFERENCES hosts(id)
		)`,
		`CREATE TABLE IF NOT EXISTS disks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			host_id INTEGER,
			ts INTEGER,
			device TEXT,
			used_percent REAL,
			size_bytes INTEGER,
			free_bytes INTEGER,
			mount TEXT,
			FOREIGN KEY(host_id) REFERENCES hosts(id)
		)`,
		`CREATE TABLE IF NOT EXISTS extras (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			host_id INTEGER,
			ts INTEGER,
			payload TEXT,
			FOREIGN KEY(host_id) REFERENCES hosts(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_host_ts ON samples(host_id, ts)`,
		`CREATE INDEX IF NOT EXISTS idx_disks_host_ts ON disks(host_id, ts)`,
		`CREATE INDEX IF NOT EXISTS idx_extras_host_ts ON extras(host_id, ts)`,
	}

	for _, stmt := range statements {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, errors.CodeMigrationFailed, "schema migration failed")
		}
	}
	return nil
}
