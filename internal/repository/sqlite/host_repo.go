// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package sqlite

import (
	"context"
	"database/sql"

	"github.com/PedroNoriega/agentless-hub/internal/models"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/errors"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// HostRepository handles hosts persistence.
type HostRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewHostRepository creates a new HostRepository.
func NewHostRepository(db *DB, log *logger.Logger) *HostRepository {
	return &HostRepository{
		db:     db,
		logger: log.Named("host_repo"),
	}
}

// EnsureHost registers a host identity by name with insert-if-absent
// semantics and returns its stable id. Re-registering the same name never
// creates a second identity.
func (r *HostRepository) EnsureHost(ctx context.Context, host *models.Host) (int64, error) {
	query := `INSERT INTO hosts (name, ip, os) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING`

	if _, err := r.db.db.ExecContext(ctx, query, host.Name, host.IP, string(host.OS)); err != nil {
		return 0, errors.Wrap(err, errors.CodeDatabaseError, "failed to register host")
	}

	var id int64
	if err := r.db.db.GetContext(ctx, &id, `SELECT id FROM hosts WHERE name = ?`, host.Name); err != nil {
		return 0, errors.Wrap(err, errors.CodeDatabaseError, "failed to look up host id")
	}
	return id, nil
}

// GetByID returns one host identity row.
func (r *HostRepository) GetByID(ctx context.Context, id int64) (*models.Host, error) {
	var h models.Host
	err := r.db.db.GetContext(ctx, &h,
		`SELECT id, name, ip, os FROM hosts WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("host")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to get host")
	}
	return &h, nil
}

// List returns all host identity rows ordered by name.
func (r *HostRepository) List(ctx context.Context) ([]*models.Host, error) {
	var hosts []*models.Host
	err := r.db.db.SelectContext(ctx, &hosts,
		`SELECT id, name, ip, os FROM hosts ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list hosts")
	}
	return hosts, nil
}

// ListWithLastSeen returns every host plus the timestamp of its most recent
// sample, nil for hosts never sampled.
func (r *HostRepository) ListWithLastSeen(ctx context.Context) ([]*models.HostLastSeen, error) {
	query := `SELECT h.id, h.name, h.ip, h.os,
		(SELECT s.ts FROM samples s WHERE s.host_id = h.id ORDER BY s.ts DESC LIMIT 1) AS last_ts
		FROM hosts h ORDER BY h.name`

	var rows []*models.HostLastSeen
	if err := r.db.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list hosts")
	}
	return rows, nil
}
