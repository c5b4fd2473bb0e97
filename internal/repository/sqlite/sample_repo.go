// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/PedroNoriega/agentless-hub/internal/models"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/errors"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// SampleRepository handles samples, disks and extras persistence.
type SampleRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSampleRepository creates a new SampleRepository.
func NewSampleRepository(db *DB, log *logger.Logger) *SampleRepository {
	return &SampleRepository{
		db:     db,
		logger: log.Named("sample_repo"),
	}
}

// sampleColumns is the standard column list for samples.
const sampleColumns = `id, host_id, ts, cpu, mem_total, mem_avail, uptime,
	latency_ms, net_rx_kbps, net_tx_kbps`

// CycleRecord is everything one host contributes to one poll cycle: the
// sample row (metric fields possibly all nil), the disk snapshot, and the
// serialized extras payload (empty string means no extras row).
type CycleRecord struct {
	HostID int64
	TS     int64
	Sample models.Sample
	Disks  []models.DiskUsage
	Extras string
}

// CommitCycle persists one host's cycle in a single transaction: the
// sample row, zero or more disk rows, and at most one extras row, all
// sharing the cycle timestamp.
func (r *SampleRepository) CommitCycle(ctx context.Context, rec *CycleRecord) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		s := rec.Sample
		_, err := tx.ExecContext(ctx,
			`INSERT INTO samples (host_id, ts, cpu, mem_total, mem_avail, uptime, latency_ms, net_rx_kbps, net_tx_kbps)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.HostID, rec.TS, s.CPU, s.MemTotal, s.MemAvail, s.Uptime,
			s.LatencyMS, s.NetRxKbps, s.NetTxKbps)
		if err != nil {
			return err
		}

		for _, d := range rec.Disks {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO disks (host_id, ts, device, used_percent, size_bytes, free_bytes, mount)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				rec.HostID, rec.TS, d.Device, d.UsedPercent, d.SizeBytes, d.FreeBytes, d.Mount)
			if err != nil {
				return err
			}
		}

		if rec.Extras != "" {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO extras (host_id, ts, payload) VALUES (?, ?, ?)`,
				rec.HostID, rec.TS, rec.Extras)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to commit cycle")
	}
	return nil
}

// SeriesInRange returns all samples and disk rows for a host with
// ts >= fromTS, ascending by time.
func (r *SampleRepository) SeriesInRange(ctx context.Context, hostID, fromTS int64) ([]*models.Sample, []*models.DiskUsage, error) {
	var samples []*models.Sample
	err := r.db.db.SelectContext(ctx, &samples,
		`SELECT `+sampleColumns+` FROM samples WHERE host_id = ? AND ts >= ? ORDER BY ts ASC`,
		hostID, fromTS)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query sample series")
	}

	var disks []*models.DiskUsage
	err = r.db.db.SelectContext(ctx, &disks,
		`SELECT id, host_id, ts, device, used_percent, size_bytes, free_bytes, mount
		FROM disks WHERE host_id = ? AND ts >= ? ORDER BY ts ASC`,
		hostID, fromTS)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query disk series")
	}

	return samples, disks, nil
}

// Latest returns the most recent sample, the most recent extras snapshot,
// and the disk rows sharing the host's maximum disk timestamp. Sample and
// extras are nil when the host has never been sampled.
func (r *SampleRepository) Latest(ctx context.Context, hostID int64) (*models.Sample, *models.ExtrasSnapshot, []*models.DiskUsage, error) {
	var sample models.Sample
	err := r.db.db.GetContext(ctx, &sample,
		`SELECT `+sampleColumns+` FROM samples WHERE host_id = ? ORDER BY ts DESC LIMIT 1`,
		hostID)
	if err == sql.ErrNoRows {
		return nil, nil, nil, nil
	}
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query latest sample")
	}

	var extras *models.ExtrasSnapshot
	var e models.ExtrasSnapshot
	err = r.db.db.GetContext(ctx, &e,
		`SELECT id, host_id, ts, payload FROM extras WHERE host_id = ? ORDER BY ts DESC LIMIT 1`,
		hostID)
	if err == nil {
		extras = &e
	} else if err != sql.ErrNoRows {
		return nil, nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query latest extras")
	}

	var disks []*models.DiskUsage
	err = r.db.db.SelectContext(ctx, &disks,
		`SELECT id, host_id, ts, device, used_percent, size_bytes, free_bytes, mount
		FROM disks WHERE host_id = ? AND ts = (SELECT MAX(ts) FROM disks WHERE host_id = ?)`,
		hostID, hostID)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query latest disks")
	}

	return &sample, extras, disks, nil
}
