// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package poller

import (
	"context"
	"errors"

	"github.com/PedroNoriega/agentless-hub/internal/backend"
	"github.com/PedroNoriega/agentless-hub/internal/collect"
	"github.com/PedroNoriega/agentless-hub/internal/models"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
	"github.com/PedroNoriega/agentless-hub/internal/repository/sqlite"
)

// collectHost runs one host's full pipeline for one cycle. Failures never
// escape: a host whose probe, execution, or parse fails still commits a
// sample row (with whatever metrics were obtained, possibly none), so the
// time axis stays aligned across the fleet.
func (p *Poller) collectHost(ctx context.Context, h *models.Host, ts int64) {
	ctx = logger.WithHost(logger.WithContext(ctx, p.logger), h.Name)
	log := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error("host pipeline panic", "panic", r)
		}
	}()

	rec := &sqlite.CycleRecord{
		HostID: h.ID,
		TS:     ts,
		Sample: models.Sample{HostID: h.ID, TS: ts},
	}

	// Latency is probed regardless of what the collection run yields.
	rec.Sample.LatencyMS = p.prober.Measure(ctx, h.IP, h.ManagementPort())

	payload, err := p.collectPayload(ctx, h)
	switch {
	case err == nil:
		applyPayload(rec, payload)
	case errors.Is(err, backend.ErrUnsupported):
		log.Debug("collection not supported", "os", h.OS)
	default:
		log.Warn("collection failed", "ip", h.IP, "error", err)
	}

	if err := p.recorder.CommitCycle(ctx, rec); err != nil {
		log.Error("failed to commit cycle", "error", err)
	}
}

// collectPayload executes the per-OS metrics script on the host and parses
// its output. Returns backend.ErrUnsupported when the host's OS has no
// collection script.
func (p *Poller) collectPayload(ctx context.Context, h *models.Host) (*collect.Payload, error) {
	script, err := collect.ScriptFor(h.OS)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	b, err := p.backends(h, log)
	if err != nil {
		return nil, err
	}

	out, err := backend.ExecuteWithRetry(ctx, b, script, log)
	if err != nil {
		return nil, err
	}

	return collect.Parse(out)
}

// applyPayload copies a parsed payload into the cycle record.
func applyPayload(rec *sqlite.CycleRecord, pl *collect.Payload) {
	cpu := pl.CPUPercent
	memTotal := pl.MemTotalBytes
	memAvail := pl.MemAvailableBytes
	uptime := pl.UptimeSeconds
	rec.Sample.CPU = &cpu
	rec.Sample.MemTotal = &memTotal
	rec.Sample.MemAvail = &memAvail
	rec.Sample.Uptime = &uptime
	rec.Sample.NetRxKbps = pl.NetRxKbps
	rec.Sample.NetTxKbps = pl.NetTxKbps

	for _, d := range pl.Disks {
		rec.Disks = append(rec.Disks, models.DiskUsage{
			HostID:      rec.HostID,
			TS:          rec.TS,
			Device:      d.Device,
			UsedPercent: d.UsedPercent,
			SizeBytes:   d.SizeBytes,
			FreeBytes:   d.FreeBytes,
			Mount:       d.Mount,
		})
	}

	if len(pl.Extras) > 0 {
		rec.Extras = string(pl.Extras)
	}
}
