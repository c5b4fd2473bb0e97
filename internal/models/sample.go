// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package models

import (
	"encoding/json"
)

// Sample is the core numeric time-series row: one per host per poll cycle.
// All metric fields are nullable; a failed collection still produces a row
// with nulls. Latency is probed independently and may itself be null.
type Sample struct {
	ID        int64    `db:"id" json:"-"`
	HostID    int64    `db:"host_id" json:"-"`
	TS        int64    `db:"ts" json:"ts"` // unix seconds
	CPU       *float64 `db:"cpu" json:"cpu"`
	MemTotal  *int64   `db:"mem_total" json:"mem_total"`
	MemAvail  *int64   `db:"mem_avail" json:"mem_avail"`
	Uptime    *int64   `db:"uptime" json:"uptime"`
	LatencyMS *float64 `db:"latency_ms" json:"latency_ms"`
	NetRxKbps *float64 `db:"net_rx_kbps" json:"net_rx_kbps"`
	NetTxKbps *float64 `db:"net_tx_kbps" json:"net_tx_kbps"`
}

// DiskUsage is one device row of the per-cycle disk snapshot. Rows sharing
// (host_id, ts) form the snapshot taken at that cycle.
type DiskUsage struct {
	ID          int64   `db:"id" json:"-"`
	HostID      int64   `db:"host_id" json:"-"`
	TS          int64   `db:"ts" json:"ts"`
	Device      string  `db:"device" json:"device"`
	UsedPercent float64 `db:"used_percent" json:"used_percent"`
	SizeBytes   int64   `db:"size_bytes" json:"size_bytes"`
	FreeBytes   int64   `db:"free_bytes" json:"free_bytes"`
	Mount       string  `db:"mount" json:"mount"`
}

// ExtrasSnapshot carries the opaque supplementary metrics blob for one host
// at one cycle, serialized as JSON text. At most one row per host per cycle.
type ExtrasSnapshot struct {
	ID      int64  `db:"id" json:"-"`
	HostID  int64  `db:"host_id" json:"-"`
	TS      int64  `db:"ts" json:"ts"`
	Payload string `db:"payload" json:"-"`
}

// Decode returns the payload as raw JSON for embedding in API responses,
// preserving the stored bytes verbatim.
func (e *ExtrasSnapshot) Decode() json.RawMessage {
	if e == nil || e.Payload == "" {
		return json.RawMessage("{}")
	}
	return json.RawMessage(e.Payload)
}

// HostLastSeen is the listing projection: a host plus the timestamp of its
// most recent sample, nil when the host has never been sampled.
type HostLastSeen struct {
	Host
	LastTS *int64 `db:"last_ts" json:"last_ts"`
}
