// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package collect

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse marks a collection payload that is not a JSON object at all.
// Payloads that are valid JSON but missing or mistyping individual fields
// degrade to zero values instead of failing.
var ErrParse = errors.New("malformed collection payload")

// DiskEntry is one device from the payload's disks array.
type DiskEntry struct {
	Device      string
	SizeBytes   int64
	FreeBytes   int64
	UsedPercent float64
	Mount       string
}

// Payload is the normalized result of parsing one collection run: the typed
// core metrics plus the opaque extras blob kept verbatim for storage.
type Payload struct {
	Hostname          string
	UptimeSeconds     int64
	CPUPercent        float64
	MemTotalBytes     int64
	MemAvailableBytes int64
	OS                string
	Disks             []DiskEntry
	Extras            json.RawMessage

	// Derived from extras.net when present.
	NetRxKbps *float64
	NetTxKbps *float64
}

// flexFloat coerces JSON numbers, numeric strings, and anything else to a
// float64, defaulting to zero. The remote script interpolates raw shell
// output into JSON, so per-field junk must not sink the whole payload.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*f = flexFloat(v)
		}
	}
	return nil
}

// flexInt is flexFloat truncated to an integer.
type flexInt int64

func (i *flexInt) UnmarshalJSON(b []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	*i = flexInt(f)
	return nil
}

type rawDisk struct {
	Device      string    `json:"device"`
	SizeBytes   flexInt   `json:"size_bytes"`
	FreeBytes   flexInt   `json:"free_bytes"`
	UsedPercent flexFloat `json:"used_percent"`
	Mount       string    `json:"mount"`
}

type rawPayload struct {
	Hostname          string            `json:"hostname"`
	UptimeSeconds     flexInt           `json:"uptime_seconds"`
	CPUPercent        flexFloat         `json:"cpu_percent"`
	MemTotalBytes     flexInt           `json:"mem_total_bytes"`
	MemAvailableBytes flexInt           `json:"mem_available_bytes"`
	OS                string            `json:"os"`
	Disks             []json.RawMessage `json:"disks"`
	Extras            json.RawMessage   `json:"extras"`
}

type rawNet struct {
	Net *struct {
		TotalRxKbps flexFloat `json:"total_rx_kbps"`
		TotalTxKbps flexFloat `json:"total_tx_kbps"`
	} `json:"net"`
}

// Parse validates and normalizes the raw text produced by a successful
// remote execution into a Payload.
func Parse(raw string) (*Payload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty output", ErrParse)
	}

	var rp rawPayload
	if err := json.Unmarshal([]byte(raw), &rp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	p := &Payload{
		Hostname:          rp.Hostname,
		UptimeSeconds:     int64(rp.UptimeSeconds),
		CPUPercent:        float64(rp.CPUPercent),
		MemTotalBytes:     int64(rp.MemTotalBytes),
		MemAvailableBytes: int64(rp.MemAvailableBytes),
		OS:                rp.OS,
	}

	// Disk entries are decoded one by one; a malformed entry is skipped
	// rather than discarding the snapshot.
	for _, rd := range rp.Disks {
		var d rawDisk
		if err := json.Unmarshal(rd, &d); err != nil {
			continue
		}
		p.Disks = append(p.Disks, DiskEntry{
			Device:      d.Device,
			SizeBytes:   int64(d.SizeBytes),
			FreeBytes:   int64(d.FreeBytes),
			UsedPercent: float64(d.UsedPercent),
			Mount:       d.Mount,
		})
	}

	// Extras stay verbatim for round-trip storage; only net totals are
	// lifted into the sample row.
	if len(rp.Extras) > 0 && string(rp.Extras) != "null" {
		p.Extras = rp.Extras

		var n rawNet
		if err := json.Unmarshal(rp.Extras, &n); err == nil && n.Net != nil {
			rx := float64(n.Net.TotalRxKbps)
			tx := float64(n.Net.TotalTxKbps)
			p.NetRxKbps = &rx
			p.NetTxKbps = &tx
		}
	}

	return p, nil
}
