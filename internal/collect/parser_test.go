// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package collect

import (
	"errors"
	"testing"
)

func TestParse_FullPayload(t *testing.T) {
	raw := `{
		"hostname": "web-1",
		"uptime_seconds": 86400,
		"cpu_percent": 12.5,
		"mem_total_bytes": 8589934592,
		"mem_available_bytes": 4294967296,
		"os": "linux",
		"disks": [
			{"device": "/dev/sda1", "size_bytes": 107374182400, "free_bytes": 53687091200, "used_percent": 50.0, "mount": "/"}
		],
		"extras": {"net": {"total_rx_kbps": 120.5, "total_tx_kbps": 34.2}, "load": [0.4, 0.3, 0.2]}
	}`

	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if p.Hostname != "web-1" {
		t.Errorf("Hostname = %q, want %q", p.Hostname, "web-1")
	}
	if p.UptimeSeconds != 86400 {
		t.Errorf("UptimeSeconds = %d, want %d", p.UptimeSeconds, 86400)
	}
	if p.CPUPercent != 12.5 {
		t.Errorf("CPUPercent = %v, want %v", p.CPUPercent, 12.5)
	}
	if p.MemTotalBytes != 8589934592 {
		t.Errorf("MemTotalBytes = %d, want %d", p.MemTotalBytes, int64(8589934592))
	}
	if len(p.Disks) != 1 {
		t.Fatalf("len(Disks) = %d, want 1", len(p.Disks))
	}
	if p.Disks[0].Device != "/dev/sda1" {
		t.Errorf("Disks[0].Device = %q, want %q", p.Disks[0].Device, "/dev/sda1")
	}
	if p.Disks[0].UsedPercent != 50.0 {
		t.Errorf("Disks[0].UsedPercent = %v, want %v", p.Disks[0].UsedPercent, 50.0)
	}
	if p.NetRxKbps == nil || *p.NetRxKbps != 120.5 {
		t.Errorf("NetRxKbps = %v, want 120.5", p.NetRxKbps)
	}
	if p.NetTxKbps == nil || *p.NetTxKbps != 34.2 {
		t.Errorf("NetTxKbps = %v, want 34.2", p.NetTxKbps)
	}
	if len(p.Extras) == 0 {
		t.Error("Extras is empty, want verbatim blob")
	}
}

func TestParse_NumericStrings(t *testing.T) {
	raw := `{"cpu_percent": "42.5", "mem_total_bytes": " 1024 ", "uptime_seconds": "3600"}`

	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if p.CPUPercent != 42.5 {
		t.Errorf("CPUPercent = %v, want %v", p.CPUPercent, 42.5)
	}
	if p.MemTotalBytes != 1024 {
		t.Errorf("MemTotalBytes = %d, want %d", p.MemTotalBytes, 1024)
	}
	if p.UptimeSeconds != 3600 {
		t.Errorf("UptimeSeconds = %d, want %d", p.UptimeSeconds, 3600)
	}
}

func TestParse_MissingAndJunkFieldsDegradeToZero(t *testing.T) {
	raw := `{"hostname": "h", "cpu_percent": "not-a-number", "mem_total_bytes": null}`

	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if p.CPUPercent != 0 {
		t.Errorf("CPUPercent = %v, want 0", p.CPUPercent)
	}
	if p.MemTotalBytes != 0 {
		t.Errorf("MemTotalBytes = %d, want 0", p.MemTotalBytes)
	}
	if p.UptimeSeconds != 0 {
		t.Errorf("UptimeSeconds = %d, want 0", p.UptimeSeconds)
	}
}

func TestParse_NotAnObject(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", `[1, 2, 3]`, `"just a string"`} {
		if _, err := Parse(raw); !errors.Is(err, ErrParse) {
			t.Errorf("Parse(%q) error = %v, want ErrParse", raw, err)
		}
	}
}

func TestParse_MalformedDiskEntrySkipped(t *testing.T) {
	raw := `{"disks": [
		{"device": "/dev/sda1", "size_bytes": 100, "free_bytes": 50, "used_percent": 50.0, "mount": "/"},
		"garbage",
		{"device": "/dev/sdb1", "size_bytes": 200, "free_bytes": 100, "used_percent": 50.0, "mount": "/data"}
	]}`

	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(p.Disks) != 2 {
		t.Fatalf("len(Disks) = %d, want 2", len(p.Disks))
	}
	if p.Disks[1].Mount != "/data" {
		t.Errorf("Disks[1].Mount = %q, want %q", p.Disks[1].Mount, "/data")
	}
}

func TestParse_ExtrasVerbatim(t *testing.T) {
	extras := `{"custom":{"deeply":["nested",1,true]},"temp_c":55}`
	raw := `{"hostname":"h","extras":` + extras + `}`

	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if string(p.Extras) != extras {
		t.Errorf("Extras = %s, want %s", p.Extras, extras)
	}
	if p.NetRxKbps != nil {
		t.Errorf("NetRxKbps = %v, want nil without extras.net", *p.NetRxKbps)
	}
}

func TestParse_NoExtras(t *testing.T) {
	for _, raw := range []string{`{"hostname":"h"}`, `{"hostname":"h","extras":null}`} {
		p, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", raw, err)
		}
		if p.Extras != nil {
			t.Errorf("Extras = %s, want nil", p.Extras)
		}
		if p.NetRxKbps != nil || p.NetTxKbps != nil {
			t.Error("net rates should be nil without extras")
		}
	}
}

func TestScriptFor(t *testing.T) {
	script, err := ScriptFor("linux")
	if err != nil {
		t.Fatalf("ScriptFor(linux) error: %v", err)
	}
	if script == "" {
		t.Error("ScriptFor(linux) returned empty script")
	}

	if _, err := ScriptFor("windows"); err == nil {
		t.Error("ScriptFor(windows) error = nil, want unsupported")
	}
}
