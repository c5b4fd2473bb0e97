// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const fullConfig = `
poll_interval_seconds: 60
database_path: /var/lib/hub/metrics.db
listen_address: ":9090"
logging:
  level: debug
  format: console
hosts:
  - name: web-1
    ip: 10.0.0.10
    os: linux
    probe_port: 2222
    ssh:
      username: ops
      password: secret
      port: 22
  - name: win-1
    ip: 10.0.0.20
    os: windows
    winrm:
      username: admin
      password: secret
      scheme: http
      port: 5985
`

func TestLoadConfig_FullFile(t *testing.T) {
	path := writeConfig(t, fullConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.PollIntervalSeconds != 60 {
		t.Errorf("PollIntervalSeconds = %d, want 60", cfg.PollIntervalSeconds)
	}
	if cfg.PollInterval() != 60*time.Second {
		t.Errorf("PollInterval() = %v, want 60s", cfg.PollInterval())
	}
	if cfg.ListenAddress != ":9090" {
		t.Errorf("ListenAddress = %q, want %q", cfg.ListenAddress, ":9090")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if len(cfg.Hosts) != 2 {
		t.Fatalf("len(Hosts) = %d, want 2", len(cfg.Hosts))
	}
	if cfg.Hosts[0].SSH == nil || cfg.Hosts[0].SSH.Username != "ops" {
		t.Errorf("Hosts[0].SSH = %+v, want ops profile", cfg.Hosts[0].SSH)
	}
	if cfg.Hosts[1].WinRM == nil || cfg.Hosts[1].WinRM.Port != 5985 {
		t.Errorf("Hosts[1].WinRM = %+v, want port 5985", cfg.Hosts[1].WinRM)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "hosts:\n  - name: h\n    ip: 10.0.0.1\n    os: linux\n    ssh: {username: u, password: p}\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.PollIntervalSeconds != DefaultPollIntervalSeconds {
		t.Errorf("PollIntervalSeconds = %d, want default %d", cfg.PollIntervalSeconds, DefaultPollIntervalSeconds)
	}
	if cfg.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want default %q", cfg.ListenAddress, DefaultListenAddress)
	}
	if cfg.DatabasePath != DefaultDatabasePath {
		t.Errorf("DatabasePath = %q, want default %q", cfg.DatabasePath, DefaultDatabasePath)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, fullConfig)

	t.Setenv("POLL_INTERVAL_SECONDS", "5")
	t.Setenv("HUB_LISTEN_ADDR", ":7070")
	t.Setenv("HUB_DB_PATH", "/tmp/override.db")
	t.Setenv("HUB_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.PollIntervalSeconds != 5 {
		t.Errorf("PollIntervalSeconds = %d, want env override 5", cfg.PollIntervalSeconds)
	}
	if cfg.ListenAddress != ":7070" {
		t.Errorf("ListenAddress = %q, want env override %q", cfg.ListenAddress, ":7070")
	}
	if cfg.DatabasePath != "/tmp/override.db" {
		t.Errorf("DatabasePath = %q, want env override", cfg.DatabasePath)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want env override %q", cfg.Logging.Level, "warn")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() error = nil, want error for missing file")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero interval", func(c *Config) { c.PollIntervalSeconds = 0 }},
		{"no database path", func(c *Config) { c.DatabasePath = "" }},
		{"no listen address", func(c *Config) { c.ListenAddress = "" }},
		{"no hosts", func(c *Config) { c.Hosts = nil }},
		{"linux host without ssh", func(c *Config) { c.Hosts[0].SSH = nil }},
		{"windows host without winrm", func(c *Config) { c.Hosts[1].WinRM = nil }},
		{"unknown os", func(c *Config) { c.Hosts[0].OS = "plan9" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, fullConfig))
			if err != nil {
				t.Fatalf("LoadConfig() error: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}
