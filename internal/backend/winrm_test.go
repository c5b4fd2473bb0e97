// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package backend

import (
	"testing"

	"github.com/PedroNoriega/agentless-hub/internal/models"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

func TestWinRMEndpoint_Defaults(t *testing.T) {
	host := &models.Host{
		Name: "win-1", IP: "10.0.0.20", OS: models.OSWindows,
		WinRM: &models.WinRMProfile{Username: "admin", Password: "pw"},
	}
	b, err := NewWinRM(host, logger.Nop())
	if err != nil {
		t.Fatalf("NewWinRM() error: %v", err)
	}

	ep := b.Endpoint()
	if ep.Host != "10.0.0.20" {
		t.Errorf("Host = %q, want %q", ep.Host, "10.0.0.20")
	}
	if ep.Port != models.DefaultWinRMPort {
		t.Errorf("Port = %d, want %d", ep.Port, models.DefaultWinRMPort)
	}
	if ep.HTTPS {
		t.Error("HTTPS = true, want false for default scheme")
	}
	if !ep.Insecure {
		t.Error("Insecure = false, want true when verify_tls is off")
	}
}

func TestWinRMEndpoint_HTTPSVerified(t *testing.T) {
	host := &models.Host{
		Name: "win-2", IP: "10.0.0.21", OS: models.OSWindows,
		WinRM: &models.WinRMProfile{
			Username: "admin", Password: "pw",
			Scheme: "https", Port: 5986, VerifyTLS: true,
		},
	}
	b, err := NewWinRM(host, logger.Nop())
	if err != nil {
		t.Fatalf("NewWinRM() error: %v", err)
	}

	ep := b.Endpoint()
	if !ep.HTTPS {
		t.Error("HTTPS = false, want true")
	}
	if ep.Port != 5986 {
		t.Errorf("Port = %d, want 5986", ep.Port)
	}
	if ep.Insecure {
		t.Error("Insecure = true, want false when verify_tls is on")
	}
}

func TestNewWinRM_MissingProfile(t *testing.T) {
	host := &models.Host{Name: "win-3", IP: "10.0.0.22", OS: models.OSWindows}
	if _, err := NewWinRM(host, logger.Nop()); err == nil {
		t.Error("NewWinRM() error = nil, want error without profile")
	}
}
