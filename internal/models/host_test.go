// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package models

import "testing"

func TestHostManagementPort(t *testing.T) {
	tests := []struct {
		name string
		host Host
		want int
	}{
		{"linux default", Host{OS: OSLinux}, DefaultSSHPort},
		{"windows default", Host{OS: OSWindows}, DefaultRDPPort},
		{"explicit override", Host{OS: OSLinux, ProbePort: 2222}, 2222},
		{"windows override", Host{OS: OSWindows, ProbePort: 5986}, 5986},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.host.ManagementPort(); got != tt.want {
				t.Errorf("ManagementPort() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHostValidate(t *testing.T) {
	valid := Host{
		Name: "web-1", IP: "10.0.0.10", OS: OSLinux,
		SSH: &SSHProfile{Username: "ops", Password: "pw"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	keyAuth := Host{
		Name: "web-2", IP: "10.0.0.11", OS: OSLinux,
		SSH: &SSHProfile{Username: "ops", PrivateKey: "/keys/id_ed25519"},
	}
	if err := keyAuth.Validate(); err != nil {
		t.Errorf("Validate() with key auth error: %v", err)
	}

	tests := []struct {
		name string
		host Host
	}{
		{"missing name", Host{IP: "10.0.0.1", OS: OSLinux, SSH: &SSHProfile{Username: "u", Password: "p"}}},
		{"missing ip", Host{Name: "h", OS: OSLinux, SSH: &SSHProfile{Username: "u", Password: "p"}}},
		{"bad os", Host{Name: "h", IP: "10.0.0.1", OS: "plan9"}},
		{"linux without ssh", Host{Name: "h", IP: "10.0.0.1", OS: OSLinux}},
		{"ssh without credentials", Host{Name: "h", IP: "10.0.0.1", OS: OSLinux, SSH: &SSHProfile{Username: "u"}}},
		{"windows without winrm", Host{Name: "h", IP: "10.0.0.1", OS: OSWindows}},
		{"winrm without password", Host{Name: "h", IP: "10.0.0.1", OS: OSWindows, WinRM: &WinRMProfile{Username: "a"}}},
		{"winrm bad scheme", Host{Name: "h", IP: "10.0.0.1", OS: OSWindows, WinRM: &WinRMProfile{Username: "a", Password: "p", Scheme: "ftp"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.host.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}
