// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package models

import (
	"fmt"
)

// OSType represents the operating system family of a monitored host.
type OSType string

const (
	OSLinux   OSType = "linux"
	OSWindows OSType = "windows"
)

// Valid returns true for a known OS type.
func (o OSType) Valid() bool {
	return o == OSLinux || o == OSWindows
}

// Default management ports, used by the latency probe unless overridden.
const (
	DefaultSSHPort   = 22
	DefaultRDPPort   = 3389
	DefaultWinRMPort = 5985
)

// SSHProfile holds the connection parameters for SSH-reachable hosts.
type SSHProfile struct {
	Username   string `yaml:"username" json:"username"`
	Password   string `yaml:"password" json:"-"`
	PrivateKey string `yaml:"private_key" json:"-"` // path to a private key file
	Port       int    `yaml:"port" json:"port"`
}

// Validate checks that the profile carries a usable credential set.
func (p *SSHProfile) Validate() error {
	if p.Username == "" {
		return fmt.Errorf("ssh profile: username is required")
	}
	if p.Password == "" && p.PrivateKey == "" {
		return fmt.Errorf("ssh profile: either password or private_key is required")
	}
	return nil
}

// WinRMProfile holds the connection parameters for WinRM-reachable hosts.
type WinRMProfile struct {
	Username  string `yaml:"username" json:"username"`
	Password  string `yaml:"password" json:"-"`
	Scheme    string `yaml:"scheme" json:"scheme"` // "http" or "https"
	Port      int    `yaml:"port" json:"port"`
	VerifyTLS bool   `yaml:"verify_tls" json:"verify_tls"`
}

// Validate checks that the profile carries a usable credential set.
func (p *WinRMProfile) Validate() error {
	if p.Username == "" {
		return fmt.Errorf("winrm profile: username is required")
	}
	if p.Password == "" {
		return fmt.Errorf("winrm profile: password is required")
	}
	if p.Scheme != "" && p.Scheme != "http" && p.Scheme != "https" {
		return fmt.Errorf("winrm profile: scheme must be http or https, got %q", p.Scheme)
	}
	return nil
}

// Host is one monitored machine. Hosts are created once at startup from
// configuration and are immutable afterwards; identity is Name.
type Host struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	IP   string `db:"ip" json:"ip"`
	OS   OSType `db:"os" json:"os"`

	// Connection profile for the OS-matching execution backend.
	// Exactly one of these is set, selected by OS.
	SSH   *SSHProfile   `db:"-" json:"-"`
	WinRM *WinRMProfile `db:"-" json:"-"`

	// ProbePort overrides the default management port for the latency probe.
	ProbePort int `db:"-" json:"-"`
}

// ManagementPort returns the TCP port the latency probe should target.
func (h *Host) ManagementPort() int {
	if h.ProbePort > 0 {
		return h.ProbePort
	}
	if h.OS == OSWindows {
		return DefaultRDPPort
	}
	return DefaultSSHPort
}

// Validate checks host identity fields and the OS-matching profile.
func (h *Host) Validate() error {
	if h.Name == "" {
		return fmt.Errorf("host: name is required")
	}
	if h.IP == "" {
		return fmt.Errorf("host %s: ip is required", h.Name)
	}
	if !h.OS.Valid() {
		return fmt.Errorf("host %s: os must be linux or windows, got %q", h.Name, h.OS)
	}
	switch h.OS {
	case OSLinux:
		if h.SSH == nil {
			return fmt.Errorf("host %s: linux hosts require an ssh profile", h.Name)
		}
		if err := h.SSH.Validate(); err != nil {
			return fmt.Errorf("host %s: %w", h.Name, err)
		}
	case OSWindows:
		if h.WinRM == nil {
			return fmt.Errorf("host %s: windows hosts require a winrm profile", h.Name)
		}
		if err := h.WinRM.Validate(); err != nil {
			return fmt.Errorf("host %s: %w", h.Name, err)
		}
	}
	return nil
}
