// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/masterzen/winrm"

	"github.com/PedroNoriega/agentless-hub/internal/models"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// WinRMBackend executes PowerShell over WinRM. The transport is functional;
// the Windows metrics script itself is still pending, so the poller
// short-circuits Windows collection with ErrUnsupported before reaching
// Execute (see collect.ScriptFor).
type WinRMBackend struct {
	host    *models.Host
	profile *models.WinRMProfile
	logger  *logger.Logger
}

// NewWinRM creates the WinRM execution backend for a Windows host.
func NewWinRM(host *models.Host, log *logger.Logger) (*WinRMBackend, error) {
	if host.WinRM == nil {
		return nil, fmt.Errorf("host %s has no winrm profile", host.Name)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WinRMBackend{
		host:    host,
		profile: host.WinRM,
		logger:  log.Named("winrm-backend").With("host", host.Name),
	}, nil
}

// Endpoint builds the WinRM endpoint from the host profile.
func (b *WinRMBackend) Endpoint() *winrm.Endpoint {
	port := b.profile.Port
	if port == 0 {
		port = models.DefaultWinRMPort
	}
	useHTTPS := b.profile.Scheme == "https"
	return winrm.NewEndpoint(b.host.IP, port, useHTTPS, !b.profile.VerifyTLS, nil, nil, nil, ConnectTimeout)
}

// Execute runs command as a PowerShell script and returns the raw stdout.
func (b *WinRMBackend) Execute(ctx context.Context, command string) (string, error) {
	client, err := winrm.NewClient(b.Endpoint(), b.profile.Username, b.profile.Password)
	if err != nil {
		return "", fmt.Errorf("%w: winrm client for %s: %v", ErrConnect, b.host.IP, err)
	}

	ctx, cancel := context.WithTimeout(ctx, CommandTimeout)
	defer cancel()

	stdout, stderr, code, err := client.RunWithContextWithString(ctx, winrm.Powershell(command), "")
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return "", fmt.Errorf("%w: command on %s: %v", ErrTimeout, b.host.IP, ctx.Err())
		case isWinRMAuthErr(err):
			return "", fmt.Errorf("%w: %s: %v", ErrAuth, b.host.IP, err)
		default:
			return "", fmt.Errorf("%w: %s: %v", ErrConnect, b.host.IP, err)
		}
	}
	if code != 0 && stdout == "" {
		return "", fmt.Errorf("%w: exit status %d: %s", ErrCommand, code, strings.TrimSpace(stderr))
	}

	return finishExec(stdout, stderr, nil)
}

// isWinRMAuthErr recognizes the unauthorized response WinRM returns for bad
// credentials.
func isWinRMAuthErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "401") || strings.Contains(strings.ToLower(msg), "unauthorized")
}
