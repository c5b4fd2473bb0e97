// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

// Package backend abstracts remote command execution against monitored
// hosts. Variants exist per management protocol (SSH for Linux, WinRM for
// Windows); callers pick the variant matching the host's OS via ForHost.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PedroNoriega/agentless-hub/internal/models"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// Error taxonomy. Every Execute failure unwraps to exactly one of these.
var (
	// ErrConnect: the transport connection could not be established.
	ErrConnect = errors.New("connect error")
	// ErrAuth: the transport rejected the configured credentials.
	ErrAuth = errors.New("authentication error")
	// ErrCommand: the remote command produced error output with no usable
	// standard output.
	ErrCommand = errors.New("command error")
	// ErrTimeout: connection setup or command execution exceeded its bound.
	ErrTimeout = errors.New("timeout")
	// ErrUnsupported: the capability is declared but not implemented for
	// this host (Windows metrics collection pending a remote script).
	ErrUnsupported = errors.New("capability not implemented")
)

// Timeouts and retry policy. Connection and command timeouts are
// independent bounds; the retry wrapper re-runs the whole connect+execute
// sequence.
const (
	ConnectTimeout = 8 * time.Second
	CommandTimeout = 20 * time.Second

	RetryAttempts = 2
	RetryDelay    = 1 * time.Second
)

// Backend executes one remote command against the host it was built for
// and returns the raw standard-output text.
type Backend interface {
	// Execute runs command remotely. A non-empty stderr with empty stdout
	// fails with ErrCommand rather than returning empty success.
	Execute(ctx context.Context, command string) (string, error)
}

// ForHost returns the execution backend matching the host's OS.
func ForHost(host *models.Host, log *logger.Logger) (Backend, error) {
	switch host.OS {
	case models.OSLinux:
		return NewSSH(host, log)
	case models.OSWindows:
		return NewWinRM(host, log)
	default:
		return nil, fmt.Errorf("no execution backend for os %q", host.OS)
	}
}

// ExecuteWithRetry runs the full connect+execute sequence up to
// RetryAttempts times with a fixed delay between attempts, surfacing the
// last error once attempts are exhausted.
func ExecuteWithRetry(ctx context.Context, b Backend, command string, log *logger.Logger) (string, error) {
	if log == nil {
		log = logger.Nop()
	}

	var lastErr error
	for attempt := 1; attempt <= RetryAttempts; attempt++ {
		out, err := b.Execute(ctx, command)
		if err == nil {
			return out, nil
		}
		lastErr = err

		// Unsupported never becomes supported by retrying.
		if errors.Is(err, ErrUnsupported) {
			return "", err
		}

		if attempt < RetryAttempts {
			log.Debug("execution attempt failed, retrying",
				"attempt", attempt,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
			case <-time.After(RetryDelay):
			}
		}
	}
	return "", lastErr
}
