// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

// Package probe measures TCP connect latency to a host's management port.
// The measurement is independent of the execution backend: it runs once per
// host per cycle whether or not collection succeeds.
package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// DefaultTimeout bounds a single probe attempt.
const DefaultTimeout = 2 * time.Second

// Probe opens and immediately closes raw TCP connections to measure
// connect latency.
type Probe struct {
	timeout time.Duration
	logger  *logger.Logger
}

// New creates a latency probe. A zero timeout falls back to DefaultTimeout.
func New(timeout time.Duration, log *logger.Logger) *Probe {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Probe{
		timeout: timeout,
		logger:  log.Named("probe"),
	}
}

// Measure returns the TCP connect time to ip:port in milliseconds, or nil
// on any connection error or timeout. Probe failures are never surfaced as
// hard errors, only as a missing measurement.
func (p *Probe) Measure(ctx context.Context, ip string, port int) *float64 {
	addr := net.JoinHostPort(ip, strconv.Itoa(port))
	d := net.Dialer{Timeout: p.timeout}

	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		p.logger.Debug("probe failed", "addr", addr, "error", err)
		return nil
	}
	elapsed := float64(time.Since(start)) / float64(time.Millisecond)
	_ = conn.Close()

	return &elapsed
}
