// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

// Package poller drives the collection loop: on every tick it fans out one
// goroutine per host, waits for all of them at a barrier, then sleeps the
// configured interval. Cycles never overlap and never queue.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/PedroNoriega/agentless-hub/internal/backend"
	"github.com/PedroNoriega/agentless-hub/internal/models"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
	"github.com/PedroNoriega/agentless-hub/internal/repository/sqlite"
)

// DefaultInterval is the pause between collection cycles when the
// configuration does not say otherwise.
const DefaultInterval = 30 * time.Second

// Prober measures TCP connect latency to a host's management port.
// Satisfied by probe.Probe.
type Prober interface {
	Measure(ctx context.Context, ip string, port int) *float64
}

// Recorder persists one host's cycle result. Satisfied by
// sqlite.SampleRepository.
type Recorder interface {
	CommitCycle(ctx context.Context, rec *sqlite.CycleRecord) error
}

// BackendFactory builds an execution backend for a host. The default is
// backend.ForHost; tests substitute fakes.
type BackendFactory func(host *models.Host, log *logger.Logger) (backend.Backend, error)

// State is the poller's coarse lifecycle phase, exposed for health
// reporting.
type State string

const (
	StateIdle       State = "idle"
	StateCollecting State = "collecting"
)

// Poller runs the fleet collection loop.
type Poller struct {
	hosts    []*models.Host
	prober   Prober
	recorder Recorder
	backends BackendFactory
	interval time.Duration
	logger   *logger.Logger

	mu    sync.Mutex
	state State

	now func() time.Time
}

// New creates a poller over the given host set. interval <= 0 falls back
// to DefaultInterval.
func New(hosts []*models.Host, prober Prober, recorder Recorder, interval time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		hosts:    hosts,
		prober:   prober,
		recorder: recorder,
		backends: backend.ForHost,
		interval: interval,
		logger:   log.Named("poller"),
		state:    StateIdle,
		now:      time.Now,
	}
}

// State returns the current lifecycle phase.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Run executes collection cycles until ctx is cancelled. The first cycle
// starts immediately. Cancellation is honored between cycles; an in-flight
// cycle always completes its barrier so no host's transaction is torn.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poller started", "hosts", len(p.hosts), "interval", p.interval)
	for {
		p.RunCycle(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return
		case <-time.After(p.interval):
		}
	}
}

// RunCycle performs exactly one collection cycle: one goroutine per host,
// all joined at a WaitGroup barrier. Every host contributes exactly one
// sample row, whatever happens to its pipeline.
func (p *Poller) RunCycle(ctx context.Context) {
	p.setState(StateCollecting)
	defer p.setState(StateIdle)

	start := p.now()
	ts := start.Unix()

	var wg sync.WaitGroup
	for _, h := range p.hosts {
		wg.Add(1)
		go func(h *models.Host) {
			defer wg.Done()
			p.collectHost(ctx, h, ts)
		}(h)
	}
	wg.Wait()

	p.logger.Debug("cycle complete",
		"hosts", len(p.hosts),
		"elapsed", p.now().Sub(start).Round(time.Millisecond))
}
