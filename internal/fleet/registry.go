// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

// Package fleet holds the in-memory registry of monitored hosts. The
// registry is built once from configuration at startup and never changes
// afterwards; the poller and the API read from it concurrently without
// locking.
package fleet

import (
	"context"
	"fmt"

	"github.com/PedroNoriega/agentless-hub/internal/models"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// HostStore is the persistence surface the registry needs. Satisfied by
// sqlite.HostRepository.
type HostStore interface {
	EnsureHost(ctx context.Context, host *models.Host) (int64, error)
}

// Registry is the fixed set of hosts under management, in configuration
// order.
type Registry struct {
	hosts  []*models.Host
	byID   map[int64]*models.Host
	logger *logger.Logger
}

// New builds a registry from the configured host set. Every host is
// validated; duplicate names and invalid profiles are startup-fatal.
func New(hosts []*models.Host, log *logger.Logger) (*Registry, error) {
	if len(hosts) == 0 {
		return nil, fmt.Errorf("fleet: no hosts configured")
	}

	seen := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("fleet: %w", err)
		}
		if _, dup := seen[h.Name]; dup {
			return nil, fmt.Errorf("fleet: duplicate host name %q", h.Name)
		}
		seen[h.Name] = struct{}{}
	}

	return &Registry{
		hosts:  hosts,
		byID:   make(map[int64]*models.Host, len(hosts)),
		logger: log.Named("fleet"),
	}, nil
}

// EnsureRegistered registers every host with the store, insert-if-absent,
// and caches the resulting stable ids. Safe to call on every startup; a
// host that already exists keeps its id and its history.
func (r *Registry) EnsureRegistered(ctx context.Context, store HostStore) error {
	for _, h := range r.hosts {
		id, err := store.EnsureHost(ctx, h)
		if err != nil {
			return fmt.Errorf("fleet: register host %s: %w", h.Name, err)
		}
		h.ID = id
		r.byID[id] = h
		r.logger.Debug("host registered", "host", h.Name, "id", id, "os", h.OS)
	}
	r.logger.Info("fleet registered", "hosts", len(r.hosts))
	return nil
}

// Hosts returns all hosts in configuration order. Callers must not
// modify the returned slice.
func (r *Registry) Hosts() []*models.Host {
	return r.hosts
}

// ByID returns the host with the given id, or nil when unknown.
func (r *Registry) ByID(id int64) *models.Host {
	return r.byID[id]
}

// Len returns the number of managed hosts.
func (r *Registry) Len() int {
	return len(r.hosts)
}
