// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

// Package api assembles the read-only HTTP query surface.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/PedroNoriega/agentless-hub/internal/api/dto/response"
	"github.com/PedroNoriega/agentless-hub/internal/api/handlers"
	"github.com/PedroNoriega/agentless-hub/internal/api/middleware"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// RouterConfig carries the handlers the router mounts.
type RouterConfig struct {
	Hosts  *handlers.HostHandler
	System *handlers.SystemHandler
	Logger *logger.Logger
}

// NewRouter builds the chi router with the standard middleware chain.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.SimpleLogging(cfg.Logger))

	r.Get("/healthz", handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/hosts", cfg.Hosts.Routes())
		r.Mount("/system", cfg.System.Routes())
	})

	return r
}

// handleHealthz is the bare liveness probe: always ok, no dependencies.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}
