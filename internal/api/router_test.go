// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PedroNoriega/agentless-hub/internal/api/handlers"
	"github.com/PedroNoriega/agentless-hub/internal/api/middleware"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

func TestHealthz(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handleHealthz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["ok"] != true {
		t.Errorf("ok = %v, want true", body["ok"])
	}
	if body["time"] == "" {
		t.Error("time is empty")
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	r := NewRouter(RouterConfig{
		Hosts:  handlers.NewHostHandler(nil, nil, logger.Nop()),
		System: handlers.NewSystemHandler("test", "", "", logger.Nop()),
		Logger: logger.Nop(),
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Header().Get(middleware.RequestIDHeader) == "" {
		t.Errorf("%s header missing", middleware.RequestIDHeader)
	}
}

func TestRouter_PropagatesClientRequestID(t *testing.T) {
	r := NewRouter(RouterConfig{
		Hosts:  handlers.NewHostHandler(nil, nil, logger.Nop()),
		System: handlers.NewSystemHandler("test", "", "", logger.Nop()),
		Logger: logger.Nop(),
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
	req.Header.Set(middleware.RequestIDHeader, "client-id-123")
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get(middleware.RequestIDHeader); got != "client-id-123" {
		t.Errorf("%s = %q, want %q", middleware.RequestIDHeader, got, "client-id-123")
	}
}
