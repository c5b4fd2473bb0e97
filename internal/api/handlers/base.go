// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/PedroNoriega/agentless-hub/internal/api/dto/response"
	apperrors "github.com/PedroNoriega/agentless-hub/internal/pkg/errors"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// BaseHandler carries the pieces every handler needs.
type BaseHandler struct {
	logger *logger.Logger
}

// NewBaseHandler creates a base handler.
func NewBaseHandler(log *logger.Logger) BaseHandler {
	return BaseHandler{logger: log}
}

// JSON writes a raw JSON response with the given status code.
func (h *BaseHandler) JSON(w http.ResponseWriter, status int, data any) {
	response.JSON(w, status, data)
}

// OK writes a 200 response with the standard envelope.
func (h *BaseHandler) OK(w http.ResponseWriter, data any) {
	response.OK(w, data)
}

// Error writes an error response and logs server-side failures.
func (h *BaseHandler) Error(w http.ResponseWriter, r *http.Request, err error) {
	if status := apperrors.HTTPStatusCode(err); status >= 500 {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	}
	response.Error(w, err)
}
