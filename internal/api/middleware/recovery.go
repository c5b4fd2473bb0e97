// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/PedroNoriega/agentless-hub/internal/api/dto/response"
	apperrors "github.com/PedroNoriega/agentless-hub/internal/pkg/errors"
)

// Logger interface for recovery middleware.
type Logger interface {
	Error(msg string, keysAndValues ...any)
}

// noopLogger is a no-op logger used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Error(msg string, keysAndValues ...any) {}

// Recovery returns a middleware that recovers from panics and returns a
// 500 error. A single panicking handler must not bring the server down.
func Recovery(log Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = noopLogger{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered",
						"error", rec,
						"request_id", GetRequestID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"remote_addr", r.RemoteAddr,
						"stack", string(debug.Stack()),
					)
					response.Error(w, apperrors.Internal("internal server error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
