// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package logger

import (
	"context"
)

// contextKey is a private type for context keys
type contextKey struct{}

// loggerKey is the key used to store/retrieve logger from context
var loggerKey = contextKey{}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context
// Returns a no-op logger if none is found
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
		return logger
	}
	return Nop()
}

// WithHost adds a host name to the logger in context
func WithHost(ctx context.Context, host string) context.Context {
	logger := FromContext(ctx)
	return WithContext(ctx, logger.With("host", host))
}
