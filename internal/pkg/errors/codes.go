// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package errors

// General error codes
const (
	CodeInternal     = "INTERNAL_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeBadRequest   = "BAD_REQUEST"
	CodeInvalidInput = "INVALID_INPUT"
	CodeTimeout      = "TIMEOUT"
)

// Collection error codes
const (
	CodeHostNotFound    = "HOST_NOT_FOUND"
	CodeHostUnreachable = "HOST_UNREACHABLE"
	CodeAuthFailed      = "AUTH_FAILED"
	CodeCommandFailed   = "COMMAND_FAILED"
	CodePayloadInvalid  = "PAYLOAD_INVALID"
	CodeNotSupported    = "NOT_SUPPORTED"
)

// Configuration error codes
const (
	CodeConfigNotFound = "CONFIG_NOT_FOUND"
	CodeConfigInvalid  = "CONFIG_INVALID"
)

// Database error codes
const (
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeMigrationFailed = "MIGRATION_FAILED"
)
