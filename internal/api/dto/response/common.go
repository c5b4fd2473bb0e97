// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

// Package response contains standardized response DTOs for the API.
package response

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/PedroNoriega/agentless-hub/internal/pkg/errors"
)

// Response is the standard wrapper for all API responses.
type Response struct {
	// Success indicates if the request was successful
	Success bool `json:"success"`

	// Data contains the response payload
	Data any `json:"data,omitempty"`

	// Error contains error details for failed requests
	Error *ErrorInfo `json:"error,omitempty"`

	// Meta contains request metadata
	Meta *Meta `json:"meta,omitempty"`
}

// ErrorInfo describes a failed request.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Meta contains metadata about the response.
type Meta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Message represents a simple message response.
type Message struct {
	Message string `json:"message"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// OK writes a 200 OK response with data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, &Response{
		Success: true,
		Data:    data,
	})
}

// Error writes an error response, mapping application error codes to
// HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusCode(err)
	info := &ErrorInfo{
		Code:    apperrors.CodeInternal,
		Message: "internal server error",
	}
	if appErr, ok := apperrors.GetAppError(err); ok {
		info.Code = appErr.Code
		info.Message = appErr.Message
		info.Details = appErr.Details
	}
	JSON(w, status, &Response{
		Success: false,
		Error:   info,
	})
}

// BadRequest writes a 400 response with a message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    apperrors.CodeBadRequest,
			Message: message,
		},
	})
}

// NotFound writes a 404 response with a message.
func NotFound(w http.ResponseWriter, message string) {
	JSON(w, http.StatusNotFound, &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    apperrors.CodeNotFound,
			Message: message,
		},
	})
}
