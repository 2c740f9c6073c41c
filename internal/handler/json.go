// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Status values used in JSON responses.
const (
	statusSuccess = "success"
	statusError   = "error"
	statusOK      = "ok"
)

// apiResponse is the JSON envelope of the public API.
type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	ID      int64  `json:"id,omitempty"`
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiResponse{Status: statusError, Message: message})
}
