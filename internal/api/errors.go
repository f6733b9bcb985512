// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeInvalidRequest writes a 400 for a structurally broken request.
func writeInvalidRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", Detail: detail})
}

// writeValidationError writes a 400 naming the offending field.
func writeValidationError(w http.ResponseWriter, field, reason string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation_error", Field: field, Detail: reason})
}

// writeUpstreamUnavailable writes a 502 for a failed upstream dependency.
func writeUpstreamUnavailable(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadGateway, errorBody{Error: "upstream_unavailable", Detail: detail})
}

// writeCollision writes a 500 for a session identifier collision.
func writeCollision(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "identifier_collision"})
}

// writeNotFound writes a 404 Not Found response
func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found"})
}

// writeInternal writes a 500 without leaking the underlying error.
func writeInternal(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal_error"})
}
