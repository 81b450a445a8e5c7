// ABOUTME: Standardized JSON error responses for HTTP handlers.
// ABOUTME: Keeps error formatting consistent across the whole API surface.

package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error body every handler writes.
type ErrorResponse struct {
	Code    string `json:"code"`            // Machine-readable error code
	Message string `json:"message"`         // Human-readable error message
	Status  int    `json:"status"`          // HTTP status code
	Field   string `json:"field,omitempty"` // Optional: field that caused a validation error
}

// WriteError writes a standardized error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeErrorResponse(w, ErrorResponse{Code: code, Message: message, Status: status})
}

// WriteErrorWithField writes a validation error naming the offending field.
func WriteErrorWithField(w http.ResponseWriter, status int, code, message, field string) {
	writeErrorResponse(w, ErrorResponse{Code: code, Message: message, Status: status, Field: field})
}

func writeErrorResponse(w http.ResponseWriter, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	json.NewEncoder(w).Encode(resp)
}

// Common error codes
const (
	// Client errors (4xx)
	ErrInvalidRequest   = "invalid_request"
	ErrInvalidBody      = "invalid_request_body"
	ErrMissingField     = "missing_field"
	ErrValidationFailed = "validation_failed"
	ErrNotFound         = "not_found"

	// Server errors (5xx)
	ErrInternal      = "internal_error"
	ErrDatabaseError = "database_error"
)
