// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// Error taxonomy: validation errors carry details and never mutate state,
// not-found is a reportable empty result, and upstream failures surface as
// *_unavailable with the cause in details.
const (
	errValidation  = "validation_error"
	errNotFound    = "not_found"
	errInvalidJSON = "invalid_json"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}
