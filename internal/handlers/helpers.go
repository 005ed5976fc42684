package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/reperio/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteProviderError maps a search-path failure to its HTTP status and writes
// the typed error response. Each taxonomy kind produces a distinguishable
// message; unknown errors fall back to 500.
func WriteProviderError(w http.ResponseWriter, err error) error {
	status := http.StatusInternalServerError

	switch models.ErrorKindOf(err) {
	case models.ErrUnconfigured:
		status = http.StatusInternalServerError
	case models.ErrMissingQuery, models.ErrMissingCoordinates, models.ErrBadRequest:
		status = http.StatusBadRequest
	case models.ErrAuthRejected:
		status = http.StatusForbidden
	case models.ErrRateLimited:
		status = http.StatusTooManyRequests
	case models.ErrUnreachable:
		status = http.StatusServiceUnavailable
	case models.ErrUpstream:
		status = http.StatusBadGateway
	}

	resp := map[string]string{
		"status": "error",
		"error":  err.Error(),
	}
	if kind := models.ErrorKindOf(err); kind != "" {
		resp["kind"] = string(kind)
	}
	return WriteJSON(w, status, resp)
}
