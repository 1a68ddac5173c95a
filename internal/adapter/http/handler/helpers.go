package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrExpenseNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// parseTimeQuery parses an RFC 3339 time query parameter. A missing
// parameter yields nil; a malformed one yields an error.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
