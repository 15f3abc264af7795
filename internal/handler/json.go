package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/unimaxdigital/agency-web/internal/domain"
)

const maxBodyBytes = 1 << 20

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes a size-limited request body into dst.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// writeDecodeError reports a body that could not be decoded.
func writeDecodeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body")
}

// errorResponse maps a service error to a status code and a client-safe
// message. Unexpected errors are logged under op.
func errorResponse(err error, op string) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, domain.ErrNoPasswordSet):
		return http.StatusUnauthorized, "Use Google/GitHub to sign in"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusBadRequest, "Token expired"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Invalid token"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request"
	}
	slog.Error(op, "error", err)
	return http.StatusInternalServerError, "Internal server error"
}

// writeServiceError writes errorResponse as JSON.
func writeServiceError(w http.ResponseWriter, err error, op string) {
	status, msg := errorResponse(err, op)
	writeError(w, status, msg)
}
