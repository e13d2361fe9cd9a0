package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/realty-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Every error response uses
// it, so clients can always read a message field.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// AuthEnvelope wraps register and login responses.
type AuthEnvelope struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto its status code. Conflicts share 400
// with validation failures.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), MessageEnvelope{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, MessageEnvelope{Message: msg})
}
