package handler

import (
	"context"
	"net/http"
)

// Pinger reports whether a backing collaborator is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the health-check endpoint.
type HealthHandler struct {
	cache Pinger
}

// NewHealthHandler builds the handler. cache may be nil when no cache backend
// is configured.
func NewHealthHandler(cache Pinger) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Check reports service liveness. A degraded cache does not fail the check;
// it only flips the cache field, since every read path works without it.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "ok"
		if err := h.cache.Ping(r.Context()); err != nil {
			cacheStatus = "unreachable"
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"cache":  cacheStatus,
	})
}
