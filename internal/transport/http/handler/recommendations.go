package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/realty-api/internal/application/recommendation"
	"github.com/realty-api/internal/domain"
	"github.com/realty-api/internal/pkg/id"
	"github.com/realty-api/internal/transport/http/middleware"
)

// RecommendationHandler handles recommending listings between users.
type RecommendationHandler struct {
	svc recommendation.Service
}

func NewRecommendationHandler(svc recommendation.Service) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	rec, err := h.svc.Recommend(r.Context(), u, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *RecommendationHandler) Received(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	views, err := h.svc.Received(r.Context(), u.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *RecommendationHandler) Sent(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	views, err := h.svc.Sent(r.Context(), u.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *RecommendationHandler) Unrecommend(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	recommendationID := chi.URLParam(r, "recommendationId")
	if !id.Valid(recommendationID) {
		writeBadRequest(w, "invalid recommendation id")
		return
	}
	if err := h.svc.Unrecommend(r.Context(), u, recommendationID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "recommendation removed"})
}
