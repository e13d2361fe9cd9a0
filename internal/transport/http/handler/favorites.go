package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/realty-api/internal/application/favorite"
	"github.com/realty-api/internal/domain"
	"github.com/realty-api/internal/pkg/id"
	"github.com/realty-api/internal/transport/http/middleware"
)

// FavoriteHandler handles the authenticated user's saved listings.
type FavoriteHandler struct {
	svc favorite.Service
}

func NewFavoriteHandler(svc favorite.Service) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	propertyID := chi.URLParam(r, "propertyId")
	if !id.Valid(propertyID) {
		writeBadRequest(w, "invalid property id")
		return
	}
	f, err := h.svc.Add(r.Context(), u.UserID, propertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	favs, err := h.svc.List(r.Context(), u.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	propertyID := chi.URLParam(r, "propertyId")
	if !id.Valid(propertyID) {
		writeBadRequest(w, "invalid property id")
		return
	}
	if err := h.svc.Remove(r.Context(), u.UserID, propertyID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "favorite removed"})
}
