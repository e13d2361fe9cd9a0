package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/realty-api/internal/application/property"
	"github.com/realty-api/internal/domain"
	"github.com/realty-api/internal/pkg/id"
	"github.com/realty-api/internal/transport/http/middleware"
)

// maxPhotoBytes caps a single photo upload.
const maxPhotoBytes = 10 << 20

// PropertyHandler handles property listing endpoints.
type PropertyHandler struct {
	svc property.Service
}

func NewPropertyHandler(svc property.Service) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	p, err := h.svc.Create(r.Context(), u, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	props, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	f, err := parsePropertyFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	props, err := h.svc.Search(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")
	if !id.Valid(propertyID) {
		writeBadRequest(w, "invalid property id")
		return
	}
	p, err := h.svc.Get(r.Context(), propertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	propertyID := chi.URLParam(r, "id")
	if !id.Valid(propertyID) {
		writeBadRequest(w, "invalid property id")
		return
	}
	var req domain.UpdatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	p, err := h.svc.Update(r.Context(), u, propertyID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	propertyID := chi.URLParam(r, "id")
	if !id.Valid(propertyID) {
		writeBadRequest(w, "invalid property id")
		return
	}
	if err := h.svc.Delete(r.Context(), u, propertyID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "property deleted"})
}

// UploadPhoto accepts a multipart form with a single "photo" part.
func (h *PropertyHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	propertyID := chi.URLParam(r, "id")
	if !id.Valid(propertyID) {
		writeBadRequest(w, "invalid property id")
		return
	}
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		writeBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeBadRequest(w, "photo file is required")
		return
	}
	defer file.Close()

	p, err := h.svc.AddPhoto(r.Context(), u, propertyID, header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListPhotoURLs returns presigned links for the listing's photos.
func (h *PropertyHandler) ListPhotoURLs(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")
	if !id.Valid(propertyID) {
		writeBadRequest(w, "invalid property id")
		return
	}
	urls, err := h.svc.PhotoURLs(r.Context(), propertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"photos": urls})
}

// DeletePhoto removes the photo named by the "key" query parameter.
func (h *PropertyHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	propertyID := chi.URLParam(r, "id")
	if !id.Valid(propertyID) {
		writeBadRequest(w, "invalid property id")
		return
	}
	photoKey := r.URL.Query().Get("key")
	if photoKey == "" {
		writeBadRequest(w, "key query parameter is required")
		return
	}
	p, err := h.svc.RemovePhoto(r.Context(), u, propertyID, photoKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// parsePropertyFilter builds the search filter from query parameters. A
// malformed numeric or boolean parameter is a validation error, not a silent
// skip.
func parsePropertyFilter(r *http.Request) (domain.PropertySearchFilter, error) {
	q := r.URL.Query()
	f := domain.PropertySearchFilter{
		City:        q.Get("city"),
		State:       q.Get("state"),
		Type:        q.Get("type"),
		ListingType: q.Get("listingType"),
	}

	var err error
	if f.MaxPrice, err = floatParam(q.Get("maxPrice")); err != nil {
		return f, badParam("maxPrice")
	}
	if f.MinAreaSqFt, err = floatParam(q.Get("minAreaSqFt")); err != nil {
		return f, badParam("minAreaSqFt")
	}
	if f.Bedrooms, err = intParam(q.Get("bedrooms")); err != nil {
		return f, badParam("bedrooms")
	}
	if f.Bathrooms, err = intParam(q.Get("bathrooms")); err != nil {
		return f, badParam("bathrooms")
	}
	if f.Furnished, err = boolParam(q.Get("furnished")); err != nil {
		return f, badParam("furnished")
	}
	if f.IsVerified, err = boolParam(q.Get("isVerified")); err != nil {
		return f, badParam("isVerified")
	}
	return f, nil
}

func badParam(name string) error {
	return fmt.Errorf("invalid %s parameter: %w", name, domain.ErrBadRequest)
}

func floatParam(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func intParam(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func boolParam(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
