package property

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/realty-api/internal/cache"
	"github.com/realty-api/internal/domain"
	s3infra "github.com/realty-api/internal/infrastructure/s3"
	"github.com/realty-api/internal/pkg/id"
	"github.com/realty-api/internal/pkg/validate"
)

const availableFromLayout = "2006-01-02"

// PhotoURLTTL bounds how long a presigned photo link stays valid.
const PhotoURLTTL = 15 * time.Minute

// Service exposes property listing operations. Mutations require the acting
// user: update and delete are restricted to the listing's creator or an admin.
type Service interface {
	Create(ctx context.Context, actor *domain.User, req domain.CreatePropertyRequest) (*domain.Property, error)
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
	List(ctx context.Context) ([]domain.Property, error)
	Search(ctx context.Context, f domain.PropertySearchFilter) ([]domain.Property, error)
	Update(ctx context.Context, actor *domain.User, propertyID string, req domain.UpdatePropertyRequest) (*domain.Property, error)
	Delete(ctx context.Context, actor *domain.User, propertyID string) error
	AddPhoto(ctx context.Context, actor *domain.User, propertyID, filename string, r io.Reader) (*domain.Property, error)
	RemovePhoto(ctx context.Context, actor *domain.User, propertyID, photoKey string) (*domain.Property, error)
	PhotoURLs(ctx context.Context, propertyID string) ([]string, error)
}

type propertyStore interface {
	Put(ctx context.Context, p *domain.Property) error
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
	List(ctx context.Context) ([]domain.Property, error)
	Search(ctx context.Context, f domain.PropertySearchFilter) ([]domain.Property, error)
	Update(ctx context.Context, propertyID string, updates map[string]interface{}) error
	Delete(ctx context.Context, propertyID string) error
}

// PhotoStore is the object storage backend for listing photos.
type PhotoStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo     propertyStore
	photos   PhotoStore
	accessor *cache.Accessor
}

// NewService wires the property service. photos may be nil when no object
// store is configured; photo operations then return ErrBadRequest.
func NewService(repo propertyStore, photos PhotoStore, accessor *cache.Accessor) Service {
	return &service{repo: repo, photos: photos, accessor: accessor}
}

func (s *service) Create(ctx context.Context, actor *domain.User, req domain.CreatePropertyRequest) (*domain.Property, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	availableFrom, err := time.Parse(availableFromLayout, req.AvailableFrom)
	if err != nil {
		return nil, fmt.Errorf("availableFrom must be YYYY-MM-DD: %w", domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	p := &domain.Property{
		PropertyID:    id.New(),
		Title:         req.Title,
		Type:          req.Type,
		Price:         req.Price,
		State:         req.State,
		City:          req.City,
		AreaSqFt:      req.AreaSqFt,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		Amenities:     req.Amenities,
		Furnished:     req.Furnished,
		AvailableFrom: availableFrom,
		ListedBy:      req.ListedBy,
		Tags:          req.Tags,
		ColorTheme:    req.ColorTheme,
		Rating:        req.Rating,
		ListingType:   req.ListingType,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	s.accessor.Invalidate(ctx, cache.KeyAllProperties())
	return p, nil
}

func (s *service) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	return cache.ReadThrough(ctx, s.accessor, cache.KeyProperty(propertyID), cache.PropertyTTL,
		func(ctx context.Context) (*domain.Property, error) {
			return s.repo.Get(ctx, propertyID)
		})
}

func (s *service) List(ctx context.Context) ([]domain.Property, error) {
	return cache.ReadThrough(ctx, s.accessor, cache.KeyAllProperties(), cache.PropertyListTTL,
		func(ctx context.Context) ([]domain.Property, error) {
			return s.repo.List(ctx)
		})
}

// Search always queries the store; filtered result sets are not cached.
func (s *service) Search(ctx context.Context, f domain.PropertySearchFilter) ([]domain.Property, error) {
	return s.repo.Search(ctx, f)
}

func (s *service) Update(ctx context.Context, actor *domain.User, propertyID string, req domain.UpdatePropertyRequest) (*domain.Property, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, existing); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.AreaSqFt != nil {
		updates["area_sqft"] = *req.AreaSqFt
	}
	if req.Bedrooms != nil {
		updates["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		updates["bathrooms"] = *req.Bathrooms
	}
	if req.Amenities != nil {
		updates["amenities"] = *req.Amenities
	}
	if req.Furnished != nil {
		updates["furnished"] = *req.Furnished
	}
	if req.AvailableFrom != nil {
		availableFrom, err := time.Parse(availableFromLayout, *req.AvailableFrom)
		if err != nil {
			return nil, fmt.Errorf("availableFrom must be YYYY-MM-DD: %w", domain.ErrBadRequest)
		}
		updates["available_from"] = availableFrom.Format(time.RFC3339)
	}
	if req.ListedBy != nil {
		updates["listed_by"] = *req.ListedBy
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if req.ColorTheme != nil {
		updates["color_theme"] = *req.ColorTheme
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.IsVerified != nil {
		updates["is_verified"] = *req.IsVerified
	}
	if req.ListingType != nil {
		updates["listing_type"] = *req.ListingType
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, propertyID, updates); err != nil {
		return nil, err
	}
	// Invalidate only after the store acknowledged the write.
	s.accessor.Invalidate(ctx, cache.KeyAllProperties(), cache.KeyProperty(propertyID))
	return s.repo.Get(ctx, propertyID)
}

func (s *service) Delete(ctx context.Context, actor *domain.User, propertyID string) error {
	existing, err := s.repo.Get(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(actor, existing); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, propertyID); err != nil {
		return err
	}
	s.accessor.Invalidate(ctx, cache.KeyAllProperties(), cache.KeyProperty(propertyID))
	return nil
}

// AddPhoto uploads the photo and appends its object key to the listing.
func (s *service) AddPhoto(ctx context.Context, actor *domain.User, propertyID, filename string, r io.Reader) (*domain.Property, error) {
	if s.photos == nil {
		return nil, fmt.Errorf("photo storage not configured: %w", domain.ErrBadRequest)
	}
	existing, err := s.repo.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, existing); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("properties/%s/%s%s", propertyID, id.New(), path.Ext(filename))
	if err := s.photos.Upload(ctx, key, r, s3infra.DetectContentType(filename)); err != nil {
		return nil, err
	}

	photos := append(existing.Photos, key)
	if err := s.repo.Update(ctx, propertyID, map[string]interface{}{"photos": photos}); err != nil {
		return nil, err
	}
	s.accessor.Invalidate(ctx, cache.KeyAllProperties(), cache.KeyProperty(propertyID))
	return s.repo.Get(ctx, propertyID)
}

// RemovePhoto drops the object key from the listing and deletes the object.
func (s *service) RemovePhoto(ctx context.Context, actor *domain.User, propertyID, photoKey string) (*domain.Property, error) {
	if s.photos == nil {
		return nil, fmt.Errorf("photo storage not configured: %w", domain.ErrBadRequest)
	}
	existing, err := s.repo.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, existing); err != nil {
		return nil, err
	}

	photos := make([]string, 0, len(existing.Photos))
	found := false
	for _, k := range existing.Photos {
		if k == photoKey {
			found = true
			continue
		}
		photos = append(photos, k)
	}
	if !found {
		return nil, fmt.Errorf("photo not found: %w", domain.ErrNotFound)
	}

	if err := s.repo.Update(ctx, propertyID, map[string]interface{}{"photos": photos}); err != nil {
		return nil, err
	}
	s.accessor.Invalidate(ctx, cache.KeyAllProperties(), cache.KeyProperty(propertyID))

	// The listing no longer references the object; a failed S3 delete only
	// leaves an orphan behind.
	if err := s.photos.Delete(ctx, photoKey); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, propertyID)
}

// PhotoURLs returns short-lived presigned links for every photo on the
// listing. Links are generated per request and never cached.
func (s *service) PhotoURLs(ctx context.Context, propertyID string) ([]string, error) {
	if s.photos == nil {
		return nil, fmt.Errorf("photo storage not configured: %w", domain.ErrBadRequest)
	}
	p, err := s.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(p.Photos))
	for _, key := range p.Photos {
		u, err := s.photos.PresignedURL(ctx, key, PhotoURLTTL)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

func requireOwnerOrAdmin(actor *domain.User, p *domain.Property) error {
	if actor.Role == domain.RoleAdmin || p.CreatedBy == actor.UserID {
		return nil
	}
	return fmt.Errorf("not the listing owner: %w", domain.ErrForbidden)
}
