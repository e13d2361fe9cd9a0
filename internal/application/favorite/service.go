package favorite

import (
	"context"
	"time"

	"github.com/realty-api/internal/domain"
)

// Service manages a user's saved listings. Favorites are written and read
// straight from the store; they are never cached.
type Service interface {
	Add(ctx context.Context, userID, propertyID string) (*domain.Favorite, error)
	List(ctx context.Context, userID string) ([]domain.FavoriteWithProperty, error)
	Remove(ctx context.Context, userID, propertyID string) error
}

type favoriteStore interface {
	Put(ctx context.Context, f *domain.Favorite) error
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
	Delete(ctx context.Context, userID, propertyID string) error
}

// propertyGetter resolves property documents when populating favorites. The
// wiring hands in the property service so lookups share its cache.
type propertyGetter interface {
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
}

type service struct {
	repo       favoriteStore
	properties propertyGetter
}

func NewService(repo favoriteStore, properties propertyGetter) Service {
	return &service{repo: repo, properties: properties}
}

// Add favorites a property for the user. The property must exist; saving the
// same property twice surfaces the store's conflict.
func (s *service) Add(ctx context.Context, userID, propertyID string) (*domain.Favorite, error) {
	if _, err := s.properties.Get(ctx, propertyID); err != nil {
		return nil, err
	}
	f := &domain.Favorite{
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// List returns the user's favorites with each property document attached. A
// favorite whose property has since been deleted is returned with a nil
// Property rather than dropped, so the client can clean it up.
func (s *service) List(ctx context.Context, userID string) ([]domain.FavoriteWithProperty, error) {
	favs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FavoriteWithProperty, 0, len(favs))
	for _, f := range favs {
		entry := domain.FavoriteWithProperty{Favorite: f}
		if p, err := s.properties.Get(ctx, f.PropertyID); err == nil {
			entry.Property = p
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *service) Remove(ctx context.Context, userID, propertyID string) error {
	return s.repo.Delete(ctx, userID, propertyID)
}
