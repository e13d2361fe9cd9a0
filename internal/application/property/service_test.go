package property

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/realty-api/internal/cache"
	"github.com/realty-api/internal/domain"
)

type mockPropertyStore struct{ mock.Mock }

func (m *mockPropertyStore) Put(ctx context.Context, p *domain.Property) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPropertyStore) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	args := m.Called(ctx, propertyID)
	if p, _ := args.Get(0).(*domain.Property); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPropertyStore) List(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Property), args.Error(1)
}
func (m *mockPropertyStore) Search(ctx context.Context, f domain.PropertySearchFilter) ([]domain.Property, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Property), args.Error(1)
}
func (m *mockPropertyStore) Update(ctx context.Context, propertyID string, updates map[string]interface{}) error {
	return m.Called(ctx, propertyID, updates).Error(0)
}
func (m *mockPropertyStore) Delete(ctx context.Context, propertyID string) error {
	return m.Called(ctx, propertyID).Error(0)
}

type mockPhotoStore struct{ mock.Mock }

func (m *mockPhotoStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	return m.Called(ctx, key, r, contentType).Error(0)
}
func (m *mockPhotoStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
func (m *mockPhotoStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func newTestService(ps *mockPropertyStore, photos *mockPhotoStore) (Service, *cache.Memory) {
	mem := cache.NewMemory()
	var store PhotoStore
	if photos != nil {
		store = photos
	}
	return NewService(ps, store, cache.NewAccessor(mem, nil)), mem
}

func owner() *domain.User {
	return &domain.User{UserID: "u1", Role: domain.RoleAgent}
}

func admin() *domain.User {
	return &domain.User{UserID: "u-admin", Role: domain.RoleAdmin}
}

func stranger() *domain.User {
	return &domain.User{UserID: "u2", Role: domain.RoleUser}
}

func createReq() domain.CreatePropertyRequest {
	return domain.CreatePropertyRequest{
		Title:         "2BHK in Koramangala",
		Type:          "Apartment",
		Price:         25000,
		State:         "Karnataka",
		City:          "Bangalore",
		AreaSqFt:      1100,
		Bedrooms:      2,
		Bathrooms:     2,
		AvailableFrom: "2026-09-01",
		ListedBy:      "Owner",
		ListingType:   "rent",
	}
}

func listing() *domain.Property {
	return &domain.Property{PropertyID: "p1", Title: "2BHK in Koramangala", CreatedBy: "u1"}
}

func ptr[T any](v T) *T { return &v }

// --- Create ---

func TestCreate_SetsCreatorAndInvalidatesList(t *testing.T) {
	ps := &mockPropertyStore{}
	ps.On("Put", mock.Anything, mock.AnythingOfType("*domain.Property")).Return(nil)
	ps.On("List", mock.Anything).Return([]domain.Property{}, nil)

	svc, mem := newTestService(ps, nil)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	require.True(t, mem.Has(cache.KeyAllProperties()))

	p, err := svc.Create(context.Background(), owner(), createReq())
	require.NoError(t, err)

	assert.Equal(t, "u1", p.CreatedBy)
	assert.NotEmpty(t, p.PropertyID)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), p.AvailableFrom)
	assert.False(t, mem.Has(cache.KeyAllProperties()))
}

func TestCreate_RejectsBadDate(t *testing.T) {
	svc, _ := newTestService(&mockPropertyStore{}, nil)
	req := createReq()
	req.AvailableFrom = "01-09-2026"
	_, err := svc.Create(context.Background(), owner(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_RejectsUnknownListingType(t *testing.T) {
	svc, _ := newTestService(&mockPropertyStore{}, nil)
	req := createReq()
	req.ListingType = "lease"
	_, err := svc.Create(context.Background(), owner(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- Read paths ---

func TestGet_SecondCallServedFromCache(t *testing.T) {
	ps := &mockPropertyStore{}
	ps.On("Get", mock.Anything, "p1").Return(listing(), nil).Once()

	svc, _ := newTestService(ps, nil)
	first, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, first.PropertyID, second.PropertyID)
	ps.AssertExpectations(t)
}

func TestGet_NotFoundIsNotCached(t *testing.T) {
	ps := &mockPropertyStore{}
	ps.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc, mem := newTestService(ps, nil)
	_, err := svc.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, mem.Has(cache.KeyProperty("missing")))
}

func TestSearch_NeverTouchesCache(t *testing.T) {
	ps := &mockPropertyStore{}
	filter := domain.PropertySearchFilter{City: "Bangalore", MaxPrice: ptr(30000.0)}
	ps.On("Search", mock.Anything, filter).Return([]domain.Property{*listing()}, nil).Twice()

	svc, _ := newTestService(ps, nil)
	_, err := svc.Search(context.Background(), filter)
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), filter)
	require.NoError(t, err)

	// Twice() proves each call reached the store.
	ps.AssertExpectations(t)
}

// --- Update / Delete authorization ---

func TestUpdate_StrangerForbidden(t *testing.T) {
	ps := &mockPropertyStore{}
	ps.On("Get", mock.Anything, "p1").Return(listing(), nil)

	svc, _ := newTestService(ps, nil)
	_, err := svc.Update(context.Background(), stranger(), "p1", domain.UpdatePropertyRequest{Title: ptr("New title")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUpdate_AdminAllowed(t *testing.T) {
	ps := &mockPropertyStore{}
	ps.On("Get", mock.Anything, "p1").Return(listing(), nil)
	ps.On("Update", mock.Anything, "p1", map[string]interface{}{"is_verified": true}).Return(nil)

	svc, _ := newTestService(ps, nil)
	_, err := svc.Update(context.Background(), admin(), "p1", domain.UpdatePropertyRequest{IsVerified: ptr(true)})

	require.NoError(t, err)
	ps.AssertExpectations(t)
}

func TestUpdate_InvalidatesBothKeys(t *testing.T) {
	ps := &mockPropertyStore{}
	ps.On("Get", mock.Anything, "p1").Return(listing(), nil)
	ps.On("List", mock.Anything).Return([]domain.Property{*listing()}, nil)
	ps.On("Update", mock.Anything, "p1", mock.Anything).Return(nil)

	svc, mem := newTestService(ps, nil)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, mem.Has(cache.KeyAllProperties()))
	require.True(t, mem.Has(cache.KeyProperty("p1")))

	_, err = svc.Update(context.Background(), owner(), "p1", domain.UpdatePropertyRequest{Price: ptr(27000.0)})
	require.NoError(t, err)

	assert.False(t, mem.Has(cache.KeyAllProperties()))
	assert.False(t, mem.Has(cache.KeyProperty("p1")))
}

func TestDelete_OwnerOnly(t *testing.T) {
	ps := &mockPropertyStore{}
	ps.On("Get", mock.Anything, "p1").Return(listing(), nil)

	svc, _ := newTestService(ps, nil)
	err := svc.Delete(context.Background(), stranger(), "p1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	ps.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_InvalidatesCaches(t *testing.T) {
	ps := &mockPropertyStore{}
	ps.On("Get", mock.Anything, "p1").Return(listing(), nil)
	ps.On("Delete", mock.Anything, "p1").Return(nil)

	svc, mem := newTestService(ps, nil)

	_, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, mem.Has(cache.KeyProperty("p1")))

	require.NoError(t, svc.Delete(context.Background(), owner(), "p1"))
	assert.False(t, mem.Has(cache.KeyProperty("p1")))
}

// --- Photos ---

func TestAddPhoto_UploadsAndAppendsKey(t *testing.T) {
	ps := &mockPropertyStore{}
	photos := &mockPhotoStore{}
	ps.On("Get", mock.Anything, "p1").Return(listing(), nil)
	photos.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "properties/p1/") && strings.HasSuffix(key, ".jpg")
	}), mock.Anything, "image/jpeg").Return(nil)
	ps.On("Update", mock.Anything, "p1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		keys, ok := updates["photos"].([]string)
		return ok && len(keys) == 1
	})).Return(nil)

	svc, _ := newTestService(ps, photos)
	_, err := svc.AddPhoto(context.Background(), owner(), "p1", "front.jpg", strings.NewReader("fake-bytes"))

	require.NoError(t, err)
	photos.AssertExpectations(t)
	ps.AssertExpectations(t)
}

func TestAddPhoto_NoPhotoStoreConfigured(t *testing.T) {
	svc, _ := newTestService(&mockPropertyStore{}, nil)
	_, err := svc.AddPhoto(context.Background(), owner(), "p1", "front.jpg", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestRemovePhoto_UnknownKey(t *testing.T) {
	ps := &mockPropertyStore{}
	photos := &mockPhotoStore{}
	p := listing()
	p.Photos = []string{"properties/p1/a.jpg"}
	ps.On("Get", mock.Anything, "p1").Return(p, nil)

	svc, _ := newTestService(ps, photos)
	_, err := svc.RemovePhoto(context.Background(), owner(), "p1", "properties/p1/missing.jpg")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	photos.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPhotoURLs_PresignsEveryKey(t *testing.T) {
	ps := &mockPropertyStore{}
	photos := &mockPhotoStore{}
	p := listing()
	p.Photos = []string{"properties/p1/a.jpg", "properties/p1/b.png"}
	ps.On("Get", mock.Anything, "p1").Return(p, nil)
	photos.On("PresignedURL", mock.Anything, "properties/p1/a.jpg", PhotoURLTTL).Return("https://s3/a", nil)
	photos.On("PresignedURL", mock.Anything, "properties/p1/b.png", PhotoURLTTL).Return("https://s3/b", nil)

	svc, _ := newTestService(ps, photos)
	urls, err := svc.PhotoURLs(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, []string{"https://s3/a", "https://s3/b"}, urls)
}
