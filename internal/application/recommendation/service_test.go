package recommendation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/realty-api/internal/cache"
	"github.com/realty-api/internal/domain"
)

type mockRecStore struct{ mock.Mock }

func (m *mockRecStore) Put(ctx context.Context, rec *domain.Recommendation) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *mockRecStore) GetByID(ctx context.Context, recommendationID string) (*domain.Recommendation, error) {
	args := m.Called(ctx, recommendationID)
	if rec, _ := args.Get(0).(*domain.Recommendation); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRecStore) ListByReceiver(ctx context.Context, receiverID string) ([]domain.Recommendation, error) {
	args := m.Called(ctx, receiverID)
	return args.Get(0).([]domain.Recommendation), args.Error(1)
}
func (m *mockRecStore) ListBySender(ctx context.Context, senderID string) ([]domain.Recommendation, error) {
	args := m.Called(ctx, senderID)
	return args.Get(0).([]domain.Recommendation), args.Error(1)
}
func (m *mockRecStore) Delete(ctx context.Context, receiverID, edgeID string) error {
	return m.Called(ctx, receiverID, edgeID).Error(0)
}

type mockUserGetter struct{ mock.Mock }

func (m *mockUserGetter) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserGetter) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPropertyGetter struct{ mock.Mock }

func (m *mockPropertyGetter) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	args := m.Called(ctx, propertyID)
	if p, _ := args.Get(0).(*domain.Property); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSMS struct {
	mock.Mock
	sent chan struct{}
}

func (m *mockSMS) SendSMS(ctx context.Context, to, message string) error {
	err := m.Called(ctx, to, message).Error(0)
	if m.sent != nil {
		close(m.sent)
	}
	return err
}

type fixture struct {
	recs  *mockRecStore
	users *mockUserGetter
	props *mockPropertyGetter
	sms   *mockSMS
	mem   *cache.Memory
	svc   Service
}

func newFixture(withSMS bool) *fixture {
	f := &fixture{
		recs:  &mockRecStore{},
		users: &mockUserGetter{},
		props: &mockPropertyGetter{},
		mem:   cache.NewMemory(),
	}
	var sms smsSender
	if withSMS {
		f.sms = &mockSMS{sent: make(chan struct{})}
		sms = f.sms
	}
	f.svc = NewService(f.recs, f.users, f.props, sms, cache.NewAccessor(f.mem, nil), nil)
	return f
}

func sender() *domain.User {
	return &domain.User{UserID: "u-sender", Name: "Alice", Role: domain.RoleUser}
}

func receiver() *domain.User {
	return &domain.User{UserID: "u-receiver", Name: "Bob", Email: "bob@example.com", PhoneNumber: "5550200"}
}

func theProperty() *domain.Property {
	return &domain.Property{PropertyID: "p1", Title: "2BHK", City: "Bangalore"}
}

// --- Recommend ---

func TestRecommend_UnknownRecipient(t *testing.T) {
	f := newFixture(false)
	f.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	_, err := f.svc.Recommend(context.Background(), sender(), domain.RecommendRequest{
		Email: "ghost@example.com", PropertyID: "p1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	f.recs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRecommend_UnknownProperty(t *testing.T) {
	f := newFixture(false)
	f.users.On("GetByEmail", mock.Anything, "bob@example.com").Return(receiver(), nil)
	f.props.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	_, err := f.svc.Recommend(context.Background(), sender(), domain.RecommendRequest{
		Email: "bob@example.com", PropertyID: "missing",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRecommend_DuplicateTriple(t *testing.T) {
	f := newFixture(false)
	f.users.On("GetByEmail", mock.Anything, "bob@example.com").Return(receiver(), nil)
	f.props.On("Get", mock.Anything, "p1").Return(theProperty(), nil)
	f.recs.On("Put", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	_, err := f.svc.Recommend(context.Background(), sender(), domain.RecommendRequest{
		Email: "bob@example.com", PropertyID: "p1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRecommend_BuildsEdgeAndInvalidatesReceiverCache(t *testing.T) {
	f := newFixture(false)
	f.users.On("GetByEmail", mock.Anything, "bob@example.com").Return(receiver(), nil)
	f.props.On("Get", mock.Anything, "p1").Return(theProperty(), nil)
	f.recs.On("Put", mock.Anything, mock.MatchedBy(func(rec *domain.Recommendation) bool {
		return rec.ReceiverID == "u-receiver" &&
			rec.SenderID == "u-sender" &&
			rec.EdgeID == domain.RecommendationEdgeID("u-sender", "p1") &&
			rec.RecommendationID != ""
	})).Return(nil)
	f.recs.On("ListByReceiver", mock.Anything, "u-receiver").Return([]domain.Recommendation{}, nil)

	// Warm the receiver's cache, then recommend; the entry must be gone.
	_, err := f.svc.Received(context.Background(), "u-receiver")
	require.NoError(t, err)
	require.True(t, f.mem.Has(cache.KeyReceivedRecs("u-receiver")))

	_, err = f.svc.Recommend(context.Background(), sender(), domain.RecommendRequest{
		Email: "bob@example.com", PropertyID: "p1",
	})
	require.NoError(t, err)

	assert.False(t, f.mem.Has(cache.KeyReceivedRecs("u-receiver")))
	f.recs.AssertExpectations(t)
}

func TestRecommend_NotifiesRecipientBySMS(t *testing.T) {
	f := newFixture(true)
	f.users.On("GetByEmail", mock.Anything, "bob@example.com").Return(receiver(), nil)
	f.props.On("Get", mock.Anything, "p1").Return(theProperty(), nil)
	f.recs.On("Put", mock.Anything, mock.Anything).Return(nil)
	f.sms.On("SendSMS", mock.Anything, "5550200", mock.MatchedBy(func(msg string) bool {
		return msg == "Alice recommended you a property: 2BHK, Bangalore"
	})).Return(nil)

	_, err := f.svc.Recommend(context.Background(), sender(), domain.RecommendRequest{
		Email: "bob@example.com", PropertyID: "p1",
	})
	require.NoError(t, err)

	select {
	case <-f.sms.sent:
	case <-time.After(time.Second):
		t.Fatal("sms was never sent")
	}
	f.sms.AssertExpectations(t)
}

// --- Received / Sent ---

func TestReceived_PopulatesSenderAndProperty(t *testing.T) {
	f := newFixture(false)
	f.recs.On("ListByReceiver", mock.Anything, "u-receiver").Return([]domain.Recommendation{
		{RecommendationID: "r1", ReceiverID: "u-receiver", SenderID: "u-sender", PropertyID: "p1"},
	}, nil)
	f.users.On("Get", mock.Anything, "u-sender").Return(sender(), nil)
	f.props.On("Get", mock.Anything, "p1").Return(theProperty(), nil)

	views, err := f.svc.Received(context.Background(), "u-receiver")

	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Sender)
	assert.Equal(t, "Alice", views[0].Sender.Name)
	assert.Nil(t, views[0].Receiver)
	require.NotNil(t, views[0].Property)
	assert.Equal(t, "2BHK", views[0].Property.Title)
}

func TestReceived_SecondCallServedFromCache(t *testing.T) {
	f := newFixture(false)
	f.recs.On("ListByReceiver", mock.Anything, "u-receiver").Return([]domain.Recommendation{
		{RecommendationID: "r1", ReceiverID: "u-receiver", SenderID: "u-sender", PropertyID: "p1"},
	}, nil).Once()
	f.users.On("Get", mock.Anything, "u-sender").Return(sender(), nil).Once()
	f.props.On("Get", mock.Anything, "p1").Return(theProperty(), nil).Once()

	_, err := f.svc.Received(context.Background(), "u-receiver")
	require.NoError(t, err)
	views, err := f.svc.Received(context.Background(), "u-receiver")
	require.NoError(t, err)

	require.Len(t, views, 1)
	// Once() on every mock proves the hit cost zero store reads.
	f.recs.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.props.AssertExpectations(t)
}

func TestSent_PopulatesReceiver(t *testing.T) {
	f := newFixture(false)
	f.recs.On("ListBySender", mock.Anything, "u-sender").Return([]domain.Recommendation{
		{RecommendationID: "r1", ReceiverID: "u-receiver", SenderID: "u-sender", PropertyID: "p1"},
	}, nil)
	f.users.On("Get", mock.Anything, "u-receiver").Return(receiver(), nil)
	f.props.On("Get", mock.Anything, "p1").Return(theProperty(), nil)

	views, err := f.svc.Sent(context.Background(), "u-sender")

	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Receiver)
	assert.Equal(t, "Bob", views[0].Receiver.Name)
	assert.Nil(t, views[0].Sender)
}

// --- Unrecommend ---

func TestUnrecommend_OnlySenderMayRetract(t *testing.T) {
	f := newFixture(false)
	f.recs.On("GetByID", mock.Anything, "r1").Return(&domain.Recommendation{
		RecommendationID: "r1", ReceiverID: "u-receiver", SenderID: "u-sender",
		EdgeID: domain.RecommendationEdgeID("u-sender", "p1"),
	}, nil)

	err := f.svc.Unrecommend(context.Background(), &domain.User{UserID: "u-other", Role: domain.RoleUser}, "r1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	f.recs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnrecommend_DeletesEdgeAndInvalidatesReceiverCache(t *testing.T) {
	f := newFixture(false)
	edge := domain.RecommendationEdgeID("u-sender", "p1")
	f.recs.On("GetByID", mock.Anything, "r1").Return(&domain.Recommendation{
		RecommendationID: "r1", ReceiverID: "u-receiver", SenderID: "u-sender", EdgeID: edge,
	}, nil)
	f.recs.On("Delete", mock.Anything, "u-receiver", edge).Return(nil)
	f.recs.On("ListByReceiver", mock.Anything, "u-receiver").Return([]domain.Recommendation{}, nil)

	_, err := f.svc.Received(context.Background(), "u-receiver")
	require.NoError(t, err)
	require.True(t, f.mem.Has(cache.KeyReceivedRecs("u-receiver")))

	require.NoError(t, f.svc.Unrecommend(context.Background(), sender(), "r1"))

	assert.False(t, f.mem.Has(cache.KeyReceivedRecs("u-receiver")))
	f.recs.AssertExpectations(t)
}

func TestUnrecommend_UnknownID(t *testing.T) {
	f := newFixture(false)
	f.recs.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	err := f.svc.Unrecommend(context.Background(), sender(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
