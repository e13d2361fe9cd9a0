package recommendation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/realty-api/internal/cache"
	"github.com/realty-api/internal/domain"
	"github.com/realty-api/internal/pkg/id"
	"github.com/realty-api/internal/pkg/validate"
)

// Service lets users recommend listings to each other by email. Received
// recommendations are served through the cache; sent ones are not.
type Service interface {
	Recommend(ctx context.Context, sender *domain.User, req domain.RecommendRequest) (*domain.Recommendation, error)
	Received(ctx context.Context, userID string) ([]domain.RecommendationView, error)
	Sent(ctx context.Context, userID string) ([]domain.RecommendationView, error)
	Unrecommend(ctx context.Context, actor *domain.User, recommendationID string) error
}

type recommendationStore interface {
	Put(ctx context.Context, rec *domain.Recommendation) error
	GetByID(ctx context.Context, recommendationID string) (*domain.Recommendation, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]domain.Recommendation, error)
	ListBySender(ctx context.Context, senderID string) ([]domain.Recommendation, error)
	Delete(ctx context.Context, receiverID, edgeID string) error
}

type userGetter interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type propertyGetter interface {
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	repo       recommendationStore
	users      userGetter
	properties propertyGetter
	sms        smsSender
	accessor   *cache.Accessor
	logger     *slog.Logger
}

// NewService wires the recommendation service. sms may be nil; recipients are
// then not notified.
func NewService(repo recommendationStore, users userGetter, properties propertyGetter, sms smsSender, accessor *cache.Accessor, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{repo: repo, users: users, properties: properties, sms: sms, accessor: accessor, logger: logger}
}

// Recommend creates a recommendation edge from sender to the user registered
// under req.Email. The (sender, receiver, property) triple is unique; a repeat
// recommendation surfaces the store's conflict.
func (s *service) Recommend(ctx context.Context, sender *domain.User, req domain.RecommendRequest) (*domain.Recommendation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	receiver, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("recipient not found: %w", domain.ErrNotFound)
	}
	property, err := s.properties.Get(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	rec := &domain.Recommendation{
		RecommendationID: id.New(),
		ReceiverID:       receiver.UserID,
		EdgeID:           domain.RecommendationEdgeID(sender.UserID, property.PropertyID),
		SenderID:         sender.UserID,
		PropertyID:       property.PropertyID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		return nil, err
	}
	s.accessor.Invalidate(ctx, cache.KeyReceivedRecs(receiver.UserID))

	s.notify(receiver, sender, property)
	return rec, nil
}

// notify sends the recipient an SMS in the background. Delivery is best
// effort; failures are logged and never fail the recommendation.
func (s *service) notify(receiver, sender *domain.User, property *domain.Property) {
	if s.sms == nil || receiver.PhoneNumber == "" {
		return
	}
	msg := fmt.Sprintf("%s recommended you a property: %s, %s", sender.Name, property.Title, property.City)
	to := receiver.PhoneNumber
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.sms.SendSMS(ctx, to, msg); err != nil {
			s.logger.Warn("recommendation sms failed", "to", to, "err", err)
		}
	}()
}

// Received returns the recommendations sent to the user, with sender and
// property populated. The populated view is what gets cached, so a hit costs
// no store reads at all.
func (s *service) Received(ctx context.Context, userID string) ([]domain.RecommendationView, error) {
	return cache.ReadThrough(ctx, s.accessor, cache.KeyReceivedRecs(userID), cache.ReceivedRecsTTL,
		func(ctx context.Context) ([]domain.RecommendationView, error) {
			recs, err := s.repo.ListByReceiver(ctx, userID)
			if err != nil {
				return nil, err
			}
			return s.populate(ctx, recs, true)
		})
}

// Sent returns the recommendations the user has made, with receiver and
// property populated. Not cached.
func (s *service) Sent(ctx context.Context, userID string) ([]domain.RecommendationView, error) {
	recs, err := s.repo.ListBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, recs, false)
}

// Unrecommend deletes a recommendation. Only the user who sent it may retract
// it.
func (s *service) Unrecommend(ctx context.Context, actor *domain.User, recommendationID string) error {
	rec, err := s.repo.GetByID(ctx, recommendationID)
	if err != nil {
		return err
	}
	if rec.SenderID != actor.UserID && actor.Role != domain.RoleAdmin {
		return fmt.Errorf("not the recommendation sender: %w", domain.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, rec.ReceiverID, rec.EdgeID); err != nil {
		return err
	}
	s.accessor.Invalidate(ctx, cache.KeyReceivedRecs(rec.ReceiverID))
	return nil
}

// populate attaches the property and counterpart user to each recommendation.
// withSender picks which side to resolve: the sender for a received list, the
// receiver for a sent list. Lookups are memoized across the batch.
func (s *service) populate(ctx context.Context, recs []domain.Recommendation, withSender bool) ([]domain.RecommendationView, error) {
	userCache := map[string]*domain.UserSummary{}
	propCache := map[string]*domain.Property{}

	views := make([]domain.RecommendationView, 0, len(recs))
	for _, rec := range recs {
		view := domain.RecommendationView{Recommendation: rec}

		counterpartID := rec.SenderID
		if !withSender {
			counterpartID = rec.ReceiverID
		}
		summary, ok := userCache[counterpartID]
		if !ok {
			if u, err := s.users.Get(ctx, counterpartID); err == nil {
				summary = &domain.UserSummary{UserID: u.UserID, Name: u.Name, Email: u.Email}
			}
			userCache[counterpartID] = summary
		}
		if withSender {
			view.Sender = summary
		} else {
			view.Receiver = summary
		}

		p, ok := propCache[rec.PropertyID]
		if !ok {
			if loaded, err := s.properties.Get(ctx, rec.PropertyID); err == nil {
				p = loaded
			}
			propCache[rec.PropertyID] = p
		}
		view.Property = p

		views = append(views, view)
	}
	return views, nil
}
