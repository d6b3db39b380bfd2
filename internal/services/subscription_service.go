package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/apikey"
	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/events"
	"github.com/stars-panel/backend/internal/models"
)

type SubscriptionStore interface {
	Create(ctx context.Context, userID int64, product, plan, apiKey string) (*models.Subscription, error)
	GetByID(ctx context.Context, id int64) (*models.Subscription, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*models.Subscription, error)
	KeyExists(ctx context.Context, apiKey string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]models.Subscription, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Subscription, error)
	Update(ctx context.Context, id int64, upd models.SubscriptionUpdate) (*models.Subscription, error)
	Revoke(ctx context.Context, id int64) (*models.Subscription, error)
	UpdateKey(ctx context.Context, id int64, apiKey string) (*models.Subscription, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.SubscriptionStats, error)
}

// KeyValidityCache caches IsValidKey verdicts. Implementations must
// treat their own failures as misses; nil disables caching.
type KeyValidityCache interface {
	Get(ctx context.Context, apiKey string) (valid bool, hit bool)
	Set(ctx context.Context, apiKey string, valid bool)
	Invalidate(ctx context.Context, apiKey string)
}

type SubscriptionService struct {
	store     SubscriptionStore
	users     UserStore
	keyCache  KeyValidityCache
	publisher events.Publisher
	keyPrefix string
	log       *zap.Logger
}

func NewSubscriptionService(
	store SubscriptionStore,
	users UserStore,
	keyCache KeyValidityCache,
	publisher events.Publisher,
	keyPrefix string,
	log *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		store:     store,
		users:     users,
		keyCache:  keyCache,
		publisher: publisher,
		keyPrefix: keyPrefix,
		log:       log,
	}
}

// generateUniqueKey produces a candidate key and point-checks it
// against the table, excluding excludeID (0 for none). The loop is
// bounded; in practice one attempt is enough.
func (s *SubscriptionService) generateUniqueKey(ctx context.Context, excludeID int64) (string, error) {
	for attempt := 0; attempt < apikey.MaxAttempts; attempt++ {
		key, err := apikey.Generate(s.keyPrefix)
		if err != nil {
			return "", fmt.Errorf("generate key: %w", err)
		}

		exists, err := s.store.KeyExists(ctx, key, excludeID)
		if err != nil {
			return "", fmt.Errorf("check key uniqueness: %w", err)
		}
		if !exists {
			return key, nil
		}
	}
	return "", apperr.ErrKeyExhausted
}

func (s *SubscriptionService) Create(ctx context.Context, userID int64, product, plan string) (*models.Subscription, error) {
	if !models.IsValidProduct(product) {
		return nil, fmt.Errorf("invalid product %q", product)
	}
	if !models.IsValidPlan(plan) {
		return nil, fmt.Errorf("invalid plan %q", plan)
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("user")
	}

	key, err := s.generateUniqueKey(ctx, 0)
	if err != nil {
		return nil, err
	}

	sub, err := s.store.Create(ctx, userID, product, plan, key)
	if err != nil {
		// The api_key unique constraint is the last line of defence
		// against a concurrent writer picking the same candidate.
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("api key collision")
		}
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	s.log.Info("subscription created",
		zap.Int64("subscription_id", sub.ID),
		zap.Int64("user_id", userID),
		zap.String("product", product),
		zap.String("plan", plan),
	)
	return sub, nil
}

func (s *SubscriptionService) GetByID(ctx context.Context, id int64) (*models.Subscription, error) {
	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("subscription")
		}
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	return sub, nil
}

func (s *SubscriptionService) List(ctx context.Context) ([]models.Subscription, error) {
	return s.store.List(ctx)
}

func (s *SubscriptionService) ListByUser(ctx context.Context, userID int64) ([]models.Subscription, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *SubscriptionService) Update(ctx context.Context, id int64, upd models.SubscriptionUpdate) (*models.Subscription, error) {
	if upd.Empty() {
		return nil, apperr.ErrNoFields
	}
	if upd.Product != nil && !models.IsValidProduct(*upd.Product) {
		return nil, fmt.Errorf("invalid product %q", *upd.Product)
	}
	if upd.Plan != nil && !models.IsValidPlan(*upd.Plan) {
		return nil, fmt.Errorf("invalid plan %q", *upd.Plan)
	}

	sub, err := s.store.Update(ctx, id, upd)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("subscription")
		}
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	return sub, nil
}

// Revoke permanently deactivates the subscription's key. Revoking an
// already-revoked subscription is a no-op that keeps the original
// timestamp.
func (s *SubscriptionService) Revoke(ctx context.Context, id int64) (*models.Subscription, error) {
	sub, err := s.store.Revoke(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("subscription")
		}
		return nil, fmt.Errorf("revoke subscription: %w", err)
	}

	if s.keyCache != nil {
		s.keyCache.Invalidate(ctx, sub.APIKey)
	}

	_ = s.publisher.Publish(ctx, events.StreamPanel, events.Event{
		Type:    events.EventSubscriptionRevoked,
		Payload: map[string]any{"subscription_id": sub.ID, "user_id": sub.UserID},
	})

	s.log.Info("subscription revoked", zap.Int64("subscription_id", id))
	return sub, nil
}

// RegenerateKey rotates the API key in place. Revoked subscriptions
// may rotate too; the key stays unusable either way.
func (s *SubscriptionService) RegenerateKey(ctx context.Context, id int64) (*models.Subscription, error) {
	old, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("subscription")
		}
		return nil, fmt.Errorf("load subscription: %w", err)
	}

	key, err := s.generateUniqueKey(ctx, id)
	if err != nil {
		return nil, err
	}

	sub, err := s.store.UpdateKey(ctx, id, key)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			return nil, apperr.NotFound("subscription")
		case apperr.IsConflict(err):
			return nil, apperr.Conflict("api key collision")
		}
		return nil, fmt.Errorf("update api key: %w", err)
	}

	if s.keyCache != nil {
		s.keyCache.Invalidate(ctx, old.APIKey)
		s.keyCache.Invalidate(ctx, sub.APIKey)
	}

	_ = s.publisher.Publish(ctx, events.StreamPanel, events.Event{
		Type:    events.EventAPIKeyRegenerated,
		Payload: map[string]any{"subscription_id": sub.ID, "user_id": sub.UserID},
	})

	s.log.Info("api key regenerated", zap.Int64("subscription_id", id))
	return sub, nil
}

// IsValidKey reports whether the key belongs to a non-revoked
// subscription. Fail-closed: any internal failure is "not valid".
func (s *SubscriptionService) IsValidKey(ctx context.Context, key string) bool {
	if s.keyCache != nil {
		if valid, hit := s.keyCache.Get(ctx, key); hit {
			return valid
		}
	}

	sub, err := s.store.GetByAPIKey(ctx, key)
	if err != nil {
		return false
	}
	valid := !sub.Revoked()

	if s.keyCache != nil {
		s.keyCache.Set(ctx, key, valid)
	}
	return valid
}

func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("subscription")
		}
		return fmt.Errorf("load subscription: %w", err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("subscription")
		}
		return fmt.Errorf("delete subscription: %w", err)
	}

	if s.keyCache != nil {
		s.keyCache.Invalidate(ctx, sub.APIKey)
	}
	return nil
}

func (s *SubscriptionService) Stats(ctx context.Context) (*models.SubscriptionStats, error) {
	return s.store.Stats(ctx)
}
