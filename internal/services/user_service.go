package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/auth"
	"github.com/stars-panel/backend/internal/events"
	"github.com/stars-panel/backend/internal/models"
)

// UserStore is the persistence surface the user service needs. The
// pgx-backed repository implements it; tests use an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	SetBan(ctx context.Context, id int64, banned bool) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type UserService struct {
	store     UserStore
	hasher    auth.Hasher
	publisher events.Publisher
	log       *zap.Logger
}

func NewUserService(store UserStore, hasher auth.Hasher, publisher events.Publisher, log *zap.Logger) *UserService {
	return &UserService{store: store, hasher: hasher, publisher: publisher, log: log}
}

// Register creates a user with a hashed password. Username matching is
// case-sensitive; the unique constraint on users.username catches any
// concurrent registration that slips past the pre-check.
func (s *UserService) Register(ctx context.Context, username, rawPassword string) (*models.User, error) {
	if _, err := s.store.GetByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict("username already exists")
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, username, hash)
	if err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Verify checks a raw password against the stored hash. An unknown
// username or a wrong password is false, not an error.
func (s *UserService) Verify(ctx context.Context, username, rawPassword string) (bool, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("load user: %w", err)
	}
	return s.hasher.Compare(rawPassword, user.PasswordHash), nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.List(ctx)
}

// SetBan is idempotent: banning a banned user (or unbanning an
// unbanned one) succeeds and changes nothing.
func (s *UserService) SetBan(ctx context.Context, id int64, banned bool) (*models.User, error) {
	user, err := s.store.SetBan(ctx, id, banned)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("set ban: %w", err)
	}

	if banned {
		_ = s.publisher.Publish(ctx, events.StreamPanel, events.Event{
			Type:    events.EventUserBanned,
			Payload: map[string]any{"user_id": user.ID, "username": user.Username},
		})
	}

	s.log.Info("user ban updated", zap.Int64("user_id", id), zap.Bool("banned", banned))
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	if upd.Empty() {
		return nil, apperr.ErrNoFields
	}

	if upd.Password != nil {
		hash, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		upd.Password = &hash
	}

	user, err := s.store.Update(ctx, id, upd)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			return nil, apperr.NotFound("user")
		case apperr.IsConflict(err):
			return nil, apperr.Conflict("username already exists")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes the user; subscriptions, wallets and fragment sessions
// go with it via schema-level cascades.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("user")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info("user deleted", zap.Int64("user_id", id))
	return nil
}
