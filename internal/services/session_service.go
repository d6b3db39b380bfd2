package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/events"
	"github.com/stars-panel/backend/internal/models"
)

type SessionStore interface {
	CreateActive(ctx context.Context, s *models.FragmentSession) (*models.FragmentSession, error)
	Activate(ctx context.Context, id int64) (*models.FragmentSession, error)
	GetByID(ctx context.Context, id int64) (*models.FragmentSession, error)
	GetByHash(ctx context.Context, hash string) (*models.FragmentSession, error)
	GetActiveByUser(ctx context.Context, userID int64) (*models.FragmentSession, error)
	List(ctx context.Context) ([]models.FragmentSession, error)
	ListByUser(ctx context.Context, userID int64) ([]models.FragmentSession, error)
	Update(ctx context.Context, id int64, upd models.FragmentSessionUpdate) (*models.FragmentSession, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.SessionStats, error)
}

type SessionService struct {
	store     SessionStore
	users     UserStore
	publisher events.Publisher
	log       *zap.Logger
}

func NewSessionService(store SessionStore, users UserStore, publisher events.Publisher, log *zap.Logger) *SessionService {
	return &SessionService{store: store, users: users, publisher: publisher, log: log}
}

type CreateSessionInput struct {
	UserID            int64
	FragmentHash      string
	FragmentPublicKey string
	FragmentWallets   string
	FragmentAddress   string
	StelSSID          string
	StelDT            string
	StelTonToken      string
	StelToken         string
	CfClearance       *string
}

// Create stores a freshly captured session and makes it the user's
// only active one. Previous sessions are deactivated in the same
// transaction the insert runs in.
func (s *SessionService) Create(ctx context.Context, in CreateSessionInput) (*models.FragmentSession, error) {
	exists, err := s.users.Exists(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("user")
	}

	session, err := s.store.CreateActive(ctx, &models.FragmentSession{
		UserID:            in.UserID,
		FragmentHash:      in.FragmentHash,
		FragmentPublicKey: in.FragmentPublicKey,
		FragmentWallets:   in.FragmentWallets,
		FragmentAddress:   in.FragmentAddress,
		StelSSID:          in.StelSSID,
		StelDT:            in.StelDT,
		StelTonToken:      in.StelTonToken,
		StelToken:         in.StelToken,
		CfClearance:       in.CfClearance,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("fragment session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("user_id", in.UserID),
	)
	return session, nil
}

// Activate switches the user's active session to the given one.
func (s *SessionService) Activate(ctx context.Context, id int64) (*models.FragmentSession, error) {
	session, err := s.store.Activate(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("fragment session")
		}
		return nil, fmt.Errorf("activate session: %w", err)
	}

	_ = s.publisher.Publish(ctx, events.StreamPanel, events.Event{
		Type:    events.EventSessionActivated,
		Payload: map[string]any{"session_id": session.ID, "user_id": session.UserID},
	})

	s.log.Info("fragment session activated",
		zap.Int64("session_id", id),
		zap.Int64("user_id", session.UserID),
	)
	return session, nil
}

// GetActiveForUser returns the user's active session, or nil when
// there is none.
func (s *SessionService) GetActiveForUser(ctx context.Context, userID int64) (*models.FragmentSession, error) {
	session, err := s.store.GetActiveByUser(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load active session: %w", err)
	}
	return session, nil
}

// Cookies projects the active session's cookie jar; nil when no
// session is active.
func (s *SessionService) Cookies(ctx context.Context, userID int64) (*models.SessionCookies, error) {
	session, err := s.GetActiveForUser(ctx, userID)
	if err != nil || session == nil {
		return nil, err
	}
	return &models.SessionCookies{
		StelSSID:     session.StelSSID,
		StelDT:       session.StelDT,
		StelTonToken: session.StelTonToken,
		StelToken:    session.StelToken,
		CfClearance:  session.CfClearance,
	}, nil
}

// WalletView projects the active session's wallet-side fields; nil
// when no session is active.
func (s *SessionService) WalletView(ctx context.Context, userID int64) (*models.SessionWalletView, error) {
	session, err := s.GetActiveForUser(ctx, userID)
	if err != nil || session == nil {
		return nil, err
	}
	return &models.SessionWalletView{
		FragmentHash:      session.FragmentHash,
		FragmentPublicKey: session.FragmentPublicKey,
		FragmentWallets:   session.FragmentWallets,
		FragmentAddress:   session.FragmentAddress,
	}, nil
}

func (s *SessionService) GetByID(ctx context.Context, id int64) (*models.FragmentSession, error) {
	session, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("fragment session")
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

func (s *SessionService) GetByHash(ctx context.Context, hash string) (*models.FragmentSession, error) {
	session, err := s.store.GetByHash(ctx, hash)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("fragment session")
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

func (s *SessionService) List(ctx context.Context) ([]models.FragmentSession, error) {
	return s.store.List(ctx)
}

func (s *SessionService) ListByUser(ctx context.Context, userID int64) ([]models.FragmentSession, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *SessionService) Update(ctx context.Context, id int64, upd models.FragmentSessionUpdate) (*models.FragmentSession, error) {
	if upd.Empty() {
		return nil, apperr.ErrNoFields
	}

	session, err := s.store.Update(ctx, id, upd)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("fragment session")
		}
		return nil, fmt.Errorf("update session: %w", err)
	}
	return session, nil
}

func (s *SessionService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("fragment session")
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionService) Stats(ctx context.Context) (*models.SessionStats, error) {
	return s.store.Stats(ctx)
}
