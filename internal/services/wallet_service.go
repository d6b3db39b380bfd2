package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/models"
	"github.com/stars-panel/backend/internal/ton"
)

type WalletStore interface {
	Create(ctx context.Context, w *models.Wallet) (*models.Wallet, error)
	GetByID(ctx context.Context, id int64) (*models.Wallet, error)
	GetByAddress(ctx context.Context, addr string) (*models.Wallet, error)
	GetBySubscription(ctx context.Context, subscriptionID int64) (*models.Wallet, error)
	ExistsForSubscription(ctx context.Context, subscriptionID int64) (bool, error)
	List(ctx context.Context) ([]models.Wallet, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Wallet, error)
	Update(ctx context.Context, id int64, upd models.WalletUpdate) (*models.Wallet, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.WalletStats, error)
}

type WalletService struct {
	store WalletStore
	subs  SubscriptionStore
	users UserStore
	log   *zap.Logger
}

func NewWalletService(store WalletStore, subs SubscriptionStore, users UserStore, log *zap.Logger) *WalletService {
	return &WalletService{store: store, subs: subs, users: users, log: log}
}

type CreateWalletInput struct {
	SubscriptionID int64
	UserID         int64
	Address        string
	Mnemonics      string
	PublicKey      string
	PrivateKey     string
	TonAPIKey      string
	Workchain      *int
	Version        string
}

// Create binds a wallet to a subscription. At most one wallet per
// subscription ever exists; the first failing check wins:
// an already-bound subscription is a conflict, a missing or revoked
// subscription (or one owned by someone else) and a missing user are
// not-found.
func (s *WalletService) Create(ctx context.Context, in CreateWalletInput) (*models.Wallet, error) {
	if err := ton.ValidateAddress(in.Address); err != nil {
		return nil, err
	}

	bound, err := s.store.ExistsForSubscription(ctx, in.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("check wallet existence: %w", err)
	}
	if bound {
		return nil, apperr.Conflict("subscription already has a wallet")
	}

	sub, err := s.subs.GetByID(ctx, in.SubscriptionID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("subscription not found or revoked")
		}
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	// Revocation blocks new bindings only; wallets bound earlier stay.
	// The subscription must also belong to the supplied user.
	if sub.Revoked() || sub.UserID != in.UserID {
		return nil, apperr.NotFound("subscription not found or revoked")
	}

	exists, err := s.users.Exists(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("user")
	}

	workchain := models.DefaultWorkchain
	if in.Workchain != nil {
		workchain = *in.Workchain
	}
	version := in.Version
	if version == "" {
		version = models.DefaultWalletVersion
	}

	wallet, err := s.store.Create(ctx, &models.Wallet{
		SubscriptionID: in.SubscriptionID,
		UserID:         in.UserID,
		Address:        in.Address,
		Mnemonics:      in.Mnemonics,
		PublicKey:      in.PublicKey,
		PrivateKey:     in.PrivateKey,
		TonAPIKey:      in.TonAPIKey,
		Workchain:      workchain,
		Version:        version,
	})
	if err != nil {
		// Unique constraint on subscription_id: a concurrent bind won.
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("subscription already has a wallet")
		}
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	s.log.Info("wallet created",
		zap.Int64("wallet_id", wallet.ID),
		zap.Int64("subscription_id", in.SubscriptionID),
		zap.Int64("user_id", in.UserID),
	)
	return wallet, nil
}

// Generate derives fresh V4R2 wallet material without persisting it.
func (s *WalletService) Generate(ctx context.Context) (*ton.GeneratedWallet, error) {
	w, err := ton.GenerateWallet()
	if err != nil {
		return nil, fmt.Errorf("generate wallet: %w", err)
	}
	return w, nil
}

func (s *WalletService) GetByID(ctx context.Context, id int64) (*models.Wallet, error) {
	w, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("wallet")
		}
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	return w, nil
}

func (s *WalletService) GetByAddress(ctx context.Context, addr string) (*models.Wallet, error) {
	w, err := s.store.GetByAddress(ctx, addr)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("wallet")
		}
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	return w, nil
}

func (s *WalletService) List(ctx context.Context) ([]models.Wallet, error) {
	return s.store.List(ctx)
}

func (s *WalletService) ListByUser(ctx context.Context, userID int64) ([]models.Wallet, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *WalletService) ListBySubscription(ctx context.Context, subscriptionID int64) ([]models.Wallet, error) {
	w, err := s.store.GetBySubscription(ctx, subscriptionID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	return []models.Wallet{*w}, nil
}

func (s *WalletService) Update(ctx context.Context, id int64, upd models.WalletUpdate) (*models.Wallet, error) {
	if upd.Empty() {
		return nil, apperr.ErrNoFields
	}
	if upd.Address != nil {
		if err := ton.ValidateAddress(*upd.Address); err != nil {
			return nil, err
		}
	}

	w, err := s.store.Update(ctx, id, upd)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("wallet")
		}
		return nil, fmt.Errorf("update wallet: %w", err)
	}
	return w, nil
}

func (s *WalletService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("wallet")
		}
		return fmt.Errorf("delete wallet: %w", err)
	}
	s.log.Info("wallet deleted", zap.Int64("wallet_id", id))
	return nil
}

func (s *WalletService) Stats(ctx context.Context) (*models.WalletStats, error) {
	return s.store.Stats(ctx)
}
