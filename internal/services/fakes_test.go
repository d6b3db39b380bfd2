package services

import (
	"context"
	"sync"
	"time"

	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/models"
)

// In-memory stores mirroring the repository semantics: not-found and
// unique-violation conditions come back as the same error kinds the
// pgx repositories translate to, and every operation is atomic under
// one mutex, like a statement (or transaction) against the database.

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, username, passwordHash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return nil, apperr.ErrConflict
		}
	}
	f.nextID++
	u := &models.User{
		ID:           f.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		DateJoined:   time.Now(),
	}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if upd.Username != nil {
		for _, other := range f.users {
			if other.ID != id && other.Username == *upd.Username {
				return nil, apperr.ErrConflict
			}
		}
		u.Username = *upd.Username
	}
	if upd.Password != nil {
		u.PasswordHash = *upd.Password
	}
	if upd.IsBanned != nil {
		u.IsBanned = *upd.IsBanned
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) SetBan(_ context.Context, id int64, banned bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	u.IsBanned = banned
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) Exists(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

type fakeSubscriptionStore struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]*models.Subscription
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subs: make(map[int64]*models.Subscription)}
}

func (f *fakeSubscriptionStore) Create(_ context.Context, userID int64, product, plan, apiKey string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.APIKey == apiKey {
			return nil, apperr.ErrConflict
		}
	}
	f.nextID++
	s := &models.Subscription{
		ID:          f.nextID,
		UserID:      userID,
		Product:     product,
		Plan:        plan,
		APIKey:      apiKey,
		DateCreated: time.Now(),
	}
	f.subs[s.ID] = s
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptionStore) GetByID(_ context.Context, id int64) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptionStore) GetByAPIKey(_ context.Context, apiKey string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.APIKey == apiKey {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeSubscriptionStore) KeyExists(_ context.Context, apiKey string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.APIKey == apiKey && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubscriptionStore) List(_ context.Context) ([]models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subscription
	for _, s := range f.subs {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSubscriptionStore) ListByUser(_ context.Context, userID int64) ([]models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionStore) Update(_ context.Context, id int64, upd models.SubscriptionUpdate) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if upd.Product != nil {
		s.Product = *upd.Product
	}
	if upd.Plan != nil {
		s.Plan = *upd.Plan
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptionStore) Revoke(_ context.Context, id int64) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if s.DateRevoked == nil {
		now := time.Now()
		s.DateRevoked = &now
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptionStore) UpdateKey(_ context.Context, id int64, apiKey string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	for _, other := range f.subs {
		if other.ID != id && other.APIKey == apiKey {
			return nil, apperr.ErrConflict
		}
	}
	s.APIKey = apiKey
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptionStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.subs, id)
	return nil
}

func (f *fakeSubscriptionStore) Stats(_ context.Context) (*models.SubscriptionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.SubscriptionStats{
		ByProduct: make(map[string]int64),
		ByPlan:    make(map[string]int64),
	}
	for _, s := range f.subs {
		stats.Total++
		if s.DateRevoked == nil {
			stats.Active++
		} else {
			stats.Revoked++
		}
		stats.ByProduct[s.Product]++
		stats.ByPlan[s.Plan]++
	}
	return stats, nil
}

type fakeWalletStore struct {
	mu      sync.Mutex
	nextID  int64
	wallets map[int64]*models.Wallet
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{wallets: make(map[int64]*models.Wallet)}
}

func (f *fakeWalletStore) Create(_ context.Context, w *models.Wallet) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.wallets {
		if existing.SubscriptionID == w.SubscriptionID {
			return nil, apperr.ErrConflict
		}
	}
	f.nextID++
	cp := *w
	cp.ID = f.nextID
	cp.DateCreated = time.Now()
	f.wallets[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeWalletStore) GetByID(_ context.Context, id int64) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWalletStore) GetByAddress(_ context.Context, addr string) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wallets {
		if w.Address == addr {
			cp := *w
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeWalletStore) GetBySubscription(_ context.Context, subscriptionID int64) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wallets {
		if w.SubscriptionID == subscriptionID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeWalletStore) ExistsForSubscription(_ context.Context, subscriptionID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wallets {
		if w.SubscriptionID == subscriptionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeWalletStore) List(_ context.Context) ([]models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Wallet
	for _, w := range f.wallets {
		out = append(out, *w)
	}
	return out, nil
}

func (f *fakeWalletStore) ListByUser(_ context.Context, userID int64) ([]models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Wallet
	for _, w := range f.wallets {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWalletStore) Update(_ context.Context, id int64, upd models.WalletUpdate) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if upd.Address != nil {
		w.Address = *upd.Address
	}
	if upd.Mnemonics != nil {
		w.Mnemonics = *upd.Mnemonics
	}
	if upd.PublicKey != nil {
		w.PublicKey = *upd.PublicKey
	}
	if upd.PrivateKey != nil {
		w.PrivateKey = *upd.PrivateKey
	}
	if upd.TonAPIKey != nil {
		w.TonAPIKey = *upd.TonAPIKey
	}
	if upd.Workchain != nil {
		w.Workchain = *upd.Workchain
	}
	if upd.Version != nil {
		w.Version = *upd.Version
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWalletStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wallets[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.wallets, id)
	return nil
}

func (f *fakeWalletStore) Stats(_ context.Context) (*models.WalletStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.WalletStats{
		Total:     int64(len(f.wallets)),
		ByUser:    make(map[string]int64),
		ByProduct: make(map[string]int64),
	}, nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[int64]*models.FragmentSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[int64]*models.FragmentSession)}
}

func (f *fakeSessionStore) deactivateLocked(userID int64) {
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsActive {
			s.IsActive = false
			s.DateUpdated = time.Now()
		}
	}
}

func (f *fakeSessionStore) CreateActive(_ context.Context, in *models.FragmentSession) (*models.FragmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivateLocked(in.UserID)
	f.nextID++
	cp := *in
	cp.ID = f.nextID
	cp.IsActive = true
	cp.DateCreated = time.Now()
	cp.DateUpdated = cp.DateCreated
	f.sessions[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeSessionStore) Activate(_ context.Context, id int64) (*models.FragmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	f.deactivateLocked(s.UserID)
	s.IsActive = true
	s.DateUpdated = time.Now()
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id int64) (*models.FragmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) GetByHash(_ context.Context, hash string) (*models.FragmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.FragmentHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeSessionStore) GetActiveByUser(_ context.Context, userID int64) (*models.FragmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.FragmentSession
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsActive {
			if latest == nil || s.DateCreated.After(latest.DateCreated) || (s.DateCreated.Equal(latest.DateCreated) && s.ID > latest.ID) {
				latest = s
			}
		}
	}
	if latest == nil {
		return nil, apperr.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeSessionStore) List(_ context.Context) ([]models.FragmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FragmentSession
	for _, s := range f.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSessionStore) ListByUser(_ context.Context, userID int64) ([]models.FragmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FragmentSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) Update(_ context.Context, id int64, upd models.FragmentSessionUpdate) (*models.FragmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if upd.IsActive != nil && *upd.IsActive {
		f.deactivateLocked(s.UserID)
	}
	if upd.FragmentHash != nil {
		s.FragmentHash = *upd.FragmentHash
	}
	if upd.FragmentPublicKey != nil {
		s.FragmentPublicKey = *upd.FragmentPublicKey
	}
	if upd.FragmentWallets != nil {
		s.FragmentWallets = *upd.FragmentWallets
	}
	if upd.FragmentAddress != nil {
		s.FragmentAddress = *upd.FragmentAddress
	}
	if upd.StelSSID != nil {
		s.StelSSID = *upd.StelSSID
	}
	if upd.StelDT != nil {
		s.StelDT = *upd.StelDT
	}
	if upd.StelTonToken != nil {
		s.StelTonToken = *upd.StelTonToken
	}
	if upd.StelToken != nil {
		s.StelToken = *upd.StelToken
	}
	if upd.CfClearance != nil {
		s.CfClearance = upd.CfClearance
	}
	if upd.IsActive != nil {
		s.IsActive = *upd.IsActive
	}
	s.DateUpdated = time.Now()
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) Stats(_ context.Context) (*models.SessionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.SessionStats{ByUser: make(map[string]int64)}
	for _, s := range f.sessions {
		stats.Total++
		if s.IsActive {
			stats.Active++
		}
	}
	return stats, nil
}

// plainHasher keeps service tests fast; bcrypt is covered in the auth
// package tests.
type plainHasher struct{}

func (plainHasher) Hash(raw string) (string, error) { return "hashed:" + raw, nil }
func (plainHasher) Compare(raw, digest string) bool { return "hashed:"+raw == digest }
