package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/events"
	"github.com/stars-panel/backend/internal/models"
)

func newSessionEnv(t *testing.T) (*SessionService, *models.User, *fakeSessionStore) {
	t.Helper()
	users := newFakeUserStore()
	user, err := users.Create(context.Background(), "alice", "hash")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	store := newFakeSessionStore()
	svc := NewSessionService(store, users, events.NopPublisher{}, zap.NewNop())
	return svc, user, store
}

func sessionInput(userID int64, hash string) CreateSessionInput {
	return CreateSessionInput{
		UserID:            userID,
		FragmentHash:      hash,
		FragmentPublicKey: "pubkey",
		FragmentWallets:   `[{"address":"0:abc"}]`,
		FragmentAddress:   "0:abc",
		StelSSID:          "ssid-" + hash,
		StelDT:            "dt",
		StelTonToken:      "ton-token",
		StelToken:         "token",
	}
}

func TestSessionCreate(t *testing.T) {
	ctx := context.Background()
	svc, user, _ := newSessionEnv(t)

	first, err := svc.Create(ctx, sessionInput(user.ID, "hash-1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !first.IsActive {
		t.Error("new session not active")
	}

	// A second capture takes over as the only active session.
	second, err := svc.Create(ctx, sessionInput(user.ID, "hash-2"))
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if !second.IsActive {
		t.Error("second session not active")
	}

	old, err := svc.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if old.IsActive {
		t.Error("first session still active")
	}

	active, err := svc.GetActiveForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetActiveForUser: %v", err)
	}
	if active == nil || active.ID != second.ID {
		t.Errorf("active session = %+v, want id %d", active, second.ID)
	}

	if _, err := svc.Create(ctx, sessionInput(999, "hash-3")); !apperr.IsNotFound(err) {
		t.Errorf("create for unknown user: err = %v, want not found", err)
	}
}

func TestSessionActivate(t *testing.T) {
	ctx := context.Background()
	svc, user, _ := newSessionEnv(t)

	first, err := svc.Create(ctx, sessionInput(user.ID, "hash-1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(ctx, sessionInput(user.ID, "hash-2"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Switch back to the older session.
	reactivated, err := svc.Activate(ctx, first.ID)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !reactivated.IsActive {
		t.Error("reactivated session not active")
	}

	got, err := svc.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.IsActive {
		t.Error("both sessions active")
	}

	// Activating the already-active session keeps it active.
	if _, err := svc.Activate(ctx, first.ID); err != nil {
		t.Fatalf("repeat Activate: %v", err)
	}
	active, err := svc.GetActiveForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetActiveForUser: %v", err)
	}
	if active == nil || active.ID != first.ID {
		t.Errorf("active = %+v, want id %d", active, first.ID)
	}

	if _, err := svc.Activate(ctx, 999); !apperr.IsNotFound(err) {
		t.Errorf("activate unknown: err = %v, want not found", err)
	}
}

func TestSessionSingleActiveInvariant(t *testing.T) {
	ctx := context.Background()
	svc, user, store := newSessionEnv(t)

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Create(ctx, sessionInput(user.ID, fmt.Sprintf("hash-%d", i))); err != nil {
				t.Errorf("Create: %v", err)
			}
		}(i)
	}
	wg.Wait()

	sessions, err := store.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(sessions) != n {
		t.Fatalf("sessions = %d, want %d", len(sessions), n)
	}
	var active int
	for _, s := range sessions {
		if s.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("active sessions = %d, want exactly 1", active)
	}
}

func TestSessionProjections(t *testing.T) {
	ctx := context.Background()
	svc, user, _ := newSessionEnv(t)

	// No active session yet: projections are nil, not errors.
	cookies, err := svc.Cookies(ctx, user.ID)
	if err != nil || cookies != nil {
		t.Errorf("Cookies with no session = %+v, %v, want nil, nil", cookies, err)
	}
	view, err := svc.WalletView(ctx, user.ID)
	if err != nil || view != nil {
		t.Errorf("WalletView with no session = %+v, %v, want nil, nil", view, err)
	}

	cf := "cf-value"
	in := sessionInput(user.ID, "hash-1")
	in.CfClearance = &cf
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cookies, err = svc.Cookies(ctx, user.ID)
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if cookies.StelSSID != "ssid-hash-1" || cookies.StelToken != "token" {
		t.Errorf("cookies = %+v", cookies)
	}
	if cookies.CfClearance == nil || *cookies.CfClearance != "cf-value" {
		t.Errorf("CfClearance = %v, want cf-value", cookies.CfClearance)
	}

	view, err = svc.WalletView(ctx, user.ID)
	if err != nil {
		t.Fatalf("WalletView: %v", err)
	}
	if view.FragmentHash != "hash-1" || view.FragmentAddress != "0:abc" {
		t.Errorf("wallet view = %+v", view)
	}
}

func TestSessionUpdate(t *testing.T) {
	ctx := context.Background()
	svc, user, _ := newSessionEnv(t)

	first, err := svc.Create(ctx, sessionInput(user.ID, "hash-1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(ctx, sessionInput(user.ID, "hash-2"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(ctx, first.ID, models.FragmentSessionUpdate{}); !apperr.IsNoFields(err) {
		t.Errorf("empty update: err = %v, want no fields", err)
	}

	// Activating through update demotes the other session.
	activeTrue := true
	updated, err := svc.Update(ctx, first.ID, models.FragmentSessionUpdate{IsActive: &activeTrue})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.IsActive {
		t.Error("updated session not active")
	}
	got, err := svc.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.IsActive {
		t.Error("both sessions active after update")
	}

	hash := "hash-1b"
	updated, err = svc.Update(ctx, first.ID, models.FragmentSessionUpdate{FragmentHash: &hash})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.FragmentHash != "hash-1b" {
		t.Errorf("FragmentHash = %q, want hash-1b", updated.FragmentHash)
	}
	if !updated.DateUpdated.After(first.DateUpdated) && !updated.DateUpdated.Equal(first.DateUpdated) {
		t.Error("DateUpdated went backwards")
	}
}

func TestSessionGetByHash(t *testing.T) {
	ctx := context.Background()
	svc, user, _ := newSessionEnv(t)

	created, err := svc.Create(ctx, sessionInput(user.ID, "hash-1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.GetByHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %d, want %d", got.ID, created.ID)
	}

	if _, err := svc.GetByHash(ctx, "missing"); !apperr.IsNotFound(err) {
		t.Errorf("unknown hash: err = %v, want not found", err)
	}
}

func TestSessionDelete(t *testing.T) {
	ctx := context.Background()
	svc, user, _ := newSessionEnv(t)

	created, err := svc.Create(ctx, sessionInput(user.ID, "hash-1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !apperr.IsNotFound(err) {
		t.Errorf("double delete: err = %v, want not found", err)
	}

	active, err := svc.GetActiveForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetActiveForUser: %v", err)
	}
	if active != nil {
		t.Errorf("active after delete = %+v, want nil", active)
	}
}
