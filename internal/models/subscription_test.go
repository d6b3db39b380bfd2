package models

import (
	"testing"
	"time"
)

func TestIsValidProduct(t *testing.T) {
	tests := []struct {
		product string
		want    bool
	}{
		{ProductFragment, true},
		{ProductItem2, true},
		{ProductItem3, true},
		{"fragment", false},
		{"", false},
		{"Stars", false},
	}
	for _, tt := range tests {
		if got := IsValidProduct(tt.product); got != tt.want {
			t.Errorf("IsValidProduct(%q) = %v, want %v", tt.product, got, tt.want)
		}
	}
}

func TestIsValidPlan(t *testing.T) {
	tests := []struct {
		plan string
		want bool
	}{
		{PlanTrial, true},
		{Plan1Month, true},
		{Plan3Month, true},
		{Plan1Year, true},
		{"1 month", false},
		{"2 Month", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidPlan(tt.plan); got != tt.want {
			t.Errorf("IsValidPlan(%q) = %v, want %v", tt.plan, got, tt.want)
		}
	}
}

func TestSubscriptionRevoked(t *testing.T) {
	s := &Subscription{}
	if s.Revoked() {
		t.Error("fresh subscription reports revoked")
	}
	now := time.Now()
	s.DateRevoked = &now
	if !s.Revoked() {
		t.Error("revoked subscription reports active")
	}
}

func TestUpdateDescriptorsEmpty(t *testing.T) {
	str := "x"
	b := true
	n := 1

	if !(UserUpdate{}).Empty() {
		t.Error("zero UserUpdate not empty")
	}
	if (UserUpdate{Username: &str}).Empty() {
		t.Error("UserUpdate with field reports empty")
	}

	if !(SubscriptionUpdate{}).Empty() {
		t.Error("zero SubscriptionUpdate not empty")
	}
	if (SubscriptionUpdate{Product: &str}).Empty() {
		t.Error("SubscriptionUpdate with field reports empty")
	}

	if !(WalletUpdate{}).Empty() {
		t.Error("zero WalletUpdate not empty")
	}
	if (WalletUpdate{Workchain: &n}).Empty() {
		t.Error("WalletUpdate with field reports empty")
	}

	if !(FragmentSessionUpdate{}).Empty() {
		t.Error("zero FragmentSessionUpdate not empty")
	}
	if (FragmentSessionUpdate{IsActive: &b}).Empty() {
		t.Error("FragmentSessionUpdate with field reports empty")
	}
}
