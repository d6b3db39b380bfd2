package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if digest == "secret123" {
		t.Fatal("digest equals raw password")
	}

	if !h.Compare("secret123", digest) {
		t.Error("correct password rejected")
	}
	if h.Compare("wrong", digest) {
		t.Error("wrong password accepted")
	}
	if h.Compare("secret123", "not-a-bcrypt-digest") {
		t.Error("garbage digest accepted")
	}
}

func TestBcryptHasherCostClamped(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of
	// failing at hash time.
	for _, cost := range []int{-1, 0, 99} {
		h := NewBcryptHasher(cost)
		if _, err := h.Hash("secret123"); err != nil {
			t.Errorf("cost %d: %v", cost, err)
		}
	}
}
