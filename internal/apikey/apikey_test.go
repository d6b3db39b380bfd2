package apikey

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestGenerateFormat(t *testing.T) {
	format := regexp.MustCompile(`^miral:\d{5}:[0-9a-f]{8}$`)

	for i := 0; i < 200; i++ {
		key, err := Generate("miral")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !format.MatchString(key) {
			t.Fatalf("key %q does not match prefix:ddddd:hhhhhhhh", key)
		}

		parts := strings.Split(key, ":")
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			t.Fatalf("numeric part %q: %v", parts[1], err)
		}
		if n < 10000 || n > 99999 {
			t.Fatalf("numeric part %d out of range [10000, 99999]", n)
		}
	}
}

func TestGeneratePrefix(t *testing.T) {
	key, err := Generate("custom")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(key, "custom:") {
		t.Errorf("key %q missing prefix", key)
	}
}

func TestGenerateDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key, err := Generate("miral")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if seen[key] {
			t.Fatalf("duplicate key %q after %d generations", key, i)
		}
		seen[key] = true
	}
}
