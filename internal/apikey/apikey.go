// Package apikey generates opaque subscription keys of the form
// prefix:12345:9f86d081, with a 5-digit random number and a 4-byte
// random hex suffix, both from crypto/rand.
package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// MaxAttempts bounds the collision retry loop around Generate. The key
// space makes collisions astronomically unlikely; the bound exists so a
// broken uniqueness check cannot spin forever.
const MaxAttempts = 10

func Generate(prefix string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", fmt.Errorf("random number: %w", err)
	}
	num := n.Int64() + 10000 // 10000..99999

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}

	return fmt.Sprintf("%s:%d:%s", prefix, num, hex.EncodeToString(suffix)), nil
}
