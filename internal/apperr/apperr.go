// Package apperr defines the error kinds the service layer reports to
// its callers. HTTP handlers translate them to status codes; nothing in
// this package is transport-shaped.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a referenced id or key does not resolve to a live row.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a uniqueness or one-to-one cardinality rule was violated.
	ErrConflict = errors.New("conflict")

	// ErrNoFields: an update was requested with an empty field set.
	ErrNoFields = errors.New("no fields to update")

	// ErrKeyExhausted: API key generation ran out of attempts.
	ErrKeyExhausted = errors.New("could not generate unique api key")
)

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func Conflict(what string) error {
	return fmt.Errorf("%s: %w", what, ErrConflict)
}

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool     { return errors.Is(err, ErrConflict) }
func IsNoFields(err error) bool     { return errors.Is(err, ErrNoFields) }
func IsKeyExhausted(err error) bool { return errors.Is(err, ErrKeyExhausted) }
