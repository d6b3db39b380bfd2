package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stars-panel/backend/internal/apperr"
)

const uniqueViolation = "23505"

// translate maps pgx-level failures onto the error kinds the service
// layer understands. A unique-index rejection is how the schema closes
// check-then-insert races, so it surfaces as a conflict.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.ErrConflict
	}
	return err
}

func joinSet(set []string) string {
	return strings.Join(set, ", ")
}
