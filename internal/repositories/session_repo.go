package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/models"
)

const sessionColumns = "id, user_id, fragment_hash, fragment_public_key, fragment_wallets, fragment_address, stel_ssid, stel_dt, stel_ton_token, stel_token, cf_clearance, is_active, date_created, date_updated"

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func scanSession(row interface{ Scan(...any) error }) (*models.FragmentSession, error) {
	var s models.FragmentSession
	err := row.Scan(&s.ID, &s.UserID, &s.FragmentHash, &s.FragmentPublicKey,
		&s.FragmentWallets, &s.FragmentAddress, &s.StelSSID, &s.StelDT,
		&s.StelTonToken, &s.StelToken, &s.CfClearance, &s.IsActive,
		&s.DateCreated, &s.DateUpdated)
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// CreateActive inserts a new session as the user's only active one. The
// deactivate and insert run in one transaction; the partial unique
// index on (user_id) WHERE is_active rejects whichever concurrent
// writer loses the race.
func (r *SessionRepo) CreateActive(ctx context.Context, s *models.FragmentSession) (*models.FragmentSession, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := deactivateSessions(ctx, tx, s.UserID); err != nil {
		return nil, err
	}

	created, err := scanSession(tx.QueryRow(ctx, `
		INSERT INTO fragment_sessions (user_id, fragment_hash, fragment_public_key, fragment_wallets, fragment_address, stel_ssid, stel_dt, stel_ton_token, stel_token, cf_clearance, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true)
		RETURNING `+sessionColumns,
		s.UserID, s.FragmentHash, s.FragmentPublicKey, s.FragmentWallets,
		s.FragmentAddress, s.StelSSID, s.StelDT, s.StelTonToken, s.StelToken, s.CfClearance))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// Activate makes the given session the only active one for its owner,
// atomically.
func (r *SessionRepo) Activate(ctx context.Context, id int64) (*models.FragmentSession, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx,
		`SELECT user_id FROM fragment_sessions WHERE id = $1 FOR UPDATE`, id).Scan(&userID)
	if err != nil {
		return nil, translate(err)
	}

	if err := deactivateSessions(ctx, tx, userID); err != nil {
		return nil, err
	}

	activated, err := scanSession(tx.QueryRow(ctx, `
		UPDATE fragment_sessions SET is_active = true, date_updated = now()
		WHERE id = $1
		RETURNING `+sessionColumns, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return activated, nil
}

func deactivateSessions(ctx context.Context, tx pgx.Tx, userID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE fragment_sessions SET is_active = false, date_updated = now()
		WHERE user_id = $1 AND is_active
	`, userID)
	return err
}

func (r *SessionRepo) GetByID(ctx context.Context, id int64) (*models.FragmentSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM fragment_sessions WHERE id = $1`, id))
}

func (r *SessionRepo) GetByHash(ctx context.Context, hash string) (*models.FragmentSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM fragment_sessions WHERE fragment_hash = $1`, hash))
}

func (r *SessionRepo) GetActiveByUser(ctx context.Context, userID int64) (*models.FragmentSession, error) {
	return scanSession(r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+` FROM fragment_sessions
		WHERE user_id = $1 AND is_active
		ORDER BY date_created DESC LIMIT 1
	`, userID))
}

func (r *SessionRepo) List(ctx context.Context) ([]models.FragmentSession, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM fragment_sessions ORDER BY date_created DESC`)
}

func (r *SessionRepo) ListByUser(ctx context.Context, userID int64) ([]models.FragmentSession, error) {
	return r.list(ctx,
		`SELECT `+sessionColumns+` FROM fragment_sessions WHERE user_id = $1 ORDER BY date_created DESC`,
		userID)
}

func (r *SessionRepo) list(ctx context.Context, query string, args ...any) ([]models.FragmentSession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.FragmentSession
	for rows.Next() {
		var s models.FragmentSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.FragmentHash, &s.FragmentPublicKey,
			&s.FragmentWallets, &s.FragmentAddress, &s.StelSSID, &s.StelDT,
			&s.StelTonToken, &s.StelToken, &s.CfClearance, &s.IsActive,
			&s.DateCreated, &s.DateUpdated); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Update applies a partial update. Setting IsActive to true goes
// through the same deactivate-first transaction as Activate so the
// single-active invariant holds.
func (r *SessionRepo) Update(ctx context.Context, id int64, upd models.FragmentSessionUpdate) (*models.FragmentSession, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if upd.IsActive != nil && *upd.IsActive {
		var userID int64
		err = tx.QueryRow(ctx,
			`SELECT user_id FROM fragment_sessions WHERE id = $1 FOR UPDATE`, id).Scan(&userID)
		if err != nil {
			return nil, translate(err)
		}
		if err := deactivateSessions(ctx, tx, userID); err != nil {
			return nil, err
		}
	}

	set := make([]string, 0, 10)
	args := make([]any, 0, 11)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.FragmentHash != nil {
		add("fragment_hash", *upd.FragmentHash)
	}
	if upd.FragmentPublicKey != nil {
		add("fragment_public_key", *upd.FragmentPublicKey)
	}
	if upd.FragmentWallets != nil {
		add("fragment_wallets", *upd.FragmentWallets)
	}
	if upd.FragmentAddress != nil {
		add("fragment_address", *upd.FragmentAddress)
	}
	if upd.StelSSID != nil {
		add("stel_ssid", *upd.StelSSID)
	}
	if upd.StelDT != nil {
		add("stel_dt", *upd.StelDT)
	}
	if upd.StelTonToken != nil {
		add("stel_ton_token", *upd.StelTonToken)
	}
	if upd.StelToken != nil {
		add("stel_token", *upd.StelToken)
	}
	if upd.CfClearance != nil {
		add("cf_clearance", *upd.CfClearance)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}

	set = append(set, "date_updated = now()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE fragment_sessions SET %s WHERE id = $%d RETURNING %s",
		joinSet(set), len(args), sessionColumns)

	updated, err := scanSession(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM fragment_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *SessionRepo) Stats(ctx context.Context) (*models.SessionStats, error) {
	stats := &models.SessionStats{ByUser: make(map[string]int64)}

	err := r.pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE is_active)
		FROM fragment_sessions
	`).Scan(&stats.Total, &stats.Active)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT u.username, count(*)
		FROM fragment_sessions fs JOIN users u ON fs.user_id = u.id
		GROUP BY u.username ORDER BY count(*) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var username string
		var count int64
		if err := rows.Scan(&username, &count); err != nil {
			return nil, err
		}
		stats.ByUser[username] = count
	}
	return stats, rows.Err()
}
