package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/models"
)

const subscriptionColumns = "id, user_id, product, plan, api_key, date_created, date_revoked"

type SubscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.Product, &s.Plan, &s.APIKey, &s.DateCreated, &s.DateRevoked)
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *SubscriptionRepo) Create(ctx context.Context, userID int64, product, plan, apiKey string) (*models.Subscription, error) {
	return scanSubscription(r.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (user_id, product, plan, api_key)
		VALUES ($1, $2, $3, $4)
		RETURNING `+subscriptionColumns,
		userID, product, plan, apiKey))
}

func (r *SubscriptionRepo) GetByID(ctx context.Context, id int64) (*models.Subscription, error) {
	return scanSubscription(r.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id))
}

func (r *SubscriptionRepo) GetByAPIKey(ctx context.Context, apiKey string) (*models.Subscription, error) {
	return scanSubscription(r.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE api_key = $1`, apiKey))
}

// KeyExists is the point lookup behind the key generation retry loop.
// excludeID skips the subscription's own row when regenerating; pass 0
// to check the whole table.
func (r *SubscriptionRepo) KeyExists(ctx context.Context, apiKey string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE api_key = $1 AND id != $2)`,
		apiKey, excludeID).Scan(&exists)
	return exists, err
}

func (r *SubscriptionRepo) List(ctx context.Context) ([]models.Subscription, error) {
	return r.list(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions ORDER BY date_created DESC`)
}

func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID int64) ([]models.Subscription, error) {
	return r.list(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1 ORDER BY date_created DESC`,
		userID)
}

func (r *SubscriptionRepo) list(ctx context.Context, query string, args ...any) ([]models.Subscription, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.Product, &s.Plan, &s.APIKey, &s.DateCreated, &s.DateRevoked); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *SubscriptionRepo) Update(ctx context.Context, id int64, upd models.SubscriptionUpdate) (*models.Subscription, error) {
	set := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if upd.Product != nil {
		args = append(args, *upd.Product)
		set = append(set, fmt.Sprintf("product = $%d", len(args)))
	}
	if upd.Plan != nil {
		args = append(args, *upd.Plan)
		set = append(set, fmt.Sprintf("plan = $%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE subscriptions SET %s WHERE id = $%d RETURNING %s",
		joinSet(set), len(args), subscriptionColumns)

	return scanSubscription(r.pool.QueryRow(ctx, query, args...))
}

// Revoke stamps date_revoked only when the row is not revoked yet, so a
// second revoke keeps the original timestamp.
func (r *SubscriptionRepo) Revoke(ctx context.Context, id int64) (*models.Subscription, error) {
	_, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET date_revoked = now() WHERE id = $1 AND date_revoked IS NULL`, id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *SubscriptionRepo) UpdateKey(ctx context.Context, id int64, apiKey string) (*models.Subscription, error) {
	return scanSubscription(r.pool.QueryRow(ctx, `
		UPDATE subscriptions SET api_key = $1 WHERE id = $2
		RETURNING `+subscriptionColumns,
		apiKey, id))
}

func (r *SubscriptionRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepo) Stats(ctx context.Context) (*models.SubscriptionStats, error) {
	stats := &models.SubscriptionStats{
		ByProduct: make(map[string]int64),
		ByPlan:    make(map[string]int64),
	}

	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE date_revoked IS NULL),
		       count(*) FILTER (WHERE date_revoked IS NOT NULL)
		FROM subscriptions
	`).Scan(&stats.Total, &stats.Active, &stats.Revoked)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT product, count(*) FROM subscriptions GROUP BY product`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var product string
		var count int64
		if err := rows.Scan(&product, &count); err != nil {
			return nil, err
		}
		stats.ByProduct[product] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	planRows, err := r.pool.Query(ctx, `SELECT plan, count(*) FROM subscriptions GROUP BY plan`)
	if err != nil {
		return nil, err
	}
	defer planRows.Close()
	for planRows.Next() {
		var plan string
		var count int64
		if err := planRows.Scan(&plan, &count); err != nil {
			return nil, err
		}
		stats.ByPlan[plan] = count
	}
	return stats, planRows.Err()
}
