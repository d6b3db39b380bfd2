package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/models"
)

const walletColumns = "id, subscription_id, user_id, address, mnemonics, public_key, private_key, ton_api_key, workchain, version, date_created"

type WalletRepo struct {
	pool *pgxpool.Pool
}

func NewWalletRepo(pool *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

func scanWallet(row interface{ Scan(...any) error }) (*models.Wallet, error) {
	var w models.Wallet
	err := row.Scan(&w.ID, &w.SubscriptionID, &w.UserID, &w.Address, &w.Mnemonics,
		&w.PublicKey, &w.PrivateKey, &w.TonAPIKey, &w.Workchain, &w.Version, &w.DateCreated)
	if err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

// Create relies on the unique constraint on subscription_id: a lost
// race between two binds for the same subscription comes back as a
// conflict, not a second wallet.
func (r *WalletRepo) Create(ctx context.Context, w *models.Wallet) (*models.Wallet, error) {
	return scanWallet(r.pool.QueryRow(ctx, `
		INSERT INTO wallets (subscription_id, user_id, address, mnemonics, public_key, private_key, ton_api_key, workchain, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+walletColumns,
		w.SubscriptionID, w.UserID, w.Address, w.Mnemonics, w.PublicKey,
		w.PrivateKey, w.TonAPIKey, w.Workchain, w.Version))
}

func (r *WalletRepo) GetByID(ctx context.Context, id int64) (*models.Wallet, error) {
	return scanWallet(r.pool.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id))
}

func (r *WalletRepo) GetByAddress(ctx context.Context, addr string) (*models.Wallet, error) {
	return scanWallet(r.pool.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE address = $1`, addr))
}

func (r *WalletRepo) GetBySubscription(ctx context.Context, subscriptionID int64) (*models.Wallet, error) {
	return scanWallet(r.pool.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE subscription_id = $1`, subscriptionID))
}

func (r *WalletRepo) ExistsForSubscription(ctx context.Context, subscriptionID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wallets WHERE subscription_id = $1)`, subscriptionID).Scan(&exists)
	return exists, err
}

func (r *WalletRepo) List(ctx context.Context) ([]models.Wallet, error) {
	return r.list(ctx, `SELECT `+walletColumns+` FROM wallets ORDER BY date_created DESC`)
}

func (r *WalletRepo) ListByUser(ctx context.Context, userID int64) ([]models.Wallet, error) {
	return r.list(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 ORDER BY date_created DESC`, userID)
}

func (r *WalletRepo) list(ctx context.Context, query string, args ...any) ([]models.Wallet, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		var w models.Wallet
		if err := rows.Scan(&w.ID, &w.SubscriptionID, &w.UserID, &w.Address, &w.Mnemonics,
			&w.PublicKey, &w.PrivateKey, &w.TonAPIKey, &w.Workchain, &w.Version, &w.DateCreated); err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *WalletRepo) Update(ctx context.Context, id int64, upd models.WalletUpdate) (*models.Wallet, error) {
	set := make([]string, 0, 7)
	args := make([]any, 0, 8)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.Mnemonics != nil {
		add("mnemonics", *upd.Mnemonics)
	}
	if upd.PublicKey != nil {
		add("public_key", *upd.PublicKey)
	}
	if upd.PrivateKey != nil {
		add("private_key", *upd.PrivateKey)
	}
	if upd.TonAPIKey != nil {
		add("ton_api_key", *upd.TonAPIKey)
	}
	if upd.Workchain != nil {
		add("workchain", *upd.Workchain)
	}
	if upd.Version != nil {
		add("version", *upd.Version)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE wallets SET %s WHERE id = $%d RETURNING %s",
		joinSet(set), len(args), walletColumns)

	return scanWallet(r.pool.QueryRow(ctx, query, args...))
}

func (r *WalletRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *WalletRepo) Stats(ctx context.Context) (*models.WalletStats, error) {
	stats := &models.WalletStats{
		ByUser:    make(map[string]int64),
		ByProduct: make(map[string]int64),
	}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM wallets`).Scan(&stats.Total); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT u.username, count(*)
		FROM wallets w JOIN users u ON w.user_id = u.id
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	productRows, err := r.pool.Query(ctx, `
		SELECT s.product, count(*)
		FROM wallets w JOIN subscriptions s ON w.subscription_id = s.id
		GROUP BY s.product
	`)
	if err != nil {
		return nil, err
	}
	defer productRows.Close()
	for productRows.Next() {
		var product string
		var count int64
		if err := productRows.Scan(&product, &count); err != nil {
			return nil, err
		}
		stats.ByProduct[product] = count
	}
	return stats, productRows.Err()
}
