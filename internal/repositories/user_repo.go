package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/models"
)

const userColumns = "id, username, password_hash, is_banned, date_joined"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsBanned, &u.DateJoined)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING `+userColumns,
		username, passwordHash))
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY date_joined DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsBanned, &u.DateJoined); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update applies a partial update. The caller has already hashed the
// password; upd.Password here is the digest.
func (r *UserRepo) Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	set := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if upd.Username != nil {
		args = append(args, *upd.Username)
		set = append(set, fmt.Sprintf("username = $%d", len(args)))
	}
	if upd.Password != nil {
		args = append(args, *upd.Password)
		set = append(set, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	if upd.IsBanned != nil {
		args = append(args, *upd.IsBanned)
		set = append(set, fmt.Sprintf("is_banned = $%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		joinSet(set), len(args), userColumns)

	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

func (r *UserRepo) SetBan(ctx context.Context, id int64, banned bool) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET is_banned = $1 WHERE id = $2
		RETURNING `+userColumns,
		banned, id))
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
