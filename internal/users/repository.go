package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandawa-internal/pandawa/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, username, nama, role, is_active, created_at, updated_at`

func scan(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Nama, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// List returns a page of accounts ordered by id.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// Get fetches one account by id.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	u, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// Create inserts a new account with a hashed password.
func (r *Repository) Create(ctx context.Context, username, nama, role, passwordHash string) (User, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO users (username, nama, role, password_hash, is_active) VALUES ($1, $2, $3, $4, TRUE) RETURNING `+columns,
		username, nama, role, passwordHash)
	u, err := scan(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, shared.ErrDuplicate
		}
		return User{}, err
	}
	return u, nil
}

// Update rewrites name and role.
func (r *Repository) Update(ctx context.Context, id int64, nama, role string) (User, error) {
	row := r.pool.QueryRow(ctx, `UPDATE users SET nama = $2, role = $3, updated_at = NOW() WHERE id = $1 RETURNING `+columns, id, nama, role)
	u, err := scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// UpdateNama rewrites the display name only (profile edit).
func (r *Repository) UpdateNama(ctx context.Context, id int64, nama string) (User, error) {
	row := r.pool.QueryRow(ctx, `UPDATE users SET nama = $2, updated_at = NOW() WHERE id = $1 RETURNING `+columns, id, nama)
	u, err := scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// SetPassword replaces the stored hash.
func (r *Repository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetActive toggles the active flag. Accounts are deactivated, never
// hard-deleted.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
