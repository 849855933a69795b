package menus

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandawa-internal/pandawa/internal/shared"
)

// Repository provides PostgreSQL backed persistence for menu assignments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const assignmentColumns = `id, nama, link, id_user, status_deleted, created_at, updated_at`

func scanAssignment(row pgx.Row) (MenuAssignment, error) {
	var a MenuAssignment
	err := row.Scan(&a.ID, &a.Nama, &a.Link, &a.UserID, &a.StatusDeleted, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// List returns all live assignments ordered by id.
func (r *Repository) List(ctx context.Context) ([]MenuAssignment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+assignmentColumns+` FROM pic_menus WHERE status_deleted = FALSE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MenuAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ActiveLinks returns the menu links assigned to a user, excluding
// soft-deleted records.
func (r *Repository) ActiveLinks(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT link FROM pic_menus WHERE id_user = $1 AND status_deleted = FALSE`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// Create inserts a new assignment.
func (r *Repository) Create(ctx context.Context, nama, link string, userID int64) (MenuAssignment, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO pic_menus (nama, link, id_user) VALUES ($1, $2, $3) RETURNING `+assignmentColumns, nama, link, userID)
	a, err := scanAssignment(row)
	if err != nil {
		return MenuAssignment{}, mapConstraint(err)
	}
	return a, nil
}

// Get returns one live assignment by id.
func (r *Repository) Get(ctx context.Context, id int64) (MenuAssignment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM pic_menus WHERE id = $1 AND status_deleted = FALSE`, id)
	a, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MenuAssignment{}, shared.ErrNotFound
		}
		return MenuAssignment{}, err
	}
	return a, nil
}

// Update rewrites an existing live assignment.
func (r *Repository) Update(ctx context.Context, id int64, nama, link string, userID int64) (MenuAssignment, error) {
	row := r.pool.QueryRow(ctx, `UPDATE pic_menus SET nama = $2, link = $3, id_user = $4, updated_at = NOW() WHERE id = $1 AND status_deleted = FALSE RETURNING `+assignmentColumns, id, nama, link, userID)
	a, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MenuAssignment{}, shared.ErrNotFound
		}
		return MenuAssignment{}, mapConstraint(err)
	}
	return a, nil
}

// SoftDelete flags an assignment as deleted and returns the owning user id
// so the caller can invalidate that user's permission snapshot.
func (r *Repository) SoftDelete(ctx context.Context, id int64) (int64, error) {
	row := r.pool.QueryRow(ctx, `UPDATE pic_menus SET status_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND status_deleted = FALSE RETURNING id_user`, id)
	var userID int64
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return userID, nil
}

// uq_pic_menus_user_link forbids assigning the same link to a user twice.
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
