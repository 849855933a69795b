package tugas

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

const columns = `id, judul, deskripsi, id_penerima, jatuh_tempo, status, dibuat_oleh, created_at, updated_at`

func scan(row pgx.Row) (Tugas, error) {
	var t Tugas
	err := row.Scan(&t.ID, &t.Judul, &t.Deskripsi, &t.AssigneeID, &t.DueDate, &t.Status, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// List returns a page of tasks, newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Tugas, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tugas`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM tugas ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Tugas
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// Get fetches one task by id.
func (r *Repository) Get(ctx context.Context, id int64) (Tugas, error) {
	t, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM tugas WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tugas{}, shared.ErrNotFound
		}
		return Tugas{}, err
	}
	return t, nil
}

// Create inserts a new task.
func (r *Repository) Create(ctx context.Context, t Tugas) (Tugas, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO tugas (judul, deskripsi, id_penerima, jatuh_tempo, status, dibuat_oleh) VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+columns,
		t.Judul, t.Deskripsi, t.AssigneeID, t.DueDate, t.Status, t.CreatedBy)
	return scan(row)
}

// Update rewrites an existing task.
func (r *Repository) Update(ctx context.Context, t Tugas) (Tugas, error) {
	row := r.pool.QueryRow(ctx, `UPDATE tugas SET judul = $2, deskripsi = $3, id_penerima = $4, jatuh_tempo = $5, status = $6, updated_at = NOW() WHERE id = $1 RETURNING `+columns,
		t.ID, t.Judul, t.Deskripsi, t.AssigneeID, t.DueDate, t.Status)
	updated, err := scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tugas{}, shared.ErrNotFound
		}
		return Tugas{}, err
	}
	return updated, nil
}

// Delete removes a task.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tugas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
