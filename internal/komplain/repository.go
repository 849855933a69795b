package komplain

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

const columns = `id, judul, isi, prioritas, status, id_pelapor, id_penerima, created_at, updated_at, resolved_at`

func scan(row pgx.Row) (Komplain, error) {
	var k Komplain
	err := row.Scan(&k.ID, &k.Judul, &k.Isi, &k.Prioritas, &k.Status, &k.ReporterID, &k.AssigneeID, &k.CreatedAt, &k.UpdatedAt, &k.ResolvedAt)
	return k, err
}

// List returns a page of complaints, newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Komplain, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM komplains`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM komplains ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Komplain
	for rows.Next() {
		k, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, k)
	}
	return out, total, rows.Err()
}

// Get fetches one complaint by id.
func (r *Repository) Get(ctx context.Context, id int64) (Komplain, error) {
	k, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM komplains WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Komplain{}, shared.ErrNotFound
		}
		return Komplain{}, err
	}
	return k, nil
}

// Create inserts a new complaint.
func (r *Repository) Create(ctx context.Context, k Komplain) (Komplain, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO komplains (judul, isi, prioritas, status, id_pelapor, id_penerima) VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+columns,
		k.Judul, k.Isi, k.Prioritas, k.Status, k.ReporterID, k.AssigneeID)
	return scan(row)
}

// Update rewrites an existing complaint.
func (r *Repository) Update(ctx context.Context, k Komplain) (Komplain, error) {
	row := r.pool.QueryRow(ctx, `UPDATE komplains SET judul = $2, isi = $3, prioritas = $4, status = $5, id_penerima = $6, resolved_at = $7, updated_at = NOW() WHERE id = $1 RETURNING `+columns,
		k.ID, k.Judul, k.Isi, k.Prioritas, k.Status, k.AssigneeID, k.ResolvedAt)
	updated, err := scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Komplain{}, shared.ErrNotFound
		}
		return Komplain{}, err
	}
	return updated, nil
}

// Delete removes a complaint.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM komplains WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
