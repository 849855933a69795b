package poskas

import (
	"context"
	"errors"
	"time"

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

const columns = `id, tanggal, jumlah, keterangan, id_penyetor, created_at, updated_at`

func scan(row pgx.Row) (Poskas, error) {
	var p Poskas
	err := row.Scan(&p.ID, &p.Tanggal, &p.Jumlah, &p.Keterangan, &p.SubmitterID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListMonth returns all postings within [from, to), oldest first.
func (r *Repository) ListMonth(ctx context.Context, from, to time.Time) ([]Poskas, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM poskas WHERE tanggal >= $1 AND tanggal < $2 ORDER BY tanggal, id`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Poskas
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SumMonth totals postings within [from, to).
func (r *Repository) SumMonth(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(jumlah), 0) FROM poskas WHERE tanggal >= $1 AND tanggal < $2`, from, to).Scan(&total)
	return total, err
}

// Get fetches one posting by id.
func (r *Repository) Get(ctx context.Context, id int64) (Poskas, error) {
	p, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM poskas WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Poskas{}, shared.ErrNotFound
		}
		return Poskas{}, err
	}
	return p, nil
}

// Create inserts a new posting.
func (r *Repository) Create(ctx context.Context, p Poskas) (Poskas, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO poskas (tanggal, jumlah, keterangan, id_penyetor) VALUES ($1, $2, $3, $4) RETURNING `+columns,
		p.Tanggal, p.Jumlah, p.Keterangan, p.SubmitterID)
	return scan(row)
}

// Update rewrites an existing posting.
func (r *Repository) Update(ctx context.Context, p Poskas) (Poskas, error) {
	row := r.pool.QueryRow(ctx, `UPDATE poskas SET tanggal = $2, jumlah = $3, keterangan = $4, updated_at = NOW() WHERE id = $1 RETURNING `+columns,
		p.ID, p.Tanggal, p.Jumlah, p.Keterangan)
	updated, err := scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Poskas{}, shared.ErrNotFound
		}
		return Poskas{}, err
	}
	return updated, nil
}

// Delete removes a posting.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM poskas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
