package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the summary count queries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// OpenKomplainCount counts complaints not yet resolved or closed.
func (r *Repository) OpenKomplainCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM komplains WHERE status IN ('open', 'in_progress')`).Scan(&n)
	return n, err
}

// PendingTugasCount counts tasks not yet done.
func (r *Repository) PendingTugasCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tugas WHERE status IN ('pending', 'in_progress')`).Scan(&n)
	return n, err
}
