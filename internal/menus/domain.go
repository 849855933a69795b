package menus

import "time"

// MenuAssignment grants one user access to one named menu. Soft-deleted
// records stay in storage but never grant anything.
type MenuAssignment struct {
	ID            int64     `json:"id"`
	Nama          string    `json:"nama"`
	Link          string    `json:"link"`
	UserID        int64     `json:"id_user"`
	StatusDeleted bool      `json:"status_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
