package users

import "time"

// User represents a dashboard account for management.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Nama      string    `json:"nama"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
