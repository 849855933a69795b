package tugas

import "time"

// Tugas is a task assigned to a division member.
type Tugas struct {
	ID         int64      `json:"id"`
	Judul      string     `json:"judul"`
	Deskripsi  string     `json:"deskripsi"`
	AssigneeID int64      `json:"id_penerima"`
	DueDate    *time.Time `json:"jatuh_tempo,omitempty"`
	Status     string     `json:"status"`
	CreatedBy  int64      `json:"dibuat_oleh"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
