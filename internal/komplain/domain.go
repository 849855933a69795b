package komplain

import "time"

// Komplain is a complaint record raised by a branch or division.
type Komplain struct {
	ID         int64      `json:"id"`
	Judul      string     `json:"judul"`
	Isi        string     `json:"isi"`
	Prioritas  string     `json:"prioritas"`
	Status     string     `json:"status"`
	ReporterID int64      `json:"id_pelapor"`
	AssigneeID *int64     `json:"id_penerima,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
