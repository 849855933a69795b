package poskas

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Poskas is a daily cash posting from a branch.
type Poskas struct {
	ID          int64     `json:"id"`
	Tanggal     time.Time `json:"tanggal"`
	Jumlah      int64     `json:"jumlah"`
	Keterangan  string    `json:"keterangan"`
	SubmitterID int64     `json:"id_penyetor"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount with Indonesian digit grouping for
// display fields ("Rp 1.250.000").
func FormatRupiah(amount int64) string {
	return rupiah.Sprintf("Rp %d", amount)
}

// Display is the wire shape of a posting with the formatted amount.
type Display struct {
	Poskas
	JumlahDisplay string `json:"jumlah_display"`
}

// ToDisplay attaches the formatted amount.
func ToDisplay(p Poskas) Display {
	return Display{Poskas: p, JumlahDisplay: FormatRupiah(p.Jumlah)}
}
