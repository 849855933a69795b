package poskas

import (
	"context"
	"testing"
	"time"

	"github.com/pandawa-internal/pandawa/internal/shared"
	_ "github.com/pandawa-internal/pandawa/testing"
)

type mockRepo struct {
	postings map[int64]*Poskas
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{postings: make(map[int64]*Poskas), nextID: 1}
}

func (m *mockRepo) ListMonth(ctx context.Context, from, to time.Time) ([]Poskas, error) {
	var out []Poskas
	for _, p := range m.postings {
		if !p.Tanggal.Before(from) && p.Tanggal.Before(to) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepo) SumMonth(ctx context.Context, from, to time.Time) (int64, error) {
	items, _ := m.ListMonth(ctx, from, to)
	var total int64
	for _, p := range items {
		total += p.Jumlah
	}
	return total, nil
}

func (m *mockRepo) Get(ctx context.Context, id int64) (Poskas, error) {
	p, ok := m.postings[id]
	if !ok {
		return Poskas{}, shared.ErrNotFound
	}
	return *p, nil
}

func (m *mockRepo) Create(ctx context.Context, p Poskas) (Poskas, error) {
	p.ID = m.nextID
	m.postings[m.nextID] = &p
	m.nextID++
	return p, nil
}

func (m *mockRepo) Update(ctx context.Context, p Poskas) (Poskas, error) {
	if _, ok := m.postings[p.ID]; !ok {
		return Poskas{}, shared.ErrNotFound
	}
	m.postings[p.ID] = &p
	return p, nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.postings[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.postings, id)
	return nil
}

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1250000, "Rp 1.250.000"},
		{75000000, "Rp 75.000.000"},
	}
	for _, tc := range cases {
		if got := FormatRupiah(tc.amount); got != tc.want {
			t.Fatalf("FormatRupiah(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	from, to := MonthBounds(2026, time.December)
	if !from.Equal(time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from: %s", from)
	}
	if !to.Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("December upper bound must roll into January: %s", to)
	}
}

func TestListMonthTotals(t *testing.T) {
	repo := newMockRepo()
	service := NewService(repo, nil)

	ctx := context.Background()
	for day, amount := range map[int]int64{3: 1000000, 15: 250000} {
		_, err := service.Create(ctx, 7, Poskas{
			Tanggal: time.Date(2026, time.August, day, 0, 0, 0, 0, time.UTC),
			Jumlah:  amount,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	// A posting outside the month must not count.
	if _, err := service.Create(ctx, 7, Poskas{
		Tanggal: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		Jumlah:  999,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, total, err := service.ListMonth(ctx, 2026, time.August)
	if err != nil {
		t.Fatalf("list month: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(items))
	}
	if total != 1250000 {
		t.Fatalf("expected total 1250000, got %d", total)
	}
	for _, item := range items {
		if item.JumlahDisplay == "" {
			t.Fatalf("expected formatted amount on %+v", item)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	service := NewService(newMockRepo(), nil)

	ctx := context.Background()
	if _, err := service.Create(ctx, 7, Poskas{Tanggal: time.Now(), Jumlah: 0}); err == nil {
		t.Fatalf("expected rejection of non-positive amount")
	}
	if _, err := service.Create(ctx, 7, Poskas{Jumlah: 1000}); err == nil {
		t.Fatalf("expected rejection of missing date")
	}
}

func TestCreateStampsSubmitter(t *testing.T) {
	repo := newMockRepo()
	service := NewService(repo, nil)

	created, err := service.Create(context.Background(), 42, Poskas{
		Tanggal:     time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		Jumlah:      5000,
		SubmitterID: 999,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.SubmitterID != 42 {
		t.Fatalf("submitter must come from the session, got %d", created.SubmitterID)
	}
}
