package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pandawa-internal/pandawa/internal/shared"
	_ "github.com/pandawa-internal/pandawa/testing"
)

type mockRepo struct {
	users       map[int64]*User
	byUsername  map[string]int64
	nextID      int64
	lastHash    string
	passwordFor map[int64]string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:       make(map[int64]*User),
		byUsername:  make(map[string]int64),
		passwordFor: make(map[int64]string),
		nextID:      1,
	}
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockRepo) Get(ctx context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return *u, nil
}

func (m *mockRepo) Create(ctx context.Context, username, nama, role, passwordHash string) (User, error) {
	if _, exists := m.byUsername[username]; exists {
		return User{}, shared.ErrDuplicate
	}
	u := &User{ID: m.nextID, Username: username, Nama: nama, Role: role, IsActive: true}
	m.users[m.nextID] = u
	m.byUsername[username] = m.nextID
	m.passwordFor[m.nextID] = passwordHash
	m.lastHash = passwordHash
	m.nextID++
	return *u, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, nama, role string) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	u.Nama, u.Role = nama, role
	return *u, nil
}

func (m *mockRepo) UpdateNama(ctx context.Context, id int64, nama string) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	u.Nama = nama
	return *u, nil
}

func (m *mockRepo) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	m.passwordFor[id] = passwordHash
	m.lastHash = passwordHash
	return nil
}

func (m *mockRepo) SetActive(ctx context.Context, id int64, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newMockRepo()
	service := NewService(repo, nil)

	created, err := service.Create(context.Background(), 1, "tina", "Tina Divisi", "divisi", "rahasia123")
	require.NoError(t, err)
	require.True(t, created.IsActive)
	require.NotEqual(t, "rahasia123", repo.lastHash, "password must never be stored in clear")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.lastHash), []byte("rahasia123")))
}

func TestCreateRejectsShortPassword(t *testing.T) {
	service := NewService(newMockRepo(), nil)

	_, err := service.Create(context.Background(), 1, "tina", "Tina", "divisi", "pendek")
	require.Error(t, err)
}

func TestCreateDuplicateUsername(t *testing.T) {
	service := NewService(newMockRepo(), nil)

	ctx := context.Background()
	_, err := service.Create(ctx, 1, "tina", "Tina", "divisi", "rahasia123")
	require.NoError(t, err)
	_, err = service.Create(ctx, 1, "tina", "Tina Lain", "divisi", "rahasia123")
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestDeactivateKeepsRecord(t *testing.T) {
	repo := newMockRepo()
	service := NewService(repo, nil)

	ctx := context.Background()
	created, err := service.Create(ctx, 1, "tina", "Tina", "divisi", "rahasia123")
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, 1, created.ID))

	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestUpdateProfileOptionalPassword(t *testing.T) {
	repo := newMockRepo()
	service := NewService(repo, nil)

	ctx := context.Background()
	created, err := service.Create(ctx, 1, "tina", "Tina", "divisi", "rahasia123")
	require.NoError(t, err)
	firstHash := repo.passwordFor[created.ID]

	updated, err := service.UpdateProfile(ctx, created.ID, "Tina Baru", "")
	require.NoError(t, err)
	require.Equal(t, "Tina Baru", updated.Nama)
	require.Equal(t, firstHash, repo.passwordFor[created.ID], "empty password must leave the hash alone")

	_, err = service.UpdateProfile(ctx, created.ID, "Tina Baru", "gantibaru99")
	require.NoError(t, err)
	require.NotEqual(t, firstHash, repo.passwordFor[created.ID])
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.passwordFor[created.ID]), []byte("gantibaru99")))

	_, err = service.UpdateProfile(ctx, created.ID, "Tina Baru", "cepat")
	require.Error(t, err, "short replacement password must be rejected")
}
