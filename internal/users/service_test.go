package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/quotedesk/internal/shared"
)

type mockRepository struct {
	users  map[int64]UserProfile
	hashes map[int64]string
	nextID int64
}

func newMockRepository(seed ...UserProfile) *mockRepository {
	m := &mockRepository{users: make(map[int64]UserProfile), hashes: make(map[int64]string), nextID: 100}
	for _, u := range seed {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockRepository) ListUsers(ctx context.Context, page, perPage int) ([]UserProfile, int, error) {
	out := []UserProfile{}
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *mockRepository) GetUser(ctx context.Context, id int64) (UserProfile, error) {
	u, ok := m.users[id]
	if !ok {
		return UserProfile{}, fmt.Errorf("user: %w", shared.ErrNotFound)
	}
	return u, nil
}

func (m *mockRepository) CreateUser(ctx context.Context, email, name, hash string, role shared.Role) (UserProfile, error) {
	for _, u := range m.users {
		if u.Email == email {
			return UserProfile{}, ErrEmailTaken
		}
	}
	u := UserProfile{ID: m.nextID, Email: email, Name: name, Role: role, IsActive: true}
	m.nextID++
	m.users[u.ID] = u
	m.hashes[u.ID] = hash
	return u, nil
}

func (m *mockRepository) UpdateRole(ctx context.Context, id int64, role shared.Role) (UserProfile, error) {
	u, ok := m.users[id]
	if !ok {
		return UserProfile{}, fmt.Errorf("user: %w", shared.ErrNotFound)
	}
	u.Role = role
	m.users[id] = u
	return u, nil
}

var (
	admin = shared.Actor{ID: 1, Name: "Asha", Role: shared.RoleAdmin}
	staff = shared.Actor{ID: 2, Name: "Ravi", Role: shared.RoleUser}
)

func newTestService(repo RepositoryPort) *Service {
	svc := NewService(repo, nil)
	svc.cost = bcrypt.MinCost
	return svc
}

func seeded() *mockRepository {
	return newMockRepository(
		UserProfile{ID: 1, Email: "asha@example.com", Name: "Asha", Role: shared.RoleAdmin, IsActive: true},
		UserProfile{ID: 2, Email: "ravi@example.com", Name: "Ravi", Role: shared.RoleUser, IsActive: true},
	)
}

func TestSetRole(t *testing.T) {
	repo := seeded()
	svc := newTestService(repo)
	ctx := context.Background()

	u, err := svc.SetRole(ctx, admin, 2, shared.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, shared.RoleAdmin, u.Role)

	u, err = svc.SetRole(ctx, admin, 2, shared.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, shared.RoleUser, u.Role)
}

func TestSetRoleRequiresAdmin(t *testing.T) {
	repo := seeded()
	svc := newTestService(repo)

	_, err := svc.SetRole(context.Background(), staff, 2, shared.RoleAdmin)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Equal(t, shared.RoleUser, repo.users[2].Role)
}

func TestSetRoleRefusesSelfDemotion(t *testing.T) {
	repo := seeded()
	svc := newTestService(repo)

	_, err := svc.SetRole(context.Background(), admin, admin.ID, shared.RoleUser)
	assert.ErrorIs(t, err, ErrSelfDemotion)
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Equal(t, shared.RoleAdmin, repo.users[1].Role)
}

func TestSetRoleValidation(t *testing.T) {
	svc := newTestService(seeded())
	_, err := svc.SetRole(context.Background(), admin, 2, "owner")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.SetRole(context.Background(), admin, 99, shared.RoleAdmin)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProfileVisibility(t *testing.T) {
	svc := newTestService(seeded())
	ctx := context.Background()

	u, err := svc.Profile(ctx, staff, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", u.Email)

	_, err = svc.Profile(ctx, staff, admin.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.Profile(ctx, admin, staff.ID)
	require.NoError(t, err)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := seeded()
	svc := newTestService(repo)

	u, err := svc.CreateUser(context.Background(), admin, CreateUserRequest{
		Email:    " Meena@Example.com ",
		Name:     "Meena",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "meena@example.com", u.Email)
	assert.Equal(t, shared.RoleUser, u.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[u.ID]), []byte("s3cret-pass")))

	_, err = svc.CreateUser(context.Background(), admin, CreateUserRequest{Email: "meena@example.com", Name: "M", Password: "another-pass"})
	assert.ErrorIs(t, err, shared.ErrConflict)

	_, err = svc.CreateUser(context.Background(), staff, CreateUserRequest{Email: "x@example.com", Name: "X", Password: "another-pass"})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.CreateUser(context.Background(), admin, CreateUserRequest{Email: "y@example.com", Name: "Y", Password: "short"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
