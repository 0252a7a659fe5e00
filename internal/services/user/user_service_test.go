package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memRepo struct {
	byID   map[int64]*User
	nextID int64
}

func newMemRepo(users ...*User) *memRepo {
	m := &memRepo{byID: map[int64]*User{}, nextID: 1}
	for _, u := range users {
		m.byID[u.ID] = u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) Create(_ context.Context, u *User) (*User, error) {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, ErrEmailTaken
		}
	}
	created := *u
	created.ID = m.nextID
	m.nextID++
	m.byID[created.ID] = &created
	return &created, nil
}

func (m *memRepo) ListVisible(_ context.Context, viewer *User) ([]*User, error) {
	out := []*User{}
	for _, u := range m.byID {
		if viewer.Role == RoleSuper || u.ID == viewer.ID || (u.CreatedBy != nil && *u.CreatedBy == viewer.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memRepo) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func ptr(v int64) *int64 { return &v }

func TestAuthenticate(t *testing.T) {
	repo := newMemRepo(&User{
		ID: 1, Email: "alice@agency.test", PasswordHash: hash(t, "Password123"),
		Role: RoleAdmin, IsActive: true,
	})
	s := NewUserService(repo)

	u, err := s.Authenticate(context.Background(), "alice@agency.test", "Password123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = s.Authenticate(context.Background(), "alice@agency.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = s.Authenticate(context.Background(), "nobody@agency.test", "Password123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticateRejectsDisabledAccount(t *testing.T) {
	repo := newMemRepo(&User{
		ID: 1, Email: "bob@agency.test", PasswordHash: hash(t, "Password123"),
		Role: RoleSales, IsActive: false,
	})
	s := NewUserService(repo)

	_, err := s.Authenticate(context.Background(), "bob@agency.test", "Password123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestCreateAnchorsAccountUnderActor(t *testing.T) {
	repo := newMemRepo(&User{ID: 2, Role: RoleAdmin, IsActive: true})
	s := NewUserService(repo)

	created, err := s.Create(context.Background(), 2, &CreateUserRequest{
		Name: "Carol", Email: "carol@agency.test", Password: "Password123", Role: RoleSales,
	})
	require.NoError(t, err)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, int64(2), *created.CreatedBy)
	assert.True(t, created.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("Password123")))
}

func TestCreateRejectsSalesActor(t *testing.T) {
	repo := newMemRepo(&User{ID: 3, Role: RoleSales, IsActive: true})
	s := NewUserService(repo)

	_, err := s.Create(context.Background(), 3, &CreateUserRequest{
		Name: "Dan", Email: "dan@agency.test", Password: "Password123", Role: RoleSales,
	})
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestOnlySuperCreatesSuper(t *testing.T) {
	repo := newMemRepo(
		&User{ID: 1, Role: RoleSuper, IsActive: true},
		&User{ID: 2, Role: RoleAdmin, IsActive: true},
	)
	s := NewUserService(repo)

	_, err := s.Create(context.Background(), 2, &CreateUserRequest{
		Name: "Eve", Email: "eve@agency.test", Password: "Password123", Role: RoleSuper,
	})
	assert.ErrorIs(t, err, ErrNotAllowed)

	created, err := s.Create(context.Background(), 1, &CreateUserRequest{
		Name: "Eve", Email: "eve@agency.test", Password: "Password123", Role: RoleSuper,
	})
	require.NoError(t, err)
	assert.Equal(t, RoleSuper, created.Role)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := newMemRepo(
		&User{ID: 1, Role: RoleSuper, IsActive: true},
		&User{ID: 2, Email: "taken@agency.test", Role: RoleSales, IsActive: true},
	)
	s := NewUserService(repo)

	_, err := s.Create(context.Background(), 1, &CreateUserRequest{
		Name: "Dup", Email: "taken@agency.test", Password: "Password123", Role: RoleSales,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSetActiveAdminLimitedToDirectChildren(t *testing.T) {
	repo := newMemRepo(
		&User{ID: 1, Role: RoleSuper, IsActive: true},
		&User{ID: 2, Role: RoleAdmin, CreatedBy: ptr(1), IsActive: true},
		&User{ID: 3, Role: RoleSales, CreatedBy: ptr(2), IsActive: true},
		&User{ID: 4, Role: RoleSales, CreatedBy: ptr(3), IsActive: true},
	)
	s := NewUserService(repo)

	// Direct child: allowed.
	require.NoError(t, s.SetActive(context.Background(), 2, 3, false))
	assert.False(t, repo.byID[3].IsActive)

	// Grandchild: refused.
	assert.ErrorIs(t, s.SetActive(context.Background(), 2, 4, false), ErrNotAllowed)

	// Super can disable anyone.
	require.NoError(t, s.SetActive(context.Background(), 1, 4, false))
	assert.False(t, repo.byID[4].IsActive)
}

func TestSetActiveRejectsSalesActor(t *testing.T) {
	repo := newMemRepo(
		&User{ID: 3, Role: RoleSales, IsActive: true},
		&User{ID: 4, Role: RoleSales, CreatedBy: ptr(3), IsActive: true},
	)
	s := NewUserService(repo)

	assert.ErrorIs(t, s.SetActive(context.Background(), 3, 4, false), ErrNotAllowed)
}

func TestListVisible(t *testing.T) {
	repo := newMemRepo(
		&User{ID: 1, Role: RoleSuper, IsActive: true},
		&User{ID: 2, Role: RoleAdmin, CreatedBy: ptr(1), IsActive: true},
		&User{ID: 3, Role: RoleSales, CreatedBy: ptr(2), IsActive: true},
	)
	s := NewUserService(repo)

	all, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	team, err := s.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, team, 2)
}

func TestGetByEmailRejectsDisabled(t *testing.T) {
	repo := newMemRepo(&User{ID: 1, Email: "off@agency.test", Role: RoleSales, IsActive: false})
	s := NewUserService(repo)

	_, err := s.GetByEmail(context.Background(), "off@agency.test")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}
