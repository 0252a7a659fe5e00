package scope

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

type memUsers struct {
	byID map[int64]*user.User
}

func newMemUsers(users ...*user.User) *memUsers {
	m := &memUsers{byID: map[int64]*user.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, u *user.User) (*user.User, error) {
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) ListVisible(_ context.Context, viewer *user.User) ([]*user.User, error) {
	out := []*user.User{}
	for _, u := range m.byID {
		if viewer.Role == user.RoleSuper || u.ID == viewer.ID || (u.CreatedBy != nil && *u.CreatedBy == viewer.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := m.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func ptr(v int64) *int64 { return &v }

func TestForUserSuper(t *testing.T) {
	sc := ForUser(&user.User{ID: 1, Role: user.RoleSuper})
	assert.True(t, sc.CanAccessAll)
}

func TestForUserAdminAnchorsAtSelf(t *testing.T) {
	sc := ForUser(&user.User{ID: 2, Role: user.RoleAdmin, CreatedBy: ptr(1)})
	assert.False(t, sc.CanAccessAll)
	assert.Equal(t, int64(2), sc.AnchorID)
}

func TestForUserSalesAnchorsAtCreator(t *testing.T) {
	sc := ForUser(&user.User{ID: 3, Role: user.RoleSales, CreatedBy: ptr(2)})
	assert.False(t, sc.CanAccessAll)
	assert.Equal(t, int64(2), sc.AnchorID)
}

func TestSalesWithoutCreatorAnchorsAtSelf(t *testing.T) {
	sc := ForUser(&user.User{ID: 9, Role: user.RoleSales})
	assert.False(t, sc.CanAccessAll)
	assert.Equal(t, int64(9), sc.AnchorID)
}

func TestBuilderFailsClosedOnUnknownUser(t *testing.T) {
	b := NewBuilder(newMemUsers())

	_, err := b.ForUserID(context.Background(), 42)
	require.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestBuilderResolvesScope(t *testing.T) {
	users := newMemUsers(
		&user.User{ID: 1, Role: user.RoleSuper},
		&user.User{ID: 2, Role: user.RoleAdmin, CreatedBy: ptr(1)},
		&user.User{ID: 3, Role: user.RoleSales, CreatedBy: ptr(2)},
	)
	b := NewBuilder(users)

	sc, err := b.ForUserID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, Scope{AnchorID: 2}, sc)
}

func TestPredicateRendersOneBoundAnchor(t *testing.T) {
	sc := Scope{AnchorID: 7}

	cond, args := sc.Predicate("l", 3)
	assert.Equal(t, "(l.created_by = $3 OR l.created_by IN (SELECT id FROM users WHERE created_by = $3))", cond)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestPredicateUnrestricted(t *testing.T) {
	sc := Scope{CanAccessAll: true}

	cond, args := sc.Predicate("l", 1)
	assert.Empty(t, cond)
	assert.Nil(t, args)
}

// visibleTo mirrors the SQL predicate: a row is visible when its creator is
// the anchor or a direct child of the anchor.
func visibleTo(sc Scope, createdBy int64, users *memUsers) bool {
	if sc.CanAccessAll {
		return true
	}
	if createdBy == sc.AnchorID {
		return true
	}
	creator, ok := users.byID[createdBy]
	if !ok {
		return false
	}
	return creator.CreatedBy != nil && *creator.CreatedBy == sc.AnchorID
}

func TestAdminScopeExcludesGrandchildren(t *testing.T) {
	users := newMemUsers(
		&user.User{ID: 1, Role: user.RoleSuper},
		&user.User{ID: 2, Role: user.RoleAdmin, CreatedBy: ptr(1)},
		&user.User{ID: 3, Role: user.RoleSales, CreatedBy: ptr(2)},
		&user.User{ID: 4, Role: user.RoleSales, CreatedBy: ptr(3)},
	)

	adminScope := ForUser(users.byID[2])

	assert.True(t, visibleTo(adminScope, 2, users), "own records")
	assert.True(t, visibleTo(adminScope, 3, users), "direct child records")
	assert.False(t, visibleTo(adminScope, 4, users), "grandchild records stay hidden")
}

// Four users, three record creators: the full visibility matrix for an
// agency with one super user, one admin and two sales users under the admin.
func TestVisibilityMatrix(t *testing.T) {
	users := newMemUsers(
		&user.User{ID: 1, Role: user.RoleSuper},
		&user.User{ID: 2, Role: user.RoleAdmin, CreatedBy: ptr(1)},
		&user.User{ID: 3, Role: user.RoleSales, CreatedBy: ptr(2)},
		&user.User{ID: 4, Role: user.RoleSales, CreatedBy: ptr(2)},
	)

	cases := []struct {
		name      string
		viewer    int64
		createdBy int64
		visible   bool
	}{
		{"super sees admin's record", 1, 2, true},
		{"super sees sales record", 1, 3, true},
		{"admin sees own record", 2, 2, true},
		{"admin sees first sales record", 2, 3, true},
		{"admin sees second sales record", 2, 4, true},
		{"sales sees own record", 3, 3, true},
		{"sales sees sibling record", 3, 4, true},
		{"sales sees admin's record", 3, 2, true},
		{"sales does not see super's record", 3, 1, false},
		{"admin does not see super's record", 2, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc := ForUser(users.byID[tc.viewer])
			assert.Equal(t, tc.visible, visibleTo(sc, tc.createdBy, users))
		})
	}
}

// An agency with an admin-run team and one orphan sales user: the orphan's
// records stay private to them (and the super user), and the orphan sees
// nothing of the admin's team.
func TestVisibilityWithOrphanSales(t *testing.T) {
	users := newMemUsers(
		&user.User{ID: 1, Role: user.RoleSuper},
		&user.User{ID: 2, Role: user.RoleAdmin},
		&user.User{ID: 3, Role: user.RoleSales, CreatedBy: ptr(2)},
		&user.User{ID: 4, Role: user.RoleSales},
	)

	// One lead per creator.
	leadCreators := map[string]int64{"L1": 2, "L2": 3, "L3": 4}
	leadNames := []string{"L1", "L2", "L3"}

	expected := map[int64][]string{
		1: {"L1", "L2", "L3"},
		2: {"L1", "L2"},
		3: {"L1", "L2"},
		4: {"L3"},
	}

	for viewer, want := range expected {
		sc := ForUser(users.byID[viewer])

		got := []string{}
		for _, name := range leadNames {
			if visibleTo(sc, leadCreators[name], users) {
				got = append(got, name)
			}
		}

		assert.Equal(t, want, got, "viewer %d", viewer)
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%`, EscapeLike("50%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\temp`, EscapeLike(`c:\temp`))
	assert.Equal(t, "paris", EscapeLike("paris"))
}

func TestContainsWrapsEscapedTerm(t *testing.T) {
	got := Contains("100%_sure")
	assert.True(t, strings.HasPrefix(got, "%"))
	assert.True(t, strings.HasSuffix(got, "%"))
	assert.Equal(t, `%100\%\_sure%`, got)
}
