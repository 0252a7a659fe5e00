// Package scope derives the per-request visibility boundary used by every
// scoped query in the CRM. A scope is either unrestricted, or anchored to a
// single user id: a row is visible when its creator is the anchor or a
// direct child of the anchor. The anchor relationship is one level deep;
// records created further down the hierarchy are not visible.
package scope

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

// Scope is recomputed on every request and must never be cached across
// requests; role and hierarchy changes take effect on the next call.
type Scope struct {
	CanAccessAll bool  `json:"can_access_all"`
	AnchorID     int64 `json:"anchor_id"`
}

// ForUser derives the scope from a resolved user record.
//
//   - super: unrestricted.
//   - admin: anchored at the admin's own id (self + direct children).
//   - anything else: anchored at the user's creator, so a sales user shares
//     its creating admin's anchor. A sales user without a creator anchors at
//     itself and therefore sees only its own records.
func ForUser(u *user.User) Scope {
	switch u.Role {
	case user.RoleSuper:
		return Scope{CanAccessAll: true}
	case user.RoleAdmin:
		return Scope{AnchorID: u.ID}
	default:
		if u.CreatedBy != nil {
			return Scope{AnchorID: *u.CreatedBy}
		}
		return Scope{AnchorID: u.ID}
	}
}

// Builder resolves a user id to its scope. Resolution failures propagate:
// an unknown user never falls back to a default scope in either direction.
type Builder struct {
	users user.Repository
}

func NewBuilder(users user.Repository) *Builder {
	return &Builder{users: users}
}

func (b *Builder) ForUserID(ctx context.Context, userID int64) (Scope, error) {
	u, err := b.users.GetByID(ctx, userID)
	if err != nil {
		return Scope{}, err
	}
	return ForUser(u), nil
}

// Predicate renders the visibility condition for the table aliased by alias,
// binding the anchor once and referencing it from both placeholders. An
// unrestricted scope renders no condition at all.
func (s Scope) Predicate(alias string, argPos int) (string, []any) {
	if s.CanAccessAll {
		return "", nil
	}

	cond := fmt.Sprintf(
		"(%[1]s.created_by = $%[2]d OR %[1]s.created_by IN (SELECT id FROM users WHERE created_by = $%[2]d))",
		alias, argPos,
	)
	return cond, []any{s.AnchorID}
}

// RowVisible reports whether the row identified by id sits inside s. Writes
// that reference another entity use it so a caller cannot link records to
// rows outside their own boundary. Table and alias are always literals from
// the calling repository, never caller input.
func RowVisible(ctx context.Context, q sqlx.QueryerContext, s Scope, table, alias string, id int64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s %s WHERE %s.id = $1", table, alias, alias)
	args := []any{id}
	if cond, condArgs := s.Predicate(alias, 2); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	query += ")"

	var exists bool
	if err := sqlx.GetContext(ctx, q, &exists, query, args...); err != nil {
		return false, fmt.Errorf("failed to check row visibility: %w", err)
	}
	return exists, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike neutralizes LIKE metacharacters in a caller-supplied search
// term so it matches as literal text. The term itself is always passed as a
// bound argument, never interpolated into the statement.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// Contains wraps an escaped term with wildcards for substring matching.
func Contains(term string) string {
	return "%" + EscapeLike(term) + "%"
}
