package user

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

type Role string

const (
	RoleSuper Role = "super"
	RoleAdmin Role = "admin"
	RoleSales Role = "sales"
)

// Valid reports whether r is one of the known roles. Role columns carry a
// CHECK constraint with the same set, so this only guards request input.
func (r Role) Valid() bool {
	switch r {
	case RoleSuper, RoleAdmin, RoleSales:
		return true
	}
	return false
}

// CanCreateUsers reports whether a user with this role may create accounts.
func (r Role) CanCreateUsers() bool {
	return r == RoleSuper || r == RoleAdmin
}

// PermissionAll is the wildcard capability tag.
const PermissionAll = "all"

type User struct {
	ID           int64          `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         Role           `db:"role" json:"role"`
	Permissions  pq.StringArray `db:"permissions" json:"permissions"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	CreatedBy    *int64         `db:"created_by" json:"created_by"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

type CreateUserRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("a user with this email already exists")
	ErrNotAllowed      = errors.New("role is not allowed to perform this action")
	ErrAccountDisabled = errors.New("account is disabled")
	ErrInvalidPassword = errors.New("invalid password")
)
