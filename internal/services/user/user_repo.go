package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const userColumns = `id, name, email, password_hash, role, permissions, is_active, created_by, created_at, updated_at`

// Repository is the persistence surface the service and the scope builder
// depend on. Tests substitute an in-memory implementation.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) (*User, error)
	ListVisible(ctx context.Context, viewer *User) ([]*User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, permissions, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	var created User
	err := r.db.GetContext(ctx, &created, query, u.Name, u.Email, u.PasswordHash, u.Role, u.Permissions, u.IsActive, u.CreatedBy)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &created, nil
}

// ListVisible returns the accounts the viewer may administer: everyone for
// super, self plus direct children for everyone else. Note this predicate is
// over users.id/users.created_by, not over owned records.
func (r *UserRepo) ListVisible(ctx context.Context, viewer *User) ([]*User, error) {
	users := []*User{}

	if viewer.Role == RoleSuper {
		query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
		if err := r.db.SelectContext(ctx, &users, query); err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return users, nil
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 OR created_by = $1
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &users, query, viewer.ID); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *UserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
