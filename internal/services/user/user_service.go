package user

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo Repository
}

func NewUserService(repo Repository) *UserService {
	return &UserService{repo: repo}
}

// Authenticate verifies the email/password pair. Disabled accounts are
// rejected even with a correct password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail maps an external identity onto a local account. Disabled
// accounts do not resolve.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// Create adds an account under the acting user. Only super and admin roles
// may create accounts, and only a super user may create another super user.
// The creator reference anchors the new account in the visibility hierarchy.
func (s *UserService) Create(ctx context.Context, actorID int64, req *CreateUserRequest) (*User, error) {
	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if !actor.Role.CanCreateUsers() {
		return nil, ErrNotAllowed
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}
	if req.Role == RoleSuper && actor.Role != RoleSuper {
		return nil, ErrNotAllowed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	createdBy := actor.ID
	return s.repo.Create(ctx, &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         req.Role,
		Permissions:  req.Permissions,
		IsActive:     true,
		CreatedBy:    &createdBy,
	})
}

// List returns the accounts visible to the acting user.
func (s *UserService) List(ctx context.Context, actorID int64) ([]*User, error) {
	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListVisible(ctx, actor)
}

// SetActive soft-invalidates or restores an account. Accounts are never hard
// deleted here; historical created_by links stay intact.
func (s *UserService) SetActive(ctx context.Context, actorID, targetID int64, active bool) error {
	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.Role.CanCreateUsers() {
		return ErrNotAllowed
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if actor.Role != RoleSuper {
		if target.CreatedBy == nil || *target.CreatedBy != actor.ID {
			return ErrNotAllowed
		}
	}

	return s.repo.SetActive(ctx, targetID, active)
}
