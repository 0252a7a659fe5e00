package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

const customerSelect = `
	SELECT c.id, c.name, c.email, c.phone, c.address, c.city, c.country,
	       c.created_by, c.created_at, c.updated_at,
	       u.name AS creator_name, u.role AS creator_role
	FROM customers c
	JOIN users u ON u.id = c.created_by`

type CustomerRepo struct {
	db *sqlx.DB
}

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func buildListQuery(s scope.Scope, f ListCustomersFilter) (query string, args []any, countQuery string, countArgs []any) {
	var conds []string

	if cond, condArgs := s.Predicate("c", len(args)+1); cond != "" {
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}
	if f.Country != nil {
		conds = append(conds, fmt.Sprintf("c.country = $%d", len(args)+1))
		args = append(args, *f.Country)
	}
	if f.Search != "" {
		n := len(args) + 1
		conds = append(conds, fmt.Sprintf("(c.name ILIKE $%[1]d OR c.email ILIKE $%[1]d OR c.phone ILIKE $%[1]d)", n))
		args = append(args, scope.Contains(f.Search))
	}

	where := ""
	if len(conds) > 0 {
		where = "\n\tWHERE " + strings.Join(conds, " AND ")
	}

	countQuery = `SELECT COUNT(*) FROM customers c` + where
	countArgs = append(countArgs, args...)

	query = customerSelect + where + "\n\tORDER BY c.created_at DESC"
	if f.Page.Bounded() {
		query += fmt.Sprintf("\n\tLIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, f.Page.Limit, f.Page.Offset())
	}

	return query, args, countQuery, countArgs
}

func (r *CustomerRepo) List(ctx context.Context, s scope.Scope, f ListCustomersFilter) ([]*Customer, int, error) {
	query, args, countQuery, countArgs := buildListQuery(s, f)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	customers := []*Customer{}
	if err := r.db.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, total, nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, s scope.Scope, id int64) (*Customer, error) {
	query := customerSelect + "\n\tWHERE c.id = $1"
	args := []any{id}
	if cond, condArgs := s.Predicate("c", 2); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}

	var c Customer
	err := r.db.GetContext(ctx, &c, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, creatorID int64, req *CreateCustomerRequest) (int64, error) {
	query := `
		INSERT INTO customers (name, email, phone, address, city, country, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		req.Name, req.Email, req.Phone, req.Address, req.City, req.Country, creatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to create customer: %w", err)
	}
	return id, nil
}

func (r *CustomerRepo) Update(ctx context.Context, s scope.Scope, id int64, req *UpdateCustomerRequest) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}
	if req.City != nil {
		set("city", *req.City)
	}
	if req.Country != nil {
		set("country", *req.Country)
	}

	query := fmt.Sprintf("UPDATE customers c SET %s WHERE c.id = $%d", strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)
	if cond, condArgs := s.Predicate("c", len(args)+1); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
