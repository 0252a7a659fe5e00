package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tripdeskhq/tripdesk/internal/services/customer"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

const leadSelect = `
	SELECT l.id, l.customer_id, l.contact_name, l.contact_email, l.contact_phone,
	       l.source, l.destination, l.travel_date, l.travelers, l.status, l.priority,
	       l.notes, l.created_by, l.created_at, l.updated_at,
	       c.name AS customer_name, c.email AS customer_email, c.phone AS customer_phone,
	       u.name AS creator_name, u.role AS creator_role
	FROM leads l
	LEFT JOIN customers c ON c.id = l.customer_id
	JOIN users u ON u.id = l.created_by`

type LeadRepo struct {
	db *sqlx.DB
}

func NewLeadRepo(db *sqlx.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

// buildListQuery assembles the list and count statements. Every
// caller-influenced value is bound through a placeholder; the statement text
// only ever contains column names and operators.
func buildListQuery(s scope.Scope, f ListLeadsFilter) (query string, args []any, countQuery string, countArgs []any) {
	var conds []string

	if cond, condArgs := s.Predicate("l", len(args)+1); cond != "" {
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}
	if f.Status != nil {
		conds = append(conds, fmt.Sprintf("l.status = $%d", len(args)+1))
		args = append(args, *f.Status)
	}
	if f.Priority != nil {
		conds = append(conds, fmt.Sprintf("l.priority = $%d", len(args)+1))
		args = append(args, *f.Priority)
	}
	if f.Search != "" {
		n := len(args) + 1
		conds = append(conds, fmt.Sprintf("(l.source ILIKE $%[1]d OR l.destination ILIKE $%[1]d OR l.notes ILIKE $%[1]d)", n))
		args = append(args, scope.Contains(f.Search))
	}

	where := ""
	if len(conds) > 0 {
		where = "\n\tWHERE " + strings.Join(conds, " AND ")
	}

	countQuery = `SELECT COUNT(*) FROM leads l` + where
	countArgs = append(countArgs, args...)

	query = leadSelect + where + "\n\tORDER BY l.created_at DESC"
	if f.Page.Bounded() {
		query += fmt.Sprintf("\n\tLIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, f.Page.Limit, f.Page.Offset())
	}

	return query, args, countQuery, countArgs
}

func (r *LeadRepo) List(ctx context.Context, s scope.Scope, f ListLeadsFilter) ([]*Lead, int, error) {
	query, args, countQuery, countArgs := buildListQuery(s, f)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	leads := []*Lead{}
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, total, nil
}

// GetByID applies the scope predicate, so an out-of-scope lead is
// indistinguishable from an absent one.
func (r *LeadRepo) GetByID(ctx context.Context, s scope.Scope, id int64) (*Lead, error) {
	query := leadSelect + "\n\tWHERE l.id = $1"
	args := []any{id}
	if cond, condArgs := s.Predicate("l", 2); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}

	var l Lead
	err := r.db.GetContext(ctx, &l, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return &l, nil
}

func (r *LeadRepo) Create(ctx context.Context, s scope.Scope, creatorID int64, req *CreateLeadRequest) (int64, error) {
	if req.CustomerID != nil {
		visible, err := scope.RowVisible(ctx, r.db, s, "customers", "c", *req.CustomerID)
		if err != nil {
			return 0, err
		}
		if !visible {
			return 0, customer.ErrCustomerNotFound
		}
	}

	query := `
		INSERT INTO leads (customer_id, contact_name, contact_email, contact_phone, source,
		                   destination, travel_date, travelers, status, priority, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		req.CustomerID, req.ContactName, req.ContactEmail, req.ContactPhone, req.Source,
		req.Destination, req.TravelDate, req.Travelers, StatusNew, priority, req.Notes, creatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to create lead: %w", err)
	}
	return id, nil
}

func (r *LeadRepo) Update(ctx context.Context, s scope.Scope, id int64, req *UpdateLeadRequest) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if req.CustomerID != nil {
		visible, err := scope.RowVisible(ctx, r.db, s, "customers", "c", *req.CustomerID)
		if err != nil {
			return err
		}
		if !visible {
			return customer.ErrCustomerNotFound
		}
		set("customer_id", *req.CustomerID)
	}
	if req.Source != nil {
		set("source", *req.Source)
	}
	if req.Destination != nil {
		set("destination", *req.Destination)
	}
	if req.TravelDate != nil {
		set("travel_date", *req.TravelDate)
	}
	if req.Travelers != nil {
		set("travelers", *req.Travelers)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.Priority != nil {
		set("priority", *req.Priority)
	}
	if req.Notes != nil {
		set("notes", *req.Notes)
	}

	query := fmt.Sprintf("UPDATE leads l SET %s WHERE l.id = $%d", strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)
	if cond, condArgs := s.Predicate("l", len(args)+1); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}
