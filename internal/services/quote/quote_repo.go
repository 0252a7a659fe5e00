package quote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tripdeskhq/tripdesk/internal/services/customer"
	"github.com/tripdeskhq/tripdesk/internal/services/lead"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

const quoteSelect = `
	SELECT q.id, q.lead_id, q.customer_id, q.quote_number, q.destination, q.amount,
	       q.status, q.valid_until, q.details, q.created_by, q.created_at, q.updated_at,
	       c.name AS customer_name, c.email AS customer_email, c.phone AS customer_phone,
	       u.name AS creator_name, u.role AS creator_role
	FROM quotes q
	JOIN customers c ON c.id = q.customer_id
	JOIN users u ON u.id = q.created_by`

type QuoteRepo struct {
	db *sqlx.DB
}

func NewQuoteRepo(db *sqlx.DB) *QuoteRepo {
	return &QuoteRepo{db: db}
}

func buildListQuery(s scope.Scope, f ListQuotesFilter) (query string, args []any, countQuery string, countArgs []any) {
	var conds []string

	if cond, condArgs := s.Predicate("q", len(args)+1); cond != "" {
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}
	if f.Status != nil {
		conds = append(conds, fmt.Sprintf("q.status = $%d", len(args)+1))
		args = append(args, *f.Status)
	}
	if f.Search != "" {
		n := len(args) + 1
		conds = append(conds, fmt.Sprintf("(q.quote_number ILIKE $%[1]d OR q.destination ILIKE $%[1]d OR q.details ILIKE $%[1]d)", n))
		args = append(args, scope.Contains(f.Search))
	}

	where := ""
	if len(conds) > 0 {
		where = "\n\tWHERE " + strings.Join(conds, " AND ")
	}

	countQuery = `SELECT COUNT(*) FROM quotes q` + where
	countArgs = append(countArgs, args...)

	query = quoteSelect + where + "\n\tORDER BY q.created_at DESC"
	if f.Page.Bounded() {
		query += fmt.Sprintf("\n\tLIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, f.Page.Limit, f.Page.Offset())
	}

	return query, args, countQuery, countArgs
}

func (r *QuoteRepo) List(ctx context.Context, s scope.Scope, f ListQuotesFilter) ([]*Quote, int, error) {
	query, args, countQuery, countArgs := buildListQuery(s, f)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count quotes: %w", err)
	}

	quotes := []*Quote{}
	if err := r.db.SelectContext(ctx, &quotes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list quotes: %w", err)
	}

	return quotes, total, nil
}

func (r *QuoteRepo) GetByID(ctx context.Context, s scope.Scope, id int64) (*Quote, error) {
	query := quoteSelect + "\n\tWHERE q.id = $1"
	args := []any{id}
	if cond, condArgs := s.Predicate("q", 2); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}

	var q Quote
	err := r.db.GetContext(ctx, &q, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return &q, nil
}

func (r *QuoteRepo) Create(ctx context.Context, s scope.Scope, creatorID int64, quoteNumber string, req *CreateQuoteRequest) (int64, error) {
	// Referenced rows must sit inside the caller's boundary; the customer
	// surfaces through the list joins and the lead links records together.
	visible, err := scope.RowVisible(ctx, r.db, s, "customers", "c", req.CustomerID)
	if err != nil {
		return 0, err
	}
	if !visible {
		return 0, customer.ErrCustomerNotFound
	}
	if req.LeadID != nil {
		visible, err = scope.RowVisible(ctx, r.db, s, "leads", "l", *req.LeadID)
		if err != nil {
			return 0, err
		}
		if !visible {
			return 0, lead.ErrLeadNotFound
		}
	}

	query := `
		INSERT INTO quotes (lead_id, customer_id, quote_number, destination, amount, status, valid_until, details, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id int64
	err = r.db.GetContext(ctx, &id, query,
		req.LeadID, req.CustomerID, quoteNumber, req.Destination, req.Amount,
		StatusDraft, req.ValidUntil, req.Details, creatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to create quote: %w", err)
	}
	return id, nil
}

func (r *QuoteRepo) Update(ctx context.Context, s scope.Scope, id int64, req *UpdateQuoteRequest) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if req.Destination != nil {
		set("destination", *req.Destination)
	}
	if req.Amount != nil {
		set("amount", *req.Amount)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.ValidUntil != nil {
		set("valid_until", *req.ValidUntil)
	}
	if req.Details != nil {
		set("details", *req.Details)
	}

	query := fmt.Sprintf("UPDATE quotes q SET %s WHERE q.id = $%d", strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)
	if cond, condArgs := s.Predicate("q", len(args)+1); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}
