package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tripdeskhq/tripdesk/internal/services/booking"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

const paymentSelect = `
	SELECT p.id, p.booking_id, p.amount, p.payment_method, p.status, p.transaction_ref,
	       p.paid_at, p.created_by, p.created_at, p.updated_at,
	       b.booking_reference,
	       c.name AS customer_name, c.email AS customer_email, c.phone AS customer_phone,
	       u.name AS creator_name, u.role AS creator_role
	FROM payments p
	JOIN bookings b ON b.id = p.booking_id
	JOIN customers c ON c.id = b.customer_id
	JOIN users u ON u.id = p.created_by`

type PaymentRepo struct {
	db *sqlx.DB
}

func NewPaymentRepo(db *sqlx.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func buildListQuery(s scope.Scope, f ListPaymentsFilter) (query string, args []any, countQuery string, countArgs []any) {
	var conds []string

	if cond, condArgs := s.Predicate("p", len(args)+1); cond != "" {
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}
	if f.Status != nil {
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)+1))
		args = append(args, *f.Status)
	}
	if f.Method != nil {
		conds = append(conds, fmt.Sprintf("p.payment_method = $%d", len(args)+1))
		args = append(args, *f.Method)
	}
	if f.Search != "" {
		n := len(args) + 1
		conds = append(conds, fmt.Sprintf("(p.transaction_ref ILIKE $%[1]d OR b.booking_reference ILIKE $%[1]d)", n))
		args = append(args, scope.Contains(f.Search))
	}

	where := ""
	if len(conds) > 0 {
		where = "\n\tWHERE " + strings.Join(conds, " AND ")
	}

	// The search condition references the joined booking, so the count query
	// carries the same join.
	countQuery = `SELECT COUNT(*) FROM payments p JOIN bookings b ON b.id = p.booking_id` + where
	countArgs = append(countArgs, args...)

	query = paymentSelect + where + "\n\tORDER BY p.created_at DESC"
	if f.Page.Bounded() {
		query += fmt.Sprintf("\n\tLIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, f.Page.Limit, f.Page.Offset())
	}

	return query, args, countQuery, countArgs
}

func (r *PaymentRepo) List(ctx context.Context, s scope.Scope, f ListPaymentsFilter) ([]*Payment, int, error) {
	query, args, countQuery, countArgs := buildListQuery(s, f)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	payments := []*Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, total, nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, s scope.Scope, id int64) (*Payment, error) {
	query := paymentSelect + "\n\tWHERE p.id = $1"
	args := []any{id}
	if cond, condArgs := s.Predicate("p", 2); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}

	var p Payment
	err := r.db.GetContext(ctx, &p, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

func (r *PaymentRepo) Create(ctx context.Context, s scope.Scope, creatorID int64, transactionRef string, req *CreatePaymentRequest) (int64, error) {
	// A payment inherits its booking's customer through the list joins, so a
	// booking outside the caller's boundary must not be referenced.
	visible, err := scope.RowVisible(ctx, r.db, s, "bookings", "b", req.BookingID)
	if err != nil {
		return 0, err
	}
	if !visible {
		return 0, booking.ErrBookingNotFound
	}

	query := `
		INSERT INTO payments (booking_id, amount, payment_method, status, transaction_ref, paid_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err = r.db.GetContext(ctx, &id, query,
		req.BookingID, req.Amount, req.Method, StatusPending, transactionRef, req.PaidAt, creatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to create payment: %w", err)
	}
	return id, nil
}

func (r *PaymentRepo) Update(ctx context.Context, s scope.Scope, id int64, req *UpdatePaymentRequest) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if req.Amount != nil {
		set("amount", *req.Amount)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.PaidAt != nil {
		set("paid_at", *req.PaidAt)
	}

	query := fmt.Sprintf("UPDATE payments p SET %s WHERE p.id = $%d", strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)
	if cond, condArgs := s.Predicate("p", len(args)+1); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
