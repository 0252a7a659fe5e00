package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tripdeskhq/tripdesk/internal/services/customer"
	"github.com/tripdeskhq/tripdesk/internal/services/quote"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

const bookingSelect = `
	SELECT b.id, b.quote_id, b.customer_id, b.booking_reference, b.destination,
	       b.start_date, b.end_date, b.total_amount, b.status, b.notes,
	       b.created_by, b.created_at, b.updated_at,
	       c.name AS customer_name, c.email AS customer_email, c.phone AS customer_phone,
	       u.name AS creator_name, u.role AS creator_role
	FROM bookings b
	JOIN customers c ON c.id = b.customer_id
	JOIN users u ON u.id = b.created_by`

type BookingRepo struct {
	db *sqlx.DB
}

func NewBookingRepo(db *sqlx.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func buildListQuery(s scope.Scope, f ListBookingsFilter) (query string, args []any, countQuery string, countArgs []any) {
	var conds []string

	if cond, condArgs := s.Predicate("b", len(args)+1); cond != "" {
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}
	if f.Status != nil {
		conds = append(conds, fmt.Sprintf("b.status = $%d", len(args)+1))
		args = append(args, *f.Status)
	}
	if f.Search != "" {
		n := len(args) + 1
		conds = append(conds, fmt.Sprintf("(b.booking_reference ILIKE $%[1]d OR b.destination ILIKE $%[1]d OR b.notes ILIKE $%[1]d)", n))
		args = append(args, scope.Contains(f.Search))
	}

	where := ""
	if len(conds) > 0 {
		where = "\n\tWHERE " + strings.Join(conds, " AND ")
	}

	countQuery = `SELECT COUNT(*) FROM bookings b` + where
	countArgs = append(countArgs, args...)

	query = bookingSelect + where + "\n\tORDER BY b.created_at DESC"
	if f.Page.Bounded() {
		query += fmt.Sprintf("\n\tLIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, f.Page.Limit, f.Page.Offset())
	}

	return query, args, countQuery, countArgs
}

func (r *BookingRepo) List(ctx context.Context, s scope.Scope, f ListBookingsFilter) ([]*Booking, int, error) {
	query, args, countQuery, countArgs := buildListQuery(s, f)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings := []*Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, s scope.Scope, id int64) (*Booking, error) {
	query := bookingSelect + "\n\tWHERE b.id = $1"
	args := []any{id}
	if cond, condArgs := s.Predicate("b", 2); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}

	var b Booking
	err := r.db.GetContext(ctx, &b, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepo) Create(ctx context.Context, s scope.Scope, creatorID int64, reference string, req *CreateBookingRequest) (int64, error) {
	visible, err := scope.RowVisible(ctx, r.db, s, "customers", "c", req.CustomerID)
	if err != nil {
		return 0, err
	}
	if !visible {
		return 0, customer.ErrCustomerNotFound
	}
	if req.QuoteID != nil {
		visible, err = scope.RowVisible(ctx, r.db, s, "quotes", "q", *req.QuoteID)
		if err != nil {
			return 0, err
		}
		if !visible {
			return 0, quote.ErrQuoteNotFound
		}
	}

	query := `
		INSERT INTO bookings (quote_id, customer_id, booking_reference, destination, start_date, end_date, total_amount, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id int64
	err = r.db.GetContext(ctx, &id, query,
		req.QuoteID, req.CustomerID, reference, req.Destination, req.StartDate,
		req.EndDate, req.TotalAmount, StatusPending, req.Notes, creatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to create booking: %w", err)
	}
	return id, nil
}

func (r *BookingRepo) Update(ctx context.Context, s scope.Scope, id int64, req *UpdateBookingRequest) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if req.Destination != nil {
		set("destination", *req.Destination)
	}
	if req.StartDate != nil {
		set("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		set("end_date", *req.EndDate)
	}
	if req.TotalAmount != nil {
		set("total_amount", *req.TotalAmount)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.Notes != nil {
		set("notes", *req.Notes)
	}

	query := fmt.Sprintf("UPDATE bookings b SET %s WHERE b.id = $%d", strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)
	if cond, condArgs := s.Predicate("b", len(args)+1); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
